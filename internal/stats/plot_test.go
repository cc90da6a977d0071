package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
		{Name: "Empty"},
	}, 12, 4, false)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Test Plot") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "A: min=1.00 max=3.00") {
		t.Fatalf("expected range line in output: %s", out)
	}
	if strings.Contains(out, "Empty") {
		t.Fatalf("empty series should be skipped")
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatalf("expected legend in output")
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if expected := 1 + 2 + 4 + 1; len(lines) != expected {
		t.Fatalf("expected %d lines of output, got %d", expected, len(lines))
	}
}

func TestPlotSeriesEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "Nothing", nil, 10, 4, false); err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got != 77 {
		t.Fatalf("expected width 77, got %d", got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestResampleEndpoints(t *testing.T) {
	out := resample([]float64{0, 10}, 3)
	if len(out) != 3 || out[0] != 0 || out[1] != 5 || out[2] != 10 {
		t.Fatalf("unexpected resample: %v", out)
	}
}

func TestResampleKeepsPeakWhenStretching(t *testing.T) {
	out := resample([]float64{1, 2, 3, 2, 1}, 12)
	if lo, hi := minMax(out); lo != 1 || hi != 3 {
		t.Fatalf("expected range 1..3 after stretch, got %.2f..%.2f (%v)", lo, hi, out)
	}
}

func TestResampleKeepsExtremesWhenShrinking(t *testing.T) {
	values := []float64{0, 0, 9, 0, 0, 0, 0, 0, -4, 0}
	out := resample(values, 3)
	if len(out) != 3 {
		t.Fatalf("expected 3 points, got %d", len(out))
	}
	if lo, hi := minMax(out); lo != -4 || hi != 9 {
		t.Fatalf("expected range -4..9 after shrink, got %.2f..%.2f (%v)", lo, hi, out)
	}
}

func TestPlotSeriesRangeUsesSourceData(t *testing.T) {
	var buf bytes.Buffer
	values := make([]float64, 200)
	values[101] = 42
	if err := PlotSeries(&buf, "", []Series{{Name: "spike", Values: values}}, 12, 4, false); err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if !strings.Contains(buf.String(), "spike: min=0.00 max=42.00") {
		t.Fatalf("expected source range in output: %s", buf.String())
	}
}
