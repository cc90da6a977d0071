package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/hackblitz/internal/model"
)

func TestRunMetrics(t *testing.T) {
	xpm, wpm, defense := RunMetrics(350, 7, 3, 120000)
	if xpm != 175 || wpm != 3.5 {
		t.Fatalf("unexpected rates: xpm=%f wpm=%f", xpm, wpm)
	}
	if defense != 0.7 {
		t.Fatalf("unexpected defense: %f", defense)
	}
	if xpm, wpm, _ := RunMetrics(100, 2, 0, 0); xpm != 0 || wpm != 0 {
		t.Fatalf("expected zero rates without duration")
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %f, got %f", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
}

func TestRenderSummary(t *testing.T) {
	runs := []model.RunAggregate{
		{RunID: 1, Score: 350, Level: 2, Decrypted: 7, Breached: 3, DurationMs: 60000},
		{RunID: 2, Score: 150, Level: 1, Decrypted: 3, Breached: 7, DurationMs: 60000},
	}
	var buf bytes.Buffer
	if err := RenderSummary(&buf, runs); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Runs: 2", "Total XP: 500", "Best score: 350", "Highest sector: 2", "Avg XP/min: 250.00", "Defense rate: 50.00%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q: %s", want, out)
		}
	}
}

func TestRenderWordTableSortsByDefense(t *testing.T) {
	var buf bytes.Buffer
	err := RenderWordTable(&buf, []model.WordAggregate{
		{Word: "MALWARE", Decrypted: 4, Breached: 0},
		{Word: "DDOS", Decrypted: 1, Breached: 1},
	})
	if err != nil {
		t.Fatalf("render table: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if !strings.HasPrefix(lines[2], "DDOS") || !strings.HasPrefix(lines[3], "MALWARE") {
		t.Fatalf("unexpected order: %q", lines)
	}
}
