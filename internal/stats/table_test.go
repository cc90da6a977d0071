package stats

import (
	"bytes"
	"testing"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Word", "Defense", "Breached"}
	rows := [][]string{
		{"DDOS", "97.50%", "12"},
		{"ZERO DAY", "8.00%", "3"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Word     Defense Breached" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "DDOS      97.50%       12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "ZERO DAY   8.00%        3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestRenderTableUsesDisplayWidth(t *testing.T) {
	var buf bytes.Buffer
	err := RenderTable(&buf, []string{"WORD", "LEVEL"}, [][]string{{"暗号", "2"}, {"DDOS", "1"}}, map[int]bool{1: true})
	if err != nil {
		t.Fatalf("RenderTable failed: %v", err)
	}
	want := "WORD LEVEL\n暗号     2\nDDOS     1\n"
	if buf.String() != want {
		t.Fatalf("unexpected table:\n%q\nwant\n%q", buf.String(), want)
	}
}
