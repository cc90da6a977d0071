package tui

import (
	"strings"
	"testing"
)

func TestRenderFooterFormats(t *testing.T) {
	m := &Model{
		hasLast:   true,
		lastScore: 350,
		bestScore: 900,
		allXP:     4200,
		runs:      12,
	}
	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"Last 350 XP", "Best 900 XP", "All-time 4200 XP", "12 runs"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterWithoutHistory(t *testing.T) {
	m := &Model{}
	out := m.renderFooter()
	if strings.Contains(out, "Last") {
		t.Fatalf("expected no last segment: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
