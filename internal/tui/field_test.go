package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/hackblitz/internal/game"
)

func TestActiveThreatPicksLowestPrefixMatch(t *testing.T) {
	threats := []game.Threat{
		{ID: 1, Word: "MALWARE", Y: 20},
		{ID: 2, Word: "MALWARE", Y: 60},
		{ID: 3, Word: "DDOS", Y: 80},
		{ID: 4, Word: "MALWARE", Y: 70, Targeted: true},
	}
	id, ok := activeThreat(threats, "MAL")
	if !ok || id != 2 {
		t.Fatalf("expected threat 2, got %d (%v)", id, ok)
	}
	if _, ok := activeThreat(threats, ""); ok {
		t.Fatalf("expected no active threat for empty input")
	}
	if _, ok := activeThreat(threats, "X"); ok {
		t.Fatalf("expected no active threat without a prefix match")
	}
}

func TestCanvasPlaceClampsToEdges(t *testing.T) {
	c := newCanvas(10, 2)
	c.place(0, 0, plainRunes("ABCD", pendingStyle))
	c.place(1, 10, plainRunes("XY", pendingStyle))
	c.place(5, 5, plainRunes("Z", pendingStyle))
	if c.cells[0][0].s != pendingStyle.Render("A") {
		t.Fatalf("expected label clamped to the left edge")
	}
	if c.cells[1][9].s != pendingStyle.Render("Y") {
		t.Fatalf("expected label clamped to the right edge")
	}
}

func TestRenderFieldDimensions(t *testing.T) {
	rules := game.DefaultRules()
	s := game.NewSession(rules)
	s.Threats = []game.Threat{{ID: 1, Word: "DDOS", X: 50, Y: 40}}
	s.Projectiles = []game.Projectile{{ID: 2, StartX: 50, StartY: 95, TargetX: 50, TargetY: 40, Progress: 0.5}}
	out := renderField(s, rules, 40, 10)
	lines := strings.Split(out, "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(lines))
	}
	if !strings.Contains(out, "─") {
		t.Fatalf("expected breach line")
	}
}

func TestBar(t *testing.T) {
	if got := bar(5, 10, 10); got != "[█████░░░░░]" {
		t.Fatalf("unexpected bar %q", got)
	}
	if got := bar(150, 100, 4); got != "[████]" {
		t.Fatalf("expected clamped bar, got %q", got)
	}
}
