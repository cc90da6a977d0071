package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/hackblitz/internal/game"
)

const (
	fieldExtent = 100.0
	barWidth    = 10
)

var blankCell = styledRune{s: " ", width: 1, isSpace: true}

// canvas is a character grid addressed in the game's 0..100 logical space.
type canvas struct {
	cols  int
	rows  int
	cells [][]styledRune
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows, cells: make([][]styledRune, rows)}
	for i := range c.cells {
		row := make([]styledRune, cols)
		for j := range row {
			row[j] = blankCell
		}
		c.cells[i] = row
	}
	return c
}

func (c *canvas) col(x float64) int {
	return int(x / fieldExtent * float64(c.cols))
}

func (c *canvas) row(y float64) int {
	return int(y / fieldExtent * float64(c.rows))
}

// place writes runes centered on col, shifted to stay inside the grid.
func (c *canvas) place(row, col int, runes []styledRune) {
	if row < 0 || row >= c.rows || len(runes) == 0 {
		return
	}
	width := lineWidthOf(runes)
	start := col - width/2
	start = max(0, min(start, c.cols-width))
	for i, r := range runes {
		if idx := start + i; idx >= 0 && idx < c.cols {
			c.cells[row][idx] = r
		}
	}
}

func (c *canvas) String() string {
	lines := make([]string, c.rows)
	for i, row := range c.cells {
		lines[i] = renderStyledRunes(row)
	}
	return strings.Join(lines, "\n")
}

// activeThreat returns the id of the lowest live threat whose word starts with input.
func activeThreat(threats []game.Threat, input string) (int64, bool) {
	if input == "" {
		return 0, false
	}
	var id int64
	bestY := 0.0
	found := false
	for _, t := range threats {
		if t.Hit || t.Targeted || !strings.HasPrefix(t.Word, input) {
			continue
		}
		if !found || t.Y > bestY {
			id, bestY, found = t.ID, t.Y, true
		}
	}
	return id, found
}

func renderField(s game.Session, rules game.Rules, cols, rows int) string {
	c := newCanvas(cols, rows)
	if line := c.row(rules.BreachLine); line < rows {
		c.place(line, cols/2, plainRunes(strings.Repeat("─", cols), breachLineStyle))
	}

	activeID, hasActive := activeThreat(s.Threats, s.Input)
	for _, t := range s.Threats {
		var label []styledRune
		switch {
		case t.Hit:
			label = plainRunes(t.Word, hitStyle)
		case t.Targeted:
			label = plainRunes(t.Word, lockedStyle)
		case hasActive && t.ID == activeID:
			label = buildLabel(t.Word, s.Input, pendingStyle)
		default:
			label = buildLabel(t.Word, "", pendingStyle)
		}
		c.place(c.row(t.Y), c.col(t.X), label)
	}
	for _, p := range s.Projectiles {
		x, y := p.Position()
		c.place(c.row(y), c.col(x), plainRunes("*", projectileStyle))
	}
	return c.String()
}

func renderHUD(s game.Session, rules game.Rules, width int) string {
	target := s.Target(rules)
	segments := []string{
		titleStyle.Render(fmt.Sprintf("SECTOR %d", s.Level)),
		fmt.Sprintf("OBJ %s %d/%d", bar(s.Progress, target, barWidth), s.Progress, target),
		shieldStyle(s.Shield, rules.MaxShield).Render(fmt.Sprintf("SHIELD %s %d", bar(s.Shield, rules.MaxShield, barWidth), s.Shield)),
		fmt.Sprintf("XP %d", s.Score),
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(segments, "  "))
}

func bar(value, limit, width int) string {
	if limit <= 0 || width <= 0 {
		return ""
	}
	filled := value * width / limit
	filled = max(0, min(filled, width))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func shieldStyle(shield, limit int) lipgloss.Style {
	switch {
	case shield*10 > limit*6:
		return hitStyle
	case shield*10 > limit*3:
		return currentWordStyle
	default:
		return incorrectStyle
	}
}
