package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series is a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight = 8
	minPlotWidth      = 10
	fallbackTermWidth = 80
	axisSeparator     = " ┤ "
	colorReset        = "\x1b[0m"
)

var seriesColors = []string{"\x1b[36m", "\x1b[33m", "\x1b[35m", "\x1b[32m"}

// PlotSeries renders braille line charts, each series scaled to its own min/max.
// A width of 0 fits the current terminal.
func PlotSeries(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	kept := series[:0:0]
	for _, s := range series {
		if len(s.Values) > 0 {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	// Each braille cell holds a 2x4 dot grid.
	dotsW, dotsH := width*2, height*4
	grid := make([][]uint8, height)
	owner := make([][]int, height)
	for y := range grid {
		grid[y] = make([]uint8, width)
		owner[y] = make([]int, width)
		for x := range owner[y] {
			owner[y][x] = -1
		}
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for si, s := range kept {
		lo, hi := minMax(s.Values)
		values := resample(s.Values, dotsW/2)
		if _, err := fmt.Fprintf(w, "%s: min=%.2f max=%.2f\n", s.Name, lo, hi); err != nil {
			return err
		}
		if hi-lo < 1e-9 {
			lo--
			hi++
		}
		prevX, prevY := -1, -1
		for i, v := range values {
			x := i * 2
			y := int(math.Round((1 - (v-lo)/(hi-lo)) * float64(dotsH-1)))
			if prevX < 0 {
				prevX, prevY = x, y
			}
			line(prevX, prevY, x, y, func(px, py int) {
				setDot(grid, owner, px, py, si)
			})
			prevX, prevY = x, y
		}
	}

	useColor := shouldUseColor(w, forceColor)
	for y := 0; y < height; y++ {
		var row strings.Builder
		row.WriteString(axisSeparator)
		for x := 0; x < width; x++ {
			ch := rune(0x2800 + int(grid[y][x]))
			if useColor && owner[y][x] >= 0 {
				row.WriteString(seriesColors[owner[y][x]%len(seriesColors)])
				row.WriteRune(ch)
				row.WriteString(colorReset)
				continue
			}
			row.WriteRune(ch)
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	names := make([]string, 0, len(kept))
	for i, s := range kept {
		label := "⠉ " + s.Name
		if useColor {
			label = seriesColors[i%len(seriesColors)] + label + colorReset
		}
		names = append(names, label)
	}
	_, err := fmt.Fprintf(w, "Legend: %s\n\n", strings.Join(names, "  "))
	return err
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	width := totalWidth - runewidth.StringWidth(axisSeparator)
	if width < minPlotWidth {
		return minPlotWidth
	}
	return width
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTermWidth
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// resample fits values to n points. Shrinking averages buckets, stretching interpolates;
// either way the series minimum and maximum land on their nearest output point.
func resample(values []float64, n int) []float64 {
	if n <= 0 || len(values) == 0 {
		return nil
	}
	out := make([]float64, n)
	if len(values) == 1 || n == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	if len(values) == n {
		copy(out, values)
		return out
	}
	lo, hi := extremeIndexes(values)
	if len(values) > n {
		for i := range out {
			start := i * len(values) / n
			end := max((i+1)*len(values)/n, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		out[lo*n/len(values)] = values[lo]
		out[hi*n/len(values)] = values[hi]
		return out
	}
	for i := range out {
		pos := float64(i) * float64(len(values)-1) / float64(n-1)
		idx := int(pos)
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	// Snap every source point onto its nearest column so peaks between samples survive.
	for k, v := range values {
		out[int(math.Round(float64(k)*float64(n-1)/float64(len(values)-1)))] = v
	}
	return out
}

func extremeIndexes(values []float64) (lo, hi int) {
	for i, v := range values {
		if v < values[lo] {
			lo = i
		}
		if v > values[hi] {
			hi = i
		}
	}
	return lo, hi
}

func minMax(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Braille dot bits indexed by [column][row] inside a cell.
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func setDot(grid [][]uint8, owner [][]int, x, y, series int) {
	cy, cx := y/4, x/2
	if x < 0 || y < 0 || cy >= len(grid) || cx >= len(grid[cy]) {
		return
	}
	grid[cy][cx] |= dotBits[x%2][y%4]
	if owner[cy][cx] < 0 {
		owner[cy][cx] = series
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
