// Package stats contains run statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/hackblitz/internal/model"
)

const sparkChars = " .:-=+*#%@"

// RunMetrics computes XP per minute, decrypted words per minute and defense rate.
// Defense rate is decrypted / (decrypted + breached).
func RunMetrics(score, decrypted, breached int, durationMs int64) (xpm, wpm, defense float64) {
	if den := decrypted + breached; den > 0 {
		defense = float64(decrypted) / float64(den)
	}
	if durationMs <= 0 {
		return 0, 0, defense
	}
	minutes := float64(durationMs) / 60000.0
	return float64(score) / minutes, float64(decrypted) / minutes, defense
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := minMax(values)
	if math.Abs(hi-lo) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Totals summarizes a list of runs.
type Totals struct {
	Runs      int
	TotalXP   int
	BestScore int
	BestLevel int
	Defense   float64
}

// Summarize totals XP and bests across runs.
func Summarize(runs []model.RunAggregate) Totals {
	t := Totals{Runs: len(runs)}
	decrypted, breached := 0, 0
	for _, r := range runs {
		t.TotalXP += r.Score
		if r.Score > t.BestScore {
			t.BestScore = r.Score
		}
		if r.Level > t.BestLevel {
			t.BestLevel = r.Level
		}
		decrypted += r.Decrypted
		breached += r.Breached
	}
	_, _, t.Defense = RunMetrics(0, decrypted, breached, 0)
	return t
}

// RenderSummary prints a summary block for runs.
func RenderSummary(w io.Writer, runs []model.RunAggregate) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs found.")
		return err
	}
	t := Summarize(runs)
	var totalXPM float64
	for _, r := range runs {
		xpm, _, _ := RunMetrics(r.Score, r.Decrypted, r.Breached, r.DurationMs)
		totalXPM += xpm
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Runs: %d", t.Runs),
		fmt.Sprintf("Total XP: %d", t.TotalXP),
		fmt.Sprintf("Best score: %d", t.BestScore),
		fmt.Sprintf("Highest sector: %d", t.BestLevel),
		fmt.Sprintf("Avg XP/min: %.2f", totalXPM/float64(len(runs))),
		fmt.Sprintf("Defense rate: %.2f%%", t.Defense*100),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints learning curves for score and defense rate.
func RenderCurves(w io.Writer, runs []model.RunAggregate, window, totalWidth, height int, useColor bool) error {
	if len(runs) == 0 {
		return nil
	}
	scores := make([]float64, len(runs))
	defense := make([]float64, len(runs))
	for i, r := range runs {
		_, _, d := RunMetrics(r.Score, r.Decrypted, r.Breached, r.DurationMs)
		scores[i] = float64(r.Score)
		defense[i] = d * 100
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeries(w, "Learning Curves", []Series{
		{Name: "Score", Values: MovingAverage(scores, window)},
		{Name: "Defense %", Values: MovingAverage(defense, window)},
	}, width, height, useColor)
}

// WordRow is one line of the per-word table.
type WordRow struct {
	Word      string
	Defense   float64
	Decrypted int
	Breached  int
}

// WordRows converts aggregates into rows sorted by lowest defense rate.
func WordRows(aggs []model.WordAggregate) []WordRow {
	rows := make([]WordRow, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, WordRow{
			Word:      agg.Word,
			Defense:   defenseRate(agg),
			Decrypted: agg.Decrypted,
			Breached:  agg.Breached,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Defense == rows[j].Defense {
			return rows[i].Word < rows[j].Word
		}
		return rows[i].Defense < rows[j].Defense
	})
	return rows
}

// RenderWordTable prints per-word aggregates.
func RenderWordTable(w io.Writer, aggs []model.WordAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No word stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Word (Windowed)"); err != nil {
		return err
	}
	headers := []string{"Word", "Defense", "Decrypted", "Breached"}
	tableRows := make([][]string, 0, len(aggs))
	for _, r := range WordRows(aggs) {
		tableRows = append(tableRows, []string{
			r.Word,
			fmt.Sprintf("%.2f%%", r.Defense*100),
			fmt.Sprintf("%d", r.Decrypted),
			fmt.Sprintf("%d", r.Breached),
		})
	}
	for _, line := range formatTable(headers, tableRows, map[int]bool{1: true, 2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderWordCurves prints per-word defense curves.
func RenderWordCurves(w io.Writer, runs []model.RunAggregate, perRun map[int64]map[string]model.WordAggregate, words []string, window, totalWidth, height int, useColor bool) error {
	if len(words) == 0 || len(runs) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Word Curves"); err != nil {
		return err
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	for _, word := range words {
		defense := make([]float64, len(runs))
		breaches := make([]float64, len(runs))
		for i, r := range runs {
			agg, ok := perRun[r.RunID][word]
			if !ok {
				continue
			}
			defense[i] = defenseRate(agg) * 100
			breaches[i] = float64(agg.Breached)
		}
		if err := PlotSeries(w, fmt.Sprintf("Word %s", word), []Series{
			{Name: "Defense %", Values: MovingAverage(defense, window)},
			{Name: "Breaches", Values: MovingAverage(breaches, window)},
		}, width, height, useColor); err != nil {
			return err
		}
	}
	return nil
}

func defenseRate(agg model.WordAggregate) float64 {
	total := agg.Decrypted + agg.Breached
	if total == 0 {
		return 1.0
	}
	return float64(agg.Decrypted) / float64(total)
}
