package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/hackblitz/internal/config"
	"github.com/verte-zerg/hackblitz/internal/game"
	"github.com/verte-zerg/hackblitz/internal/model"
	"github.com/verte-zerg/hackblitz/internal/stats"
	"github.com/verte-zerg/hackblitz/internal/statsui"
	"github.com/verte-zerg/hackblitz/internal/store"
)

const plainPlotHeight = 8

var (
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsWords       string
	statsPlain       bool
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show run history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N runs")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&statsWords, "words", "", "comma separated words for per-word curves")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the interactive viewer")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow <= 0 {
		return fmt.Errorf("--curve-window must be > 0")
	}

	cfg := model.StatsConfig{
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Words:       statsWords,
	}

	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	st, err := store.Open(env.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		return writePlainReport(cmd.Context(), cmd.OutOrStdout(), st, cfg)
	}
	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func writePlainReport(ctx context.Context, w io.Writer, st *store.Store, cfg model.StatsConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if _, err := fmt.Fprintln(w, report.Clearance.String()); err != nil {
		return err
	}
	if err := stats.RenderSummary(w, report.Runs); err != nil {
		return err
	}
	if len(report.Runs) == 0 {
		return nil
	}
	if err := stats.RenderCurves(w, report.Runs, cfg.CurveWindow, 0, plainPlotHeight, false); err != nil {
		return err
	}
	if err := stats.RenderWordTable(w, report.WordAggsWindow); err != nil {
		return err
	}

	words := statsui.ParseWords(cfg.Words)
	if len(words) == 0 {
		words = stats.TopWordsByFrequency(report.WordAggsAll, 3)
	}
	perRun, err := st.ListWordStatsForRuns(ctx, report.WindowRunIDs, words)
	if err != nil {
		return fmt.Errorf("failed to load word curves: %w", err)
	}
	windowed := report.Runs[len(report.Runs)-len(report.WindowRunIDs):]
	return stats.RenderWordCurves(w, windowed, perRun, words, cfg.CurveWindow, 0, plainPlotHeight, false)
}

func newVocabCmd() *cobra.Command {
	var vocabPath string
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "List the threat vocabulary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("file") {
				fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				vocabPath = firstNonEmpty(fileCfg.Game.Vocab)
			}
			terms, err := loadVocabulary(vocabPath)
			if err != nil {
				return err
			}
			return writeVocab(cmd.OutOrStdout(), terms)
		},
	}
	cmd.Flags().StringVar(&vocabPath, "file", "", "vocabulary file (default: built-in or config)")
	return cmd
}

func writeVocab(w io.Writer, terms []game.Term) error {
	rows := make([][]string, 0, len(terms))
	for _, t := range terms {
		rows = append(rows, []string{strconv.Itoa(t.MinLevel), t.Word, t.Definition})
	}
	return stats.RenderTable(w, []string{"LEVEL", "WORD", "DEFINITION"}, rows, map[int]bool{0: true})
}
