// Package main provides the CLI entrypoint for hackblitz.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/hackblitz/internal/config"
	"github.com/verte-zerg/hackblitz/internal/game"
	"github.com/verte-zerg/hackblitz/internal/generator"
	"github.com/verte-zerg/hackblitz/internal/logging"
	"github.com/verte-zerg/hackblitz/internal/model"
	"github.com/verte-zerg/hackblitz/internal/store"
	"github.com/verte-zerg/hackblitz/internal/tui"
	"github.com/verte-zerg/hackblitz/internal/wordlist"
)

const (
	defaultFPS         = 60
	defaultWeakTop     = 3
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultCurveWindow = 10
)

var (
	gameFPS        int
	gameSeed       int64
	gameVocab      string
	gameFocusWeak  bool
	gameWeakTop    int
	gameWeakFactor float64
	gameWeakWindow int

	debugLog bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hackblitz",
		Short:         "Typed-word firewall defense game",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	addGameFlags(rootCmd)
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "write debug entries to the log file")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newVocabCmd())
	rootCmd.AddCommand(newVaultCmd())
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newCoachCmd())
	rootCmd.AddCommand(newCheckinCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func addGameFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&gameFPS, "fps", defaultFPS, "frames per second")
	cmd.Flags().Int64Var(&gameSeed, "seed", 0, "random seed for spawns (0 picks one)")
	cmd.Flags().StringVar(&gameVocab, "vocab", "", "vocabulary file (WORD | definition | level)")
	cmd.Flags().BoolVar(&gameFocusWeak, "focus-weak", false, "spawn often-breached words more often")
	cmd.Flags().IntVar(&gameWeakTop, "weak-top", defaultWeakTop, "number of weak words to focus on")
	cmd.Flags().Float64Var(&gameWeakFactor, "weak-factor", defaultWeakFactor, "extra spawn weight for weak words")
	cmd.Flags().IntVar(&gameWeakWindow, "weak-window", defaultWeakWindow, "number of recent runs to compute weak words")
}

// resolveGameConfig merges flags over the config file.
func resolveGameConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "fps", &gameFPS, fileCfg.Game.FPS)
	applyInt64Config(cmd, "seed", &gameSeed, fileCfg.Game.Seed)
	applyStringConfig(cmd, "vocab", &gameVocab, fileCfg.Game.Vocab)
	applyBoolConfig(cmd, "focus-weak", &gameFocusWeak, fileCfg.Game.FocusWeak)
	applyIntConfig(cmd, "weak-top", &gameWeakTop, fileCfg.Game.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &gameWeakFactor, fileCfg.Game.WeakFactor)
	applyIntConfig(cmd, "weak-window", &gameWeakWindow, fileCfg.Game.WeakWindow)

	cfg := model.Config{
		FPS:        gameFPS,
		Seed:       gameSeed,
		VocabPath:  gameVocab,
		FocusWeak:  gameFocusWeak,
		WeakTop:    gameWeakTop,
		WeakFactor: gameWeakFactor,
		WeakWindow: gameWeakWindow,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveGameConfig(cmd)
	if err != nil {
		return err
	}
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	vocab, err := loadVocabulary(cfg.VocabPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(config.DefaultLogPath(), debugLog)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	st, err := store.Open(env.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	logger.Info("starting game", zap.Int("fps", cfg.FPS), zap.Int("terms", len(vocab)), zap.Bool("focus_weak", cfg.FocusWeak))
	m := tui.NewModel(cfg, st, newGenerator(cfg.Seed), vocab, logger)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newGenerator(seed int64) *generator.Generator {
	if seed == 0 {
		return generator.New()
	}
	return generator.NewSeeded(seed)
}

func loadVocabulary(path string) ([]game.Term, error) {
	if path == "" {
		return game.DefaultVocabulary(), nil
	}
	terms, err := wordlist.LoadTerms(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary %s: %w", path, err)
	}
	return terms, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// firstNonEmpty returns the first set value; nil and "" count as unset.
func firstNonEmpty(values ...*string) string {
	for _, v := range values {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# hackblitz configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# fps = %d                # Frames per second
# seed = 0                # Random seed for spawns (0 picks one)
# vocab = ""              # Vocabulary file, one "WORD | definition | level" per line
# focus-weak = false      # Spawn often-breached words more often
# weak-top = %d           # Number of weak words to focus on
# weak-factor = %.1f      # Extra spawn weight for weak words
# weak-window = %d        # Number of recent runs to compute weak words

[ai]
# scan-model = ""         # Model for "hackblitz scan"
# coach-model = ""        # Model for "hackblitz coach"
`,
		defaultFPS,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.FPS <= 0 || cfg.FPS > 240 {
		return fmt.Errorf("--fps must be between 1 and 240")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
