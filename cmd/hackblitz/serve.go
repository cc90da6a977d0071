package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/hackblitz/internal/config"
	"github.com/verte-zerg/hackblitz/internal/logging"
	"github.com/verte-zerg/hackblitz/internal/server"
	"github.com/verte-zerg/hackblitz/internal/store"
	"github.com/verte-zerg/hackblitz/internal/tui"
)

var (
	serveHost string
	servePort string
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host the game over SSH",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	addGameFlags(cmd)
	cmd.Flags().StringVar(&serveHost, "host", "", "listen host (default: $HACKBLITZ_SSH_HOST or ::)")
	cmd.Flags().StringVar(&servePort, "port", "", "listen port (default: $HACKBLITZ_SSH_PORT or 2222)")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
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

	// Generators are not shared; with a fixed seed every session replays the same spawns.
	factory := func(sess ssh.Session) tea.Model {
		sessionLogger := logger.With(zap.String("user", sess.User()), zap.String("remote", sess.RemoteAddr().String()))
		return tui.NewModel(cfg, st, newGenerator(cfg.Seed), vocab, sessionLogger)
	}
	srv, err := server.New(server.Config{
		Host:        firstNonEmpty(&serveHost, &env.SSHHost),
		Port:        firstNonEmpty(&servePort, &env.SSHPort),
		HostKeyPath: env.HostKeyPath,
	}, factory, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	logErrf("Serving hackblitz over SSH on %s:%s\n", firstNonEmpty(&serveHost, &env.SSHHost), firstNonEmpty(&servePort, &env.SSHPort))
	return srv.Run(ctx)
}
