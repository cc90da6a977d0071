package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/hackblitz/internal/clearance"
	"github.com/verte-zerg/hackblitz/internal/config"
	"github.com/verte-zerg/hackblitz/internal/logging"
	"github.com/verte-zerg/hackblitz/internal/model"
	"github.com/verte-zerg/hackblitz/internal/shield"
	"github.com/verte-zerg/hackblitz/internal/vault"
)

const aiTimeout = 60 * time.Second

func newVaultCmd() *cobra.Command {
	var generate bool
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Audit a password or generate a passphrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var password string
			if generate {
				password = vault.GeneratePassphrase(rand.New(rand.NewSource(time.Now().UnixNano())))
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Passphrase: %s\n", password); err != nil {
					return err
				}
			} else {
				var err error
				password, err = readSecret(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
			}
			audit := vault.Evaluate(password)
			if err := writeAudit(cmd.OutOrStdout(), audit); err != nil {
				return err
			}
			if audit.Vaulted() {
				recordXP(cmd.Context(), cmd.OutOrStdout(), model.XPKindVault, clearance.VaultXP)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&generate, "generate", false, "generate a passphrase and audit it")
	return cmd
}

// readSecret prompts without echo on a terminal and reads one line otherwise.
func readSecret(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if _, err := fmt.Fprint(prompt, "Password: "); err != nil {
			return "", err
		}
		secret, err := term.ReadPassword(int(f.Fd()))
		if _, perr := fmt.Fprintln(prompt); perr != nil {
			_ = perr
		}
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(secret), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func writeAudit(w io.Writer, audit vault.Audit) error {
	lines := []string{fmt.Sprintf("Vault integrity: %d%% (%s)", audit.Score, audit.Label)}
	for _, tip := range audit.Tips {
		lines = append(lines, "  - "+tip)
	}
	if audit.Vaulted() {
		lines = append(lines, "Vaulted: this one holds.")
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

func newScanCmd() *cobra.Command {
	var (
		modelName string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "scan [message]",
		Short: "Check a message for scam patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := messageFromArgs(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			ai, err := newAIContext(cmd.Context())
			if err != nil {
				return err
			}
			defer ai.close()

			modelName = firstNonEmpty(&modelName, &ai.env.ScanModel, ai.file.AI.ScanModel)
			ctx, cancel := context.WithTimeout(ai.ctx, aiTimeout)
			defer cancel()
			report := shield.NewScanner(ai.gen, modelName, ai.logger).Analyze(ctx, message)
			notices := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
				notices = cmd.ErrOrStderr()
			} else if err := writeScamReport(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			// Cleared messages earn XP; the fallback report is flagged as a scam and earns none.
			if !report.IsScam {
				recordXP(cmd.Context(), notices, model.XPKindScan, clearance.ScanXP)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&modelName, "model", "", "model override")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func writeScamReport(w io.Writer, report shield.ScamReport) error {
	verdict := "SAFE"
	if report.IsScam {
		verdict = "SCAM"
	}
	lines := []string{
		fmt.Sprintf("Verdict: %s (confidence %.0f%%)", verdict, report.Confidence*100),
		report.Explanation,
	}
	if len(report.RedFlags) > 0 {
		lines = append(lines, "Red flags:")
		for _, flag := range report.RedFlags {
			lines = append(lines, "  - "+flag)
		}
	}
	lines = append(lines, "Do this: "+report.SafeAction)
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

func newCoachCmd() *cobra.Command {
	var modelName string
	cmd := &cobra.Command{
		Use:   "coach [question]",
		Short: "Ask the security coach",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := messageFromArgs(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			ai, err := newAIContext(cmd.Context())
			if err != nil {
				return err
			}
			defer ai.close()

			modelName = firstNonEmpty(&modelName, &ai.env.CoachModel, ai.file.AI.CoachModel)
			ctx, cancel := context.WithTimeout(ai.ctx, aiTimeout)
			defer cancel()
			answer := shield.NewCoach(ai.gen, modelName, ai.logger).Advise(ctx, query)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), answer)
			return err
		},
	}
	cmd.Flags().StringVar(&modelName, "model", "", "model override")
	return cmd
}

// messageFromArgs joins args, or reads all of in when none are given.
func messageFromArgs(args []string, in io.Reader) (string, error) {
	message := strings.TrimSpace(strings.Join(args, " "))
	if message == "" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		message = strings.TrimSpace(string(data))
	}
	if message == "" {
		return "", fmt.Errorf("nothing to send: pass text as arguments or on stdin")
	}
	return message, nil
}

type aiContext struct {
	ctx    context.Context
	env    config.EnvConfig
	file   config.FileConfig
	gen    shield.ContentGenerator
	logger *zap.Logger
}

func newAIContext(ctx context.Context) (*aiContext, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	env, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.New(config.DefaultLogPath(), debugLog)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	gen, err := shield.NewGenerator(ctx, env.APIKey)
	if err != nil {
		logErrf("shield offline, using fallback replies: %v\n", err)
	}
	return &aiContext{ctx: ctx, env: env, file: fileCfg, gen: gen, logger: logger}, nil
}

func (a *aiContext) close() {
	_ = a.logger.Sync()
}
