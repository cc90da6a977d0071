package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/hackblitz/internal/clearance"
	"github.com/verte-zerg/hackblitz/internal/config"
	"github.com/verte-zerg/hackblitz/internal/model"
	"github.com/verte-zerg/hackblitz/internal/store"
)

const alreadySynced = "Already synced today. Come back tomorrow."

func newCheckinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkin",
		Short: "Answer the daily security check-in for bonus XP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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
			return runCheckin(cmd.Context(), st, cmd.InOrStdin(), cmd.OutOrStdout(), time.Now())
		},
	}
}

func runCheckin(ctx context.Context, st *store.Store, in io.Reader, out io.Writer, now time.Time) error {
	if ctx == nil {
		ctx = context.Background()
	}
	day := clearance.Day(now)
	done, err := st.CheckedIn(ctx, day)
	if err != nil {
		return fmt.Errorf("failed to read check-ins: %w", err)
	}
	if done {
		_, err := fmt.Fprintln(out, alreadySynced)
		return err
	}

	reader := bufio.NewReader(in)
	answers := make([]bool, 0, len(clearance.Questions))
	for i, q := range clearance.Questions {
		yes, err := askYesNo(reader, out, fmt.Sprintf("[%d/%d] %s", i+1, len(clearance.Questions), q.Text))
		if err != nil {
			return err
		}
		answers = append(answers, yes)
		if _, err := fmt.Fprintf(out, "  %s\n", q.Impact); err != nil {
			return err
		}
	}

	xp := clearance.CheckinXP(answers)
	before, after, err := awardXP(ctx, st, model.XPEvent{Kind: model.XPKindCheckin, XP: xp, Day: day, At: now})
	if errors.Is(err, store.ErrCheckedIn) {
		_, err = fmt.Fprintln(out, alreadySynced)
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to record check-in: %w", err)
	}
	if _, err := fmt.Fprintf(out, "Sync complete: %d/%d habits locked, +%d XP\n",
		xp/clearance.CheckinYesXP, len(answers), xp); err != nil {
		return err
	}
	return writeXPNotice(out, before, after)
}

// askYesNo prompts until it reads a yes or no answer.
func askYesNo(r *bufio.Reader, out io.Writer, prompt string) (bool, error) {
	for {
		if _, err := fmt.Fprintf(out, "%s [y/n] ", prompt); err != nil {
			return false, err
		}
		line, err := r.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		if errors.Is(err, io.EOF) {
			return false, errors.New("check-in cancelled")
		}
		if err != nil {
			return false, fmt.Errorf("failed to read answer: %w", err)
		}
	}
}

// awardXP records ev and returns the clearance before and after it.
func awardXP(ctx context.Context, st *store.Store, ev model.XPEvent) (before, after clearance.Level, err error) {
	total, err := st.TotalXP(ctx)
	if err != nil {
		return before, after, err
	}
	before = clearance.ForXP(total)
	if ev.Kind == model.XPKindCheckin {
		err = st.RecordCheckin(ctx, ev)
	} else {
		err = st.AddXP(ctx, ev)
	}
	if err != nil {
		return before, before, err
	}
	return before, clearance.ForXP(total + ev.XP), nil
}

func writeXPNotice(w io.Writer, before, after clearance.Level) error {
	if clearance.RankedUp(before, after) {
		if _, err := fmt.Fprintf(w, "RANK UP // CLEARANCE %d\n", after.Rank); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, after.String())
	return err
}

// recordXP awards XP earned by a one-shot command. Failures are reported, never returned.
func recordXP(ctx context.Context, w io.Writer, kind string, xp int) {
	if ctx == nil {
		ctx = context.Background()
	}
	env, err := config.LoadEnv()
	if err != nil {
		logErrln("xp not recorded:", err)
		return
	}
	st, err := store.Open(env.DBPath)
	if err != nil {
		logErrln("xp not recorded:", err)
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	now := time.Now()
	before, after, err := awardXP(ctx, st, model.XPEvent{Kind: kind, XP: xp, Day: clearance.Day(now), At: now})
	if err != nil {
		logErrln("xp not recorded:", err)
		return
	}
	if _, err := fmt.Fprintf(w, "+%d XP\n", xp); err != nil {
		logErrln("failed to write xp notice:", err)
		return
	}
	if err := writeXPNotice(w, before, after); err != nil {
		logErrln("failed to write xp notice:", err)
	}
}
