package stats

import (
	"context"

	"github.com/verte-zerg/hackblitz/internal/clearance"
	"github.com/verte-zerg/hackblitz/internal/model"
	"github.com/verte-zerg/hackblitz/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Runs           []model.RunAggregate
	WindowRunIDs   []int64
	WordAggsAll    []model.WordAggregate
	WordAggsWindow []model.WordAggregate

	// Clearance covers lifetime XP and ignores the run filters.
	Clearance clearance.Level
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	runs, err := st.ListRuns(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(runs) > cfg.Last {
		runs = runs[len(runs)-cfg.Last:]
	}

	allIDs := runIDs(runs)
	windowIDs := allIDs
	if cfg.CurveWindow > 0 && len(runs) > cfg.CurveWindow {
		windowIDs = runIDs(runs[len(runs)-cfg.CurveWindow:])
	}
	wordAggsAll, err := st.ListWordAggregatesForRuns(ctx, allIDs)
	if err != nil {
		return Report{}, err
	}
	wordAggsWindow, err := st.ListWordAggregatesForRuns(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}
	totalXP, err := st.TotalXP(ctx)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Runs:           runs,
		WindowRunIDs:   windowIDs,
		WordAggsAll:    wordAggsAll,
		WordAggsWindow: wordAggsWindow,
		Clearance:      clearance.ForXP(totalXP),
	}, nil
}

func runIDs(runs []model.RunAggregate) []int64 {
	ids := make([]int64, len(runs))
	for i, r := range runs {
		ids[i] = r.RunID
	}
	return ids
}
