// Package model defines shared data structures.
package model

import "time"

// Config defines game settings.
type Config struct {
	FPS        int
	Seed       int64
	VocabPath  string
	FocusWeak  bool
	WeakTop    int
	WeakFactor float64
	WeakWindow int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
	Words       string
}

// RunStats captures a finished game run.
type RunStats struct {
	StartedAt  time.Time
	EndedAt    time.Time
	Score      int
	Level      int
	Decrypted  int
	Breached   int
	DurationMs int64
}

// WordStats stores per-word outcomes for a run.
type WordStats struct {
	Word      string
	Decrypted int
	Breached  int
}

// WordAggregate aggregates word stats across runs.
type WordAggregate struct {
	Word      string
	Decrypted int
	Breached  int
}

// RunAggregate summarizes a run for reporting.
type RunAggregate struct {
	RunID      int64
	EndedAt    time.Time
	Score      int
	Level      int
	Decrypted  int
	Breached   int
	DurationMs int64
}

// XP event kinds recorded outside game runs.
const (
	XPKindScan    = "scan"
	XPKindVault   = "vault"
	XPKindCheckin = "checkin"
)

// XPEvent is XP earned outside a game run. Day is the local calendar day.
type XPEvent struct {
	Kind string
	XP   int
	Day  string
	At   time.Time
}
