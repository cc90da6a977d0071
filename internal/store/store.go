// Package store handles SQLite persistence of finished runs.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/hackblitz/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrCheckedIn is returned when a check-in already exists for the day.
var ErrCheckedIn = errors.New("already checked in today")

// Store wraps SQLite access for run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; SSH sessions share this handle.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			score INTEGER NOT NULL,
			level INTEGER NOT NULL,
			decrypted INTEGER NOT NULL,
			breached INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_word_stats (
			run_id INTEGER NOT NULL,
			word TEXT NOT NULL,
			decrypted INTEGER NOT NULL,
			breached INTEGER NOT NULL,
			PRIMARY KEY (run_id, word)
		);`,
		`CREATE TABLE IF NOT EXISTS xp_events (
			id INTEGER PRIMARY KEY,
			kind TEXT NOT NULL,
			xp INTEGER NOT NULL,
			day TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ended_at ON runs(ended_at);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_xp_events_checkin_day ON xp_events(day) WHERE kind = 'checkin';`,
		`CREATE INDEX IF NOT EXISTS idx_run_word_stats_word ON run_word_stats(word);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a finished run and its per-word stats.
func (s *Store) InsertRun(ctx context.Context, run model.RunStats, words []model.WordStats) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, ended_at, score, level, decrypted, breached, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.Format(time.RFC3339Nano),
		run.EndedAt.Format(time.RFC3339Nano),
		run.Score,
		run.Level,
		run.Decrypted,
		run.Breached,
		run.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(words) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO run_word_stats (run_id, word, decrypted, breached) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, ws := range words {
			if _, err := stmt.ExecContext(ctx, id, ws.Word, ws.Decrypted, ws.Breached); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetWeakWords aggregates word stats over the most recent runs.
func (s *Store) GetWeakWords(ctx context.Context, window int) ([]model.WordAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_runs AS (
		SELECT id FROM runs
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT ws.word, SUM(ws.decrypted) AS decrypted, SUM(ws.breached) AS breached
	FROM run_word_stats ws
	JOIN recent_runs r ON r.id = ws.run_id
	GROUP BY ws.word`

	rows, err := s.db.QueryContext(ctx, query, window)
	if err != nil {
		return nil, err
	}
	return scanWordAggregates(rows)
}

// ListRuns returns run aggregates filtered by stats config, oldest first.
func (s *Store) ListRuns(ctx context.Context, cfg model.StatsConfig) ([]model.RunAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, score, level, decrypted, breached, duration_ms
		FROM runs
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.RunAggregate
	for rows.Next() {
		var agg model.RunAggregate
		var endedAt string
		if err := rows.Scan(&agg.RunID, &endedAt, &agg.Score, &agg.Level, &agg.Decrypted, &agg.Breached, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		runs = append(runs, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// ListWordAggregatesForRuns aggregates per-word stats across runs.
func (s *Store) ListWordAggregatesForRuns(ctx context.Context, runIDs []int64) ([]model.WordAggregate, error) {
	if len(runIDs) == 0 {
		return nil, nil
	}
	placeholders, args := idPlaceholders(runIDs)
	query := fmt.Sprintf(`SELECT word, SUM(decrypted) AS decrypted, SUM(breached) AS breached
		FROM run_word_stats
		WHERE run_id IN (%s)
		GROUP BY word`, placeholders)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanWordAggregates(rows)
}

// ListWordStatsForRuns returns per-run stats for the selected words.
func (s *Store) ListWordStatsForRuns(ctx context.Context, runIDs []int64, words []string) (map[int64]map[string]model.WordAggregate, error) {
	if len(runIDs) == 0 || len(words) == 0 {
		return map[int64]map[string]model.WordAggregate{}, nil
	}
	runPlaceholders, args := idPlaceholders(runIDs)
	wordPlaceholders := make([]string, len(words))
	for i, w := range words {
		wordPlaceholders[i] = "?"
		args = append(args, w)
	}

	query := fmt.Sprintf(`SELECT run_id, word, decrypted, breached
		FROM run_word_stats
		WHERE run_id IN (%s) AND word IN (%s)`, runPlaceholders, strings.Join(wordPlaceholders, ","))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	result := map[int64]map[string]model.WordAggregate{}
	for rows.Next() {
		var runID int64
		var agg model.WordAggregate
		if err := rows.Scan(&runID, &agg.Word, &agg.Decrypted, &agg.Breached); err != nil {
			return nil, err
		}
		if _, ok := result[runID]; !ok {
			result[runID] = map[string]model.WordAggregate{}
		}
		result[runID][agg.Word] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// AddXP records XP earned outside a game run.
func (s *Store) AddXP(ctx context.Context, ev model.XPEvent) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO xp_events (kind, xp, day, created_at) VALUES (?, ?, ?, ?)`,
		ev.Kind, ev.XP, ev.Day, ev.At.Format(time.RFC3339Nano))
	return err
}

// CheckedIn reports whether a check-in exists for day.
func (s *Store) CheckedIn(ctx context.Context, day string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM xp_events WHERE kind = ? AND day = ?`, model.XPKindCheckin, day).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RecordCheckin stores the day's check-in, returning ErrCheckedIn if one exists.
func (s *Store) RecordCheckin(ctx context.Context, ev model.XPEvent) error {
	ev.Kind = model.XPKindCheckin
	done, err := s.CheckedIn(ctx, ev.Day)
	if err != nil {
		return err
	}
	if done {
		return ErrCheckedIn
	}
	return s.AddXP(ctx, ev)
}

// TotalXP sums run scores and XP events.
func (s *Store) TotalXP(ctx context.Context) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT COALESCE(SUM(score), 0) FROM runs) + (SELECT COALESCE(SUM(xp), 0) FROM xp_events)`).Scan(&total)
	return total, err
}

func idPlaceholders(ids []int64) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}
	return strings.Join(placeholders, ","), args
}

func scanWordAggregates(rows *sql.Rows) ([]model.WordAggregate, error) {
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	var result []model.WordAggregate
	for rows.Next() {
		var agg model.WordAggregate
		if err := rows.Scan(&agg.Word, &agg.Decrypted, &agg.Breached); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
