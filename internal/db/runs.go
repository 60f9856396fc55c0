package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("run not found")

// Run is one invocation of an analysis tool.
type Run struct {
	RunID      string          `json:"run_id"`
	Tool       string          `json:"tool"`
	ConfigJSON json.RawMessage `json:"config_json,omitempty"`
	Status     string          `json:"status"`
	Images     int             `json:"image_count"`
	Skipped    int             `json:"skipped_count"`
	Error      string          `json:"error,omitempty"`
	StartedAt  int64           `json:"started_at"`
	FinishedAt int64           `json:"finished_at,omitempty"`
}

// Duration returns the wall time of a finished run, or 0 while it is running.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt == 0 {
		return 0
	}
	return time.Duration(r.FinishedAt - r.StartedAt)
}

// StartRun records a new running invocation of tool. cfg is stored as JSON
// and may be nil.
func (db *DB) StartRun(tool string, cfg any) (*Run, error) {
	run := &Run{
		RunID:     uuid.New().String(),
		Tool:      tool,
		Status:    RunStatusRunning,
		StartedAt: db.clock.Now().UnixNano(),
	}
	var cfgStr interface{}
	if cfg != nil {
		b, err := json.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshal run config: %w", err)
		}
		run.ConfigJSON = b
		cfgStr = string(b)
	}

	err := retryOnBusy(func() error {
		_, err := db.Exec(`
			INSERT INTO runs (run_id, tool, config_json, status, started_at)
			VALUES (?, ?, ?, ?, ?)`,
			run.RunID, run.Tool, cfgStr, run.Status, run.StartedAt,
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// FinishRun marks a run completed, or failed when runErr is non-nil.
func (db *DB) FinishRun(runID string, images, skipped int, runErr error) error {
	status := RunStatusCompleted
	var errStr interface{}
	if runErr != nil {
		status = RunStatusFailed
		errStr = runErr.Error()
	}

	var n int64
	err := retryOnBusy(func() error {
		res, err := db.Exec(`
			UPDATE runs
			SET status = ?, image_count = ?, skipped_count = ?, error = ?, finished_at = ?
			WHERE run_id = ?`,
			status, images, skipped, errStr, db.clock.Now().UnixNano(), runID,
		)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

const runColumns = `run_id, tool, config_json, status, image_count, skipped_count, error, started_at, finished_at`

// GetRun returns a single run by ID.
func (db *DB) GetRun(runID string) (*Run, error) {
	row := db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return run, err
}

// ListRuns returns the most recent runs first. A limit of 0 returns all.
func (db *DB) ListRuns(limit int) ([]*Run, error) {
	q := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, run_id`
	var args []interface{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// DeleteRun removes a run together with its records and scores.
func (db *DB) DeleteRun(runID string) error {
	res, err := db.Exec(`DELETE FROM runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var r Run
	var cfg, errStr sql.NullString
	var finished sql.NullInt64
	if err := s.Scan(&r.RunID, &r.Tool, &cfg, &r.Status, &r.Images, &r.Skipped, &errStr, &r.StartedAt, &finished); err != nil {
		return nil, err
	}
	if cfg.Valid {
		r.ConfigJSON = json.RawMessage(cfg.String)
	}
	r.Error = errStr.String
	r.FinishedAt = finished.Int64
	return &r, nil
}

// retryOnBusy retries fn while SQLite reports the database as locked.
func retryOnBusy(fn func() error) error {
	const attempts = 5
	backoff := 10 * time.Millisecond
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil || !isBusy(err) {
			return err
		}
		time.Sleep(backoff)
		backoff *= 2
	}
	return err
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
