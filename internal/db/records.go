package db

import (
	"fmt"

	"github.com/banshee-data/mlography/internal/grain"
	"github.com/banshee-data/mlography/internal/maskeval"
)

// InsertRecords stores grain-size records for a run in one transaction.
func (db *DB) InsertRecords(runID string, records []grain.Record) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO grain_records (run_id, model, identifier, filename, line_index, grain_size)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(runID, r.Model, r.Identifier, r.Filename, r.Line, r.GrainSize); err != nil {
			return fmt.Errorf("insert record %s/%s line %d: %w", r.Model, r.Filename, r.Line, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	logf("stored %d records for run %s", len(records), runID)
	return nil
}

// RecordsForRun returns a run's records in the same order as
// grain.SortRecords.
func (db *DB) RecordsForRun(runID string) ([]grain.Record, error) {
	rows, err := db.Query(`
		SELECT model, identifier, filename, line_index, grain_size
		FROM grain_records
		WHERE run_id = ?
		ORDER BY model, identifier, grain_size, filename, line_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []grain.Record
	for rows.Next() {
		var r grain.Record
		if err := rows.Scan(&r.Model, &r.Identifier, &r.Filename, &r.Line, &r.GrainSize); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// InsertMaskScores stores mask evaluation scores for a run.
func (db *DB) InsertMaskScores(runID string, scores []maskeval.Score) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, s := range scores {
		if _, err := tx.Exec(`INSERT INTO mask_scores (run_id, filename, dice, iou) VALUES (?, ?, ?, ?)`,
			runID, s.Filename, s.Dice, s.IoU); err != nil {
			return fmt.Errorf("insert score %s: %w", s.Filename, err)
		}
	}
	return tx.Commit()
}

// MaskScoresForRun returns a run's scores ordered by filename.
func (db *DB) MaskScoresForRun(runID string) ([]maskeval.Score, error) {
	rows, err := db.Query(`
		SELECT filename, dice, iou FROM mask_scores
		WHERE run_id = ?
		ORDER BY filename`, runID)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var out []maskeval.Score
	for rows.Next() {
		var s maskeval.Score
		if err := rows.Scan(&s.Filename, &s.Dice, &s.IoU); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
