// Package store records the output of every run in a SQLite database so
// prices can be compared over time.
package store

import (
	"brickprices/internal/pricing"
	"brickprices/pkg/migrations"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "embed"
)

//go:embed schema.sql
var Schema string

type Store struct {
	db *sql.DB
}

// Open opens (and creates if needed) the history database at `path`.
func Open(path string) (Store, error) {
	db, err := migrations.OpenAndMigrateDB(Schema, path)
	if err != nil {
		return Store{}, err
	}
	return Store{db: db}, nil
}

func (s Store) Close() error {
	return s.db.Close()
}

type Run struct {
	ID        int64
	CreatedAt time.Time
	ItemID    string
}

type StoredSnapshot struct {
	ColorID string
	Name    string
	// Data is the JSON object of the snapshot.
	Data json.RawMessage
}

// RecordRun stores the snapshots of a run in a single transaction.
func (s Store) RecordRun(ctx context.Context, at time.Time, itemId string, snapshots []pricing.PriceSnapshot) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO runs (created_at, item_id) VALUES (?, ?)`,
		at.Unix(), itemId,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runId, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(
		ctx,
		`INSERT INTO snapshots (run_id, idx, color_id, name, data) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for i, snapshot := range snapshots {
		data, err := json.Marshal(snapshot)
		if err != nil {
			return 0, fmt.Errorf("encode snapshot %s: %w", snapshot.Name, err)
		}
		_, err = stmt.ExecContext(ctx, runId, i, snapshot.ColorID.String(), snapshot.Name, string(data))
		if err != nil {
			return 0, fmt.Errorf("insert snapshot %s: %w", snapshot.Name, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return runId, nil
}

// LatestRun returns the most recent run and its snapshots in output order,
// sql.ErrNoRows is returned when nothing has been recorded yet.
func (s Store) LatestRun(ctx context.Context) (Run, []StoredSnapshot, error) {
	var run Run
	var createdAt int64
	err := s.db.QueryRowContext(
		ctx,
		`SELECT id, created_at, item_id FROM runs ORDER BY id DESC LIMIT 1`,
	).Scan(&run.ID, &createdAt, &run.ItemID)
	if err != nil {
		return Run{}, nil, err
	}
	run.CreatedAt = time.Unix(createdAt, 0).UTC()

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT color_id, name, data FROM snapshots WHERE run_id = ? ORDER BY idx`,
		run.ID,
	)
	if err != nil {
		return Run{}, nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []StoredSnapshot
	for rows.Next() {
		var snapshot StoredSnapshot
		var data string
		err = rows.Scan(&snapshot.ColorID, &snapshot.Name, &data)
		if err != nil {
			return Run{}, nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshot.Data = json.RawMessage(data)
		snapshots = append(snapshots, snapshot)
	}
	return run, snapshots, rows.Err()
}

// ColorHistory returns every recorded snapshot of a color, oldest first.
func (s Store) ColorHistory(ctx context.Context, colorId string) ([]StoredSnapshot, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT color_id, name, data FROM snapshots WHERE color_id = ? ORDER BY run_id`,
		colorId,
	)
	if err != nil {
		return nil, fmt.Errorf("query color history: %w", err)
	}
	defer rows.Close()

	var snapshots []StoredSnapshot
	for rows.Next() {
		var snapshot StoredSnapshot
		var data string
		err = rows.Scan(&snapshot.ColorID, &snapshot.Name, &data)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshot.Data = json.RawMessage(data)
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, rows.Err()
}
