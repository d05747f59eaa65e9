package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type RunRepository struct {
	db *DB
}

func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// RegisterPartition makes a configured partition known to the scheduler.
// Existing scheduling state is left alone.
func (r *RunRepository) RegisterPartition(ctx context.Context, year int, bill string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO partitions (session_year, bill_number)
		VALUES (?, ?)
		ON CONFLICT (session_year, bill_number) DO NOTHING
	`, year, bill)
	if err != nil {
		return fmt.Errorf("failed to register partition: %w", err)
	}
	return nil
}

// RecordRun stores a finished run and moves its partition's next run time.
func (r *RunRepository) RecordRun(ctx context.Context, run Run, nextRunAt time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO scrape_runs (id, session_year, bill_number, status, member_count, record_count, failure_count, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Year, run.Bill, run.Status, run.Members, run.Records, run.Failures, run.Error,
		run.StartedAt.UnixMilli(), run.FinishedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO partitions (session_year, bill_number, last_run_id, last_status, record_count, last_run_at, next_run_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (session_year, bill_number) DO UPDATE SET
			last_run_id = excluded.last_run_id,
			last_status = excluded.last_status,
			record_count = excluded.record_count,
			last_run_at = excluded.last_run_at,
			next_run_at = excluded.next_run_at
	`, run.Year, run.Bill, run.ID, run.Status, run.Records, run.FinishedAt.UnixMilli(), nextRunAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to update partition: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	return nil
}

func (r *RunRepository) ListPartitions(ctx context.Context) ([]PartitionState, error) {
	return r.queryPartitions(ctx, `
		SELECT session_year, bill_number, last_run_id, last_status, record_count, last_run_at, next_run_at
		FROM partitions
		ORDER BY session_year, bill_number
	`)
}

// GetDuePartitions returns partitions never run or whose next run time has passed.
func (r *RunRepository) GetDuePartitions(ctx context.Context, now time.Time) ([]PartitionState, error) {
	return r.queryPartitions(ctx, `
		SELECT session_year, bill_number, last_run_id, last_status, record_count, last_run_at, next_run_at
		FROM partitions
		WHERE next_run_at IS NULL OR next_run_at <= ?
		ORDER BY session_year, bill_number
	`, now.UnixMilli())
}

func (r *RunRepository) ListRuns(ctx context.Context, year int, bill string, limit int) ([]Run, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, session_year, bill_number, status, member_count, record_count, failure_count, error, started_at, finished_at
		FROM scrape_runs
		WHERE session_year = ? AND bill_number = ?
		ORDER BY started_at DESC
		LIMIT ?
	`, year, bill, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var (
			run                   Run
			startedAt, finishedAt int64
		)
		err := rows.Scan(&run.ID, &run.Year, &run.Bill, &run.Status, &run.Members, &run.Records, &run.Failures, &run.Error, &startedAt, &finishedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.StartedAt = time.UnixMilli(startedAt).UTC()
		run.FinishedAt = time.UnixMilli(finishedAt).UTC()
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}

func (r *RunRepository) queryPartitions(ctx context.Context, query string, args ...any) ([]PartitionState, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query partitions: %w", err)
	}
	defer rows.Close()

	partitions := []PartitionState{}
	for rows.Next() {
		var (
			partition            PartitionState
			lastRunAt, nextRunAt sql.NullInt64
		)
		err := rows.Scan(&partition.Year, &partition.Bill, &partition.LastRunID, &partition.LastStatus, &partition.RecordCount, &lastRunAt, &nextRunAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan partition: %w", err)
		}
		partition.LastRunAt = timePtr(lastRunAt)
		partition.NextRunAt = timePtr(nextRunAt)
		partitions = append(partitions, partition)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate partitions: %w", err)
	}

	return partitions, nil
}

func timePtr(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.UnixMilli(v.Int64).UTC()
	return &t
}
