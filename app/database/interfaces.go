package database

import (
	"context"
	"time"

	"github.com/lysyi3m/lis-comb/app/amendment"
)

type RecordStore interface {
	ReplacePartition(ctx context.Context, year int, bill string, records []amendment.Record) error
	ListRecords(ctx context.Context, filter RecordFilter) ([]amendment.Record, error)
	GetRecordCount(ctx context.Context) (int, error)
}

type RunStore interface {
	RegisterPartition(ctx context.Context, year int, bill string) error
	RecordRun(ctx context.Context, run Run, nextRunAt time.Time) error
	ListPartitions(ctx context.Context) ([]PartitionState, error)
	GetDuePartitions(ctx context.Context, now time.Time) ([]PartitionState, error)
	ListRuns(ctx context.Context, year int, bill string, limit int) ([]Run, error)
}
