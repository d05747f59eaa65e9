package database

import (
	"time"
)

const (
	RunStatusSuccess = "success"
	RunStatusPartial = "partial"
	RunStatusFailed  = "failed"
)

// Run is one scrape of a partition.
type Run struct {
	ID         string
	Year       int
	Bill       string
	Status     string
	Members    int
	Records    int
	Failures   int
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// PartitionState is the scheduling state of a (year, bill) partition.
type PartitionState struct {
	Year        int
	Bill        string
	LastRunID   string
	LastStatus  string
	RecordCount int
	LastRunAt   *time.Time
	NextRunAt   *time.Time // nil means due now
}

// RecordFilter narrows ListRecords; zero values match everything.
type RecordFilter struct {
	Years []int
	Bill  string
}
