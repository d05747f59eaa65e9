package api

import (
	"time"

	"github.com/lysyi3m/lis-comb/app/amendment"
	"github.com/lysyi3m/lis-comb/app/cfg"
	"github.com/lysyi3m/lis-comb/app/database"
	"github.com/lysyi3m/lis-comb/app/report"
	"github.com/lysyi3m/lis-comb/app/tasks"
)

type GeneratorInterface interface {
	Run(info report.FeedInfo, summaries []report.Summary) (string, error)
}

var _ GeneratorInterface = (*report.Generator)(nil)

type Handler struct {
	records   database.RecordStore
	runs      database.RunStore
	pipeline  *cfg.Pipeline
	members   map[string]amendment.Member
	generator GeneratorInterface
	scheduler tasks.TaskSchedulerInterface
	baseURL   string
	port      string
	version   string
}

type FocusResponse struct {
	LegislatorID string               `json:"legislatorId"`
	Total        float64              `json:"total"`
	Slices       []report.FocusSlice  `json:"slices"`
	Buckets      []report.BucketSlice `json:"buckets"`
}

type RecipientsResponse struct {
	LegislatorID string             `json:"legislatorId"`
	Recipients   []report.Recipient `json:"recipients"`
}

type AmendmentsResponse struct {
	LegislatorID string           `json:"legislatorId"`
	Year         int              `json:"year"`
	Total        int              `json:"total"`
	Amendments   []report.Summary `json:"amendments"`
}

type ChartResponse struct {
	LegislatorID string              `json:"legislatorId"`
	MinPercent   float64             `json:"minPercent"`
	Slices       []report.ChartSlice `json:"slices"`
}

type PartitionInfo struct {
	Year        int        `json:"year"`
	Bill        string     `json:"bill"`
	Session     int        `json:"session"`
	OutputFile  string     `json:"outputFile"`
	LastRunID   string     `json:"lastRunId,omitempty"`
	LastStatus  string     `json:"lastStatus,omitempty"`
	RecordCount int        `json:"recordCount"`
	LastRunAt   *time.Time `json:"lastRunAt,omitempty"`
	NextRunAt   *time.Time `json:"nextRunAt,omitempty"`
	Registered  bool       `json:"registered"`
}

type RunInfo struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	Members    int       `json:"members"`
	Records    int       `json:"records"`
	Failures   int       `json:"failures"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Duration   string    `json:"duration"`
}
