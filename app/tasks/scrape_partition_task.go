package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/lis-comb/app/cfg"
)

type ScrapePartitionTask struct {
	Task
	Partition cfg.Partition
	runner    PartitionRunner
}

func NewScrapePartitionTask(partition cfg.Partition, runner PartitionRunner) *ScrapePartitionTask {
	return &ScrapePartitionTask{
		Task:      NewTask(TaskTypeScrapePartition, partition.String()),
		Partition: partition,
		runner:    runner,
	}
}

func (t *ScrapePartitionTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	run, err := t.runner.RunPartition(ctx, t.Partition)
	if err != nil {
		return fmt.Errorf("failed to scrape partition %s: %w", t.PartitionKey, err)
	}

	slog.Info("Task completed",
		"type", "ScrapePartition",
		"partition", t.PartitionKey,
		"run_id", run.ID,
		"status", run.Status,
		"members", run.Members,
		"records", run.Records,
		"failures", run.Failures,
		"duration", t.GetDuration())

	return nil
}
