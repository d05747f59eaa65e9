package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/lis-comb/app/cfg"
	"github.com/lysyi3m/lis-comb/app/database"
)

type RegisterPartitionTask struct {
	Task
	Partition cfg.Partition
	runs      database.RunStore
}

func NewRegisterPartitionTask(partition cfg.Partition, runs database.RunStore) *RegisterPartitionTask {
	return &RegisterPartitionTask{
		Task:      NewTask(TaskTypeRegisterPartition, partition.String()),
		Partition: partition,
		runs:      runs,
	}
}

func (t *RegisterPartitionTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.runs.RegisterPartition(ctx, t.Partition.Year, t.Partition.Bill); err != nil {
		slog.Error("Task failed", "type", "RegisterPartition", "partition", t.PartitionKey, "error", err)
		return fmt.Errorf("failed to register partition: %w", err)
	}

	slog.Info("Task completed",
		"type", "RegisterPartition",
		"partition", t.PartitionKey,
		"duration", t.GetDuration())

	return nil
}
