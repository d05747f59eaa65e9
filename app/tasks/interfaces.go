package tasks

import (
	"context"

	"github.com/lysyi3m/lis-comb/app/cfg"
	"github.com/lysyi3m/lis-comb/app/database"
)

// TaskSchedulerInterface is what the server needs from the background
// scheduler: lifecycle control plus on-demand scrapes.
//
//	scheduler := NewScheduler(pipeline, runRepo, driver, interval, workerCount)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueScrape(partition)
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	EnqueueScrape(partition cfg.Partition) error
}

// PartitionRunner scrapes and stores one partition. *scrape.Driver
// satisfies it.
type PartitionRunner interface {
	RunPartition(ctx context.Context, partition cfg.Partition) (database.Run, error)
}
