package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/lis-comb/app/cfg"
	"github.com/lysyi3m/lis-comb/app/database"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

var ErrAlreadyScheduled = errors.New("partition is already scheduled")

const (
	DefaultTaskTimeout = 30 * time.Minute
	maxRetryDelay      = 30 * time.Second
)

type Scheduler struct {
	pipeline       *cfg.Pipeline
	runs           database.RunStore
	runner         PartitionRunner
	interval       time.Duration
	workerCount    int
	taskTimeout    time.Duration
	retryBaseDelay time.Duration
	now            func() time.Time
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	taskQueue      chan TaskInterface

	mu      sync.Mutex
	pending map[string]bool
}

func NewScheduler(pipeline *cfg.Pipeline, runs database.RunStore, runner PartitionRunner, interval time.Duration, workerCount int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		pipeline:       pipeline,
		runs:           runs,
		runner:         runner,
		interval:       interval,
		workerCount:    max(workerCount, 1),
		taskTimeout:    DefaultTaskTimeout,
		retryBaseDelay: time.Second,
		now:            time.Now,
		ctx:            ctx,
		cancel:         cancel,
		taskQueue:      make(chan TaskInterface, 100),
		pending:        make(map[string]bool),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.registerPartitions()
		s.enqueueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// EnqueueScrape queues a scrape of partition unless one is already queued
// or running.
func (s *Scheduler) EnqueueScrape(partition cfg.Partition) error {
	key := partition.String()

	s.mu.Lock()
	if s.pending[key] {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyScheduled, key)
	}
	s.pending[key] = true
	s.mu.Unlock()

	if err := s.EnqueueTask(NewScrapePartitionTask(partition, s.runner)); err != nil {
		s.release(key)
		return err
	}
	return nil
}

// Partitions are registered inline so the first due check already sees them.
func (s *Scheduler) registerPartitions() {
	for _, partition := range s.pipeline.Partitions {
		task := NewRegisterPartitionTask(partition, s.runs)
		task.Start()
		if err := task.Execute(s.ctx); err != nil {
			slog.Warn("Failed to register partition", "partition", partition.String(), "error", err)
		}
	}
}

func (s *Scheduler) enqueueTasks() {
	due, err := s.runs.GetDuePartitions(s.ctx, s.now().UTC())
	if err != nil {
		slog.Warn("Failed to get due partitions", "error", err)
		return
	}

	if len(due) == 0 {
		slog.Debug("No partitions due for refresh")
		return
	}

	slog.Debug("Scheduling due partitions", "count", len(due))

	for _, state := range due {
		partition, ok := s.pipeline.Find(state.Year, state.Bill)
		if !ok {
			slog.Debug("Partition not configured, skipping", "year", state.Year, "bill", state.Bill)
			continue
		}

		if err := s.EnqueueScrape(partition); err != nil {
			slog.Debug("Partition not enqueued", "partition", partition.String(), "error", err)
		}
	}
}

func (s *Scheduler) release(key string) {
	s.mu.Lock()
	delete(s.pending, key)
	s.mu.Unlock()
}

// finish frees the partition of a scrape task that will not run again.
func (s *Scheduler) finish(task TaskInterface) {
	if task.GetType() == TaskTypeScrapePartition {
		s.release(task.GetPartitionKey())
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, s.taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		s.finish(task)
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() || s.ctx.Err() != nil {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		s.finish(task)
		return
	}

	task.IncrementRetryCount()
	retryDelay := min(s.retryBaseDelay<<uint(task.GetRetryCount()-1), maxRetryDelay)

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "partition", task.GetPartitionKey(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			return
		case <-time.After(retryDelay):
		}

		if retryErr := s.EnqueueTask(task); retryErr != nil {
			slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
			s.finish(task)
		}
	}()
}
