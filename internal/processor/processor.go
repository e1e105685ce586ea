// Package processor owns the task queue, the dedup cache and the
// worker pool, and ties them into the submit-and-render pipeline.
package processor

import (
	"context"
	"sync"

	"github.com/wb-go/wbf/zlog"

	"github.com/mkarpenko/assetconv/internal/model"
	"github.com/mkarpenko/assetconv/internal/queue"
	"github.com/mkarpenko/assetconv/internal/request"
)

// DefaultWorkers is used when the configured worker count is invalid.
const DefaultWorkers = 1

// taskRunner executes one task end to end.
type taskRunner interface {
	Run(ctx context.Context, task model.Task) error
}

// dedupCache reports whether a stem was already processed for a
// directory, recording it on a miss.
type dedupCache interface {
	CheckAndRecord(stem, dir string) (bool, error)
}

// Processor accepts task definition lines, queues the valid ones and
// renders them on a fixed pool of workers, skipping inputs the dedup
// cache has already seen for their output directory.
type Processor struct {
	queue   *queue.Queue
	cache   dedupCache
	runner  taskRunner
	workers int
	wg      sync.WaitGroup
}

// New creates a Processor with the given worker count. A count below 1
// is clamped to DefaultWorkers with a warning.
func New(r taskRunner, c dedupCache, workers int) *Processor {
	if workers <= 0 {
		zlog.Logger.Warn().
			Int("workers", workers).
			Int("default", DefaultWorkers).
			Msg("incorrect number of workers, using default")
		workers = DefaultWorkers
	}

	return &Processor{
		queue:   queue.New(),
		cache:   c,
		runner:  r,
		workers: workers,
	}
}

// Start launches the worker pool. Workers run until the context is
// canceled or the queue is closed and drained; an in-flight task is
// always finished, never interrupted.
func (p *Processor) Start(ctx context.Context) {
	zlog.Logger.Info().Int("workers", p.workers).Msg("starting workers")

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.work(ctx, i)
	}
}

// Submit parses one definition line and enqueues the task. A malformed
// line is logged and dropped; nothing reaches the queue.
func (p *Processor) Submit(line string) error {
	task, err := request.Parse(line)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to parse task definition")
		return err
	}

	zlog.Logger.Info().Str("line", line).Msg("queueing task")
	p.queue.Enqueue(task)

	return nil
}

// Run parses one definition line and renders it synchronously on the
// calling goroutine, bypassing the queue and the dedup cache.
func (p *Processor) Run(ctx context.Context, line string) error {
	task, err := request.Parse(line)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to parse task definition")
		return err
	}

	return p.runner.Run(ctx, task)
}

// Close stops intake: no further submissions are queued, and workers
// exit once the remaining tasks are drained.
func (p *Processor) Close() {
	p.queue.Close()
}

// Wait blocks until every worker has exited. Call after Close, or
// after canceling the context passed to Start.
func (p *Processor) Wait() {
	p.wg.Wait()
}

// QueueLen reports the number of tasks still waiting to be dequeued.
func (p *Processor) QueueLen() int {
	return p.queue.Len()
}

func (p *Processor) work(ctx context.Context, id int) {
	defer p.wg.Done()

	// Task execution is shielded from cancellation: shutdown prevents
	// picking up new work, not finishing the current task.
	runCtx := context.WithoutCancel(ctx)

	for {
		task, ok := p.queue.Dequeue(ctx)
		if !ok {
			zlog.Logger.Info().Int("worker", id).Msg("worker stopping")
			return
		}

		// Filesystem errors inside the cache are logged there and
		// degrade to a miss, so the task still runs.
		hit, _ := p.cache.CheckAndRecord(task.Stem(), task.OutputDir())
		if hit {
			zlog.Logger.Info().
				Str("input", task.Input).
				Str("output", task.Output).
				Msg("already processed, skipping")
			continue
		}

		if err := p.runner.Run(runCtx, task); err != nil {
			zlog.Logger.Error().Err(err).
				Str("input", task.Input).
				Msg("task failed")
		}
	}
}
