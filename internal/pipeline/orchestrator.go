package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrQueueFull is returned by Submit when the job queue has no room.
var ErrQueueFull = errors.New("job queue is full")

// Options sizes the orchestrator. Zero values select the defaults.
type Options struct {
	Concurrency  int // pages processed at once within a batch
	WorkerCount  int // async jobs processed at once
	MaxQueueSize int
	MaxRetries   int
	JobTTL       time.Duration
	Log          *slog.Logger
}

// Orchestrator runs extraction batches, synchronously via Run or queued via
// Submit.
type Orchestrator struct {
	worker *Worker
	jobs   *JobStore
	queue  chan *Job
	log    *slog.Logger
	opts   Options

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOrchestrator(fetcher Fetcher, extractor TripleExtractor, opts Options) *Orchestrator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.WorkerCount <= 0 {
		opts.WorkerCount = 2
	}
	if opts.MaxQueueSize <= 0 {
		opts.MaxQueueSize = 100
	}
	if opts.JobTTL <= 0 {
		opts.JobTTL = time.Hour
	}
	if opts.Log == nil {
		opts.Log = slog.New(slog.DiscardHandler)
	}
	return &Orchestrator{
		worker: NewWorker(fetcher, extractor, opts.Log, opts.MaxRetries),
		jobs:   NewJobStore(opts.JobTTL),
		queue:  make(chan *Job, opts.MaxQueueSize),
		log:    opts.Log,
		opts:   opts,
	}
}

// Run processes every source with bounded concurrency and returns one
// record per source in input order. A failing page never affects its
// siblings. Sources not started before ctx is done fail with the context
// error.
func (o *Orchestrator) Run(ctx context.Context, req Request) BatchResult {
	return o.run(ctx, req, nil)
}

func (o *Orchestrator) run(ctx context.Context, req Request, onRecord func(ExtractionRecord)) BatchResult {
	start := time.Now()
	records := make([]ExtractionRecord, len(req.Sources))

	var mu sync.Mutex
	done := func(i int, rec ExtractionRecord) {
		records[i] = rec
		if onRecord != nil {
			mu.Lock()
			onRecord(rec)
			mu.Unlock()
		}
	}

	var g errgroup.Group
	g.SetLimit(o.opts.Concurrency)
	for i, src := range req.Sources {
		if err := ctx.Err(); err != nil {
			done(i, failedRecord(src.URL, err))
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				done(i, failedRecord(src.URL, err))
				return nil
			}
			done(i, o.worker.Process(ctx, src, req))
			return nil
		})
	}
	_ = g.Wait()

	result := newBatchResult(records)
	o.log.Info("batch complete",
		"urls", result.Stats.TotalURLs,
		"succeeded", result.Stats.SuccessfulExtractions,
		"failed", result.Stats.FailedExtractions,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result
}

// Start launches the async job workers and the job cleanup loop.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.opts.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					o.process(workerCtx, job)
				}
			}
		}()
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

func (o *Orchestrator) process(ctx context.Context, job *Job) {
	log := o.log.With("job_id", job.ID)
	job.SetStatus(StatusRunning, "extracting")
	log.Info("job started", "urls", job.Snapshot().Progress.TotalURLs)

	result := o.run(ctx, job.Request(), job.RecordPage)
	if ctx.Err() != nil {
		job.SetStatus(StatusFailed, "canceled")
		log.Warn("job canceled")
		return
	}
	job.Complete(result)
	log.Info("job completed",
		"succeeded", result.Stats.SuccessfulExtractions,
		"failed", result.Stats.FailedExtractions,
	)
}

// Stop cancels in-flight jobs and waits for the workers to exit.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.opts.MaxQueueSize)
	}
}

// GetJob returns a job by ID, or nil.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
