package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmoralesc/actalyzer/internal/analyze"
)

// ResultStore persists completed analyses.
type ResultStore interface {
	Create(ctx context.Context, result *analyze.DocumentAnalysisResult) (string, error)
}

// Orchestrator runs async analysis jobs through a bounded queue. Each
// worker processes one document at a time with the synchronous Processor,
// so documents run concurrently while chunks within a document stay
// strictly sequential.
type Orchestrator struct {
	jobs      *JobStore
	queue     chan *Job
	processor *Processor
	store     ResultStore
	log       *slog.Logger

	workerCount int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOrchestrator(processor *Processor, store ResultStore, log *slog.Logger, workerCount, queueSize int, jobTTL time.Duration) *Orchestrator {
	if workerCount <= 0 {
		workerCount = 2
	}
	if queueSize <= 0 {
		queueSize = 50
	}
	return &Orchestrator{
		jobs:        NewJobStore(jobTTL),
		queue:       make(chan *Job, queueSize),
		processor:   processor,
		store:       store,
		log:         log,
		workerCount: workerCount,
	}
}

// Start launches worker goroutines and the job store cleanup loop.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.workerCount {
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
					o.run(workerCtx, job)
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

// Stop gracefully shuts down the workers.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.Fail(fmt.Errorf("job queue is full (%d)", cap(o.queue)))
		return fmt.Errorf("job queue is full (%d)", cap(o.queue))
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

func (o *Orchestrator) run(ctx context.Context, job *Job) {
	log := o.log.With("job_id", job.ID, "filename", job.Filename)
	job.SetStatus(StatusProcessing)

	result, err := o.processor.Process(ctx, job.FileData(), job.Filename)
	if err != nil {
		job.Fail(err)
		return
	}

	if o.store != nil {
		if _, err := o.store.Create(ctx, result); err != nil {
			log.Error("persist analysis failed", "error", err)
			job.Fail(fmt.Errorf("persist analysis: %w", err))
			return
		}
	}

	job.Complete(result)
	log.Info("job completed", "is_financial", result.IsFinancial)
}
