package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dgallion1/docsearch/internal/config"
	"github.com/dgallion1/docsearch/internal/document"
)

// Loader is the part of the text index the pipeline drives.
type Loader interface {
	LoadFromBytes(ctx context.Context, data []byte, name string) (*document.Document, error)
}

// Orchestrator runs uploaded documents through the loader in the background.
type Orchestrator struct {
	jobs   *JobStore
	queue  chan *Job
	loader Loader
	log    *slog.Logger
	cfg    config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, loader Loader, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:   NewJobStore(cfg.JobTTL),
		queue:  make(chan *Job, cfg.MaxQueueSize),
		loader: loader,
		log:    log,
		cfg:    cfg,
	}
}

// Start launches worker goroutines. Each finished load replaces the index
// document, so the last load to finish wins. A single worker applies uploads in
// submission order; several workers may finish overlapping loads out of order.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for w := 0; w < o.cfg.LoadWorkers; w++ {
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

	// Start job store cleanup.
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

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	close(o.queue)
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		job.SetStatus(StatusFailed, "shutdown")
		return fmt.Errorf("pipeline is stopped")
	}
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
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

func (o *Orchestrator) process(ctx context.Context, job *Job) {
	log := o.log.With("job_id", job.ID, "filename", job.Filename)

	job.SetStatus(StatusExtracting, "extracting")
	loadCtx, cancel := context.WithTimeout(ctx, o.cfg.LoadTimeout)
	defer cancel()

	start := time.Now()
	doc, err := o.loader.LoadFromBytes(loadCtx, job.FileData(), job.Filename)
	if err != nil {
		log.Error("load failed", "error", err)
		job.Fail("extracting", err)
		return
	}

	job.Complete(doc.PageCount, utf8.RuneCountInString(doc.Text), doc.ContentHash)
	log.Info("job completed",
		"pages", doc.PageCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
