package jobs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nextudy/summarizer/internal/parser"
	"github.com/nextudy/summarizer/internal/summarize"
)

// Orchestrator runs queued file-upload summary jobs on a worker pool.
type Orchestrator struct {
	store    *Store
	queue    chan *Job
	pipeline *summarize.Pipeline
	log      *slog.Logger

	workerCount          int
	maxQueueSize         int
	pdfFallbackPdftotext bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Options configures the orchestrator.
type Options struct {
	WorkerCount          int
	MaxQueueSize         int
	JobTTL               time.Duration
	PDFFallbackPdftotext bool
}

func NewOrchestrator(p *summarize.Pipeline, log *slog.Logger, opts Options) *Orchestrator {
	if opts.WorkerCount <= 0 {
		opts.WorkerCount = 2
	}
	if opts.MaxQueueSize <= 0 {
		opts.MaxQueueSize = 50
	}
	return &Orchestrator{
		store:                NewStore(opts.JobTTL),
		queue:                make(chan *Job, opts.MaxQueueSize),
		pipeline:             p,
		log:                  log,
		workerCount:          opts.WorkerCount,
		maxQueueSize:         opts.MaxQueueSize,
		pdfFallbackPdftotext: opts.PDFFallbackPdftotext,
	}
}

// Start launches worker goroutines and the job store cleanup loop.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.workerCount; i++ {
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
				o.store.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the worker pool.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.store.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.maxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.store.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// process runs one job: extract text from the upload, then summarize it.
func (o *Orchestrator) process(ctx context.Context, job *Job) {
	log := o.log.With("job_id", job.ID, "filename", job.Filename)
	defer job.ReleaseFileData()

	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if pdfParser, ok := p.(*parser.PDFParser); ok {
		pdfParser.FallbackPdftotext = o.pdfFallbackPdftotext
	}

	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	title := job.Title
	if title == "" {
		title = doc.Title
	}
	author := job.Author
	if author == "" {
		author = "Unknown"
	}

	job.SetStatus(StatusSummarizing, "summarizing")
	res, err := o.pipeline.Run(ctx, summarize.Request{
		Title:      title,
		Author:     author,
		Content:    doc.Text,
		IncludeQA:  job.IncludeQA,
		OnProgress: job.SetChunkProgress,
	})
	if err != nil {
		var totalErr *summarize.TotalFailureError
		if errors.As(err, &totalErr) {
			job.SetResult("", 0, totalErr.TotalChunks, totalErr.FailedChunks)
		}
		log.Error("summarize failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "summarizing")
		return
	}

	job.SetResult(res.Summary, res.ChunksProcessed, res.TotalChunks, res.FailedChunks)
	if len(res.FailedChunks) > 0 {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
	log.Info("job complete",
		"status", job.Status,
		"chunks_processed", res.ChunksProcessed,
		"total_chunks", res.TotalChunks,
	)
}
