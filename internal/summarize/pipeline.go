package summarize

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/nextudy/summarizer/internal/chunker"
	"github.com/nextudy/summarizer/internal/llm"
	"github.com/nextudy/summarizer/internal/textutil"
)

// Completer issues one chat completion against the hosted model.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// Config controls pipeline behavior.
type Config struct {
	ChunkMaxChars int // Target chunk size in characters.
	MinTextLen    int // Normalized text shorter than this is rejected.
	Concurrency   int // Chunk analysis calls in flight at once.
	MaxAttempts   int // Attempts per chunk call; 1 means no retry.
}

// DefaultConfig returns the observed production behavior: 3500-char chunks,
// strictly sequential calls, no retry.
func DefaultConfig() Config {
	return Config{
		ChunkMaxChars: 3500,
		MinTextLen:    100,
		Concurrency:   1,
		MaxAttempts:   1,
	}
}

// Token budgets per stage.
const (
	partialMaxTokens = 1024
	fuseMaxTokens    = 4096
	finalMaxTokens   = 2048
)

// Request is one document to summarize.
type Request struct {
	Title     string
	Author    string
	Content   string
	IncludeQA bool

	// OnProgress, if set, is called after chunking with (0, total) and after
	// each chunk's analysis completes or fails with (done, total).
	OnProgress func(done, total int)
}

// Result is the outcome of a successful (possibly degraded) run.
type Result struct {
	Summary         string
	ChunksProcessed int
	TotalChunks     int
	FailedChunks    []int // 1-based positions of chunks whose analysis failed
}

// Pipeline runs normalize → chunk → per-chunk analysis → fuse → optional
// finalize. It holds no per-request state; a single Pipeline serves
// concurrent requests.
type Pipeline struct {
	llm Completer
	log *slog.Logger
	cfg Config
}

func New(c Completer, log *slog.Logger, cfg Config) *Pipeline {
	if cfg.ChunkMaxChars <= 0 {
		cfg.ChunkMaxChars = 3500
	}
	if cfg.MinTextLen <= 0 {
		cfg.MinTextLen = 100
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &Pipeline{llm: c, log: log, cfg: cfg}
}

// Run executes the full pipeline for one document. Per-chunk analysis
// failures are recorded and absorbed; the run fails only when the input is
// unusable, every chunk fails, or the fuse call fails.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	log := p.log.With("title", req.Title)

	text := textutil.Normalize(req.Content)
	if len(text) < p.cfg.MinTextLen {
		return nil, ErrEmptyInput
	}

	chunks := chunker.Split(text, chunker.Config{MaxChars: p.cfg.ChunkMaxChars})
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}
	log.Info("chunked document", "chunks", len(chunks), "chars", len(text))
	if req.OnProgress != nil {
		req.OnProgress(0, len(chunks))
	}

	partials, failed := p.analyzeChunks(ctx, req, chunks, log)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(failed) == len(chunks) {
		return nil, &TotalFailureError{FailedChunks: failed, TotalChunks: len(chunks)}
	}

	// Re-assemble in ascending chunk index regardless of completion order.
	ordered := make([]string, 0, len(chunks)-len(failed))
	for _, partial := range partials {
		if partial != "" {
			ordered = append(ordered, partial)
		}
	}

	fused, err := p.llm.Complete(ctx, llm.Request{
		System:      fuseSystemPrompt,
		User:        fuseMessage(req.Title, req.Author, ordered),
		Temperature: 0.4,
		MaxTokens:   fuseMaxTokens,
	})
	if err == nil && strings.TrimSpace(fused) == "" {
		err = errors.New("empty fuse completion")
	}
	if err != nil {
		log.Error("fuse failed", "error", err)
		return nil, &FuseError{Err: err}
	}

	summary := fused
	if req.IncludeQA {
		report, err := p.llm.Complete(ctx, llm.Request{
			System:      finalSystemPrompt,
			User:        finalMessage(req.Title, req.Author, fused),
			Temperature: 0.5,
			MaxTokens:   finalMaxTokens,
		})
		if err != nil {
			// The fused summary is already usable; degrade instead of failing.
			log.Warn("final analysis failed, returning fused summary only", "error", err)
		} else {
			summary = fused + SectionSeparator + report
		}
	}

	log.Info("summary complete",
		"chunks_processed", len(chunks)-len(failed),
		"total_chunks", len(chunks),
		"failed_chunks", len(failed),
	)

	return &Result{
		Summary:         summary,
		ChunksProcessed: len(chunks) - len(failed),
		TotalChunks:     len(chunks),
		FailedChunks:    failed,
	}, nil
}

// analyzeChunks fans chunk analysis out with bounded concurrency, collecting
// results into index-addressed slots. It returns one slot per chunk (empty
// on failure) and the sorted 1-based positions of failed chunks.
func (p *Pipeline) analyzeChunks(ctx context.Context, req Request, chunks []chunker.Chunk, log *slog.Logger) ([]string, []int) {
	type chunkResult struct {
		idx  int
		text string
		err  error
	}
	results := make(chan chunkResult, len(chunks))
	sem := make(chan struct{}, p.cfg.Concurrency)

	for i, chunk := range chunks {
		sem <- struct{}{}
		go func(i int, chunk chunker.Chunk) {
			defer func() { <-sem }()
			if err := ctx.Err(); err != nil {
				results <- chunkResult{idx: i, err: err}
				return
			}
			text, err := p.analyzeChunk(ctx, req, chunk, len(chunks))
			results <- chunkResult{idx: i, text: text, err: err}
		}(i, chunk)
	}

	partials := make([]string, len(chunks))
	var failed []int
	done := 0
	for range chunks {
		r := <-results
		done++
		if req.OnProgress != nil {
			req.OnProgress(done, len(chunks))
		}
		if r.err != nil {
			log.Error("chunk analysis failed", "chunk", r.idx+1, "error", r.err)
			failed = append(failed, r.idx+1)
			continue
		}
		partials[r.idx] = r.text
	}
	sort.Ints(failed)

	return partials, failed
}

// analyzeChunk runs one chunk's completion call through the attempt loop.
// With MaxAttempts 1 this is a single call with no retry.
func (p *Pipeline) analyzeChunk(ctx context.Context, req Request, chunk chunker.Chunk, total int) (string, error) {
	llmReq := llm.Request{
		System:      partialSystemPrompt,
		User:        chunkMessage(req.Title, req.Author, chunk.Index+1, total, chunk.Text),
		Temperature: 0.3,
		MaxTokens:   partialMaxTokens,
	}

	var text string
	var err error
	for attempt := 0; attempt < p.cfg.MaxAttempts; attempt++ {
		text, err = p.llm.Complete(ctx, llmReq)
		if err == nil || !llm.IsRetryable(err) || attempt == p.cfg.MaxAttempts-1 {
			break
		}
		select {
		case <-time.After(backoff(attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty completion")
	}
	return text, nil
}

// backoff returns a duration for attempt n (0-indexed) with jitter.
func backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}
