package jobs

import (
	"sync"
	"time"
)

// Status represents the state of a summary job.
type Status string

const (
	StatusQueued      Status = "queued"
	StatusParsing     Status = "parsing"
	StatusSummarizing Status = "summarizing"
	StatusCompleted   Status = "completed"
	StatusPartial     Status = "partial"
	StatusFailed      Status = "failed"
)

// Job tracks one file-upload summarization from queue to result.
type Job struct {
	mu sync.Mutex

	ID        string
	Filename  string
	Title     string
	Author    string
	IncludeQA bool

	Status Status
	Phase  string

	Progress Progress
	Summary  string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Internal: not part of snapshots.
	fileData []byte
	errors   []string
}

// Progress tracks chunk-level pipeline progress.
type Progress struct {
	TotalChunks     int      `json:"total_chunks"`
	ChunksProcessed int      `json:"chunks_processed"`
	FailedChunks    []int    `json:"failed_chunks,omitempty"`
	Errors          []string `json:"errors,omitempty"`
}

// NewJob creates a queued job with a fresh ULID.
func NewJob(filename, title, author string, includeQA bool, fileData []byte) *Job {
	now := time.Now()
	return &Job{
		ID:        NewID(),
		Filename:  filename,
		Title:     title,
		Author:    author,
		IncludeQA: includeQA,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  fileData,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status Status, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetChunkProgress records how many chunk calls have completed.
func (j *Job) SetChunkProgress(done, total int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ChunksProcessed = done
	j.Progress.TotalChunks = total
	j.UpdatedAt = time.Now()
}

// SetResult records the pipeline output.
func (j *Job) SetResult(summary string, processed, total int, failed []int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Summary = summary
	j.Progress.ChunksProcessed = processed
	j.Progress.TotalChunks = total
	j.Progress.FailedChunks = failed
	j.UpdatedAt = time.Now()
}

// FileData returns the raw upload bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// ReleaseFileData drops the upload bytes once processing is done.
func (j *Job) ReleaseFileData() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = nil
}

// Snapshot is a read-only, JSON-safe copy of job state.
type Snapshot struct {
	ID        string   `json:"job_id"`
	Filename  string   `json:"filename"`
	Title     string   `json:"title"`
	Author    string   `json:"author"`
	IncludeQA bool     `json:"include_qa"`
	Status    Status   `json:"status"`
	Phase     string   `json:"phase"`
	Progress  Progress `json:"progress"`
	Summary   string   `json:"summary,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return Snapshot{
		ID:        j.ID,
		Filename:  j.Filename,
		Title:     j.Title,
		Author:    j.Author,
		IncludeQA: j.IncludeQA,
		Status:    j.Status,
		Phase:     j.Phase,
		Progress: Progress{
			TotalChunks:     j.Progress.TotalChunks,
			ChunksProcessed: j.Progress.ChunksProcessed,
			FailedChunks:    j.Progress.FailedChunks,
			Errors:          errs,
		},
		Summary: j.Summary,
	}
}

// Store is a thread-safe in-memory job registry with TTL eviction.
type Store struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *Store) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *Store) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *Store) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
