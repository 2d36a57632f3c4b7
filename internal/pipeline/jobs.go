package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/avandyck/outliner/internal/outline"
)

// JobStatus represents the state of an extraction job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusStoring    JobStatus = "storing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusPartial    JobStatus = "partial"
	StatusDupSkipped JobStatus = "duplicate_skipped"
)

// Job tracks the state of a single document extraction.
type Job struct {
	mu sync.Mutex

	ID    string `json:"job_id"`
	DocID string `json:"doc_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	result   *outline.Document
	traces   []outline.StageTrace
	errors   []string
}

// Progress tracks processing progress.
type Progress struct {
	Pages       int      `json:"pages"`
	Headings    int      `json:"headings"`
	SinksTotal  int      `json:"sinks_total"`
	SinksStored int      `json:"sinks_stored"`
	Errors      []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// FindByHash returns a live job that already processed this content.
func (s *JobStore) FindByHash(hash string, excludeID string) *Job {
	if hash == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.jobs {
		if job.ID == excludeID {
			continue
		}
		job.mu.Lock()
		match := job.ContentHash == hash && (job.Status == StatusCompleted || job.Status == StatusPartial)
		job.mu.Unlock()
		if match {
			return job
		}
	}
	return nil
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if expired {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
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

// SetResult stores the finished document and its stage traces.
func (j *Job) SetResult(doc *outline.Document, traces []outline.StageTrace, pages int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = doc
	j.traces = traces
	j.Progress.Pages = pages
	if doc != nil {
		j.Progress.Headings = len(doc.Outline)
	}
	j.UpdatedAt = time.Now()
}

// Result returns the finished document, or nil while processing.
func (j *Job) Result() *outline.Document {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// Traces returns the pipeline stage traces recorded for this job.
func (j *Job) Traces() []outline.StageTrace {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.traces
}

// AddSinkResult records one sink delivery attempt.
func (j *Job) AddSinkResult(stored bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.SinksTotal++
	if stored {
		j.Progress.SinksStored++
	}
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// SetContentHash records the hash of the uploaded bytes.
func (j *Job) SetContentHash(hash string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ContentHash = hash
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	DocID    string    `json:"doc_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Title    string    `json:"title,omitempty"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	title := ""
	if j.result != nil {
		title = j.result.Title
	}
	return JobSnapshot{
		ID:       j.ID,
		DocID:    j.DocID,
		Status:   j.Status,
		Phase:    j.Phase,
		Filename: j.Filename,
		Title:    title,
		Progress: Progress{
			Pages:       j.Progress.Pages,
			Headings:    j.Progress.Headings,
			SinksTotal:  j.Progress.SinksTotal,
			SinksStored: j.Progress.SinksStored,
			Errors:      errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
