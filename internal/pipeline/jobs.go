package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// JobStatus represents the state of a render job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusLoading    JobStatus = "loading"
	StatusAssembling JobStatus = "assembling"
	StatusRendering  JobStatus = "rendering"
	StatusWriting    JobStatus = "writing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job tracks the state of a single documentation render.
type Job struct {
	mu sync.Mutex

	ID          string `json:"job_id"`
	PackageName string `json:"package,omitempty"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	// Render options, fixed at submission time.
	Formats       []string `json:"formats"`
	Package       string   `json:"package_prefix,omitempty"`
	Modules       []string `json:"modules,omitempty"`
	SeparatePages bool     `json:"separate_pages"`
	Title         string   `json:"title,omitempty"`
	Intro         string   `json:"intro,omitempty"`
	ContentsTable bool     `json:"contents_table"`
	OutputDir     string   `json:"output_dir,omitempty"`

	Progress Progress `json:"progress"`

	IRHash    string    `json:"ir_hash,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	irData []byte
	errors []string
}

// Progress tracks render progress.
type Progress struct {
	TotalModules      int      `json:"total_modules"`
	ModulesRendered   int      `json:"modules_rendered"`
	PagesWritten      int      `json:"pages_written"`
	SymbolsRegistered int      `json:"symbols_registered"`
	Errors            []string `json:"errors"`
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

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
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

// IncrModulesRendered atomically increments the rendered module count.
func (j *Job) IncrModulesRendered() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ModulesRendered++
	j.UpdatedAt = time.Now()
}

// AddPagesWritten records output files written to disk.
func (j *Job) AddPagesWritten(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.PagesWritten += n
	j.UpdatedAt = time.Now()
}

// SetTotalModules records how many modules the job will render.
func (j *Job) SetTotalModules(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalModules = n
	j.UpdatedAt = time.Now()
}

// SetSymbolsRegistered records the cross-reference registry size.
func (j *Job) SetSymbolsRegistered(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.SymbolsRegistered = n
	j.UpdatedAt = time.Now()
}

// SetPackageName records the package name once the IR is parsed.
func (j *Job) SetPackageName(name string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.PackageName = name
	j.UpdatedAt = time.Now()
}

// SetIRData sets the raw IR bytes for processing.
func (j *Job) SetIRData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.irData = data
}

// IRData returns the raw IR bytes.
func (j *Job) IRData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.irData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	PackageName string    `json:"package,omitempty"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Formats     []string  `json:"formats"`
	Progress    Progress  `json:"progress"`
	IRHash      string    `json:"ir_hash,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	formats := make([]string, len(j.Formats))
	copy(formats, j.Formats)
	return JobSnapshot{
		ID:          j.ID,
		PackageName: j.PackageName,
		Status:      j.Status,
		Phase:       j.Phase,
		Formats:     formats,
		IRHash:      j.IRHash,
		Progress: Progress{
			TotalModules:      j.Progress.TotalModules,
			ModulesRendered:   j.Progress.ModulesRendered,
			PagesWritten:      j.Progress.PagesWritten,
			SymbolsRegistered: j.Progress.SymbolsRegistered,
			Errors:            errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
