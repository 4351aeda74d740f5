// Package jobs tracks extraction jobs and their status lifecycle.
//
// A job moves queued -> processing -> completed or failed. Terminal states are
// final: re-processing an input creates a new job rather than mutating an old
// one. The Store is the only state shared between concurrently running jobs;
// it hands out snapshot copies so callers polling a job never observe a
// partially updated record.
package jobs

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is one end-to-end processing request for a single input document.
type Job struct {
	ID          string     `json:"id"`
	Filename    string     `json:"filename"`
	InputPath   string     `json:"-"`
	Status      Status     `json:"status"`
	Error       string     `json:"error,omitempty"`
	OutputDir   string     `json:"output_dir"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ErrNotFound is returned when a job id is unknown to the store.
var ErrNotFound = errors.New("job not found")

// Store is an in-memory job table safe for concurrent use. It starts empty,
// gains an entry per submission and never prunes entries.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{jobs: make(map[string]Job)}
}

// Create registers a new queued job for the input file. The job's output
// directory is its own subdirectory of outputRoot, keyed by the job id.
func (s *Store) Create(inputPath, outputRoot string) Job {
	id := uuid.NewString()
	job := Job{
		ID:        id,
		Filename:  filepath.Base(inputPath),
		InputPath: inputPath,
		Status:    StatusQueued,
		OutputDir: filepath.Join(outputRoot, id),
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()
	return job
}

// Get returns a snapshot of the job, if present.
func (s *Store) Get(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	return job, ok
}

// List returns snapshots of all jobs, oldest first.
func (s *Store) List() []Job {
	s.mu.RLock()
	out := make([]Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// MarkProcessing transitions a queued job to processing.
func (s *Store) MarkProcessing(id string) error {
	return s.transition(id, func(j *Job) error {
		if j.Status != StatusQueued {
			return fmt.Errorf("job %s is %s, not %s", id, j.Status, StatusQueued)
		}
		j.Status = StatusProcessing
		return nil
	})
}

// MarkCompleted transitions a processing job to completed.
func (s *Store) MarkCompleted(id string) error {
	return s.transition(id, func(j *Job) error {
		if j.Status != StatusProcessing {
			return fmt.Errorf("job %s is %s, not %s", id, j.Status, StatusProcessing)
		}
		j.Status = StatusCompleted
		now := time.Now().UTC()
		j.CompletedAt = &now
		return nil
	})
}

// MarkFailed transitions a non-terminal job to failed, recording the reason.
func (s *Store) MarkFailed(id, reason string) error {
	return s.transition(id, func(j *Job) error {
		if j.Status.Terminal() {
			return fmt.Errorf("job %s is already %s", id, j.Status)
		}
		j.Status = StatusFailed
		j.Error = reason
		now := time.Now().UTC()
		j.CompletedAt = &now
		return nil
	})
}

func (s *Store) transition(id string, apply func(*Job) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	if err := apply(&job); err != nil {
		return err
	}
	s.jobs[id] = job
	return nil
}
