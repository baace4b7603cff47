// Package task tracks the lifecycle of asynchronous analysis runs.
package task

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an analysis task.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusParsing   Status = "parsing"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// ErrNotFound is returned when a task ID is unknown.
var ErrNotFound = errors.New("task not found")

// Task is a snapshot of one analysis run.
type Task struct {
	ID        string    `json:"task_id"`
	Status    Status    `json:"status"`
	Progress  int       `json:"progress"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Result holds the completed analysis payload. It is only set once
	// the task reaches StatusCompleted.
	Result any `json:"-"`
}

// Store keeps task state in memory, keyed by UUID.
type Store struct {
	mu    sync.RWMutex
	tasks map[string]*Task
}

// NewStore creates an empty task store.
func NewStore() *Store {
	return &Store{tasks: make(map[string]*Task)}
}

// Create registers a new queued task and returns a handle for updating it.
func (s *Store) Create() *Handle {
	now := time.Now()
	t := &Task{
		ID:        uuid.New().String(),
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.tasks[t.ID] = t
	s.mu.Unlock()

	return &Handle{store: s, id: t.ID}
}

// Get returns a copy of the task with the given ID.
func (s *Store) Get(id string) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	return *t, nil
}

func (s *Store) update(id string, fn func(*Task)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return
	}
	fn(t)
	t.UpdatedAt = time.Now()
}

// Handle updates one task as its run progresses.
type Handle struct {
	store *Store
	id    string
}

// ID returns the task identifier.
func (h *Handle) ID() string {
	return h.id
}

// SetStatus moves the task to a new lifecycle state.
func (h *Handle) SetStatus(status Status) {
	h.store.update(h.id, func(t *Task) {
		t.Status = status
	})
}

// SetProgress records run progress as a percentage.
func (h *Handle) SetProgress(progress int) {
	h.store.update(h.id, func(t *Task) {
		t.Progress = progress
	})
}

// Complete marks the task completed with its result payload.
func (h *Handle) Complete(result any) {
	h.store.update(h.id, func(t *Task) {
		t.Status = StatusCompleted
		t.Progress = 100
		t.Result = result
	})
}

// Fail marks the task failed with a message for the client.
func (h *Handle) Fail(msg string) {
	h.store.update(h.id, func(t *Task) {
		t.Status = StatusFailed
		t.Error = msg
	})
}
