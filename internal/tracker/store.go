package tracker

import (
	"context"
	"strings"

	"schedulsy-api/internal/models"

	"github.com/google/uuid"
)

// Backend holds the ordered task collection behind a Store.
//
// Implementations must keep insertion order, return a *NotFoundError for
// unknown ids and apply each call atomically: a failed call leaves the
// collection unchanged.
type Backend interface {
	// Append adds task at the end of the collection.
	Append(ctx context.Context, task models.Task) (models.Task, error)
	// Mutate applies fn to the task with the given id and stores the result.
	Mutate(ctx context.Context, id string, fn func(*models.Task)) (models.Task, error)
	// Remove drops the task with the given id.
	Remove(ctx context.Context, id string) error
	// List returns the collection in insertion order.
	List(ctx context.Context) ([]models.Task, error)
}

// Store is the only writer of task state for one session.
type Store struct {
	backend Backend
	newID   func() string
}

// NewStore creates a Store on top of backend.
func NewStore(backend Backend) *Store {
	return &Store{
		backend: backend,
		newID:   uuid.NewString,
	}
}

// NewMemoryStore creates a Store holding its tasks in process memory.
func NewMemoryStore() *Store {
	return NewStore(NewMemoryBackend())
}

// Add appends a new PENDING, MEDIUM priority task with the given title.
// A title that is blank after trimming yields a *ValidationError.
func (s *Store) Add(ctx context.Context, title string) (models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return models.Task{}, &ValidationError{Field: "title", Message: "must not be empty"}
	}

	task := models.Task{
		ID:       s.newID(),
		Title:    title,
		Status:   models.StatusPending,
		Priority: models.PriorityMedium,
	}
	return s.backend.Append(ctx, task)
}

// ToggleCompletion flips a task between COMPLETED and PENDING. Any status
// other than COMPLETED counts as not completed and becomes COMPLETED.
func (s *Store) ToggleCompletion(ctx context.Context, id string) (models.Task, error) {
	return s.backend.Mutate(ctx, id, func(t *models.Task) {
		t.Status = toggledStatus(t.Status)
	})
}

// Remove deletes a task, keeping the order of the remaining ones.
func (s *Store) Remove(ctx context.Context, id string) error {
	return s.backend.Remove(ctx, id)
}

// Tasks returns a snapshot of the collection in insertion order.
func (s *Store) Tasks(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.backend.List(ctx)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// Task returns a single task by id.
func (s *Store) Task(ctx context.Context, id string) (models.Task, error) {
	tasks, err := s.backend.List(ctx)
	if err != nil {
		return models.Task{}, err
	}
	for _, t := range tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Task{}, &NotFoundError{ID: id}
}

// Metrics projects the current collection. It reads a fresh snapshot on
// every call.
func (s *Store) Metrics(ctx context.Context) (Metrics, error) {
	tasks, err := s.backend.List(ctx)
	if err != nil {
		return Metrics{}, err
	}
	return Project(tasks), nil
}

// The prior non-completed status is not remembered: IN_PROGRESS and
// CANCELLED both come back as PENDING after two toggles.
func toggledStatus(s models.TaskStatus) models.TaskStatus {
	if s == models.StatusCompleted {
		return models.StatusPending
	}
	return models.StatusCompleted
}
