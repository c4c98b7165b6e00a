package tracker

import (
	"context"
	"fmt"
	"sync"

	"schedulsy-api/internal/models"
)

// MemoryBackend keeps tasks in an ordered slice with an id index.
type MemoryBackend struct {
	mu    sync.RWMutex
	tasks []models.Task
	index map[string]int
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		index: make(map[string]int),
	}
}

// Append implements Backend.Append.
func (b *MemoryBackend) Append(_ context.Context, task models.Task) (models.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.index[task.ID]; exists {
		return models.Task{}, fmt.Errorf("task id %q already exists", task.ID)
	}
	task.Seq = 1
	if n := len(b.tasks); n > 0 {
		task.Seq = b.tasks[n-1].Seq + 1
	}
	b.index[task.ID] = len(b.tasks)
	b.tasks = append(b.tasks, task.Clone())
	return task.Clone(), nil
}

// Mutate implements Backend.Mutate.
func (b *MemoryBackend) Mutate(_ context.Context, id string, fn func(*models.Task)) (models.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i, ok := b.index[id]
	if !ok {
		return models.Task{}, &NotFoundError{ID: id}
	}
	updated := b.tasks[i].Clone()
	fn(&updated)
	b.tasks[i] = updated
	return updated.Clone(), nil
}

// Remove implements Backend.Remove.
func (b *MemoryBackend) Remove(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i, ok := b.index[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	b.tasks = append(b.tasks[:i], b.tasks[i+1:]...)
	delete(b.index, id)
	for j := i; j < len(b.tasks); j++ {
		b.index[b.tasks[j].ID] = j
	}
	return nil
}

// List implements Backend.List.
func (b *MemoryBackend) List(_ context.Context) ([]models.Task, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.Task, len(b.tasks))
	for i, t := range b.tasks {
		out[i] = t.Clone()
	}
	return out, nil
}

var _ Backend = (*MemoryBackend)(nil)
