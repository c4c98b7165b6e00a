package database

import (
	"context"
	"errors"
	"fmt"

	"schedulsy-api/internal/models"
	"schedulsy-api/internal/tracker"

	"gorm.io/gorm"
)

// TaskRepository stores the tasks of one session in the tasks table. Every
// call runs in its own transaction.
type TaskRepository struct {
	db        *gorm.DB
	sessionID string
}

// NewTaskRepository creates a repository scoped to sessionID.
func NewTaskRepository(db *gorm.DB, sessionID string) *TaskRepository {
	return &TaskRepository{db: db, sessionID: sessionID}
}

// NewTaskBackendFactory returns a tracker.BackendFactory backed by db.
func NewTaskBackendFactory(db *gorm.DB) tracker.BackendFactory {
	return func(sessionID string) tracker.Backend {
		return NewTaskRepository(db, sessionID)
	}
}

func (r *TaskRepository) scoped(tx *gorm.DB) *gorm.DB {
	return tx.Where("session_id = ?", r.sessionID)
}

// Append implements tracker.Backend.
func (r *TaskRepository) Append(ctx context.Context, task models.Task) (models.Task, error) {
	task.SessionID = r.sessionID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lastSeq int64
		if err := r.scoped(tx.Model(&models.Task{})).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&lastSeq).Error; err != nil {
			return err
		}
		task.Seq = lastSeq + 1
		return tx.Create(&task).Error
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// Mutate implements tracker.Backend.
func (r *TaskRepository) Mutate(ctx context.Context, id string, fn func(*models.Task)) (models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.scoped(tx).Where("id = ?", id).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &tracker.NotFoundError{ID: id}
			}
			return err
		}
		fn(&task)
		return tx.Save(&task).Error
	})
	if err != nil {
		if errors.Is(err, tracker.ErrNotFound) {
			return models.Task{}, err
		}
		return models.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// Remove implements tracker.Backend.
func (r *TaskRepository) Remove(ctx context.Context, id string) error {
	result := r.scoped(r.db.WithContext(ctx)).Where("id = ?", id).Delete(&models.Task{})
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return &tracker.NotFoundError{ID: id}
	}
	return nil
}

// List implements tracker.Backend.
func (r *TaskRepository) List(ctx context.Context) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := r.scoped(r.db.WithContext(ctx)).Order("seq asc").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	return tasks, nil
}

// Discard implements tracker.Discarder. It drops every task of the session.
func (r *TaskRepository) Discard(ctx context.Context) error {
	if err := r.scoped(r.db.WithContext(ctx)).Delete(&models.Task{}).Error; err != nil {
		return fmt.Errorf("failed to discard session tasks: %w", err)
	}
	return nil
}

var (
	_ tracker.Backend   = (*TaskRepository)(nil)
	_ tracker.Discarder = (*TaskRepository)(nil)
)
