package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// TaskStatus represents the status of a task
type TaskStatus string

const (
	StatusPending    TaskStatus = "PENDING"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
	StatusCancelled  TaskStatus = "CANCELLED"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

// Valid reports whether p is one of the known priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task represents a task in the system
type Task struct {
	ID                string       `json:"id" gorm:"primaryKey"`
	SessionID         string       `json:"-" gorm:"column:session_id;index;not null"`
	Seq               int64        `json:"-" gorm:"column:seq;not null"`
	Title             string       `json:"title" gorm:"not null"`
	Description       *string      `json:"description,omitempty"`
	Status            TaskStatus   `json:"status" gorm:"not null;default:'PENDING'"`
	Priority          TaskPriority `json:"priority" gorm:"not null;default:'MEDIUM'"`
	DueDate           *time.Time   `json:"dueDate,omitempty" gorm:"column:due_date"`
	EstimatedDuration *int         `json:"estimatedDuration,omitempty" gorm:"column:estimated_duration"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

// BeforeSave rejects rows carrying a status or priority outside the taxonomy.
func (t *Task) BeforeSave(tx *gorm.DB) error {
	if !t.Status.Valid() {
		return fmt.Errorf("invalid task status %q", t.Status)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("invalid task priority %q", t.Priority)
	}
	return nil
}

// Clone returns a copy of t that shares no pointers with it.
func (t Task) Clone() Task {
	c := t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.EstimatedDuration != nil {
		d := *t.EstimatedDuration
		c.EstimatedDuration = &d
	}
	return c
}
