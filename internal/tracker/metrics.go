package tracker

import "schedulsy-api/internal/models"

// Metrics are the aggregate numbers shown above the task list.
type Metrics struct {
	TotalCount           int     `json:"totalCount"`
	CompletedCount       int     `json:"completedCount"`
	PendingCount         int     `json:"pendingCount"`
	CompletionPercentage float64 `json:"completionPercentage"`
}

// Project derives Metrics from a task collection.
//
// IN_PROGRESS and CANCELLED tasks count towards the total only, so
// CompletedCount + PendingCount may be less than TotalCount.
func Project(tasks []models.Task) Metrics {
	m := Metrics{TotalCount: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case models.StatusCompleted:
			m.CompletedCount++
		case models.StatusPending:
			m.PendingCount++
		}
	}
	if m.TotalCount > 0 {
		m.CompletionPercentage = float64(m.CompletedCount) / float64(m.TotalCount) * 100
	}
	return m
}
