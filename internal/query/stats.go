package query

import (
	"math"
	"time"

	"github.com/hearthhub/hearthhub/internal/models"
)

// Stats is the aggregate view over a set of todos.
type Stats struct {
	Total      int
	ByStatus   map[models.Status]int
	ByPriority map[models.Priority]int
	ByCategory map[string]int
	ByAssignee map[string]int

	// Overdue counts todos whose due instant has passed and whose status
	// is anything but completed.
	Overdue int

	// CompletionRate is completed/total as a rounded percentage,
	// 0 when there are no todos.
	CompletionRate int
}

// Statistics computes aggregates over the todos.
//
// scopeUserID narrows to one assignee when non-empty. periodDays narrows to
// todos created within that many days before now; 0 disables the time
// filter.
func Statistics(todos []models.Todo, scopeUserID string, periodDays int, now time.Time) Stats {
	stats := Stats{
		ByStatus:   make(map[models.Status]int),
		ByPriority: make(map[models.Priority]int),
		ByCategory: make(map[string]int),
		ByAssignee: make(map[string]int),
	}

	var cutoff int64
	if periodDays > 0 {
		cutoff = now.AddDate(0, 0, -periodDays).Unix()
	}

	for i := range todos {
		todo := &todos[i]
		if scopeUserID != "" && todo.AssignedTo != scopeUserID {
			continue
		}
		if cutoff > 0 && todo.CreatedAt < cutoff {
			continue
		}

		stats.Total++
		stats.ByStatus[todo.Status]++
		stats.ByPriority[todo.Priority]++
		if todo.Category != "" {
			stats.ByCategory[todo.Category]++
		}
		if todo.AssignedTo != "" {
			stats.ByAssignee[todo.AssignedTo]++
		}
		if IsOverdue(todo, now) {
			stats.Overdue++
		}
	}

	// Guard the zero-todo case: no division by zero.
	if stats.Total > 0 {
		completed := stats.ByStatus[models.StatusCompleted]
		stats.CompletionRate = int(math.Round(float64(completed) / float64(stats.Total) * 100))
	}

	return stats
}
