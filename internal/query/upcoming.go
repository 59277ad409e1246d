package query

import (
	"sort"
	"time"

	"github.com/hearthhub/hearthhub/internal/models"
)

// Upcoming returns the todos due inside the window [today, today+days],
// earliest first, plus the same todos grouped by due date for calendar
// rendering. Completed and cancelled todos are excluded, as are undated
// ones. assignedTo narrows to one assignee when non-empty.
func Upcoming(todos []models.Todo, days int, assignedTo string, now time.Time) ([]models.Todo, map[string][]models.Todo) {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	windowEnd := today.AddDate(0, 0, days+1) // exclusive

	var upcoming []models.Todo
	for i := range todos {
		todo := &todos[i]
		if todo.Status == models.StatusCompleted || todo.Status == models.StatusCancelled {
			continue
		}
		if assignedTo != "" && todo.AssignedTo != assignedTo {
			continue
		}

		due, ok := DueInstant(todo, loc)
		if !ok {
			continue
		}
		if due.Before(today) || !due.Before(windowEnd) {
			continue
		}

		upcoming = append(upcoming, *todo)
	}

	sortByDueAsc(upcoming, loc)

	grouped := make(map[string][]models.Todo)
	for _, todo := range upcoming {
		grouped[todo.DueDate] = append(grouped[todo.DueDate], todo)
	}

	return upcoming, grouped
}

// sortByDueAsc orders todos by their due instant, earliest first.
func sortByDueAsc(todos []models.Todo, loc *time.Location) {
	sort.SliceStable(todos, func(i, j int) bool {
		di, iok := DueInstant(&todos[i], loc)
		dj, jok := DueInstant(&todos[j], loc)
		if iok != jok {
			return iok
		}
		if !iok {
			return false
		}
		return di.Before(dj)
	})
}
