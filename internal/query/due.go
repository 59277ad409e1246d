// Package query implements the read-only filtering, search, statistics and
// calendar-window logic over todo records. Everything here is pure: slices
// in, results out, no storage access.
package query

import (
	"time"

	"github.com/hearthhub/hearthhub/internal/models"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// DueInstant combines DueDate and DueTime into a single instant. When
// DueTime is absent the instant defaults to midnight of DueDate. The second
// return is false for undated or unparseable todos.
func DueInstant(todo *models.Todo, loc *time.Location) (time.Time, bool) {
	if todo == nil || todo.DueDate == "" {
		return time.Time{}, false
	}

	day, err := time.ParseInLocation(dateLayout, todo.DueDate, loc)
	if err != nil {
		return time.Time{}, false
	}

	if todo.DueTime == "" {
		return day, true
	}

	clock, err := time.ParseInLocation(timeLayout, todo.DueTime, loc)
	if err != nil {
		return day, true
	}

	return day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute), true
}

// IsOverdue reports whether the todo's due instant has passed. Completed
// todos are never overdue, regardless of date.
func IsOverdue(todo *models.Todo, now time.Time) bool {
	if todo == nil || todo.Status == models.StatusCompleted {
		return false
	}

	due, ok := DueInstant(todo, now.Location())
	if !ok {
		return false
	}

	return due.Before(now)
}

// DaysUntilDue returns the number of whole calendar days between now and
// the due date. Negative values mean the todo is past due. The second
// return is false for undated todos.
func DaysUntilDue(todo *models.Todo, now time.Time) (int, bool) {
	due, ok := DueInstant(todo, now.Location())
	if !ok {
		return 0, false
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, now.Location())

	return int(dueDay.Sub(today).Hours() / 24), true
}
