package query

import (
	"testing"
	"time"

	"github.com/hearthhub/hearthhub/internal/models"
)

func TestUpcoming(t *testing.T) {
	now := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)

	todos := []models.Todo{
		{ID: "today-late", Status: models.StatusPending, AssignedTo: "user-1",
			DueDate: "2026-09-15", DueTime: "20:00"},
		{ID: "today-early", Status: models.StatusPending, AssignedTo: "user-1",
			DueDate: "2026-09-15", DueTime: "08:00"},
		{ID: "in-window", Status: models.StatusPending, AssignedTo: "user-2",
			DueDate: "2026-09-20"},
		{ID: "window-edge", Status: models.StatusPending, AssignedTo: "user-1",
			DueDate: "2026-09-22"},
		{ID: "beyond", Status: models.StatusPending, AssignedTo: "user-1",
			DueDate: "2026-09-23"},
		{ID: "yesterday", Status: models.StatusPending, AssignedTo: "user-1",
			DueDate: "2026-09-14"},
		{ID: "done", Status: models.StatusCompleted, AssignedTo: "user-1",
			DueDate: "2026-09-16"},
		{ID: "dropped", Status: models.StatusCancelled, AssignedTo: "user-1",
			DueDate: "2026-09-16"},
		{ID: "undated", Status: models.StatusPending, AssignedTo: "user-1"},
	}

	t.Run("seven day window earliest first", func(t *testing.T) {
		list, grouped := Upcoming(todos, 7, "", now)

		wantOrder := []string{"today-early", "today-late", "in-window", "window-edge"}
		if len(list) != len(wantOrder) {
			t.Fatalf("list = %d todos, want %d", len(list), len(wantOrder))
		}
		for i, want := range wantOrder {
			if list[i].ID != want {
				t.Errorf("list[%d] = %s, want %s", i, list[i].ID, want)
			}
		}

		if len(grouped["2026-09-15"]) != 2 {
			t.Errorf("grouped[2026-09-15] = %d, want 2", len(grouped["2026-09-15"]))
		}
		if len(grouped["2026-09-20"]) != 1 {
			t.Errorf("grouped[2026-09-20] = %d, want 1", len(grouped["2026-09-20"]))
		}
	})

	t.Run("assignee filter", func(t *testing.T) {
		list, _ := Upcoming(todos, 7, "user-2", now)
		if len(list) != 1 || list[0].ID != "in-window" {
			t.Errorf("unexpected list: %v", list)
		}
	})

	t.Run("zero days means today only", func(t *testing.T) {
		list, _ := Upcoming(todos, 0, "", now)
		if len(list) != 2 {
			t.Errorf("list = %d todos, want 2", len(list))
		}
	})
}
