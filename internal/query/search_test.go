package query

import (
	"errors"
	"testing"

	"github.com/hearthhub/hearthhub/internal/models"
)

func TestSearch(t *testing.T) {
	todos := []models.Todo{
		{ID: "a", Title: "Buy groceries today", Status: models.StatusPending, CreatedAt: 100},
		{ID: "b", Title: "groceries", Description: "weekly shop", Status: models.StatusPending, CreatedAt: 200},
		{ID: "c", Title: "Call plumber", Description: "kitchen sink", Status: models.StatusPending, CreatedAt: 300},
		{ID: "d", Title: "Groceries", Status: models.StatusCompleted, CreatedAt: 400},
	}

	t.Run("short query is rejected", func(t *testing.T) {
		_, err := Search(todos, " g ", Filter{})
		if !errors.Is(err, ErrQueryTooShort) {
			t.Errorf("expected ErrQueryTooShort, got %v", err)
		}
	})

	t.Run("minimum length counts runes not bytes", func(t *testing.T) {
		// One CJK rune is three bytes; it is still below the minimum.
		if _, err := Search(todos, "家", Filter{}); !errors.Is(err, ErrQueryTooShort) {
			t.Errorf("expected ErrQueryTooShort for single rune, got %v", err)
		}
		if _, err := Search(todos, "家事", Filter{}); err != nil {
			t.Errorf("two-rune query rejected: %v", err)
		}
	})

	t.Run("exact title matches rank first", func(t *testing.T) {
		results, err := Search(todos, "groceries", Filter{})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(results) != 3 {
			t.Fatalf("results = %d, want 3", len(results))
		}
		// Exact matches (d, b) sorted newest first, then the substring match.
		if results[0].ID != "d" || results[1].ID != "b" || results[2].ID != "a" {
			t.Errorf("order = %s, %s, %s", results[0].ID, results[1].ID, results[2].ID)
		}
	})

	t.Run("matches descriptions", func(t *testing.T) {
		results, err := Search(todos, "sink", Filter{})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(results) != 1 || results[0].ID != "c" {
			t.Errorf("unexpected results: %v", results)
		}
	})

	t.Run("filter narrows candidates", func(t *testing.T) {
		results, err := Search(todos, "groceries", Filter{Status: models.StatusPending})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		for _, r := range results {
			if r.Status != models.StatusPending {
				t.Errorf("non-pending todo %s in results", r.ID)
			}
		}
	})

	t.Run("no matches returns empty", func(t *testing.T) {
		results, err := Search(todos, "dentist", Filter{})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("results = %d, want 0", len(results))
		}
	})
}
