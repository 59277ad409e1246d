package query

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/hearthhub/hearthhub/internal/models"
)

// MinSearchLength is the shortest query Search accepts.
const MinSearchLength = 2

// ErrQueryTooShort is returned for search terms below MinSearchLength.
var ErrQueryTooShort = errors.New("search query must be at least 2 characters")

// Search returns todos matching the term, ranked: exact title matches
// first, then substring matches, ties broken by creation time descending.
// An additional filter narrows the candidate set before matching.
func Search(todos []models.Todo, term string, filter Filter) ([]models.Todo, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < MinSearchLength {
		return nil, ErrQueryTooShort
	}

	lower := strings.ToLower(term)

	var exact, partial []models.Todo
	for i := range todos {
		todo := &todos[i]
		if !filter.Matches(todo) {
			continue
		}
		if strings.EqualFold(todo.Title, term) {
			exact = append(exact, *todo)
			continue
		}
		if matchesSearch(todo, lower) {
			partial = append(partial, *todo)
		}
	}

	sortByCreatedDesc(exact)
	sortByCreatedDesc(partial)

	return append(exact, partial...), nil
}
