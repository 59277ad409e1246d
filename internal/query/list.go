package query

import (
	"sort"
	"strings"

	"github.com/hearthhub/hearthhub/internal/models"
)

// MaxPageSize caps how many todos a single page may return.
const MaxPageSize = 100

// DefaultPageSize is used when the caller does not specify a limit.
const DefaultPageSize = 20

// AssigneeAll disables assignee filtering.
const AssigneeAll = "all"

// Filter selects a subset of todos. Zero values mean "no filter".
type Filter struct {
	// AssignedTo matches the assignee exactly; "" or "all" disables it.
	AssignedTo string
	Status     models.Status
	Type       models.TodoType
	Priority   models.Priority

	// Tag is a membership test against the todo's tag set.
	Tag string

	// Search is a case-insensitive substring match over title,
	// description and tags.
	Search string
}

// Page is one page of filtered todos plus the pre-pagination total.
type Page struct {
	Items []models.Todo
	Page  int
	Limit int
	Total int
}

// Matches reports whether the todo passes every criterion in the filter.
func (f Filter) Matches(todo *models.Todo) bool {
	if f.AssignedTo != "" && f.AssignedTo != AssigneeAll && todo.AssignedTo != f.AssignedTo {
		return false
	}
	if f.Status != "" && todo.Status != f.Status {
		return false
	}
	if f.Type != "" && todo.Type != f.Type {
		return false
	}
	if f.Priority != "" && todo.Priority != f.Priority {
		return false
	}
	if f.Tag != "" && !todo.HasTag(f.Tag) {
		return false
	}
	if f.Search != "" && !matchesSearch(todo, f.Search) {
		return false
	}
	return true
}

// List filters todos and returns the requested page, newest first.
// Pages are 1-indexed; limit is clamped to [1, MaxPageSize].
func List(todos []models.Todo, filter Filter, page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	var matched []models.Todo
	for i := range todos {
		if filter.Matches(&todos[i]) {
			matched = append(matched, todos[i])
		}
	}

	sortByCreatedDesc(matched)

	total := len(matched)
	offset := (page - 1) * limit
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return Page{
		Items: matched[offset:end],
		Page:  page,
		Limit: limit,
		Total: total,
	}
}

func matchesSearch(todo *models.Todo, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(todo.Title), term) {
		return true
	}
	if strings.Contains(strings.ToLower(todo.Description), term) {
		return true
	}
	for _, tag := range todo.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

func sortByCreatedDesc(todos []models.Todo) {
	sort.SliceStable(todos, func(i, j int) bool {
		return todos[i].CreatedAt > todos[j].CreatedAt
	})
}
