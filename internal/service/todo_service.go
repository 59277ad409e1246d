package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hearthhub/hearthhub/internal/access"
	"github.com/hearthhub/hearthhub/internal/metrics"
	"github.com/hearthhub/hearthhub/internal/models"
	"github.com/hearthhub/hearthhub/internal/query"
	"github.com/hearthhub/hearthhub/internal/storage"
)

// MaxBulkSize caps how many ids a single bulk operation may carry.
const MaxBulkSize = 50

const (
	maxTitleLength   = 200
	maxCommentLength = 500
)

// TodoService implements the task/meeting workflow: creation, updates,
// status transitions, comments, deletion and bulk operations, plus the
// family-scoped read operations backed by the query engine.
type TodoService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewTodoService creates a new TodoService with the given storage backend.
func NewTodoService(store storage.Store, logger *slog.Logger) *TodoService {
	return &TodoService{store: store, logger: logger}
}

// CreateTodoInput carries the fields for a new task or meeting.
type CreateTodoInput struct {
	Type        models.TodoType
	Title       string
	Description string
	Priority    models.Priority
	Category    string
	AssignedTo  string
	DueDate     string
	DueTime     string
	Tags        []string

	// Meeting-only fields.
	StartTime   string
	EndTime     string
	MeetingLink string
	Agenda      string
	Attendees   []string
}

// TodoPatch is a partial update: nil fields are left untouched.
type TodoPatch struct {
	Title       *string
	Description *string
	Status      *models.Status
	Priority    *models.Priority
	Category    *string
	AssignedTo  *string
	DueDate     *string
	DueTime     *string
	Tags        *[]string
	StartTime   *string
	EndTime     *string
	MeetingLink *string
	Agenda      *string
	Attendees   *[]string
}

// IsEmpty reports whether the patch changes nothing.
func (p *TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.Category == nil && p.AssignedTo == nil &&
		p.DueDate == nil && p.DueTime == nil && p.Tags == nil &&
		p.StartTime == nil && p.EndTime == nil && p.MeetingLink == nil &&
		p.Agenda == nil && p.Attendees == nil
}

// BulkError records why one id in a bulk operation failed.
type BulkError struct {
	ID     string
	Reason string
}

// BulkSummary counts the outcome of a bulk operation.
type BulkSummary struct {
	Total      int
	Successful int
	Failed     int
}

// BulkResult aggregates the outcome of a best-effort bulk update.
type BulkResult struct {
	Updated []models.Todo
	Errors  []BulkError
	Summary BulkSummary
}

// CreateTodo validates and persists a new todo at version 1.
func (s *TodoService) CreateTodo(ctx context.Context, in CreateTodoInput, actorID string) (*models.Todo, error) {
	actor, familyID, err := s.actorFamily(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if in.Type == "" {
		in.Type = models.TypeTask
	}
	if in.Type != models.TypeTask && in.Type != models.TypeMeeting {
		return nil, validationErr("type", "must be task or meeting")
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}

	todo := &models.Todo{
		FamilyID:    familyID,
		Type:        in.Type,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      models.StatusPending,
		Priority:    in.Priority,
		Category:    in.Category,
		AssignedTo:  in.AssignedTo,
		CreatedBy:   actor.ID,
		DueDate:     in.DueDate,
		DueTime:     in.DueTime,
		Tags:        in.Tags,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		MeetingLink: in.MeetingLink,
		Agenda:      in.Agenda,
		Attendees:   in.Attendees,
		Version:     1,
	}

	if err := validateTodo(todo); err != nil {
		return nil, err
	}

	if err := s.store.CreateTodo(ctx, todo); err != nil {
		metrics.ObserveTodoOperation("create", "error")
		return nil, err
	}

	metrics.ObserveTodoOperation("create", "ok")
	s.logger.Info("todo created",
		"todo_id", todo.ID, "type", todo.Type, "created_by", actor.ID)

	return todo, nil
}

// GetTodo retrieves a todo the actor is allowed to read.
func (s *TodoService) GetTodo(ctx context.Context, todoID, actorID string) (*models.Todo, error) {
	actor, err := s.store.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	todo, err := s.store.GetTodo(ctx, todoID)
	if err != nil {
		return nil, err
	}

	if !access.CanRead(actor, todo) {
		return nil, ErrAccessDenied
	}

	return todo, nil
}

// UpdateTodo applies a partial patch, re-validates the merged record, bumps
// the version, and appends a "Todo updated" system comment.
func (s *TodoService) UpdateTodo(ctx context.Context, todoID string, patch TodoPatch, actorID string) (*models.Todo, error) {
	actor, err := s.store.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	todo, err := s.applyPatch(ctx, todoID, patch, actor)
	if err != nil {
		return nil, err
	}

	if err := s.appendSystem(ctx, todo.ID, actor.ID, "Todo updated"); err != nil {
		return nil, err
	}

	return s.store.GetTodo(ctx, todo.ID)
}

// UpdateStatus moves the todo to a new lifecycle status, stamping or
// clearing CompletedAt and recording the transition as a system comment.
// Re-entering the same status is allowed and still appends a comment.
func (s *TodoService) UpdateStatus(ctx context.Context, todoID string, newStatus models.Status, actorID string) (*models.Todo, error) {
	if !models.ValidStatus(newStatus) {
		return nil, validationErr("status", "unknown status")
	}

	actor, err := s.store.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	todo, err := s.store.GetTodo(ctx, todoID)
	if err != nil {
		return nil, err
	}

	if !access.CanWrite(actor, todo) {
		return nil, ErrAccessDenied
	}

	oldStatus := todo.Status
	if !access.CanTransition(oldStatus, newStatus) {
		return nil, validationErr("status",
			fmt.Sprintf("cannot transition from %s to %s", oldStatus, newStatus))
	}

	todo.Status = newStatus
	applyCompletion(todo)
	todo.Version++

	if err := s.store.UpdateTodo(ctx, todo); err != nil {
		return nil, err
	}

	note := fmt.Sprintf("Status changed from %s to %s", oldStatus, newStatus)
	if err := s.appendSystem(ctx, todo.ID, actor.ID, note); err != nil {
		return nil, err
	}

	metrics.ObserveTodoOperation("status", "ok")
	s.logger.Info("todo status changed",
		"todo_id", todo.ID, "from", oldStatus, "to", newStatus, "actor_id", actor.ID)

	return s.store.GetTodo(ctx, todo.ID)
}

// DeleteTodo hard-deletes a todo. Only the creator or an admin may delete;
// the assignee alone cannot.
func (s *TodoService) DeleteTodo(ctx context.Context, todoID, actorID string) error {
	actor, err := s.store.GetUserByID(ctx, actorID)
	if err != nil {
		return err
	}

	todo, err := s.store.GetTodo(ctx, todoID)
	if err != nil {
		return err
	}

	if !access.CanDelete(actor, todo) {
		return ErrAccessDenied
	}

	if err := s.store.DeleteTodo(ctx, todoID); err != nil {
		metrics.ObserveTodoOperation("delete", "error")
		return err
	}

	metrics.ObserveTodoOperation("delete", "ok")
	s.logger.Info("todo deleted", "todo_id", todoID, "actor_id", actor.ID)
	return nil
}

// AddComment appends a user comment to the todo's trail.
func (s *TodoService) AddComment(ctx context.Context, todoID, text, actorID string) (*models.Todo, error) {
	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n < 1 || n > maxCommentLength {
		return nil, validationErr("text", "must be between 1 and 500 characters")
	}

	actor, err := s.store.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	todo, err := s.store.GetTodo(ctx, todoID)
	if err != nil {
		return nil, err
	}

	if !access.CanRead(actor, todo) {
		return nil, ErrAccessDenied
	}

	comment := &models.Comment{
		Text:   text,
		UserID: actor.ID,
		Type:   models.CommentUser,
	}
	if err := s.store.AppendComment(ctx, todoID, comment); err != nil {
		return nil, err
	}

	return s.store.GetTodo(ctx, todoID)
}

// BulkUpdate applies one patch to many todos, best-effort. Each id is
// processed independently; failures are collected, never propagated, and
// the summary reports the split. Batches above MaxBulkSize are rejected
// outright.
func (s *TodoService) BulkUpdate(ctx context.Context, ids []string, patch TodoPatch, actorID string) (*BulkResult, error) {
	if len(ids) > MaxBulkSize {
		return nil, ErrBatchTooLarge
	}

	actor, err := s.store.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	result := &BulkResult{Summary: BulkSummary{Total: len(ids)}}
	for _, id := range ids {
		todo, err := s.applyPatch(ctx, id, patch, actor)
		if err != nil {
			result.Errors = append(result.Errors, BulkError{ID: id, Reason: bulkReason(err)})
			result.Summary.Failed++
			continue
		}
		result.Updated = append(result.Updated, *todo)
		result.Summary.Successful++
	}

	s.logger.Info("bulk update finished",
		"total", result.Summary.Total,
		"successful", result.Summary.Successful,
		"failed", result.Summary.Failed,
		"actor_id", actor.ID)

	return result, nil
}

// List returns one page of the actor's family todos matching the filter.
func (s *TodoService) List(ctx context.Context, actorID string, filter query.Filter, page, limit int) (query.Page, error) {
	todos, err := s.familyTodos(ctx, actorID)
	if err != nil {
		return query.Page{}, err
	}
	return query.List(todos, filter, page, limit), nil
}

// Search returns the actor's family todos ranked against the search term.
func (s *TodoService) Search(ctx context.Context, actorID, term string, filter query.Filter) ([]models.Todo, error) {
	todos, err := s.familyTodos(ctx, actorID)
	if err != nil {
		return nil, err
	}

	results, err := query.Search(todos, term, filter)
	if errors.Is(err, query.ErrQueryTooShort) {
		return nil, validationErr("query", err.Error())
	}
	return results, err
}

// Statistics aggregates the actor's family todos.
func (s *TodoService) Statistics(ctx context.Context, actorID, scopeUserID string, periodDays int) (query.Stats, error) {
	todos, err := s.familyTodos(ctx, actorID)
	if err != nil {
		return query.Stats{}, err
	}
	return query.Statistics(todos, scopeUserID, periodDays, time.Now()), nil
}

// Upcoming returns the family's todos due within the window, both as a
// sorted list and grouped by date for calendar rendering.
func (s *TodoService) Upcoming(ctx context.Context, actorID string, days int, assignedTo string) ([]models.Todo, map[string][]models.Todo, error) {
	todos, err := s.familyTodos(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}
	list, grouped := query.Upcoming(todos, days, assignedTo, time.Now())
	return list, grouped, nil
}

// applyPatch loads, authorizes, merges, validates and persists one patch.
// Shared by UpdateTodo and BulkUpdate.
func (s *TodoService) applyPatch(ctx context.Context, todoID string, patch TodoPatch, actor *models.User) (*models.Todo, error) {
	if patch.IsEmpty() {
		return nil, validationErr("patch", "empty patch")
	}

	todo, err := s.store.GetTodo(ctx, todoID)
	if err != nil {
		return nil, err
	}

	if !access.CanWrite(actor, todo) {
		return nil, ErrAccessDenied
	}

	mergePatch(todo, patch)
	applyCompletion(todo)

	if err := validateTodo(todo); err != nil {
		return nil, err
	}

	// Last-write-wins: the version is bumped per mutation but not checked
	// against the caller's copy.
	todo.Version++

	if err := s.store.UpdateTodo(ctx, todo); err != nil {
		return nil, err
	}

	return todo, nil
}

func (s *TodoService) appendSystem(ctx context.Context, todoID, actorID, text string) error {
	return s.store.AppendComment(ctx, todoID, &models.Comment{
		Text:   text,
		UserID: actorID,
		Type:   models.CommentSystem,
	})
}

// actorFamily loads the actor and resolves their family scope.
func (s *TodoService) actorFamily(ctx context.Context, actorID string) (*models.User, string, error) {
	actor, err := s.store.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, "", err
	}
	if actor.FamilyID == nil {
		return nil, "", validationErr("familyId", "user does not belong to a family")
	}
	return actor, *actor.FamilyID, nil
}

func (s *TodoService) familyTodos(ctx context.Context, actorID string) ([]models.Todo, error) {
	_, familyID, err := s.actorFamily(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.store.ListTodos(ctx, familyID)
}

func mergePatch(todo *models.Todo, patch TodoPatch) {
	if patch.Title != nil {
		todo.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		todo.Description = *patch.Description
	}
	if patch.Status != nil {
		todo.Status = *patch.Status
	}
	if patch.Priority != nil {
		todo.Priority = *patch.Priority
	}
	if patch.Category != nil {
		todo.Category = *patch.Category
	}
	if patch.AssignedTo != nil {
		todo.AssignedTo = *patch.AssignedTo
	}
	if patch.DueDate != nil {
		todo.DueDate = *patch.DueDate
	}
	if patch.DueTime != nil {
		todo.DueTime = *patch.DueTime
	}
	if patch.Tags != nil {
		todo.Tags = *patch.Tags
	}
	if patch.StartTime != nil {
		todo.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		todo.EndTime = *patch.EndTime
	}
	if patch.MeetingLink != nil {
		todo.MeetingLink = *patch.MeetingLink
	}
	if patch.Agenda != nil {
		todo.Agenda = *patch.Agenda
	}
	if patch.Attendees != nil {
		todo.Attendees = *patch.Attendees
	}
}

// applyCompletion keeps the invariant that CompletedAt is set exactly when
// the status is completed.
func applyCompletion(todo *models.Todo) {
	if todo.Status == models.StatusCompleted {
		if todo.CompletedAt == nil {
			now := time.Now().Unix()
			todo.CompletedAt = &now
		}
	} else {
		todo.CompletedAt = nil
	}
}

// validateTodo checks the merged record: shared invariants plus the
// type-discriminated field rules.
func validateTodo(todo *models.Todo) error {
	if n := utf8.RuneCountInString(todo.Title); n < 1 || n > maxTitleLength {
		return validationErr("title", "must be between 1 and 200 characters")
	}
	if todo.AssignedTo == "" {
		return validationErr("assignedTo", "assignee is required")
	}
	if !models.ValidStatus(todo.Status) {
		return validationErr("status", "unknown status")
	}
	if !models.ValidPriority(todo.Priority) {
		return validationErr("priority", "unknown priority")
	}

	if todo.Type == models.TypeMeeting {
		if todo.DueTime != "" {
			return validationErr("dueTime", "meetings use startTime instead of dueTime")
		}
		if todo.StartTime != "" && todo.EndTime != "" && !clockAfter(todo.EndTime, todo.StartTime) {
			return validationErr("endTime", "must be after startTime")
		}
	} else {
		if todo.StartTime != "" || todo.EndTime != "" || todo.MeetingLink != "" ||
			todo.Agenda != "" || len(todo.Attendees) > 0 {
			return validationErr("type", "meeting fields are not allowed on tasks")
		}
	}

	return nil
}

// clockAfter reports whether HH:MM time a is strictly after b.
func clockAfter(a, b string) bool {
	ta, errA := time.Parse("15:04", a)
	tb, errB := time.Parse("15:04", b)
	if errA != nil || errB != nil {
		return a > b
	}
	return ta.After(tb)
}

// bulkReason maps a per-id failure to the short reason string reported in
// the bulk result.
func bulkReason(err error) string {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return "Todo not found"
	case errors.Is(err, ErrAccessDenied):
		return "access denied"
	default:
		return err.Error()
	}
}
