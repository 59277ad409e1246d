package handler

import (
	"net/http"
	"strconv"

	"github.com/hearthhub/hearthhub/internal/models"
	"github.com/hearthhub/hearthhub/internal/query"
	"github.com/hearthhub/hearthhub/internal/service"
)

type createTodoRequest struct {
	Type        string   `json:"type,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	Category    string   `json:"category,omitempty"`
	AssignedTo  string   `json:"assignedTo"`
	DueDate     string   `json:"dueDate,omitempty"`
	DueTime     string   `json:"dueTime,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	StartTime   string   `json:"startTime,omitempty"`
	EndTime     string   `json:"endTime,omitempty"`
	MeetingLink string   `json:"meetingLink,omitempty"`
	Agenda      string   `json:"agenda,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
}

type todoPatchRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *string   `json:"status,omitempty"`
	Priority    *string   `json:"priority,omitempty"`
	Category    *string   `json:"category,omitempty"`
	AssignedTo  *string   `json:"assignedTo,omitempty"`
	DueDate     *string   `json:"dueDate,omitempty"`
	DueTime     *string   `json:"dueTime,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	StartTime   *string   `json:"startTime,omitempty"`
	EndTime     *string   `json:"endTime,omitempty"`
	MeetingLink *string   `json:"meetingLink,omitempty"`
	Agenda      *string   `json:"agenda,omitempty"`
	Attendees   *[]string `json:"attendees,omitempty"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type addCommentRequest struct {
	Text string `json:"text"`
}

type bulkUpdateRequest struct {
	IDs   []string         `json:"ids"`
	Patch todoPatchRequest `json:"patch"`
}

type commentView struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	UserID    string `json:"userId"`
	Type      string `json:"type"`
	CreatedAt int64  `json:"createdAt"`
}

type todoView struct {
	ID          string        `json:"id"`
	FamilyID    string        `json:"familyId"`
	Type        string        `json:"type"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Status      string        `json:"status"`
	Priority    string        `json:"priority"`
	Category    string        `json:"category,omitempty"`
	AssignedTo  string        `json:"assignedTo"`
	CreatedBy   string        `json:"createdBy"`
	DueDate     string        `json:"dueDate,omitempty"`
	DueTime     string        `json:"dueTime,omitempty"`
	CompletedAt *int64        `json:"completedAt,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Comments    []commentView `json:"comments,omitempty"`
	StartTime   string        `json:"startTime,omitempty"`
	EndTime     string        `json:"endTime,omitempty"`
	MeetingLink string        `json:"meetingLink,omitempty"`
	Agenda      string        `json:"agenda,omitempty"`
	Attendees   []string      `json:"attendees,omitempty"`
	CreatedAt   int64         `json:"createdAt"`
	UpdatedAt   int64         `json:"updatedAt"`
	Version     int64         `json:"version"`
}

type todoPageResponse struct {
	Todos []todoView `json:"todos"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
	Total int        `json:"total"`
}

type bulkUpdateResponse struct {
	Updated []todoView      `json:"updated"`
	Errors  []bulkErrorView `json:"errors"`
	Summary bulkSummaryView `json:"summary"`
}

type bulkErrorView struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type bulkSummaryView struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

type statsView struct {
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"byStatus"`
	ByPriority     map[string]int `json:"byPriority"`
	ByCategory     map[string]int `json:"byCategory"`
	ByAssignee     map[string]int `json:"byAssignee"`
	Overdue        int            `json:"overdue"`
	CompletionRate int            `json:"completionRate"`
}

func toStatsView(s query.Stats) statsView {
	view := statsView{
		Total:          s.Total,
		ByStatus:       make(map[string]int, len(s.ByStatus)),
		ByPriority:     make(map[string]int, len(s.ByPriority)),
		ByCategory:     s.ByCategory,
		ByAssignee:     s.ByAssignee,
		Overdue:        s.Overdue,
		CompletionRate: s.CompletionRate,
	}
	for status, n := range s.ByStatus {
		view.ByStatus[string(status)] = n
	}
	for priority, n := range s.ByPriority {
		view.ByPriority[string(priority)] = n
	}
	return view
}

func toTodoView(t *models.Todo) todoView {
	view := todoView{
		ID:          t.ID,
		FamilyID:    t.FamilyID,
		Type:        string(t.Type),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Category:    t.Category,
		AssignedTo:  t.AssignedTo,
		CreatedBy:   t.CreatedBy,
		DueDate:     t.DueDate,
		DueTime:     t.DueTime,
		CompletedAt: t.CompletedAt,
		Tags:        t.Tags,
		StartTime:   t.StartTime,
		EndTime:     t.EndTime,
		MeetingLink: t.MeetingLink,
		Agenda:      t.Agenda,
		Attendees:   t.Attendees,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Version:     t.Version,
	}
	for _, c := range t.Comments {
		view.Comments = append(view.Comments, commentView{
			ID:        c.ID,
			Text:      c.Text,
			UserID:    c.UserID,
			Type:      string(c.Type),
			CreatedAt: c.CreatedAt,
		})
	}
	return view
}

func toTodoViews(todos []models.Todo) []todoView {
	views := make([]todoView, len(todos))
	for i := range todos {
		views[i] = toTodoView(&todos[i])
	}
	return views
}

func toPatch(req todoPatchRequest) service.TodoPatch {
	patch := service.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		DueTime:     req.DueTime,
		Tags:        req.Tags,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		MeetingLink: req.MeetingLink,
		Agenda:      req.Agenda,
		Attendees:   req.Attendees,
	}
	if req.Status != nil {
		status := models.Status(*req.Status)
		patch.Status = &status
	}
	if req.Priority != nil {
		priority := models.Priority(*req.Priority)
		patch.Priority = &priority
	}
	return patch
}

func filterFromQuery(r *http.Request) query.Filter {
	q := r.URL.Query()
	return query.Filter{
		AssignedTo: q.Get("assignedTo"),
		Status:     models.Status(q.Get("status")),
		Type:       models.TodoType(q.Get("type")),
		Priority:   models.Priority(q.Get("priority")),
		Tag:        q.Get("tag"),
		Search:     q.Get("search"),
	}
}

func intParam(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func (h *Handler) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var req createTodoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	todo, err := h.todos.CreateTodo(r.Context(), service.CreateTodoInput{
		Type:        models.TodoType(req.Type),
		Title:       req.Title,
		Description: req.Description,
		Priority:    models.Priority(req.Priority),
		Category:    req.Category,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		DueTime:     req.DueTime,
		Tags:        req.Tags,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		MeetingLink: req.MeetingLink,
		Agenda:      req.Agenda,
		Attendees:   req.Attendees,
	}, actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTodoView(todo))
}

func (h *Handler) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	todo, err := h.todos.GetTodo(r.Context(), r.PathValue("id"), actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTodoView(todo))
}

func (h *Handler) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	var req todoPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	todo, err := h.todos.UpdateTodo(r.Context(), r.PathValue("id"), toPatch(req), actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTodoView(todo))
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	todo, err := h.todos.UpdateStatus(r.Context(), r.PathValue("id"), models.Status(req.Status), actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTodoView(todo))
}

func (h *Handler) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	if err := h.todos.DeleteTodo(r.Context(), r.PathValue("id"), actorID(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req addCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	todo, err := h.todos.AddComment(r.Context(), r.PathValue("id"), req.Text, actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTodoView(todo))
}

func (h *Handler) handleBulkUpdate(w http.ResponseWriter, r *http.Request) {
	var req bulkUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.todos.BulkUpdate(r.Context(), req.IDs, toPatch(req.Patch), actorID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := bulkUpdateResponse{
		Updated: toTodoViews(result.Updated),
		Errors:  make([]bulkErrorView, len(result.Errors)),
		Summary: bulkSummaryView{
			Total:      result.Summary.Total,
			Successful: result.Summary.Successful,
			Failed:     result.Summary.Failed,
		},
	}
	for i, e := range result.Errors {
		resp.Errors[i] = bulkErrorView{ID: e.ID, Reason: e.Reason}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListTodos(w http.ResponseWriter, r *http.Request) {
	page, err := h.todos.List(r.Context(), actorID(r),
		filterFromQuery(r), intParam(r, "page", 1), intParam(r, "limit", query.DefaultPageSize))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, todoPageResponse{
		Todos: toTodoViews(page.Items),
		Page:  page.Page,
		Limit: page.Limit,
		Total: page.Total,
	})
}

func (h *Handler) handleSearchTodos(w http.ResponseWriter, r *http.Request) {
	results, err := h.todos.Search(r.Context(), actorID(r), r.URL.Query().Get("q"), filterFromQuery(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]todoView{"todos": toTodoViews(results)})
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.todos.Statistics(r.Context(), actorID(r),
		r.URL.Query().Get("user"), intParam(r, "days", 0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsView(stats))
}

func (h *Handler) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	list, grouped, err := h.todos.Upcoming(r.Context(), actorID(r),
		intParam(r, "days", 7), r.URL.Query().Get("assignedTo"))
	if err != nil {
		writeError(w, err)
		return
	}

	groupedViews := make(map[string][]todoView, len(grouped))
	for date, todos := range grouped {
		groupedViews[date] = toTodoViews(todos)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"todos":   toTodoViews(list),
		"grouped": groupedViews,
	})
}
