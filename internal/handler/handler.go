// Package handler is the thin JSON transport over the organizer services.
// It decodes requests, resolves the authenticated actor from the request
// context, calls into the services, and maps failures to status codes.
// No business rules live here.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hearthhub/hearthhub/internal/auth"
	"github.com/hearthhub/hearthhub/internal/middleware"
	"github.com/hearthhub/hearthhub/internal/service"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	families   *service.FamilyService
	todos      *service.TodoService
	authn      auth.Authenticator
	jwtManager *auth.JWTManager
}

// New creates the HTTP handler bundle.
func New(families *service.FamilyService, todos *service.TodoService, authn auth.Authenticator, jwtManager *auth.JWTManager) *Handler {
	return &Handler{
		families:   families,
		todos:      todos,
		authn:      authn,
		jwtManager: jwtManager,
	}
}

// Register attaches all routes to the mux. Routes that act on behalf of a
// user are wrapped with the auth middleware; registration, login and the
// join-code lookup stay public.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("GET /api/families/lookup", h.handleLookupFamily)

	mux.Handle("POST /api/families", h.protected(h.handleCreateFamily))
	mux.Handle("POST /api/families/join", h.protected(h.handleJoinFamily))
	mux.Handle("POST /api/families/{id}/code", h.protected(h.handleRegenerateCode))

	mux.Handle("POST /api/todos", h.protected(h.handleCreateTodo))
	mux.Handle("GET /api/todos", h.protected(h.handleListTodos))
	mux.Handle("GET /api/todos/search", h.protected(h.handleSearchTodos))
	mux.Handle("GET /api/todos/stats", h.protected(h.handleStatistics))
	mux.Handle("GET /api/todos/upcoming", h.protected(h.handleUpcoming))
	mux.Handle("POST /api/todos/bulk", h.protected(h.handleBulkUpdate))
	mux.Handle("GET /api/todos/{id}", h.protected(h.handleGetTodo))
	mux.Handle("PATCH /api/todos/{id}", h.protected(h.handleUpdateTodo))
	mux.Handle("PUT /api/todos/{id}/status", h.protected(h.handleUpdateStatus))
	mux.Handle("DELETE /api/todos/{id}", h.protected(h.handleDeleteTodo))
	mux.Handle("POST /api/todos/{id}/comments", h.protected(h.handleAddComment))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

func (h *Handler) protected(fn http.HandlerFunc) http.Handler {
	return middleware.RequireAuth(h.jwtManager, fn)
}

// actorID returns the authenticated user's id from the request context.
func actorID(r *http.Request) string {
	return middleware.GetUserID(r.Context())
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
