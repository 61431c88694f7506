package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/airi-scans/steward/internal/domain/project"
	"github.com/airi-scans/steward/internal/domain/roster"
	"github.com/airi-scans/steward/internal/engine"
	"github.com/airi-scans/steward/internal/repository"
)

// TransitionEngine is the part of the engine the webhook surface needs.
type TransitionEngine interface {
	HandleTransition(ctx context.Context, ev engine.Event) (*project.Project, []engine.Intent, error)
	ConfirmProgress(ctx context.Context, issueKey string, role project.Role, userID string) (*project.Project, error)
}

// IntentDispatcher performs the side effects an engine call produced.
type IntentDispatcher interface {
	Dispatch(ctx context.Context, intents []engine.Intent)
}

// Server wires HTTP handlers.
type Server struct {
	engine     TransitionEngine
	dispatcher IntentDispatcher
	projects   repository.ProjectRepository
	audit      repository.AuditRepository
	logger     *slog.Logger
}

// NewServer creates an HTTP router with middleware.
func NewServer(eng TransitionEngine, dispatcher IntentDispatcher, projects repository.ProjectRepository, audit repository.AuditRepository, authMiddleware func(http.Handler) http.Handler, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	srv := &Server{
		engine:     eng,
		dispatcher: dispatcher,
		projects:   projects,
		audit:      audit,
		logger:     logger,
	}

	r.Get("/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}
		r.Post("/webhook", srv.handleWebhook)
		r.Post("/progress", srv.handleProgress)
		r.Get("/projects", srv.handleListProjects)
		r.Get("/projects/{issueKey}", srv.handleGetProject)
		r.Get("/projects/{issueKey}/audit", srv.handleProjectAudit)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var ev engine.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "invalid event payload", http.StatusBadRequest)
		return
	}

	p, intents, err := s.engine.HandleTransition(r.Context(), ev)
	if err != nil {
		s.writeEngineError(w, err, "handling transition", "issue", ev.IssueKey)
		return
	}

	s.dispatcher.Dispatch(r.Context(), intents)
	writeJSON(w, http.StatusOK, p)
}

type progressRequest struct {
	IssueKey string       `json:"issue_key"`
	Role     project.Role `json:"role"`
	UserID   string       `json:"user_id"`
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid progress payload", http.StatusBadRequest)
		return
	}
	if req.IssueKey == "" || req.UserID == "" || !slices.Contains(project.AllRoles, req.Role) {
		http.Error(w, "issue_key, role and user_id are required", http.StatusBadRequest)
		return
	}

	p, err := s.engine.ConfirmProgress(r.Context(), req.IssueKey, req.Role, req.UserID)
	if err != nil {
		s.writeEngineError(w, err, "confirming progress", "issue", req.IssueKey, "user", req.UserID)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	active, err := s.projects.ListActive(r.Context())
	if err != nil {
		s.logger.Error("listing projects", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, active)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	issueKey := chi.URLParam(r, "issueKey")
	p, err := s.projects.Get(r.Context(), issueKey)
	if errors.Is(err, repository.ErrNotFound) {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("loading project", "issue", issueKey, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleProjectAudit(w http.ResponseWriter, r *http.Request) {
	issueKey := chi.URLParam(r, "issueKey")
	entries, err := s.audit.List(r.Context(), repository.ListAuditOptions{IssueKey: issueKey})
	if err != nil {
		s.logger.Error("listing audit entries", "issue", issueKey, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) writeEngineError(w http.ResponseWriter, err error, msg string, args ...any) {
	switch {
	case errors.Is(err, repository.ErrInvalidInput):
		http.Error(w, "invalid request", http.StatusBadRequest)
	case errors.Is(err, project.ErrProjectNotFound):
		http.Error(w, "project not found", http.StatusNotFound)
	case errors.Is(err, project.ErrProjectTerminal):
		http.Error(w, "project is closed", http.StatusConflict)
	case errors.Is(err, project.ErrUnknownRole):
		http.Error(w, "role not open on project", http.StatusConflict)
	case errors.Is(err, roster.ErrUnknownTrackerName):
		http.Error(w, "unknown tracker account", http.StatusUnprocessableEntity)
	default:
		s.logger.Error(msg, append(args, "error", err)...)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
