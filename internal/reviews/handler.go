package reviews

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/saksham0021/mira-astrology-review/pkg/handlers"
	"github.com/saksham0021/mira-astrology-review/pkg/pagination"
	"github.com/saksham0021/mira-astrology-review/pkg/routes"
)

// Submission outcome messages.
const (
	MessageCompleted = "Analysis completed successfully"
	MessageSaved     = "Changes saved successfully"
)

// Handler provides HTTP endpoints for review operations.
type Handler struct {
	sys        System
	sync       Syncer
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler. sync may be nil when no ledger sheet is
// configured; submissions are then stored locally only.
func NewHandler(
	sys System,
	sync Syncer,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		sync:       sync,
		logger:     logger.With("handler", "reviews"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for review endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/reviews",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{sessionID}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: h.Submit},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "DELETE", Pattern: "/{sessionID}", Handler: h.Delete},
		},
	}
}

// List returns a page of reviews with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search accepts a JSON body with pagination and filter criteria.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns the review of a session.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	rv, err := h.sys.Find(r.Context(), r.PathValue("sessionID"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rv)
}

// Submit stores a review and mirrors it into the ledger sheet. A sheet
// failure does not fail the request; it is reported as sheet_synced false.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var cmd SubmitCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	rv, created, err := h.sys.Submit(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	result := SubmitResult{
		Review:  rv,
		Created: created,
		Message: MessageSaved,
	}
	if rv.Status == StatusCompleted {
		result.Message = MessageCompleted
	}

	if h.sync != nil {
		if err := h.sync.ReviewSaved(r.Context(), *rv); err != nil {
			h.logger.Warn("sheet sync failed", "session_id", rv.SessionID, "error", err)
		} else {
			result.Synced = true
		}
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	handlers.RespondJSON(w, status, result)
}

// Delete removes the review of a session and clears its sheet columns.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")

	if err := h.sys.Delete(r.Context(), sessionID); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if h.sync != nil {
		if err := h.sync.ReviewCleared(r.Context(), sessionID); err != nil {
			h.logger.Warn("sheet clear failed", "session_id", sessionID, "error", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
