package sessions

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/saksham0021/mira-astrology-review/internal/astro"
	"github.com/saksham0021/mira-astrology-review/pkg/handlers"
	"github.com/saksham0021/mira-astrology-review/pkg/pagination"
	"github.com/saksham0021/mira-astrology-review/pkg/routes"
)

// parseKeys maps the request keys accepted by Parse to decoding domains.
var parseKeys = map[string]astro.Domain{
	"kundli":       astro.DomainKundli,
	"dosha":        astro.DomainDosha,
	"doshas":       astro.DomainDosha,
	"dasha":        astro.DomainDasha,
	"dasha_period": astro.DomainDashaPeriod,
	"summary":      astro.DomainSummary,
	"chat":         astro.DomainChat,
}

// Handler provides HTTP endpoints for session operations.
type Handler struct {
	sys        System
	reviews    ReviewSource
	validate   *validator.Validate
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// SaveResponse reports the outcome of a manual session entry.
type SaveResponse struct {
	Session  *Session `json:"session"`
	Inserted bool     `json:"inserted"`
}

// NewHandler creates a Handler. reviews may be nil, in which case the list
// only reflects local reviews.
func NewHandler(
	sys System,
	reviews ReviewSource,
	validate *validator.Validate,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		sys:        sys,
		reviews:    reviews,
		validate:   validate,
		logger:     logger.With("handler", "sessions"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for session endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/sessions",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/astro", Handler: h.Astro},
			{Method: "POST", Pattern: "", Handler: h.Save},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "POST", Pattern: "/parse", Handler: h.Parse},
		},
	}
}

// List returns a page of the review queue with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	h.respondEntries(w, r, page, filters)
}

// Search accepts a JSON body with pagination and filter criteria.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	req.PageRequest.Normalize(h.pagination)
	h.respondEntries(w, r, req.PageRequest, req.Filters)
}

func (h *Handler) respondEntries(
	w http.ResponseWriter,
	r *http.Request,
	page pagination.PageRequest,
	filters Filters,
) {
	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	var sheet map[string]SheetReview
	if h.reviews != nil {
		sheet, err = h.reviews.SheetReviews(r.Context())
		if err != nil {
			h.logger.Warn("sheet review state unavailable", "error", err)
		}
	}

	entries := make([]Entry, len(result.Data))
	for i, s := range result.Data {
		entries[i] = NewEntry(s, sheet)
	}

	handlers.RespondJSON(w, http.StatusOK, pagination.NewPageResult(
		entries, result.Total, result.Page, result.PageSize,
	))
}

// Find returns a session with its parsed astrology document.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	s, err := h.sys.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, NewDetail(*s))
}

// Astro returns only the parsed astrology document of a session.
func (h *Handler) Astro(w http.ResponseWriter, r *http.Request) {
	s, err := h.sys.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, s.Parsed())
}

// Save inserts or overwrites a session from a JSON body.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var s Session
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	if err := h.validate.Struct(s); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalid, err))
		return
	}

	inserted, err := h.sys.Save(r.Context(), s)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	saved, err := h.sys.Find(r.Context(), s.SessionID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	status := http.StatusOK
	if inserted {
		status = http.StatusCreated
	}
	handlers.RespondJSON(w, status, SaveResponse{Session: saved, Inserted: inserted})
}

// Parse normalizes raw astrology fields without touching the store. The body
// maps domain keys (kundli, dosha, dasha, dasha_period, summary, chat) to raw
// field text; unknown keys are ignored.
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	result := make(map[string]any, len(body))
	for key, raw := range body {
		if domain, ok := parseKeys[key]; ok {
			result[key] = astro.Parse(raw, domain)
		}
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
