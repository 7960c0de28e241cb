package ledger

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/saksham0021/mira-astrology-review/pkg/handlers"
	"github.com/saksham0021/mira-astrology-review/pkg/routes"
)

// Handler provides HTTP endpoints for ledger sync operations.
type Handler struct {
	engine *Engine
	logger *slog.Logger
}

// Status reports whether the ledger sheet is configured.
type Status struct {
	Enabled  bool   `json:"enabled"`
	CacheAge string `json:"cache_age,omitempty"`
}

// NewHandler creates a Handler. A nil engine exposes only the status
// endpoint, which then reports the ledger as disabled.
func NewHandler(engine *Engine, logger *slog.Logger) *Handler {
	return &Handler{
		engine: engine,
		logger: logger.With("handler", "ledger"),
	}
}

// Routes returns the route group definition for ledger endpoints.
func (h *Handler) Routes() routes.Group {
	group := routes.Group{
		Prefix: "/ledger",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/status", Handler: h.Status},
		},
	}
	if h.engine == nil {
		return group
	}

	group.Routes = append(group.Routes,
		routes.Route{Method: "GET", Pattern: "/stats", Handler: h.Stats},
		routes.Route{Method: "GET", Pattern: "/sessions/{id}", Handler: h.Inspect},
		routes.Route{Method: "POST", Pattern: "/pull", Handler: h.Pull},
		routes.Route{Method: "POST", Pattern: "/push", Handler: h.Push},
		routes.Route{Method: "POST", Pattern: "/full-sync", Handler: h.FullSync},
		routes.Route{Method: "POST", Pattern: "/rows/{id}", Handler: h.UpdateRow},
		routes.Route{Method: "POST", Pattern: "/clear-reviews", Handler: h.ClearReviews},
	)
	return group
}

// Status reports whether sync is available and how old the cached read is.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	st := Status{Enabled: h.engine != nil}
	if st.Enabled {
		if age, ok := h.engine.CacheAge(); ok {
			st.CacheAge = age.String()
		}
	}
	handlers.RespondJSON(w, http.StatusOK, st)
}

// Stats returns review progress counts.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.engine.Stats(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, st)
}

// Inspect compares one session's review state in the store and the sheet.
func (h *Handler) Inspect(w http.ResponseWriter, r *http.Request) {
	in, err := h.engine.Inspect(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, in)
}

// Pull imports the sheet into the store.
func (h *Handler) Pull(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.engine.Pull)
}

// Push exports the store into the sheet.
func (h *Handler) Push(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.engine.Push)
}

// FullSync pulls then pushes.
func (h *Handler) FullSync(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.engine.FullSync)
}

// ClearReviews drops local reviews and re-imports the sheet.
func (h *Handler) ClearReviews(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.engine.ClearReviews)
}

// UpdateRow rewrites the sheet row of one session.
func (h *Handler) UpdateRow(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.run(w, r, func(ctx context.Context) (Outcome, error) {
		return h.engine.UpdateRow(ctx, id)
	})
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request, op func(context.Context) (Outcome, error)) {
	out, err := op(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, out)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	status := MapHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("ledger operation failed", "status", status, "error", err)
	} else {
		h.logger.Warn("ledger operation failed", "status", status, "error", err)
	}
	handlers.RespondJSON(w, status, map[string]any{
		"success": false,
		"error":   err.Error(),
	})
}
