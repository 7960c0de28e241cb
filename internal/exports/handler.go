package exports

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"

	"github.com/saksham0021/mira-astrology-review/pkg/handlers"
	"github.com/saksham0021/mira-astrology-review/pkg/routes"
	"github.com/saksham0021/mira-astrology-review/pkg/storage"
)

// Handler provides HTTP endpoints for export operations.
type Handler struct {
	sys         System
	logger      *slog.Logger
	maxListSize int32
}

// NewHandler creates a Handler.
func NewHandler(sys System, logger *slog.Logger, maxListSize int32) *Handler {
	return &Handler{
		sys:         sys,
		logger:      logger.With("handler", "exports"),
		maxListSize: maxListSize,
	}
}

// Routes returns the route group definition for export endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/exports",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "GET", Pattern: "/{key...}", Handler: h.Download},
		},
	}
}

// List returns one page of stored exports.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	maxResults, err := storage.ParseMaxResults(r.URL.Query().Get("max_results"), h.maxListSize)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.List(r.Context(), r.URL.Query().Get("marker"), maxResults)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Create renders and stores a new export.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	exp, err := h.sys.Create(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, exp)
}

// Download streams a stored export as an attachment.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	blob, err := h.sys.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer blob.Body.Close()

	w.Header().Set("Content-Type", blob.ContentType)
	if blob.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(blob.ContentLength, 10))
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(key)))
	w.WriteHeader(http.StatusOK)
	io.Copy(w, blob.Body)
}
