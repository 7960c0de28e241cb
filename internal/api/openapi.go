package api

import (
	"net/http"

	"github.com/saksham0021/mira-astrology-review/internal/config"
	"github.com/saksham0021/mira-astrology-review/pkg/openapi"
)

var pageParams = []*openapi.Parameter{
	openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
	openapi.QueryParam("page_size", "integer", "Results per page", false),
	openapi.QueryParam("search", "string", "Search query", false),
	openapi.QueryParam("sort", "string", "Sort fields, - prefix for descending", false),
}

// NewSpec describes the routes the domain mounts.
func NewSpec(cfg *config.Config, domain *Domain) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Session": {
			Type:     "object",
			Required: []string{"session_id"},
			Properties: map[string]*openapi.Schema{
				"session_id":       {Type: "string"},
				"user_id":          {Type: "string"},
				"age":              {Type: "integer"},
				"gender":           {Type: "string"},
				"rating":           {Type: "number"},
				"summary":          {Type: "string"},
				"kundli":           {Type: "string"},
				"major_dasha":      {Type: "string"},
				"minor_dasha":      {Type: "string"},
				"sub_minor_dasha":  {Type: "string"},
				"manglik_dosha":    {Type: "string"},
				"pitra_dosha":      {Type: "string"},
				"chat":             {Type: "string"},
				"saurabh_analysis": {Type: "string"},
				"original_marking": {Type: "string"},
			},
		},
		"ReviewSubmission": {
			Type:     "object",
			Required: []string{"session_id"},
			Properties: map[string]*openapi.Schema{
				"session_id":      {Type: "string"},
				"astrologer_name": {Type: "string", Default: "System Reviewer"},
				"overall_status":  {Type: "string"},
				"comments":        {Type: "string"},
				"status": {
					Type:    "string",
					Enum:    []any{"not_started", "in_progress", "completed"},
					Default: "in_progress",
				},
			},
		},
		"ParseRequest": {
			Type:        "object",
			Description: "Raw field text keyed by domain",
			Properties: map[string]*openapi.Schema{
				"kundli":       {Type: "string"},
				"dosha":        {Type: "string"},
				"dasha":        {Type: "string"},
				"dasha_period": {Type: "string"},
				"summary":      {Type: "string"},
				"chat":         {Type: "string"},
			},
		},
	})

	sessionID := openapi.PathParam("id", "Session ID")
	reviewID := openapi.PathParam("sessionID", "Session ID")
	op := openapi.Op

	spec.Paths["/sessions"] = &openapi.PathItem{
		Get:  op("List sessions with review state", "Sessions").WithParams(pageParams...),
		Post: op("Create or overwrite a session", "Sessions").WithBody("Session"),
	}
	spec.Paths["/sessions/search"] = &openapi.PathItem{
		Post: op("Search sessions", "Sessions").WithBody("PageRequest"),
	}
	spec.Paths["/sessions/parse"] = &openapi.PathItem{
		Post: op("Parse raw astrology columns", "Sessions").WithBody("ParseRequest"),
	}
	spec.Paths["/sessions/{id}"] = &openapi.PathItem{
		Get: op("Session with parsed astrology", "Sessions").WithParams(sessionID).NotFound(),
	}
	spec.Paths["/sessions/{id}/astro"] = &openapi.PathItem{
		Get: op("Parsed astrology document", "Sessions").WithParams(sessionID).NotFound(),
	}

	spec.Paths["/reviews"] = &openapi.PathItem{
		Get:  op("List reviews", "Reviews").WithParams(pageParams...),
		Post: op("Submit a review", "Reviews").WithBody("ReviewSubmission").NotFound(),
	}
	spec.Paths["/reviews/search"] = &openapi.PathItem{
		Post: op("Search reviews", "Reviews").WithBody("PageRequest"),
	}
	spec.Paths["/reviews/{sessionID}"] = &openapi.PathItem{
		Get:    op("Review of a session", "Reviews").WithParams(reviewID).NotFound(),
		Delete: op("Delete a review", "Reviews").WithParams(reviewID).NotFound(),
	}

	spec.Paths["/ledger/status"] = &openapi.PathItem{Get: op("Ledger availability", "Ledger")}
	if domain.Ledger != nil {
		spec.Paths["/ledger/stats"] = &openapi.PathItem{Get: op("Review progress counts", "Ledger").Upstream()}
		spec.Paths["/ledger/sessions/{id}"] = &openapi.PathItem{
			Get: op("Compare store and sheet review state", "Ledger").WithParams(sessionID).Upstream(),
		}
		spec.Paths["/ledger/pull"] = &openapi.PathItem{Post: op("Import the sheet into the store", "Ledger").Upstream()}
		spec.Paths["/ledger/push"] = &openapi.PathItem{Post: op("Export the store into the sheet", "Ledger").Upstream()}
		spec.Paths["/ledger/full-sync"] = &openapi.PathItem{Post: op("Pull then push", "Ledger").Upstream()}
		spec.Paths["/ledger/clear-reviews"] = &openapi.PathItem{Post: op("Drop local reviews and pull", "Ledger").Upstream()}
		spec.Paths["/ledger/rows/{id}"] = &openapi.PathItem{
			Post: op("Rewrite one sheet row", "Ledger").WithParams(sessionID).NotFound().Upstream(),
		}
	}

	if domain.Exports != nil {
		spec.Paths["/exports"] = &openapi.PathItem{
			Get:  op("List stored exports", "Exports"),
			Post: op("Create a CSV export", "Exports").WithResponse(http.StatusCreated, &openapi.Response{Description: "Created"}),
		}
		spec.Paths["/exports/{key}"] = &openapi.PathItem{
			Get: op("Download an export", "Exports").WithParams(openapi.PathParam("key", "Export key")).NotFound(),
		}
	}

	return spec
}
