package openapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/saksham0021/mira-astrology-review/pkg/openapi"
)

func TestSpecBuilders(t *testing.T) {
	spec := openapi.NewSpec("Review API", "0.3.0")
	spec.SetDescription("Review queue")
	spec.AddServer("/api")

	if spec.OpenAPI != "3.1.0" || spec.Info.Title != "Review API" || spec.Info.Version != "0.3.0" {
		t.Errorf("info = %+v, openapi = %s", spec.Info, spec.OpenAPI)
	}
	if spec.Info.Description != "Review queue" {
		t.Errorf("description = %s", spec.Info.Description)
	}
	if len(spec.Servers) != 1 || spec.Servers[0].URL != "/api" {
		t.Errorf("servers = %+v", spec.Servers)
	}
	if spec.Components == nil || spec.Paths == nil {
		t.Fatal("components and paths should be initialized")
	}
}

func TestRefs(t *testing.T) {
	rb := openapi.RequestBodyJSON("ReviewSubmission", true)
	resp := openapi.ResponseJSON("Saved", "Session")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"schema ref", openapi.SchemaRef("Session").Ref, "#/components/schemas/Session"},
		{"response ref", openapi.ResponseRef("NotFound").Ref, "#/components/responses/NotFound"},
		{"request body", rb.Content["application/json"].Schema.Ref, "#/components/schemas/ReviewSubmission"},
		{"response body", resp.Content["application/json"].Schema.Ref, "#/components/schemas/Session"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}

	if !rb.Required {
		t.Error("request body should be required")
	}
}

func TestParams(t *testing.T) {
	path := openapi.PathParam("id", "Session ID")
	if path.In != "path" || !path.Required {
		t.Errorf("path param = %+v", path)
	}
	if path.Schema.Type != "string" {
		t.Errorf("path schema = %s", path.Schema.Type)
	}

	query := openapi.QueryParam("page_size", "integer", "Results per page", false)
	if query.In != "query" || query.Required || query.Schema.Type != "integer" {
		t.Errorf("query param = %+v", query)
	}
}

func TestComponents(t *testing.T) {
	c := openapi.NewComponents()
	c.AddSchemas(map[string]*openapi.Schema{"Session": {Type: "object"}})
	c.AddResponses(map[string]*openapi.Response{"Sheet": {Description: "Sheet unreachable"}})

	for _, name := range []string{"PageRequest", "Session"} {
		if _, ok := c.Schemas[name]; !ok {
			t.Errorf("schema %s missing", name)
		}
	}
	for _, name := range []string{"BadRequest", "NotFound", "Conflict", "BadGateway", "Unavailable", "Sheet"} {
		if _, ok := c.Responses[name]; !ok {
			t.Errorf("response %s missing", name)
		}
	}
}

func TestOperationBuilder(t *testing.T) {
	op := openapi.Op("Rewrite one sheet row", "Ledger").
		WithParams(openapi.PathParam("id", "Session ID")).
		WithBody("ReviewSubmission").
		NotFound().
		Upstream()

	if len(op.Parameters) != 1 || op.Tags[0] != "Ledger" {
		t.Errorf("op = %+v", op)
	}
	if op.RequestBody == nil || !op.RequestBody.Required {
		t.Fatal("body should be required")
	}

	want := map[int]string{
		http.StatusOK:                 "",
		http.StatusBadRequest:         "#/components/responses/BadRequest",
		http.StatusNotFound:           "#/components/responses/NotFound",
		http.StatusBadGateway:         "#/components/responses/BadGateway",
		http.StatusServiceUnavailable: "#/components/responses/Unavailable",
	}
	if len(op.Responses) != len(want) {
		t.Fatalf("responses = %v", op.Responses)
	}
	for status, ref := range want {
		if got := op.Responses[status].Ref; got != ref {
			t.Errorf("%d ref = %q, want %q", status, got, ref)
		}
	}
}

func TestOutput(t *testing.T) {
	spec := openapi.NewSpec("Review API", "1.0.0")
	spec.Paths["/sessions"] = &openapi.PathItem{Get: openapi.Op("List sessions")}

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	rec := httptest.NewRecorder()
	openapi.ServeSpec(data)(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content type = %s", ct)
	}
	if cl := rec.Header().Get("Content-Length"); cl != strconv.Itoa(len(data)) {
		t.Errorf("content length = %s", cl)
	}

	var parsed struct {
		OpenAPI string                                `json:"openapi"`
		Paths   map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if parsed.OpenAPI != openapi.Version {
		t.Errorf("openapi = %s", parsed.OpenAPI)
	}
	if _, ok := parsed.Paths["/sessions"]["get"]; !ok {
		t.Errorf("paths = %v", parsed.Paths)
	}
	if _, ok := parsed.Paths["/sessions"]["post"]; ok {
		t.Error("unset methods should be omitted")
	}
}

func TestConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var cfg openapi.Config
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if cfg.Title != "Mira Review API" || cfg.Description == "" {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("MIRA_TEST_TITLE", "Custom API")
		t.Setenv("MIRA_TEST_DESC", "Custom desc")

		var cfg openapi.Config
		err := cfg.Finalize(&openapi.ConfigEnv{Title: "MIRA_TEST_TITLE", Description: "MIRA_TEST_DESC"})
		if err != nil {
			t.Fatalf("finalize: %v", err)
		}
		if cfg.Title != "Custom API" || cfg.Description != "Custom desc" {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("merge", func(t *testing.T) {
		base := openapi.Config{Title: "Base", Description: "kept"}
		base.Merge(&openapi.Config{Title: "Overlay"})
		if base.Title != "Overlay" || base.Description != "kept" {
			t.Errorf("cfg = %+v", base)
		}
	})
}
