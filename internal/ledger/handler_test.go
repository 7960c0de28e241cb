package ledger_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/saksham0021/mira-astrology-review/internal/ledger"
	"github.com/saksham0021/mira-astrology-review/internal/sessions"
	"github.com/saksham0021/mira-astrology-review/pkg/routes"
)

func serve(h *ledger.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())
	return mux
}

func TestHandlerDisabled(t *testing.T) {
	mux := serve(ledger.NewHandler(nil, discard()))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ledger/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var st ledger.Status
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Enabled {
		t.Error("enabled = true without engine")
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ledger/pull", nil))
	if rec.Code != http.StatusNotFound && rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("pull without engine = %d, want unmounted", rec.Code)
	}
}

func TestHandlerOperations(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantKey    string
	}{
		{"status", http.MethodGet, "/ledger/status", http.StatusOK, "enabled"},
		{"stats", http.MethodGet, "/ledger/stats", http.StatusOK, "total"},
		{"inspect", http.MethodGet, "/ledger/sessions/S1", http.StatusOK, "in_sheet"},
		{"pull", http.MethodPost, "/ledger/pull", http.StatusOK, "success"},
		{"push", http.MethodPost, "/ledger/push", http.StatusOK, "rows_written"},
		{"full sync", http.MethodPost, "/ledger/full-sync", http.StatusOK, "success"},
		{"update row", http.MethodPost, "/ledger/rows/S1", http.StatusOK, "row"},
		{"clear reviews", http.MethodPost, "/ledger/clear-reviews", http.StatusOK, "success"},
		{"unknown session", http.MethodPost, "/ledger/rows/missing", http.StatusNotFound, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet := newMemSheet(ledger.Columns, ledger.Project(sessions.Session{SessionID: "S1"}, nil))
			f := newFixture(t, sheet)
			f.save(t, sessions.Session{SessionID: "S1"})

			mux := serve(ledger.NewHandler(f.engine, discard()))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body)
			}

			var body map[string]any
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if _, ok := body[tt.wantKey]; !ok {
				t.Errorf("body %v missing %q", body, tt.wantKey)
			}
			if tt.wantStatus != http.StatusOK && body["success"] != false {
				t.Errorf("success = %v, want false", body["success"])
			}
		})
	}
}
