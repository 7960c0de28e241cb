package storage_test

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/saksham0021/mira-astrology-review/pkg/storage"
)

func TestFinalizeDisabledSkipsValidation(t *testing.T) {
	cfg := storage.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "exports" {
		t.Errorf("container_name: got %s, want exports", cfg.ContainerName)
	}
	if cfg.MaxListSize != 50 {
		t.Errorf("max_list_size: got %d, want 50", cfg.MaxListSize)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_STORAGE_ENABLED", "true")
	t.Setenv("TEST_CONTAINER", "reviews")
	t.Setenv("TEST_SERVICE_URL", "https://mira.blob.core.windows.net/")
	t.Setenv("TEST_MAX_LIST", "99999")

	env := &storage.Env{
		Enabled:       "TEST_STORAGE_ENABLED",
		ContainerName: "TEST_CONTAINER",
		ServiceURL:    "TEST_SERVICE_URL",
		MaxListSize:   "TEST_MAX_LIST",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if !cfg.Enabled {
		t.Error("enabled: got false, want true")
	}
	if cfg.ContainerName != "reviews" {
		t.Errorf("container_name: got %s, want reviews", cfg.ContainerName)
	}
	if cfg.ServiceURL != "https://mira.blob.core.windows.net/" {
		t.Errorf("service_url: got %s", cfg.ServiceURL)
	}
	if cfg.MaxListSize != storage.MaxListCap {
		t.Errorf("max_list_size: got %d, want %d", cfg.MaxListSize, storage.MaxListCap)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr string
	}{
		{
			name:    "enabled without endpoint",
			cfg:     storage.Config{Enabled: true},
			wantErr: "connection_string or service_url required",
		},
		{
			name: "enabled with connection string",
			cfg:  storage.Config{Enabled: true, ConnectionString: "UseDevelopmentStorage=true"},
		},
		{
			name: "enabled with service url",
			cfg:  storage.Config{Enabled: true, ServiceURL: "https://mira.blob.core.windows.net/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{
		ContainerName:    "exports",
		ConnectionString: "base-conn",
	}

	overlay := storage.Config{Enabled: true, ServiceURL: "https://overlay"}
	base.Merge(&overlay)

	if !base.Enabled {
		t.Error("enabled should be set by overlay")
	}
	if base.ConnectionString != "base-conn" {
		t.Errorf("connection_string should remain base-conn, got %s", base.ConnectionString)
	}
	if base.ServiceURL != "https://overlay" {
		t.Errorf("service_url: got %s, want https://overlay", base.ServiceURL)
	}
}

func TestParseMaxResults(t *testing.T) {
	tests := []struct {
		input   string
		want    int32
		wantErr bool
	}{
		{input: "", want: 25},
		{input: "100", want: 100},
		{input: "9999", want: storage.MaxListCap},
		{input: "0", wantErr: true},
		{input: "-3", wantErr: true},
		{input: "ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := storage.ParseMaxResults(tt.input, 25)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{storage.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", storage.ErrNotFound), http.StatusNotFound},
		{storage.ErrEmptyKey, http.StatusBadRequest},
		{storage.ErrInvalidKey, http.StatusBadRequest},
		{errors.New("network down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := storage.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key  string
		want error
	}{
		{"exports/20261015T101500Z.csv", nil},
		{"exports/a..b.csv", nil},
		{"", storage.ErrEmptyKey},
		{"/exports/x.csv", storage.ErrInvalidKey},
		{"exports/../secrets", storage.ErrInvalidKey},
		{"..", storage.ErrInvalidKey},
		{`exports\x.csv`, storage.ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if err := storage.ValidateKey(tt.key); !errors.Is(err, tt.want) {
				t.Errorf("ValidateKey(%q) = %v, want %v", tt.key, err, tt.want)
			}
		})
	}
}
