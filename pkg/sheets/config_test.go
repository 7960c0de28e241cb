package sheets_test

import (
	"testing"
	"time"

	"github.com/saksham0021/mira-astrology-review/pkg/sheets"
)

func TestSpreadsheetIDFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"edit url", "https://docs.google.com/spreadsheets/d/1AbC-d_E/edit#gid=0", "1AbC-d_E"},
		{"bare", "https://docs.google.com/spreadsheets/d/xyz", "xyz"},
		{"not a sheet", "https://example.com/doc/1", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sheets.SpreadsheetIDFromURL(tt.url); got != tt.want {
				t.Errorf("SpreadsheetIDFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestFinalizeDefaults(t *testing.T) {
	cfg := &sheets.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if cfg.TimeoutDuration() != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", cfg.TimeoutDuration())
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_SHEETS_ENABLED", "true")
	t.Setenv("TEST_SHEETS_URL", "https://docs.google.com/spreadsheets/d/env-id/edit")
	t.Setenv("TEST_SHEETS_NAME", "Sheet2")
	t.Setenv("TEST_SHEETS_CREDENTIALS", `{"type":"service_account"}`)
	t.Setenv("TEST_SHEETS_TIMEOUT", "5s")

	cfg := &sheets.Config{SpreadsheetURL: "https://docs.google.com/spreadsheets/d/file-id"}
	env := &sheets.Env{
		Enabled:        "TEST_SHEETS_ENABLED",
		SpreadsheetURL: "TEST_SHEETS_URL",
		SheetName:      "TEST_SHEETS_NAME",
		Credentials:    "TEST_SHEETS_CREDENTIALS",
		Timeout:        "TEST_SHEETS_TIMEOUT",
	}

	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if !cfg.Enabled {
		t.Error("enabled = false, want true")
	}
	if cfg.ID() != "env-id" {
		t.Errorf("id = %q, want env-id", cfg.ID())
	}
	if cfg.SheetName != "Sheet2" {
		t.Errorf("sheet name = %q, want Sheet2", cfg.SheetName)
	}
	if cfg.TimeoutDuration() != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.TimeoutDuration())
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     sheets.Config
		wantErr bool
	}{
		{"disabled without id", sheets.Config{}, false},
		{"enabled without id", sheets.Config{Enabled: true}, true},
		{"enabled with id", sheets.Config{Enabled: true, SpreadsheetID: "abc"}, false},
		{"enabled with url", sheets.Config{Enabled: true, SpreadsheetURL: "https://docs.google.com/spreadsheets/d/abc"}, false},
		{"bad timeout", sheets.Config{Timeout: "soon"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("Finalize() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := &sheets.Config{SpreadsheetID: "base", SheetName: "Sheet1", Timeout: "30s"}
	base.Merge(&sheets.Config{Enabled: true, SheetName: "Ledger"})

	if !base.Enabled || base.SheetName != "Ledger" {
		t.Errorf("merged = %+v", base)
	}
	if base.SpreadsheetID != "base" || base.Timeout != "30s" {
		t.Errorf("zero overlay fields overwrote base: %+v", base)
	}
}

func TestColumnName(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "A"},
		{20, "T"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{53, "BA"},
		{702, "ZZ"},
		{703, "AAA"},
	}

	for _, tt := range tests {
		if got := sheets.ColumnName(tt.n); got != tt.want {
			t.Errorf("ColumnName(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}

	if got := sheets.RowRange("It's", 4, 20); got != "'It''s'!A4:T4" {
		t.Errorf("RowRange = %q", got)
	}
}
