package database_test

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/saksham0021/mira-astrology-review/pkg/database"
	"github.com/saksham0021/mira-astrology-review/pkg/lifecycle"
)

func TestNewSetsPoolParams(t *testing.T) {
	tests := []struct {
		name     string
		cfg      database.Config
		wantOpen int
	}{
		{
			name: "postgres",
			cfg: database.Config{
				Driver:          database.DriverPostgres,
				Host:            "localhost",
				Port:            5432,
				Name:            "mira",
				User:            "mira",
				SSLMode:         "disable",
				MaxOpenConns:    42,
				MaxIdleConns:    7,
				ConnMaxLifetime: "10m",
				ConnTimeout:     "3s",
			},
			wantOpen: 42,
		},
		{
			name: "sqlite is single writer",
			cfg: database.Config{
				Driver:          database.DriverSQLite,
				Path:            filepath.Join(t.TempDir(), "mira.db"),
				MaxOpenConns:    42,
				ConnMaxLifetime: "10m",
				ConnTimeout:     "3s",
			},
			wantOpen: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys, err := database.New(&tt.cfg, slog.Default(), nil)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			conn := sys.Connection()
			defer conn.Close()

			if sys.Driver() != tt.cfg.Driver {
				t.Errorf("Driver() = %s, want %s", sys.Driver(), tt.cfg.Driver)
			}
			if got := conn.Stats().MaxOpenConnections; got != tt.wantOpen {
				t.Errorf("MaxOpenConnections = %d, want %d", got, tt.wantOpen)
			}
		})
	}
}

func TestStartRunsMigrator(t *testing.T) {
	tests := []struct {
		name        string
		autoMigrate bool
		wantCalls   int
	}{
		{"auto migrate", true, 1},
		{"manual migrate", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "mira.db")
			cfg := database.Config{
				Driver:          database.DriverSQLite,
				Path:            path,
				AutoMigrate:     tt.autoMigrate,
				ConnMaxLifetime: "10m",
				ConnTimeout:     "3s",
			}

			var calls int
			var gotDriver, gotURL string
			migrate := func(driver, url string) error {
				calls++
				gotDriver, gotURL = driver, url
				return nil
			}

			sys, err := database.New(&cfg, slog.Default(), migrate)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			lc := lifecycle.New()
			if err := sys.Start(lc); err != nil {
				t.Fatalf("Start() error = %v", err)
			}
			lc.WaitForStartup()

			if calls != tt.wantCalls {
				t.Fatalf("migrator calls = %d, want %d", calls, tt.wantCalls)
			}
			if calls > 0 && (gotDriver != database.DriverSQLite || gotURL != "sqlite://"+path) {
				t.Errorf("migrator got (%s, %s)", gotDriver, gotURL)
			}

			if err := lc.Shutdown(5 * time.Second); err != nil {
				t.Errorf("Shutdown() error = %v", err)
			}
		})
	}
}
