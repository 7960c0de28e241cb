package infrastructure_test

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/saksham0021/mira-astrology-review/internal/config"
	"github.com/saksham0021/mira-astrology-review/internal/infrastructure"
	"github.com/saksham0021/mira-astrology-review/pkg/database"
	"github.com/saksham0021/mira-astrology-review/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=mirastore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/mirastore;"

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Database: database.Config{
			Driver:          database.DriverSQLite,
			Path:            filepath.Join(t.TempDir(), "mira.db"),
			AutoMigrate:     true,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		LogLevel:  "info",
		LogFormat: config.LogFormatText,
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		storage     storage.Config
		wantStorage bool
	}{
		{name: "storage disabled"},
		{
			name: "storage enabled",
			storage: storage.Config{
				Enabled:          true,
				ContainerName:    "exports",
				ConnectionString: azuriteConnString,
			},
			wantStorage: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := sqliteConfig(t)
			cfg.Storage = tt.storage

			infra, err := infrastructure.New(context.Background(), cfg, io.Discard)
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			t.Cleanup(func() { infra.Database.Connection().Close() })

			if infra.Lifecycle == nil || infra.Logger == nil || infra.Database == nil {
				t.Fatal("core systems missing")
			}
			if (infra.Storage != nil) != tt.wantStorage {
				t.Errorf("storage present = %v, want %v", infra.Storage != nil, tt.wantStorage)
			}
			if infra.Sheets != nil {
				t.Error("sheets created while disabled")
			}
		})
	}
}

func TestStartMigratesDatabase(t *testing.T) {
	infra, err := infrastructure.New(context.Background(), sqliteConfig(t), io.Discard)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if err := infra.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	infra.Lifecycle.WaitForStartup()

	var n int
	err = infra.Database.Connection().QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('sessions', 'reviews')",
	).Scan(&n)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if n != 2 {
		t.Errorf("tables = %d, want 2", n)
	}

	if err := infra.Lifecycle.Shutdown(5 * time.Second); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}
