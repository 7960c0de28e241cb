// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, sheets) that domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/saksham0021/mira-astrology-review/internal/config"
	"github.com/saksham0021/mira-astrology-review/migrations"
	"github.com/saksham0021/mira-astrology-review/pkg/database"
	"github.com/saksham0021/mira-astrology-review/pkg/lifecycle"
	"github.com/saksham0021/mira-astrology-review/pkg/sheets"
	"github.com/saksham0021/mira-astrology-review/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Storage and Sheets are nil when their config sections are disabled.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Sheets    sheets.System
}

// New creates an Infrastructure from the application configuration, logging
// to w. It initializes all systems but does not start them; call Start
// separately.
func New(ctx context.Context, cfg *config.Config, w io.Writer) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := cfg.NewLogger(w)

	db, err := database.New(&cfg.Database, logger, migrations.Up)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	infra := &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
	}

	if cfg.Storage.Enabled {
		store, err := storage.New(&cfg.Storage, logger)
		if err != nil {
			return nil, fmt.Errorf("storage init failed: %w", err)
		}
		infra.Storage = store
	}

	if cfg.Sheets.Enabled {
		sheet, err := sheets.New(ctx, &cfg.Sheets, logger)
		if err != nil {
			return nil, fmt.Errorf("sheets init failed: %w", err)
		}
		infra.Sheets = sheet
	}

	return infra, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if i.Storage != nil {
		if err := i.Storage.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("storage start failed: %w", err)
		}
	}
	if i.Sheets != nil {
		if err := i.Sheets.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("sheets start failed: %w", err)
		}
	}
	return nil
}
