package api

import (
	"github.com/saksham0021/mira-astrology-review/internal/config"
	"github.com/saksham0021/mira-astrology-review/internal/infrastructure"
	"github.com/saksham0021/mira-astrology-review/internal/ledger"
	"github.com/saksham0021/mira-astrology-review/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination  pagination.Config
	Ledger      *ledger.Config
	MaxListSize int32
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Sheets:    infra.Sheets,
		},
		Pagination:  cfg.API.Pagination,
		Ledger:      &cfg.Ledger,
		MaxListSize: cfg.Storage.MaxListSize,
	}
}
