// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/saksham0021/mira-astrology-review/internal/config"
	"github.com/saksham0021/mira-astrology-review/internal/infrastructure"
	"github.com/saksham0021/mira-astrology-review/pkg/middleware"
	"github.com/saksham0021/mira-astrology-review/pkg/module"
	"github.com/saksham0021/mira-astrology-review/pkg/openapi"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	spec, err := openapi.MarshalJSON(NewSpec(cfg, domain))
	if err != nil {
		return nil, fmt.Errorf("build openapi spec: %w", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime, spec)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.BodyLimit(cfg.API.MaxBodySizeBytes()))
	m.Use(middleware.Logger(runtime.Infrastructure.Logger))

	return m, nil
}
