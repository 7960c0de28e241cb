package api

import (
	"net/http"

	"github.com/saksham0021/mira-astrology-review/internal/ledger"
	"github.com/saksham0021/mira-astrology-review/pkg/openapi"
	"github.com/saksham0021/mira-astrology-review/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
	spec []byte,
) {
	groups := []routes.Group{
		domain.Sessions.Handler().Routes(),
		domain.Reviews.Handler().Routes(),
		ledger.NewHandler(domain.Ledger, runtime.Logger).Routes(),
	}
	if domain.Exports != nil {
		groups = append(groups, domain.Exports.Handler().Routes())
	}

	routes.Register(mux, groups...)
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))
}
