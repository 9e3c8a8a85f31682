package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pricelab/pricelab/internal/auth"
	"github.com/pricelab/pricelab/internal/catalog"
	"github.com/pricelab/pricelab/internal/observability"
	"github.com/pricelab/pricelab/internal/pricing"
	"github.com/pricelab/pricelab/internal/rbac"
	"github.com/pricelab/pricelab/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Tokens         *auth.TokenStore
	Identities     auth.IdentitySource
	AuthHandler    *auth.Handler
	CatalogHandler *catalog.Handler
	PricingHandler *pricing.Handler
	RolesHandler   *rbac.Handler
	UsersHandler   *users.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with pricelab defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:     params.Logger,
		Config:     params.Config,
		Tokens:     params.Tokens,
		Identities: params.Identities,
		Metrics:    params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Route("/catalog/products", func(r chi.Router) {
		params.CatalogHandler.MountRoutes(r)
		params.PricingHandler.MountRoutes(r)
	})

	r.Route("/admin", func(r chi.Router) {
		params.RolesHandler.MountRoutes(r)
		params.UsersHandler.MountRoutes(r)
	})

	return r
}
