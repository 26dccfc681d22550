package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/orderlens/api/controllers"
	analyticscontrollers "github.com/angelmondragon/orderlens/api/controllers/analytics"
	"github.com/angelmondragon/orderlens/api/middleware"
	"github.com/angelmondragon/orderlens/internal/analytics"
	"github.com/angelmondragon/orderlens/internal/ingest"
	"github.com/angelmondragon/orderlens/pkg/config"
	"github.com/angelmondragon/orderlens/pkg/logger"
)

// Dependencies are the collaborators the HTTP surface is built from. Gatherer may be nil, in
// which case /metrics is not mounted.
type Dependencies struct {
	Analytics analytics.Service
	Parser    *ingest.Parser
	Gatherer  prometheus.Gatherer
	Ready     map[string]controllers.Pinger
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Ready))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/analytics", func(r chi.Router) {
		r.Use(middleware.BodyLimit(cfg.Ingest.MaxUploadBytes()))
		r.Post("/periods", analyticscontrollers.Periods(deps.Analytics, deps.Parser, logg))
		r.Post("/compare", analyticscontrollers.Compare(deps.Analytics, deps.Parser, logg))
		r.Post("/predictions", analyticscontrollers.Predict(deps.Analytics, deps.Parser, logg))
	})

	return r
}
