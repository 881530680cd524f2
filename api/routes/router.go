package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dpineda/mediashelf-backend/api/controllers"
	"github.com/dpineda/mediashelf-backend/api/middleware"
	"github.com/dpineda/mediashelf-backend/api/pages"
	"github.com/dpineda/mediashelf-backend/api/responses"
	"github.com/dpineda/mediashelf-backend/internal/catalog"
	"github.com/dpineda/mediashelf-backend/pkg/config"
	pkgerrors "github.com/dpineda/mediashelf-backend/pkg/errors"
	"github.com/dpineda/mediashelf-backend/pkg/logger"
	"github.com/dpineda/mediashelf-backend/pkg/metrics"
)

// NewRouter wires the HTML pages, the JSON API, and the operational
// endpoints onto one chi router.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	catalogService catalog.Service,
	pageHandler *pages.Handler,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(metrics.NewRequestMetrics(registry)),
		middleware.CORS(cfg.App.CORSOrigins...),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbPinger, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.NotFound(jsonNotFound(logg))

		r.Route("/media", func(r chi.Router) {
			r.Get("/", controllers.MediaList(catalogService, logg))
			r.Post("/", controllers.MediaCreate(catalogService, logg))
			r.Get("/{itemID}", controllers.MediaGet(catalogService, logg))
			r.Patch("/{itemID}", controllers.MediaUpdate(catalogService, logg))
			r.Delete("/{itemID}", controllers.MediaDelete(catalogService, logg))
		})
	})

	if pageHandler != nil {
		r.Get("/", pageHandler.Home)
		r.Get("/media", pageHandler.List)
		r.Get("/media/{itemID}", pageHandler.Detail)
		r.Post("/media/{itemID}/delete", pageHandler.Delete)
		r.Get("/add/{mediaType}", pageHandler.AddForm)
		r.Post("/add/{mediaType}", pageHandler.AddSubmit)
		r.Get("/edit/{mediaType}/{itemID}", pageHandler.EditForm)
		r.Post("/edit/{mediaType}/{itemID}", pageHandler.EditSubmit)
		r.NotFound(pageHandler.NotFound)
	}

	return r
}

// jsonNotFound keeps unmatched API paths on the JSON error envelope
// instead of the HTML error page.
func jsonNotFound(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := pkgerrors.New(pkgerrors.CodeNotFound, "route not found")
		responses.WriteError(r.Context(), logg, w, err)
	}
}
