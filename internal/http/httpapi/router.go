package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"innospark/internal/http/handlers"
	"innospark/internal/infra"
	"innospark/internal/metrics"
	"innospark/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config, logger zerolog.Logger, lookup middleware.CountryLookup) http.Handler {
	r := chi.NewRouter()
	r.Use(
		chimw.RealIP,
		middleware.RequestID,
		chimw.Recoverer,
		middleware.Logger(logger),
		metrics.InstrumentHandler,
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.I18N(cfg.DefaultLocale, lookup),
	)

	r.Get("/v1/healthz", app.Health)
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMin))
		r.Post("/v1/sessions", app.CreateSession)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthSession(cfg.JWTSecret))

			r.Route("/v1/session", func(r chi.Router) {
				r.Get("/screen", app.Screen)
				r.Post("/intents", app.PostIntent)
				r.Get("/stream", app.Stream)
				if cfg.IsDevelopment() {
					r.Post("/demo-projects", app.DemoProjects)
				}
			})

			r.Get("/v1/projects", app.ListProjects)

			r.Route("/v1/suggestions", func(r chi.Router) {
				r.Post("/analyze", app.AnalyzeInnovation)
				r.Post("/match", app.MatchVolunteer)
			})
		})
	})

	return r
}
