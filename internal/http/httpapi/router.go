package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"charityfund/internal/http/handlers"
	"charityfund/internal/infra"
	"charityfund/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config, logger infra.Logger) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Locale(cfg.DefaultLocale))
	r.Use(middleware.Identity(cfg.JWTSecret))

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/stats", app.StatsGet)

	r.Route("/v1/projects", func(r chi.Router) {
		r.Post("/", app.ProjectsCreate)
		r.Get("/", app.ProjectsList)
		r.Get("/{id}", app.ProjectsGet)
		r.Patch("/{id}", app.ProjectsUpdate)
		r.Delete("/{id}", app.ProjectsDelete)
	})

	r.Route("/v1/donations", func(r chi.Router) {
		r.Post("/", app.DonationsCreate)
		r.Get("/", app.DonationsList)
		r.Get("/my", app.DonationsMine)
	})

	return r
}
