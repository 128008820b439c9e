package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/lineup-service/internal/http/handlers"
	"github.com/preston-bernstein/lineup-service/internal/http/middleware"
	"github.com/preston-bernstein/lineup-service/internal/metrics"
)

// NewRouter registers HTTP routes on a chi router wrapped in request logging.
func NewRouter(handler *handlers.Handler, logger *slog.Logger, recorder *metrics.Recorder) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger, recorder))
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/health", handler.Health)
	r.Get("/ready", handler.Ready)

	r.Route("/teams", func(r chi.Router) {
		r.Get("/", handler.ListTeams)
		r.Route("/{teamID}", func(r chi.Router) {
			r.Get("/", handler.GetTeam)
			r.Put("/", handler.PutTeam)
			r.Put("/availability", handler.SetAvailability)
			r.Post("/lineups", handler.GenerateLineup)
			r.Get("/lineups/current", handler.CurrentLineup)
			r.Get("/lineups/archive/{date}", handler.ArchivedLineups)
			r.Post("/lineups/candidates", handler.SubmitCandidate)
		})
	})
	r.Post("/lineups/validate", handler.ValidateLineup)
	return r
}
