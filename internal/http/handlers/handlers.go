package handlers

import (
	"context"
	"log/slog"
	nethttp "net/http"

	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
	"github.com/preston-bernstein/lineup-service/internal/validate"
)

// LineupService is the application surface the handlers need.
type LineupService interface {
	Teams(ctx context.Context) ([]lineup.Team, error)
	Team(ctx context.Context, id string) (lineup.Team, error)
	PutTeam(ctx context.Context, team lineup.Team) (lineup.Team, error)
	SetAvailability(ctx context.Context, teamID string, present []string) (lineup.Team, error)
	Generate(ctx context.Context, teamID string, innings int) (lineup.Lineup, error)
	Current(ctx context.Context, teamID string) (lineup.Lineup, error)
	Archived(ctx context.Context, teamID, date string) ([]lineup.Lineup, error)
	AcceptCandidate(ctx context.Context, teamID string, candidate lineup.Lineup) (lineup.Lineup, validate.Report, error)
	Validate(ctx context.Context, team lineup.Team, candidate lineup.Lineup) validate.Report
}

// Handler wires HTTP routes to the lineup service.
type Handler struct {
	svc     LineupService
	logger  *slog.Logger
	readyFn func(context.Context) error
}

// NewHandler constructs a Handler. readyFn may be nil.
func NewHandler(svc LineupService, logger *slog.Logger, readyFn func(context.Context) error) *Handler {
	return &Handler{
		svc:     svc,
		logger:  logger,
		readyFn: readyFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic; it fails while the store is unreachable.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	if h.readyFn != nil {
		if err := h.readyFn(r.Context()); err != nil {
			loggerFromContext(r, h.logger).Warn("readiness check failed", "error", err)
			writeError(w, r, nethttp.StatusServiceUnavailable, "not ready", h.logger)
			return
		}
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
}

// NotFound is the JSON 404 for unmatched routes.
func (h *Handler) NotFound(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
}

// MethodNotAllowed is the JSON 405 for known paths with the wrong method.
func (h *Handler) MethodNotAllowed(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
}
