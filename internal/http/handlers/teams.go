package handlers

import (
	nethttp "net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
	"github.com/preston-bernstein/lineup-service/internal/http/requestutil"
	"github.com/preston-bernstein/lineup-service/internal/logging"
)

type teamsResponse struct {
	Teams []lineup.Team `json:"teams"`
}

type availabilityRequest struct {
	PlayerIDs []string `json:"playerIds"`
}

// ListTeams returns every stored team.
func (h *Handler) ListTeams(w nethttp.ResponseWriter, r *nethttp.Request) {
	teams, err := h.svc.Teams(r.Context())
	if err != nil {
		writeServiceError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	writeJSON(w, nethttp.StatusOK, teamsResponse{Teams: teams}, h.logger)
}

// GetTeam returns one team.
func (h *Handler) GetTeam(w nethttp.ResponseWriter, r *nethttp.Request) {
	team, err := h.svc.Team(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		writeServiceError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	writeJSON(w, nethttp.StatusOK, team, h.logger)
}

// PutTeam creates or replaces the team named in the path.
func (h *Handler) PutTeam(w nethttp.ResponseWriter, r *nethttp.Request) {
	teamID := chi.URLParam(r, "teamID")
	var team lineup.Team
	if err := requestutil.DecodeJSON(w, r, &team); err != nil {
		writeError(w, r, nethttp.StatusBadRequest, err.Error(), h.logger)
		return
	}
	if body := strings.TrimSpace(team.ID); body != "" && body != teamID {
		writeError(w, r, nethttp.StatusBadRequest, "team id in body does not match path", h.logger)
		return
	}
	team.ID = teamID

	stored, err := h.svc.PutTeam(r.Context(), team)
	if err != nil {
		writeServiceError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	writeJSON(w, nethttp.StatusOK, stored, h.logger)
}

// SetAvailability marks which players are present for the next game.
func (h *Handler) SetAvailability(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req availabilityRequest
	if err := requestutil.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, nethttp.StatusBadRequest, err.Error(), h.logger)
		return
	}
	team, err := h.svc.SetAvailability(r.Context(), chi.URLParam(r, "teamID"), req.PlayerIDs)
	if err != nil {
		writeServiceError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	loggerFromContext(r, h.logger).Info("availability updated",
		logging.FieldTeamID, team.ID,
		logging.FieldCount, len(team.AvailablePlayers()),
	)
	writeJSON(w, nethttp.StatusOK, team, h.logger)
}
