package handlers

import (
	"errors"
	"fmt"
	nethttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
	"github.com/preston-bernstein/lineup-service/internal/http/requestutil"
	"github.com/preston-bernstein/lineup-service/internal/validate"
)

type candidateResponse struct {
	Lineup lineup.Lineup  `json:"lineup"`
	Issues []lineup.Issue `json:"issues"`
}

type validateRequest struct {
	Players   []lineup.Player   `json:"players"`
	Config    lineup.TeamConfig `json:"config"`
	Positions lineup.Catalog    `json:"positions,omitempty"`
	Lineup    lineup.Lineup     `json:"lineup"`
}

type validateResponse struct {
	Accepted bool           `json:"accepted"`
	Issues   []lineup.Issue `json:"issues"`
}

// GenerateLineup builds and stores a new lineup. ?innings=N overrides the
// team default.
func (h *Handler) GenerateLineup(w nethttp.ResponseWriter, r *nethttp.Request) {
	innings := 0
	if raw := r.URL.Query().Get("innings"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > lineup.MaxInnings {
			writeError(w, r, nethttp.StatusBadRequest,
				fmt.Sprintf("innings must be between 1 and %d", lineup.MaxInnings), h.logger)
			return
		}
		innings = n
	}
	l, err := h.svc.Generate(r.Context(), chi.URLParam(r, "teamID"), innings)
	if err != nil {
		writeServiceError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	writeJSON(w, nethttp.StatusCreated, l, h.logger)
}

type archivedResponse struct {
	TeamID  string          `json:"teamId"`
	Date    string          `json:"date"`
	Lineups []lineup.Lineup `json:"lineups"`
}

// ArchivedLineups lists the lineups archived for a team on one UTC day.
func (h *Handler) ArchivedLineups(w nethttp.ResponseWriter, r *nethttp.Request) {
	teamID, date := chi.URLParam(r, "teamID"), chi.URLParam(r, "date")
	archived, err := h.svc.Archived(r.Context(), teamID, date)
	if err != nil {
		writeServiceError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	writeJSON(w, nethttp.StatusOK, archivedResponse{TeamID: teamID, Date: date, Lineups: archived}, h.logger)
}

// CurrentLineup returns the team's most recently stored lineup.
func (h *Handler) CurrentLineup(w nethttp.ResponseWriter, r *nethttp.Request) {
	l, err := h.svc.Current(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		writeServiceError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	writeJSON(w, nethttp.StatusOK, l, h.logger)
}

// SubmitCandidate accepts or rejects a proposed lineup. Rejections return 422
// with the structured issues.
func (h *Handler) SubmitCandidate(w nethttp.ResponseWriter, r *nethttp.Request) {
	var candidate lineup.Lineup
	if err := requestutil.DecodeJSON(w, r, &candidate); err != nil {
		writeError(w, r, nethttp.StatusBadRequest, err.Error(), h.logger)
		return
	}
	accepted, report, err := h.svc.AcceptCandidate(r.Context(), chi.URLParam(r, "teamID"), candidate)
	if err != nil {
		var rejection *validate.RejectionError
		if errors.As(err, &rejection) {
			writeIssues(w, r, nethttp.StatusUnprocessableEntity, validate.ErrRejected.Error(), report.Issues, h.logger)
			return
		}
		writeServiceError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	writeJSON(w, nethttp.StatusCreated, candidateResponse{Lineup: accepted, Issues: nonNil(report.Issues)}, h.logger)
}

// ValidateLineup checks a lineup against an inline roster without storing anything.
func (h *Handler) ValidateLineup(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req validateRequest
	if err := requestutil.DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, nethttp.StatusBadRequest, err.Error(), h.logger)
		return
	}
	if len(req.Players) == 0 {
		writeError(w, r, nethttp.StatusBadRequest, "players are required", h.logger)
		return
	}
	for i := range req.Players {
		req.Players[i].Gender = lineup.ParseGender(string(req.Players[i].Gender))
	}
	team := lineup.Team{Players: req.Players, Config: req.Config, Positions: req.Positions}
	report := h.svc.Validate(r.Context(), team, req.Lineup)
	writeJSON(w, nethttp.StatusOK, validateResponse{Accepted: report.Accepted(), Issues: nonNil(report.Issues)}, h.logger)
}

func nonNil(issues []lineup.Issue) []lineup.Issue {
	if issues == nil {
		return []lineup.Issue{}
	}
	return issues
}

