package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/lineup-service/internal/app/lineups"
	"github.com/preston-bernstein/lineup-service/internal/domain/lineup"
	"github.com/preston-bernstein/lineup-service/internal/http/middleware"
	"github.com/preston-bernstein/lineup-service/internal/logging"
)

type errorBody struct {
	Error     string         `json:"error"`
	RequestID string         `json:"requestId,omitempty"`
	Issues    []lineup.Issue `json:"issues,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	writeIssues(w, r, status, message, nil, logger)
}

func writeIssues(w http.ResponseWriter, r *http.Request, status int, message string, issues []lineup.Issue, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get("X-Request-ID")
	}
	writeJSON(w, status, errorBody{Error: message, RequestID: reqID, Issues: issues}, logger)
}

// writeServiceError maps service sentinel errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	switch {
	case errors.Is(err, lineups.ErrTeamNotFound):
		writeError(w, r, http.StatusNotFound, "team not found", logger)
	case errors.Is(err, lineups.ErrLineupNotFound):
		writeError(w, r, http.StatusNotFound, "no lineup for team", logger)
	case errors.Is(err, lineups.ErrInvalidTeam), errors.Is(err, lineups.ErrInvalidDate):
		writeError(w, r, http.StatusBadRequest, err.Error(), logger)
	case errors.Is(err, lineups.ErrNoArchive):
		writeError(w, r, http.StatusNotFound, "lineup archive not configured", logger)
	default:
		logging.Error(logger, "request failed", err)
		writeError(w, r, http.StatusInternalServerError, "internal error", logger)
	}
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
