// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harrytothemoon/lbet/internal/adapters/betlog"
	"github.com/harrytothemoon/lbet/internal/adapters/sheets"
	"github.com/harrytothemoon/lbet/internal/app"
	"github.com/harrytothemoon/lbet/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// CurrentWeek returns the activity week containing the present instant.
	CurrentWeek() int

	// WeekRankings returns the ranking snapshot for week.
	WeekRankings(ctx context.Context, week int) (model.WeekRankingResult, error)

	// PlayerQuery answers a player's rank-and-points question for week.
	PlayerQuery(ctx context.Context, playerID string, week int) (*app.PlayerResult, error)
}

// StatsProvider exposes service statistics for monitoring.
type StatsProvider interface {
	Stats() map[string]interface{}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	rankingsHandler *RankingsHandler
	playerHandler   *PlayerHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		rankingsHandler: NewRankingsHandler(deps),
		playerHandler:   NewPlayerHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/rankings", MetricsMiddleware(s.rankingsHandler.HandleGetRankings, "rankings"))
	mux.HandleFunc("/player/", MetricsMiddleware(s.playerHandler.HandleGetPlayer, "player"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates service errors to HTTP statuses: "no data"
// outcomes become 404, upstream fetch failures 502, bad weeks 400.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case app.IsNotFound(err):
		writeError(w, http.StatusNotFound, "no_data", err)
	case errors.Is(err, app.ErrUnknownWeek):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, sheets.ErrFetch), errors.Is(err, betlog.ErrFetch):
		writeError(w, http.StatusBadGateway, "upstream_error", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
