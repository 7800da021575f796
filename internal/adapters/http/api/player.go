// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
	"strings"
)

// PlayerHandler handles player rank queries.
type PlayerHandler struct {
	deps Dependencies
}

// NewPlayerHandler creates a new player handler.
func NewPlayerHandler(deps Dependencies) *PlayerHandler {
	return &PlayerHandler{deps: deps}
}

// HandleGetPlayer handles GET /player/{player_id}?week=N requests. An
// absent week parameter means the current week.
func (h *PlayerHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	playerID := strings.TrimPrefix(r.URL.Path, "/player/")
	if playerID == "" || strings.Contains(playerID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	week := h.deps.CurrentWeek()
	if weekStr := r.URL.Query().Get("week"); weekStr != "" {
		n, err := strconv.Atoi(weekStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		week = n
	}

	result, err := h.deps.PlayerQuery(r.Context(), playerID, week)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
