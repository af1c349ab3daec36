package handlers

import (
	"net/http"

	"github.com/Dosada05/livescore/models"
	"github.com/Dosada05/livescore/repositories"
	"github.com/Dosada05/livescore/services"
)

type MatchHandler struct {
	matches   services.MatchService
	standings services.StandingsService
}

func NewMatchHandler(matches services.MatchService, standings services.StandingsService) *MatchHandler {
	return &MatchHandler{matches: matches, standings: standings}
}

func (h *MatchHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	var filter repositories.GameFilter
	q := r.URL.Query()

	if raw := q.Get("status"); raw != "" {
		status := models.GameStatus(raw)
		if !status.Valid() {
			failedValidationResponse(w, r, "invalid status filter")
			return
		}
		filter.Status = &status
	}
	if raw := q.Get("sport"); raw != "" {
		sport := models.Sport(raw)
		if !sport.Valid() {
			failedValidationResponse(w, r, "invalid sport filter")
			return
		}
		filter.Sport = &sport
	}

	games, err := h.matches.ListMatches(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if games == nil {
		games = []*models.Game{}
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": games}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	detail, err := h.matches.MatchDetail(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": detail}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// LiveUpdate отдает табло баскетбольного матча; ?last=N ограничивает ленту событий.
func (h *MatchHandler) LiveUpdate(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	last, err := queryInt(r, "last")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	live, err := h.matches.LiveUpdate(r.Context(), gameID, last)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, live, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) Standings(w http.ResponseWriter, r *http.Request) {
	var sport *models.Sport
	if raw := r.URL.Query().Get("sport"); raw != "" {
		s := models.Sport(raw)
		sport = &s
	}

	table, err := h.standings.Standings(r.Context(), sport)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if table == nil {
		table = []models.TeamStanding{}
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": table}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) PlayerLeaderboard(w http.ResponseWriter, r *http.Request) {
	leaders, err := h.standings.PlayerLeaderboard(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if leaders == nil {
		leaders = []models.PlayerLeader{}
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": leaders}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
