package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dosada05/tournament-admin/models"
	"github.com/Dosada05/tournament-admin/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

// Start обрабатывает PATCH /matches/start
func (h *MatchHandler) Start(w http.ResponseWriter, r *http.Request) {
	var input struct {
		MatchID int `json:"match_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := requiredID("match_id", input.MatchID); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.matchService.Start(r.Context(), input.MatchID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, okResponse, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Finish обрабатывает PATCH /matches/finish. Счёт должен быть JSON-массивом и сохраняется как есть.
func (h *MatchHandler) Finish(w http.ResponseWriter, r *http.Request) {
	var input struct {
		MatchID int             `json:"match_id"`
		Score   json.RawMessage `json:"score"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := requiredID("match_id", input.MatchID); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	score, err := models.ParseScore(input.Score)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.matchService.Finish(r.Context(), input.MatchID, score); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, okResponse, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListByTournament обрабатывает GET /tournaments/{tournamentID}/matches
func (h *MatchHandler) ListByTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matches, err := h.matchService.ListByTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"items": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
