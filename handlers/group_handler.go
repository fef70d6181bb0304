package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-admin/services"
)

type GroupHandler struct {
	groupService services.GroupService
}

func NewGroupHandler(gs services.GroupService) *GroupHandler {
	return &GroupHandler{groupService: gs}
}

type tournamentRequest struct {
	TournamentID int `json:"tournament_id"`
}

func (h *GroupHandler) readTournamentRequest(w http.ResponseWriter, r *http.Request) (int, bool) {
	var input tournamentRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return 0, false
	}
	if err := requiredID("tournament_id", input.TournamentID); err != nil {
		badRequestResponse(w, r, err)
		return 0, false
	}
	return input.TournamentID, true
}

// Assign обрабатывает POST /groups/assign
func (h *GroupHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TournamentID int `json:"tournament_id"`
		GroupCount   int `json:"group_count"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := requiredID("tournament_id", input.TournamentID); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := requiredID("group_count", input.GroupCount); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	groups, err := h.groupService.Assign(r.Context(), input.TournamentID, input.GroupCount)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"ok": true, "groups": groups}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Reset обрабатывает POST /groups/reset
func (h *GroupHandler) Reset(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := h.readTournamentRequest(w, r)
	if !ok {
		return
	}
	if err := h.groupService.Reset(r.Context(), tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, okResponse, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GenerateMatches обрабатывает POST /groups/generate-matches
func (h *GroupHandler) GenerateMatches(w http.ResponseWriter, r *http.Request) {
	tournamentID, ok := h.readTournamentRequest(w, r)
	if !ok {
		return
	}
	created, err := h.groupService.GenerateMatches(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"ok": true, "created": created}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Board обрабатывает GET /tournaments/{tournamentID}/groups
func (h *GroupHandler) Board(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	groups, err := h.groupService.Board(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"items": groups}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
