package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/tournament-admin/services"
)

type RegistrationHandler struct {
	registrationService services.RegistrationService
}

func NewRegistrationHandler(rs services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: rs}
}

// Register обрабатывает POST /tournaments/{tournamentID}/registrations
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		TeamName string `json:"team_name"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	registration, err := h.registrationService.Register(r.Context(), tournamentID, input.TeamName)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"registration": registration}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List обрабатывает GET /tournaments/{tournamentID}/registrations
func (h *RegistrationHandler) List(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	items, err := h.registrationService.List(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"items": items}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Reorder обрабатывает PATCH /reorder. Пустой список допустим, отсутствующий нет.
func (h *RegistrationHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TournamentID           int   `json:"tournament_id"`
		OrderedRegistrationIDs []int `json:"orderedRegistrationIds"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := requiredID("tournament_id", input.TournamentID); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.OrderedRegistrationIDs == nil {
		badRequestResponse(w, r, errors.New("orderedRegistrationIds is required"))
		return
	}

	if err := h.registrationService.Reorder(r.Context(), input.TournamentID, input.OrderedRegistrationIDs); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, okResponse, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
