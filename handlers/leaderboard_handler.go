package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Dosada05/tournament-admin/services"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(ls services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: ls}
}

// ListTours обрабатывает GET /leaderboard/snapshots/tours
func (h *LeaderboardHandler) ListTours(w http.ResponseWriter, r *http.Request) {
	tours, err := h.leaderboardService.ListTours(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tours": tours}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListByTour обрабатывает GET /leaderboard/snapshots?tour=
func (h *LeaderboardHandler) ListByTour(w http.ResponseWriter, r *http.Request) {
	tour := strings.TrimSpace(r.URL.Query().Get("tour"))
	if tour == "" {
		badRequestResponse(w, r, errors.New("tour query parameter is required"))
		return
	}
	items, err := h.leaderboardService.ListByTour(r.Context(), tour)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"items": items}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateSnapshot обрабатывает POST /leaderboard/snapshots
func (h *LeaderboardHandler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Tour      string          `json:"tour"`
		Standings json.RawMessage `json:"standings"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if strings.TrimSpace(input.Tour) == "" {
		badRequestResponse(w, r, services.ErrTourRequired)
		return
	}
	if len(input.Standings) == 0 {
		badRequestResponse(w, r, errors.New("standings are required"))
		return
	}

	snapshot, err := h.leaderboardService.CreateSnapshot(r.Context(), input.Tour, input.Standings)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"snapshot": snapshot}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteTour обрабатывает POST /leaderboard/tours/delete
func (h *LeaderboardHandler) DeleteTour(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Tour string `json:"tour"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if strings.TrimSpace(input.Tour) == "" {
		badRequestResponse(w, r, services.ErrTourRequired)
		return
	}

	if err := h.leaderboardService.DeleteTour(r.Context(), input.Tour); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, okResponse, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
