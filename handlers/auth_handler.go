package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-admin/middleware"
	"github.com/Dosada05/tournament-admin/services"
)

type AuthHandler struct {
	authService  services.AuthService
	secureCookie bool
}

func NewAuthHandler(authService services.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

// Login обрабатывает POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	session, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	if err := writeJSON(w, http.StatusOK, session, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Logout обрабатывает POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	if err := writeJSON(w, http.StatusOK, okResponse, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Me обрабатывает GET /auth/me. Маршрут закрыт RequireStaff.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"identity": identity}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
