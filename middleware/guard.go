package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Dosada05/tournament-admin/metrics"
	"github.com/Dosada05/tournament-admin/models"
	"github.com/Dosada05/tournament-admin/services"
	"github.com/golang-jwt/jwt/v4"
)

// SessionCookieName is the cookie the login endpoint sets for browser sessions.
const SessionCookieName = "staff_session"

type contextKey string

const identityContextKey contextKey = "staff_identity"

var (
	ErrNoCredentials = errors.New("no session token provided")
	ErrInvalidToken  = errors.New("invalid or expired session token")
)

// Identity is the authenticated staff member behind a request.
type Identity struct {
	Username string           `json:"username"`
	Role     models.StaffRole `json:"role"`
}

// Guard decides whether a request carries valid staff credentials.
// It is always enforced; there is no environment switch.
type Guard struct {
	secret []byte
}

func NewGuard(jwtSecret []byte) *Guard {
	return &Guard{secret: jwtSecret}
}

// IsAuthorized has no side effects.
func (g *Guard) IsAuthorized(r *http.Request) bool {
	_, err := g.Identify(r)
	return err == nil
}

func (g *Guard) Identify(r *http.Request) (*Identity, error) {
	tokenString := tokenFromRequest(r)
	if tokenString == "" {
		return nil, ErrNoCredentials
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	// jwt v4 пропускает токены без exp, нам такие не нужны.
	if !claims.VerifyExpiresAt(jwt.TimeFunc().Unix(), true) {
		return nil, ErrInvalidToken
	}

	subject, _ := claims[services.ClaimSubject].(string)
	roleClaim, _ := claims[services.ClaimRole].(string)
	role := models.StaffRole(roleClaim)
	if subject == "" || !role.Valid() {
		return nil, ErrInvalidToken
	}
	return &Identity{Username: subject, Role: role}, nil
}

func tokenFromRequest(r *http.Request) string {
	// Other schemes (Basic from a proxy, say) leave the session cookie in charge.
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// RequireStaff rejects the request with 401 before any handler runs, otherwise it
// stores the caller's Identity in the request context.
func (g *Guard) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := g.Identify(r)
		if err != nil {
			metrics.GuardRejections.Inc()
			writeUnauthorized(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(*Identity)
	return identity, ok && identity != nil
}

func writeUnauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="staff"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
