package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/tournament-admin/models"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// Имена claims в сессионном токене; middleware читает те же самые.
const (
	ClaimSubject = "sub"
	ClaimRole    = "role"
)

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*Session, error)
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is a signed staff token and what it grants.
type Session struct {
	Token     string           `json:"token"`
	Username  string           `json:"username"`
	Role      models.StaffRole `json:"role"`
	ExpiresAt time.Time        `json:"expires_at"`
}

type AuthConfig struct {
	Username     string
	PasswordHash string
	JWTSecret    []byte
	SessionTTL   time.Duration
}

type authService struct {
	cfg AuthConfig
	now func() time.Time
}

func NewAuthService(cfg AuthConfig) AuthService {
	return &authService{cfg: cfg, now: time.Now}
}

func (s *authService) Login(_ context.Context, input LoginInput) (*Session, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, validationError("username and password are required")
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Username)) == 1
	err := bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(input.Password))
	if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}
	if err != nil || !usernameOK {
		return nil, ErrInvalidCredentials
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.cfg.SessionTTL)
	claims := jwt.MapClaims{
		ClaimSubject: username,
		ClaimRole:    string(models.StaffRoleAdmin),
		"iat":        issuedAt.Unix(),
		"exp":        expiresAt.Unix(),
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Session{
		Token:     tokenString,
		Username:  username,
		Role:      models.StaffRoleAdmin,
		ExpiresAt: expiresAt,
	}, nil
}

// BcryptCost is the cost used for STAFF_PASSWORD_HASH values generated by cmd/hashpassword.
const BcryptCost = 12

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", validationError("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
