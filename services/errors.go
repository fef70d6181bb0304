package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ошибки валидации
	ErrValidationFailed        = errors.New("validation failed")
	ErrInvalidTournamentStatus = errors.New("invalid tournament status provided")
	ErrTourRequired            = errors.New("tour is required")

	// Ошибки конфликтов и переходов состояний
	ErrTournamentFull         = errors.New("tournament registration is full")
	ErrRegistrationConflict   = errors.New("team is already registered for this tournament")
	ErrInvalidMatchTransition = errors.New("match cannot move to the requested state")
	ErrMatchesInProgress      = errors.New("tournament already has started or finished matches")

	// Ошибки аутентификации
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrTournamentNotFound = errors.New("tournament not found")

	// Внешние зависимости
	ErrStorageDisabled = errors.New("file storage is not configured")
)
