package domain

import (
	"errors"
	"time"
)

// Authentication / authorization sentinels. The HTTP error handler maps these
// to status codes; services never speak HTTP.
var ErrMissingToken = errors.New("authentication token missing")
var ErrInvalidOrExpiredToken = errors.New("token invalid or expired")
var ErrTokenRevoked = errors.New("token revoked")
var ErrPermissionDenied = errors.New("permission denied")

// BlacklistEntry records a refresh token that must never be honored again.
type BlacklistEntry struct {
	Token         string    `json:"token"`
	BlacklistedAt time.Time `json:"blacklisted_at"`
}

// ValidationError aggregates every failed field of a request body. It is not
// fail-fast: all violations are reported in one response.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// NewValidationError builds a ValidationError from field→message pairs.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}
