package domain

import "errors"

// Sentinel errors shared across services and repositories. Repositories map
// driver-level failures (sql.ErrNoRows, pq unique violations) onto these so
// the delivery layer can translate them to HTTP statuses without inspecting
// driver types.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrRateLimited  = errors.New("rate limited")
)
