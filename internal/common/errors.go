// Package common defines shared sentinel errors used across the worker and
// API layers of flightwatch. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Validation errors surfaced by the API layer.
	ErrInvalidRoute      = errors.New("invalid route")
	ErrInvalidDateWindow = errors.New("invalid date window")
	ErrInvalidTarget     = errors.New("invalid target price")
)
