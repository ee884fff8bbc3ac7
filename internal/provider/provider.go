// Package provider implements the flight price source. The worker only
// depends on the PriceSource interface; the concrete client talks to the
// Kiwi.com cheap-flights API through RapidAPI.
package provider

import (
	"context"
	"errors"
	"time"

	"flightwatch/internal/models"
)

var (
	// ErrAuthRequired means the API key is missing or rejected.
	ErrAuthRequired = errors.New("provider auth required")
	// ErrRateLimited means the provider throttled us this call.
	ErrRateLimited = errors.New("provider rate limited")
	// ErrTransient covers timeouts, 5xx and network-level failures.
	ErrTransient = errors.New("provider transient failure")
)

// Query describes one price search. DateTo, MaxStops and the airline lists
// are optional constraints.
type Query struct {
	Origin          string
	Destination     string
	DateFrom        time.Time
	DateTo          *time.Time
	MaxStops        *int
	AirlinesInclude []string
	AirlinesExclude []string
	Limit           int
}

// PriceSource searches offers for a route/date pair. An empty result is a
// valid non-error outcome; errors indicate the search itself failed.
type PriceSource interface {
	Search(ctx context.Context, q Query) ([]models.Offer, error)
}
