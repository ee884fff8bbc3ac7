// Package models contains the persistent entities shared by the worker and
// the HTTP API: users, alerts, price snapshots and notification records.
package models

import (
	"fmt"
	"time"

	"flightwatch/internal/common"
)

// Alert is a standing watch request: a route and date window to monitor,
// optionally bounded by a target price in cents.
//
// ChatID is the owner's Telegram chat id, joined in when alerts are loaded
// for evaluation. The worker never mutates an Alert; all writes go through
// the CRUD API.
type Alert struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"user_id"`
	Origin           string     `json:"origin"`
	Destination      string     `json:"destination"`
	DateFrom         time.Time  `json:"date_from"`
	DateTo           *time.Time `json:"date_to,omitempty"`
	PriceTargetCents *int64     `json:"price_target_cents,omitempty"`
	MaxStops         *int       `json:"max_stops,omitempty"`
	AirlinesInclude  []string   `json:"airlines_include,omitempty"`
	AirlinesExclude  []string   `json:"airlines_exclude,omitempty"`
	Active           bool       `json:"active"`
	CreatedAt        time.Time  `json:"created_at"`
	ChatID           int64      `json:"-"`
}

// Validate checks the invariants enforced on alert creation: a valid
// three-letter route with distinct endpoints, a departure date not in the
// past, a return date strictly after departure, and a positive target price
// when one is set.
func (a *Alert) Validate(now time.Time) error {
	if !validIATACode(a.Origin) || !validIATACode(a.Destination) {
		return fmt.Errorf("%w: airport codes must be 3 uppercase letters", common.ErrInvalidRoute)
	}
	if a.Origin == a.Destination {
		return fmt.Errorf("%w: origin and destination must differ", common.ErrInvalidRoute)
	}
	today := now.Truncate(24 * time.Hour)
	if a.DateFrom.Before(today) {
		return fmt.Errorf("%w: departure date is in the past", common.ErrInvalidDateWindow)
	}
	if a.DateTo != nil && !a.DateTo.After(a.DateFrom) {
		return fmt.Errorf("%w: return date must be after departure", common.ErrInvalidDateWindow)
	}
	if a.PriceTargetCents != nil && *a.PriceTargetCents <= 0 {
		return fmt.Errorf("%w: target must be positive", common.ErrInvalidTarget)
	}
	return nil
}

func validIATACode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
