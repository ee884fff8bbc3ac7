package models

import (
	"encoding/json"
	"time"
)

// Snapshot is one immutable price observation for an alert. PriceCents is
// nil when the search failed or returned no offers for that cycle; Details
// carries the winning offer (or a no-result marker) as raw JSON.
type Snapshot struct {
	ID         int64           `json:"id"`
	AlertID    int64           `json:"alert_id"`
	PriceCents *int64          `json:"price_cents"`
	FoundAt    time.Time       `json:"found_at"`
	Details    json.RawMessage `json:"details,omitempty"`
}

// NoResultMarker is stored as the snapshot details payload when a cycle
// found no offers, so price-history consumers can tell "nothing found"
// apart from "found but above target".
var NoResultMarker = json.RawMessage(`{"status":"no result"}`)
