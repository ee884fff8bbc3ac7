package models

import "time"

// NotificationRecord is proof that a price alert was delivered. Records are
// written only after the Telegram send succeeded and are what the
// suppression window is enforced against.
type NotificationRecord struct {
	ID         int64     `json:"id"`
	AlertID    int64     `json:"alert_id"`
	PriceCents int64     `json:"price_cents"`
	SentAt     time.Time `json:"sent_at"`
}
