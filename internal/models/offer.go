package models

import (
	"math"
	"time"
)

// Offer is one itinerary returned by the price provider, already reduced to
// the fields the worker and notifications care about. PriceEuros is the
// provider's decimal amount; comparisons always go through PriceCents.
type Offer struct {
	ID            string    `json:"id"`
	PriceEuros    float64   `json:"price_euros"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime string    `json:"departure_time,omitempty"`
	ArrivalTime   string    `json:"arrival_time,omitempty"`
	Airlines      []string  `json:"airlines"`
	Stops         int       `json:"stops"`
	Duration      string    `json:"duration,omitempty"`
	BookingLink   string    `json:"booking_link,omitempty"`
	CabinClass    string    `json:"cabin_class,omitempty"`
	FlightNumber  string    `json:"flight_number,omitempty"`
	FoundAt       time.Time `json:"found_at"`
}

// PriceCents converts the provider's float amount to integer minor units,
// rounding half up. All target comparisons and stored prices use this value.
func (o Offer) PriceCents() int64 {
	return EurosToCents(o.PriceEuros)
}

// EurosToCents rounds a decimal euro amount half up to cents.
func EurosToCents(euros float64) int64 {
	return int64(math.Floor(euros*100 + 0.5))
}

// CentsToEuros is the inverse conversion, used for display only.
func CentsToEuros(cents int64) float64 {
	return float64(cents) / 100
}

// Cheapest returns the lowest-priced offer, breaking ties by keeping the
// first one in provider order. ok is false for an empty slice.
func Cheapest(offers []Offer) (cheapest Offer, ok bool) {
	if len(offers) == 0 {
		return Offer{}, false
	}
	cheapest = offers[0]
	for _, o := range offers[1:] {
		if o.PriceCents() < cheapest.PriceCents() {
			cheapest = o
		}
	}
	return cheapest, true
}
