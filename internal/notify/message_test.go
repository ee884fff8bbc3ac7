package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"flightwatch/internal/models"
)

func TestBuildAlertMessage_ContainsOfferDetails(t *testing.T) {
	target := int64(15000)
	alert := &models.Alert{
		Origin:           "MAD",
		Destination:      "BCN",
		DateFrom:         time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		PriceTargetCents: &target,
	}
	offer := models.Offer{
		PriceEuros:  120.00,
		Airlines:    []string{"Vueling"},
		Duration:    "PT1H20M",
		Stops:       0,
		BookingLink: "https://kiwi.com/booking?token=xyz",
	}

	msg := BuildAlertMessage(alert, offer)

	assert.Contains(t, msg, "MAD → BCN")
	assert.Contains(t, msg, "01/10/2026")
	assert.Contains(t, msg, "120.00€")
	assert.Contains(t, msg, "150.00€")
	assert.Contains(t, msg, "Vueling")
	assert.Contains(t, msg, "PT1H20M")
	assert.Contains(t, msg, "https://kiwi.com/booking?token=xyz")
}

func TestBuildAlertMessage_NoTargetLineWithoutTarget(t *testing.T) {
	alert := &models.Alert{
		Origin:      "MAD",
		Destination: "BCN",
		DateFrom:    time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}
	msg := BuildAlertMessage(alert, models.Offer{PriceEuros: 99.5, Airlines: []string{"Iberia"}})

	assert.NotContains(t, msg, "objetivo")
	assert.Contains(t, msg, "99.50€")
}
