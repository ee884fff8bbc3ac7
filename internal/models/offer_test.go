package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEurosToCents_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		name  string
		euros float64
		want  int64
	}{
		{"exact", 120.00, 12000},
		{"fraction down", 120.004, 12000},
		{"fraction up", 120.006, 12001},
		{"binary artifact", 29.99, 2999},
		{"zero", 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EurosToCents(tc.euros))
		})
	}
}

func TestCheapest_PicksMinimum(t *testing.T) {
	offers := []Offer{
		{ID: "a", PriceEuros: 180},
		{ID: "b", PriceEuros: 120},
		{ID: "c", PriceEuros: 150},
	}

	got, ok := Cheapest(offers)
	assert.True(t, ok)
	assert.Equal(t, "b", got.ID)
	assert.Equal(t, int64(12000), got.PriceCents())
}

func TestCheapest_TieKeepsProviderOrder(t *testing.T) {
	offers := []Offer{
		{ID: "first", PriceEuros: 120},
		{ID: "second", PriceEuros: 120},
	}

	got, ok := Cheapest(offers)
	assert.True(t, ok)
	assert.Equal(t, "first", got.ID)
}

func TestCheapest_Empty(t *testing.T) {
	_, ok := Cheapest(nil)
	assert.False(t, ok)
}
