package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightwatch/internal/common"
)

func validAlert(now time.Time) *Alert {
	target := int64(15000)
	return &Alert{
		Origin:           "MAD",
		Destination:      "BCN",
		DateFrom:         now.AddDate(0, 1, 0),
		PriceTargetCents: &target,
		Active:           true,
	}
}

func TestAlertValidate_OK(t *testing.T) {
	now := time.Now()
	require.NoError(t, validAlert(now).Validate(now))
}

func TestAlertValidate_Route(t *testing.T) {
	now := time.Now()

	a := validAlert(now)
	a.Origin = "mad"
	assert.ErrorIs(t, a.Validate(now), common.ErrInvalidRoute)

	a = validAlert(now)
	a.Destination = "BCNX"
	assert.ErrorIs(t, a.Validate(now), common.ErrInvalidRoute)

	a = validAlert(now)
	a.Destination = a.Origin
	assert.ErrorIs(t, a.Validate(now), common.ErrInvalidRoute)
}

func TestAlertValidate_DateWindow(t *testing.T) {
	now := time.Now()

	a := validAlert(now)
	a.DateFrom = now.AddDate(0, 0, -1)
	assert.ErrorIs(t, a.Validate(now), common.ErrInvalidDateWindow)

	a = validAlert(now)
	ret := a.DateFrom // same day as departure
	a.DateTo = &ret
	assert.ErrorIs(t, a.Validate(now), common.ErrInvalidDateWindow)

	a = validAlert(now)
	ret = a.DateFrom.AddDate(0, 0, 7)
	a.DateTo = &ret
	assert.NoError(t, a.Validate(now))
}

func TestAlertValidate_Target(t *testing.T) {
	now := time.Now()

	a := validAlert(now)
	zero := int64(0)
	a.PriceTargetCents = &zero
	assert.ErrorIs(t, a.Validate(now), common.ErrInvalidTarget)

	// No target at all is allowed: the alert only records history then.
	a = validAlert(now)
	a.PriceTargetCents = nil
	assert.NoError(t, a.Validate(now))
}
