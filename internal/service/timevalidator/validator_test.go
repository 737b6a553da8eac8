package timevalidator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)

func TestValidate_TimeInPast(t *testing.T) {
	v := NewValidator()

	err := v.Validate(now.Add(-time.Minute), now, 0, 0)

	assert.ErrorIs(t, err, ErrTimeInPast)
}

func TestValidate_TooSoon(t *testing.T) {
	v := NewValidator()

	// Запас 59 минут при требуемых 60
	err := v.Validate(now.Add(59*time.Minute), now, 60, 0)

	assert.ErrorIs(t, err, ErrTooSoon)
}

func TestValidate_LeadEqualToNoticeAccepted(t *testing.T) {
	v := NewValidator()

	err := v.Validate(now.Add(60*time.Minute), now, 60, 0)

	assert.NoError(t, err)
}

func TestValidate_TooFarAhead(t *testing.T) {
	v := NewValidator()

	err := v.Validate(now.AddDate(0, 0, 91), now, 0, 90)

	assert.ErrorIs(t, err, ErrTooFarAhead)
}

func TestValidate_ZeroAdvanceDaysMeansUnlimited(t *testing.T) {
	v := NewValidator()

	err := v.Validate(now.AddDate(2, 0, 0), now, 0, 0)

	assert.NoError(t, err)
}

func TestValidate_WithinHorizon(t *testing.T) {
	v := NewValidator()

	err := v.Validate(now.AddDate(0, 0, 30), now, 60, 90)

	assert.NoError(t, err)
}
