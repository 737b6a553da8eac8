package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("09:30")

	require.NoError(t, err)
	assert.Equal(t, TimeString("09:30"), ts)
}

func TestValidate_RejectsMalformedInput(t *testing.T) {
	for _, s := range []string{"9:30", "09:60", "24:00", "morning", ""} {
		err := TimeString(s).Validate()
		assert.ErrorIs(t, err, ErrInvalidTimeString, "input %q", s)
	}
}

func TestMinutesFromMidnight(t *testing.T) {
	minutes, err := TimeString("10:45").MinutesFromMidnight()

	require.NoError(t, err)
	assert.Equal(t, 645, minutes)
}

func TestAddMinutes(t *testing.T) {
	ts, err := TimeString("09:30").AddMinutes(45)

	require.NoError(t, err)
	assert.Equal(t, TimeString("10:15"), ts)
}

func TestAddMinutes_PastMidnight(t *testing.T) {
	_, err := TimeString("23:30").AddMinutes(60)

	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestOnDate(t *testing.T) {
	date := time.Date(2026, 3, 16, 15, 42, 7, 0, time.UTC)

	at, err := TimeString("09:30").OnDate(date)

	require.NoError(t, err)
	// Часы и минуты даты игнорируются, остаются только день и таймзона
	assert.Equal(t, time.Date(2026, 3, 16, 9, 30, 0, 0, time.UTC), at)
}

func TestIsBeforeIsAfter(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("17:00"))
	assert.False(t, TimeString("17:00").IsBefore("09:00"))
	assert.True(t, TimeString("17:00").IsAfter("09:00"))
	assert.False(t, TimeString("09:00").IsAfter("09:00"))
}

func TestScan_TruncatesSeconds(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan("09:30:00"))
	assert.Equal(t, TimeString("09:30"), ts)
}

func TestScan_TimeValue(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan(time.Date(2000, 1, 1, 14, 15, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("14:15"), ts)
}

func TestValue_ValidatesBeforeWrite(t *testing.T) {
	_, err := TimeString("25:00").Value()
	assert.ErrorIs(t, err, ErrInvalidTimeString)

	v, err := TimeString("08:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "08:00", v)
}
