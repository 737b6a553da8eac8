package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	"github.com/m04kA/HSP-SchedulingService/internal/service/conflicts"
	"github.com/m04kA/HSP-SchedulingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	testDate = time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	testNow  = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
)

func openWindow(open, close string) domain.BusinessWindow {
	return domain.BusinessWindow{
		IsOpen:    true,
		OpenTime:  types.TimeString(open),
		CloseTime: types.TimeString(close),
	}
}

func TestGenerateSlotStarts_BasicGrid(t *testing.T) {
	starts, err := generateSlotStarts(openWindow("09:00", "12:00"), 30, 60, testDate, testNow, 0)

	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{
		"09:00", "09:30", "10:00", "10:30", "11:00",
	}, starts)
}

func TestGenerateSlotStarts_LastSlotMustFitBeforeClose(t *testing.T) {
	// Услуга 90 минут: слот 10:30 закончился бы в 12:00 - помещается,
	// слот 11:00 - уже нет
	starts, err := generateSlotStarts(openWindow("09:00", "12:00"), 30, 90, testDate, testNow, 0)

	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{
		"09:00", "09:30", "10:00", "10:30",
	}, starts)
}

func TestGenerateSlotStarts_ServiceLongerThanWindow(t *testing.T) {
	starts, err := generateSlotStarts(openWindow("09:00", "10:00"), 30, 120, testDate, testNow, 0)

	require.NoError(t, err)
	assert.Empty(t, starts)
}

func TestGenerateSlotStarts_PastDateGivesEmptyGrid(t *testing.T) {
	yesterday := testNow.AddDate(0, 0, -1)

	starts, err := generateSlotStarts(openWindow("09:00", "17:00"), 30, 60, yesterday, testNow, 0)

	require.NoError(t, err)
	assert.Empty(t, starts)
}

func TestGenerateSlotStarts_TodayFiltersByNotice(t *testing.T) {
	// Сейчас 12:00, уведомление 60 минут - слоты раньше 13:00 отбрасываются
	now := time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)

	starts, err := generateSlotStarts(openWindow("09:00", "17:00"), 60, 60, testDate, now, 60)

	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{
		"13:00", "14:00", "15:00", "16:00",
	}, starts)
}

func TestGenerateSlotStarts_TodayNoticePastMidnight(t *testing.T) {
	// Уведомление уводит за полночь - сегодня слотов нет
	now := time.Date(2026, 3, 16, 23, 30, 0, 0, time.UTC)

	starts, err := generateSlotStarts(openWindow("09:00", "17:00"), 30, 60, testDate, now, 120)

	require.NoError(t, err)
	assert.Empty(t, starts)
}

func TestAnnotateSlots_ConfirmedBookingBlocksSlot(t *testing.T) {
	detector := conflicts.NewDetector(nil, nopLogger{})
	bookings := []*domain.Booking{
		{
			ID:              5,
			TenantID:        1,
			ScheduledAt:     time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC),
			DurationMinutes: 60,
			Status:          domain.StatusConfirmed,
		},
	}

	slots, err := annotateSlots(detector, []types.TimeString{"09:00", "10:00", "11:00"},
		bookings, 1, testDate, 60, false, 0)

	require.NoError(t, err)
	require.Len(t, slots, 3)

	assert.True(t, slots[0].Available)
	assert.Nil(t, slots[0].ConflictingBookingID)

	assert.False(t, slots[1].Available)
	require.NotNil(t, slots[1].ConflictingBookingID)
	assert.Equal(t, int64(5), *slots[1].ConflictingBookingID)

	assert.True(t, slots[2].Available)
}

func TestAnnotateSlots_PendingBookingDoesNotBlock(t *testing.T) {
	detector := conflicts.NewDetector(nil, nopLogger{})
	bookings := []*domain.Booking{
		{
			ID:              5,
			TenantID:        1,
			ScheduledAt:     time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC),
			DurationMinutes: 60,
			Status:          domain.StatusPending,
		},
	}

	slots, err := annotateSlots(detector, []types.TimeString{"10:00"},
		bookings, 1, testDate, 60, false, 0)

	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.True(t, slots[0].Available)
}

func TestAnnotateSlots_HomeVisitBufferBlocksAdjacentSlot(t *testing.T) {
	detector := conflicts.NewDetector(nil, nopLogger{})
	bookings := []*domain.Booking{
		{
			ID:              5,
			TenantID:        1,
			ScheduledAt:     time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC),
			DurationMinutes: 60,
			Status:          domain.StatusConfirmed,
			IsHomeVisit:     true,
		},
	}

	// Слот 11:00 стык-в-стык: без буфера свободен, с буфером 30 минут занят
	slots, err := annotateSlots(detector, []types.TimeString{"11:00", "11:30"},
		bookings, 1, testDate, 60, true, 30)

	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.False(t, slots[0].Available)
	assert.True(t, slots[1].Available)
}
