package conflicts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	"github.com/m04kA/HSP-SchedulingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubRepo struct {
	bookings []*domain.Booking
	fromSeen time.Time
	toSeen   time.Time
}

func (s *stubRepo) GetInWindow(_ context.Context, _ int64, from, to time.Time, _ []domain.BookingStatus) ([]*domain.Booking, error) {
	s.fromSeen = from
	s.toSeen = to
	return s.bookings, nil
}

func booking(id int64, start time.Time, durationMinutes int, status domain.BookingStatus, homeVisit bool) *domain.Booking {
	return &domain.Booking{
		ID:              id,
		TenantID:        1,
		CustomerID:      10,
		ServiceID:       100,
		ScheduledAt:     start,
		DurationMinutes: durationMinutes,
		Status:          status,
		IsHomeVisit:     homeVisit,
	}
}

var baseTime = time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)

func TestCheckAgainst_NoBookings(t *testing.T) {
	d := NewDetector(&stubRepo{}, nopLogger{})

	conflict := d.CheckAgainst(nil, CheckInput{
		TenantID:        1,
		StartAt:         baseTime,
		DurationMinutes: 60,
	})

	assert.False(t, conflict.HasConflict)
}

func TestCheckAgainst_DirectOverlap(t *testing.T) {
	d := NewDetector(&stubRepo{}, nopLogger{})
	existing := []*domain.Booking{
		booking(1, baseTime, 60, domain.StatusConfirmed, false),
	}

	// Кандидат начинается в середине существующего бронирования
	conflict := d.CheckAgainst(existing, CheckInput{
		TenantID:        1,
		StartAt:         baseTime.Add(30 * time.Minute),
		DurationMinutes: 60,
	})

	require.True(t, conflict.HasConflict)
	assert.Equal(t, domain.ConflictReasonTimeOverlap, conflict.Reason)
	assert.Equal(t, []int64{1}, conflict.ConflictingIDs())
}

func TestCheckAgainst_BackToBackDoesNotConflict(t *testing.T) {
	d := NewDetector(&stubRepo{}, nopLogger{})
	existing := []*domain.Booking{
		booking(1, baseTime, 60, domain.StatusConfirmed, false),
	}

	// Кандидат начинается ровно в момент окончания существующего
	conflict := d.CheckAgainst(existing, CheckInput{
		TenantID:        1,
		StartAt:         baseTime.Add(60 * time.Minute),
		DurationMinutes: 60,
	})

	assert.False(t, conflict.HasConflict)
}

func TestCheckAgainst_TravelBufferTooSmall(t *testing.T) {
	d := NewDetector(&stubRepo{}, nopLogger{})
	existing := []*domain.Booking{
		booking(1, baseTime, 60, domain.StatusConfirmed, true),
	}

	// Зазор 15 минут при буфере 30 минут
	conflict := d.CheckAgainst(existing, CheckInput{
		TenantID:            1,
		StartAt:             baseTime.Add(75 * time.Minute),
		DurationMinutes:     60,
		TravelBufferMinutes: 30,
	})

	require.True(t, conflict.HasConflict)
	assert.Equal(t, domain.ConflictReasonTravelBuffer, conflict.Reason)
}

func TestCheckAgainst_GapEqualToBufferAccepted(t *testing.T) {
	d := NewDetector(&stubRepo{}, nopLogger{})
	existing := []*domain.Booking{
		booking(1, baseTime, 60, domain.StatusConfirmed, true),
	}

	// Зазор ровно 30 минут при буфере 30 минут - достаточно
	conflict := d.CheckAgainst(existing, CheckInput{
		TenantID:            1,
		StartAt:             baseTime.Add(90 * time.Minute),
		DurationMinutes:     60,
		TravelBufferMinutes: 30,
	})

	assert.False(t, conflict.HasConflict)
}

func TestCheckAgainst_BufferAppliesWhenCandidateIsHomeVisit(t *testing.T) {
	d := NewDetector(&stubRepo{}, nopLogger{})
	existing := []*domain.Booking{
		booking(1, baseTime, 60, domain.StatusConfirmed, false),
	}

	conflict := d.CheckAgainst(existing, CheckInput{
		TenantID:            1,
		StartAt:             baseTime.Add(70 * time.Minute),
		DurationMinutes:     60,
		IsHomeVisit:         true,
		TravelBufferMinutes: 30,
	})

	require.True(t, conflict.HasConflict)
	assert.Equal(t, domain.ConflictReasonTravelBuffer, conflict.Reason)
}

func TestCheckAgainst_NoBufferForInHouseBookings(t *testing.T) {
	d := NewDetector(&stubRepo{}, nopLogger{})
	existing := []*domain.Booking{
		booking(1, baseTime, 60, domain.StatusConfirmed, false),
	}

	// Оба бронирования в салоне - буфер не требуется
	conflict := d.CheckAgainst(existing, CheckInput{
		TenantID:            1,
		StartAt:             baseTime.Add(60 * time.Minute),
		DurationMinutes:     60,
		TravelBufferMinutes: 30,
	})

	assert.False(t, conflict.HasConflict)
}

func TestCheckAgainst_BufferBeforeExistingBooking(t *testing.T) {
	d := NewDetector(&stubRepo{}, nopLogger{})
	existing := []*domain.Booking{
		booking(1, baseTime.Add(2*time.Hour), 60, domain.StatusConfirmed, true),
	}

	// Кандидат заканчивается за 15 минут до начала выездного визита
	conflict := d.CheckAgainst(existing, CheckInput{
		TenantID:            1,
		StartAt:             baseTime.Add(45 * time.Minute),
		DurationMinutes:     60,
		TravelBufferMinutes: 30,
	})

	require.True(t, conflict.HasConflict)
	assert.Equal(t, domain.ConflictReasonTravelBuffer, conflict.Reason)
}

func TestCheckAgainst_OverlapReasonWinsOverBuffer(t *testing.T) {
	d := NewDetector(&stubRepo{}, nopLogger{})
	existing := []*domain.Booking{
		booking(1, baseTime, 60, domain.StatusConfirmed, true),
		booking(2, baseTime.Add(105*time.Minute), 60, domain.StatusConfirmed, true),
	}

	// Пересечение с первым и нехватка буфера до второго
	conflict := d.CheckAgainst(existing, CheckInput{
		TenantID:            1,
		StartAt:             baseTime.Add(30 * time.Minute),
		DurationMinutes:     60,
		TravelBufferMinutes: 30,
	})

	require.True(t, conflict.HasConflict)
	assert.Equal(t, domain.ConflictReasonTimeOverlap, conflict.Reason)
	assert.Equal(t, []int64{1, 2}, conflict.ConflictingIDs())
}

func TestCheckAgainst_ExcludesBookingByID(t *testing.T) {
	d := NewDetector(&stubRepo{}, nopLogger{})
	existing := []*domain.Booking{
		booking(7, baseTime, 60, domain.StatusConfirmed, false),
	}

	// Перенос бронирования на то же время не конфликтует с самим собой
	conflict := d.CheckAgainst(existing, CheckInput{
		TenantID:         1,
		StartAt:          baseTime,
		DurationMinutes:  60,
		ExcludeBookingID: ptr.Ptr(int64(7)),
	})

	assert.False(t, conflict.HasConflict)
}

func TestCheckAgainst_IgnoresCancelledBookings(t *testing.T) {
	d := NewDetector(&stubRepo{}, nopLogger{})
	existing := []*domain.Booking{
		booking(1, baseTime, 60, domain.StatusCancelled, false),
		booking(2, baseTime, 60, domain.StatusCompleted, false),
	}

	conflict := d.CheckAgainst(existing, CheckInput{
		TenantID:        1,
		StartAt:         baseTime,
		DurationMinutes: 60,
	})

	assert.False(t, conflict.HasConflict)
}

func TestCheckAgainst_StatusFilter(t *testing.T) {
	d := NewDetector(&stubRepo{}, nopLogger{})
	existing := []*domain.Booking{
		booking(1, baseTime, 60, domain.StatusPending, false),
	}

	// При проверке только confirmed pending-бронирование не блокирует
	conflict := d.CheckAgainst(existing, CheckInput{
		TenantID:        1,
		StartAt:         baseTime,
		DurationMinutes: 60,
		Statuses:        domain.SlotBlockingStatuses,
	})
	assert.False(t, conflict.HasConflict)

	// Со статусами по умолчанию (pending + confirmed) - блокирует
	conflict = d.CheckAgainst(existing, CheckInput{
		TenantID:        1,
		StartAt:         baseTime,
		DurationMinutes: 60,
	})
	assert.True(t, conflict.HasConflict)
}

func TestCheck_LoadsScanWindowAroundCandidate(t *testing.T) {
	repo := &stubRepo{}
	d := NewDetector(repo, nopLogger{})

	conflict, err := d.Check(context.Background(), CheckInput{
		TenantID:        1,
		StartAt:         baseTime,
		DurationMinutes: 60,
	})

	require.NoError(t, err)
	assert.False(t, conflict.HasConflict)
	assert.Equal(t, baseTime.Add(-domain.ConflictScanWindow), repo.fromSeen)
	assert.Equal(t, baseTime.Add(domain.ConflictScanWindow), repo.toSeen)
}
