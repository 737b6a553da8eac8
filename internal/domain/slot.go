package domain

import "github.com/m04kA/HSP-SchedulingService/pkg/types"

// TimeSlot represents a candidate appointment start time within business hours
// Derived, never persisted
type TimeSlot struct {
	StartTime       types.TimeString
	DurationMinutes int
	Available       bool
	// ConflictingBookingID id первого блокирующего бронирования (если слот занят)
	ConflictingBookingID *int64
}
