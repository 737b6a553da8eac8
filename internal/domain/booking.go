package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// IsValid returns true if the status is one of the known booking statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no further transitions are allowed from the status
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo returns true if the transition s -> next is allowed:
// pending -> confirmed, pending/confirmed -> cancelled, confirmed -> completed
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

// PaymentStatus represents the payment state of a booking
// The engine stores it but performs no payment processing
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// IsValid returns true if the payment status is known
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return true
	default:
		return false
	}
}

// GeoPoint координаты места проведения выездного визита
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// Booking represents a scheduled appointment in the system
type Booking struct {
	ID         int64
	TenantID   int64
	CustomerID int64
	ServiceID  int64

	ScheduledAt     time.Time
	DurationMinutes int
	Status          BookingStatus

	IsHomeVisit       bool
	HomeVisitAddress  *string
	HomeVisitLocation *GeoPoint

	TotalAmount   decimal.Decimal
	PaymentStatus PaymentStatus
	Notes         *string

	CancellationReason *string
	CancelledAt        *time.Time

	// RemindersSent заполняется внешним диспетчером напоминаний
	RemindersSent []time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduledEnd returns the end of the booking interval
// Invariant: scheduled_end = scheduled_at + duration
func (b *Booking) ScheduledEnd() time.Time {
	return b.ScheduledAt.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// IsActive returns true if the booking counts toward conflicts
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status.CanTransitionTo(StatusCancelled)
}

// CanBeUpdated returns true if the booking fields can still be modified
func (b *Booking) CanBeUpdated() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// BookingsFilter фильтр для получения бронирований тенанта
type BookingsFilter struct {
	TenantID   int64          // Обязательный параметр
	CustomerID *int64         // Фильтр по клиенту (опционально)
	ServiceID  *int64         // Фильтр по услуге (опционально)
	Status     *BookingStatus // Фильтр по статусу (опционально)
	StartDate  *time.Time     // Начало периода (опционально)
	EndDate    *time.Time     // Конец периода (опционально)
	Limit      uint64         // 0 = без ограничения
	Offset     uint64
}
