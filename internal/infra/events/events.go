package events

import (
	"time"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
)

// EventType тип события жизненного цикла бронирования
type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingUpdated   EventType = "booking.updated"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingDeleted   EventType = "booking.deleted"
)

// BookingEvent событие жизненного цикла бронирования, публикуемое в Kafka
type BookingEvent struct {
	EventID    string         `json:"event_id"`
	EventType  EventType      `json:"event_type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Booking    BookingPayload `json:"booking"`
}

// BookingPayload данные бронирования в событии
// Подмножество domain.Booking, стабильное для внешних потребителей
type BookingPayload struct {
	ID              int64      `json:"id"`
	TenantID        int64      `json:"tenant_id"`
	CustomerID      int64      `json:"customer_id"`
	ServiceID       int64      `json:"service_id"`
	ScheduledAt     time.Time  `json:"scheduled_at"`
	DurationMinutes int        `json:"duration_minutes"`
	Status          string     `json:"status"`
	IsHomeVisit     bool       `json:"is_home_visit"`
	TotalAmount     string     `json:"total_amount"`
	PaymentStatus   string     `json:"payment_status"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
}

// payloadFromDomain собирает payload события из domain модели
func payloadFromDomain(b *domain.Booking) BookingPayload {
	return BookingPayload{
		ID:              b.ID,
		TenantID:        b.TenantID,
		CustomerID:      b.CustomerID,
		ServiceID:       b.ServiceID,
		ScheduledAt:     b.ScheduledAt,
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		IsHomeVisit:     b.IsHomeVisit,
		TotalAmount:     b.TotalAmount.String(),
		PaymentStatus:   string(b.PaymentStatus),
		CancelledAt:     b.CancelledAt,
	}
}
