package update_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	updateBooking "github.com/m04kA/HSP-SchedulingService/internal/usecase/update_booking"
)

// GeoPointRequest координаты выездного визита
type GeoPointRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UpdateBookingRequest HTTP request model
// nil-поля не изменяются; поле status нельзя смешивать с остальными полями -
// смена статуса идет отдельным переходом, без одновременного переноса
type UpdateBookingRequest struct {
	ScheduledAt       *string          `json:"scheduledAt,omitempty"` // RFC3339
	IsHomeVisit       *bool            `json:"isHomeVisit,omitempty"`
	HomeVisitAddress  *string          `json:"homeVisitAddress,omitempty"`
	HomeVisitLocation *GeoPointRequest `json:"homeVisitLocation,omitempty"`
	PaymentStatus     *string          `json:"paymentStatus,omitempty"`
	Notes             *string          `json:"notes,omitempty"`
	Status            *string          `json:"status,omitempty"`
}

// ConflictResponse тело ответа 409 с деталями конфликта
type ConflictResponse struct {
	Error                 string  `json:"error"`
	Reason                string  `json:"reason"`
	ConflictingBookingIDs []int64 `json:"conflictingBookingIds"`
}

// hasUpdateFields возвращает true, если запрос меняет хотя бы одно поле,
// кроме статуса
func (r *UpdateBookingRequest) hasUpdateFields() bool {
	return r.ScheduledAt != nil ||
		r.IsHomeVisit != nil ||
		r.HomeVisitAddress != nil ||
		r.HomeVisitLocation != nil ||
		r.PaymentStatus != nil ||
		r.Notes != nil
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateBookingRequest) ToUseCaseRequest(tenantID, bookingID int64) (*updateBooking.Request, error) {
	req := &updateBooking.Request{
		TenantID:         tenantID,
		BookingID:        bookingID,
		IsHomeVisit:      r.IsHomeVisit,
		HomeVisitAddress: r.HomeVisitAddress,
		Notes:            r.Notes,
	}

	if r.ScheduledAt != nil {
		scheduledAt, err := time.Parse(time.RFC3339, *r.ScheduledAt)
		if err != nil {
			return nil, fmt.Errorf("parse scheduledAt: %w", err)
		}
		req.ScheduledAt = &scheduledAt
	}

	if r.HomeVisitLocation != nil {
		req.HomeVisitLocation = &domain.GeoPoint{
			Latitude:  r.HomeVisitLocation.Latitude,
			Longitude: r.HomeVisitLocation.Longitude,
		}
	}

	if r.PaymentStatus != nil {
		status := domain.PaymentStatus(*r.PaymentStatus)
		req.PaymentStatus = &status
	}

	return req, nil
}
