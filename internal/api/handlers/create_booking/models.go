package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	createBooking "github.com/m04kA/HSP-SchedulingService/internal/usecase/create_booking"
)

// GeoPointRequest координаты выездного визита
type GeoPointRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CustomerID        int64            `json:"customerId"`
	ServiceID         int64            `json:"serviceId"`
	ScheduledAt       string           `json:"scheduledAt"` // RFC3339, например "2025-10-15T10:00:00+03:00"
	IsHomeVisit       bool             `json:"isHomeVisit"`
	HomeVisitAddress  *string          `json:"homeVisitAddress,omitempty"`
	HomeVisitLocation *GeoPointRequest `json:"homeVisitLocation,omitempty"`
	Notes             *string          `json:"notes,omitempty"`
}

// ConflictResponse тело ответа 409 с деталями конфликта
type ConflictResponse struct {
	Error                 string  `json:"error"`
	Reason                string  `json:"reason"`
	ConflictingBookingIDs []int64 `json:"conflictingBookingIds"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(tenantID int64) (*createBooking.Request, error) {
	scheduledAt, err := time.Parse(time.RFC3339, r.ScheduledAt)
	if err != nil {
		return nil, fmt.Errorf("parse scheduledAt: %w", err)
	}

	req := &createBooking.Request{
		TenantID:         tenantID,
		CustomerID:       r.CustomerID,
		ServiceID:        r.ServiceID,
		ScheduledAt:      scheduledAt,
		IsHomeVisit:      r.IsHomeVisit,
		HomeVisitAddress: r.HomeVisitAddress,
		Notes:            r.Notes,
	}

	if r.HomeVisitLocation != nil {
		req.HomeVisitLocation = &domain.GeoPoint{
			Latitude:  r.HomeVisitLocation.Latitude,
			Longitude: r.HomeVisitLocation.Longitude,
		}
	}

	return req, nil
}
