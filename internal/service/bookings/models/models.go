package models

import (
	"fmt"
	"time"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
)

// Request модели

// ListBookingsRequest запрос на получение бронирований тенанта с фильтрацией
type ListBookingsRequest struct {
	TenantID   int64
	CustomerID *int64
	ServiceID  *int64
	Status     *string
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      uint64
	Offset     uint64
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на смену статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Response модели

// GeoPointResponse координаты выездного визита
type GeoPointResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                 int64             `json:"id"`
	TenantID           int64             `json:"tenantId"`
	CustomerID         int64             `json:"customerId"`
	ServiceID          int64             `json:"serviceId"`
	ScheduledAt        time.Time         `json:"scheduledAt"`
	ScheduledEnd       time.Time         `json:"scheduledEnd"`
	DurationMinutes    int               `json:"durationMinutes"`
	Status             string            `json:"status"`
	IsHomeVisit        bool              `json:"isHomeVisit"`
	HomeVisitAddress   *string           `json:"homeVisitAddress,omitempty"`
	HomeVisitLocation  *GeoPointResponse `json:"homeVisitLocation,omitempty"`
	TotalAmount        string            `json:"totalAmount"`
	PaymentStatus      string            `json:"paymentStatus"`
	Notes              *string           `json:"notes,omitempty"`
	CancellationReason *string           `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time        `json:"cancelledAt,omitempty"`
	RemindersSent      []time.Time       `json:"remindersSent"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		TenantID:           b.TenantID,
		CustomerID:         b.CustomerID,
		ServiceID:          b.ServiceID,
		ScheduledAt:        b.ScheduledAt,
		ScheduledEnd:       b.ScheduledEnd(),
		DurationMinutes:    b.DurationMinutes,
		Status:             string(b.Status),
		IsHomeVisit:        b.IsHomeVisit,
		HomeVisitAddress:   b.HomeVisitAddress,
		TotalAmount:        b.TotalAmount.StringFixed(2),
		PaymentStatus:      string(b.PaymentStatus),
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		RemindersSent:      b.RemindersSent,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.HomeVisitLocation != nil {
		resp.HomeVisitLocation = &GeoPointResponse{
			Latitude:  b.HomeVisitLocation.Latitude,
			Longitude: b.HomeVisitLocation.Longitude,
		}
	}

	if resp.RemindersSent == nil {
		resp.RemindersSent = []time.Time{}
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, b := range bookings {
		if converted := FromDomainBooking(b); converted != nil {
			resp.Bookings = append(resp.Bookings, *converted)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown booking status: %s", status)
	}
	return s, nil
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		TenantID:   r.TenantID,
		CustomerID: r.CustomerID,
		ServiceID:  r.ServiceID,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		Limit:      r.Limit,
		Offset:     r.Offset,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return domain.BookingsFilter{}, err
		}
		filter.Status = &status
	}

	if filter.Limit == 0 || filter.Limit > domain.MaxListLimit {
		filter.Limit = domain.MaxListLimit
	}

	return filter, nil
}
