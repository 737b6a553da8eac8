package update_booking

import (
	"time"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
)

// Request модель запроса на изменение бронирования
// nil-поля не изменяются; IsHomeVisit=false очищает адрес и координаты выезда
type Request struct {
	TenantID  int64
	BookingID int64

	ScheduledAt       *time.Time
	IsHomeVisit       *bool
	HomeVisitAddress  *string
	HomeVisitLocation *domain.GeoPoint
	PaymentStatus     *domain.PaymentStatus
	Notes             *string
}

// isEmpty возвращает true, если запрос не меняет ни одного поля
func (r *Request) isEmpty() bool {
	return r.ScheduledAt == nil &&
		r.IsHomeVisit == nil &&
		r.HomeVisitAddress == nil &&
		r.HomeVisitLocation == nil &&
		r.PaymentStatus == nil &&
		r.Notes == nil
}
