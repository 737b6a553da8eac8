package create_booking

import (
	"time"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	TenantID          int64            // ID тенанта (из заголовка аутентификации)
	CustomerID        int64            // ID клиента
	ServiceID         int64            // ID услуги
	ScheduledAt       time.Time        // Время начала бронирования
	IsHomeVisit       bool             // Выездной визит
	HomeVisitAddress  *string          // Адрес выезда (для выездных визитов)
	HomeVisitLocation *domain.GeoPoint // Координаты выезда (опционально)
	Notes             *string          // Дополнительные заметки (опционально)
}

// PriceBreakdown детализация стоимости созданного бронирования
type PriceBreakdown struct {
	BasePrice          string `json:"basePrice"`
	HomeVisitSurcharge string `json:"homeVisitSurcharge"`
	LocationSurcharge  string `json:"locationSurcharge"`
	Total              string `json:"total"`
	// Degraded true, если надбавка за локацию принята равной нулю
	// из-за недоступности сервиса расчета
	Degraded bool `json:"degraded,omitempty"`
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64     `json:"id"`
	TenantID        int64     `json:"tenantId"`
	CustomerID      int64     `json:"customerId"`
	ServiceID       int64     `json:"serviceId"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	ScheduledEnd    time.Time `json:"scheduledEnd"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`

	IsHomeVisit      bool    `json:"isHomeVisit"`
	HomeVisitAddress *string `json:"homeVisitAddress,omitempty"`

	TotalAmount   string         `json:"totalAmount"`
	Price         PriceBreakdown `json:"price"`
	PaymentStatus string         `json:"paymentStatus"`
	Notes         *string        `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
