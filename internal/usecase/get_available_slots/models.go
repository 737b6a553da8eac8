package get_available_slots

import (
	"time"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	"github.com/m04kA/HSP-SchedulingService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	TenantID  int64     // ID тенанта
	ServiceID int64     // ID услуги
	Date      time.Time // Дата для получения слотов (без времени)
	// IsHomeVisit влияет на проверку буфера на дорогу: для выездного визита
	// слот рядом с другим бронированием может быть занят буфером
	IsHomeVisit bool
}

// Response модель ответа со списком слотов
type Response struct {
	Date        string            `json:"date"`
	TenantID    int64             `json:"tenantId"`
	ServiceID   int64             `json:"serviceId"`
	IsHomeVisit bool              `json:"isHomeVisit"`
	IsOpen      bool              `json:"isOpen"`
	OpenTime    *types.TimeString `json:"openTime,omitempty"`
	CloseTime   *types.TimeString `json:"closeTime,omitempty"`
	Slots       []Slot            `json:"slots"`
}

// Slot модель временного слота
type Slot struct {
	StartTime       types.TimeString `json:"startTime"`
	DurationMinutes int              `json:"durationMinutes"`
	Available       bool             `json:"available"`
	// ConflictingBookingID первое бронирование, блокирующее слот
	ConflictingBookingID *int64 `json:"conflictingBookingId,omitempty"`
}

// fromDomainSlots конвертирует domain слоты в модели ответа
func fromDomainSlots(slots []domain.TimeSlot) []Slot {
	result := make([]Slot, len(slots))
	for i, s := range slots {
		result[i] = Slot{
			StartTime:            s.StartTime,
			DurationMinutes:      s.DurationMinutes,
			Available:            s.Available,
			ConflictingBookingID: s.ConflictingBookingID,
		}
	}
	return result
}
