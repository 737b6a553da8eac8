package update_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("update_booking: booking not found")

	// ErrBookingNotEditable возвращается для терминальных статусов
	ErrBookingNotEditable = errors.New("update_booking: booking cannot be updated")

	// ErrTenantNotFound возвращается, когда тенант не найден
	ErrTenantNotFound = errors.New("update_booking: tenant not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("update_booking: service not found")

	// ErrHomeVisitNotAvailable возвращается, когда услуга не поддерживает выезд
	ErrHomeVisitNotAvailable = errors.New("update_booking: home visit is not available for this service")

	// ErrOutOfServiceArea возвращается, когда адрес выезда вне зоны обслуживания
	ErrOutOfServiceArea = errors.New("update_booking: address is out of service area")

	// ErrTimeInPast возвращается, когда новое время уже прошло
	ErrTimeInPast = errors.New("update_booking: scheduled time is in the past")

	// ErrTooLateToBook возвращается при нарушении минимального уведомления
	ErrTooLateToBook = errors.New("update_booking: too late to reschedule to this slot")

	// ErrDateTooFarInFuture возвращается при превышении горизонта записи
	ErrDateTooFarInFuture = errors.New("update_booking: date is too far in the future")

	// ErrTenantClosed возвращается, когда тенант закрыт в новую дату
	ErrTenantClosed = errors.New("update_booking: tenant is closed on this date")

	// ErrOutsideBusinessHours возвращается, когда интервал выходит за рабочие часы
	ErrOutsideBusinessHours = errors.New("update_booking: outside business hours")

	// ErrBookingConflict возвращается при конфликте с существующими бронированиями
	ErrBookingConflict = errors.New("update_booking: booking conflict")

	// ErrEmptyUpdate возвращается, когда запрос не меняет ни одного поля
	ErrEmptyUpdate = errors.New("update_booking: empty update")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking: internal error")
)

// ConflictError ошибка конфликта с деталями для ответа клиенту
type ConflictError struct {
	Conflict *domain.BookingConflict
}

// Error реализует интерфейс error
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: %s, bookings %v", ErrBookingConflict, e.Conflict.Reason, e.Conflict.ConflictingIDs())
}

// Unwrap позволяет errors.Is(err, ErrBookingConflict)
func (e *ConflictError) Unwrap() error {
	return ErrBookingConflict
}
