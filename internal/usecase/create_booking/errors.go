package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
)

var (
	// ErrTenantNotFound возвращается, когда тенант не найден
	ErrTenantNotFound = errors.New("create_booking: tenant not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrServiceInactive возвращается, когда услуга отключена тенантом
	ErrServiceInactive = errors.New("create_booking: service is inactive")

	// ErrCustomerNotFound возвращается, когда клиент не найден
	ErrCustomerNotFound = errors.New("create_booking: customer not found")

	// ErrHomeVisitNotAvailable возвращается, когда услуга не поддерживает выезд
	ErrHomeVisitNotAvailable = errors.New("create_booking: home visit is not available for this service")

	// ErrOutOfServiceArea возвращается, когда адрес выезда вне зоны обслуживания
	ErrOutOfServiceArea = errors.New("create_booking: address is out of service area")

	// ErrTimeInPast возвращается, когда запрошенное время уже прошло
	ErrTimeInPast = errors.New("create_booking: scheduled time is in the past")

	// ErrTooLateToBook возвращается при нарушении минимального уведомления
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrDateTooFarInFuture возвращается при превышении горизонта записи
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrTenantClosed возвращается, когда тенант закрыт в указанную дату
	ErrTenantClosed = errors.New("create_booking: tenant is closed on this date")

	// ErrOutsideBusinessHours возвращается, когда интервал выходит за рабочие часы
	ErrOutsideBusinessHours = errors.New("create_booking: outside business hours")

	// ErrBookingConflict возвращается при конфликте с существующими бронированиями
	ErrBookingConflict = errors.New("create_booking: booking conflict")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
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
