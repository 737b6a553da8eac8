package bookings

import "errors"

var (
	// ErrBookingNotFound бронирование не найдено
	ErrBookingNotFound = errors.New("bookings.service: booking not found")

	// ErrCannotCancel бронирование в терминальном статусе, отмена невозможна
	ErrCannotCancel = errors.New("bookings.service: booking cannot be cancelled")

	// ErrInvalidTransition запрошенный переход статуса запрещен
	ErrInvalidTransition = errors.New("bookings.service: invalid status transition")

	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("bookings.service: invalid input")

	// ErrInternal внутренняя ошибка сервиса бронирований
	ErrInternal = errors.New("bookings.service: internal error")
)
