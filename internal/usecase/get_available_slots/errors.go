package get_available_slots

import "errors"

var (
	// ErrTenantNotFound возвращается, когда тенант не найден
	ErrTenantNotFound = errors.New("get_available_slots: tenant not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("get_available_slots: service not found")

	// ErrServiceInactive возвращается, когда услуга отключена тенантом
	ErrServiceInactive = errors.New("get_available_slots: service is inactive")

	// ErrHomeVisitNotAvailable возвращается, когда услуга не поддерживает выезд
	ErrHomeVisitNotAvailable = errors.New("get_available_slots: home visit is not available for this service")

	// ErrDateTooFarInFuture возвращается при превышении горизонта записи
	ErrDateTooFarInFuture = errors.New("get_available_slots: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
