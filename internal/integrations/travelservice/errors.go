package travelservice

import "errors"

var (
	// ErrOutOfServiceArea возвращается, когда адрес вне зоны обслуживания тенанта
	ErrOutOfServiceArea = errors.New("address is out of service area")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("travelservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("travelservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что TravelService недоступен и надбавку следует считать нулевой
	ErrServiceDegraded = errors.New("travelservice unavailable: graceful degradation applied")
)
