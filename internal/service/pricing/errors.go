package pricing

import "errors"

var (
	// ErrOutOfServiceArea адрес выезда вне зоны обслуживания тенанта
	ErrOutOfServiceArea = errors.New("pricing.calculator: address out of service area")

	// ErrInternal возвращается при внутренней ошибке калькулятора
	ErrInternal = errors.New("pricing.calculator: internal error")
)
