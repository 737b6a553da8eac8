package policy

import "errors"

var (
	// ErrTenantNotFound тенант не найден в DirectoryService
	ErrTenantNotFound = errors.New("policy.service: tenant not found")

	// ErrServiceNotFound услуга не найдена в DirectoryService
	ErrServiceNotFound = errors.New("policy.service: service not found")

	// ErrInvalidInput некорректные параметры политики
	ErrInvalidInput = errors.New("policy.service: invalid input")

	// ErrInternal внутренняя ошибка сервиса политик
	ErrInternal = errors.New("policy.service: internal error")
)
