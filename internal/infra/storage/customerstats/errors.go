package customerstats

import "errors"

var (
	// ErrStatsNotFound возвращается, когда статистика клиента не найдена
	ErrStatsNotFound = errors.New("customerstats.repository: stats not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("customerstats.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("customerstats.repository: failed to execute query")
)
