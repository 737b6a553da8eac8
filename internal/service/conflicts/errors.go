package conflicts

import "errors"

var (
	// ErrInternal возвращается при внутренней ошибке детектора конфликтов
	ErrInternal = errors.New("conflicts.detector: internal error")
)
