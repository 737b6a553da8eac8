package businesshours

import "errors"

var (
	// ErrInvalidSchedule расписание тенанта содержит некорректные времена
	ErrInvalidSchedule = errors.New("businesshours: invalid tenant schedule")
)
