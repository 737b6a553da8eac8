package timevalidator

import "errors"

var (
	// ErrTimeInPast запрошенное время уже прошло
	ErrTimeInPast = errors.New("timevalidator: scheduled time is in the past")

	// ErrTooSoon до запрошенного времени осталось меньше минимального уведомления
	ErrTooSoon = errors.New("timevalidator: scheduled time is too soon")

	// ErrTooFarAhead запрошенное время дальше горизонта предварительной записи
	ErrTooFarAhead = errors.New("timevalidator: scheduled time is too far ahead")
)
