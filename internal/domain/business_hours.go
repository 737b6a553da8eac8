package domain

import "github.com/m04kA/HSP-SchedulingService/pkg/types"

// BusinessWindow resolved operating window of a tenant for a specific date
type BusinessWindow struct {
	IsOpen    bool
	OpenTime  types.TimeString
	CloseTime types.TimeString
}

// ClosedWindow returns a window for a day the tenant does not work
func ClosedWindow() BusinessWindow {
	return BusinessWindow{IsOpen: false}
}

// Contains returns true if the interval [start, end] fits into the window
// Границы включительно: бронирование может начинаться ровно в открытие
// и заканчиваться ровно в закрытие
func (w BusinessWindow) Contains(start, end types.TimeString) bool {
	if !w.IsOpen {
		return false
	}
	return !start.IsBefore(w.OpenTime) && !end.IsAfter(w.CloseTime)
}
