package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	"github.com/m04kA/HSP-SchedulingService/internal/service/conflicts"
	"github.com/m04kA/HSP-SchedulingService/pkg/types"
)

// generateSlotStarts генерирует времена начала слотов в рабочем окне
// Сетка идет от открытия с фиксированным шагом; слот входит в сетку, только
// если услуга целиком помещается до закрытия. Для сегодняшней даты слоты,
// нарушающие минимальное уведомление, отбрасываются
func generateSlotStarts(
	window domain.BusinessWindow,
	stepMinutes int,
	durationMinutes int,
	requestDate time.Time,
	now time.Time,
	minNoticeMinutes int,
) ([]types.TimeString, error) {
	if isDateInPast(requestDate, now) {
		return []types.TimeString{}, nil
	}

	allSlots := make([]types.TimeString, 0)
	current := window.OpenTime

	for current.IsBefore(window.CloseTime) {
		slotEnd, err := current.AddMinutes(durationMinutes)
		if err != nil {
			break
		}
		if slotEnd.IsAfter(window.CloseTime) {
			break
		}

		allSlots = append(allSlots, current)

		next, err := current.AddMinutes(stepMinutes)
		if err != nil {
			break
		}
		current = next
	}

	if !isSameDay(requestDate, now) {
		return allSlots, nil
	}

	minAllowedTime, err := types.NewTimeString(now).AddMinutes(minNoticeMinutes)
	if err != nil {
		// Уведомление уводит за полночь - сегодня слотов нет
		return []types.TimeString{}, nil
	}

	available := make([]types.TimeString, 0, len(allSlots))
	for _, slot := range allSlots {
		if !slot.IsBefore(minAllowedTime) {
			available = append(available, slot)
		}
	}

	return available, nil
}

// annotateSlots проверяет каждый слот сетки против бронирований дня
// Слот занят, если подтвержденное бронирование пересекается с ним или не
// оставляет буфера на дорогу для выездного визита
func annotateSlots(
	checker ConflictChecker,
	starts []types.TimeString,
	bookings []*domain.Booking,
	tenantID int64,
	requestDate time.Time,
	durationMinutes int,
	isHomeVisit bool,
	travelBufferMinutes int,
) ([]domain.TimeSlot, error) {
	result := make([]domain.TimeSlot, len(starts))

	for i, start := range starts {
		startAt, err := start.OnDate(requestDate)
		if err != nil {
			return nil, fmt.Errorf("slot start %s on date %s: %w", start, requestDate.Format(domain.DateFormat), err)
		}

		conflict := checker.CheckAgainst(bookings, conflicts.CheckInput{
			TenantID:            tenantID,
			StartAt:             startAt,
			DurationMinutes:     durationMinutes,
			IsHomeVisit:         isHomeVisit,
			TravelBufferMinutes: travelBufferMinutes,
			Statuses:            domain.SlotBlockingStatuses,
		})

		slot := domain.TimeSlot{
			StartTime:       start,
			DurationMinutes: durationMinutes,
			Available:       !conflict.HasConflict,
		}
		if conflict.HasConflict && len(conflict.Bookings) > 0 {
			id := conflict.Bookings[0].ID
			slot.ConflictingBookingID = &id
		}

		result[i] = slot
	}

	return result, nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
