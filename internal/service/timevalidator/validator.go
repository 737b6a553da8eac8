// Package timevalidator проверяет запрошенное время бронирования относительно
// текущего момента: прошлое, минимальное уведомление, горизонт записи.
// Проверки выполняются до любых обращений к БД
package timevalidator

import (
	"time"
)

// Validator проверяет время бронирования относительно текущего момента
type Validator struct{}

// NewValidator создает новый экземпляр валидатора времени
func NewValidator() *Validator {
	return &Validator{}
}

// Validate проверяет запрошенное время относительно now
//
//	minNoticeMinutes - минимальное время от "сейчас" до начала бронирования;
//	  запас, ровно равный уведомлению, принимается;
//	advanceBookingDays - горизонт предварительной записи; 0 = без ограничения
func (v *Validator) Validate(scheduledAt, now time.Time, minNoticeMinutes, advanceBookingDays int) error {
	if scheduledAt.Before(now) {
		return ErrTimeInPast
	}

	lead := scheduledAt.Sub(now)
	if lead < time.Duration(minNoticeMinutes)*time.Minute {
		return ErrTooSoon
	}

	if advanceBookingDays > 0 {
		horizon := now.AddDate(0, 0, advanceBookingDays)
		if scheduledAt.After(horizon) {
			return ErrTooFarAhead
		}
	}

	return nil
}
