// Package businesshours разрешает рабочее окно тенанта на конкретную дату.
// Источник расписания - DirectoryService; тенант без настроенного недельного
// расписания считается открытым каждый день в окне по умолчанию
package businesshours

import (
	"fmt"
	"time"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	"github.com/m04kA/HSP-SchedulingService/internal/integrations/directoryservice"
	"github.com/m04kA/HSP-SchedulingService/pkg/types"
)

// Resolver разрешает рабочие часы тенанта на дату
type Resolver struct {
	defaultOpen  types.TimeString
	defaultClose types.TimeString
}

// NewResolver создает новый экземпляр резолвера рабочих часов
// Окно по умолчанию приходит из конфигурации сервиса
func NewResolver(defaultOpen, defaultClose types.TimeString) *Resolver {
	return &Resolver{
		defaultOpen:  defaultOpen,
		defaultClose: defaultClose,
	}
}

// ResolveForDate возвращает рабочее окно тенанта на дату
// Тенант без расписания открыт каждый день в окне по умолчанию;
// день без записи в расписании считается выходным
func (r *Resolver) ResolveForDate(tenant *directoryservice.Tenant, date time.Time) (domain.BusinessWindow, error) {
	if tenant.BusinessHours == nil {
		return domain.BusinessWindow{
			IsOpen:    true,
			OpenTime:  r.defaultOpen,
			CloseTime: r.defaultClose,
		}, nil
	}

	day := dayScheduleFor(tenant.BusinessHours, date.Weekday())
	if !day.IsOpen {
		return domain.ClosedWindow(), nil
	}

	openTime := r.defaultOpen
	closeTime := r.defaultClose

	if day.OpenTime != nil {
		parsed, err := types.NewTimeStringFromString(*day.OpenTime)
		if err != nil {
			return domain.BusinessWindow{}, fmt.Errorf("%w: open time %q: %v", ErrInvalidSchedule, *day.OpenTime, err)
		}
		openTime = parsed
	}
	if day.CloseTime != nil {
		parsed, err := types.NewTimeStringFromString(*day.CloseTime)
		if err != nil {
			return domain.BusinessWindow{}, fmt.Errorf("%w: close time %q: %v", ErrInvalidSchedule, *day.CloseTime, err)
		}
		closeTime = parsed
	}

	if !openTime.IsBefore(closeTime) {
		return domain.BusinessWindow{}, fmt.Errorf("%w: open %s is not before close %s", ErrInvalidSchedule, openTime, closeTime)
	}

	return domain.BusinessWindow{
		IsOpen:    true,
		OpenTime:  openTime,
		CloseTime: closeTime,
	}, nil
}

// dayScheduleFor выбирает расписание дня недели из недельного расписания
func dayScheduleFor(week *directoryservice.WeekSchedule, weekday time.Weekday) directoryservice.DaySchedule {
	switch weekday {
	case time.Monday:
		return week.Monday
	case time.Tuesday:
		return week.Tuesday
	case time.Wednesday:
		return week.Wednesday
	case time.Thursday:
		return week.Thursday
	case time.Friday:
		return week.Friday
	case time.Saturday:
		return week.Saturday
	default:
		return week.Sunday
	}
}
