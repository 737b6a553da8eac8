package conflicts

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
)

// CheckInput параметры проверки кандидата на конфликты
type CheckInput struct {
	TenantID            int64
	StartAt             time.Time
	DurationMinutes     int
	IsHomeVisit         bool
	TravelBufferMinutes int
	// ExcludeBookingID исключает бронирование из проверки (для переноса существующего)
	ExcludeBookingID *int64
	// Statuses ограничивает набор бронирований, с которыми проверяется кандидат.
	// Если пусто, используются активные статусы (pending + confirmed)
	Statuses []domain.BookingStatus
}

// Detector проверяет кандидата на пересечения с существующими бронированиями
// и на достаточность времени на дорогу между выездными визитами
type Detector struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewDetector создает новый экземпляр детектора конфликтов
func NewDetector(bookingRepo BookingRepository, logger Logger) *Detector {
	return &Detector{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Check загружает бронирования тенанта в окне +/- domain.ConflictScanWindow
// вокруг кандидата и проверяет его против каждого из них.
// Внутри транзакции выборка идёт с блокировкой строк (FOR UPDATE),
// что закрывает гонку двух одновременных бронирований на один слот
func (d *Detector) Check(ctx context.Context, in CheckInput) (*domain.BookingConflict, error) {
	from := in.StartAt.Add(-domain.ConflictScanWindow)
	to := in.StartAt.Add(domain.ConflictScanWindow)

	statuses := in.Statuses
	if len(statuses) == 0 {
		statuses = domain.ActiveStatuses
	}

	existing, err := d.bookingRepo.GetInWindow(ctx, in.TenantID, from, to, statuses)
	if err != nil {
		d.logger.Error("Check: failed to load bookings for tenant=%d window=[%s, %s]: %v",
			in.TenantID, from.Format(time.RFC3339), to.Format(time.RFC3339), err)
		return nil, fmt.Errorf("%w: Check - load bookings: %v", ErrInternal, err)
	}

	conflict := d.CheckAgainst(existing, in)
	if conflict.HasConflict {
		d.logger.Info("Check: candidate at %s for tenant=%d conflicts with bookings %v (%s)",
			in.StartAt.Format(time.RFC3339), in.TenantID, conflict.ConflictingIDs(), conflict.Reason)
	}

	return conflict, nil
}

// CheckAgainst проверяет кандидата против уже загруженного списка бронирований.
// Чистая функция без обращений к БД - переиспользуется генератором слотов,
// который загружает бронирования дня один раз на весь запрос.
//
// Правила:
//   - прямое пересечение интервалов: start < other.end && other.start < end
//     (границы эксклюзивные, бронирование стык-в-стык не конфликтует);
//   - если хотя бы одно из двух бронирований выездное, между ними требуется
//     буфер на дорогу; зазор, равный буферу, считается достаточным.
//
// TODO: буфер фиксированный из политики; когда TravelService начнет отдавать
// оценку времени в пути между адресами, брать её вместо константы
func (d *Detector) CheckAgainst(existing []*domain.Booking, in CheckInput) *domain.BookingConflict {
	start := in.StartAt
	end := in.StartAt.Add(time.Duration(in.DurationMinutes) * time.Minute)
	buffer := time.Duration(in.TravelBufferMinutes) * time.Minute

	allowed := make(map[domain.BookingStatus]struct{}, len(in.Statuses))
	for _, s := range in.Statuses {
		allowed[s] = struct{}{}
	}
	if len(allowed) == 0 {
		for _, s := range domain.ActiveStatuses {
			allowed[s] = struct{}{}
		}
	}

	var conflicting []*domain.Booking
	hasOverlap := false

	for _, b := range existing {
		if in.ExcludeBookingID != nil && b.ID == *in.ExcludeBookingID {
			continue
		}
		if _, ok := allowed[b.Status]; !ok {
			continue
		}

		bStart := b.ScheduledAt
		bEnd := b.ScheduledEnd()

		// Прямое пересечение интервалов
		if start.Before(bEnd) && bStart.Before(end) {
			conflicting = append(conflicting, b)
			hasOverlap = true
			continue
		}

		// Буфер на дорогу нужен, только если хотя бы одно бронирование выездное
		if !in.IsHomeVisit && !b.IsHomeVisit {
			continue
		}
		if buffer <= 0 {
			continue
		}

		var gap time.Duration
		if !bEnd.After(start) {
			gap = start.Sub(bEnd)
		} else {
			gap = bStart.Sub(end)
		}

		if gap < buffer {
			conflicting = append(conflicting, b)
		}
	}

	if len(conflicting) == 0 {
		return &domain.BookingConflict{HasConflict: false}
	}

	// Прямое пересечение важнее нехватки времени на дорогу
	reason := domain.ConflictReasonTravelBuffer
	if hasOverlap {
		reason = domain.ConflictReasonTimeOverlap
	}

	return &domain.BookingConflict{
		HasConflict: true,
		Bookings:    conflicting,
		Reason:      reason,
	}
}
