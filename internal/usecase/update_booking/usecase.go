package update_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	"github.com/m04kA/HSP-SchedulingService/internal/infra/events"
	bookingRepo "github.com/m04kA/HSP-SchedulingService/internal/infra/storage/booking"
	directoryClient "github.com/m04kA/HSP-SchedulingService/internal/integrations/directoryservice"
	"github.com/m04kA/HSP-SchedulingService/internal/service/bookings/models"
	"github.com/m04kA/HSP-SchedulingService/internal/service/conflicts"
	"github.com/m04kA/HSP-SchedulingService/internal/service/pricing"
	"github.com/m04kA/HSP-SchedulingService/internal/service/timevalidator"
	"github.com/m04kA/HSP-SchedulingService/pkg/ptr"
	"github.com/m04kA/HSP-SchedulingService/pkg/types"
)

// UseCase use case изменения бронирования (перенос времени, смена формата
// визита, заметки). Перенос проходит те же проверки, что и создание, с
// исключением самого бронирования из поиска конфликтов. Все изменения
// атомарны: не прошла хотя бы одна проверка - откатывается вся транзакция
type UseCase struct {
	bookingRepo     BookingRepository
	detector        ConflictDetector
	policyService   PolicyService
	pricingCalc     PricingCalculator
	hoursResolver   BusinessHoursResolver
	timeValidator   TimeValidator
	directoryClient DirectoryServiceClient
	publisher       EventPublisher
	slotsCache      SlotsCache
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	detector ConflictDetector,
	policyService PolicyService,
	pricingCalc PricingCalculator,
	hoursResolver BusinessHoursResolver,
	timeValidator TimeValidator,
	directoryClient DirectoryServiceClient,
	publisher EventPublisher,
	slotsCache SlotsCache,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:     bookingRepo,
		detector:        detector,
		policyService:   policyService,
		pricingCalc:     pricingCalc,
		hoursResolver:   hoursResolver,
		timeValidator:   timeValidator,
		directoryClient: directoryClient,
		publisher:       publisher,
		slotsCache:      slotsCache,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case изменения бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.BookingResponse, error) {
	uc.logger.Info("UpdateBooking: tenant=%d, booking=%d", req.TenantID, req.BookingID)

	// 1. Валидация входных данных
	if err := uc.validateRequest(req); err != nil {
		uc.logger.Warn("UpdateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Предварительное чтение для получения услуги и расчета цены
	// до транзакции: внешние HTTP-вызовы не должны удерживать блокировки БД
	current, err := uc.bookingRepo.GetByID(ctx, req.TenantID, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("UpdateBooking: booking id=%d not found for tenant=%d", req.BookingID, req.TenantID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("UpdateBooking: repository error for booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}
	if !current.CanBeUpdated() {
		uc.logger.Warn("UpdateBooking: booking id=%d is not editable, status=%s", req.BookingID, current.Status)
		return nil, ErrBookingNotEditable
	}

	// 3. Тенант и услуга из справочника (fail closed)
	tenant, err := uc.directoryClient.GetTenant(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrTenantNotFound) {
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("UpdateBooking: failed to get tenant id=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	service, err := uc.directoryClient.GetService(ctx, req.TenantID, current.ServiceID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("UpdateBooking: failed to get service id=%d: %v", current.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Целевой формат визита после применения изменений
	targetHomeVisit := current.IsHomeVisit
	if req.IsHomeVisit != nil {
		targetHomeVisit = *req.IsHomeVisit
	}
	if targetHomeVisit && !service.HomeVisitAvailable {
		uc.logger.Warn("UpdateBooking: service id=%d does not support home visits", current.ServiceID)
		return nil, ErrHomeVisitNotAvailable
	}

	targetAddress := current.HomeVisitAddress
	if req.HomeVisitAddress != nil {
		targetAddress = req.HomeVisitAddress
	}
	targetLocation := current.HomeVisitLocation
	if req.HomeVisitLocation != nil {
		targetLocation = req.HomeVisitLocation
	}
	if !targetHomeVisit {
		if req.HomeVisitAddress != nil || req.HomeVisitLocation != nil {
			return nil, fmt.Errorf("%w: home visit details are only allowed for home visits", ErrInvalidInput)
		}
		targetAddress = nil
		targetLocation = nil
	}
	if targetHomeVisit && targetAddress == nil && targetLocation == nil {
		return nil, fmt.Errorf("%w: home visit requires an address or coordinates", ErrInvalidInput)
	}

	// 5. Пересчитываем стоимость, если меняется формат визита или адрес
	var quote *pricing.Quote
	priceChanged := req.IsHomeVisit != nil || req.HomeVisitAddress != nil || req.HomeVisitLocation != nil
	if priceChanged {
		quote, err = uc.pricingCalc.Calculate(ctx, service, targetHomeVisit, targetAddress, targetLocation)
		if err != nil {
			if errors.Is(err, pricing.ErrOutOfServiceArea) {
				return nil, ErrOutOfServiceArea
			}
			uc.logger.Error("UpdateBooking: failed to recalculate price: %v", err)
			return nil, fmt.Errorf("%w: failed to recalculate price: %v", ErrInternal, err)
		}
	}

	var result *domain.Booking

	// 6. Применяем изменения в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Перечитываем бронирование с блокировкой (FOR UPDATE)
		booking, err := uc.bookingRepo.GetByID(txCtx, req.TenantID, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: repository error: %v", ErrInternal, err)
		}
		if !booking.CanBeUpdated() {
			return ErrBookingNotEditable
		}

		targetScheduledAt := booking.ScheduledAt
		if req.ScheduledAt != nil {
			targetScheduledAt = *req.ScheduledAt
		}

		rescheduled := !targetScheduledAt.Equal(booking.ScheduledAt)
		visitChanged := targetHomeVisit != booking.IsHomeVisit

		// 6.2. Перенос и смена формата визита проходят полный цикл проверок
		if rescheduled || visitChanged {
			policy, err := uc.policyService.Resolve(txCtx, req.TenantID, ptr.Ptr(booking.ServiceID))
			if err != nil {
				return fmt.Errorf("%w: failed to resolve policy: %v", ErrInternal, err)
			}

			if rescheduled {
				if err := uc.timeValidator.Validate(targetScheduledAt, now, policy.MinBookingNoticeMinutes, policy.AdvanceBookingDays); err != nil {
					switch {
					case errors.Is(err, timevalidator.ErrTimeInPast):
						return ErrTimeInPast
					case errors.Is(err, timevalidator.ErrTooSoon):
						return fmt.Errorf("%w: must reschedule at least %d minutes in advance", ErrTooLateToBook, policy.MinBookingNoticeMinutes)
					case errors.Is(err, timevalidator.ErrTooFarAhead):
						return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, policy.AdvanceBookingDays)
					default:
						return fmt.Errorf("%w: time validation: %v", ErrInternal, err)
					}
				}

				window, err := uc.hoursResolver.ResolveForDate(tenant, targetScheduledAt)
				if err != nil {
					return fmt.Errorf("%w: failed to resolve business hours: %v", ErrInternal, err)
				}
				if !window.IsOpen {
					return ErrTenantClosed
				}

				startTime := types.NewTimeString(targetScheduledAt)
				endTime, err := startTime.AddMinutes(booking.DurationMinutes)
				if err != nil {
					return ErrOutsideBusinessHours
				}
				if !window.Contains(startTime, endTime) {
					return ErrOutsideBusinessHours
				}
			}

			conflict, err := uc.detector.Check(txCtx, conflicts.CheckInput{
				TenantID:            req.TenantID,
				StartAt:             targetScheduledAt,
				DurationMinutes:     booking.DurationMinutes,
				IsHomeVisit:         targetHomeVisit,
				TravelBufferMinutes: policy.TravelBufferMinutes,
				ExcludeBookingID:    ptr.Ptr(booking.ID),
				Statuses:            domain.ActiveStatuses,
			})
			if err != nil {
				return fmt.Errorf("%w: conflict check failed: %v", ErrInternal, err)
			}
			if conflict.HasConflict {
				uc.logger.Warn("UpdateBooking: conflict for booking id=%d with bookings %v (%s)",
					booking.ID, conflict.ConflictingIDs(), conflict.Reason)
				return &ConflictError{Conflict: conflict}
			}
		}

		// 6.3. Собираем частичное обновление
		upd := bookingRepo.Update{
			ScheduledAt:       req.ScheduledAt,
			IsHomeVisit:       req.IsHomeVisit,
			HomeVisitAddress:  req.HomeVisitAddress,
			HomeVisitLocation: req.HomeVisitLocation,
			PaymentStatus:     req.PaymentStatus,
			Notes:             req.Notes,
		}
		if req.IsHomeVisit != nil && !*req.IsHomeVisit {
			upd.HomeVisitAddress = nil
			upd.HomeVisitLocation = nil
			upd.ClearHomeVisitDetails = true
		}
		if quote != nil {
			upd.TotalAmount = ptr.Ptr(quote.Total)
		}

		if err := uc.bookingRepo.ApplyUpdate(txCtx, req.TenantID, req.BookingID, upd); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to apply update: %v", ErrInternal, err)
		}

		result, err = uc.bookingRepo.GetByID(txCtx, req.TenantID, req.BookingID)
		if err != nil {
			return fmt.Errorf("%w: failed to reload booking: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdateBooking: successfully updated booking id=%d", result.ID)

	// 7. Событие и инвалидация кеша вне транзакции, ошибки не фатальны
	if err := uc.publisher.Publish(ctx, events.EventBookingUpdated, result); err != nil {
		uc.logger.Error("UpdateBooking: failed to publish event for booking id=%d: %v", result.ID, err)
	}
	// Перенос освобождает слоты старого дня и занимает слоты нового
	for _, date := range affectedDates(current.ScheduledAt, result.ScheduledAt) {
		if err := uc.slotsCache.InvalidateDay(ctx, req.TenantID, date); err != nil {
			uc.logger.Error("UpdateBooking: failed to invalidate slots cache for tenant=%d date=%s: %v",
				req.TenantID, date, err)
		}
	}

	return models.FromDomainBooking(result), nil
}

// validateRequest валидирует входные данные запроса
func (uc *UseCase) validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.isEmpty() {
		return ErrEmptyUpdate
	}
	if req.ScheduledAt != nil && req.ScheduledAt.IsZero() {
		return fmt.Errorf("%w: scheduledAt must not be zero", ErrInvalidInput)
	}
	if req.HomeVisitAddress != nil && len(*req.HomeVisitAddress) > domain.MaxAddressLength {
		return fmt.Errorf("%w: homeVisitAddress too long", ErrInvalidInput)
	}
	if req.PaymentStatus != nil && !req.PaymentStatus.IsValid() {
		return fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, *req.PaymentStatus)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes too long", ErrInvalidInput)
	}
	return nil
}

// affectedDates возвращает даты, затронутые переносом, без дубликатов
func affectedDates(oldAt, newAt time.Time) []string {
	oldDate := oldAt.Format(domain.DateFormat)
	newDate := newAt.Format(domain.DateFormat)
	if oldDate == newDate {
		return []string{oldDate}
	}
	return []string{oldDate, newDate}
}
