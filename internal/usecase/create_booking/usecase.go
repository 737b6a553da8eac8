package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	"github.com/m04kA/HSP-SchedulingService/internal/infra/events"
	directoryClient "github.com/m04kA/HSP-SchedulingService/internal/integrations/directoryservice"
	"github.com/m04kA/HSP-SchedulingService/internal/service/conflicts"
	"github.com/m04kA/HSP-SchedulingService/internal/service/pricing"
	"github.com/m04kA/HSP-SchedulingService/internal/service/timevalidator"
	"github.com/m04kA/HSP-SchedulingService/pkg/ptr"
	"github.com/m04kA/HSP-SchedulingService/pkg/types"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo     BookingRepository
	statsRepo       CustomerStatsRepository
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
	statsRepo CustomerStatsRepository,
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
		statsRepo:       statsRepo,
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

// Execute выполняет use case создания бронирования
// Проверка конфликтов и запись выполняются в одной сериализуемой транзакции,
// что исключает гонку двух одновременных бронирований на один слот
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: tenant=%d, customer=%d, service=%d, scheduledAt=%s, homeVisit=%t",
		req.TenantID, req.CustomerID, req.ServiceID, req.ScheduledAt.Format(time.RFC3339), req.IsHomeVisit)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем тенанта
	tenant, err := uc.directoryClient.GetTenant(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrTenantNotFound) {
			uc.logger.Warn("CreateBooking: tenant id=%d not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("CreateBooking: failed to get tenant id=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	// 4. Получаем услугу и проверяем, что она активна
	service, err := uc.directoryClient.GetService(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found for tenant=%d", req.ServiceID, req.TenantID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}
	if err := validateDuration(service.DurationMinutes); err != nil {
		uc.logger.Warn("CreateBooking: service id=%d has invalid duration: %v", req.ServiceID, err)
		return nil, err
	}

	// 5. Для выездного визита услуга должна поддерживать выезд
	if req.IsHomeVisit && !service.HomeVisitAvailable {
		uc.logger.Warn("CreateBooking: service id=%d does not support home visits", req.ServiceID)
		return nil, ErrHomeVisitNotAvailable
	}

	// 6. Проверяем существование клиента (fail closed: справочник недоступен -
	// бронирование не создается)
	if _, err := uc.directoryClient.GetCustomer(ctx, req.TenantID, req.CustomerID); err != nil {
		if errors.Is(err, directoryClient.ErrCustomerNotFound) {
			uc.logger.Warn("CreateBooking: customer id=%d not found for tenant=%d", req.CustomerID, req.TenantID)
			return nil, ErrCustomerNotFound
		}
		uc.logger.Error("CreateBooking: failed to get customer id=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
	}

	// 7. Рассчитываем стоимость до транзакции: внешний HTTP-вызов не должен
	// удерживать блокировки БД
	quote, err := uc.pricingCalc.Calculate(ctx, service, req.IsHomeVisit, req.HomeVisitAddress, req.HomeVisitLocation)
	if err != nil {
		if errors.Is(err, pricing.ErrOutOfServiceArea) {
			uc.logger.Warn("CreateBooking: address out of service area for tenant=%d", req.TenantID)
			return nil, ErrOutOfServiceArea
		}
		uc.logger.Error("CreateBooking: failed to calculate price: %v", err)
		return nil, fmt.Errorf("%w: failed to calculate price: %v", ErrInternal, err)
	}

	var result *domain.Booking

	// 8. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Разрешаем политику планирования (услуга > тенант > значения по умолчанию)
		policy, err := uc.policyService.Resolve(txCtx, req.TenantID, ptr.Ptr(req.ServiceID))
		if err != nil {
			uc.logger.Error("CreateBooking: failed to resolve policy: %v", err)
			return fmt.Errorf("%w: failed to resolve policy: %v", ErrInternal, err)
		}

		// 8.2. Валидация времени относительно "сейчас"
		if err := uc.timeValidator.Validate(req.ScheduledAt, now, policy.MinBookingNoticeMinutes, policy.AdvanceBookingDays); err != nil {
			uc.logger.Warn("CreateBooking: time validation failed: %v", err)
			switch {
			case errors.Is(err, timevalidator.ErrTimeInPast):
				return ErrTimeInPast
			case errors.Is(err, timevalidator.ErrTooSoon):
				return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, policy.MinBookingNoticeMinutes)
			case errors.Is(err, timevalidator.ErrTooFarAhead):
				return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, policy.AdvanceBookingDays)
			default:
				return fmt.Errorf("%w: time validation: %v", ErrInternal, err)
			}
		}

		// 8.3. Разрешаем рабочие часы тенанта на дату
		window, err := uc.hoursResolver.ResolveForDate(tenant, req.ScheduledAt)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to resolve business hours: %v", err)
			return fmt.Errorf("%w: failed to resolve business hours: %v", ErrInternal, err)
		}
		if !window.IsOpen {
			uc.logger.Warn("CreateBooking: tenant=%d is closed on %s",
				req.TenantID, req.ScheduledAt.Format(domain.DateFormat))
			return ErrTenantClosed
		}

		// 8.4. Интервал должен целиком помещаться в рабочее окно
		startTime := types.NewTimeString(req.ScheduledAt)
		endTime, err := startTime.AddMinutes(service.DurationMinutes)
		if err != nil {
			// Интервал пересекает полночь
			return ErrOutsideBusinessHours
		}
		if !window.Contains(startTime, endTime) {
			uc.logger.Warn("CreateBooking: interval [%s, %s] is outside window [%s, %s]",
				startTime, endTime, window.OpenTime, window.CloseTime)
			return ErrOutsideBusinessHours
		}

		// 8.5. Проверяем конфликты с блокировкой строк (FOR UPDATE)
		conflict, err := uc.detector.Check(txCtx, conflicts.CheckInput{
			TenantID:            req.TenantID,
			StartAt:             req.ScheduledAt,
			DurationMinutes:     service.DurationMinutes,
			IsHomeVisit:         req.IsHomeVisit,
			TravelBufferMinutes: policy.TravelBufferMinutes,
			Statuses:            domain.ActiveStatuses,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: conflict check failed: %v", err)
			return fmt.Errorf("%w: conflict check failed: %v", ErrInternal, err)
		}
		if conflict.HasConflict {
			uc.logger.Warn("CreateBooking: conflict with bookings %v (%s)",
				conflict.ConflictingIDs(), conflict.Reason)
			return &ConflictError{Conflict: conflict}
		}

		// 8.6. Создаем бронирование
		booking := &domain.Booking{
			TenantID:          req.TenantID,
			CustomerID:        req.CustomerID,
			ServiceID:         req.ServiceID,
			ScheduledAt:       req.ScheduledAt,
			DurationMinutes:   service.DurationMinutes,
			Status:            domain.StatusPending,
			IsHomeVisit:       req.IsHomeVisit,
			HomeVisitAddress:  req.HomeVisitAddress,
			HomeVisitLocation: req.HomeVisitLocation,
			TotalAmount:       quote.Total,
			PaymentStatus:     domain.PaymentPending,
			Notes:             req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 8.7. Увеличиваем счетчик бронирований клиента в той же транзакции
		if err := uc.statsRepo.IncrementBookings(txCtx, req.TenantID, req.CustomerID, now); err != nil {
			uc.logger.Error("CreateBooking: failed to increment customer stats: %v", err)
			return fmt.Errorf("%w: failed to increment customer stats: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// 9. Событие и инвалидация кеша слотов вне транзакции, ошибки не фатальны
	if err := uc.publisher.Publish(ctx, events.EventBookingCreated, result); err != nil {
		uc.logger.Error("CreateBooking: failed to publish event for booking id=%d: %v", result.ID, err)
	}
	date := result.ScheduledAt.Format(domain.DateFormat)
	if err := uc.slotsCache.InvalidateDay(ctx, result.TenantID, date); err != nil {
		uc.logger.Error("CreateBooking: failed to invalidate slots cache for tenant=%d date=%s: %v",
			result.TenantID, date, err)
	}

	return toResponse(result, quote), nil
}

// toResponse конвертирует созданное бронирование и расчет стоимости в ответ
func toResponse(b *domain.Booking, quote *pricing.Quote) *Response {
	return &Response{
		ID:               b.ID,
		TenantID:         b.TenantID,
		CustomerID:       b.CustomerID,
		ServiceID:        b.ServiceID,
		ScheduledAt:      b.ScheduledAt,
		ScheduledEnd:     b.ScheduledEnd(),
		DurationMinutes:  b.DurationMinutes,
		Status:           string(b.Status),
		IsHomeVisit:      b.IsHomeVisit,
		HomeVisitAddress: b.HomeVisitAddress,
		TotalAmount:      b.TotalAmount.StringFixed(2),
		Price: PriceBreakdown{
			BasePrice:          quote.BasePrice.StringFixed(2),
			HomeVisitSurcharge: quote.HomeVisitSurcharge.StringFixed(2),
			LocationSurcharge:  quote.LocationSurcharge.StringFixed(2),
			Total:              quote.Total.StringFixed(2),
			Degraded:           quote.Degraded,
		},
		PaymentStatus: string(b.PaymentStatus),
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
