package get_available_slots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	slotsCache "github.com/m04kA/HSP-SchedulingService/internal/infra/cache/slots"
	directoryClient "github.com/m04kA/HSP-SchedulingService/internal/integrations/directoryservice"
	"github.com/m04kA/HSP-SchedulingService/pkg/ptr"
)

// UseCase use case для получения сетки слотов на дату
// Расчет чисто читающий и идемпотентный: сетка не резервирует слоты,
// повторный запрос с теми же параметрами дает тот же результат
type UseCase struct {
	bookingRepo     BookingRepository
	checker         ConflictChecker
	policyService   PolicyService
	hoursResolver   BusinessHoursResolver
	directoryClient DirectoryServiceClient
	cache           SlotsCache
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	checker ConflictChecker,
	policyService PolicyService,
	hoursResolver BusinessHoursResolver,
	directoryClient DirectoryServiceClient,
	cache SlotsCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:     bookingRepo,
		checker:         checker,
		policyService:   policyService,
		hoursResolver:   hoursResolver,
		directoryClient: directoryClient,
		cache:           cache,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения сетки слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: tenant=%d, service=%d, date=%s, homeVisit=%t",
		req.TenantID, req.ServiceID, req.Date.Format(domain.DateFormat), req.IsHomeVisit)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	dateStr := req.Date.Format(domain.DateFormat)

	// 2. Получаем тенанта и услугу
	tenant, err := uc.directoryClient.GetTenant(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrTenantNotFound) {
			uc.logger.Warn("GetAvailableSlots: tenant id=%d not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get tenant id=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	service, err := uc.directoryClient.GetService(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		if errors.Is(err, directoryClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		return nil, ErrServiceInactive
	}
	if req.IsHomeVisit && !service.HomeVisitAvailable {
		return nil, ErrHomeVisitNotAvailable
	}

	// 3. Пробуем кеш: ключ включает все параметры, влияющие на сетку
	cacheKey := slotsCache.Key(req.TenantID, dateStr, req.ServiceID, req.IsHomeVisit, service.DurationMinutes)
	if cached, err := uc.cache.Get(ctx, cacheKey); err == nil {
		var resp Response
		if err := json.Unmarshal(cached, &resp); err == nil {
			uc.logger.Info("GetAvailableSlots: cache hit for %s", cacheKey)
			return &resp, nil
		}
		uc.logger.Warn("GetAvailableSlots: failed to decode cached response for %s: %v", cacheKey, err)
	} else if !errors.Is(err, slotsCache.ErrCacheMiss) {
		// Недоступность кеша не блокирует расчет
		uc.logger.Warn("GetAvailableSlots: cache error for %s: %v", cacheKey, err)
	}

	// 4. Разрешаем политику планирования
	policy, err := uc.policyService.Resolve(ctx, req.TenantID, ptr.Ptr(req.ServiceID))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve policy: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve policy: %v", ErrInternal, err)
	}

	// 5. Проверяем горизонт записи
	if policy.AdvanceBookingDays > 0 {
		horizon := now.AddDate(0, 0, policy.AdvanceBookingDays)
		if req.Date.After(horizon) {
			return nil, fmt.Errorf("%w: can only view %d days ahead", ErrDateTooFarInFuture, policy.AdvanceBookingDays)
		}
	}

	// 6. Разрешаем рабочие часы: закрытый день дает пустую сетку, не ошибку
	window, err := uc.hoursResolver.ResolveForDate(tenant, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve business hours: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve business hours: %v", ErrInternal, err)
	}
	if !window.IsOpen {
		uc.logger.Info("GetAvailableSlots: tenant=%d is closed on %s", req.TenantID, dateStr)
		resp := &Response{
			Date:        dateStr,
			TenantID:    req.TenantID,
			ServiceID:   req.ServiceID,
			IsHomeVisit: req.IsHomeVisit,
			IsOpen:      false,
			Slots:       []Slot{},
		}
		uc.storeInCache(ctx, cacheKey, resp)
		return resp, nil
	}

	// 7. Генерируем сетку слотов
	starts, err := generateSlotStarts(window, policy.SlotStepMinutes, service.DurationMinutes, req.Date, now, policy.MinBookingNoticeMinutes)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	// 8. Загружаем подтвержденные бронирования с запасом на буфер по краям дня
	// Pending-бронирования не скрывают слоты в календаре
	dayStart := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, req.Date.Location())
	from := dayStart.Add(-domain.ConflictScanWindow)
	to := dayStart.AddDate(0, 0, 1).Add(domain.ConflictScanWindow)

	bookings, err := uc.bookingRepo.GetInWindow(ctx, req.TenantID, from, to, domain.SlotBlockingStatuses)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 9. Проверяем каждый слот против бронирований дня
	slots, err := annotateSlots(uc.checker, starts, bookings, req.TenantID, req.Date,
		service.DurationMinutes, req.IsHomeVisit, policy.TravelBufferMinutes)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to annotate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to annotate slots: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for tenant=%d, service=%d, date=%s",
		len(slots), req.TenantID, req.ServiceID, dateStr)

	resp := &Response{
		Date:        dateStr,
		TenantID:    req.TenantID,
		ServiceID:   req.ServiceID,
		IsHomeVisit: req.IsHomeVisit,
		IsOpen:      true,
		OpenTime:    ptr.Ptr(window.OpenTime),
		CloseTime:   ptr.Ptr(window.CloseTime),
		Slots:       fromDomainSlots(slots),
	}
	uc.storeInCache(ctx, cacheKey, resp)
	return resp, nil
}

// storeInCache сохраняет ответ в кеш; ошибки кеша не фатальны
func (uc *UseCase) storeInCache(ctx context.Context, key string, resp *Response) {
	value, err := json.Marshal(resp)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: failed to encode response for cache: %v", err)
		return
	}
	if err := uc.cache.Set(ctx, key, value); err != nil {
		uc.logger.Warn("GetAvailableSlots: failed to store response in cache: %v", err)
	}
}
