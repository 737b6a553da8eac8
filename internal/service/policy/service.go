package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	policyRepo "github.com/m04kA/HSP-SchedulingService/internal/infra/storage/policy"
	directoryClient "github.com/m04kA/HSP-SchedulingService/internal/integrations/directoryservice"
	"github.com/m04kA/HSP-SchedulingService/internal/service/policy/models"
)

// Service сервис для работы с политиками планирования
// Разрешает действующие значения по иерархии услуга > тенант > платформенные
// значения по умолчанию из конфигурации
type Service struct {
	policyRepo      PolicyRepository
	directoryClient DirectoryServiceClient
	defaults        models.ResolvedPolicy
	logger          Logger
}

// NewService создает новый экземпляр сервиса политик
func NewService(
	policyRepo PolicyRepository,
	directoryClient DirectoryServiceClient,
	defaults models.ResolvedPolicy,
	logger Logger,
) *Service {
	return &Service{
		policyRepo:      policyRepo,
		directoryClient: directoryClient,
		defaults:        defaults,
		logger:          logger,
	}
}

// Resolve возвращает действующую политику для тенанта и услуги
// Отсутствие строк в БД не ошибка: применяются значения по умолчанию
func (s *Service) Resolve(ctx context.Context, tenantID int64, serviceID *int64) (models.ResolvedPolicy, error) {
	p, err := s.policyRepo.GetWithHierarchy(ctx, tenantID, serviceID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			return s.defaults, nil
		}
		s.logger.Error("Resolve: repository error for tenant=%d: %v", tenantID, err)
		return models.ResolvedPolicy{}, fmt.Errorf("%w: Resolve - repository error: %v", ErrInternal, err)
	}

	return models.ResolvedPolicy{
		SlotStepMinutes:         p.SlotStepMinutes,
		TravelBufferMinutes:     p.TravelBufferMinutes,
		MinBookingNoticeMinutes: p.MinBookingNoticeMinutes,
		AdvanceBookingDays:      p.AdvanceBookingDays,
	}, nil
}

// GetTenantPolicy возвращает действующую политику уровня тенанта
// и все переопределения (уровня тенанта и услуг)
func (s *Service) GetTenantPolicy(ctx context.Context, tenantID int64) (*models.TenantPolicyResponse, error) {
	s.logger.Info("GetTenantPolicy: fetching policy for tenant=%d", tenantID)

	if _, err := s.directoryClient.GetTenant(ctx, tenantID); err != nil {
		if errors.Is(err, directoryClient.ErrTenantNotFound) {
			s.logger.Warn("GetTenantPolicy: tenant id=%d not found", tenantID)
			return nil, ErrTenantNotFound
		}
		s.logger.Error("GetTenantPolicy: failed to get tenant id=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	effective, err := s.Resolve(ctx, tenantID, nil)
	if err != nil {
		return nil, err
	}

	overrides, err := s.policyRepo.GetAllByTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error("GetTenantPolicy: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: GetTenantPolicy - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetTenantPolicy: successfully fetched policy for tenant=%d, %d overrides",
		tenantID, len(overrides))
	return &models.TenantPolicyResponse{
		Effective: effective,
		Overrides: models.FromDomainPolicyList(overrides),
	}, nil
}

// Upsert создает или обновляет политику тенанта
// Проверяет существование тенанта и услуги (если указана) в DirectoryService
func (s *Service) Upsert(ctx context.Context, req *models.UpsertPolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Upsert: upserting policy for tenant=%d, service=%v", req.TenantID, req.ServiceID)

	// 1. Валидируем параметры
	candidate := req.ToDomainPolicy(s.defaults)
	if err := s.validatePolicy(candidate); err != nil {
		s.logger.Warn("Upsert: validation failed for tenant=%d: %v", req.TenantID, err)
		return nil, err
	}

	// 2. Проверяем существование тенанта
	if _, err := s.directoryClient.GetTenant(ctx, req.TenantID); err != nil {
		if errors.Is(err, directoryClient.ErrTenantNotFound) {
			s.logger.Warn("Upsert: tenant id=%d not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		s.logger.Error("Upsert: failed to get tenant id=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	// 3. Если указана услуга, проверяем её существование и принадлежность тенанту
	if req.ServiceID != nil {
		if _, err := s.directoryClient.GetService(ctx, req.TenantID, *req.ServiceID); err != nil {
			if errors.Is(err, directoryClient.ErrServiceNotFound) {
				s.logger.Warn("Upsert: service id=%d not found for tenant=%d", *req.ServiceID, req.TenantID)
				return nil, ErrServiceNotFound
			}
			s.logger.Error("Upsert: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
	}

	// 4. Создаем или обновляем политику
	saved, err := s.policyRepo.Upsert(ctx, candidate)
	if err != nil {
		s.logger.Error("Upsert: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: successfully upserted policy id=%d for tenant=%d", saved.ID, saved.TenantID)
	return models.FromDomainPolicy(saved), nil
}

// validatePolicy валидирует параметры политики
func (s *Service) validatePolicy(p *domain.SchedulingPolicy) error {
	if p.SlotStepMinutes < domain.MinSlotStepMinutes || p.SlotStepMinutes > domain.MaxSlotStepMinutes {
		return fmt.Errorf("%w: slotStepMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotStepMinutes, domain.MaxSlotStepMinutes)
	}
	if p.TravelBufferMinutes < domain.MinTravelBufferMinutes || p.TravelBufferMinutes > domain.MaxTravelBufferMinutes {
		return fmt.Errorf("%w: travelBufferMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinTravelBufferMinutes, domain.MaxTravelBufferMinutes)
	}
	if p.MinBookingNoticeMinutes < 0 || p.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between 0 and %d",
			ErrInvalidInput, domain.MaxBookingNoticeMinutes)
	}
	if p.AdvanceBookingDays < 0 || p.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between 0 and %d",
			ErrInvalidInput, domain.MaxAdvanceBookingDays)
	}
	return nil
}
