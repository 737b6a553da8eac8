package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	"github.com/m04kA/HSP-SchedulingService/internal/integrations/directoryservice"
	"github.com/m04kA/HSP-SchedulingService/internal/service/conflicts"
	policyModels "github.com/m04kA/HSP-SchedulingService/internal/service/policy/models"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetInWindow(ctx context.Context, tenantID int64, from, to time.Time, statuses []domain.BookingStatus) ([]*domain.Booking, error)
}

// ConflictChecker интерфейс проверки слота против загруженных бронирований
// Бронирования дня загружаются один раз и проверяются для каждого слота сетки
type ConflictChecker interface {
	CheckAgainst(existing []*domain.Booking, in conflicts.CheckInput) *domain.BookingConflict
}

// PolicyService интерфейс сервиса политик планирования
type PolicyService interface {
	Resolve(ctx context.Context, tenantID int64, serviceID *int64) (policyModels.ResolvedPolicy, error)
}

// BusinessHoursResolver интерфейс резолвера рабочих часов
type BusinessHoursResolver interface {
	ResolveForDate(tenant *directoryservice.Tenant, date time.Time) (domain.BusinessWindow, error)
}

// DirectoryServiceClient интерфейс клиента для DirectoryService
type DirectoryServiceClient interface {
	GetTenant(ctx context.Context, tenantID int64) (*directoryservice.Tenant, error)
	GetService(ctx context.Context, tenantID, serviceID int64) (*directoryservice.Service, error)
}

// SlotsCache интерфейс кеша сеток слотов
type SlotsCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
