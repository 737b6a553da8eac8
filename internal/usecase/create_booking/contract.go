package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	"github.com/m04kA/HSP-SchedulingService/internal/infra/events"
	"github.com/m04kA/HSP-SchedulingService/internal/integrations/directoryservice"
	"github.com/m04kA/HSP-SchedulingService/internal/service/conflicts"
	policyModels "github.com/m04kA/HSP-SchedulingService/internal/service/policy/models"
	"github.com/m04kA/HSP-SchedulingService/internal/service/pricing"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// CustomerStatsRepository интерфейс репозитория статистики клиентов
type CustomerStatsRepository interface {
	IncrementBookings(ctx context.Context, tenantID, customerID int64, bookedAt time.Time) error
}

// ConflictDetector интерфейс детектора конфликтов
type ConflictDetector interface {
	Check(ctx context.Context, in conflicts.CheckInput) (*domain.BookingConflict, error)
}

// PolicyService интерфейс сервиса политик планирования
type PolicyService interface {
	Resolve(ctx context.Context, tenantID int64, serviceID *int64) (policyModels.ResolvedPolicy, error)
}

// PricingCalculator интерфейс калькулятора стоимости
type PricingCalculator interface {
	Calculate(ctx context.Context, service *directoryservice.Service, isHomeVisit bool, address *string, location *domain.GeoPoint) (*pricing.Quote, error)
}

// BusinessHoursResolver интерфейс резолвера рабочих часов
type BusinessHoursResolver interface {
	ResolveForDate(tenant *directoryservice.Tenant, date time.Time) (domain.BusinessWindow, error)
}

// TimeValidator интерфейс валидатора времени бронирования
type TimeValidator interface {
	Validate(scheduledAt, now time.Time, minNoticeMinutes, advanceBookingDays int) error
}

// DirectoryServiceClient интерфейс клиента для DirectoryService
type DirectoryServiceClient interface {
	GetTenant(ctx context.Context, tenantID int64) (*directoryservice.Tenant, error)
	GetService(ctx context.Context, tenantID, serviceID int64) (*directoryservice.Service, error)
	GetCustomer(ctx context.Context, tenantID, customerID int64) (*directoryservice.Customer, error)
}

// EventPublisher интерфейс публикатора событий бронирований
type EventPublisher interface {
	Publish(ctx context.Context, eventType events.EventType, booking *domain.Booking) error
}

// SlotsCache интерфейс кеша сеток слотов
type SlotsCache interface {
	InvalidateDay(ctx context.Context, tenantID int64, date string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
