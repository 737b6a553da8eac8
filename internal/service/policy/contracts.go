package policy

import (
	"context"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	"github.com/m04kA/HSP-SchedulingService/internal/integrations/directoryservice"
)

// PolicyRepository интерфейс репозитория политик планирования
type PolicyRepository interface {
	GetWithHierarchy(ctx context.Context, tenantID int64, serviceID *int64) (*domain.SchedulingPolicy, error)
	GetAllByTenant(ctx context.Context, tenantID int64) ([]*domain.SchedulingPolicy, error)
	Upsert(ctx context.Context, p *domain.SchedulingPolicy) (*domain.SchedulingPolicy, error)
}

// DirectoryServiceClient интерфейс клиента для DirectoryService
type DirectoryServiceClient interface {
	GetTenant(ctx context.Context, tenantID int64) (*directoryservice.Tenant, error)
	GetService(ctx context.Context, tenantID, serviceID int64) (*directoryservice.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
