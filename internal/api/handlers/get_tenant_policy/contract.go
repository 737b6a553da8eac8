package get_tenant_policy

import (
	"context"

	"github.com/m04kA/HSP-SchedulingService/internal/service/policy/models"
)

type PolicyService interface {
	GetTenantPolicy(ctx context.Context, tenantID int64) (*models.TenantPolicyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
