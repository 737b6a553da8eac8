package update_tenant_policy

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/HSP-SchedulingService/internal/api/handlers"
	"github.com/m04kA/HSP-SchedulingService/internal/api/middleware"
	"github.com/m04kA/HSP-SchedulingService/internal/service/policy"
	"github.com/m04kA/HSP-SchedulingService/internal/service/policy/models"
)

const (
	msgMissingTenantID    = "отсутствует ID тенанта"
	msgInvalidTenantID    = "некорректный ID тенанта"
	msgTenantMismatch     = "нет доступа к политикам другого тенанта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgTenantNotFound     = "тенант не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgInvalidInput       = "некорректные параметры политики"
)

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/tenants/{tenantId}/policy
// Тенант из пути должен совпадать с тенантом из заголовка X-Tenant-ID
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	authTenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("PUT /tenants/{tenantId}/policy - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	tenantID, err := strconv.ParseInt(mux.Vars(r)["tenantId"], 10, 64)
	if err != nil || tenantID <= 0 {
		h.logger.Warn("PUT /tenants/{tenantId}/policy - Invalid tenant ID: %s", mux.Vars(r)["tenantId"])
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	if tenantID != authTenantID {
		h.logger.Warn("PUT /tenants/{tenantId}/policy - Tenant mismatch: path=%d, header=%d",
			tenantID, authTenantID)
		handlers.RespondForbidden(w, msgTenantMismatch)
		return
	}

	var req models.UpsertPolicyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /tenants/{tenantId}/policy - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.TenantID = tenantID

	result, err := h.service.Upsert(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, policy.ErrTenantNotFound):
			h.logger.Warn("PUT /tenants/{tenantId}/policy - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)
		case errors.Is(err, policy.ErrServiceNotFound):
			h.logger.Warn("PUT /tenants/{tenantId}/policy - Service not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgServiceNotFound)
		case errors.Is(err, policy.ErrInvalidInput):
			h.logger.Warn("PUT /tenants/{tenantId}/policy - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)
		default:
			h.logger.Error("PUT /tenants/{tenantId}/policy - Failed to upsert policy: tenant_id=%d, error=%v",
				tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /tenants/{tenantId}/policy - Policy upserted: tenant_id=%d, policy_id=%d",
		tenantID, result.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
