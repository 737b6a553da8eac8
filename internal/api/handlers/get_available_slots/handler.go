package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/HSP-SchedulingService/internal/api/handlers"
	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	getAvailableSlots "github.com/m04kA/HSP-SchedulingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidTenantID       = "некорректный ID тенанта"
	msgInvalidServiceID      = "некорректный ID услуги"
	msgInvalidDate           = "некорректная дата, ожидается формат YYYY-MM-DD"
	msgTenantNotFound        = "тенант не найден"
	msgServiceNotFound       = "услуга не найдена"
	msgServiceInactive       = "услуга недоступна"
	msgHomeVisitNotAvailable = "выезд недоступен для этой услуги"
	msgDateTooFar            = "дата слишком далеко в будущем"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tenants/{tenantId}/services/{serviceId}/available-slots?date=YYYY-MM-DD&homeVisit=true
// Публичный эндпоинт: тенант берется из пути, а не из заголовка
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	tenantID, err := strconv.ParseInt(vars["tenantId"], 10, 64)
	if err != nil || tenantID <= 0 {
		h.logger.Warn("GET /available-slots - Invalid tenant ID: %s", vars["tenantId"])
		handlers.RespondBadRequest(w, msgInvalidTenantID)
		return
	}

	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil || serviceID <= 0 {
		h.logger.Warn("GET /available-slots - Invalid service ID: %s", vars["serviceId"])
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid date: %s", r.URL.Query().Get("date"))
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	isHomeVisit := r.URL.Query().Get("homeVisit") == "true"

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		TenantID:    tenantID,
		ServiceID:   serviceID,
		Date:        date,
		IsHomeVisit: isHomeVisit,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrTenantNotFound):
			h.logger.Warn("GET /available-slots - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)
		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /available-slots - Service not found: tenant_id=%d, service_id=%d", tenantID, serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)
		case errors.Is(err, getAvailableSlots.ErrServiceInactive):
			h.logger.Warn("GET /available-slots - Service inactive: tenant_id=%d, service_id=%d", tenantID, serviceID)
			handlers.RespondBadRequest(w, msgServiceInactive)
		case errors.Is(err, getAvailableSlots.ErrHomeVisitNotAvailable):
			h.logger.Warn("GET /available-slots - Home visit not available: tenant_id=%d, service_id=%d", tenantID, serviceID)
			handlers.RespondBadRequest(w, msgHomeVisitNotAvailable)
		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /available-slots - Date too far in future: tenant_id=%d, date=%s",
				tenantID, date.Format(domain.DateFormat))
			handlers.RespondBadRequest(w, msgDateTooFar)
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /available-slots - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidDate)
		default:
			h.logger.Error("GET /available-slots - Failed to get slots: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
