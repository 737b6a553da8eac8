package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/HSP-SchedulingService/internal/api/handlers"
	"github.com/m04kA/HSP-SchedulingService/internal/api/middleware"
	createBooking "github.com/m04kA/HSP-SchedulingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidScheduledAt    = "некорректный формат времени, ожидается RFC3339"
	msgMissingTenantID       = "отсутствует ID тенанта"
	msgTenantNotFound        = "тенант не найден"
	msgServiceNotFound       = "услуга не найдена"
	msgServiceInactive       = "услуга недоступна"
	msgCustomerNotFound      = "клиент не найден"
	msgHomeVisitNotAvailable = "выезд недоступен для этой услуги"
	msgOutOfServiceArea      = "адрес вне зоны обслуживания"
	msgTimeInPast            = "время бронирования уже прошло"
	msgTooLateToBook         = "слишком поздно для бронирования этого слота"
	msgDateTooFar            = "дата бронирования слишком далеко в будущем"
	msgTenantClosed          = "тенант закрыт в выбранную дату"
	msgOutsideBusinessHours  = "время вне рабочих часов"
	msgConflict              = "выбранное время конфликтует с существующими бронированиями"
	msgInvalidInput          = "некорректные данные запроса"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(tenantID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidScheduledAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflictErr *createBooking.ConflictError

		switch {
		case errors.As(err, &conflictErr):
			h.logger.Warn("POST /bookings - Conflict: tenant_id=%d, bookings=%v",
				tenantID, conflictErr.Conflict.ConflictingIDs())
			handlers.RespondJSON(w, http.StatusConflict, ConflictResponse{
				Error:                 msgConflict,
				Reason:                string(conflictErr.Conflict.Reason),
				ConflictingBookingIDs: conflictErr.Conflict.ConflictingIDs(),
			})

		case errors.Is(err, createBooking.ErrTenantNotFound):
			h.logger.Warn("POST /bookings - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: tenant_id=%d, service_id=%d", tenantID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrCustomerNotFound):
			h.logger.Warn("POST /bookings - Customer not found: tenant_id=%d, customer_id=%d", tenantID, req.CustomerID)
			handlers.RespondNotFound(w, msgCustomerNotFound)

		case errors.Is(err, createBooking.ErrServiceInactive):
			h.logger.Warn("POST /bookings - Service inactive: tenant_id=%d, service_id=%d", tenantID, req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, createBooking.ErrHomeVisitNotAvailable):
			h.logger.Warn("POST /bookings - Home visit not available: tenant_id=%d, service_id=%d", tenantID, req.ServiceID)
			handlers.RespondBadRequest(w, msgHomeVisitNotAvailable)

		case errors.Is(err, createBooking.ErrOutOfServiceArea):
			h.logger.Warn("POST /bookings - Out of service area: tenant_id=%d", tenantID)
			handlers.RespondBadRequest(w, msgOutOfServiceArea)

		case errors.Is(err, createBooking.ErrTimeInPast):
			h.logger.Warn("POST /bookings - Time in past: tenant_id=%d", tenantID)
			handlers.RespondBadRequest(w, msgTimeInPast)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			h.logger.Warn("POST /bookings - Too late to book: tenant_id=%d", tenantID)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far in future: tenant_id=%d", tenantID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrTenantClosed):
			h.logger.Warn("POST /bookings - Tenant closed: tenant_id=%d", tenantID)
			handlers.RespondBadRequest(w, msgTenantClosed)

		case errors.Is(err, createBooking.ErrOutsideBusinessHours):
			h.logger.Warn("POST /bookings - Outside business hours: tenant_id=%d", tenantID)
			handlers.RespondBadRequest(w, msgOutsideBusinessHours)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: tenant_id=%d, error=%v", tenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, tenant_id=%d",
		result.ID, tenantID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
