package update_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/HSP-SchedulingService/internal/api/handlers"
	"github.com/m04kA/HSP-SchedulingService/internal/api/middleware"
	"github.com/m04kA/HSP-SchedulingService/internal/service/bookings"
	serviceModels "github.com/m04kA/HSP-SchedulingService/internal/service/bookings/models"
	updateBooking "github.com/m04kA/HSP-SchedulingService/internal/usecase/update_booking"
)

const (
	msgMissingTenantID      = "отсутствует ID тенанта"
	msgInvalidBookingID     = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidScheduledAt   = "некорректный формат времени, ожидается RFC3339"
	msgStatusMixedWithEdit  = "смена статуса не совмещается с изменением других полей"
	msgEmptyUpdate          = "запрос не содержит изменений"
	msgBookingNotFound      = "бронирование не найдено"
	msgBookingNotEditable   = "бронирование в текущем статусе нельзя изменить"
	msgInvalidTransition    = "недопустимый переход статуса"
	msgTenantNotFound       = "тенант не найден"
	msgServiceNotFound      = "услуга не найдена"
	msgHomeVisitUnavailable = "выезд недоступен для этой услуги"
	msgOutOfServiceArea     = "адрес вне зоны обслуживания"
	msgTimeInPast           = "время бронирования уже прошло"
	msgTooLateToBook        = "слишком поздно для переноса на этот слот"
	msgDateTooFar           = "дата бронирования слишком далеко в будущем"
	msgTenantClosed         = "тенант закрыт в выбранную дату"
	msgOutsideBusinessHours = "время вне рабочих часов"
	msgConflict             = "выбранное время конфликтует с существующими бронированиями"
	msgInvalidInput         = "некорректные данные запроса"
)

type Handler struct {
	useCase UpdateBookingUseCase
	service BookingService
	logger  Logger
}

func NewHandler(useCase UpdateBookingUseCase, service BookingService, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}
// Запрос со статусом обрабатывается как переход статуса, остальные поля -
// как перенос/правка бронирования; смешивать их нельзя
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{bookingId} - Missing tenant ID")
		handlers.RespondUnauthorized(w, msgMissingTenantID)
		return
	}

	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil || bookingID <= 0 {
		h.logger.Warn("PATCH /bookings/{bookingId} - Invalid booking ID: %s", mux.Vars(r)["bookingId"])
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{bookingId} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.Status != nil {
		if req.hasUpdateFields() {
			h.logger.Warn("PATCH /bookings/{bookingId} - Status mixed with other fields: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgStatusMixedWithEdit)
			return
		}
		h.updateStatus(w, r, tenantID, bookingID, *req.Status)
		return
	}

	h.updateBooking(w, r, tenantID, bookingID, &req)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request, tenantID, bookingID int64, status string) {
	result, err := h.service.UpdateStatus(r.Context(), tenantID, bookingID,
		&serviceModels.UpdateStatusRequest{Status: status})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{bookingId} - Booking not found: booking_id=%d, tenant_id=%d",
				bookingID, tenantID)
			handlers.RespondNotFound(w, msgBookingNotFound)
		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/{bookingId} - Invalid transition: booking_id=%d, status=%s",
				bookingID, status)
			handlers.RespondBadRequest(w, msgInvalidTransition)
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{bookingId} - Invalid status: booking_id=%d, status=%s",
				bookingID, status)
			handlers.RespondBadRequest(w, msgInvalidInput)
		default:
			h.logger.Error("PATCH /bookings/{bookingId} - Failed to update status: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{bookingId} - Status updated: booking_id=%d, status=%s", bookingID, status)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) updateBooking(w http.ResponseWriter, r *http.Request, tenantID, bookingID int64, req *UpdateBookingRequest) {
	useCaseReq, err := req.ToUseCaseRequest(tenantID, bookingID)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{bookingId} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidScheduledAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflictErr *updateBooking.ConflictError

		switch {
		case errors.As(err, &conflictErr):
			h.logger.Warn("PATCH /bookings/{bookingId} - Conflict: booking_id=%d, bookings=%v",
				bookingID, conflictErr.Conflict.ConflictingIDs())
			handlers.RespondJSON(w, http.StatusConflict, ConflictResponse{
				Error:                 msgConflict,
				Reason:                string(conflictErr.Conflict.Reason),
				ConflictingBookingIDs: conflictErr.Conflict.ConflictingIDs(),
			})

		case errors.Is(err, updateBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{bookingId} - Booking not found: booking_id=%d, tenant_id=%d",
				bookingID, tenantID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, updateBooking.ErrBookingNotEditable):
			h.logger.Warn("PATCH /bookings/{bookingId} - Booking not editable: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgBookingNotEditable)

		case errors.Is(err, updateBooking.ErrTenantNotFound):
			h.logger.Warn("PATCH /bookings/{bookingId} - Tenant not found: tenant_id=%d", tenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, updateBooking.ErrServiceNotFound):
			h.logger.Warn("PATCH /bookings/{bookingId} - Service not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, updateBooking.ErrHomeVisitNotAvailable):
			h.logger.Warn("PATCH /bookings/{bookingId} - Home visit not available: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgHomeVisitUnavailable)

		case errors.Is(err, updateBooking.ErrOutOfServiceArea):
			h.logger.Warn("PATCH /bookings/{bookingId} - Out of service area: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgOutOfServiceArea)

		case errors.Is(err, updateBooking.ErrTimeInPast):
			h.logger.Warn("PATCH /bookings/{bookingId} - Time in past: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgTimeInPast)

		case errors.Is(err, updateBooking.ErrTooLateToBook):
			h.logger.Warn("PATCH /bookings/{bookingId} - Too late to reschedule: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, updateBooking.ErrDateTooFarInFuture):
			h.logger.Warn("PATCH /bookings/{bookingId} - Date too far in future: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, updateBooking.ErrTenantClosed):
			h.logger.Warn("PATCH /bookings/{bookingId} - Tenant closed: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgTenantClosed)

		case errors.Is(err, updateBooking.ErrOutsideBusinessHours):
			h.logger.Warn("PATCH /bookings/{bookingId} - Outside business hours: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgOutsideBusinessHours)

		case errors.Is(err, updateBooking.ErrEmptyUpdate):
			h.logger.Warn("PATCH /bookings/{bookingId} - Empty update: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgEmptyUpdate)

		case errors.Is(err, updateBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{bookingId} - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /bookings/{bookingId} - Failed to update booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{bookingId} - Booking updated successfully: booking_id=%d", bookingID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
