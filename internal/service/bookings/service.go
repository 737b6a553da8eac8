package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	"github.com/m04kA/HSP-SchedulingService/internal/infra/events"
	bookingRepo "github.com/m04kA/HSP-SchedulingService/internal/infra/storage/booking"
	statsRepo "github.com/m04kA/HSP-SchedulingService/internal/infra/storage/customerstats"
	"github.com/m04kA/HSP-SchedulingService/internal/service/bookings/models"
)

// Service сервис чтения и жизненного цикла бронирований
// Создание и перенос бронирований с проверкой конфликтов живут в usecase-слое
type Service struct {
	bookingRepo BookingRepository
	statsRepo   CustomerStatsRepository
	txManager   TransactionManager
	publisher   EventPublisher
	slotsCache  SlotsCache
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	statsRepo CustomerStatsRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	slotsCache SlotsCache,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		statsRepo:   statsRepo,
		txManager:   txManager,
		publisher:   publisher,
		slotsCache:  slotsCache,
		logger:      logger,
	}
}

// GetByID получает бронирование тенанта по ID
func (s *Service) GetByID(ctx context.Context, tenantID, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for tenant=%d", id, tenantID)

	booking, err := s.bookingRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found for tenant=%d", id, tenantID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// List получает бронирования тенанта с фильтрацией и пагинацией
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("List: fetching bookings for tenant=%d, customer=%v, service=%v, status=%v",
		req.TenantID, req.CustomerID, req.ServiceID, req.Status)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d bookings for tenant=%d", len(bookings), req.TenantID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Отмена разрешена только из статусов pending и confirmed
func (s *Service) Cancel(ctx context.Context, tenantID, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d for tenant=%d", id, tenantID)

	if len(req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellationReason too long", ErrInvalidInput)
	}

	var cancelled *domain.Booking

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		booking, err := s.bookingRepo.GetByID(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", id, booking.Status)
			return ErrCannotCancel
		}

		if err := s.bookingRepo.Cancel(ctx, tenantID, id, req.CancellationReason); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		cancelled, err = s.bookingRepo.GetByID(ctx, tenantID, id)
		if err != nil {
			return fmt.Errorf("%w: Cancel - reload booking: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrCannotCancel) {
			return nil, err
		}
		s.logger.Error("Cancel: transaction failed for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - transaction failed: %v", ErrInternal, err)
	}

	s.afterChange(ctx, events.EventBookingCancelled, cancelled)

	s.logger.Info("Cancel: successfully cancelled booking id=%d", id)
	return models.FromDomainBooking(cancelled), nil
}

// UpdateStatus переводит бронирование в новый статус
// Допустимые переходы: pending -> confirmed, pending/confirmed -> cancelled,
// confirmed -> completed; терминальные статусы заморожены
func (s *Service) UpdateStatus(ctx context.Context, tenantID, id int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s for tenant=%d", id, req.Status, tenantID)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, id)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	var updated *domain.Booking

	err = s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		booking, err := s.bookingRepo.GetByID(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		if !booking.Status.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for booking id=%d",
				booking.Status, newStatus, id)
			return ErrInvalidTransition
		}

		upd := bookingRepo.Update{Status: &newStatus}
		if err := s.bookingRepo.ApplyUpdate(ctx, tenantID, id, upd); err != nil {
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		updated, err = s.bookingRepo.GetByID(ctx, tenantID, id)
		if err != nil {
			return fmt.Errorf("%w: UpdateStatus - reload booking: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrInvalidTransition) {
			return nil, err
		}
		s.logger.Error("UpdateStatus: transaction failed for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateStatus - transaction failed: %v", ErrInternal, err)
	}

	s.afterChange(ctx, events.EventBookingUpdated, updated)

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", id, newStatus)
	return models.FromDomainBooking(updated), nil
}

// Delete удаляет бронирование и уменьшает счетчик бронирований клиента
// в одной сериализуемой транзакции
func (s *Service) Delete(ctx context.Context, tenantID, id int64) error {
	s.logger.Info("Delete: deleting booking id=%d for tenant=%d", id, tenantID)

	var deleted *domain.Booking

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		booking, err := s.bookingRepo.GetByID(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}

		if err := s.bookingRepo.Delete(ctx, tenantID, id); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}

		// Счетчик клиента не уходит ниже нуля; отсутствие строки статистики
		// не ошибка - бронирование могло быть создано до появления счетчиков
		if err := s.statsRepo.DecrementBookings(ctx, tenantID, booking.CustomerID); err != nil {
			if !errors.Is(err, statsRepo.ErrStatsNotFound) {
				return fmt.Errorf("%w: Delete - decrement customer stats: %v", ErrInternal, err)
			}
		}

		deleted = booking
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return err
		}
		s.logger.Error("Delete: transaction failed for booking id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - transaction failed: %v", ErrInternal, err)
	}

	s.afterChange(ctx, events.EventBookingDeleted, deleted)

	s.logger.Info("Delete: successfully deleted booking id=%d", id)
	return nil
}

// afterChange публикует событие и инвалидирует кеш слотов на день бронирования
// Ошибки не фатальны: бронирование уже изменено, события и кеш вторичны
func (s *Service) afterChange(ctx context.Context, eventType events.EventType, booking *domain.Booking) {
	if booking == nil {
		return
	}

	if err := s.publisher.Publish(ctx, eventType, booking); err != nil {
		s.logger.Error("afterChange: failed to publish %s for booking id=%d: %v", eventType, booking.ID, err)
	}

	date := booking.ScheduledAt.Format(domain.DateFormat)
	if err := s.slotsCache.InvalidateDay(ctx, booking.TenantID, date); err != nil {
		s.logger.Error("afterChange: failed to invalidate slots cache for tenant=%d date=%s: %v",
			booking.TenantID, date, err)
	}
}
