package bookings

import (
	"context"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	"github.com/m04kA/HSP-SchedulingService/internal/infra/events"
	bookingRepo "github.com/m04kA/HSP-SchedulingService/internal/infra/storage/booking"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, tenantID, id int64) (*domain.Booking, error)
	ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	ApplyUpdate(ctx context.Context, tenantID, id int64, upd bookingRepo.Update) error
	Cancel(ctx context.Context, tenantID, id int64, reason string) error
	Delete(ctx context.Context, tenantID, id int64) error
}

// CustomerStatsRepository интерфейс репозитория статистики клиентов
type CustomerStatsRepository interface {
	DecrementBookings(ctx context.Context, tenantID, customerID int64) error
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
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
