// Package customerstats хранит счетчики бронирований по клиентам тенанта.
// Сами клиенты живут во внешнем DirectoryService; здесь только побочный
// эффект планировщика: счетчик бронирований и время последнего бронирования,
// изменяемые в одной транзакции с записью бронирования.
package customerstats

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/HSP-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/HSP-SchedulingService/pkg/psqlbuilder"
)

// Переиспользуем интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий статистики бронирований клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория статистики
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// IncrementBookings увеличивает счетчик бронирований клиента на 1
// и обновляет время последнего бронирования (upsert)
func (r *Repository) IncrementBookings(ctx context.Context, tenantID, customerID int64, bookedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("customer_booking_stats").
		Columns("tenant_id", "customer_id", "total_bookings", "last_booking_at").
		Values(tenantID, customerID, 1, bookedAt).
		Suffix(`ON CONFLICT (tenant_id, customer_id) DO UPDATE SET
			total_bookings = customer_booking_stats.total_bookings + 1,
			last_booking_at = EXCLUDED.last_booking_at,
			updated_at = NOW()`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: IncrementBookings - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: IncrementBookings - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// DecrementBookings уменьшает счетчик бронирований клиента на 1
// Счетчик никогда не уходит ниже нуля
func (r *Repository) DecrementBookings(ctx context.Context, tenantID, customerID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("customer_booking_stats").
		Set("total_bookings", squirrel.Expr("GREATEST(total_bookings - 1, 0)")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"tenant_id": tenantID, "customer_id": customerID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DecrementBookings - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DecrementBookings - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DecrementBookings - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatsNotFound
	}

	return nil
}
