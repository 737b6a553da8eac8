package booking

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	"github.com/m04kA/HSP-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/HSP-SchedulingService/pkg/psqlbuilder"
)

// bookingColumns полный список колонок таблицы bookings
var bookingColumns = []string{
	"id",
	"tenant_id",
	"customer_id",
	"service_id",
	"scheduled_at",
	"duration_minutes",
	"status",
	"is_home_visit",
	"home_visit_address",
	"home_visit_lat",
	"home_visit_lng",
	"total_amount",
	"payment_status",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"reminders_sent",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
// Все выборки ограничены tenant_id: данные тенантов изолированы на уровне запросов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция (через context.Value), использует её
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	reminders, err := marshalReminders(booking.RemindersSent)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal reminders: %v", ErrBuildQuery, err)
	}

	var lat, lng *float64
	if booking.HomeVisitLocation != nil {
		lat = &booking.HomeVisitLocation.Latitude
		lng = &booking.HomeVisitLocation.Longitude
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"tenant_id",
			"customer_id",
			"service_id",
			"scheduled_at",
			"duration_minutes",
			"status",
			"is_home_visit",
			"home_visit_address",
			"home_visit_lat",
			"home_visit_lng",
			"total_amount",
			"payment_status",
			"notes",
			"reminders_sent",
		).
		Values(
			booking.TenantID,
			booking.CustomerID,
			booking.ServiceID,
			booking.ScheduledAt,
			booking.DurationMinutes,
			booking.Status,
			booking.IsHomeVisit,
			booking.HomeVisitAddress,
			lat,
			lng,
			booking.TotalAmount,
			booking.PaymentStatus,
			booking.Notes,
			reminders,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование тенанта по ID
func (r *Repository) GetByID(ctx context.Context, tenantID, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID})

	// Внутри транзакции блокируем строку: update-сценарии читают,
	// проверяют конфликты и пишут атомарно
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetInWindow получает бронирования тенанта с началом в интервале [from, to]
// и статусом из statuses. Используется детектором конфликтов (ограниченный
// скан вместо полного перебора) и генератором слотов.
// Внутри транзакции добавляет FOR UPDATE для защиты от параллельных записей.
func (r *Repository) GetInWindow(
	ctx context.Context,
	tenantID int64,
	from, to time.Time,
	statuses []domain.BookingStatus,
) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	statusStrings := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrings[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.GtOrEq{"scheduled_at": from}).
		Where(squirrel.LtOrEq{"scheduled_at": to}).
		Where(squirrel.Eq{"status": statusStrings}).
		OrderBy("scheduled_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetInWindow - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetInWindow - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListWithFilter получает бронирования тенанта с гибкой фильтрацией
// Поддерживает фильтры по клиенту, услуге, статусу, периоду и пагинацию
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"tenant_id": filter.TenantID})

	if filter.CustomerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.ServiceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *filter.ServiceID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"scheduled_at": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"scheduled_at": *filter.EndDate})
	}

	selectBuilder = selectBuilder.OrderBy("scheduled_at DESC, id DESC")

	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(filter.Offset)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ApplyUpdate применяет частичное обновление бронирования
// Обновляются только заполненные поля Update; updated_at выставляется всегда
func (r *Repository) ApplyUpdate(ctx context.Context, tenantID, id int64, upd Update) error {
	if upd.IsEmpty() {
		return ErrEmptyUpdate
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID})

	if upd.ScheduledAt != nil {
		updateBuilder = updateBuilder.Set("scheduled_at", *upd.ScheduledAt)
	}
	if upd.DurationMinutes != nil {
		updateBuilder = updateBuilder.Set("duration_minutes", *upd.DurationMinutes)
	}
	if upd.Status != nil {
		updateBuilder = updateBuilder.Set("status", *upd.Status)
	}
	if upd.IsHomeVisit != nil {
		updateBuilder = updateBuilder.Set("is_home_visit", *upd.IsHomeVisit)
	}
	if upd.ClearHomeVisitDetails {
		updateBuilder = updateBuilder.
			Set("home_visit_address", nil).
			Set("home_visit_lat", nil).
			Set("home_visit_lng", nil)
	} else {
		if upd.HomeVisitAddress != nil {
			updateBuilder = updateBuilder.Set("home_visit_address", *upd.HomeVisitAddress)
		}
		if upd.HomeVisitLocation != nil {
			updateBuilder = updateBuilder.
				Set("home_visit_lat", upd.HomeVisitLocation.Latitude).
				Set("home_visit_lng", upd.HomeVisitLocation.Longitude)
		}
	}
	if upd.TotalAmount != nil {
		updateBuilder = updateBuilder.Set("total_amount", *upd.TotalAmount)
	}
	if upd.PaymentStatus != nil {
		updateBuilder = updateBuilder.Set("payment_status", *upd.PaymentStatus)
	}
	if upd.Notes != nil {
		updateBuilder = updateBuilder.Set("notes", *upd.Notes)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ApplyUpdate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ApplyUpdate - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ApplyUpdate - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Cancel переводит бронирование в статус cancelled с указанием причины
func (r *Repository) Cancel(ctx context.Context, tenantID, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Delete физически удаляет бронирование тенанта
// Используется только при явном удалении тенантом; история не сохраняется
func (r *Repository) Delete(ctx context.Context, tenantID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку в модель бронирования
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var lat, lng sql.NullFloat64
	var cancelledAt, createdAt, updatedAt sql.NullTime
	var reminders []byte

	err := row.Scan(
		&booking.ID,
		&booking.TenantID,
		&booking.CustomerID,
		&booking.ServiceID,
		&booking.ScheduledAt,
		&booking.DurationMinutes,
		&booking.Status,
		&booking.IsHomeVisit,
		&booking.HomeVisitAddress,
		&lat,
		&lng,
		&booking.TotalAmount,
		&booking.PaymentStatus,
		&booking.Notes,
		&booking.CancellationReason,
		&cancelledAt,
		&reminders,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid && lng.Valid {
		booking.HomeVisitLocation = &domain.GeoPoint{Latitude: lat.Float64, Longitude: lng.Float64}
	}
	if cancelledAt.Valid {
		booking.CancelledAt = &cancelledAt.Time
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	if len(reminders) > 0 {
		if err := json.Unmarshal(reminders, &booking.RemindersSent); err != nil {
			return nil, err
		}
	}

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// marshalReminders сериализует список отметок о напоминаниях в jsonb
func marshalReminders(reminders []time.Time) ([]byte, error) {
	if reminders == nil {
		reminders = []time.Time{}
	}
	return json.Marshal(reminders)
}
