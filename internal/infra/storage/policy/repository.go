package policy

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	"github.com/m04kA/HSP-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/HSP-SchedulingService/pkg/psqlbuilder"
)

// Переиспользуем интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

var policyColumns = []string{
	"id",
	"tenant_id",
	"service_id",
	"slot_step_minutes",
	"travel_buffer_minutes",
	"min_booking_notice_minutes",
	"advance_booking_days",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с политиками планирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория политик
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByTenantAndService получает политику для тенанта и услуги
// serviceID = nil означает политику уровня тенанта (для всех услуг)
func (r *Repository) GetByTenantAndService(ctx context.Context, tenantID int64, serviceID *int64) (*domain.SchedulingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(policyColumns...).
		From("scheduling_policies").
		Where(squirrel.Eq{"tenant_id": tenantID})

	if serviceID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenantAndService - build select query: %v", ErrBuildQuery, err)
	}

	p, err := scanPolicy(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTenantAndService - scan policy: %v", ErrScanRow, err)
	}

	return p, nil
}

// GetWithHierarchy получает политику с учетом иерархии приоритетов:
// 1. Политика для конкретной услуги (tenant_id, service_id)
// 2. Политика тенанта (tenant_id, NULL)
// Если политика не найдена ни на одном уровне, возвращает ErrPolicyNotFound;
// платформенные значения по умолчанию применяет вызывающий слой
func (r *Repository) GetWithHierarchy(ctx context.Context, tenantID int64, serviceID *int64) (*domain.SchedulingPolicy, error) {
	if serviceID != nil {
		p, err := r.GetByTenantAndService(ctx, tenantID, serviceID)
		if err == nil {
			return p, nil
		}
		if err != ErrPolicyNotFound {
			return nil, fmt.Errorf("%w: GetWithHierarchy - service level: %v", ErrExecQuery, err)
		}
	}

	p, err := r.GetByTenantAndService(ctx, tenantID, nil)
	if err == nil {
		return p, nil
	}
	if err != ErrPolicyNotFound {
		return nil, fmt.Errorf("%w: GetWithHierarchy - tenant level: %v", ErrExecQuery, err)
	}

	return nil, ErrPolicyNotFound
}

// GetAllByTenant получает все политики тенанта (уровня тенанта и услуг)
func (r *Repository) GetAllByTenant(ctx context.Context, tenantID int64) ([]*domain.SchedulingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(policyColumns...).
		From("scheduling_policies").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("service_id ASC NULLS FIRST"). // Политика уровня тенанта первой
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByTenant - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByTenant - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	policies := make([]*domain.SchedulingPolicy, 0)

	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAllByTenant - scan row: %v", ErrScanRow, err)
		}
		policies = append(policies, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllByTenant - rows error: %v", ErrScanRow, err)
	}

	return policies, nil
}

// Upsert создает или обновляет политику для пары (tenant_id, service_id)
func (r *Repository) Upsert(ctx context.Context, p *domain.SchedulingPolicy) (*domain.SchedulingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("scheduling_policies").
		Columns(
			"tenant_id",
			"service_id",
			"slot_step_minutes",
			"travel_buffer_minutes",
			"min_booking_notice_minutes",
			"advance_booking_days",
		).
		Values(
			p.TenantID,
			p.ServiceID,
			p.SlotStepMinutes,
			p.TravelBufferMinutes,
			p.MinBookingNoticeMinutes,
			p.AdvanceBookingDays,
		).
		Suffix(`ON CONFLICT (tenant_id, COALESCE(service_id, 0)) DO UPDATE SET
			slot_step_minutes = EXCLUDED.slot_step_minutes,
			travel_buffer_minutes = EXCLUDED.travel_buffer_minutes,
			min_booking_notice_minutes = EXCLUDED.min_booking_notice_minutes,
			advance_booking_days = EXCLUDED.advance_booking_days,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %v", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return p, nil
}

// Delete удаляет политику по ID
func (r *Repository) Delete(ctx context.Context, tenantID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("scheduling_policies").
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
		return ErrPolicyNotFound
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPolicy(row rowScanner) (*domain.SchedulingPolicy, error) {
	var p domain.SchedulingPolicy
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.TenantID,
		&p.ServiceID,
		&p.SlotStepMinutes,
		&p.TravelBufferMinutes,
		&p.MinBookingNoticeMinutes,
		&p.AdvanceBookingDays,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}
