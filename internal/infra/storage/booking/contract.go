package booking

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	"github.com/m04kA/HSP-SchedulingService/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor

// TxBeginner интерфейс для начала транзакций
// Поддерживает *sql.DB и *dbmetrics.DB
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error)
}

// Update частичное обновление бронирования
// nil-поля не изменяются
type Update struct {
	ScheduledAt       *time.Time
	DurationMinutes   *int
	Status            *domain.BookingStatus
	IsHomeVisit       *bool
	HomeVisitAddress  *string
	HomeVisitLocation *domain.GeoPoint
	// ClearHomeVisitDetails обнуляет адрес и координаты выезда
	// (используется при переводе бронирования в обычный визит)
	ClearHomeVisitDetails bool
	TotalAmount           *decimal.Decimal
	PaymentStatus         *domain.PaymentStatus
	Notes                 *string
}

// IsEmpty возвращает true, если обновление не меняет ни одного поля
func (u *Update) IsEmpty() bool {
	return u.ScheduledAt == nil &&
		u.DurationMinutes == nil &&
		u.Status == nil &&
		u.IsHomeVisit == nil &&
		u.HomeVisitAddress == nil &&
		u.HomeVisitLocation == nil &&
		!u.ClearHomeVisitDetails &&
		u.TotalAmount == nil &&
		u.PaymentStatus == nil &&
		u.Notes == nil
}
