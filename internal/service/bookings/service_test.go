package bookings

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	"github.com/m04kA/HSP-SchedulingService/internal/infra/events"
	bookingRepo "github.com/m04kA/HSP-SchedulingService/internal/infra/storage/booking"
	statsRepo "github.com/m04kA/HSP-SchedulingService/internal/infra/storage/customerstats"
	"github.com/m04kA/HSP-SchedulingService/internal/service/bookings/models"
	"github.com/m04kA/HSP-SchedulingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type inlineTxManager struct{}

func (inlineTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (inlineTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (inlineTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memoryBookingRepo struct {
	booking    *domain.Booking
	filterSeen *domain.BookingsFilter
	deleted    bool
}

func (r *memoryBookingRepo) GetByID(_ context.Context, tenantID, id int64) (*domain.Booking, error) {
	if r.booking == nil || r.booking.TenantID != tenantID || r.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *r.booking
	return &copied, nil
}

func (r *memoryBookingRepo) ListWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	r.filterSeen = &filter
	if r.booking == nil {
		return nil, nil
	}
	return []*domain.Booking{r.booking}, nil
}

func (r *memoryBookingRepo) ApplyUpdate(_ context.Context, tenantID, id int64, upd bookingRepo.Update) error {
	if r.booking == nil || r.booking.TenantID != tenantID || r.booking.ID != id {
		return bookingRepo.ErrBookingNotFound
	}
	if upd.Status != nil {
		r.booking.Status = *upd.Status
	}
	return nil
}

func (r *memoryBookingRepo) Cancel(_ context.Context, tenantID, id int64, reason string) error {
	if r.booking == nil || r.booking.TenantID != tenantID || r.booking.ID != id {
		return bookingRepo.ErrBookingNotFound
	}
	now := time.Now()
	r.booking.Status = domain.StatusCancelled
	r.booking.CancelledAt = &now
	if reason != "" {
		r.booking.CancellationReason = &reason
	}
	return nil
}

func (r *memoryBookingRepo) Delete(_ context.Context, tenantID, id int64) error {
	if r.booking == nil || r.booking.TenantID != tenantID || r.booking.ID != id {
		return bookingRepo.ErrBookingNotFound
	}
	r.deleted = true
	return nil
}

type stubStatsRepo struct {
	decremented  bool
	customerSeen int64
	err          error
}

func (s *stubStatsRepo) DecrementBookings(_ context.Context, _, customerID int64) error {
	if s.err != nil {
		return s.err
	}
	s.decremented = true
	s.customerSeen = customerID
	return nil
}

type recordingPublisher struct {
	events []events.EventType
}

func (p *recordingPublisher) Publish(_ context.Context, eventType events.EventType, _ *domain.Booking) error {
	p.events = append(p.events, eventType)
	return nil
}

type recordingCache struct {
	invalidated []string
}

func (c *recordingCache) InvalidateDay(_ context.Context, _ int64, date string) error {
	c.invalidated = append(c.invalidated, date)
	return nil
}

type fixture struct {
	svc       *Service
	repo      *memoryBookingRepo
	stats     *stubStatsRepo
	publisher *recordingPublisher
	cache     *recordingCache
}

func newFixture() *fixture {
	f := &fixture{
		repo: &memoryBookingRepo{
			booking: &domain.Booking{
				ID:              42,
				TenantID:        1,
				CustomerID:      10,
				ServiceID:       100,
				ScheduledAt:     time.Date(2026, 3, 17, 11, 0, 0, 0, time.UTC),
				DurationMinutes: 60,
				Status:          domain.StatusPending,
				TotalAmount:     decimal.NewFromInt(2000),
			},
		},
		stats:     &stubStatsRepo{},
		publisher: &recordingPublisher{},
		cache:     &recordingCache{},
	}
	f.svc = NewService(f.repo, f.stats, inlineTxManager{}, f.publisher, f.cache, nopLogger{})
	return f
}

func TestGetByID(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.GetByID(context.Background(), 1, 42)

	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "2000.00", resp.TotalAmount)
}

func TestGetByID_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetByID(context.Background(), 1, 999)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetByID_WrongTenant(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetByID(context.Background(), 2, 42)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestList_ConvertsFilter(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.List(context.Background(), &models.ListBookingsRequest{
		TenantID:   1,
		CustomerID: ptr.Ptr(int64(10)),
		Status:     ptr.Ptr("pending"),
		Limit:      20,
	})

	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)

	require.NotNil(t, f.repo.filterSeen)
	assert.Equal(t, int64(1), f.repo.filterSeen.TenantID)
	require.NotNil(t, f.repo.filterSeen.Status)
	assert.Equal(t, domain.StatusPending, *f.repo.filterSeen.Status)
	assert.Equal(t, uint64(20), f.repo.filterSeen.Limit)
}

func TestList_UnknownStatus(t *testing.T) {
	f := newFixture()

	_, err := f.svc.List(context.Background(), &models.ListBookingsRequest{
		TenantID: 1,
		Status:   ptr.Ptr("postponed"),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestList_ZeroLimitFallsBackToMax(t *testing.T) {
	f := newFixture()

	_, err := f.svc.List(context.Background(), &models.ListBookingsRequest{TenantID: 1})

	require.NoError(t, err)
	assert.Equal(t, uint64(domain.MaxListLimit), f.repo.filterSeen.Limit)
}

func TestCancel(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Cancel(context.Background(), 1, 42, &models.CancelBookingRequest{
		CancellationReason: "клиент заболел",
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "клиент заболел", *resp.CancellationReason)
	assert.NotNil(t, resp.CancelledAt)

	assert.Equal(t, []events.EventType{events.EventBookingCancelled}, f.publisher.events)
	assert.Equal(t, []string{"2026-03-17"}, f.cache.invalidated)
}

func TestCancel_TerminalStatus(t *testing.T) {
	f := newFixture()
	f.repo.booking.Status = domain.StatusCompleted

	_, err := f.svc.Cancel(context.Background(), 1, 42, &models.CancelBookingRequest{})

	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Empty(t, f.publisher.events)
}

func TestCancel_ReasonTooLong(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Cancel(context.Background(), 1, 42, &models.CancelBookingRequest{
		CancellationReason: strings.Repeat("н", domain.MaxCancellationReasonLength+1),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus_PendingToConfirmed(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.UpdateStatus(context.Background(), 1, 42, &models.UpdateStatusRequest{
		Status: "confirmed",
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, []events.EventType{events.EventBookingUpdated}, f.publisher.events)
	assert.Equal(t, []string{"2026-03-17"}, f.cache.invalidated)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	f := newFixture()

	_, err := f.svc.UpdateStatus(context.Background(), 1, 42, &models.UpdateStatusRequest{
		Status: "paused",
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateStatus_DisallowedTransition(t *testing.T) {
	f := newFixture()
	f.repo.booking.Status = domain.StatusCompleted

	_, err := f.svc.UpdateStatus(context.Background(), 1, 42, &models.UpdateStatusRequest{
		Status: "pending",
	})

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, domain.StatusCompleted, f.repo.booking.Status)
}

func TestDelete(t *testing.T) {
	f := newFixture()

	err := f.svc.Delete(context.Background(), 1, 42)

	require.NoError(t, err)
	assert.True(t, f.repo.deleted)
	assert.True(t, f.stats.decremented)
	assert.Equal(t, int64(10), f.stats.customerSeen)
	assert.Equal(t, []events.EventType{events.EventBookingDeleted}, f.publisher.events)
	assert.Equal(t, []string{"2026-03-17"}, f.cache.invalidated)
}

func TestDelete_MissingStatsRowIsNotFatal(t *testing.T) {
	f := newFixture()
	f.stats.err = statsRepo.ErrStatsNotFound

	err := f.svc.Delete(context.Background(), 1, 42)

	require.NoError(t, err)
	assert.True(t, f.repo.deleted)
}

func TestDelete_NotFound(t *testing.T) {
	f := newFixture()

	err := f.svc.Delete(context.Background(), 1, 999)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}
