package update_booking

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	"github.com/m04kA/HSP-SchedulingService/internal/infra/events"
	bookingRepo "github.com/m04kA/HSP-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/HSP-SchedulingService/internal/integrations/directoryservice"
	"github.com/m04kA/HSP-SchedulingService/internal/service/conflicts"
	policyModels "github.com/m04kA/HSP-SchedulingService/internal/service/policy/models"
	"github.com/m04kA/HSP-SchedulingService/internal/service/pricing"
	"github.com/m04kA/HSP-SchedulingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTimeProvider struct {
	now time.Time
}

func (p fixedTimeProvider) Now() time.Time { return p.now }

type inlineTxManager struct{}

func (inlineTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memoryBookingRepo хранит одно бронирование и применяет к нему обновления
type memoryBookingRepo struct {
	booking *domain.Booking
	updated bool
}

func (r *memoryBookingRepo) GetByID(_ context.Context, tenantID, id int64) (*domain.Booking, error) {
	if r.booking == nil || r.booking.TenantID != tenantID || r.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *r.booking
	return &copied, nil
}

func (r *memoryBookingRepo) ApplyUpdate(_ context.Context, tenantID, id int64, upd bookingRepo.Update) error {
	if r.booking == nil || r.booking.TenantID != tenantID || r.booking.ID != id {
		return bookingRepo.ErrBookingNotFound
	}
	r.updated = true

	if upd.ScheduledAt != nil {
		r.booking.ScheduledAt = *upd.ScheduledAt
	}
	if upd.IsHomeVisit != nil {
		r.booking.IsHomeVisit = *upd.IsHomeVisit
	}
	if upd.HomeVisitAddress != nil {
		r.booking.HomeVisitAddress = upd.HomeVisitAddress
	}
	if upd.HomeVisitLocation != nil {
		r.booking.HomeVisitLocation = upd.HomeVisitLocation
	}
	if upd.ClearHomeVisitDetails {
		r.booking.HomeVisitAddress = nil
		r.booking.HomeVisitLocation = nil
	}
	if upd.TotalAmount != nil {
		r.booking.TotalAmount = *upd.TotalAmount
	}
	if upd.PaymentStatus != nil {
		r.booking.PaymentStatus = *upd.PaymentStatus
	}
	if upd.Notes != nil {
		r.booking.Notes = upd.Notes
	}
	return nil
}

type stubDetector struct {
	conflict *domain.BookingConflict
	seen     *conflicts.CheckInput
}

func (s *stubDetector) Check(_ context.Context, in conflicts.CheckInput) (*domain.BookingConflict, error) {
	s.seen = &in
	if s.conflict != nil {
		return s.conflict, nil
	}
	return &domain.BookingConflict{HasConflict: false}, nil
}

type stubPolicyService struct{}

func (stubPolicyService) Resolve(_ context.Context, _ int64, _ *int64) (policyModels.ResolvedPolicy, error) {
	return policyModels.ResolvedPolicy{
		SlotStepMinutes:         30,
		TravelBufferMinutes:     30,
		MinBookingNoticeMinutes: 0,
		AdvanceBookingDays:      90,
	}, nil
}

type stubPricingCalc struct {
	calls int
}

func (s *stubPricingCalc) Calculate(_ context.Context, service *directoryservice.Service, isHomeVisit bool, _ *string, _ *domain.GeoPoint) (*pricing.Quote, error) {
	s.calls++
	total := service.BasePrice
	if isHomeVisit && service.HomeVisitSurcharge != nil {
		total = total.Add(*service.HomeVisitSurcharge)
	}
	return &pricing.Quote{BasePrice: service.BasePrice, Total: total}, nil
}

type stubHoursResolver struct{}

func (stubHoursResolver) ResolveForDate(_ *directoryservice.Tenant, _ time.Time) (domain.BusinessWindow, error) {
	return domain.BusinessWindow{IsOpen: true, OpenTime: "09:00", CloseTime: "17:00"}, nil
}

type stubTimeValidator struct{}

func (stubTimeValidator) Validate(_, _ time.Time, _, _ int) error { return nil }

type stubDirectoryClient struct {
	service *directoryservice.Service
}

func (s *stubDirectoryClient) GetTenant(_ context.Context, _ int64) (*directoryservice.Tenant, error) {
	return &directoryservice.Tenant{ID: 1}, nil
}

func (s *stubDirectoryClient) GetService(_ context.Context, _, _ int64) (*directoryservice.Service, error) {
	return s.service, nil
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

var testNow = time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)

type fixture struct {
	uc        *UseCase
	repo      *memoryBookingRepo
	detector  *stubDetector
	pricing   *stubPricingCalc
	publisher *recordingPublisher
	cache     *recordingCache
}

func newFixture() *fixture {
	surcharge := decimal.NewFromInt(500)
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
		detector:  &stubDetector{},
		pricing:   &stubPricingCalc{},
		publisher: &recordingPublisher{},
		cache:     &recordingCache{},
	}

	f.uc = NewUseCase(
		f.repo,
		f.detector,
		stubPolicyService{},
		f.pricing,
		stubHoursResolver{},
		stubTimeValidator{},
		&stubDirectoryClient{
			service: &directoryservice.Service{
				ID:                 100,
				TenantID:           1,
				DurationMinutes:    60,
				BasePrice:          decimal.NewFromInt(2000),
				IsActive:           true,
				HomeVisitAvailable: true,
				HomeVisitSurcharge: &surcharge,
			},
		},
		f.publisher,
		f.cache,
		inlineTxManager{},
		nopLogger{},
	)
	f.uc.timeProvider = fixedTimeProvider{now: testNow}
	return f
}

func TestExecute_RescheduleMovesBooking(t *testing.T) {
	f := newFixture()
	newTime := time.Date(2026, 3, 18, 14, 0, 0, 0, time.UTC)

	resp, err := f.uc.Execute(context.Background(), &Request{
		TenantID:    1,
		BookingID:   42,
		ScheduledAt: &newTime,
	})

	require.NoError(t, err)
	assert.True(t, resp.ScheduledAt.Equal(newTime))

	// Само бронирование исключено из проверки конфликтов
	require.NotNil(t, f.detector.seen)
	require.NotNil(t, f.detector.seen.ExcludeBookingID)
	assert.Equal(t, int64(42), *f.detector.seen.ExcludeBookingID)

	// Кеш слотов инвалидирован для старого и нового дня
	assert.Equal(t, []string{"2026-03-17", "2026-03-18"}, f.cache.invalidated)
	assert.Equal(t, []events.EventType{events.EventBookingUpdated}, f.publisher.events)
}

func TestExecute_ConflictingRescheduleRollsBack(t *testing.T) {
	f := newFixture()
	f.detector.conflict = &domain.BookingConflict{
		HasConflict: true,
		Bookings:    []*domain.Booking{{ID: 7}},
		Reason:      domain.ConflictReasonTimeOverlap,
	}
	newTime := time.Date(2026, 3, 18, 14, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), &Request{
		TenantID:    1,
		BookingID:   42,
		ScheduledAt: &newTime,
	})

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.False(t, f.repo.updated)
	assert.Empty(t, f.publisher.events)
}

func TestExecute_NotesOnlyUpdateSkipsChecks(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{
		TenantID:  1,
		BookingID: 42,
		Notes:     ptr.Ptr("перенести кресло к окну"),
	})

	require.NoError(t, err)
	require.NotNil(t, resp.Notes)
	assert.Equal(t, "перенести кресло к окну", *resp.Notes)
	// Без переноса детектор конфликтов не вызывается, цена не пересчитывается
	assert.Nil(t, f.detector.seen)
	assert.Zero(t, f.pricing.calls)
}

func TestExecute_SwitchToHomeVisitRecalculatesPrice(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{
		TenantID:         1,
		BookingID:        42,
		IsHomeVisit:      ptr.Ptr(true),
		HomeVisitAddress: ptr.Ptr("ул. Ленина, 1"),
	})

	require.NoError(t, err)
	assert.True(t, resp.IsHomeVisit)
	assert.Equal(t, "2500.00", resp.TotalAmount)
	assert.Equal(t, 1, f.pricing.calls)
}

func TestExecute_SwitchToInHouseClearsHomeVisitDetails(t *testing.T) {
	f := newFixture()
	f.repo.booking.IsHomeVisit = true
	f.repo.booking.HomeVisitAddress = ptr.Ptr("ул. Ленина, 1")
	f.repo.booking.HomeVisitLocation = &domain.GeoPoint{Latitude: 55.75, Longitude: 37.62}

	resp, err := f.uc.Execute(context.Background(), &Request{
		TenantID:    1,
		BookingID:   42,
		IsHomeVisit: ptr.Ptr(false),
	})

	require.NoError(t, err)
	assert.False(t, resp.IsHomeVisit)
	assert.Nil(t, resp.HomeVisitAddress)
	assert.Nil(t, resp.HomeVisitLocation)
}

func TestExecute_AddressRejectedForInHouseBooking(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{
		TenantID:         1,
		BookingID:        42,
		HomeVisitAddress: ptr.Ptr("ул. Ленина, 1"),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.False(t, f.repo.updated)
}

func TestExecute_AddressRejectedWhenSwitchingToInHouse(t *testing.T) {
	f := newFixture()
	f.repo.booking.IsHomeVisit = true
	f.repo.booking.HomeVisitAddress = ptr.Ptr("ул. Ленина, 1")

	_, err := f.uc.Execute(context.Background(), &Request{
		TenantID:         1,
		BookingID:        42,
		IsHomeVisit:      ptr.Ptr(false),
		HomeVisitAddress: ptr.Ptr("пр. Мира, 8"),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.False(t, f.repo.updated)
}

func TestExecute_PaymentStatusUpdate(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{
		TenantID:      1,
		BookingID:     42,
		PaymentStatus: ptr.Ptr(domain.PaymentPaid),
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.PaymentPaid), resp.PaymentStatus)
	assert.Nil(t, f.detector.seen)
	assert.Zero(t, f.pricing.calls)
}

func TestExecute_UnknownPaymentStatus(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{
		TenantID:      1,
		BookingID:     42,
		PaymentStatus: ptr.Ptr(domain.PaymentStatus("chargeback")),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_EmptyUpdate(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{TenantID: 1, BookingID: 42})

	assert.ErrorIs(t, err, ErrEmptyUpdate)
}

func TestExecute_TerminalStatusNotEditable(t *testing.T) {
	f := newFixture()
	f.repo.booking.Status = domain.StatusCompleted

	_, err := f.uc.Execute(context.Background(), &Request{
		TenantID:  1,
		BookingID: 42,
		Notes:     ptr.Ptr("заметка"),
	})

	assert.ErrorIs(t, err, ErrBookingNotEditable)
}

func TestExecute_BookingNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{
		TenantID:  1,
		BookingID: 999,
		Notes:     ptr.Ptr("заметка"),
	})

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_HomeVisitWithoutAddress(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{
		TenantID:    1,
		BookingID:   42,
		IsHomeVisit: ptr.Ptr(true),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}
