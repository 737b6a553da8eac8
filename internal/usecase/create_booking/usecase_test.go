package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	"github.com/m04kA/HSP-SchedulingService/internal/infra/events"
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

type stubBookingRepo struct {
	created *domain.Booking
	nextID  int64
}

func (s *stubBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	created := *booking
	created.ID = s.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	s.created = &created
	return &created, nil
}

type stubStatsRepo struct {
	incremented bool
	tenantSeen  int64
}

func (s *stubStatsRepo) IncrementBookings(_ context.Context, tenantID, _ int64, _ time.Time) error {
	s.incremented = true
	s.tenantSeen = tenantID
	return nil
}

type stubDetector struct {
	conflict *domain.BookingConflict
}

func (s *stubDetector) Check(_ context.Context, _ conflicts.CheckInput) (*domain.BookingConflict, error) {
	if s.conflict != nil {
		return s.conflict, nil
	}
	return &domain.BookingConflict{HasConflict: false}, nil
}

type stubPolicyService struct {
	policy policyModels.ResolvedPolicy
}

func (s *stubPolicyService) Resolve(_ context.Context, _ int64, _ *int64) (policyModels.ResolvedPolicy, error) {
	return s.policy, nil
}

type stubPricingCalc struct {
	quote *pricing.Quote
	err   error
}

func (s *stubPricingCalc) Calculate(_ context.Context, service *directoryservice.Service, isHomeVisit bool, _ *string, _ *domain.GeoPoint) (*pricing.Quote, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.quote != nil {
		return s.quote, nil
	}
	quote := &pricing.Quote{
		BasePrice:          service.BasePrice,
		HomeVisitSurcharge: decimal.Zero,
		LocationSurcharge:  decimal.Zero,
		Total:              service.BasePrice,
	}
	if isHomeVisit && service.HomeVisitSurcharge != nil {
		quote.HomeVisitSurcharge = *service.HomeVisitSurcharge
		quote.Total = quote.Total.Add(quote.HomeVisitSurcharge)
	}
	return quote, nil
}

type stubHoursResolver struct {
	window domain.BusinessWindow
	err    error
}

func (s *stubHoursResolver) ResolveForDate(_ *directoryservice.Tenant, _ time.Time) (domain.BusinessWindow, error) {
	return s.window, s.err
}

type stubTimeValidator struct {
	err error
}

func (s *stubTimeValidator) Validate(_, _ time.Time, _, _ int) error {
	return s.err
}

type stubDirectoryClient struct {
	tenant      *directoryservice.Tenant
	service     *directoryservice.Service
	customer    *directoryservice.Customer
	customerErr error
}

func (s *stubDirectoryClient) GetTenant(_ context.Context, _ int64) (*directoryservice.Tenant, error) {
	return s.tenant, nil
}

func (s *stubDirectoryClient) GetService(_ context.Context, _, _ int64) (*directoryservice.Service, error) {
	return s.service, nil
}

func (s *stubDirectoryClient) GetCustomer(_ context.Context, _, _ int64) (*directoryservice.Customer, error) {
	if s.customerErr != nil {
		return nil, s.customerErr
	}
	return s.customer, nil
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
	uc        *UseCase
	repo      *stubBookingRepo
	stats     *stubStatsRepo
	detector  *stubDetector
	publisher *recordingPublisher
	cache     *recordingCache
	directory *stubDirectoryClient
	hours     *stubHoursResolver
	timeCheck *stubTimeValidator
}

var testNow = time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	surcharge := decimal.NewFromInt(500)
	f := &fixture{
		repo:     &stubBookingRepo{nextID: 42},
		stats:    &stubStatsRepo{},
		detector: &stubDetector{},
		directory: &stubDirectoryClient{
			tenant: &directoryservice.Tenant{ID: 1},
			service: &directoryservice.Service{
				ID:                 100,
				TenantID:           1,
				DurationMinutes:    60,
				BasePrice:          decimal.NewFromInt(2000),
				IsActive:           true,
				HomeVisitAvailable: true,
				HomeVisitSurcharge: &surcharge,
			},
			customer: &directoryservice.Customer{ID: 10, TenantID: 1},
		},
		hours: &stubHoursResolver{
			window: domain.BusinessWindow{IsOpen: true, OpenTime: "09:00", CloseTime: "17:00"},
		},
		timeCheck: &stubTimeValidator{},
		publisher: &recordingPublisher{},
		cache:     &recordingCache{},
	}

	f.uc = NewUseCase(
		f.repo,
		f.stats,
		f.detector,
		&stubPolicyService{policy: policyModels.ResolvedPolicy{
			SlotStepMinutes:         30,
			TravelBufferMinutes:     30,
			MinBookingNoticeMinutes: 60,
			AdvanceBookingDays:      90,
		}},
		&stubPricingCalc{},
		f.hours,
		f.timeCheck,
		f.directory,
		f.publisher,
		f.cache,
		inlineTxManager{},
		nopLogger{},
	)
	f.uc.timeProvider = fixedTimeProvider{now: testNow}
	return f
}

func validRequest() *Request {
	return &Request{
		TenantID:    1,
		CustomerID:  10,
		ServiceID:   100,
		ScheduledAt: time.Date(2026, 3, 16, 11, 0, 0, 0, time.UTC),
	}
}

func TestExecute_CreatesBooking(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, "2000.00", resp.TotalAmount)
	assert.Equal(t, "2000.00", resp.Price.Total)

	// Счетчик бронирований клиента увеличен в той же транзакции
	assert.True(t, f.stats.incremented)
	assert.Equal(t, int64(1), f.stats.tenantSeen)

	// Событие опубликовано, кеш слотов на день инвалидирован
	assert.Equal(t, []events.EventType{events.EventBookingCreated}, f.publisher.events)
	assert.Equal(t, []string{"2026-03-16"}, f.cache.invalidated)
}

func TestExecute_ConflictReturnsConflictError(t *testing.T) {
	f := newFixture()
	f.detector.conflict = &domain.BookingConflict{
		HasConflict: true,
		Bookings:    []*domain.Booking{{ID: 7}},
		Reason:      domain.ConflictReasonTimeOverlap,
	}

	_, err := f.uc.Execute(context.Background(), validRequest())

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.ErrorIs(t, err, ErrBookingConflict)
	assert.Equal(t, []int64{7}, conflictErr.Conflict.ConflictingIDs())

	// Бронирование не создано, события не опубликованы
	assert.Nil(t, f.repo.created)
	assert.False(t, f.stats.incremented)
	assert.Empty(t, f.publisher.events)
}

func TestExecute_TenantClosed(t *testing.T) {
	f := newFixture()
	f.hours.window = domain.ClosedWindow()

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrTenantClosed)
	assert.Nil(t, f.repo.created)
}

func TestExecute_OutsideBusinessHours(t *testing.T) {
	f := newFixture()

	req := validRequest()
	// Услуга 60 минут, окно закрывается в 17:00
	req.ScheduledAt = time.Date(2026, 3, 16, 16, 30, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrOutsideBusinessHours)
}

func TestExecute_HomeVisitNotSupported(t *testing.T) {
	f := newFixture()
	f.directory.service.HomeVisitAvailable = false

	req := validRequest()
	req.IsHomeVisit = true
	req.HomeVisitAddress = ptr.Ptr("ул. Ленина, 1")

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrHomeVisitNotAvailable)
}

func TestExecute_HomeVisitRequiresAddressOrCoordinates(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.IsHomeVisit = true

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_HomeVisitDetailsRejectedForInHouseVisit(t *testing.T) {
	f := newFixture()

	req := validRequest()
	req.HomeVisitAddress = ptr.Ptr("ул. Ленина, 1")

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_CustomerNotFound(t *testing.T) {
	f := newFixture()
	f.directory.customerErr = directoryservice.ErrCustomerNotFound

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestExecute_DirectoryUnavailableFailsClosed(t *testing.T) {
	f := newFixture()
	f.directory.customerErr = errors.New("connection refused")

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrInternal)
	assert.Nil(t, f.repo.created)
}

func TestExecute_InactiveService(t *testing.T) {
	f := newFixture()
	f.directory.service.IsActive = false

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrServiceInactive)
}
