package get_available_slots

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopspring/decimal"

	"github.com/m04kA/HSP-SchedulingService/internal/domain"
	slotsCache "github.com/m04kA/HSP-SchedulingService/internal/infra/cache/slots"
	"github.com/m04kA/HSP-SchedulingService/internal/integrations/directoryservice"
	"github.com/m04kA/HSP-SchedulingService/internal/service/businesshours"
	"github.com/m04kA/HSP-SchedulingService/internal/service/conflicts"
	policyModels "github.com/m04kA/HSP-SchedulingService/internal/service/policy/models"
	"github.com/m04kA/HSP-SchedulingService/pkg/types"
)

type fixedTimeProvider struct {
	now time.Time
}

func (p fixedTimeProvider) Now() time.Time { return p.now }

type stubBookingRepo struct {
	bookings []*domain.Booking
}

func (s *stubBookingRepo) GetInWindow(_ context.Context, _ int64, _, _ time.Time, _ []domain.BookingStatus) ([]*domain.Booking, error) {
	return s.bookings, nil
}

type stubPolicyService struct {
	policy policyModels.ResolvedPolicy
}

func (s *stubPolicyService) Resolve(_ context.Context, _ int64, _ *int64) (policyModels.ResolvedPolicy, error) {
	return s.policy, nil
}

type stubDirectoryClient struct {
	tenant  *directoryservice.Tenant
	service *directoryservice.Service
}

func (s *stubDirectoryClient) GetTenant(_ context.Context, _ int64) (*directoryservice.Tenant, error) {
	return s.tenant, nil
}

func (s *stubDirectoryClient) GetService(_ context.Context, _, _ int64) (*directoryservice.Service, error) {
	return s.service, nil
}

type memoryCache struct {
	store map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{store: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := c.store[key]
	if !ok {
		return nil, slotsCache.ErrCacheMiss
	}
	return value, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte) error {
	c.store[key] = value
	return nil
}

func defaultPolicy() policyModels.ResolvedPolicy {
	return policyModels.ResolvedPolicy{
		SlotStepMinutes:         60,
		TravelBufferMinutes:     30,
		MinBookingNoticeMinutes: 0,
		AdvanceBookingDays:      90,
	}
}

func newSlotsUseCase(repo *stubBookingRepo, directory *stubDirectoryClient, policy policyModels.ResolvedPolicy, cache *memoryCache, now time.Time) *UseCase {
	uc := NewUseCase(
		repo,
		conflicts.NewDetector(nil, nopLogger{}),
		&stubPolicyService{policy: policy},
		businesshours.NewResolver("09:00", "17:00"),
		directory,
		cache,
		nopLogger{},
	)
	uc.timeProvider = fixedTimeProvider{now: now}
	return uc
}

func activeService() *directoryservice.Service {
	return &directoryservice.Service{
		ID:                 100,
		TenantID:           1,
		Name:               "Маникюр",
		DurationMinutes:    60,
		BasePrice:          decimal.NewFromInt(1500),
		IsActive:           true,
		HomeVisitAvailable: true,
	}
}

func TestExecute_GeneratesGridWithConfirmedBlocking(t *testing.T) {
	repo := &stubBookingRepo{
		bookings: []*domain.Booking{
			{
				ID:              5,
				TenantID:        1,
				ScheduledAt:     time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC),
				DurationMinutes: 60,
				Status:          domain.StatusConfirmed,
			},
		},
	}
	directory := &stubDirectoryClient{
		tenant:  &directoryservice.Tenant{ID: 1},
		service: activeService(),
	}
	uc := newSlotsUseCase(repo, directory, defaultPolicy(), newMemoryCache(), testNow)

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:  1,
		ServiceID: 100,
		Date:      testDate,
	})

	require.NoError(t, err)
	assert.True(t, resp.IsOpen)
	require.NotNil(t, resp.OpenTime)
	assert.Equal(t, types.TimeString("09:00"), *resp.OpenTime)
	// Окно 09:00-17:00, шаг 60, услуга 60 минут - 8 слотов
	require.Len(t, resp.Slots, 8)

	for _, slot := range resp.Slots {
		if slot.StartTime == "10:00" {
			assert.False(t, slot.Available)
			require.NotNil(t, slot.ConflictingBookingID)
			assert.Equal(t, int64(5), *slot.ConflictingBookingID)
		} else {
			assert.True(t, slot.Available, "slot %s should be available", slot.StartTime)
		}
	}
}

func TestExecute_ClosedDayGivesEmptyGrid(t *testing.T) {
	directory := &stubDirectoryClient{
		tenant: &directoryservice.Tenant{
			ID: 1,
			BusinessHours: &directoryservice.WeekSchedule{
				Monday: directoryservice.DaySchedule{IsOpen: false},
			},
		},
		service: activeService(),
	}
	uc := newSlotsUseCase(&stubBookingRepo{}, directory, defaultPolicy(), newMemoryCache(), testNow)

	resp, err := uc.Execute(context.Background(), &Request{
		TenantID:  1,
		ServiceID: 100,
		Date:      testDate, // понедельник
	})

	require.NoError(t, err)
	assert.False(t, resp.IsOpen)
	assert.Empty(t, resp.Slots)
	assert.Nil(t, resp.OpenTime)
}

func TestExecute_InactiveService(t *testing.T) {
	service := activeService()
	service.IsActive = false
	directory := &stubDirectoryClient{
		tenant:  &directoryservice.Tenant{ID: 1},
		service: service,
	}
	uc := newSlotsUseCase(&stubBookingRepo{}, directory, defaultPolicy(), newMemoryCache(), testNow)

	_, err := uc.Execute(context.Background(), &Request{TenantID: 1, ServiceID: 100, Date: testDate})

	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestExecute_HomeVisitNotSupported(t *testing.T) {
	service := activeService()
	service.HomeVisitAvailable = false
	directory := &stubDirectoryClient{
		tenant:  &directoryservice.Tenant{ID: 1},
		service: service,
	}
	uc := newSlotsUseCase(&stubBookingRepo{}, directory, defaultPolicy(), newMemoryCache(), testNow)

	_, err := uc.Execute(context.Background(), &Request{
		TenantID:    1,
		ServiceID:   100,
		Date:        testDate,
		IsHomeVisit: true,
	})

	assert.ErrorIs(t, err, ErrHomeVisitNotAvailable)
}

func TestExecute_DateBeyondHorizon(t *testing.T) {
	directory := &stubDirectoryClient{
		tenant:  &directoryservice.Tenant{ID: 1},
		service: activeService(),
	}
	policy := defaultPolicy()
	policy.AdvanceBookingDays = 3
	uc := newSlotsUseCase(&stubBookingRepo{}, directory, policy, newMemoryCache(), testNow)

	_, err := uc.Execute(context.Background(), &Request{
		TenantID:  1,
		ServiceID: 100,
		Date:      testNow.AddDate(0, 0, 10),
	})

	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_CacheHitSkipsComputation(t *testing.T) {
	directory := &stubDirectoryClient{
		tenant:  &directoryservice.Tenant{ID: 1},
		service: activeService(),
	}
	cache := newMemoryCache()

	cached := &Response{
		Date:      testDate.Format(domain.DateFormat),
		TenantID:  1,
		ServiceID: 100,
		IsOpen:    true,
		Slots:     []Slot{{StartTime: "09:00", DurationMinutes: 60, Available: true}},
	}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)
	key := slotsCache.Key(1, testDate.Format(domain.DateFormat), 100, false, 60)
	cache.store[key] = payload

	uc := newSlotsUseCase(&stubBookingRepo{}, directory, defaultPolicy(), cache, testNow)

	resp, err := uc.Execute(context.Background(), &Request{TenantID: 1, ServiceID: 100, Date: testDate})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
}

func TestExecute_ResultIsCached(t *testing.T) {
	directory := &stubDirectoryClient{
		tenant:  &directoryservice.Tenant{ID: 1},
		service: activeService(),
	}
	cache := newMemoryCache()
	uc := newSlotsUseCase(&stubBookingRepo{}, directory, defaultPolicy(), cache, testNow)

	_, err := uc.Execute(context.Background(), &Request{TenantID: 1, ServiceID: 100, Date: testDate})

	require.NoError(t, err)
	key := slotsCache.Key(1, testDate.Format(domain.DateFormat), 100, false, 60)
	assert.Contains(t, cache.store, key)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newSlotsUseCase(&stubBookingRepo{}, &stubDirectoryClient{}, defaultPolicy(), newMemoryCache(), testNow)

	_, err := uc.Execute(context.Background(), &Request{TenantID: 0, ServiceID: 100, Date: testDate})

	assert.ErrorIs(t, err, ErrInvalidInput)
}
