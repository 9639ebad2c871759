package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezervo/booking-service/internal/domain"
	bookingconfigRepo "github.com/rezervo/booking-service/internal/infra/storage/bookingconfig"
	businessRepo "github.com/rezervo/booking-service/internal/infra/storage/business"
	catalogRepo "github.com/rezervo/booking-service/internal/infra/storage/catalog"
	"github.com/rezervo/booking-service/pkg/ptr"
	"github.com/rezervo/booking-service/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type fakeReservationRepo struct {
	reservations []*domain.Reservation
	err          error
}

func (f *fakeReservationRepo) GetByBusinessWithFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.reservations, nil
}

type fakeScheduleRepo struct {
	entries []domain.WeeklyScheduleEntry
	err     error
}

func (f *fakeScheduleRepo) GetByBusiness(ctx context.Context, businessID int64) ([]domain.WeeklyScheduleEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

type fakeBusinessRepo struct {
	business *domain.Business
	err      error
}

func (f *fakeBusinessRepo) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.business, nil
}

type fakeCatalogRepo struct {
	service *domain.Service
	err     error
}

func (f *fakeCatalogRepo) GetByID(ctx context.Context, businessID, serviceID int64) (*domain.Service, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.service, nil
}

type fakeConfigRepo struct {
	config *domain.BookingConfig
	err    error
}

func (f *fakeConfigRepo) GetConfigWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.config, nil
}

// testDate 2026-08-31, понедельник
var testDate = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

type useCaseDeps struct {
	reservations *fakeReservationRepo
	schedule     *fakeScheduleRepo
	business     *fakeBusinessRepo
	catalog      *fakeCatalogRepo
	config       *fakeConfigRepo
}

func defaultDeps() *useCaseDeps {
	return &useCaseDeps{
		reservations: &fakeReservationRepo{},
		schedule: &fakeScheduleRepo{
			entries: []domain.WeeklyScheduleEntry{
				{DayOfWeek: 1, OpenTime: "09:00", CloseTime: "12:00", IsOpen: true},
			},
		},
		business: &fakeBusinessRepo{
			business: &domain.Business{ID: 1, OwnerID: 10, Name: "Салон Виктория", IsActive: true},
		},
		catalog: &fakeCatalogRepo{},
		config:  &fakeConfigRepo{err: bookingconfigRepo.ErrConfigNotFound},
	}
}

func newTestUseCase(deps *useCaseDeps, now time.Time) *UseCase {
	uc := NewUseCase(deps.reservations, deps.schedule, deps.business, deps.catalog, deps.config, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

func TestExecute_GeneratesSlots(t *testing.T) {
	deps := defaultDeps()
	// до даты запроса неделя, фильтр по notice не участвует
	uc := newTestUseCase(deps, testDate.AddDate(0, 0, -7))

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, Date: testDate})
	require.NoError(t, err)

	// окно 09:00-12:00, занятость 60 минут, шаг 30
	want := []Slot{
		{StartTime: "09:00", DurationMinutes: 60},
		{StartTime: "09:30", DurationMinutes: 60},
		{StartTime: "10:00", DurationMinutes: 60},
		{StartTime: "10:30", DurationMinutes: 60},
		{StartTime: "11:00", DurationMinutes: 60},
	}
	assert.Equal(t, want, resp.Slots)
}

func TestExecute_ExistingReservationRemovesOverlapping(t *testing.T) {
	deps := defaultDeps()
	deps.reservations.reservations = []*domain.Reservation{
		{StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}
	uc := newTestUseCase(deps, testDate.AddDate(0, 0, -7))

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, Date: testDate})
	require.NoError(t, err)

	starts := make([]types.TimeString, len(resp.Slots))
	for i, s := range resp.Slots {
		starts[i] = s.StartTime
	}
	assert.Equal(t, []types.TimeString{"09:00", "11:00"}, starts)
}

func TestExecute_ClosedDayReturnsEmpty(t *testing.T) {
	deps := defaultDeps()
	deps.schedule.entries = []domain.WeeklyScheduleEntry{
		{DayOfWeek: 1, IsOpen: false},
	}
	uc := newTestUseCase(deps, testDate.AddDate(0, 0, -7))

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, Date: testDate})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_MissingDayIsClosed(t *testing.T) {
	deps := defaultDeps()
	deps.schedule.entries = nil
	uc := newTestUseCase(deps, testDate.AddDate(0, 0, -7))

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, Date: testDate})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_ServiceDurationUsed(t *testing.T) {
	deps := defaultDeps()
	deps.catalog.service = &domain.Service{
		ID: 5, BusinessID: 1, Name: "Мъжко подстригване", DurationMinutes: 90, IsActive: true,
	}
	uc := newTestUseCase(deps, testDate.AddDate(0, 0, -7))

	resp, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  ptr.Ptr(int64(5)),
		Date:       testDate,
	})
	require.NoError(t, err)

	// 90 минут помещаются только до 10:30 включительно
	want := []Slot{
		{StartTime: "09:00", DurationMinutes: 90},
		{StartTime: "09:30", DurationMinutes: 90},
		{StartTime: "10:00", DurationMinutes: 90},
		{StartTime: "10:30", DurationMinutes: 90},
	}
	assert.Equal(t, want, resp.Slots)
}

func TestExecute_SameDayNoticeFilter(t *testing.T) {
	deps := defaultDeps()
	deps.config.err = nil
	deps.config.config = &domain.BookingConfig{
		BusinessID:          1,
		SlotIntervalMinutes: 30,
		MinNoticeMinutes:    60,
	}

	// запрос на сегодня, сейчас 09:15: слоты раньше 10:15 скрыты
	now := time.Date(2026, 8, 31, 9, 15, 0, 0, time.UTC)
	uc := newTestUseCase(deps, now)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, Date: testDate})
	require.NoError(t, err)

	starts := make([]types.TimeString, len(resp.Slots))
	for i, s := range resp.Slots {
		starts[i] = s.StartTime
	}
	assert.Equal(t, []types.TimeString{"10:30", "11:00"}, starts)
}

func TestExecute_BusinessNotFound(t *testing.T) {
	deps := defaultDeps()
	deps.business.business = nil
	deps.business.err = businessRepo.ErrBusinessNotFound
	uc := newTestUseCase(deps, testDate.AddDate(0, 0, -7))

	_, err := uc.Execute(context.Background(), &Request{BusinessID: 99, Date: testDate})
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestExecute_InactiveBusinessHiddenAsNotFound(t *testing.T) {
	deps := defaultDeps()
	deps.business.business.IsActive = false
	uc := newTestUseCase(deps, testDate.AddDate(0, 0, -7))

	_, err := uc.Execute(context.Background(), &Request{BusinessID: 1, Date: testDate})
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestExecute_InactiveService(t *testing.T) {
	deps := defaultDeps()
	deps.catalog.service = &domain.Service{ID: 5, DurationMinutes: 60, IsActive: false}
	uc := newTestUseCase(deps, testDate.AddDate(0, 0, -7))

	_, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  ptr.Ptr(int64(5)),
		Date:       testDate,
	})
	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	deps := defaultDeps()
	deps.catalog.err = catalogRepo.ErrServiceNotFound
	uc := newTestUseCase(deps, testDate.AddDate(0, 0, -7))

	_, err := uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  ptr.Ptr(int64(99)),
		Date:       testDate,
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_PastDateReturnsEmpty(t *testing.T) {
	deps := defaultDeps()
	// "сегодня" на день позже запрошенной даты
	uc := newTestUseCase(deps, testDate.AddDate(0, 0, 1))

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, Date: testDate})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.Equal(t, testDate, resp.Date)
}

func TestExecute_DateBeyondAdvanceLimit(t *testing.T) {
	deps := defaultDeps()
	deps.config.err = nil
	deps.config.config = &domain.BookingConfig{
		BusinessID:          1,
		SlotIntervalMinutes: 30,
		AdvanceBookingDays:  3,
	}
	uc := newTestUseCase(deps, testDate.AddDate(0, 0, -7))

	_, err := uc.Execute(context.Background(), &Request{BusinessID: 1, Date: testDate})
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}
