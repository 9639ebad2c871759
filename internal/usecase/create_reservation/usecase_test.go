package create_reservation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezervo/booking-service/internal/domain"
	bookingconfigRepo "github.com/rezervo/booking-service/internal/infra/storage/bookingconfig"
	businessRepo "github.com/rezervo/booking-service/internal/infra/storage/business"
	reservationRepo "github.com/rezervo/booking-service/internal/infra/storage/reservation"
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

// fakeReservationStore хранит брони в памяти и повторяет конфликтную семантику
// репозитория: вторая вставка на пересекающийся интервал дает ErrSlotConflict.
type fakeReservationStore struct {
	mu           sync.Mutex
	nextID       int64
	reservations []*domain.Reservation

	createErr error
}

func (f *fakeReservationStore) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return nil, f.createErr
	}

	end, err := res.EndTime()
	if err != nil {
		return nil, err
	}
	for _, other := range f.reservations {
		if !other.BlocksSlot() {
			continue
		}
		overlaps, err := other.OverlapsInterval(res.StartTime, end)
		if err != nil {
			continue
		}
		if overlaps {
			return nil, reservationRepo.ErrSlotConflict
		}
	}

	f.nextID++
	res.ID = f.nextID
	f.reservations = append(f.reservations, res)
	return res, nil
}

func (f *fakeReservationStore) GetByBusinessWithFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*domain.Reservation, len(f.reservations))
	copy(out, f.reservations)
	return out, nil
}

type fakeScheduleRepo struct {
	entries []domain.WeeklyScheduleEntry
}

func (f *fakeScheduleRepo) GetByBusiness(ctx context.Context, businessID int64) ([]domain.WeeklyScheduleEntry, error) {
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

// passthroughTxManager выполняет функцию без реальной транзакции
type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNotificationScheduler struct {
	mu        sync.Mutex
	scheduled []*domain.Reservation
	err       error
}

func (f *fakeNotificationScheduler) ScheduleReservationCreated(ctx context.Context, res *domain.Reservation, biz *domain.Business) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.scheduled = append(f.scheduled, res)
	return nil
}

// testDate 2026-08-31, понедельник
var testDate = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

type useCaseDeps struct {
	store     *fakeReservationStore
	schedule  *fakeScheduleRepo
	business  *fakeBusinessRepo
	catalog   *fakeCatalogRepo
	config    *fakeConfigRepo
	scheduler *fakeNotificationScheduler
}

func defaultDeps() *useCaseDeps {
	return &useCaseDeps{
		store: &fakeReservationStore{},
		schedule: &fakeScheduleRepo{
			entries: []domain.WeeklyScheduleEntry{
				{DayOfWeek: 1, OpenTime: "09:00", CloseTime: "18:00", IsOpen: true},
			},
		},
		business: &fakeBusinessRepo{
			business: &domain.Business{ID: 1, OwnerID: 10, Name: "Салон Виктория", IsActive: true},
		},
		catalog:   &fakeCatalogRepo{},
		config:    &fakeConfigRepo{err: bookingconfigRepo.ErrConfigNotFound},
		scheduler: &fakeNotificationScheduler{},
	}
}

func newTestUseCase(deps *useCaseDeps, now time.Time) *UseCase {
	uc := NewUseCase(
		deps.store,
		deps.schedule,
		deps.business,
		deps.catalog,
		deps.config,
		passthroughTxManager{},
		deps.scheduler,
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc
}

func validRequest() *Request {
	return &Request{
		BusinessID:   1,
		Date:         testDate,
		StartTime:    "10:00",
		CustomerName: "Иван Петров",
	}
}

func TestExecute_CreatesPendingReservation(t *testing.T) {
	deps := defaultDeps()
	uc := newTestUseCase(deps, testDate.AddDate(0, 0, -7))

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotNil(t, resp.Reservation)

	res := resp.Reservation
	assert.Equal(t, domain.StatusPending, res.Status)
	assert.Equal(t, types.TimeString("10:00"), res.StartTime)
	assert.Equal(t, domain.DefaultServiceDurationMinutes, res.DurationMinutes)
	assert.NotZero(t, res.ID)

	// уведомления запланированы после коммита
	assert.Len(t, deps.scheduler.scheduled, 1)
}

func TestExecute_SnapshotsServiceNameAndPrice(t *testing.T) {
	deps := defaultDeps()
	deps.catalog.service = &domain.Service{
		ID: 5, BusinessID: 1, Name: "Мъжко подстригване", DurationMinutes: 30, Price: 25.0, IsActive: true,
	}
	uc := newTestUseCase(deps, testDate.AddDate(0, 0, -7))

	req := validRequest()
	req.ServiceID = ptr.Ptr(int64(5))

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	res := resp.Reservation
	require.NotNil(t, res.ServiceName)
	assert.Equal(t, "Мъжко подстригване", *res.ServiceName)
	require.NotNil(t, res.ServicePrice)
	assert.Equal(t, 25.0, *res.ServicePrice)
	assert.Equal(t, 30, res.DurationMinutes)
}

func TestExecute_ValidationErrors(t *testing.T) {
	deps := defaultDeps()
	uc := newTestUseCase(deps, testDate.AddDate(0, 0, -7))

	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{name: "non-positive business id", mutate: func(r *Request) { r.BusinessID = 0 }},
		{name: "non-positive service id", mutate: func(r *Request) { r.ServiceID = ptr.Ptr(int64(0)) }},
		{name: "zero date", mutate: func(r *Request) { r.Date = time.Time{} }},
		{name: "bad start time", mutate: func(r *Request) { r.StartTime = "9am" }},
		{name: "blank customer name", mutate: func(r *Request) { r.CustomerName = "   " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_BusinessNotFound(t *testing.T) {
	deps := defaultDeps()
	deps.business.business = nil
	deps.business.err = businessRepo.ErrBusinessNotFound
	uc := newTestUseCase(deps, testDate.AddDate(0, 0, -7))

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestExecute_ClosedDay(t *testing.T) {
	deps := defaultDeps()
	deps.schedule.entries = []domain.WeeklyScheduleEntry{
		{DayOfWeek: 1, IsOpen: false},
	}
	uc := newTestUseCase(deps, testDate.AddDate(0, 0, -7))

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBusinessClosed)
}

func TestExecute_NoScheduleEntryForDay(t *testing.T) {
	deps := defaultDeps()
	deps.schedule.entries = nil
	uc := newTestUseCase(deps, testDate.AddDate(0, 0, -7))

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBusinessClosed)
}

func TestExecute_OutsideBusinessHours(t *testing.T) {
	deps := defaultDeps()
	uc := newTestUseCase(deps, testDate.AddDate(0, 0, -7))

	// до открытия
	req := validRequest()
	req.StartTime = "08:00"
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideBusinessHours)

	// занятость выходит за закрытие (17:30 + 60 минут > 18:00)
	req = validRequest()
	req.StartTime = "17:30"
	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideBusinessHours)
}

func TestExecute_EndingExactlyAtCloseIsAllowed(t *testing.T) {
	deps := defaultDeps()
	uc := newTestUseCase(deps, testDate.AddDate(0, 0, -7))

	req := validRequest()
	req.StartTime = "17:00"

	_, err := uc.Execute(context.Background(), req)
	assert.NoError(t, err)
}

func TestExecute_TooLateToBookSameDay(t *testing.T) {
	deps := defaultDeps()
	deps.config.err = nil
	deps.config.config = &domain.BookingConfig{
		BusinessID:          1,
		SlotIntervalMinutes: 30,
		MinNoticeMinutes:    120,
	}

	// сейчас 09:00 того же дня, notice 120 минут: бронь на 10:00 уже поздно
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	uc := newTestUseCase(deps, now)

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_SlotTakenByOverlappingReservation(t *testing.T) {
	deps := defaultDeps()
	deps.store.reservations = []*domain.Reservation{
		{ID: 1, BusinessID: 1, StartTime: "09:30", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}
	uc := newTestUseCase(deps, testDate.AddDate(0, 0, -7))

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestExecute_CancelledReservationDoesNotBlock(t *testing.T) {
	deps := defaultDeps()
	deps.store.reservations = []*domain.Reservation{
		{ID: 1, BusinessID: 1, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusCancelled},
	}
	uc := newTestUseCase(deps, testDate.AddDate(0, 0, -7))

	_, err := uc.Execute(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestExecute_UniqueIndexConflictMapsToSlotTaken(t *testing.T) {
	deps := defaultDeps()
	deps.store.createErr = reservationRepo.ErrSlotConflict
	uc := newTestUseCase(deps, testDate.AddDate(0, 0, -7))

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestExecute_ConcurrentCommitsOneWins(t *testing.T) {
	deps := defaultDeps()
	now := testDate.AddDate(0, 0, -7)

	// два use case над одним хранилищем - как два инстанса сервиса над одной БД
	uc1 := newTestUseCase(deps, now)
	uc2 := newTestUseCase(deps, now)

	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = uc1.Execute(context.Background(), validRequest())
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = uc2.Execute(context.Background(), validRequest())
	}()
	wg.Wait()

	var taken, created int
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, ErrSlotTaken):
			taken++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, created, "exactly one commit must win")
	assert.Equal(t, 1, taken, "the loser must get ErrSlotTaken")
	assert.Len(t, deps.store.reservations, 1)
}

func TestExecute_SchedulerFailureDoesNotFailReservation(t *testing.T) {
	deps := defaultDeps()
	deps.scheduler.err = errors.New("notifications service is down")
	uc := newTestUseCase(deps, testDate.AddDate(0, 0, -7))

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotZero(t, resp.Reservation.ID)
}
