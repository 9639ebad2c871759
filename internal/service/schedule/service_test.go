package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezervo/booking-service/internal/domain"
	businessRepo "github.com/rezervo/booking-service/internal/infra/storage/business"
	"github.com/rezervo/booking-service/internal/service/schedule/models"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeScheduleRepo struct {
	entries  []domain.WeeklyScheduleEntry
	replaced []domain.WeeklyScheduleEntry
}

func (f *fakeScheduleRepo) GetByBusiness(ctx context.Context, businessID int64) ([]domain.WeeklyScheduleEntry, error) {
	return f.entries, nil
}

func (f *fakeScheduleRepo) ReplaceAll(ctx context.Context, businessID int64, entries []domain.WeeklyScheduleEntry) error {
	f.replaced = entries
	return nil
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

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

const ownerID = int64(10)

func newTestService(repo *fakeScheduleRepo) *Service {
	bizRepo := &fakeBusinessRepo{
		business: &domain.Business{ID: 1, OwnerID: ownerID, Name: "Салон Виктория", IsActive: true},
	}
	return NewService(repo, bizRepo, passthroughTxManager{}, nopLogger{})
}

func validDays() []models.DayInput {
	return []models.DayInput{
		{DayOfWeek: 1, OpenTime: "09:00", CloseTime: "18:00", IsOpen: true},
		{DayOfWeek: 2, OpenTime: "09:00", CloseTime: "18:00", IsOpen: true},
		{DayOfWeek: 7, IsOpen: false},
	}
}

func TestGet_ReturnsSchedule(t *testing.T) {
	repo := &fakeScheduleRepo{
		entries: []domain.WeeklyScheduleEntry{
			{BusinessID: 1, DayOfWeek: 1, OpenTime: "09:00", CloseTime: "18:00", IsOpen: true},
			{BusinessID: 1, DayOfWeek: 6, IsOpen: false},
		},
	}
	svc := newTestService(repo)

	resp, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, resp.Days, 2)
	require.NotNil(t, resp.Days[0].OpenTime)
	assert.Equal(t, "09:00", *resp.Days[0].OpenTime)

	// у закрытого дня окна нет
	assert.Nil(t, resp.Days[1].OpenTime)
	assert.Nil(t, resp.Days[1].CloseTime)
}

func TestGet_BusinessNotFound(t *testing.T) {
	svc := newTestService(&fakeScheduleRepo{})
	svc.businessRepo = &fakeBusinessRepo{err: businessRepo.ErrBusinessNotFound}

	_, err := svc.Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestReplace_ReplacesWholeWeek(t *testing.T) {
	repo := &fakeScheduleRepo{}
	svc := newTestService(repo)

	resp, err := svc.Replace(context.Background(), 1, &models.UpdateScheduleRequest{
		UserID: ownerID,
		Days:   validDays(),
	})
	require.NoError(t, err)

	require.Len(t, repo.replaced, 3)
	assert.Equal(t, int64(1), repo.replaced[0].BusinessID)
	assert.Len(t, resp.Days, 3)
}

func TestReplace_AccessDenied(t *testing.T) {
	repo := &fakeScheduleRepo{}
	svc := newTestService(repo)

	_, err := svc.Replace(context.Background(), 1, &models.UpdateScheduleRequest{
		UserID: 99,
		Days:   validDays(),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Nil(t, repo.replaced)
}

func TestReplace_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		days []models.DayInput
	}{
		{
			name: "bad time format",
			days: []models.DayInput{{DayOfWeek: 1, OpenTime: "9am", CloseTime: "18:00", IsOpen: true}},
		},
		{
			name: "open after close",
			days: []models.DayInput{{DayOfWeek: 1, OpenTime: "18:00", CloseTime: "09:00", IsOpen: true}},
		},
		{
			name: "day of week out of range",
			days: []models.DayInput{{DayOfWeek: 8, OpenTime: "09:00", CloseTime: "18:00", IsOpen: true}},
		},
		{
			name: "duplicate day",
			days: []models.DayInput{
				{DayOfWeek: 1, OpenTime: "09:00", CloseTime: "18:00", IsOpen: true},
				{DayOfWeek: 1, OpenTime: "10:00", CloseTime: "19:00", IsOpen: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeScheduleRepo{}
			svc := newTestService(repo)

			_, err := svc.Replace(context.Background(), 1, &models.UpdateScheduleRequest{
				UserID: ownerID,
				Days:   tt.days,
			})
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, repo.replaced)
		})
	}
}

func TestReplace_ClosedDayNeedsNoWindow(t *testing.T) {
	repo := &fakeScheduleRepo{}
	svc := newTestService(repo)

	_, err := svc.Replace(context.Background(), 1, &models.UpdateScheduleRequest{
		UserID: ownerID,
		Days:   []models.DayInput{{DayOfWeek: 3, IsOpen: false}},
	})
	assert.NoError(t, err)
}
