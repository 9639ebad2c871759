package reservations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezervo/booking-service/internal/domain"
	businessRepo "github.com/rezervo/booking-service/internal/infra/storage/business"
	reservationRepo "github.com/rezervo/booking-service/internal/infra/storage/reservation"
	"github.com/rezervo/booking-service/internal/service/reservations/models"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeReservationRepo struct {
	byID map[int64]*domain.Reservation

	updatedStatus *domain.ReservationStatus
	cancelledID   int64
	cancelReason  string

	updateErr error
	cancelErr error
}

func (f *fakeReservationRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	res, ok := f.byID[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return res, nil
}

func (f *fakeReservationRepo) GetByBusinessWithFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	out := make([]*domain.Reservation, 0, len(f.byID))
	for _, res := range f.byID {
		if res.BusinessID == filter.BusinessID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedStatus = &status
	return nil
}

func (f *fakeReservationRepo) Cancel(ctx context.Context, id int64, reason string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelledID = id
	f.cancelReason = reason
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

type fakeNotificationScheduler struct {
	cancelled []*domain.Reservation
	err       error
}

func (f *fakeNotificationScheduler) ScheduleReservationCancelled(ctx context.Context, res *domain.Reservation, biz *domain.Business) error {
	if f.err != nil {
		return f.err
	}
	f.cancelled = append(f.cancelled, res)
	return nil
}

const (
	ownerID    = int64(10)
	strangerID = int64(99)
)

func pendingReservation() *domain.Reservation {
	return &domain.Reservation{
		ID:              1,
		BusinessID:      1,
		Date:            time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		DurationMinutes: 60,
		Status:          domain.StatusPending,
		CustomerName:    "Иван Петров",
	}
}

func newTestService(res *domain.Reservation) (*Service, *fakeReservationRepo, *fakeNotificationScheduler) {
	repo := &fakeReservationRepo{byID: map[int64]*domain.Reservation{}}
	if res != nil {
		repo.byID[res.ID] = res
	}

	bizRepo := &fakeBusinessRepo{
		business: &domain.Business{ID: 1, OwnerID: ownerID, Name: "Салон Виктория", IsActive: true},
	}
	scheduler := &fakeNotificationScheduler{}

	return NewService(repo, bizRepo, scheduler, nopLogger{}), repo, scheduler
}

func TestGetByID_OwnerOnly(t *testing.T) {
	svc, _, _ := newTestService(pendingReservation())

	resp, err := svc.GetByID(context.Background(), 1, ownerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)

	_, err = svc.GetByID(context.Background(), 1, strangerID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _, _ := newTestService(nil)

	_, err := svc.GetByID(context.Background(), 42, ownerID)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestUpdateStatus_AllowedTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.ReservationStatus
		to      string
		wantErr error
	}{
		{name: "pending to confirmed", from: domain.StatusPending, to: "confirmed"},
		{name: "pending to completed", from: domain.StatusPending, to: "completed"},
		{name: "confirmed to completed", from: domain.StatusConfirmed, to: "completed"},
		{name: "confirmed back to pending", from: domain.StatusConfirmed, to: "pending", wantErr: ErrInvalidTransition},
		{name: "completed is terminal", from: domain.StatusCompleted, to: "confirmed", wantErr: ErrInvalidTransition},
		{name: "cancelled is terminal", from: domain.StatusCancelled, to: "confirmed", wantErr: ErrInvalidTransition},
		// отмена только через Cancel
		{name: "cancellation via status update", from: domain.StatusPending, to: "cancelled", wantErr: ErrInvalidTransition},
		{name: "unknown status", from: domain.StatusPending, to: "archived", wantErr: ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := pendingReservation()
			res.Status = tt.from
			svc, repo, _ := newTestService(res)

			err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
				UserID: ownerID,
				Status: tt.to,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, repo.updatedStatus)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, repo.updatedStatus)
			assert.Equal(t, domain.ReservationStatus(tt.to), *repo.updatedStatus)
		})
	}
}

func TestUpdateStatus_AccessDenied(t *testing.T) {
	svc, repo, _ := newTestService(pendingReservation())

	err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
		UserID: strangerID,
		Status: "confirmed",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Nil(t, repo.updatedStatus)
}

func TestCancel_ReleasesSlotAndSchedulesNotice(t *testing.T) {
	svc, repo, scheduler := newTestService(pendingReservation())

	err := svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{
		UserID:             ownerID,
		CancellationReason: "клиент не может прийти",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), repo.cancelledID)
	assert.Equal(t, "клиент не может прийти", repo.cancelReason)

	require.Len(t, scheduler.cancelled, 1)
	assert.Equal(t, domain.StatusCancelled, scheduler.cancelled[0].Status)
}

func TestCancel_TerminalStatuses(t *testing.T) {
	for _, status := range []domain.ReservationStatus{domain.StatusCompleted, domain.StatusCancelled} {
		res := pendingReservation()
		res.Status = status
		svc, _, _ := newTestService(res)

		err := svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{
			UserID:             ownerID,
			CancellationReason: "поздно",
		})
		assert.ErrorIs(t, err, ErrCannotCancel, "status %s", status)
	}
}

func TestCancel_SchedulerFailureDoesNotFailCancel(t *testing.T) {
	svc, repo, scheduler := newTestService(pendingReservation())
	scheduler.err = errors.New("notifications down")

	err := svc.Cancel(context.Background(), 1, &models.CancelReservationRequest{
		UserID:             ownerID,
		CancellationReason: "причина",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), repo.cancelledID)
}

func TestGetBusinessReservations_BusinessNotFound(t *testing.T) {
	svc, _, _ := newTestService(pendingReservation())
	svc.businessRepo = &fakeBusinessRepo{err: businessRepo.ErrBusinessNotFound}

	_, err := svc.GetBusinessReservations(context.Background(), &models.GetBusinessReservationsRequest{
		UserID:     ownerID,
		BusinessID: 77,
	})
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestGetBusinessReservations_InvalidStatusFilter(t *testing.T) {
	svc, _, _ := newTestService(pendingReservation())

	bad := "archived"
	_, err := svc.GetBusinessReservations(context.Background(), &models.GetBusinessReservationsRequest{
		UserID:     ownerID,
		BusinessID: 1,
		Status:     &bad,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
