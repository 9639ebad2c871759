package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezervo/booking-service/pkg/types"
)

func TestReservation_OverlapsInterval(t *testing.T) {
	res := &Reservation{
		StartTime:       "10:00",
		DurationMinutes: 60,
		Status:          StatusConfirmed,
	}

	tests := []struct {
		name  string
		start types.TimeString
		end   types.TimeString
		want  bool
	}{
		{name: "identical interval", start: "10:00", end: "11:00", want: true},
		{name: "candidate starts inside", start: "10:30", end: "11:30", want: true},
		{name: "candidate ends inside", start: "09:30", end: "10:30", want: true},
		{name: "candidate contains reservation", start: "09:00", end: "12:00", want: true},
		// касание границ пересечением не считается
		{name: "candidate ends at reservation start", start: "09:00", end: "10:00", want: false},
		{name: "candidate starts at reservation end", start: "11:00", end: "12:00", want: false},
		{name: "fully before", start: "08:00", end: "09:00", want: false},
		{name: "fully after", start: "12:00", end: "13:00", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := res.OverlapsInterval(tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReservation_BlocksSlot(t *testing.T) {
	for _, status := range []ReservationStatus{StatusPending, StatusConfirmed, StatusCompleted} {
		res := &Reservation{Status: status}
		assert.True(t, res.BlocksSlot(), "status %s", status)
	}

	cancelled := &Reservation{Status: StatusCancelled}
	assert.False(t, cancelled.BlocksSlot())
}

func TestReservation_CanBeCancelled(t *testing.T) {
	assert.True(t, (&Reservation{Status: StatusPending}).CanBeCancelled())
	assert.True(t, (&Reservation{Status: StatusConfirmed}).CanBeCancelled())
	assert.False(t, (&Reservation{Status: StatusCompleted}).CanBeCancelled())
	assert.False(t, (&Reservation{Status: StatusCancelled}).CanBeCancelled())
}

func TestReservation_EndTime(t *testing.T) {
	res := &Reservation{StartTime: "10:00", DurationMinutes: 90}

	end, err := res.EndTime()
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("11:30"), end)

	// занятость за границей суток
	res = &Reservation{StartTime: "23:30", DurationMinutes: 60}
	_, err = res.EndTime()
	assert.Error(t, err)
}
