package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestISOWeekday(t *testing.T) {
	// 2026-08-24 понедельник, 2026-08-30 воскресенье
	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 6; i++ {
		assert.Equal(t, i+1, ISOWeekday(monday.AddDate(0, 0, i)))
	}

	sunday := monday.AddDate(0, 0, 6)
	assert.Equal(t, time.Sunday, sunday.Weekday())
	assert.Equal(t, 7, ISOWeekday(sunday))
}

func TestWeeklyScheduleEntry_Validate(t *testing.T) {
	tests := []struct {
		name    string
		entry   WeeklyScheduleEntry
		wantErr error
	}{
		{
			name:  "valid open day",
			entry: WeeklyScheduleEntry{DayOfWeek: 1, OpenTime: "09:00", CloseTime: "18:00", IsOpen: true},
		},
		{
			name: "closed day skips window validation",
			// для закрытого дня окно не проверяется
			entry: WeeklyScheduleEntry{DayOfWeek: 7, IsOpen: false},
		},
		{
			name:    "day of week too small",
			entry:   WeeklyScheduleEntry{DayOfWeek: 0, OpenTime: "09:00", CloseTime: "18:00", IsOpen: true},
			wantErr: ErrInvalidDayOfWeek,
		},
		{
			name:    "day of week too large",
			entry:   WeeklyScheduleEntry{DayOfWeek: 8, OpenTime: "09:00", CloseTime: "18:00", IsOpen: true},
			wantErr: ErrInvalidDayOfWeek,
		},
		{
			name:    "open equals close",
			entry:   WeeklyScheduleEntry{DayOfWeek: 2, OpenTime: "10:00", CloseTime: "10:00", IsOpen: true},
			wantErr: ErrInvalidWindow,
		},
		{
			name:    "open after close",
			entry:   WeeklyScheduleEntry{DayOfWeek: 2, OpenTime: "18:00", CloseTime: "09:00", IsOpen: true},
			wantErr: ErrInvalidWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewWeeklySchedule_DuplicateDay(t *testing.T) {
	entries := []WeeklyScheduleEntry{
		{DayOfWeek: 1, OpenTime: "09:00", CloseTime: "18:00", IsOpen: true},
		{DayOfWeek: 1, OpenTime: "10:00", CloseTime: "19:00", IsOpen: true},
	}

	_, err := NewWeeklySchedule(entries)
	assert.ErrorIs(t, err, ErrDuplicateDay)
}

func TestWeeklySchedule_LookupDate(t *testing.T) {
	schedule, err := NewWeeklySchedule([]WeeklyScheduleEntry{
		{DayOfWeek: 1, OpenTime: "09:00", CloseTime: "18:00", IsOpen: true},
		{DayOfWeek: 6, IsOpen: false},
	})
	require.NoError(t, err)

	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	entry, ok := schedule.LookupDate(monday)
	require.True(t, ok)
	assert.True(t, entry.IsOpen)

	saturday := monday.AddDate(0, 0, 5)
	entry, ok = schedule.LookupDate(saturday)
	require.True(t, ok)
	assert.False(t, entry.IsOpen)

	// день без записи - закрыт
	sunday := monday.AddDate(0, 0, 6)
	_, ok = schedule.LookupDate(sunday)
	assert.False(t, ok)
}
