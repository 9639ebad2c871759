package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/rezervo/booking-service/pkg/types"
)

var (
	// ErrInvalidDayOfWeek возвращается при дне недели вне диапазона 1-7
	ErrInvalidDayOfWeek = errors.New("domain: day of week must be in range 1-7")

	// ErrInvalidWindow возвращается, когда открытие не раньше закрытия
	ErrInvalidWindow = errors.New("domain: open time must be before close time")

	// ErrDuplicateDay возвращается при двух записях расписания на один день
	ErrDuplicateDay = errors.New("domain: duplicate schedule entry for day of week")
)

// WeeklyScheduleEntry represents the operating window of a business for one weekday.
// DayOfWeek uses the ISO convention: Monday=1 ... Sunday=7.
type WeeklyScheduleEntry struct {
	ID         int64
	BusinessID int64
	DayOfWeek  int
	OpenTime   types.TimeString
	CloseTime  types.TimeString
	IsOpen     bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет инварианты записи расписания
func (e *WeeklyScheduleEntry) Validate() error {
	if e.DayOfWeek < 1 || e.DayOfWeek > 7 {
		return fmt.Errorf("%w: got %d", ErrInvalidDayOfWeek, e.DayOfWeek)
	}

	if !e.IsOpen {
		return nil
	}

	if err := e.OpenTime.Validate(); err != nil {
		return err
	}
	if err := e.CloseTime.Validate(); err != nil {
		return err
	}

	if !e.OpenTime.IsBefore(e.CloseTime) {
		return fmt.Errorf("%w: %s >= %s", ErrInvalidWindow, e.OpenTime, e.CloseTime)
	}

	return nil
}

// WeeklySchedule is an immutable per-request snapshot of a business's weekly
// operating hours, keyed by ISO day of week (1-7). A missing day is closed.
type WeeklySchedule map[int]WeeklyScheduleEntry

// NewWeeklySchedule строит расписание из записей.
// Возвращает ошибку при двух записях на один и тот же день.
func NewWeeklySchedule(entries []WeeklyScheduleEntry) (WeeklySchedule, error) {
	schedule := make(WeeklySchedule, len(entries))

	for _, entry := range entries {
		if entry.DayOfWeek < 1 || entry.DayOfWeek > 7 {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidDayOfWeek, entry.DayOfWeek)
		}
		if _, exists := schedule[entry.DayOfWeek]; exists {
			return nil, fmt.Errorf("%w: day %d", ErrDuplicateDay, entry.DayOfWeek)
		}
		schedule[entry.DayOfWeek] = entry
	}

	return schedule, nil
}

// Lookup возвращает запись расписания на день недели (1-7).
// Отсутствие записи означает, что бизнес в этот день закрыт (fail-safe).
func (s WeeklySchedule) Lookup(dayOfWeek int) (WeeklyScheduleEntry, bool) {
	entry, ok := s[dayOfWeek]
	return entry, ok
}

// LookupDate возвращает запись расписания на день недели указанной даты
func (s WeeklySchedule) LookupDate(date time.Time) (WeeklyScheduleEntry, bool) {
	return s.Lookup(ISOWeekday(date))
}

// ISOWeekday преобразует день недели даты в ISO нумерацию: Monday=1 ... Sunday=7.
// time.Weekday считает воскресенье нулём - это ЕДИНСТВЕННОЕ место в коде,
// где выполняется преобразование, не дублировать по call sites.
func ISOWeekday(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
