package domain

// Default configuration values
const (
	DefaultSlotIntervalMinutes    = 30
	DefaultServiceDurationMinutes = 60 // occupancy of a "general" reservation without a service
	DefaultMinNoticeMinutes       = 0
	DefaultAdvanceBookingDays     = 0 // 0 = unlimited
)

// Business validation constants
const (
	MinSlotIntervalMinutes = 5
	MaxSlotIntervalMinutes = 240
	MinServiceDuration     = 1
	MaxServiceDuration     = 480 // 8 hours
	MinAdvanceBookingDays  = 0
	MaxAdvanceBookingDays  = 365
	MinNoticeMinutes       = 0
	MaxNoticeMinutes       = 10080 // 1 week
	MaxCustomerNameLength  = 200
	MaxNotesLength         = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// BlockingStatuses статусы, при которых бронь занимает свой временной интервал.
// Отменённые брони слотов не блокируют.
var BlockingStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
