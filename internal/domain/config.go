package domain

import "time"

// BookingConfig represents the slot configuration of a business.
// Supports a two-level hierarchy:
// 1. Service-specific (business_id, service_id)
// 2. Business-wide (business_id, NULL)
type BookingConfig struct {
	ID                  int64
	BusinessID          int64
	ServiceID           *int64 // NULL = config for all services
	SlotIntervalMinutes int
	MinNoticeMinutes    int
	AdvanceBookingDays  int // 0 = unlimited

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBusinessWide returns true if this is a business-wide configuration
func (c *BookingConfig) IsBusinessWide() bool {
	return c.ServiceID == nil
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance
// reservations can be made
func (c *BookingConfig) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}

// DefaultBookingConfig возвращает конфигурацию с дефолтными значениями.
// Используется, когда бизнес не настроил собственную.
func DefaultBookingConfig() *BookingConfig {
	return &BookingConfig{
		SlotIntervalMinutes: DefaultSlotIntervalMinutes,
		MinNoticeMinutes:    DefaultMinNoticeMinutes,
		AdvanceBookingDays:  DefaultAdvanceBookingDays,
	}
}
