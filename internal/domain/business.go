package domain

import "time"

// Business represents a tenant of the platform (the aggregate root:
// schedule entries and services belong to exactly one business)
type Business struct {
	ID       int64
	OwnerID  int64
	Name     string
	Type     *string // free-text category ("Restaurant", "Barbershop", ...)
	Address  *string
	Phone    *string
	Email    *string
	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
