package domain

import "time"

// Service represents a bookable service offered by a business
type Service struct {
	ID              int64
	BusinessID      int64
	Name            string
	Description     *string
	DurationMinutes int
	Price           float64
	// IsActive gates visibility to customers. Services are soft-disabled,
	// never deleted: reservations reference them historically.
	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OccupancyMinutes возвращает длительность занятости для услуги.
// Для nil ("общая" бронь без услуги) - дефолтные 60 минут.
func OccupancyMinutes(service *Service) int {
	if service == nil || service.DurationMinutes <= 0 {
		return DefaultServiceDurationMinutes
	}
	return service.DurationMinutes
}
