package domain

import (
	"time"

	"github.com/rezervo/booking-service/pkg/types"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

// Reservation represents a booked slot in the system
type Reservation struct {
	ID         int64
	BusinessID int64
	ServiceID  *int64 // nil = "general" reservation without a specific service
	Date       time.Time
	StartTime  types.TimeString
	// DurationMinutes длительность занятости, зафиксированная в момент создания.
	// Для брони без услуги равна DefaultServiceDurationMinutes.
	DurationMinutes int
	Status          ReservationStatus

	CustomerName  string
	CustomerPhone *string
	CustomerEmail *string

	// Denormalized service data for history (the service may be edited later)
	ServiceName  *string
	ServicePrice *float64

	Notes *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndTime возвращает конец интервала занятости [StartTime, StartTime+Duration)
func (r *Reservation) EndTime() (types.TimeString, error) {
	return r.StartTime.AddMinutes(r.DurationMinutes)
}

// BlocksSlot returns true if the reservation occupies its time interval.
// Cancelled reservations impose no constraint on availability.
func (r *Reservation) BlocksSlot() bool {
	return r.Status != StatusCancelled
}

// CanBeCancelled returns true if the reservation can still be cancelled
func (r *Reservation) CanBeCancelled() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// IsCancelled returns true if the reservation has been cancelled
func (r *Reservation) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// OverlapsInterval проверяет пересечение занятости брони с полуоткрытым интервалом [start, end).
// Интервалы пересекаются, только если начало одного СТРОГО раньше конца другого и наоборот -
// бронь, заканчивающаяся ровно в момент начала другой, пересечением не считается.
func (r *Reservation) OverlapsInterval(start, end types.TimeString) (bool, error) {
	resEnd, err := r.EndTime()
	if err != nil {
		return false, err
	}

	return r.StartTime.IsBefore(end) && resEnd.IsAfter(start), nil
}

// ReservationsFilter фильтр для получения бронирований бизнеса
type ReservationsFilter struct {
	BusinessID       int64              // Обязательный параметр
	StartDate        *time.Time         // Начало периода (опционально)
	EndDate          *time.Time         // Конец периода (опционально)
	Status           *ReservationStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool               // Включать ли отменённые брони
}
