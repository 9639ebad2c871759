package create_reservation

import (
	"time"

	"github.com/rezervo/booking-service/internal/domain"
	createReservation "github.com/rezervo/booking-service/internal/usecase/create_reservation"
	"github.com/rezervo/booking-service/pkg/types"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	ServiceID     *int64  `json:"serviceId,omitempty"`
	Date          string  `json:"date"`      // "2026-09-15"
	StartTime     string  `json:"startTime"` // "10:00"
	CustomerName  string  `json:"customerName"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID              int64    `json:"id"`
	BusinessID      int64    `json:"businessId"`
	ServiceID       *int64   `json:"serviceId,omitempty"`
	Date            string   `json:"date"`
	StartTime       string   `json:"startTime"`
	DurationMinutes int      `json:"durationMinutes"`
	Status          string   `json:"status"`
	CustomerName    string   `json:"customerName"`
	CustomerPhone   *string  `json:"customerPhone,omitempty"`
	CustomerEmail   *string  `json:"customerEmail,omitempty"`
	ServiceName     *string  `json:"serviceName,omitempty"`
	ServicePrice    *float64 `json:"servicePrice,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(businessID int64) (*createReservation.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		BusinessID:    businessID,
		ServiceID:     r.ServiceID,
		Date:          date,
		StartTime:     startTime,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	res := resp.Reservation

	return &ReservationResponse{
		ID:              res.ID,
		BusinessID:      res.BusinessID,
		ServiceID:       res.ServiceID,
		Date:            res.Date.Format(domain.DateFormat),
		StartTime:       res.StartTime.String(),
		DurationMinutes: res.DurationMinutes,
		Status:          string(res.Status),
		CustomerName:    res.CustomerName,
		CustomerPhone:   res.CustomerPhone,
		CustomerEmail:   res.CustomerEmail,
		ServiceName:     res.ServiceName,
		ServicePrice:    res.ServicePrice,
		Notes:           res.Notes,
		CreatedAt:       res.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       res.UpdatedAt.Format(time.RFC3339),
	}
}
