package models

import (
	"github.com/rezervo/booking-service/internal/domain"
	"github.com/rezervo/booking-service/pkg/types"
)

// Request модели

// DayInput одна запись недельного расписания в запросе
type DayInput struct {
	DayOfWeek int    `json:"dayOfWeek"` // ISO: Monday=1 ... Sunday=7
	OpenTime  string `json:"openTime"`  // "09:00", игнорируется при isOpen=false
	CloseTime string `json:"closeTime"` // "18:00", игнорируется при isOpen=false
	IsOpen    bool   `json:"isOpen"`
}

// UpdateScheduleRequest запрос на замену недельного расписания целиком
type UpdateScheduleRequest struct {
	UserID int64      `json:"userId"`
	Days   []DayInput `json:"days"`
}

// ToDomainEntries конвертирует входные дни в domain модели
func (r *UpdateScheduleRequest) ToDomainEntries(businessID int64) ([]domain.WeeklyScheduleEntry, error) {
	entries := make([]domain.WeeklyScheduleEntry, 0, len(r.Days))

	for _, day := range r.Days {
		entry := domain.WeeklyScheduleEntry{
			BusinessID: businessID,
			DayOfWeek:  day.DayOfWeek,
			IsOpen:     day.IsOpen,
		}

		if day.IsOpen {
			openTime, err := types.NewTimeStringFromString(day.OpenTime)
			if err != nil {
				return nil, err
			}
			closeTime, err := types.NewTimeStringFromString(day.CloseTime)
			if err != nil {
				return nil, err
			}
			entry.OpenTime = openTime
			entry.CloseTime = closeTime
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// Response модели

// DayResponse одна запись недельного расписания в ответе
type DayResponse struct {
	DayOfWeek int     `json:"dayOfWeek"`
	OpenTime  *string `json:"openTime,omitempty"`
	CloseTime *string `json:"closeTime,omitempty"`
	IsOpen    bool    `json:"isOpen"`
}

// ScheduleResponse ответ с недельным расписанием бизнеса
type ScheduleResponse struct {
	BusinessID int64         `json:"businessId"`
	Days       []DayResponse `json:"days"`
}

// FromDomainEntries конвертирует domain модели в DTO
func FromDomainEntries(businessID int64, entries []domain.WeeklyScheduleEntry) *ScheduleResponse {
	resp := &ScheduleResponse{
		BusinessID: businessID,
		Days:       make([]DayResponse, len(entries)),
	}

	for i, entry := range entries {
		day := DayResponse{
			DayOfWeek: entry.DayOfWeek,
			IsOpen:    entry.IsOpen,
		}

		if entry.IsOpen {
			open := entry.OpenTime.String()
			closeAt := entry.CloseTime.String()
			day.OpenTime = &open
			day.CloseTime = &closeAt
		}

		resp.Days[i] = day
	}

	return resp
}
