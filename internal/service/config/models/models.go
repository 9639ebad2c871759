package models

import (
	"time"

	"github.com/rezervo/booking-service/internal/domain"
)

// Request модели

// UpsertConfigRequest запрос на создание/обновление конфигурации слотов
type UpsertConfigRequest struct {
	UserID              int64  `json:"userId"`
	ServiceID           *int64 `json:"serviceId,omitempty"` // nil = конфигурация всего бизнеса
	SlotIntervalMinutes int    `json:"slotIntervalMinutes"`
	MinNoticeMinutes    int    `json:"minNoticeMinutes"`
	AdvanceBookingDays  int    `json:"advanceBookingDays"`
}

// DeleteConfigRequest запрос на удаление конфигурации
type DeleteConfigRequest struct {
	UserID int64 `json:"userId"`
}

// Response модели

// ConfigResponse ответ с конфигурацией слотов
type ConfigResponse struct {
	ID                  int64  `json:"id"`
	BusinessID          int64  `json:"businessId"`
	ServiceID           *int64 `json:"serviceId,omitempty"`
	SlotIntervalMinutes int    `json:"slotIntervalMinutes"`
	MinNoticeMinutes    int    `json:"minNoticeMinutes"`
	AdvanceBookingDays  int    `json:"advanceBookingDays"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ConfigListResponse ответ со списком конфигураций бизнеса
type ConfigListResponse struct {
	Configs []ConfigResponse `json:"configs"`
}

// Методы конвертации

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.BookingConfig) *ConfigResponse {
	if c == nil {
		return nil
	}

	return &ConfigResponse{
		ID:                  c.ID,
		BusinessID:          c.BusinessID,
		ServiceID:           c.ServiceID,
		SlotIntervalMinutes: c.SlotIntervalMinutes,
		MinNoticeMinutes:    c.MinNoticeMinutes,
		AdvanceBookingDays:  c.AdvanceBookingDays,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

// FromDomainConfigList конвертирует список domain моделей в DTO
func FromDomainConfigList(configs []*domain.BookingConfig) *ConfigListResponse {
	if configs == nil {
		return &ConfigListResponse{
			Configs: []ConfigResponse{},
		}
	}

	resp := &ConfigListResponse{
		Configs: make([]ConfigResponse, len(configs)),
	}

	for i, config := range configs {
		if configResp := FromDomainConfig(config); configResp != nil {
			resp.Configs[i] = *configResp
		}
	}

	return resp
}
