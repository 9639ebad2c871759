package config

import (
	"context"

	"github.com/rezervo/booking-service/internal/domain"
)

// ConfigRepository интерфейс репозитория конфигурации слотов
type ConfigRepository interface {
	GetConfigWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingConfig, error)
	GetAllByBusiness(ctx context.Context, businessID int64) ([]*domain.BookingConfig, error)
	Upsert(ctx context.Context, config *domain.BookingConfig) (*domain.BookingConfig, error)
	Delete(ctx context.Context, id int64) error
}

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
