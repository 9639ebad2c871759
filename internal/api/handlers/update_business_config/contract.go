package update_business_config

import (
	"context"

	"github.com/rezervo/booking-service/internal/service/config/models"
)

type ConfigService interface {
	Upsert(ctx context.Context, businessID int64, req *models.UpsertConfigRequest) (*models.ConfigResponse, error)
	Delete(ctx context.Context, businessID, configID int64, req *models.DeleteConfigRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
