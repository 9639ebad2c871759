package update_service

import (
	"context"

	"github.com/rezervo/booking-service/internal/service/catalog/models"
)

type CatalogService interface {
	Update(ctx context.Context, businessID, serviceID int64, req *models.UpdateServiceRequest) (*models.ServiceResponse, error)
	SetActive(ctx context.Context, businessID, serviceID int64, req *models.SetActiveRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
