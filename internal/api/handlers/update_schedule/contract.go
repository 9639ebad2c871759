package update_schedule

import (
	"context"

	"github.com/rezervo/booking-service/internal/service/schedule/models"
)

type ScheduleService interface {
	Replace(ctx context.Context, businessID int64, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
