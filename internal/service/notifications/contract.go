package notifications

import (
	"context"
	"time"

	"github.com/rezervo/booking-service/internal/domain"
	"github.com/rezervo/booking-service/internal/integrations/notifier"
)

// NotificationRepository интерфейс outbox-репозитория уведомлений
type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []*domain.Notification) error
	GetDue(ctx context.Context, limit uint64) ([]*domain.Notification, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64) error
	CancelByReservation(ctx context.Context, reservationID int64) error
}

// NotifierClient интерфейс клиента внешнего сервиса доставки
type NotifierClient interface {
	Send(ctx context.Context, msg *notifier.Message) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
