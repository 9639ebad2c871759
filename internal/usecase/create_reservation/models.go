package create_reservation

import (
	"time"

	"github.com/rezervo/booking-service/internal/domain"
	"github.com/rezervo/booking-service/pkg/types"
)

// Request модель запроса на создание брони
type Request struct {
	BusinessID    int64            // ID бизнеса
	ServiceID     *int64           // ID услуги (nil = "общая" бронь, занятость 60 минут)
	Date          time.Time        // Дата брони (без времени)
	StartTime     types.TimeString // Время начала (например, "10:00")
	CustomerName  string           // Имя клиента (обязательно)
	CustomerPhone *string          // Телефон клиента
	CustomerEmail *string          // Email клиента
	Notes         *string          // Комментарий клиента
}

// Response модель ответа с созданной бронью
type Response struct {
	Reservation *domain.Reservation
}
