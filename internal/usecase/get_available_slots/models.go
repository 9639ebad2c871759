package get_available_slots

import (
	"time"

	"github.com/rezervo/booking-service/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	BusinessID int64     // ID бизнеса
	ServiceID  *int64    // ID услуги (nil = "общая" бронь, занятость 60 минут)
	Date       time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов.
// Пустой список слотов - не ошибка: так выглядит выходной или полностью занятый день.
type Response struct {
	Date       time.Time // Дата, на которую запрашивались слоты
	BusinessID int64     // ID бизнеса
	ServiceID  *int64    // ID услуги
	Slots      []Slot    // Доступные слоты в порядке возрастания времени
}

// Slot модель доступного временного слота
type Slot struct {
	StartTime       types.TimeString // Время начала слота (например, "10:00")
	DurationMinutes int              // Длительность занятости в минутах
}
