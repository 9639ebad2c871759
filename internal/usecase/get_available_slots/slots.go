package get_available_slots

import (
	"fmt"
	"time"

	"github.com/rezervo/booking-service/internal/domain"
	"github.com/rezervo/booking-service/pkg/types"
)

// generateTimeSlots генерирует кандидатов начала брони на один день.
// Кандидаты идут с шагом intervalMinutes от времени открытия; кандидат включается,
// только если услуга целиком помещается до закрытия: start + duration <= close.
// Вся арифметика в минутах с начала суток - никакого переноса часов/минут вручную.
// Закрытый день (или день без записи в расписании) дает пустой список, не ошибку.
func generateTimeSlots(
	entry domain.WeeklyScheduleEntry,
	serviceDurationMinutes int,
	intervalMinutes int,
) ([]types.TimeString, error) {
	if serviceDurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: service duration must be positive, got %d", ErrInvalidInput, serviceDurationMinutes)
	}
	if intervalMinutes <= 0 {
		return nil, fmt.Errorf("%w: slot interval must be positive, got %d", ErrInvalidInput, intervalMinutes)
	}

	if !entry.IsOpen {
		return []types.TimeString{}, nil
	}

	open, err := entry.OpenTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid open time: %v", ErrInternal, err)
	}

	closeAt, err := entry.CloseTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid close time: %v", ErrInternal, err)
	}

	// openTime == closeTime дает пустой день; openTime > closeTime отсечен валидацией расписания
	slots := make([]types.TimeString, 0)

	for start := open; start < closeAt; start += intervalMinutes {
		if start+serviceDurationMinutes > closeAt {
			break
		}

		slot, err := types.NewTimeStringFromMinutes(start)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}

		slots = append(slots, slot)
	}

	return slots, nil
}

// filterAvailableSlots убирает кандидатов, чей интервал занятости [s, s+duration)
// пересекается с занятостью существующей брони. Порядок кандидатов сохраняется.
// Отменённые брони пропускаются - они слотов не блокируют.
func filterAvailableSlots(
	candidates []types.TimeString,
	serviceDurationMinutes int,
	reservations []*domain.Reservation,
	logger Logger,
) ([]types.TimeString, error) {
	// Бронь с некорректным временем не должна скрывать весь день,
	// но и молча переставать блокировать слоты она не должна
	blocking := make([]*domain.Reservation, 0, len(reservations))
	for _, res := range reservations {
		if !res.BlocksSlot() {
			continue
		}
		if _, err := res.EndTime(); err != nil {
			logger.Warn("GetAvailableSlots: reservation id=%d has invalid time, not blocking slots: %v", res.ID, err)
			continue
		}
		blocking = append(blocking, res)
	}

	available := make([]types.TimeString, 0, len(candidates))

	for _, candidate := range candidates {
		end, err := candidate.AddMinutes(serviceDurationMinutes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}

		taken := false
		for _, res := range blocking {
			overlaps, err := res.OverlapsInterval(candidate, end)
			if err != nil {
				continue
			}

			if overlaps {
				taken = true
				break
			}
		}

		if !taken {
			available = append(available, candidate)
		}
	}

	return available, nil
}

// filterByNotice для броней на сегодня скрывает слоты, начинающиеся раньше,
// чем now + minNoticeMinutes. Для будущих дат возвращает кандидатов как есть.
func filterByNotice(
	candidates []types.TimeString,
	requestDate time.Time,
	now time.Time,
	minNoticeMinutes int,
) ([]types.TimeString, error) {
	if !isSameDay(requestDate, now) {
		return candidates, nil
	}

	minAllowed, err := types.NewTimeString(now).AddMinutes(minNoticeMinutes)
	if err != nil {
		// now + notice перевалил за полночь - сегодня уже ничего не доступно
		return []types.TimeString{}, nil
	}

	filtered := make([]types.TimeString, 0, len(candidates))
	for _, candidate := range candidates {
		if !candidate.IsBefore(minAllowed) {
			filtered = append(filtered, candidate)
		}
	}

	return filtered, nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
