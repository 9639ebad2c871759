package create_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrBusinessNotFound возвращается, когда бизнес не найден или отключен
	ErrBusinessNotFound = errors.New("business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceInactive возвращается, когда услуга отключена владельцем
	ErrServiceInactive = errors.New("service is not active")

	// ErrInvalidDate возвращается при дате брони в прошлом
	ErrInvalidDate = errors.New("invalid reservation date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("date is too far in the future")

	// ErrBusinessClosed возвращается, когда бизнес не работает в этот день недели
	ErrBusinessClosed = errors.New("business is closed on this day")

	// ErrOutsideBusinessHours возвращается, когда услуга не помещается в рабочее окно
	ErrOutsideBusinessHours = errors.New("reservation is outside business hours")

	// ErrTooLateToBook возвращается, когда до начала брони меньше минимального уведомления
	ErrTooLateToBook = errors.New("too late to book this slot")

	// ErrSlotTaken возвращается, когда слот пересекается с существующей бронью
	ErrSlotTaken = errors.New("slot is already taken")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
