package notifier

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifier client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("notifier client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation.
	// Указывает, что сервис доставки недоступен - уведомление остаётся
	// в статусе pending и будет переотправлено следующим проходом диспетчера.
	ErrServiceDegraded = errors.New("notifier unavailable: graceful degradation applied")
)
