package notifier

// Message модель уведомления для сервиса доставки
type Message struct {
	Channel   string  `json:"channel"`   // "email" или "sms"
	Recipient string  `json:"recipient"` // email-адрес или номер телефона
	Subject   *string `json:"subject,omitempty"`
	Content   string  `json:"content"`
}

// ErrorResponse модель ошибки от сервиса доставки
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
