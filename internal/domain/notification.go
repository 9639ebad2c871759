package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// NotificationTrigger defines the event a notification reacts to
type NotificationTrigger string

const (
	TriggerReservationCreated   NotificationTrigger = "reservation_created"
	TriggerReservationReminder  NotificationTrigger = "reservation_reminder"
	TriggerReservationCancelled NotificationTrigger = "reservation_cancelled"
)

// NotificationChannel defines the delivery channel
type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "email"
	ChannelSMS   NotificationChannel = "sms"
)

// NotificationStatus defines the outbox row status
type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

var (
	// ErrUnknownTemplate возвращается, когда для пары (trigger, channel) нет шаблона
	ErrUnknownTemplate = errors.New("domain: no template for trigger/channel")
)

// NotificationTemplate is keyed by an explicit (Trigger, Channel) pair.
// Placeholders are named fields of PlaceholderData, substituted by Render -
// no positional or reflection-based interpolation.
type NotificationTemplate struct {
	Trigger NotificationTrigger
	Channel NotificationChannel
	Subject string // пустой для SMS
	Body    string
}

// PlaceholderData named substitution values for notification templates
type PlaceholderData struct {
	CustomerName    string
	BusinessName    string
	ServiceName     string
	Date            string
	Time            string
	BusinessAddress string
	BusinessPhone   string
}

// Render подставляет именованные поля в текст шаблона.
// Поддерживаемые плейсхолдеры: {customer_name}, {business_name}, {service_name},
// {date}, {time}, {business_address}, {business_phone}.
func (d PlaceholderData) Render(template string) string {
	replacer := strings.NewReplacer(
		"{customer_name}", d.CustomerName,
		"{business_name}", d.BusinessName,
		"{service_name}", d.ServiceName,
		"{date}", d.Date,
		"{time}", d.Time,
		"{business_address}", d.BusinessAddress,
		"{business_phone}", d.BusinessPhone,
	)
	return replacer.Replace(template)
}

// defaultTemplates стандартные шаблоны уведомлений
var defaultTemplates = []NotificationTemplate{
	{
		Trigger: TriggerReservationCreated,
		Channel: ChannelEmail,
		Subject: "Резервацията е потвърдена - {business_name}",
		Body: "Здравейте, {customer_name}!\n\n" +
			"Вашата резервация за {service_name} на {date} в {time} е приета.\n" +
			"Адрес: {business_address}\nТелефон: {business_phone}",
	},
	{
		Trigger: TriggerReservationCreated,
		Channel: ChannelSMS,
		Body:    "{business_name}: резервация {service_name} на {date} в {time}.",
	},
	{
		Trigger: TriggerReservationReminder,
		Channel: ChannelEmail,
		Subject: "Напомняне за резервация - {business_name}",
		Body: "Здравейте, {customer_name}!\n\n" +
			"Напомняме Ви за резервацията за {service_name} утре, {date} в {time}.\n" +
			"Адрес: {business_address}",
	},
	{
		Trigger: TriggerReservationReminder,
		Channel: ChannelSMS,
		Body:    "{business_name}: напомняне за {date} в {time}.",
	},
	{
		Trigger: TriggerReservationCancelled,
		Channel: ChannelEmail,
		Subject: "Резервацията е отменена - {business_name}",
		Body: "Здравейте, {customer_name}!\n\n" +
			"Вашата резервация за {service_name} на {date} в {time} беше отменена.",
	},
}

// TemplateFor возвращает шаблон для пары (trigger, channel)
func TemplateFor(trigger NotificationTrigger, channel NotificationChannel) (NotificationTemplate, error) {
	for _, tpl := range defaultTemplates {
		if tpl.Trigger == trigger && tpl.Channel == channel {
			return tpl, nil
		}
	}
	return NotificationTemplate{}, fmt.Errorf("%w: %s/%s", ErrUnknownTemplate, trigger, channel)
}

// Notification represents a scheduled notification (outbox row).
// Delivery is owned by the external notifier service; this core only schedules.
type Notification struct {
	ID            int64
	ReservationID int64
	Trigger       NotificationTrigger
	Channel       NotificationChannel
	Recipient     string
	Subject       *string
	Content       string
	ScheduledFor  time.Time
	Status        NotificationStatus
	SentAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
