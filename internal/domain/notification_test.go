package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholderData_Render(t *testing.T) {
	data := PlaceholderData{
		CustomerName: "Иван Петров",
		BusinessName: "Салон Виктория",
		ServiceName:  "Мъжко подстригване",
		Date:         "2026-09-01",
		Time:         "14:30",
	}

	got := data.Render("{business_name}: резервация {service_name} на {date} в {time}.")
	assert.Equal(t, "Салон Виктория: резервация Мъжко подстригване на 2026-09-01 в 14:30.", got)

	// неизвестные плейсхолдеры остаются как есть
	assert.Equal(t, "{unknown}", data.Render("{unknown}"))
}

func TestTemplateFor(t *testing.T) {
	tpl, err := TemplateFor(TriggerReservationCreated, ChannelEmail)
	require.NoError(t, err)
	assert.Equal(t, ChannelEmail, tpl.Channel)
	assert.NotEmpty(t, tpl.Subject)
	assert.NotEmpty(t, tpl.Body)

	// у SMS нет темы
	tpl, err = TemplateFor(TriggerReservationReminder, ChannelSMS)
	require.NoError(t, err)
	assert.Empty(t, tpl.Subject)

	// для отмены нет SMS шаблона
	_, err = TemplateFor(TriggerReservationCancelled, ChannelSMS)
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}
