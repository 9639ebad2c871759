package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rezervo/booking-service/internal/domain"
	"github.com/rezervo/booking-service/internal/integrations/notifier"
	"github.com/rezervo/booking-service/pkg/ptr"
)

// reminderLeadTime за сколько до начала брони отправляется напоминание
const reminderLeadTime = 24 * time.Hour

// Service планирует уведомления в outbox и отдает назревшие на доставку.
// Само ядро писем и SMS не шлёт - доставкой владеет внешний notifier,
// сюда стекается только расписание и статусы попыток.
type Service struct {
	notificationRepo NotificationRepository
	notifierClient   NotifierClient
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса уведомлений
func NewService(
	notificationRepo NotificationRepository,
	notifierClient NotifierClient,
	logger Logger,
) *Service {
	return &Service{
		notificationRepo: notificationRepo,
		notifierClient:   notifierClient,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// ScheduleReservationCreated планирует уведомления для новой брони:
// подтверждение сразу и напоминание за 24 часа до начала (если оно ещё в будущем).
// Канал выбирается по заполненным контактам клиента: email и/или SMS.
func (s *Service) ScheduleReservationCreated(ctx context.Context, res *domain.Reservation, biz *domain.Business) error {
	if res == nil || biz == nil {
		return fmt.Errorf("%w: reservation and business are required", ErrInvalidInput)
	}

	now := s.timeProvider.Now()
	data := placeholderData(res, biz)

	notifications := make([]*domain.Notification, 0, 4)

	appendFor := func(trigger domain.NotificationTrigger, scheduledFor time.Time) error {
		if res.CustomerEmail != nil && *res.CustomerEmail != "" {
			n, err := buildNotification(res.ID, trigger, domain.ChannelEmail, *res.CustomerEmail, data, scheduledFor)
			if err != nil {
				return err
			}
			notifications = append(notifications, n)
		}
		if res.CustomerPhone != nil && *res.CustomerPhone != "" {
			n, err := buildNotification(res.ID, trigger, domain.ChannelSMS, *res.CustomerPhone, data, scheduledFor)
			if err != nil {
				return err
			}
			notifications = append(notifications, n)
		}
		return nil
	}

	if err := appendFor(domain.TriggerReservationCreated, now); err != nil {
		return err
	}

	if reminderAt, ok := reminderTime(res, now); ok {
		if err := appendFor(domain.TriggerReservationReminder, reminderAt); err != nil {
			return err
		}
	}

	if len(notifications) == 0 {
		s.logger.Info("ScheduleReservationCreated: reservation id=%d has no contacts, nothing scheduled", res.ID)
		return nil
	}

	if err := s.notificationRepo.CreateBatch(ctx, notifications); err != nil {
		s.logger.Error("ScheduleReservationCreated: failed to persist notifications for reservation id=%d: %v", res.ID, err)
		return fmt.Errorf("%w: failed to persist notifications: %v", ErrInternal, err)
	}

	s.logger.Info("ScheduleReservationCreated: scheduled %d notifications for reservation id=%d", len(notifications), res.ID)
	return nil
}

// ScheduleReservationCancelled снимает запланированные уведомления отменённой
// брони и планирует уведомление об отмене (только email - SMS об отмене не шлём).
func (s *Service) ScheduleReservationCancelled(ctx context.Context, res *domain.Reservation, biz *domain.Business) error {
	if res == nil || biz == nil {
		return fmt.Errorf("%w: reservation and business are required", ErrInvalidInput)
	}

	// Напоминание об отменённой брони клиенту не нужно
	if err := s.notificationRepo.CancelByReservation(ctx, res.ID); err != nil {
		s.logger.Error("ScheduleReservationCancelled: failed to cancel pending notifications for reservation id=%d: %v", res.ID, err)
		return fmt.Errorf("%w: failed to cancel pending notifications: %v", ErrInternal, err)
	}

	if res.CustomerEmail == nil || *res.CustomerEmail == "" {
		return nil
	}

	data := placeholderData(res, biz)
	n, err := buildNotification(res.ID, domain.TriggerReservationCancelled, domain.ChannelEmail, *res.CustomerEmail, data, s.timeProvider.Now())
	if err != nil {
		return err
	}

	if err := s.notificationRepo.CreateBatch(ctx, []*domain.Notification{n}); err != nil {
		s.logger.Error("ScheduleReservationCancelled: failed to persist notification for reservation id=%d: %v", res.ID, err)
		return fmt.Errorf("%w: failed to persist notification: %v", ErrInternal, err)
	}

	s.logger.Info("ScheduleReservationCancelled: scheduled cancellation notice for reservation id=%d", res.ID)
	return nil
}

// DispatchDue отправляет назревшие уведомления через notifier.
// Недоступность сервиса доставки оставляет уведомление в pending - его
// подхватит следующий проход; отказ по содержимому помечается failed.
func (s *Service) DispatchDue(ctx context.Context, limit uint64) (int, error) {
	due, err := s.notificationRepo.GetDue(ctx, limit)
	if err != nil {
		s.logger.Error("DispatchDue: failed to get due notifications: %v", err)
		return 0, fmt.Errorf("%w: failed to get due notifications: %v", ErrInternal, err)
	}

	sent := 0
	for _, n := range due {
		msg := &notifier.Message{
			Channel:   string(n.Channel),
			Recipient: n.Recipient,
			Subject:   n.Subject,
			Content:   n.Content,
		}

		if err := s.notifierClient.Send(ctx, msg); err != nil {
			if errors.Is(err, notifier.ErrServiceDegraded) {
				s.logger.Warn("DispatchDue: delivery service unavailable, notification id=%d stays pending: %v", n.ID, err)
				continue
			}

			s.logger.Error("DispatchDue: delivery rejected notification id=%d: %v", n.ID, err)
			if markErr := s.notificationRepo.MarkFailed(ctx, n.ID); markErr != nil {
				s.logger.Error("DispatchDue: failed to mark notification id=%d failed: %v", n.ID, markErr)
			}
			continue
		}

		if err := s.notificationRepo.MarkSent(ctx, n.ID); err != nil {
			s.logger.Error("DispatchDue: failed to mark notification id=%d sent: %v", n.ID, err)
			continue
		}
		sent++
	}

	if len(due) > 0 {
		s.logger.Info("DispatchDue: sent %d of %d due notifications", sent, len(due))
	}

	return sent, nil
}

// Run запускает фоновый цикл диспетчера. Блокируется до отмены контекста.
func (s *Service) Run(ctx context.Context, interval time.Duration, batchSize uint64) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("notifications dispatcher started: interval=%s, batch=%d", interval, batchSize)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("notifications dispatcher stopped")
			return
		case <-ticker.C:
			if _, err := s.DispatchDue(ctx, batchSize); err != nil {
				s.logger.Error("notifications dispatcher: dispatch pass failed: %v", err)
			}
		}
	}
}

// buildNotification рендерит шаблон (trigger, channel) в готовую outbox-строку
func buildNotification(
	reservationID int64,
	trigger domain.NotificationTrigger,
	channel domain.NotificationChannel,
	recipient string,
	data domain.PlaceholderData,
	scheduledFor time.Time,
) (*domain.Notification, error) {
	tpl, err := domain.TemplateFor(trigger, channel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	n := &domain.Notification{
		ReservationID: reservationID,
		Trigger:       trigger,
		Channel:       channel,
		Recipient:     recipient,
		Content:       data.Render(tpl.Body),
		ScheduledFor:  scheduledFor,
		Status:        domain.NotificationPending,
	}

	if tpl.Subject != "" {
		n.Subject = ptr.Ptr(data.Render(tpl.Subject))
	}

	return n, nil
}

// placeholderData собирает значения для подстановки в шаблоны
func placeholderData(res *domain.Reservation, biz *domain.Business) domain.PlaceholderData {
	data := domain.PlaceholderData{
		CustomerName: res.CustomerName,
		BusinessName: biz.Name,
		Date:         res.Date.Format(domain.DateFormat),
		Time:         res.StartTime.String(),
	}

	if res.ServiceName != nil {
		data.ServiceName = *res.ServiceName
	}
	if biz.Address != nil {
		data.BusinessAddress = *biz.Address
	}
	if biz.Phone != nil {
		data.BusinessPhone = *biz.Phone
	}

	return data
}

// reminderTime считает время напоминания: начало брони минус 24 часа.
// Напоминание не планируется, если его время уже прошло.
func reminderTime(res *domain.Reservation, now time.Time) (time.Time, bool) {
	startMin, err := res.StartTime.Minutes()
	if err != nil {
		return time.Time{}, false
	}

	start := time.Date(res.Date.Year(), res.Date.Month(), res.Date.Day(), 0, 0, 0, 0, res.Date.Location()).
		Add(time.Duration(startMin) * time.Minute)

	reminderAt := start.Add(-reminderLeadTime)
	if !reminderAt.After(now) {
		return time.Time{}, false
	}

	return reminderAt, true
}
