package notification

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/rezervo/booking-service/internal/domain"
	"github.com/rezervo/booking-service/pkg/dbmetrics"
	"github.com/rezervo/booking-service/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

var notificationColumns = []string{
	"id",
	"reservation_id",
	"trigger_name",
	"channel",
	"recipient",
	"subject",
	"content",
	"scheduled_for",
	"status",
	"sent_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий outbox-таблицы уведомлений.
// Строки создаются при коммите брони; доставкой занимается внешний notifier.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория уведомлений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateBatch создает пачку запланированных уведомлений одной вставкой
func (r *Repository) CreateBatch(ctx context.Context, notifications []*domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("notifications").
		Columns("reservation_id", "trigger_name", "channel", "recipient", "subject", "content", "scheduled_for", "status")

	for _, n := range notifications {
		insertBuilder = insertBuilder.Values(
			n.ReservationID,
			n.Trigger,
			n.Channel,
			n.Recipient,
			n.Subject,
			n.Content,
			n.ScheduledFor,
			n.Status,
		)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: CreateBatch - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreateBatch - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetDue получает уведомления, срок отправки которых наступил
func (r *Repository) GetDue(ctx context.Context, limit uint64) ([]*domain.Notification, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(notificationColumns...).
		From("notifications").
		Where(squirrel.Eq{"status": domain.NotificationPending}).
		Where(squirrel.Expr("scheduled_for <= NOW()")).
		OrderBy("scheduled_for ASC").
		Limit(limit).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetDue - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetDue - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	notifications := make([]*domain.Notification, 0)
	for rows.Next() {
		var n domain.Notification
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&n.ID,
			&n.ReservationID,
			&n.Trigger,
			&n.Channel,
			&n.Recipient,
			&n.Subject,
			&n.Content,
			&n.ScheduledFor,
			&n.Status,
			&n.SentAt,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetDue - scan row: %v", ErrScanRow, err)
		}

		n.CreatedAt = createdAt.Time
		n.UpdatedAt = updatedAt.Time

		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetDue - rows error: %v", ErrScanRow, err)
	}

	return notifications, nil
}

// MarkSent помечает уведомление отправленным
func (r *Repository) MarkSent(ctx context.Context, id int64) error {
	return r.updateStatus(ctx, id, domain.NotificationSent, true)
}

// MarkFailed помечает уведомление неотправленным
func (r *Repository) MarkFailed(ctx context.Context, id int64) error {
	return r.updateStatus(ctx, id, domain.NotificationFailed, false)
}

func (r *Repository) updateStatus(ctx context.Context, id int64, status domain.NotificationStatus, sent bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("notifications").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if sent {
		updateBuilder = updateBuilder.Set("sent_at", squirrel.Expr("NOW()"))
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: updateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: updateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: updateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

// CancelByReservation снимает запланированные уведомления отменённой брони
func (r *Repository) CancelByReservation(ctx context.Context, reservationID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("notifications").
		Where(squirrel.Eq{
			"reservation_id": reservationID,
			"status":         domain.NotificationPending,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CancelByReservation - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CancelByReservation - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}
