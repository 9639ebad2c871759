package schedule

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

// Repository репозиторий для работы с недельным расписанием бизнеса
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByBusiness получает все записи расписания бизнеса, отсортированные по дню недели.
// Отсутствие записей не ошибка - пустое расписание означает "всегда закрыто".
func (r *Repository) GetByBusiness(ctx context.Context, businessID int64) ([]domain.WeeklyScheduleEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"day_of_week",
		"open_time",
		"close_time",
		"is_open",
		"created_at",
		"updated_at",
	).
		From("business_hours").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("day_of_week ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusiness - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusiness - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]domain.WeeklyScheduleEntry, 0, 7)

	for rows.Next() {
		var entry domain.WeeklyScheduleEntry
		var createdAt, updatedAt sql.NullTime

		// open_time/close_time могут быть NULL для закрытых дней -
		// types.TimeString.Scan принимает nil как пустое значение
		err := rows.Scan(
			&entry.ID,
			&entry.BusinessID,
			&entry.DayOfWeek,
			&entry.OpenTime,
			&entry.CloseTime,
			&entry.IsOpen,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByBusiness - scan row: %v", ErrScanRow, err)
		}

		entry.CreatedAt = createdAt.Time
		entry.UpdatedAt = updatedAt.Time

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByBusiness - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}

// ReplaceAll заменяет расписание бизнеса целиком.
// Владелец сохраняет все 7 дней разом, поэтому пере-создание проще diff-а.
// Вызывающий обязан обернуть вызов в транзакцию (txManager.Do), иначе между
// удалением и вставкой расписание окажется пустым для читателей.
func (r *Repository) ReplaceAll(ctx context.Context, businessID int64, entries []domain.WeeklyScheduleEntry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("business_hours").
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceAll - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceAll - execute delete: %v", ErrExecQuery, err)
	}

	if len(entries) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("business_hours").
		Columns("business_id", "day_of_week", "open_time", "close_time", "is_open")

	for _, entry := range entries {
		var openTime, closeTime interface{}
		if entry.IsOpen {
			openTime = entry.OpenTime
			closeTime = entry.CloseTime
		}
		insertBuilder = insertBuilder.Values(businessID, entry.DayOfWeek, openTime, closeTime, entry.IsOpen)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceAll - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceAll - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
