package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/jrbarber/scheduling-service/internal/domain"
	"github.com/jrbarber/scheduling-service/pkg/dbmetrics"
	"github.com/jrbarber/scheduling-service/pkg/psqlbuilder"
)

// Repository репозиторий для работы с записями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var appointmentColumns = []string{
	"id",
	"customer_id",
	"service",
	"start_time",
	"end_time",
	"duration_minutes",
	"status",
	"confirmation_token",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Create создает новую запись.
// Проверка пересечения слотов и вставка должны выполняться в одной
// сериализуемой транзакции (см. usecase book_appointment) - сам по себе
// Create конфликт не проверяет.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"id",
			"customer_id",
			"service",
			"start_time",
			"end_time",
			"duration_minutes",
			"status",
			"confirmation_token",
			"notes",
		).
		Values(
			appt.ID,
			appt.CustomerID,
			appt.Service,
			appt.StartTime,
			appt.EndTime,
			appt.DurationMinutes,
			appt.Status,
			appt.ConfirmationToken,
			appt.Notes,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&appt.CreatedAt, &appt.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return appt, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})

	// Внутри транзакции блокируем строку для последующего изменения статуса
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := r.scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %w", ErrScanRow, err)
	}

	return appt, nil
}

// GetByToken получает запись по токену подтверждения.
// Внутри транзакции блокирует строку (FOR UPDATE), чтобы погашение
// токена было атомарным read-modify-write.
func (r *Repository) GetByToken(ctx context.Context, token string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"confirmation_token": token})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByToken - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := r.scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByToken - scan appointment: %w", ErrScanRow, err)
	}

	return appt, nil
}

// FindOverlapping возвращает активные записи, пересекающиеся с полуоткрытым
// интервалом [start, end): start < end_time AND start_time < end.
// Записи, начинающиеся ровно в end или заканчивающиеся ровно в start,
// пересечением не считаются.
// Внутри транзакции блокирует найденные строки (FOR UPDATE).
func (r *Repository) FindOverlapping(ctx context.Context, start, end time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatuses[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"status": activeStatuses}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// Cancel отменяет запись с указанием причины
func (r *Repository) Cancel(ctx context.Context, id string, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// ListWithCustomers возвращает записи вместе с данными клиентов,
// отсортированные от новых к старым
func (r *Repository) ListWithCustomers(ctx context.Context, limit uint64) ([]*domain.AppointmentWithCustomer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"a.id",
		"a.customer_id",
		"a.service",
		"a.start_time",
		"a.end_time",
		"a.duration_minutes",
		"a.status",
		"a.confirmation_token",
		"a.notes",
		"a.cancellation_reason",
		"a.cancelled_at",
		"a.created_at",
		"a.updated_at",
		"c.name",
		"c.email",
		"c.phone",
	).
		From("appointments a").
		Join("customers c ON c.id = a.customer_id").
		OrderBy("a.start_time DESC").
		Limit(limit).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListWithCustomers - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithCustomers - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]*domain.AppointmentWithCustomer, 0)
	for rows.Next() {
		var item domain.AppointmentWithCustomer
		err := rows.Scan(
			&item.ID,
			&item.CustomerID,
			&item.Service,
			&item.StartTime,
			&item.EndTime,
			&item.DurationMinutes,
			&item.Status,
			&item.ConfirmationToken,
			&item.Notes,
			&item.CancellationReason,
			&item.CancelledAt,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.CustomerName,
			&item.CustomerEmail,
			&item.CustomerPhone,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListWithCustomers - scan row: %w", ErrScanRow, err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListWithCustomers - rows error: %w", ErrScanRow, err)
	}

	return items, nil
}

// rowScanner общий интерфейс для *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAppointment сканирует одну запись
func (r *Repository) scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	err := row.Scan(
		&appt.ID,
		&appt.CustomerID,
		&appt.Service,
		&appt.StartTime,
		&appt.EndTime,
		&appt.DurationMinutes,
		&appt.Status,
		&appt.ConfirmationToken,
		&appt.Notes,
		&appt.CancellationReason,
		&appt.CancelledAt,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := r.scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %w", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %w", ErrScanRow, err)
	}

	return appointments, nil
}
