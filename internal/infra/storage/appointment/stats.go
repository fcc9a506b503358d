package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/jrbarber/scheduling-service/internal/domain"
	"github.com/jrbarber/scheduling-service/pkg/dbmetrics"
	"github.com/jrbarber/scheduling-service/pkg/psqlbuilder"
)

// Read-only агрегаты для админской статистики.
// Каждый агрегат - один SQL-запрос, поэтому внутренне консистентен
// (считается по единому снимку таблицы).

// CountByDay возвращает количество записей по календарным дням,
// начиная с since, по возрастанию дня. Дни без записей опускаются.
func (r *Repository) CountByDay(ctx context.Context, since time.Time) ([]domain.DailyCount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"DATE(start_time) AS day",
		"COUNT(*) AS count",
	).
		From("appointments").
		Where(squirrel.GtOrEq{"start_time": since}).
		GroupBy("day").
		OrderBy("day ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CountByDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountByDay - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make([]domain.DailyCount, 0)
	for rows.Next() {
		var c domain.DailyCount
		if err := rows.Scan(&c.Day, &c.Count); err != nil {
			return nil, fmt.Errorf("%w: CountByDay - scan row: %w", ErrScanRow, err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountByDay - rows error: %w", ErrScanRow, err)
	}

	return counts, nil
}

// CountByHour возвращает количество записей по часам суток (0-23),
// начиная с since, по возрастанию часа. Часы без записей опускаются.
func (r *Repository) CountByHour(ctx context.Context, since time.Time) ([]domain.HourCount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"EXTRACT(HOUR FROM start_time)::int AS hour",
		"COUNT(*) AS count",
	).
		From("appointments").
		Where(squirrel.GtOrEq{"start_time": since}).
		GroupBy("hour").
		OrderBy("hour ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CountByHour - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountByHour - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make([]domain.HourCount, 0)
	for rows.Next() {
		var c domain.HourCount
		if err := rows.Scan(&c.Hour, &c.Count); err != nil {
			return nil, fmt.Errorf("%w: CountByHour - scan row: %w", ErrScanRow, err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountByHour - rows error: %w", ErrScanRow, err)
	}

	return counts, nil
}

// TopCustomers возвращает клиентов хотя бы с одной записью (в любом статусе):
// количество визитов и время последнего визита, по убыванию визитов,
// при равенстве - по более позднему визиту
func (r *Repository) TopCustomers(ctx context.Context, limit uint64) ([]domain.RepeatCustomer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"c.name",
		"c.email",
		"c.phone",
		"COUNT(a.id) AS visits",
		"MAX(a.start_time) AS last_visit",
	).
		From("customers c").
		Join("appointments a ON a.customer_id = c.id").
		GroupBy("c.id", "c.name", "c.email", "c.phone").
		OrderBy("visits DESC", "last_visit DESC").
		Limit(limit).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: TopCustomers - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: TopCustomers - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	customers := make([]domain.RepeatCustomer, 0)
	for rows.Next() {
		var c domain.RepeatCustomer
		if err := rows.Scan(&c.Name, &c.Email, &c.Phone, &c.Visits, &c.LastVisit); err != nil {
			return nil, fmt.Errorf("%w: TopCustomers - scan row: %w", ErrScanRow, err)
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: TopCustomers - rows error: %w", ErrScanRow, err)
	}

	return customers, nil
}

// StatusTotals возвращает количество записей по каждому статусу за все время.
// Отсутствующие статусы заполняются нулями, Total - общее количество.
func (r *Repository) StatusTotals(ctx context.Context) (domain.StatusTotals, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"status",
		"COUNT(*) AS count",
	).
		From("appointments").
		GroupBy("status").
		ToSql()

	if err != nil {
		return domain.StatusTotals{}, fmt.Errorf("%w: StatusTotals - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.StatusTotals{}, fmt.Errorf("%w: StatusTotals - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	var totals domain.StatusTotals
	for rows.Next() {
		var status domain.AppointmentStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return domain.StatusTotals{}, fmt.Errorf("%w: StatusTotals - scan row: %w", ErrScanRow, err)
		}

		switch status {
		case domain.StatusScheduled:
			totals.Scheduled = count
		case domain.StatusConfirmed:
			totals.Confirmed = count
		case domain.StatusCancelled:
			totals.Cancelled = count
		case domain.StatusCompleted:
			totals.Completed = count
		}
		totals.Total += count
	}

	if err := rows.Err(); err != nil {
		return domain.StatusTotals{}, fmt.Errorf("%w: StatusTotals - rows error: %w", ErrScanRow, err)
	}

	return totals, nil
}
