package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/jrbarber/scheduling-service/internal/domain"
	"github.com/jrbarber/scheduling-service/pkg/dbmetrics"
	"github.com/jrbarber/scheduling-service/pkg/psqlbuilder"
)

// Код ошибки PostgreSQL для нарушения unique constraint
const pqUniqueViolation = "23505"

// Repository репозиторий для работы с клиентами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByEmail получает клиента по точному совпадению email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"email",
		"phone",
		"created_at",
	).
		From("customers").
		Where(squirrel.Eq{"email": email}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByEmail - build select query: %v", ErrBuildQuery, err)
	}

	var customer domain.Customer
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.Phone,
		&customer.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEmail - scan customer: %w", ErrScanRow, err)
	}

	return &customer, nil
}

// Create создает нового клиента.
// При нарушении уникальности email возвращает ErrDuplicateEmail -
// вызывающая сторона должна перечитать запись победителя гонки.
func (r *Repository) Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("customers").
		Columns(
			"id",
			"name",
			"email",
			"phone",
		).
		Values(
			customer.ID,
			customer.Name,
			customer.Email,
			customer.Phone,
		).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&customer.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			// Оставляем pq-ошибку в цепочке: менеджер транзакций опознает
			// по ней проигранную гонку и повторит транзакцию целиком
			return nil, fmt.Errorf("%w: Create - unique violation: %w", ErrDuplicateEmail, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return customer, nil
}
