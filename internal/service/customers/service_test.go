package customers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrbarber/scheduling-service/internal/domain"
	customerRepo "github.com/jrbarber/scheduling-service/internal/infra/storage/customer"
	"github.com/jrbarber/scheduling-service/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type memCustomerRepo struct {
	byEmail map[string]*domain.Customer

	// при true первый Create завершается нарушением уникальности,
	// имитируя проигранную гонку вставки
	loseCreateRace bool
	raceWinner     *domain.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{byEmail: make(map[string]*domain.Customer)}
}

func (r *memCustomerRepo) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	if c, ok := r.byEmail[email]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: GetByEmail - no rows", customerRepo.ErrCustomerNotFound)
}

func (r *memCustomerRepo) Create(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	if r.loseCreateRace {
		r.loseCreateRace = false
		if r.raceWinner != nil {
			r.byEmail[r.raceWinner.Email] = r.raceWinner
		}
		return nil, fmt.Errorf("%w: Create - unique violation", customerRepo.ErrDuplicateEmail)
	}
	if _, ok := r.byEmail[c.Email]; ok {
		return nil, fmt.Errorf("%w: Create - unique violation", customerRepo.ErrDuplicateEmail)
	}

	stored := *c
	stored.CreatedAt = time.Now()
	r.byEmail[c.Email] = &stored
	return &stored, nil
}

func TestGetOrCreate_CreatesOnFirstCall(t *testing.T) {
	repo := newMemCustomerRepo()
	svc := NewService(repo, nopLogger{})

	c, err := svc.GetOrCreate(context.Background(), "Ivan Petrov", "ivan@example.com", ptr.Ptr("+70000000001"))
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Ivan Petrov", c.Name)
	assert.Equal(t, "ivan@example.com", c.Email)
	require.NotNil(t, c.Phone)
	assert.Equal(t, "+70000000001", *c.Phone)
}

func TestGetOrCreate_Idempotent(t *testing.T) {
	repo := newMemCustomerRepo()
	svc := NewService(repo, nopLogger{})

	first, err := svc.GetOrCreate(context.Background(), "Ivan Petrov", "ivan@example.com", nil)
	require.NoError(t, err)

	// Повторный вызов с другими name/phone возвращает первую запись
	second, err := svc.GetOrCreate(context.Background(), "Ivan P.", "ivan@example.com", ptr.Ptr("+70000000002"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ivan Petrov", second.Name)
	assert.Nil(t, second.Phone)
}

func TestGetOrCreate_NormalizesEmail(t *testing.T) {
	repo := newMemCustomerRepo()
	svc := NewService(repo, nopLogger{})

	first, err := svc.GetOrCreate(context.Background(), "Ivan Petrov", "Ivan@Example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, "ivan@example.com", first.Email)

	second, err := svc.GetOrCreate(context.Background(), "Ivan Petrov", "  IVAN@EXAMPLE.COM  ", nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestGetOrCreate_EmptyEmail(t *testing.T) {
	svc := NewService(newMemCustomerRepo(), nopLogger{})

	_, err := svc.GetOrCreate(context.Background(), "Ivan Petrov", "   ", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetOrCreate_LostInsertRaceReusesWinner(t *testing.T) {
	repo := newMemCustomerRepo()
	winner := &domain.Customer{ID: "winner-id", Name: "Ivan Petrov", Email: "ivan@example.com"}
	repo.loseCreateRace = true
	repo.raceWinner = winner

	svc := NewService(repo, nopLogger{})

	c, err := svc.GetOrCreate(context.Background(), "Ivan P.", "ivan@example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, "winner-id", c.ID)
}

func TestGetOrCreate_LostRaceWinnerInvisiblePropagatesError(t *testing.T) {
	// Внутри serializable-транзакции снимок проигравшего может не видеть
	// запись победителя: ошибка уходит наверх для повтора всей транзакции
	repo := newMemCustomerRepo()
	repo.loseCreateRace = true
	repo.raceWinner = nil

	svc := NewService(repo, nopLogger{})

	_, err := svc.GetOrCreate(context.Background(), "Ivan Petrov", "ivan@example.com", nil)
	assert.ErrorIs(t, err, customerRepo.ErrDuplicateEmail)
}
