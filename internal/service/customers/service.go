package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jrbarber/scheduling-service/internal/domain"
	customerRepo "github.com/jrbarber/scheduling-service/internal/infra/storage/customer"
)

// Service справочник клиентов: сопоставляет email стабильной личности клиента
type Service struct {
	customerRepo CustomerRepository
	logger       Logger
}

// NewService создает новый экземпляр справочника клиентов
func NewService(customerRepo CustomerRepository, logger Logger) *Service {
	return &Service{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// GetOrCreate возвращает клиента по email, создавая запись при первом обращении.
// Идемпотентен: повторные вызовы с тем же email возвращают первую созданную
// запись без изменений - name и phone из повторных запросов игнорируются.
// Безопасен при конкурентных вызовах с одним email: проигравший гонку вставки
// перечитывает запись победителя.
func (s *Service) GetOrCreate(ctx context.Context, name, email string, phone *string) (*domain.Customer, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	existing, err := s.customerRepo.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, customerRepo.ErrCustomerNotFound) {
		s.logger.Error("GetOrCreate: failed to look up customer by email: %v", err)
		return nil, fmt.Errorf("%w: GetOrCreate - repository error: %w", ErrInternal, err)
	}

	created, err := s.customerRepo.Create(ctx, &domain.Customer{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
		Phone: phone,
	})
	if err == nil {
		s.logger.Info("GetOrCreate: created customer id=%s", created.ID)
		return created, nil
	}

	if errors.Is(err, customerRepo.ErrDuplicateEmail) {
		// Кто-то успел создать клиента между нашим чтением и вставкой -
		// перечитываем запись победителя
		winner, readErr := s.customerRepo.GetByEmail(ctx, email)
		if readErr == nil {
			s.logger.Info("GetOrCreate: lost create race, reusing customer id=%s", winner.ID)
			return winner, nil
		}
		// Внутри сериализуемой транзакции снимок может не видеть победителя;
		// отдаем исходную ошибку, чтобы менеджер транзакций повторил её целиком
		return nil, err
	}

	s.logger.Error("GetOrCreate: failed to create customer: %v", err)
	return nil, fmt.Errorf("%w: GetOrCreate - repository error: %w", ErrInternal, err)
}
