package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jrbarber/scheduling-service/internal/domain"
	appointmentRepo "github.com/jrbarber/scheduling-service/internal/infra/storage/appointment"
	"github.com/jrbarber/scheduling-service/internal/service/appointments/models"
)

// Service административные операции над записями: просмотр, отмена, завершение.
// Отмена и завершение - те самые переходы, что освобождают слот из проверки
// пересечений (отмененная запись не блокирует повторное бронирование интервала).
type Service struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	listLimit       uint64
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	listLimit int,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		listLimit:       uint64(listLimit),
		logger:          logger,
	}
}

// List возвращает записи вместе с клиентами, от новых к старым.
// limit <= 0 или больше настроенного лимита заменяется лимитом из конфигурации.
func (s *Service) List(ctx context.Context, limit int) (*models.AppointmentListResponse, error) {
	effectiveLimit := s.listLimit
	if limit > 0 && uint64(limit) < s.listLimit {
		effectiveLimit = uint64(limit)
	}

	var items []*domain.AppointmentWithCustomer
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		fetched, err := s.appointmentRepo.ListWithCustomers(txCtx, effectiveLimit)
		if err != nil {
			return err
		}
		items = fetched
		return nil
	})
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d appointments (limit=%d)", len(items), effectiveLimit)
	return models.FromDomainAppointmentList(items), nil
}

// Cancel отменяет запись. Разрешено только из статусов scheduled и confirmed;
// переход необратим.
func (s *Service) Cancel(ctx context.Context, id string, req *models.CancelAppointmentRequest) error {
	if id == "" {
		return fmt.Errorf("%w: appointment id is required", ErrInvalidInput)
	}
	if len(req.Reason) > domain.MaxNotesLength {
		return fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if !appt.CanBeCancelled() {
			s.logger.Warn("Cancel: appointment id=%s cannot be cancelled, status=%s", id, appt.Status)
			return ErrCannotCancel
		}

		if err := s.appointmentRepo.Cancel(txCtx, id, req.Reason); err != nil {
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		return err
	}

	s.logger.Info("Cancel: appointment id=%s cancelled", id)
	return nil
}

// Complete помечает запись завершенной. Разрешено только из статуса confirmed.
func (s *Service) Complete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: appointment id is required", ErrInvalidInput)
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
		}

		if !appt.CanBeCompleted() {
			s.logger.Warn("Complete: appointment id=%s cannot be completed, status=%s", id, appt.Status)
			return ErrCannotComplete
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, id, domain.StatusCompleted); err != nil {
			return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		return err
	}

	s.logger.Info("Complete: appointment id=%s completed", id)
	return nil
}
