package confirm_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jrbarber/scheduling-service/internal/domain"
	appointmentRepo "github.com/jrbarber/scheduling-service/internal/infra/storage/appointment"
)

// UseCase use case погашения токена подтверждения.
// Погашение - атомарный read-modify-write в транзакции: поиск записи по
// токену блокирует строку, поэтому два конкурентных погашения одного токена
// не приведут к двойному переходу.
type UseCase struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// Execute выполняет use case подтверждения записи.
// Идемпотентен: повторное погашение уже подтвержденного токена возвращает
// успех с AlreadyConfirmed=true.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// Пустой или искаженный токен неотличим от неизвестного
	if req.Token == "" {
		return nil, ErrTokenNotFound
	}

	var result *Response

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		appt, err := uc.appointmentRepo.GetByToken(txCtx, req.Token)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrTokenNotFound) {
				return ErrTokenNotFound
			}
			uc.logger.Error("ConfirmAppointment: failed to look up token: %v", err)
			return fmt.Errorf("%w: failed to look up token: %v", ErrInternal, err)
		}

		switch {
		case appt.Status == domain.StatusConfirmed:
			// Повторное погашение - no-op успех
			result = &Response{
				AppointmentID:    appt.ID,
				Status:           string(domain.StatusConfirmed),
				AlreadyConfirmed: true,
			}
			return nil

		case appt.CanBeConfirmed():
			if err := uc.appointmentRepo.UpdateStatus(txCtx, appt.ID, domain.StatusConfirmed); err != nil {
				uc.logger.Error("ConfirmAppointment: failed to update status for id=%s: %v", appt.ID, err)
				return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
			}
			result = &Response{
				AppointmentID:    appt.ID,
				Status:           string(domain.StatusConfirmed),
				AlreadyConfirmed: false,
			}
			return nil

		default:
			// Токен отмененной или завершенной записи погасить нельзя;
			// наружу это неотличимо от неизвестного токена
			uc.logger.Warn("ConfirmAppointment: token belongs to %s appointment id=%s", appt.Status, appt.ID)
			return ErrTokenNotFound
		}
	})

	if err != nil {
		return nil, err
	}

	if result.AlreadyConfirmed {
		uc.logger.Info("ConfirmAppointment: appointment id=%s was already confirmed", result.AppointmentID)
	} else {
		uc.logger.Info("ConfirmAppointment: appointment id=%s confirmed", result.AppointmentID)
	}

	return result, nil
}
