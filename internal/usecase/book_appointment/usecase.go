package book_appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jrbarber/scheduling-service/internal/domain"
)

// Таймаут на fire-and-forget отправку уведомлений после коммита
const notifyTimeout = 30 * time.Second

// UseCase use case создания записи.
// Проверка пересечения слотов и вставка выполняются одной сериализуемой
// транзакцией: две конкурирующие брони на пересекающиеся интервалы не могут
// обе зафиксироваться.
type UseCase struct {
	customerDirectory CustomerDirectory
	appointmentRepo   AppointmentRepository
	txManager         TransactionManager
	tokenGen          TokenGenerator
	notifier          Notifier
	defaultDuration   int
	logger            Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	customerDirectory CustomerDirectory,
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	tokenGen TokenGenerator,
	notifier Notifier,
	defaultDuration int,
	logger Logger,
) *UseCase {
	if defaultDuration <= 0 {
		defaultDuration = domain.DefaultDurationMinutes
	}
	return &UseCase{
		customerDirectory: customerDirectory,
		appointmentRepo:   appointmentRepo,
		txManager:         txManager,
		tokenGen:          tokenGen,
		notifier:          notifier,
		defaultDuration:   defaultDuration,
		logger:            logger,
	}
}

// Execute выполняет use case создания записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BookAppointment: email=%s, service=%s, start=%s, duration=%d",
		req.Email, req.Service, req.StartTime.Format(time.RFC3339), req.DurationMinutes)

	// 1. Нормализация и валидация входных данных
	if req.DurationMinutes == 0 {
		req.DurationMinutes = uc.defaultDuration
	}
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookAppointment: validation failed: %v", err)
		return nil, err
	}

	start := req.StartTime
	end := start.Add(time.Duration(req.DurationMinutes) * time.Minute)

	var (
		result   *domain.Appointment
		customer *domain.Customer
	)

	// 2. Проверка пересечения и вставка - одна сериализуемая транзакция.
	// Клиент создается в той же транзакции: конфликтная бронь не оставляет
	// осиротевшей записи клиента.
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Находим или создаем клиента по email
		c, err := uc.customerDirectory.GetOrCreate(txCtx, req.Name, req.Email, req.Phone)
		if err != nil {
			return err
		}
		customer = c

		// 2.2. Ищем активные записи, пересекающиеся с [start, end)
		overlapping, err := uc.appointmentRepo.FindOverlapping(txCtx, start, end)
		if err != nil {
			uc.logger.Error("BookAppointment: failed to find overlapping appointments: %v", err)
			return fmt.Errorf("%w: failed to find overlapping appointments: %w", ErrInternal, err)
		}

		if len(overlapping) > 0 {
			uc.logger.Warn("BookAppointment: slot [%s, %s) not available, %d overlapping",
				start.Format(time.RFC3339), end.Format(time.RFC3339), len(overlapping))
			return ErrSlotNotAvailable
		}

		// 2.3. Выпускаем токен подтверждения. Токен минтится внутри функции
		// транзакции: при повторе после ошибки сериализации будет выпущен
		// новый токен, старый никогда не попадет в БД.
		token, err := uc.tokenGen.New()
		if err != nil {
			uc.logger.Error("BookAppointment: failed to mint confirmation token: %v", err)
			return fmt.Errorf("%w: failed to mint confirmation token: %v", ErrInternal, err)
		}

		// 2.4. Создаем запись в статусе scheduled
		appt := &domain.Appointment{
			ID:                uuid.NewString(),
			CustomerID:        customer.ID,
			Service:           req.Service,
			StartTime:         start,
			EndTime:           end,
			DurationMinutes:   req.DurationMinutes,
			Status:            domain.StatusScheduled,
			ConfirmationToken: token,
			Notes:             req.Notes,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("BookAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("BookAppointment: successfully created appointment id=%s for customer id=%s",
		result.ID, customer.ID)

	// 3. Уведомления после коммита, fire-and-forget: их сбой логируется
	// и не влияет на результат бронирования
	uc.dispatchNotifications(result, customer)

	return &Response{
		ID:                result.ID,
		CustomerID:        result.CustomerID,
		Service:           result.Service,
		StartTime:         result.StartTime,
		EndTime:           result.EndTime,
		DurationMinutes:   result.DurationMinutes,
		Status:            string(result.Status),
		ConfirmationToken: result.ConfirmationToken,
		Notes:             result.Notes,
		CreatedAt:         result.CreatedAt,
	}, nil
}

// dispatchNotifications отправляет уведомления клиенту и владельцу в фоне.
// Живет на собственном контексте: отмена HTTP-запроса не должна
// обрывать отправку писем.
func (uc *UseCase) dispatchNotifications(appt *domain.Appointment, customer *domain.Customer) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := uc.notifier.NotifyClientBooked(ctx, appt, customer); err != nil {
			uc.logger.Error("BookAppointment: client notification failed for appointment id=%s: %v", appt.ID, err)
		}
		if err := uc.notifier.NotifyOwnerBooked(ctx, appt, customer); err != nil {
			uc.logger.Error("BookAppointment: owner notification failed for appointment id=%s: %v", appt.ID, err)
		}
	}()
}
