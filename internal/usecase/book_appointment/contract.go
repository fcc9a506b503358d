package book_appointment

import (
	"context"
	"time"

	"github.com/jrbarber/scheduling-service/internal/domain"
)

// CustomerDirectory справочник клиентов (идемпотентный upsert по email)
type CustomerDirectory interface {
	GetOrCreate(ctx context.Context, name, email string, phone *string) (*domain.Customer, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	FindOverlapping(ctx context.Context, start, end time.Time) ([]*domain.Appointment, error)
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TokenGenerator источник токенов подтверждения
type TokenGenerator interface {
	New() (string, error)
}

// Notifier отправка уведомлений о созданной записи.
// Вызывается fire-and-forget после коммита: ошибки логируются
// и никогда не влияют на результат бронирования.
type Notifier interface {
	NotifyClientBooked(ctx context.Context, appt *domain.Appointment, customer *domain.Customer) error
	NotifyOwnerBooked(ctx context.Context, appt *domain.Appointment, customer *domain.Customer) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
