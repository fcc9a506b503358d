package confirm_appointment

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrbarber/scheduling-service/internal/domain"
	appointmentRepo "github.com/jrbarber/scheduling-service/internal/infra/storage/appointment"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memAppointmentRepo struct {
	byToken map[string]*domain.Appointment
}

func newMemRepo(appts ...*domain.Appointment) *memAppointmentRepo {
	r := &memAppointmentRepo{byToken: make(map[string]*domain.Appointment)}
	for _, a := range appts {
		r.byToken[a.ConfirmationToken] = a
	}
	return r
}

func (r *memAppointmentRepo) GetByToken(_ context.Context, token string) (*domain.Appointment, error) {
	a, ok := r.byToken[token]
	if !ok {
		return nil, fmt.Errorf("%w: GetByToken - no rows", appointmentRepo.ErrTokenNotFound)
	}
	return a, nil
}

func (r *memAppointmentRepo) UpdateStatus(_ context.Context, id string, status domain.AppointmentStatus) error {
	for _, a := range r.byToken {
		if a.ID == id {
			a.Status = status
			return nil
		}
	}
	return fmt.Errorf("%w: UpdateStatus - no rows", appointmentRepo.ErrAppointmentNotFound)
}

func newTestUseCase(repo *memAppointmentRepo) *UseCase {
	return NewUseCase(repo, passthroughTxManager{}, nopLogger{})
}

func scheduledAppointment(token string) *domain.Appointment {
	return &domain.Appointment{
		ID:                "appt-1",
		Status:            domain.StatusScheduled,
		ConfirmationToken: token,
	}
}

func TestExecute_ConfirmsScheduledAppointment(t *testing.T) {
	repo := newMemRepo(scheduledAppointment("tok-abc"))
	uc := newTestUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{Token: "tok-abc"})
	require.NoError(t, err)

	assert.Equal(t, "appt-1", resp.AppointmentID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.False(t, resp.AlreadyConfirmed)
	assert.Equal(t, domain.StatusConfirmed, repo.byToken["tok-abc"].Status)
}

func TestExecute_Idempotent(t *testing.T) {
	repo := newMemRepo(scheduledAppointment("tok-abc"))
	uc := newTestUseCase(repo)

	first, err := uc.Execute(context.Background(), &Request{Token: "tok-abc"})
	require.NoError(t, err)
	assert.False(t, first.AlreadyConfirmed)

	second, err := uc.Execute(context.Background(), &Request{Token: "tok-abc"})
	require.NoError(t, err)
	assert.True(t, second.AlreadyConfirmed)
	assert.Equal(t, first.AppointmentID, second.AppointmentID)
	assert.Equal(t, string(domain.StatusConfirmed), second.Status)
}

func TestExecute_UnknownToken(t *testing.T) {
	repo := newMemRepo(scheduledAppointment("tok-abc"))
	uc := newTestUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{Token: "tok-unknown"})
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestExecute_EmptyToken(t *testing.T) {
	uc := newTestUseCase(newMemRepo())

	_, err := uc.Execute(context.Background(), &Request{Token: ""})
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestExecute_TerminalStatusesLookLikeUnknownToken(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{domain.StatusCancelled, domain.StatusCompleted} {
		t.Run(string(status), func(t *testing.T) {
			appt := scheduledAppointment("tok-abc")
			appt.Status = status
			uc := newTestUseCase(newMemRepo(appt))

			_, err := uc.Execute(context.Background(), &Request{Token: "tok-abc"})
			assert.ErrorIs(t, err, ErrTokenNotFound)

			// Статус не изменился
			assert.Equal(t, status, appt.Status)
		})
	}
}
