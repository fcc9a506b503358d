package book_appointment

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrbarber/scheduling-service/internal/domain"
	"github.com/jrbarber/scheduling-service/pkg/ptr"
)

// ---- fakes ----

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeDirectory struct {
	mu        sync.Mutex
	customers map[string]*domain.Customer // email -> customer
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{customers: make(map[string]*domain.Customer)}
}

func (d *fakeDirectory) GetOrCreate(_ context.Context, name, email string, phone *string) (*domain.Customer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if c, ok := d.customers[email]; ok {
		return c, nil
	}
	c := &domain.Customer{ID: uuid.NewString(), Name: name, Email: email, Phone: phone}
	d.customers[email] = c
	return c, nil
}

type memAppointmentRepo struct {
	appointments []*domain.Appointment
}

func (r *memAppointmentRepo) FindOverlapping(_ context.Context, start, end time.Time) ([]*domain.Appointment, error) {
	var out []*domain.Appointment
	for _, a := range r.appointments {
		if a.IsActive() && domain.Overlaps(a.StartTime, a.EndTime, start, end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	stored := *appt
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.appointments = append(r.appointments, &stored)
	return &stored, nil
}

// mutexTxManager сериализует функции транзакций мьютексом, воспроизводя
// семантику serializable-изоляции для конкурентных бронирований
type mutexTxManager struct {
	mu sync.Mutex
}

func (m *mutexTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type seqTokenGen struct {
	n atomic.Int64
}

func (g *seqTokenGen) New() (string, error) {
	return fmt.Sprintf("token-%04d", g.n.Add(1)), nil
}

type failingTokenGen struct{}

func (failingTokenGen) New() (string, error) {
	return "", fmt.Errorf("entropy source unavailable")
}

type recordingNotifier struct {
	mu     sync.Mutex
	client []string // appointment IDs
	owner  []string
	done   chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{done: make(chan struct{}, 16)}
}

func (n *recordingNotifier) NotifyClientBooked(_ context.Context, appt *domain.Appointment, _ *domain.Customer) error {
	n.mu.Lock()
	n.client = append(n.client, appt.ID)
	n.mu.Unlock()
	return nil
}

func (n *recordingNotifier) NotifyOwnerBooked(_ context.Context, appt *domain.Appointment, _ *domain.Customer) error {
	n.mu.Lock()
	n.owner = append(n.owner, appt.ID)
	n.mu.Unlock()
	n.done <- struct{}{}
	return nil
}

// ---- helpers ----

func newTestUseCase(repo *memAppointmentRepo, notifier Notifier) (*UseCase, *fakeDirectory) {
	dir := newFakeDirectory()
	uc := NewUseCase(dir, repo, &mutexTxManager{}, &seqTokenGen{}, notifier, 30, nopLogger{})
	return uc, dir
}

func validRequest() *Request {
	return &Request{
		Name:      "Ivan Petrov",
		Email:     "ivan@example.com",
		Service:   "haircut",
		StartTime: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
	}
}

// ---- tests ----

func TestExecute_Success(t *testing.T) {
	repo := &memAppointmentRepo{}
	notifier := newRecordingNotifier()
	uc, _ := newTestUseCase(repo, notifier)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.NotEmpty(t, resp.CustomerID)
	assert.Equal(t, "haircut", resp.Service)
	assert.Equal(t, string(domain.StatusScheduled), resp.Status)
	assert.Equal(t, 30, resp.DurationMinutes, "default duration applied")
	assert.Equal(t, resp.StartTime.Add(30*time.Minute), resp.EndTime)
	assert.NotEmpty(t, resp.ConfirmationToken)

	// Уведомления отправляются после коммита, в фоне
	select {
	case <-notifier.done:
	case <-time.After(2 * time.Second):
		t.Fatal("owner notification was not dispatched")
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Equal(t, []string{resp.ID}, notifier.client)
	assert.Equal(t, []string{resp.ID}, notifier.owner)
}

func TestExecute_ExplicitDuration(t *testing.T) {
	repo := &memAppointmentRepo{}
	uc, _ := newTestUseCase(repo, newRecordingNotifier())

	req := validRequest()
	req.DurationMinutes = 45

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 45, resp.DurationMinutes)
	assert.Equal(t, resp.StartTime.Add(45*time.Minute), resp.EndTime)
}

func TestExecute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{"empty name", func(r *Request) { r.Name = "  " }},
		{"empty email", func(r *Request) { r.Email = "" }},
		{"email without at sign", func(r *Request) { r.Email = "ivan.example.com" }},
		{"empty service", func(r *Request) { r.Service = "" }},
		{"zero start time", func(r *Request) { r.StartTime = time.Time{} }},
		{"negative duration", func(r *Request) { r.DurationMinutes = -15 }},
		{"duration above maximum", func(r *Request) { r.DurationMinutes = domain.MaxDurationMinutes + 1 }},
		{"notes too long", func(r *Request) {
			long := make([]byte, domain.MaxNotesLength+1)
			for i := range long {
				long[i] = 'x'
			}
			r.Notes = ptr.Ptr(string(long))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memAppointmentRepo{}
			uc, _ := newTestUseCase(repo, newRecordingNotifier())

			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, repo.appointments, "no appointment may be created on invalid input")
		})
	}
}

func TestExecute_SlotConflict(t *testing.T) {
	repo := &memAppointmentRepo{}
	uc, _ := newTestUseCase(repo, newRecordingNotifier())

	first := validRequest()
	_, err := uc.Execute(context.Background(), first)
	require.NoError(t, err)

	// Пересечение на 15 минут
	second := validRequest()
	second.Email = "maria@example.com"
	second.StartTime = first.StartTime.Add(15 * time.Minute)

	_, err = uc.Execute(context.Background(), second)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Len(t, repo.appointments, 1)
}

func TestExecute_BackToBackSlotsAllowed(t *testing.T) {
	repo := &memAppointmentRepo{}
	uc, _ := newTestUseCase(repo, newRecordingNotifier())

	first := validRequest()
	_, err := uc.Execute(context.Background(), first)
	require.NoError(t, err)

	// Следующий слот начинается ровно в конце предыдущего
	second := validRequest()
	second.Email = "maria@example.com"
	second.StartTime = first.StartTime.Add(30 * time.Minute)

	_, err = uc.Execute(context.Background(), second)
	require.NoError(t, err)
	assert.Len(t, repo.appointments, 2)
}

func TestExecute_CancelledAppointmentFreesSlot(t *testing.T) {
	repo := &memAppointmentRepo{}
	uc, _ := newTestUseCase(repo, newRecordingNotifier())

	first := validRequest()
	_, err := uc.Execute(context.Background(), first)
	require.NoError(t, err)

	repo.appointments[0].Status = domain.StatusCancelled

	second := validRequest()
	second.Email = "maria@example.com"

	_, err = uc.Execute(context.Background(), second)
	require.NoError(t, err)
	assert.Len(t, repo.appointments, 2)
}

func TestExecute_TokenMintFailure(t *testing.T) {
	repo := &memAppointmentRepo{}
	dir := newFakeDirectory()
	uc := NewUseCase(dir, repo, &mutexTxManager{}, failingTokenGen{}, newRecordingNotifier(), 30, nopLogger{})

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, repo.appointments)
}

func TestExecute_ConcurrentBookingsSameSlot(t *testing.T) {
	const workers = 32

	repo := &memAppointmentRepo{}
	uc, _ := newTestUseCase(repo, newRecordingNotifier())

	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	var (
		wg        sync.WaitGroup
		successes atomic.Int64
		conflicts atomic.Int64
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			req := &Request{
				Name:      fmt.Sprintf("Client %d", n),
				Email:     fmt.Sprintf("client%d@example.com", n),
				Service:   "haircut",
				StartTime: start,
			}

			_, err := uc.Execute(context.Background(), req)
			switch {
			case err == nil:
				successes.Add(1)
			default:
				assert.ErrorIs(t, err, ErrSlotNotAvailable)
				conflicts.Add(1)
			}
		}(i)
	}

	wg.Wait()

	assert.Equal(t, int64(1), successes.Load(), "exactly one booking may win the slot")
	assert.Equal(t, int64(workers-1), conflicts.Load())
	assert.Len(t, repo.appointments, 1)
}

func TestExecute_UniqueTokensAcrossBookings(t *testing.T) {
	repo := &memAppointmentRepo{}
	uc, _ := newTestUseCase(repo, newRecordingNotifier())

	seen := make(map[string]struct{})
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		req := validRequest()
		req.StartTime = start.Add(time.Duration(i) * time.Hour)

		resp, err := uc.Execute(context.Background(), req)
		require.NoError(t, err)

		_, dup := seen[resp.ConfirmationToken]
		require.False(t, dup, "confirmation token reused")
		seen[resp.ConfirmationToken] = struct{}{}
	}
}
