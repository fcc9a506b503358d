package book_appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookAppointment "github.com/jrbarber/scheduling-service/internal/usecase/book_appointment"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type stubUseCase struct {
	gotReq *bookAppointment.Request
	resp   *bookAppointment.Response
	err    error
}

func (s *stubUseCase) Execute(_ context.Context, req *bookAppointment.Request) (*bookAppointment.Response, error) {
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func doRequest(t *testing.T, uc *stubUseCase, body string) *httptest.ResponseRecorder {
	t.Helper()

	h := NewHandler(uc, nopLogger{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)
	uc := &stubUseCase{
		resp: &bookAppointment.Response{
			ID:                "appt-1",
			CustomerID:        "cust-1",
			Service:           "haircut",
			StartTime:         start,
			EndTime:           start.Add(30 * time.Minute),
			DurationMinutes:   30,
			Status:            "scheduled",
			ConfirmationToken: "secret-token",
			CreatedAt:         time.Now(),
		},
	}

	body := `{"name":"Ivan Petrov","email":"ivan@example.com","service":"haircut","date":"2026-03-10","time":"10:00"}`
	rec := doRequest(t, uc, body)

	assert.Equal(t, http.StatusCreated, rec.Code)

	// Дата и время собраны в локальный StartTime
	require.NotNil(t, uc.gotReq)
	assert.True(t, uc.gotReq.StartTime.Equal(start))

	var resp AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "appt-1", resp.ID)
	assert.Equal(t, "scheduled", resp.Status)

	// Токен подтверждения в HTTP-ответ не попадает
	assert.NotContains(t, rec.Body.String(), "secret-token")
}

func TestHandle_InvalidBody(t *testing.T) {
	rec := doRequest(t, &stubUseCase{}, `{"name": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_InvalidDateTime(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing date", `{"name":"Ivan","email":"ivan@example.com","service":"haircut","time":"10:00"}`},
		{"missing time", `{"name":"Ivan","email":"ivan@example.com","service":"haircut","date":"2026-03-10"}`},
		{"malformed date", `{"name":"Ivan","email":"ivan@example.com","service":"haircut","date":"10.03.2026","time":"10:00"}`},
		{"malformed time", `{"name":"Ivan","email":"ivan@example.com","service":"haircut","date":"2026-03-10","time":"25:99"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, &stubUseCase{}, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandle_SlotConflict(t *testing.T) {
	uc := &stubUseCase{err: bookAppointment.ErrSlotNotAvailable}

	body := `{"name":"Ivan","email":"ivan@example.com","service":"haircut","date":"2026-03-10","time":"10:00"}`
	rec := doRequest(t, uc, body)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandle_InvalidInput(t *testing.T) {
	uc := &stubUseCase{err: fmt.Errorf("%w: name is required", bookAppointment.ErrInvalidInput)}

	body := `{"name":"","email":"ivan@example.com","service":"haircut","date":"2026-03-10","time":"10:00"}`
	rec := doRequest(t, uc, body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_InternalError(t *testing.T) {
	uc := &stubUseCase{err: bookAppointment.ErrInternal}

	body := `{"name":"Ivan","email":"ivan@example.com","service":"haircut","date":"2026-03-10","time":"10:00"}`
	rec := doRequest(t, uc, body)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
