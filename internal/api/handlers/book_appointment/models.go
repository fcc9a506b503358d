package book_appointment

import (
	"fmt"
	"time"

	"github.com/jrbarber/scheduling-service/internal/domain"
	bookAppointment "github.com/jrbarber/scheduling-service/internal/usecase/book_appointment"
)

// BookAppointmentRequest HTTP request model
type BookAppointmentRequest struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           *string `json:"phone,omitempty"`
	Service         string  `json:"service"`
	Date            string  `json:"date"` // "2025-10-15"
	Time            string  `json:"time"` // "10:00"
	DurationMinutes int     `json:"durationMinutes,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model.
// Токен подтверждения наружу не отдается - он доставляется только
// письмом на email клиента.
type AppointmentResponse struct {
	ID              string  `json:"id"`
	Service         string  `json:"service"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookAppointmentRequest) ToUseCaseRequest() (*bookAppointment.Request, error) {
	if r.Date == "" || r.Time == "" {
		return nil, fmt.Errorf("date and time are required")
	}

	// Дата и время в локальной таймзоне мастера
	start, err := time.ParseInLocation(
		domain.DateFormat+" "+domain.TimeFormat,
		r.Date+" "+r.Time,
		time.Local,
	)
	if err != nil {
		return nil, err
	}

	return &bookAppointment.Request{
		Name:            r.Name,
		Email:           r.Email,
		Phone:           r.Phone,
		Service:         r.Service,
		StartTime:       start,
		DurationMinutes: r.DurationMinutes,
		Notes:           r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		Service:         resp.Service,
		StartTime:       resp.StartTime.Format(time.RFC3339),
		EndTime:         resp.EndTime.Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}
