package models

import (
	"time"

	"github.com/jrbarber/scheduling-service/internal/domain"
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// Response модели

// AppointmentResponse ответ с данными записи и клиента
type AppointmentResponse struct {
	ID              string  `json:"id"`
	Service         string  `json:"service"`
	StartTime       string  `json:"startTime"` // ISO 8601
	EndTime         string  `json:"endTime"`   // ISO 8601
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes,omitempty"`

	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone *string `json:"customerPhone,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointmentWithCustomer конвертирует domain модель в DTO
func FromDomainAppointmentWithCustomer(a *domain.AppointmentWithCustomer) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		Service:            a.Service,
		StartTime:          a.StartTime.Format(time.RFC3339),
		EndTime:            a.EndTime.Format(time.RFC3339),
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		Notes:              a.Notes,
		CustomerName:       a.CustomerName,
		CustomerEmail:      a.CustomerEmail,
		CustomerPhone:      a.CustomerPhone,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(items []*domain.AppointmentWithCustomer) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(items)),
	}

	for _, item := range items {
		if itemResp := FromDomainAppointmentWithCustomer(item); itemResp != nil {
			resp.Appointments = append(resp.Appointments, *itemResp)
		}
	}

	return resp
}
