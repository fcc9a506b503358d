package list_appointments

import (
	"context"

	"github.com/jrbarber/scheduling-service/internal/service/appointments/models"
)

type AppointmentService interface {
	List(ctx context.Context, limit int) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
