package cancel_appointment

import (
	"context"

	"github.com/jrbarber/scheduling-service/internal/service/appointments/models"
)

type AppointmentService interface {
	Cancel(ctx context.Context, id string, req *models.CancelAppointmentRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
