package complete_appointment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jrbarber/scheduling-service/internal/api/handlers"
	appointmentsService "github.com/jrbarber/scheduling-service/internal/service/appointments"
)

const (
	msgAppointmentNotFound = "запись не найдена"
	msgCannotComplete      = "завершить можно только подтвержденную запись"
	msgInvalidInput        = "некорректные данные запроса"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/admin/appointments/{appointmentId}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID := vars["appointmentId"]

	if err := h.service.Complete(r.Context(), appointmentID); err != nil {
		switch {
		case errors.Is(err, appointmentsService.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /admin/appointments/complete - Not found: id=%s", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, appointmentsService.ErrCannotComplete):
			h.logger.Warn("PATCH /admin/appointments/complete - Cannot complete: id=%s", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgCannotComplete)

		case errors.Is(err, appointmentsService.ErrInvalidInput):
			h.logger.Warn("PATCH /admin/appointments/complete - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /admin/appointments/complete - Failed: id=%s, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/appointments/complete - Completed: id=%s", appointmentID)
	w.WriteHeader(http.StatusNoContent)
}
