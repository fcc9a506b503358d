package cancel_appointment

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jrbarber/scheduling-service/internal/api/handlers"
	appointmentsService "github.com/jrbarber/scheduling-service/internal/service/appointments"
	"github.com/jrbarber/scheduling-service/internal/service/appointments/models"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgAppointmentNotFound = "запись не найдена"
	msgCannotCancel        = "запись нельзя отменить в текущем статусе"
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

// Handle PATCH /api/v1/admin/appointments/{appointmentId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID := vars["appointmentId"]

	// Тело с причиной опционально
	var req models.CancelAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("PATCH /admin/appointments/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.Cancel(r.Context(), appointmentID, &req); err != nil {
		switch {
		case errors.Is(err, appointmentsService.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /admin/appointments/cancel - Not found: id=%s", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, appointmentsService.ErrCannotCancel):
			h.logger.Warn("PATCH /admin/appointments/cancel - Cannot cancel: id=%s", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgCannotCancel)

		case errors.Is(err, appointmentsService.ErrInvalidInput):
			h.logger.Warn("PATCH /admin/appointments/cancel - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /admin/appointments/cancel - Failed: id=%s, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/appointments/cancel - Cancelled: id=%s", appointmentID)
	w.WriteHeader(http.StatusNoContent)
}
