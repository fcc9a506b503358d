package confirm_appointment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jrbarber/scheduling-service/internal/api/handlers"
	confirmAppointment "github.com/jrbarber/scheduling-service/internal/usecase/confirm_appointment"
)

const (
	msgTokenNotFound    = "токен недействителен или запись не найдена"
	msgConfirmed        = "запись подтверждена"
	msgAlreadyConfirmed = "запись уже была подтверждена"
)

// ConfirmResponse HTTP response model
type ConfirmResponse struct {
	OK               bool   `json:"ok"`
	AlreadyConfirmed bool   `json:"alreadyConfirmed"`
	Message          string `json:"message"`
}

type Handler struct {
	useCase ConfirmAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/confirm/{token}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	token := vars["token"]

	result, err := h.useCase.Execute(r.Context(), &confirmAppointment.Request{Token: token})
	if err != nil {
		switch {
		case errors.Is(err, confirmAppointment.ErrTokenNotFound):
			h.logger.Warn("GET /confirm - Token not found")
			handlers.RespondNotFound(w, msgTokenNotFound)

		default:
			h.logger.Error("GET /confirm - Failed to confirm: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	message := msgConfirmed
	if result.AlreadyConfirmed {
		message = msgAlreadyConfirmed
	}

	h.logger.Info("GET /confirm - Appointment id=%s confirmed (already=%t)",
		result.AppointmentID, result.AlreadyConfirmed)
	handlers.RespondJSON(w, http.StatusOK, ConfirmResponse{
		OK:               true,
		AlreadyConfirmed: result.AlreadyConfirmed,
		Message:          message,
	})
}
