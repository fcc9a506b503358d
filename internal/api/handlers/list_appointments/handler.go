package list_appointments

import (
	"net/http"
	"strconv"

	"github.com/jrbarber/scheduling-service/internal/api/handlers"
)

const (
	msgInvalidLimit = "некорректное значение limit"
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

// Handle GET /api/v1/admin/appointments?limit=N
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			h.logger.Warn("GET /admin/appointments - Invalid limit: %q", limitStr)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		limit = parsed
	}

	result, err := h.service.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("GET /admin/appointments - Failed to list: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
