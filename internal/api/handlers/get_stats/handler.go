package get_stats

import (
	"net/http"

	"github.com/jrbarber/scheduling-service/internal/api/handlers"
)

type Handler struct {
	service StatsService
	logger  Logger
}

func NewHandler(service StatsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/stats
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetStats(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/stats - Failed to collect stats: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
