package book_appointment

import (
	"fmt"
	"strings"

	"github.com/jrbarber/scheduling-service/internal/domain"
)

// validateRequest валидирует входные данные запроса.
// Длительность к этому моменту уже нормализована (дефолт применен).
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Service) == "" {
		return fmt.Errorf("%w: service is required", ErrInvalidInput)
	}
	if len(req.Service) > domain.MaxServiceLength {
		return fmt.Errorf("%w: service name is too long", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if req.DurationMinutes < domain.MinDurationMinutes {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	if req.DurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: duration must not exceed %d minutes", ErrInvalidInput, domain.MaxDurationMinutes)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are too long", ErrInvalidInput)
	}

	return nil
}
