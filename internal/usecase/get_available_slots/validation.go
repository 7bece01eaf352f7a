package get_available_slots

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.CourtName != nil && *req.CourtName == "" {
		return fmt.Errorf("%w: court filter must not be empty", ErrInvalidInput)
	}

	return nil
}
