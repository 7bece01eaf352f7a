package generate_slots

import (
	"fmt"
	"time"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.StartDate.IsZero() {
		return fmt.Errorf("%w: startDate is required", ErrInvalidInput)
	}

	if req.EndDate.IsZero() {
		return fmt.Errorf("%w: endDate is required", ErrInvalidInput)
	}

	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("%w: endDate is before startDate", ErrInvalidDateRange)
	}

	return nil
}

// validateHorizon проверяет, что дата не выходит за горизонт генерации
func validateHorizon(date, now time.Time, horizonDays int) error {
	maxDate := dateOnly(now).AddDate(0, 0, horizonDays)
	if dateOnly(date).After(maxDate) {
		return fmt.Errorf("%w: %s is beyond %d days", ErrHorizonExceeded, date.Format("2006-01-02"), horizonDays)
	}
	return nil
}
