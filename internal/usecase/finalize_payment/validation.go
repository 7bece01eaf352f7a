package finalize_payment

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.PaymentReference == "" {
		return fmt.Errorf("%w: paymentReference is required", ErrInvalidInput)
	}

	if req.Outcome != OutcomeSuccess && req.Outcome != OutcomeExpired {
		return fmt.Errorf("%w: %q", ErrInvalidOutcome, req.Outcome)
	}

	return nil
}
