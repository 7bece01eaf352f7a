package finalize_payment

import "errors"

var (
	// ErrInvalidOutcome возвращается при неизвестном исходе платежа
	ErrInvalidOutcome = errors.New("finalize_payment: unknown payment outcome")

	// ErrIntegrityViolation возвращается при нарушении инварианта
	// "одно подтверждённое бронирование на слот" во время подтверждения
	ErrIntegrityViolation = errors.New("finalize_payment: booking integrity violation")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("finalize_payment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("finalize_payment: internal error")
)
