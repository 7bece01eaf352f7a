package create_booking

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не существует
	ErrSlotNotFound = errors.New("create_booking: slot not found")

	// ErrSlotNotAvailable возвращается, когда слот уже занят
	// Ожидаемый исход гонки конкурентных бронирований: клиент выбирает другой слот
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrPaymentGatewayUnavailable возвращается при сбое платёжного шлюза;
	// транзакция откатывается, слот снова в продаже, клиент может повторить
	ErrPaymentGatewayUnavailable = errors.New("create_booking: payment gateway unavailable")

	// ErrPaymentRejected возвращается, когда шлюз отклонил создание сессии
	ErrPaymentRejected = errors.New("create_booking: payment session rejected")

	// ErrIntegrityViolation возвращается при нарушении инварианта
	// "одно подтверждённое бронирование на слот"; сбой управления
	// конкурентностью, логируется громко и никогда не глушится
	ErrIntegrityViolation = errors.New("create_booking: booking integrity violation")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
