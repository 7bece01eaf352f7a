package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrDuplicatePaymentReference возвращается при попытке создать бронирование
	// с уже существующим payment_reference
	ErrDuplicatePaymentReference = errors.New("booking.repository: duplicate payment reference")

	// ErrSlotAlreadyConfirmed возвращается при нарушении частичного уникального
	// индекса "одно подтверждённое бронирование на слот"; означает ошибку
	// управления конкурентностью и обрабатывается как integrity violation
	ErrSlotAlreadyConfirmed = errors.New("booking.repository: slot already has a confirmed booking")

	// ErrInvalidTransition возвращается, когда статус бронирования не допускает
	// запрошенный переход
	ErrInvalidTransition = errors.New("booking.repository: invalid status transition")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
