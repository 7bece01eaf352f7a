package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrSlotNotAvailable возвращается, когда слот уже занят
	// Это ожидаемый исход гонки двух бронирований, не сбой
	ErrSlotNotAvailable = errors.New("slot.repository: slot not available")

	// ErrOverlapViolation возвращается при нарушении exclusion-ограничения
	// на пересечение интервалов; означает ошибку генератора
	ErrOverlapViolation = errors.New("slot.repository: overlapping slot interval")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
