package generate_slots

import "errors"

var (
	// ErrInvalidDateRange возвращается при некорректном диапазоне дат
	ErrInvalidDateRange = errors.New("generate_slots: invalid date range")

	// ErrHorizonExceeded возвращается, когда диапазон выходит за горизонт
	// генерации из generation_config
	ErrHorizonExceeded = errors.New("generate_slots: date range exceeds generation horizon")

	// ErrConfiguration возвращается, когда набор правил не разрешается:
	// отсутствуют обязательные правила, конфликт активных правил или
	// битый документ. Запуск генерации падает целиком
	ErrConfiguration = errors.New("generate_slots: invalid rules configuration")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("generate_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("generate_slots: internal error")
)
