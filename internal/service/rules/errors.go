package rules

import "errors"

var (
	// ErrRuleConflict возвращается, когда на одну дату действуют два активных
	// правила с одинаковыми (type, key); конфигурация противоречива
	ErrRuleConflict = errors.New("rules.service: conflicting active rules for type/key")

	// ErrUnknownRuleType возвращается для правила с неизвестным типом;
	// неизвестные формы документов отклоняются, не пропускаются насквозь
	ErrUnknownRuleType = errors.New("rules.service: unknown rule type")

	// ErrInvalidRuleDocument возвращается при некорректном документе правила
	ErrInvalidRuleDocument = errors.New("rules.service: invalid rule document")

	// ErrMissingRule возвращается, когда обязательное правило отсутствует
	// (таблицы тарифов, конфигурация кортов, параметры генерации)
	ErrMissingRule = errors.New("rules.service: required rule is missing")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("rules.service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("rules.service: internal error")
)
