package paymentgw

import "errors"

var (
	// ErrUnavailable возвращается, когда платёжный шлюз недоступен
	// (сетевая ошибка, timeout, 5xx); резервирование откатывается целиком
	ErrUnavailable = errors.New("paymentgw: payment gateway unavailable")

	// ErrSessionRejected возвращается, когда шлюз отклонил создание сессии
	ErrSessionRejected = errors.New("paymentgw: payment session rejected")

	// ErrInvalidResponse возвращается при некорректном ответе шлюза
	ErrInvalidResponse = errors.New("paymentgw: invalid gateway response")
)
