package finalize_payment

// Outcome исход платежа из уведомления шлюза
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeExpired Outcome = "expired"
)

// Request модель запроса на финализацию платежа
type Request struct {
	PaymentReference string  // Платёжная ссылка из уведомления
	Outcome          Outcome // Исход платежа
}

// Response модель результата финализации
type Response struct {
	BookingID int64  // ID бронирования, 0 если ссылка неизвестна
	Status    string // Итоговый статус бронирования
	Changed   bool   // true, если уведомление изменило состояние
}
