package create_booking

// Request модель запроса на создание бронирования
type Request struct {
	SlotID        int64  // ID слота
	CustomerName  string // Имя клиента
	CustomerEmail string // Email клиента
	CustomerPhone string // Телефон клиента
}

// Response модель ответа с созданным бронированием
type Response struct {
	BookingID        int64  // ID созданного бронирования
	PaymentReference string // Платёжная ссылка (ключ идемпотентности уведомлений)
	RedirectURL      string // URL страницы оплаты
	AmountCents      int64  // Сумма к оплате в копейках
	Status           string // Статус бронирования (pending)
}
