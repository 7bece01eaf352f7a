package paymentgw

// CreateSessionRequest запрос на создание платёжной сессии
// Reference - наш payment_reference, шлюз возвращает его в уведомлениях
type CreateSessionRequest struct {
	Reference     string `json:"reference"`
	AmountCents   int64  `json:"amount_cents"`
	Currency      string `json:"currency"`
	Description   string `json:"description"`
	CustomerEmail string `json:"customer_email"`
}

// Session созданная платёжная сессия
type Session struct {
	ID          string `json:"id"`
	Reference   string `json:"reference"`
	RedirectURL string `json:"redirect_url"`
	ExpiresAt   string `json:"expires_at"`
}
