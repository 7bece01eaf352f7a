package payment_webhook

// События платёжного шлюза
const (
	eventPaymentCompleted = "payment.completed"
	eventPaymentExpired   = "payment.expired"
)

// WebhookEvent уведомление платёжного шлюза
type WebhookEvent struct {
	Event            string `json:"event"`
	PaymentReference string `json:"payment_reference"`
}

// WebhookAck подтверждение обработки уведомления
type WebhookAck struct {
	Status string `json:"status"`
}
