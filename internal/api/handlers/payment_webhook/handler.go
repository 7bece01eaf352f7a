package payment_webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/SMC-CourtBookingService/internal/api/handlers"
	finalizePayment "github.com/m04kA/SMC-CourtBookingService/internal/usecase/finalize_payment"
)

// Заголовок с HMAC-SHA256 подписью сырого тела (hex)
const signatureHeader = "X-Webhook-Signature"

// Тела уведомлений небольшие, лимит защищает от мусорных запросов
const maxBodySize = 64 * 1024

const (
	msgInvalidSignature   = "некорректная подпись уведомления"
	msgInvalidRequestBody = "некорректное тело уведомления"
	msgUnknownEvent       = "неизвестный тип события"
)

type Handler struct {
	useCase FinalizePaymentUseCase
	secret  []byte
	logger  Logger
}

func NewHandler(useCase FinalizePaymentUseCase, webhookSecret string, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		secret:  []byte(webhookSecret),
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/webhook
// Подпись проверяется по сырому телу ДО любого изменения состояния;
// неподписанные уведомления отбрасываются без обращения к БД
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		h.logger.Warn("POST /payments/webhook - Failed to read body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	defer r.Body.Close()

	if !h.verifySignature(body, r.Header.Get(signatureHeader)) {
		h.logger.Warn("POST /payments/webhook - Invalid signature from %s", r.RemoteAddr)
		handlers.RespondError(w, http.StatusUnauthorized, msgInvalidSignature)
		return
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Warn("POST /payments/webhook - Invalid body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var outcome finalizePayment.Outcome
	switch event.Event {
	case eventPaymentCompleted:
		outcome = finalizePayment.OutcomeSuccess
	case eventPaymentExpired:
		outcome = finalizePayment.OutcomeExpired
	default:
		h.logger.Warn("POST /payments/webhook - Unknown event %q", event.Event)
		handlers.RespondBadRequest(w, msgUnknownEvent)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &finalizePayment.Request{
		PaymentReference: event.PaymentReference,
		Outcome:          outcome,
	})
	if err != nil {
		switch {
		case errors.Is(err, finalizePayment.ErrInvalidInput), errors.Is(err, finalizePayment.ErrInvalidOutcome):
			h.logger.Warn("POST /payments/webhook - Invalid event: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
		default:
			// 5xx заставит шлюз повторить доставку, обработка идемпотентна
			h.logger.Error("POST /payments/webhook - Failed to finalize reference=%s: %v",
				event.PaymentReference, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/webhook - Event %s processed: reference=%s, status=%s, changed=%v",
		event.Event, event.PaymentReference, result.Status, result.Changed)
	handlers.RespondJSON(w, http.StatusOK, WebhookAck{Status: "ok"})
}

// verifySignature сверяет HMAC-SHA256 подпись сырого тела за константное время
func (h *Handler) verifySignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, h.secret)
	mac.Write(body)
	expected := mac.Sum(nil)

	return hmac.Equal(provided, expected)
}
