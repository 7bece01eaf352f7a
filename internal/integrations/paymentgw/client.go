package paymentgw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент платёжного шлюза
// Шлюз создаёт checkout-сессию и асинхронно уведомляет сервис об исходе
// платежа через webhook; клиент отвечает только за создание сессии
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента платёжного шлюза
func NewClient(baseURL, apiKey string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CreateSession создает платёжную сессию для бронирования
// Вызывается после захвата слота: медленный ответ шлюза не открывает окно
// двойной продажи, слот уже помечен занятым в той же транзакции
func (c *Client) CreateSession(ctx context.Context, req *CreateSessionRequest) (*Session, error) {
	url := fmt.Sprintf("%s/v1/checkout/sessions", c.baseURL)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInvalidResponse, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrUnavailable, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	// Шлюз дедуплицирует повторные создания сессии по reference
	httpReq.Header.Set("Idempotency-Key", req.Reference)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Error("CreateSession: gateway request failed for reference=%s: %v", req.Reference, err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		// Продолжаем обработку
	case resp.StatusCode >= http.StatusInternalServerError:
		body, _ := io.ReadAll(resp.Body)
		c.log.Error("CreateSession: gateway returned %d for reference=%s: %s", resp.StatusCode, req.Reference, string(body))
		return nil, fmt.Errorf("%w: status code %d", ErrUnavailable, resp.StatusCode)
	default:
		body, _ := io.ReadAll(resp.Body)
		c.log.Warn("CreateSession: session rejected with %d for reference=%s: %s", resp.StatusCode, req.Reference, string(body))
		return nil, fmt.Errorf("%w: status code %d: %s", ErrSessionRejected, resp.StatusCode, string(body))
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if session.RedirectURL == "" {
		return nil, fmt.Errorf("%w: empty redirect_url", ErrInvalidResponse)
	}

	c.log.Info("CreateSession: session id=%s created for reference=%s", session.ID, session.Reference)
	return &session, nil
}
