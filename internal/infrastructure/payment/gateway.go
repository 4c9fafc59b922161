package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// HTTPGateway implements order.PaymentGateway against the provider's
// REST API. Requests carry an idempotency key so retries never open a
// second payment for the same order.
type HTTPGateway struct {
	baseURL       string
	apiKey        string
	webhookSecret []byte
	maxRetries    int
	retryBackoff  time.Duration
	httpClient    *http.Client
	logger        *zap.Logger
}

// NewHTTPGateway creates a gateway adapter from payment configuration
func NewHTTPGateway(cfg config.PaymentConfig, logger *zap.Logger) *HTTPGateway {
	return &HTTPGateway{
		baseURL:       cfg.BaseURL,
		apiKey:        cfg.APIKey,
		webhookSecret: []byte(cfg.WebhookSecret),
		maxRetries:    cfg.MaxRetries,
		retryBackoff:  cfg.RetryBackoff,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger,
	}
}

type createIntentRequest struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Method      string `json:"method"`
}

type createIntentResponse struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

// CreateIntent opens a payment for the given amount. Transient failures
// are retried with backoff; 4xx responses are not.
func (g *HTTPGateway) CreateIntent(ctx context.Context, req order.GatewayPaymentRequest) (*order.GatewayPaymentIntent, error) {
	body, err := json.Marshal(createIntentRequest{
		OrderID:     req.OrderID.String(),
		OrderNumber: req.OrderNumber,
		Amount:      req.Amount.StringFixed(2),
		Currency:    req.Currency,
		Method:      req.Method,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(g.retryBackoff * time.Duration(attempt)):
			}
			g.logger.Warn("retrying payment intent creation",
				zap.String("order_number", req.OrderNumber),
				zap.Int("attempt", attempt),
				zap.Error(lastErr))
		}

		intent, retryable, err := g.doCreateIntent(ctx, body, req.IdempotencyKey)
		if err == nil {
			return intent, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("payment gateway unavailable after %d attempts: %w", g.maxRetries+1, lastErr)
}

func (g *HTTPGateway) doCreateIntent(ctx context.Context, body []byte, idempotencyKey string) (*order.GatewayPaymentIntent, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/intents", bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("failed to build payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	httpReq.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, true, fmt.Errorf("payment request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, true, fmt.Errorf("failed to read payment response: %w", err)
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("payment gateway returned %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, false, fmt.Errorf("payment gateway rejected request with %d: %s", resp.StatusCode, respBody)
	}

	var intent createIntentResponse
	if err := json.Unmarshal(respBody, &intent); err != nil {
		return nil, false, fmt.Errorf("failed to decode payment response: %w", err)
	}
	return &order.GatewayPaymentIntent{
		IntentID:     intent.IntentID,
		ClientSecret: intent.ClientSecret,
		Status:       intent.Status,
	}, false, nil
}

// VerifySignature authenticates a webhook payload. The signature header
// carries a hex-encoded HMAC-SHA256 of the raw body.
func (g *HTTPGateway) VerifySignature(payload []byte, signature string) error {
	if signature == "" {
		return shared.ErrUnauthorized
	}
	provided, err := hex.DecodeString(signature)
	if err != nil {
		return shared.ErrUnauthorized
	}

	mac := hmac.New(sha256.New, g.webhookSecret)
	mac.Write(payload)
	expected := mac.Sum(nil)

	if !hmac.Equal(provided, expected) {
		return shared.ErrUnauthorized
	}
	return nil
}
