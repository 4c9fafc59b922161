package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GatewayPaymentRequest asks the payment provider to open a payment for
// an order. IdempotencyKey makes retried calls safe.
type GatewayPaymentRequest struct {
	OrderID        uuid.UUID
	OrderNumber    string
	Amount         decimal.Decimal
	Currency       string
	Method         string
	IdempotencyKey string
}

// GatewayPaymentIntent is the provider's handle for a pending payment
type GatewayPaymentIntent struct {
	IntentID     string
	ClientSecret string
	Status       string
}

// WebhookEvent is a payment notification from the provider
type WebhookEvent struct {
	Type          string `json:"type"`
	OrderNumber   string `json:"order_number"`
	TransactionID string `json:"transaction_id"`
	Reason        string `json:"reason,omitempty"`
}

// Webhook event types
const (
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentFailed    = "payment.failed"
)

// PaymentGateway is the outbound port to the payment provider
type PaymentGateway interface {
	// CreateIntent opens a payment for the given amount. Calls with the
	// same idempotency key return the same intent.
	CreateIntent(ctx context.Context, req GatewayPaymentRequest) (*GatewayPaymentIntent, error)
	// VerifySignature authenticates a webhook payload against its
	// signature header.
	VerifySignature(payload []byte, signature string) error
}
