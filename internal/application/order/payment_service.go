package order

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PaymentService processes payment webhooks from the gateway. Handlers
// are idempotent: the persisted payment status decides whether an event
// has already been applied, so replayed deliveries are no-ops.
type PaymentService struct {
	orderRepo order.Repository
	gateway   PaymentGateway
	cache     VariantCache
	logger    *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(orderRepo order.Repository, gateway PaymentGateway, cache VariantCache, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		orderRepo: orderRepo,
		gateway:   gateway,
		cache:     cache,
		logger:    logger,
	}
}

// HandleWebhook verifies and applies a payment notification
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if err := s.gateway.VerifySignature(payload, signature); err != nil {
		return shared.NewDomainError("UNAUTHORIZED", "Invalid webhook signature")
	}

	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return shared.NewValidationError("payload", "malformed webhook payload")
	}
	if event.OrderNumber == "" {
		return shared.NewValidationError("order_number", "order number is required")
	}

	switch event.Type {
	case EventPaymentSucceeded:
		return s.handleSucceeded(ctx, event)
	case EventPaymentFailed:
		return s.handleFailed(ctx, event)
	default:
		// unknown event types are acknowledged, not retried
		s.logger.Warn("ignoring unknown webhook event", zap.String("type", event.Type))
		return nil
	}
}

// HandleSuccess marks the user's order as paid and confirms it. A
// second call for an already-paid order is a no-op.
func (s *PaymentService) HandleSuccess(ctx context.Context, userID, orderID uuid.UUID, transactionID string) error {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.UserID != userID {
		return shared.ErrForbidden
	}
	return s.applySuccess(ctx, o, transactionID)
}

// HandleFailure records a failed payment attempt on the user's order.
// The order keeps its stock reservation so the user can retry payment.
func (s *PaymentService) HandleFailure(ctx context.Context, userID, orderID uuid.UUID, reason string) error {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.UserID != userID {
		return shared.ErrForbidden
	}
	return s.applyFailure(ctx, o, reason)
}

// Refund refunds a paid order and restores its stock
func (s *PaymentService) Refund(ctx context.Context, orderID uuid.UUID) error {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !o.IsPaid() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot refund order %s with payment status %s", o.OrderNumber, o.PaymentStatus))
	}

	if err := o.Refund(); err != nil {
		return err
	}
	if o.Status.CanCancel() {
		if err := o.Cancel("refunded"); err != nil {
			return err
		}
	}
	if err := s.orderRepo.SaveWithStockRestore(ctx, o); err != nil {
		return err
	}
	invalidateVariantCache(ctx, s.cache, s.logger, o)

	s.logger.Info("order refunded",
		zap.String("order_number", o.OrderNumber),
		zap.String("transaction_id", o.TransactionID))
	return nil
}

func (s *PaymentService) handleSucceeded(ctx context.Context, event WebhookEvent) error {
	o, err := s.orderRepo.FindByOrderNumber(ctx, event.OrderNumber)
	if err != nil {
		return err
	}
	return s.applySuccess(ctx, o, event.TransactionID)
}

func (s *PaymentService) handleFailed(ctx context.Context, event WebhookEvent) error {
	o, err := s.orderRepo.FindByOrderNumber(ctx, event.OrderNumber)
	if err != nil {
		return err
	}
	return s.applyFailure(ctx, o, event.Reason)
}

func (s *PaymentService) applySuccess(ctx context.Context, o *order.Order, transactionID string) error {
	if o.IsPaid() {
		s.logger.Info("duplicate payment success ignored",
			zap.String("order_number", o.OrderNumber),
			zap.String("transaction_id", transactionID))
		return nil
	}
	if o.Status == order.StatusCancelled {
		// acknowledged so the gateway stops retrying; the money is
		// reconciled out of band
		s.logger.Warn("payment success received for cancelled order",
			zap.String("order_number", o.OrderNumber),
			zap.String("transaction_id", transactionID))
		return nil
	}

	if err := o.MarkPaid(transactionID); err != nil {
		return err
	}
	if err := o.Confirm(); err != nil {
		return err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return err
	}

	s.logger.Info("payment succeeded",
		zap.String("order_number", o.OrderNumber),
		zap.String("transaction_id", transactionID))
	return nil
}

func (s *PaymentService) applyFailure(ctx context.Context, o *order.Order, reason string) error {
	if o.PaymentStatus == order.PaymentFailed {
		return nil
	}
	if o.IsPaid() {
		// late failure for an already-paid order is a gateway anomaly
		s.logger.Warn("payment failure received for paid order",
			zap.String("order_number", o.OrderNumber))
		return nil
	}

	// the order keeps its stock reservation so the user can retry payment
	if err := o.MarkPaymentFailed(); err != nil {
		return err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return err
	}

	s.logger.Info("payment failed",
		zap.String("order_number", o.OrderNumber),
		zap.String("reason", reason))
	return nil
}
