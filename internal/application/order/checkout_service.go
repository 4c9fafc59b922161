package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// CheckoutService turns a cart into an order. Stock is reserved inside
// the same transaction that creates the order and clears the cart, so a
// failed checkout never leaves partial reservations behind.
type CheckoutService struct {
	orderRepo   order.Repository
	cartRepo    cart.Repository
	variantRepo catalog.VariantRepository
	gateway     PaymentGateway
	cache       VariantCache
	logger      *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	orderRepo order.Repository,
	cartRepo cart.Repository,
	variantRepo catalog.VariantRepository,
	gateway PaymentGateway,
	cache VariantCache,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		variantRepo: variantRepo,
		gateway:     gateway,
		cache:       cache,
		logger:      logger,
	}
}

// Checkout places an order from the user's cart. Items are re-priced at
// the variant's current price; the cart's price-at-add is display only.
func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*CheckoutResponse, error) {
	address, err := valueobject.NewShippingAddress(
		req.ShippingAddress.Name,
		req.ShippingAddress.Address,
		req.ShippingAddress.City,
		req.ShippingAddress.State,
		req.ShippingAddress.Zip,
		req.ShippingAddress.Country,
	)
	if err != nil {
		return nil, shared.NewValidationError("shipping_address", err.Error())
	}

	c, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil || c.IsEmpty() {
		return nil, shared.NewDomainError("EMPTY_CART", "Cart is empty")
	}

	variantIDs := make([]uuid.UUID, 0, len(c.Items))
	for _, item := range c.Items {
		variantIDs = append(variantIDs, item.VariantID)
	}
	variants, err := s.variantRepo.FindByIDs(ctx, variantIDs)
	if err != nil {
		return nil, err
	}
	variantByID := make(map[uuid.UUID]*catalog.ProductVariant, len(variants))
	for i := range variants {
		variantByID[variants[i].ID] = &variants[i]
	}

	items := make([]order.Item, 0, len(c.Items))
	for _, line := range c.Items {
		variant, ok := variantByID[line.VariantID]
		if !ok {
			return nil, shared.NewDomainError("VARIANT_UNAVAILABLE",
				"An item in the cart is no longer available")
		}
		if !variant.IsActive {
			return nil, shared.NewDomainError("VARIANT_UNAVAILABLE",
				"An item in the cart is no longer available")
		}
		// early check for a friendly error; the transactional decrement
		// in PlaceOrder is the real guard against oversell
		if variant.Stock < line.Quantity {
			return nil, shared.NewInsufficientStockError(variant.SKU, variant.Stock, line.Quantity)
		}

		item, err := order.NewItem(variant.ID, line.ProductID, line.Name, variant.SKU, line.Image,
			variant.UnitPrice(), line.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	orderNumber, err := s.orderRepo.NextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}
	o, err := order.NewOrder(orderNumber, userID, address, req.PaymentMethod, items)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.PlaceOrder(ctx, o, c.ID); err != nil {
		return nil, err
	}
	invalidateVariantCache(ctx, s.cache, s.logger, o)

	s.logger.Info("order placed",
		zap.String("order_number", o.OrderNumber),
		zap.String("user_id", userID.String()),
		zap.String("total", o.TotalAmount.StringFixed(2)))

	response := &CheckoutResponse{Order: ToResponse(o)}
	if s.gateway != nil {
		intent, err := s.gateway.CreateIntent(ctx, GatewayPaymentRequest{
			OrderID:        o.ID,
			OrderNumber:    o.OrderNumber,
			Amount:         o.TotalAmount,
			Currency:       string(valueobject.DefaultCurrency),
			Method:         o.PaymentMethod,
			IdempotencyKey: o.OrderNumber,
		})
		if err != nil {
			// release the reservation so a dead gateway doesn't strand stock
			if cancelErr := o.Cancel("payment intent creation failed"); cancelErr == nil {
				_ = o.MarkPaymentFailed()
				if restoreErr := s.orderRepo.SaveWithStockRestore(ctx, o); restoreErr != nil {
					s.logger.Error("failed to roll back order after gateway error",
						zap.String("order_number", o.OrderNumber),
						zap.Error(restoreErr))
				} else {
					invalidateVariantCache(ctx, s.cache, s.logger, o)
				}
			}
			return nil, err
		}
		response.Payment = &PaymentIntentResponse{
			IntentID:     intent.IntentID,
			ClientSecret: intent.ClientSecret,
		}
	}
	return response, nil
}
