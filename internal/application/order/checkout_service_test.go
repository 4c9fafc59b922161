package order

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type checkoutFixture struct {
	svc         *CheckoutService
	orderRepo   *MockOrderRepository
	cartRepo    *MockCartRepository
	variantRepo *MockVariantRepository
	gateway     *MockPaymentGateway
	cache       *MockVariantCache
	userID      uuid.UUID
	variant     *catalog.ProductVariant
	userCart    *cart.Cart
}

// newCheckoutFixture builds a cart holding qty of a variant priced at
// price with the given stock
func newCheckoutFixture(t *testing.T, price float64, qty, stock int) *checkoutFixture {
	t.Helper()
	f := &checkoutFixture{
		orderRepo:   new(MockOrderRepository),
		cartRepo:    new(MockCartRepository),
		variantRepo: new(MockVariantRepository),
		gateway:     new(MockPaymentGateway),
		cache:       new(MockVariantCache),
		userID:      uuid.New(),
	}
	f.svc = NewCheckoutService(f.orderRepo, f.cartRepo, f.variantRepo, f.gateway, f.cache, zap.NewNop())

	var err error
	f.variant, err = catalog.NewProductVariant(uuid.New(), "SHOE-BLUE-42",
		valueobject.NewMoneyUSDFromFloat(price), stock,
		[]catalog.AttributePair{{AttributeID: uuid.New(), ValueID: uuid.New()}})
	assert.NoError(t, err)

	f.userCart, err = cart.NewCart(f.userID)
	assert.NoError(t, err)
	err = f.userCart.AddItem(f.variant.ID, f.variant.ProductID, "Trail Runner", f.variant.SKU, "",
		qty, f.variant.UnitPrice())
	assert.NoError(t, err)
	return f
}

func validCheckoutRequest() CheckoutRequest {
	return CheckoutRequest{
		ShippingAddress: AddressInput{
			Name: "Jane Doe", Address: "1 Main St", City: "Springfield",
			State: "IL", Zip: "62701", Country: "US",
		},
		PaymentMethod: "card",
	}
}

func TestCheckout(t *testing.T) {
	// 2 x 20.00: subtotal 40.00 + shipping 9.99 + tax 3.20 = 53.19
	f := newCheckoutFixture(t, 20.00, 2, 10)
	ctx := context.Background()

	f.cartRepo.On("FindByUser", ctx, f.userID).Return(f.userCart, nil)
	f.variantRepo.On("FindByIDs", ctx, []uuid.UUID{f.variant.ID}).
		Return([]catalog.ProductVariant{*f.variant}, nil)
	f.orderRepo.On("NextOrderNumber", ctx).Return("ORD-2026-00042", nil)
	f.orderRepo.On("PlaceOrder", ctx, mock.AnythingOfType("*order.Order"), f.userCart.ID).Return(nil)
	f.gateway.On("CreateIntent", ctx, mock.MatchedBy(func(req GatewayPaymentRequest) bool {
		return req.IdempotencyKey == "ORD-2026-00042" && req.Amount.StringFixed(2) == "53.19"
	})).Return(&GatewayPaymentIntent{IntentID: "pi_1", ClientSecret: "secret_1"}, nil)

	resp, err := f.svc.Checkout(ctx, f.userID, validCheckoutRequest())

	assert.NoError(t, err)
	assert.Equal(t, "ORD-2026-00042", resp.Order.OrderNumber)
	assert.Equal(t, "53.19", resp.Order.TotalAmount.StringFixed(2))
	assert.Equal(t, order.StatusPending, resp.Order.Status)
	assert.Equal(t, order.PaymentPending, resp.Order.PaymentStatus)
	assert.Equal(t, "pi_1", resp.Payment.IntentID)
	// the reservation changed stock, so the cached variant list is stale
	assert.Equal(t, []string{catalogapp.VariantCacheKey(f.variant.ProductID)}, f.cache.keys)
	f.orderRepo.AssertExpectations(t)
	f.gateway.AssertExpectations(t)
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newCheckoutFixture(t, 10, 1, 10)
	ctx := context.Background()
	f.userCart.Clear()

	f.cartRepo.On("FindByUser", ctx, f.userID).Return(f.userCart, nil)

	_, err := f.svc.Checkout(ctx, f.userID, validCheckoutRequest())

	assert.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	assert.True(t, ok)
	assert.Equal(t, "EMPTY_CART", domainErr.Code)
	f.orderRepo.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_MissingAddressField(t *testing.T) {
	f := newCheckoutFixture(t, 10, 1, 10)
	ctx := context.Background()

	req := validCheckoutRequest()
	req.ShippingAddress.Zip = ""

	_, err := f.svc.Checkout(ctx, f.userID, req)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), `"zip" is required`)
}

func TestCheckout_InsufficientStock(t *testing.T) {
	f := newCheckoutFixture(t, 10, 5, 2)
	ctx := context.Background()

	f.cartRepo.On("FindByUser", ctx, f.userID).Return(f.userCart, nil)
	f.variantRepo.On("FindByIDs", ctx, []uuid.UUID{f.variant.ID}).
		Return([]catalog.ProductVariant{*f.variant}, nil)

	_, err := f.svc.Checkout(ctx, f.userID, validCheckoutRequest())

	assert.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	assert.True(t, ok)
	assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
	f.orderRepo.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_RepricesAtCurrentVariantPrice(t *testing.T) {
	f := newCheckoutFixture(t, 30.00, 1, 10)
	ctx := context.Background()

	// price changed after the item was added to the cart
	assert.NoError(t, f.variant.UpdatePrice(valueobject.NewMoneyUSDFromFloat(25.00)))

	f.cartRepo.On("FindByUser", ctx, f.userID).Return(f.userCart, nil)
	f.variantRepo.On("FindByIDs", ctx, []uuid.UUID{f.variant.ID}).
		Return([]catalog.ProductVariant{*f.variant}, nil)
	f.orderRepo.On("NextOrderNumber", ctx).Return("ORD-2026-00043", nil)
	f.orderRepo.On("PlaceOrder", ctx, mock.AnythingOfType("*order.Order"), f.userCart.ID).Return(nil)
	f.gateway.On("CreateIntent", ctx, mock.Anything).
		Return(&GatewayPaymentIntent{IntentID: "pi_2"}, nil)

	resp, err := f.svc.Checkout(ctx, f.userID, validCheckoutRequest())

	assert.NoError(t, err)
	assert.Equal(t, "25.00", resp.Order.Subtotal.StringFixed(2))
}

func TestCheckout_GatewayFailureRollsBackReservation(t *testing.T) {
	f := newCheckoutFixture(t, 20.00, 1, 10)
	ctx := context.Background()

	f.cartRepo.On("FindByUser", ctx, f.userID).Return(f.userCart, nil)
	f.variantRepo.On("FindByIDs", ctx, []uuid.UUID{f.variant.ID}).
		Return([]catalog.ProductVariant{*f.variant}, nil)
	f.orderRepo.On("NextOrderNumber", ctx).Return("ORD-2026-00044", nil)
	f.orderRepo.On("PlaceOrder", ctx, mock.AnythingOfType("*order.Order"), f.userCart.ID).Return(nil)
	f.gateway.On("CreateIntent", ctx, mock.Anything).Return(nil, errors.New("gateway down"))
	f.orderRepo.On("SaveWithStockRestore", ctx, mock.MatchedBy(func(o *order.Order) bool {
		return o.Status == order.StatusCancelled
	})).Return(nil)

	_, err := f.svc.Checkout(ctx, f.userID, validCheckoutRequest())

	assert.Error(t, err)
	// the reservation was both taken and released, so the cache was busted twice
	assert.Len(t, f.cache.keys, 2)
	f.orderRepo.AssertExpectations(t)
}

func TestCheckout_ConditionalDecrementBlocksOversell(t *testing.T) {
	// two buyers race for the last unit; both pass the read-time stock
	// check, only the first conditional decrement succeeds
	f := newCheckoutFixture(t, 20.00, 1, 1)
	ctx := context.Background()

	f.cartRepo.On("FindByUser", ctx, f.userID).Return(f.userCart, nil)
	f.variantRepo.On("FindByIDs", ctx, []uuid.UUID{f.variant.ID}).
		Return([]catalog.ProductVariant{*f.variant}, nil)
	f.orderRepo.On("NextOrderNumber", ctx).Return("ORD-2026-00045", nil).Once()
	f.orderRepo.On("NextOrderNumber", ctx).Return("ORD-2026-00046", nil).Once()
	f.orderRepo.On("PlaceOrder", ctx, mock.AnythingOfType("*order.Order"), f.userCart.ID).
		Return(nil).Once()
	f.orderRepo.On("PlaceOrder", ctx, mock.AnythingOfType("*order.Order"), f.userCart.ID).
		Return(shared.NewInsufficientStockError(f.variant.SKU, 0, 1)).Once()
	f.gateway.On("CreateIntent", ctx, mock.Anything).
		Return(&GatewayPaymentIntent{IntentID: "pi_3"}, nil).Once()

	first, err := f.svc.Checkout(ctx, f.userID, validCheckoutRequest())
	assert.NoError(t, err)
	assert.Equal(t, "ORD-2026-00045", first.Order.OrderNumber)

	_, err = f.svc.Checkout(ctx, f.userID, validCheckoutRequest())
	assert.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	assert.True(t, ok)
	assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)

	// the losing checkout never reached the gateway
	f.gateway.AssertNumberOfCalls(t, "CreateIntent", 1)
	f.orderRepo.AssertExpectations(t)
}
