package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newOrderFixture(t *testing.T) (*Service, *MockOrderRepository, *MockVariantCache, *order.Order) {
	t.Helper()
	orderRepo := new(MockOrderRepository)
	cache := new(MockVariantCache)
	svc := NewService(orderRepo, cache, zap.NewNop())

	addr, err := valueobject.NewShippingAddress("Jane Doe", "1 Main St", "Springfield", "IL", "62701", "US")
	assert.NoError(t, err)
	item, err := order.NewItem(uuid.New(), uuid.New(), "Shoe", "SHOE-1", "",
		valueobject.NewMoneyUSDFromFloat(20), 2)
	assert.NoError(t, err)
	o, err := order.NewOrder("ORD-2026-00060", uuid.New(), addr, "card", []order.Item{item})
	assert.NoError(t, err)
	return svc, orderRepo, cache, o
}

func TestOrderServiceGetForUser_OwnershipEnforced(t *testing.T) {
	svc, orderRepo, _, o := newOrderFixture(t)
	ctx := context.Background()

	orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

	_, err := svc.GetForUser(ctx, uuid.New(), o.ID)

	assert.Equal(t, shared.ErrForbidden, err)
}

func TestOrderServiceGetForUser(t *testing.T) {
	svc, orderRepo, _, o := newOrderFixture(t)
	ctx := context.Background()

	orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

	resp, err := svc.GetForUser(ctx, o.UserID, o.ID)

	assert.NoError(t, err)
	assert.Equal(t, o.OrderNumber, resp.OrderNumber)
	assert.Len(t, resp.Items, 1)
}

func TestOrderServiceCancel_RestoresStock(t *testing.T) {
	svc, orderRepo, _, o := newOrderFixture(t)
	ctx := context.Background()

	orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
	orderRepo.On("SaveWithStockRestore", ctx, o).Return(nil)

	resp, err := svc.Cancel(ctx, o.UserID, o.ID, CancelRequest{Reason: "changed my mind"})

	assert.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, resp.Status)
	orderRepo.AssertExpectations(t)
}

func TestOrderServiceCancel_PaidOrderRefunded(t *testing.T) {
	svc, orderRepo, _, o := newOrderFixture(t)
	ctx := context.Background()
	assert.NoError(t, o.MarkPaid("txn_1"))

	orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
	orderRepo.On("SaveWithStockRestore", ctx, o).Return(nil)

	resp, err := svc.Cancel(ctx, o.UserID, o.ID, CancelRequest{Reason: "no longer needed"})

	assert.NoError(t, err)
	assert.Equal(t, order.PaymentRefunded, resp.PaymentStatus)
}

func TestOrderServiceCancel_ShippedRejected(t *testing.T) {
	svc, orderRepo, _, o := newOrderFixture(t)
	ctx := context.Background()
	assert.NoError(t, o.MarkPaid("txn_1"))
	assert.NoError(t, o.Confirm())
	assert.NoError(t, o.Ship())

	orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

	_, err := svc.Cancel(ctx, o.UserID, o.ID, CancelRequest{Reason: "too late"})

	assert.Error(t, err)
	orderRepo.AssertNotCalled(t, "SaveWithStockRestore", mock.Anything, mock.Anything)
}

func TestOrderServiceCancel_UnpaidMarkedFailed(t *testing.T) {
	svc, orderRepo, _, o := newOrderFixture(t)
	ctx := context.Background()

	orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
	orderRepo.On("SaveWithStockRestore", ctx, o).Return(nil)

	resp, err := svc.Cancel(ctx, o.UserID, o.ID, CancelRequest{Reason: "changed my mind"})

	assert.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, resp.Status)
	// an unpaid cancellation must not leave the payment hanging in pending
	assert.Equal(t, order.PaymentFailed, resp.PaymentStatus)
}

func TestOrderServiceCancel_InvalidatesVariantCache(t *testing.T) {
	svc, orderRepo, cache, o := newOrderFixture(t)
	ctx := context.Background()

	orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
	orderRepo.On("SaveWithStockRestore", ctx, o).Return(nil)

	_, err := svc.Cancel(ctx, o.UserID, o.ID, CancelRequest{Reason: "changed my mind"})

	assert.NoError(t, err)
	assert.Equal(t, []string{catalogapp.VariantCacheKey(o.Items[0].ProductID)}, cache.keys)
}

func TestOrderServiceCancelByAdmin(t *testing.T) {
	svc, orderRepo, cache, o := newOrderFixture(t)
	ctx := context.Background()

	orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
	orderRepo.On("SaveWithStockRestore", ctx, o).Return(nil)

	// the admin path skips the ownership check
	resp, err := svc.CancelByAdmin(ctx, o.ID, CancelRequest{Reason: "fraud review"})

	assert.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, resp.Status)
	assert.Len(t, cache.keys, 1)
	orderRepo.AssertExpectations(t)
}

func TestOrderServiceUpdateStatus(t *testing.T) {
	svc, orderRepo, _, o := newOrderFixture(t)
	ctx := context.Background()
	assert.NoError(t, o.MarkPaid("txn_1"))
	assert.NoError(t, o.Confirm())

	orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
	orderRepo.On("Save", ctx, o).Return(nil)

	resp, err := svc.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: order.StatusShipped})

	assert.NoError(t, err)
	assert.Equal(t, order.StatusShipped, resp.Status)
}

func TestOrderServiceListForUser(t *testing.T) {
	svc, orderRepo, _, o := newOrderFixture(t)
	ctx := context.Background()

	orderRepo.On("FindByUser", ctx, o.UserID, mock.AnythingOfType("shared.Filter")).
		Return([]order.Order{*o}, int64(1), nil)

	page, err := svc.ListForUser(ctx, o.UserID, ListFilter{})

	assert.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 2, page.Items[0].ItemCount)
}
