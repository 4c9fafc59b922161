package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockCartRepository is a mock implementation of cart.Repository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVariantRepository is a mock implementation of catalog.VariantRepository
type MockVariantRepository struct {
	mock.Mock
}

func (m *MockVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductVariant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductVariant), args.Error(1)
}

func (m *MockVariantRepository) FindBySKU(ctx context.Context, sku string) (*catalog.ProductVariant, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductVariant), args.Error(1)
}

func (m *MockVariantRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductVariant, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ProductVariant), args.Error(1)
}

func (m *MockVariantRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.ProductVariant, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ProductVariant), args.Error(1)
}

func (m *MockVariantRepository) ExistsBySKU(ctx context.Context, sku string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, sku, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockVariantRepository) Save(ctx context.Context, variant *catalog.ProductVariant) error {
	args := m.Called(ctx, variant)
	return args.Error(0)
}

func (m *MockVariantRepository) SaveBatch(ctx context.Context, variants []*catalog.ProductVariant) error {
	args := m.Called(ctx, variants)
	return args.Error(0)
}

func (m *MockVariantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVariantRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockVariantRepository) CountByAttribute(ctx context.Context, attributeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, attributeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVariantRepository) CountByValue(ctx context.Context, valueID uuid.UUID) (int64, error) {
	args := m.Called(ctx, valueID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVariantRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Search(ctx context.Context, categoryIDs, valueIDs []uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, categoryIDs, valueIDs, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type fixture struct {
	svc         *Service
	cartRepo    *MockCartRepository
	variantRepo *MockVariantRepository
	productRepo *MockProductRepository
	product     *catalog.Product
	variant     *catalog.ProductVariant
}

func newFixture(t *testing.T, stock int) *fixture {
	t.Helper()
	f := &fixture{
		cartRepo:    new(MockCartRepository),
		variantRepo: new(MockVariantRepository),
		productRepo: new(MockProductRepository),
	}
	f.svc = NewService(f.cartRepo, f.variantRepo, f.productRepo, zap.NewNop())

	var err error
	f.product, err = catalog.NewProduct("Trail Runner", "", "Acme", uuid.New())
	assert.NoError(t, err)
	f.variant, err = catalog.NewProductVariant(f.product.ID, "SHOE-BLUE-42",
		valueobject.NewMoneyUSDFromFloat(49.99), stock,
		[]catalog.AttributePair{{AttributeID: uuid.New(), ValueID: uuid.New()}})
	assert.NoError(t, err)
	return f
}

func TestCartServiceAddItem_NewCart(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	userID := uuid.New()

	f.variantRepo.On("FindByID", ctx, f.variant.ID).Return(f.variant, nil)
	f.productRepo.On("FindByID", ctx, f.product.ID).Return(f.product, nil)
	f.cartRepo.On("FindByUser", ctx, userID).Return(nil, nil)
	f.cartRepo.On("Save", ctx, mock.AnythingOfType("*cart.Cart")).Return(nil)

	resp, err := f.svc.AddItem(ctx, userID, AddItemRequest{VariantID: f.variant.ID, Quantity: 2})

	assert.NoError(t, err)
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.TotalQuantity)
	assert.Equal(t, "99.98", resp.TotalPrice.StringFixed(2))
	f.cartRepo.AssertExpectations(t)
}

func TestCartServiceAddItem_InsufficientStockOnMerge(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()
	userID := uuid.New()

	existing, _ := cart.NewCart(userID)
	_ = existing.AddItem(f.variant.ID, f.product.ID, f.product.Name, f.variant.SKU, "", 4, f.variant.UnitPrice())

	f.variantRepo.On("FindByID", ctx, f.variant.ID).Return(f.variant, nil)
	f.productRepo.On("FindByID", ctx, f.product.ID).Return(f.product, nil)
	f.cartRepo.On("FindByUser", ctx, userID).Return(existing, nil)

	_, err := f.svc.AddItem(ctx, userID, AddItemRequest{VariantID: f.variant.ID, Quantity: 2})

	assert.Error(t, err)
	domainErr, ok := err.(*shared.DomainError)
	assert.True(t, ok)
	assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
	f.cartRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCartServiceAddItem_InactiveVariant(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	f.variant.SetActive(false)

	f.variantRepo.On("FindByID", ctx, f.variant.ID).Return(f.variant, nil)

	_, err := f.svc.AddItem(ctx, uuid.New(), AddItemRequest{VariantID: f.variant.ID, Quantity: 1})

	assert.Error(t, err)
}

func TestCartServiceUpdateItem(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	userID := uuid.New()

	existing, _ := cart.NewCart(userID)
	_ = existing.AddItem(f.variant.ID, f.product.ID, f.product.Name, f.variant.SKU, "", 1, f.variant.UnitPrice())

	f.cartRepo.On("FindByUser", ctx, userID).Return(existing, nil)
	f.cartRepo.On("Save", ctx, existing).Return(nil)

	resp, err := f.svc.UpdateItem(ctx, userID, f.variant.ID, UpdateItemRequest{Quantity: 3})

	assert.NoError(t, err)
	assert.Equal(t, 3, resp.TotalQuantity)
}

func TestCartServiceUpdateItem_NoStockCheck(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	userID := uuid.New()

	existing, _ := cart.NewCart(userID)
	_ = existing.AddItem(f.variant.ID, f.product.ID, f.product.Name, f.variant.SKU, "", 1, f.variant.UnitPrice())

	f.cartRepo.On("FindByUser", ctx, userID).Return(existing, nil)
	f.cartRepo.On("Save", ctx, existing).Return(nil)

	// availability is only validated at checkout, so a quantity above
	// current stock is accepted here
	resp, err := f.svc.UpdateItem(ctx, userID, f.variant.ID, UpdateItemRequest{Quantity: 5})

	assert.NoError(t, err)
	assert.Equal(t, 5, resp.TotalQuantity)
	f.variantRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestCartServiceSync_DropsMalformedLines(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	userID := uuid.New()

	f.cartRepo.On("FindByUser", ctx, userID).Return(nil, nil)
	f.variantRepo.On("FindByID", ctx, f.variant.ID).Return(f.variant, nil)
	f.productRepo.On("FindByID", ctx, f.product.ID).Return(f.product, nil)
	f.cartRepo.On("Save", ctx, mock.AnythingOfType("*cart.Cart")).Return(nil)

	unknown := uuid.New()
	f.variantRepo.On("FindByID", ctx, unknown).Return(nil, shared.ErrNotFound)

	resp, err := f.svc.Sync(ctx, userID, SyncRequest{Items: []SyncItemInput{
		{VariantID: "not-a-uuid", Quantity: 1},
		{VariantID: f.variant.ID.String(), Quantity: 2},
		{VariantID: unknown.String(), Quantity: 1},
		{VariantID: f.variant.ID.String(), Quantity: 0},
	}})

	assert.NoError(t, err)
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.TotalQuantity)
}

func TestCartServiceSync_CapsAtStock(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	userID := uuid.New()

	existing, _ := cart.NewCart(userID)
	_ = existing.AddItem(f.variant.ID, f.product.ID, f.product.Name, f.variant.SKU, "", 2, f.variant.UnitPrice())

	f.cartRepo.On("FindByUser", ctx, userID).Return(existing, nil)
	f.variantRepo.On("FindByID", ctx, f.variant.ID).Return(f.variant, nil)
	f.productRepo.On("FindByID", ctx, f.product.ID).Return(f.product, nil)
	f.cartRepo.On("Save", ctx, existing).Return(nil)

	resp, err := f.svc.Sync(ctx, userID, SyncRequest{Items: []SyncItemInput{
		{VariantID: f.variant.ID.String(), Quantity: 5},
	}})

	assert.NoError(t, err)
	assert.Equal(t, 3, resp.TotalQuantity)
}
