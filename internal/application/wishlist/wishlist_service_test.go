package wishlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/wishlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockWishlistRepository is a mock implementation of wishlist.Repository
type MockWishlistRepository struct {
	mock.Mock
}

func (m *MockWishlistRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*wishlist.Wishlist, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wishlist.Wishlist), args.Error(1)
}

func (m *MockWishlistRepository) Save(ctx context.Context, w *wishlist.Wishlist) error {
	args := m.Called(ctx, w)
	return args.Error(0)
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

func TestWishlistServiceAdd(t *testing.T) {
	wishlistRepo := new(MockWishlistRepository)
	productRepo := new(MockProductRepository)
	svc := NewService(wishlistRepo, productRepo, zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	product, _ := catalog.NewProduct("Trail Runner", "", "Acme", uuid.New())

	productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	wishlistRepo.On("FindByUser", ctx, userID).Return(nil, nil)
	wishlistRepo.On("Save", ctx, mock.AnythingOfType("*wishlist.Wishlist")).
		Run(func(args mock.Arguments) {
			saved := args.Get(1).(*wishlist.Wishlist)
			wishlistRepo.ExpectedCalls = wishlistRepo.ExpectedCalls[:0]
			wishlistRepo.On("FindByUser", ctx, userID).Return(saved, nil)
		}).Return(nil)
	productRepo.On("FindByIDs", ctx, []uuid.UUID{product.ID}).
		Return([]catalog.Product{*product}, nil)

	resp, err := svc.Add(ctx, userID, AddRequest{ProductID: product.ID})

	assert.NoError(t, err)
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, "trail-runner", resp.Items[0].Slug)
}

func TestWishlistServiceGet_OmitsDeletedProducts(t *testing.T) {
	wishlistRepo := new(MockWishlistRepository)
	productRepo := new(MockProductRepository)
	svc := NewService(wishlistRepo, productRepo, zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	product, _ := catalog.NewProduct("Kept", "", "", uuid.New())
	deletedID := uuid.New()

	w, _ := wishlist.NewWishlist(userID)
	_ = w.AddProduct(product.ID)
	_ = w.AddProduct(deletedID)

	wishlistRepo.On("FindByUser", ctx, userID).Return(w, nil)
	productRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*product}, nil)

	resp, err := svc.Get(ctx, userID)

	assert.NoError(t, err)
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, product.ID, resp.Items[0].ProductID)
}

func TestWishlistServiceAdd_UnknownProduct(t *testing.T) {
	wishlistRepo := new(MockWishlistRepository)
	productRepo := new(MockProductRepository)
	svc := NewService(wishlistRepo, productRepo, zap.NewNop())
	ctx := context.Background()
	productID := uuid.New()

	productRepo.On("FindByID", ctx, productID).Return(nil, shared.ErrNotFound)

	_, err := svc.Add(ctx, uuid.New(), AddRequest{ProductID: productID})

	assert.Error(t, err)
	wishlistRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
