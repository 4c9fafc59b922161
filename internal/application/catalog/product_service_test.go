package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type productServiceFixture struct {
	svc          *ProductService
	productRepo  *MockProductRepository
	categoryRepo *MockCategoryRepository
	variantRepo  *MockVariantRepository
	valueRepo    *MockAttributeValueRepository
	cache        *MockCache
}

func newProductServiceFixture() *productServiceFixture {
	f := &productServiceFixture{
		productRepo:  new(MockProductRepository),
		categoryRepo: new(MockCategoryRepository),
		variantRepo:  new(MockVariantRepository),
		valueRepo:    new(MockAttributeValueRepository),
		cache:        NewMockCache(),
	}
	f.svc = NewProductService(f.productRepo, f.categoryRepo, f.variantRepo, f.valueRepo, f.cache, zap.NewNop())
	return f
}

func TestProductServiceCreate(t *testing.T) {
	f := newProductServiceFixture()
	ctx := context.Background()
	category, _ := catalog.NewCategory("Shoes", "")

	f.categoryRepo.On("FindByID", ctx, category.ID).Return(category, nil)
	f.productRepo.On("ExistsBySlug", ctx, "trail-runner", uuid.Nil).Return(false, nil)
	f.productRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	resp, err := f.svc.Create(ctx, CreateProductRequest{
		Name:       "Trail Runner",
		CategoryID: category.ID,
		Tags:       []string{"Running", "TRAIL"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "trail-runner", resp.Slug)
	assert.False(t, resp.IsPublished)
	assert.Equal(t, []string{"running", "trail"}, resp.Tags)
}

func TestProductServiceCreate_MissingCategory(t *testing.T) {
	f := newProductServiceFixture()
	ctx := context.Background()
	categoryID := uuid.New()

	f.categoryRepo.On("FindByID", ctx, categoryID).Return(nil, shared.ErrNotFound)

	_, err := f.svc.Create(ctx, CreateProductRequest{Name: "Shoe", CategoryID: categoryID})

	assert.Error(t, err)
	f.productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductServiceSearch_ResolvesSlugTokens(t *testing.T) {
	f := newProductServiceFixture()
	ctx := context.Background()

	category, _ := catalog.NewCategory("Shoes", "")
	value, _ := catalog.NewAttributeValue(uuid.New(), "Dark Blue")

	f.categoryRepo.On("FindBySlug", ctx, "shoes").Return(category, nil)
	f.categoryRepo.On("FindBySlug", ctx, "dark-blue").Return(nil, shared.ErrNotFound)
	f.valueRepo.On("FindBySlugs", ctx, []string{"shoes", "dark-blue"}).
		Return([]catalog.AttributeValue{*value}, nil)
	f.productRepo.On("Search", ctx, []uuid.UUID{category.ID}, []uuid.UUID{value.ID},
		mock.AnythingOfType("shared.Filter")).
		Return([]catalog.Product{}, int64(0), nil)

	_, err := f.svc.Search(ctx, "  Shoes DARK-BLUE ", 1, 20)

	assert.NoError(t, err)
	f.productRepo.AssertExpectations(t)
}

func TestProductServiceSearch_NoTokenResolves(t *testing.T) {
	f := newProductServiceFixture()
	ctx := context.Background()

	f.categoryRepo.On("FindBySlug", ctx, "xyzzy").Return(nil, shared.ErrNotFound)
	f.valueRepo.On("FindBySlugs", ctx, []string{"xyzzy"}).
		Return([]catalog.AttributeValue{}, nil)

	result, err := f.svc.Search(ctx, "xyzzy", 1, 20)

	assert.NoError(t, err)
	assert.Empty(t, result.Items)
	f.productRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProductServiceSearch_EmptyQuery(t *testing.T) {
	f := newProductServiceFixture()
	ctx := context.Background()

	result, err := f.svc.Search(ctx, "   ", 1, 20)

	assert.NoError(t, err)
	assert.Empty(t, result.Items)
	f.productRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProductServiceList_CategoryIncludesSubtree(t *testing.T) {
	f := newProductServiceFixture()
	ctx := context.Background()

	root, _ := catalog.NewCategory("Shoes", "")
	child, _ := catalog.NewChildCategory("Running", "", root)

	f.categoryRepo.On("FindByID", ctx, root.ID).Return(root, nil)
	f.categoryRepo.On("FindDescendants", ctx, root).Return([]catalog.Category{*child}, nil)
	f.productRepo.On("FindAll", ctx, mock.MatchedBy(func(filter shared.Filter) bool {
		ids, ok := filter.Filters["category_ids"].([]uuid.UUID)
		return ok && len(ids) == 2
	})).Return([]catalog.Product{}, nil)
	f.productRepo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(0), nil)

	_, err := f.svc.List(ctx, ProductListFilter{CategoryID: &root.ID})

	assert.NoError(t, err)
	f.productRepo.AssertExpectations(t)
}

func TestProductServiceDelete_InvalidatesVariantCache(t *testing.T) {
	f := newProductServiceFixture()
	ctx := context.Background()
	product, _ := catalog.NewProduct("Shoe", "", "", uuid.New())

	f.productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	f.productRepo.On("Delete", ctx, product.ID).Return(nil)

	err := f.svc.Delete(ctx, product.ID)

	assert.NoError(t, err)
	assert.Equal(t, 1, f.cache.deletes)
}
