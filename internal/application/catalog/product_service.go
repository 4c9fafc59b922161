package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService handles product operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	variantRepo  catalog.VariantRepository
	valueRepo    catalog.AttributeValueRepository
	cache        Cache
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	variantRepo catalog.VariantRepository,
	valueRepo catalog.AttributeValueRepository,
	cache Cache,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		variantRepo:  variantRepo,
		valueRepo:    valueRepo,
		cache:        cache,
		logger:       logger,
	}
}

// Create creates a new unpublished product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(req.Name, req.Description, req.Brand, req.CategoryID)
	if err != nil {
		return nil, err
	}

	exists, err := s.productRepo.ExistsBySlug(ctx, product.Slug, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS",
			fmt.Sprintf("Product %q already exists", product.Name))
	}

	product.SetImages(req.Images)
	product.SetFeatures(req.Features)
	product.SetTags(req.Tags)

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("slug", product.Slug))

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetBySlug retrieves a product by its slug
func (s *ProductService) GetBySlug(ctx context.Context, productSlug string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySlug(ctx, productSlug)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination. A category
// filter matches the whole subtree of the category.
func (s *ProductService) List(ctx context.Context, req ProductListFilter) (shared.Paginated[ProductListItemResponse], error) {
	empty := shared.Paginated[ProductListItemResponse]{Items: []ProductListItemResponse{}}

	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	filter.Search = req.Search
	if req.Brand != "" {
		filter.Filters["brand"] = req.Brand
	}
	if req.Tag != "" {
		filter.Filters["tag"] = strings.ToLower(req.Tag)
	}
	if req.Published != nil {
		filter.Filters["published"] = *req.Published
	}
	if req.CategoryID != nil {
		category, err := s.categoryRepo.FindByID(ctx, *req.CategoryID)
		if err != nil {
			return empty, err
		}
		descendants, err := s.categoryRepo.FindDescendants(ctx, category)
		if err != nil {
			return empty, err
		}
		ids := make([]uuid.UUID, 0, len(descendants)+1)
		ids = append(ids, category.ID)
		for _, d := range descendants {
			ids = append(ids, d.ID)
		}
		filter.Filters["category_ids"] = ids
	}

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return empty, err
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return empty, err
	}

	items := make([]ProductListItemResponse, 0, len(products))
	for i := range products {
		items = append(items, ToProductListItemResponse(&products[i]))
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Search finds published products matching the query. The query is
// lowercased and split on whitespace; each token is compared for exact
// equality against category slugs and attribute-value slugs. Tokens
// resolving to nothing are dropped; a query where no token resolves
// yields an empty page. A hyphenated slug like "dark-blue" is a single
// token, so the shopper has to type it hyphenated.
func (s *ProductService) Search(ctx context.Context, query string, page, pageSize int) (shared.Paginated[ProductListItemResponse], error) {
	empty := shared.Paginated[ProductListItemResponse]{Items: []ProductListItemResponse{}}

	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return shared.NewPaginated([]ProductListItemResponse{}, 0, filter.Page, filter.PageSize), nil
	}

	categoryIDs := make([]uuid.UUID, 0, len(tokens))
	for _, token := range tokens {
		category, err := s.categoryRepo.FindBySlug(ctx, token)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return empty, err
		}
		categoryIDs = append(categoryIDs, category.ID)
	}

	values, err := s.valueRepo.FindBySlugs(ctx, tokens)
	if err != nil {
		return empty, err
	}
	valueIDs := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		valueIDs = append(valueIDs, v.ID)
	}

	if len(categoryIDs) == 0 && len(valueIDs) == 0 {
		return shared.NewPaginated([]ProductListItemResponse{}, 0, filter.Page, filter.PageSize), nil
	}

	products, total, err := s.productRepo.Search(ctx, categoryIDs, valueIDs, filter)
	if err != nil {
		return empty, err
	}

	items := make([]ProductListItemResponse, 0, len(products))
	for i := range products {
		items = append(items, ToProductListItemResponse(&products[i]))
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Update updates a product's descriptive fields
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Description, req.Brand, req.CategoryID); err != nil {
		return nil, err
	}
	exists, err := s.productRepo.ExistsBySlug(ctx, product.Slug, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS",
			fmt.Sprintf("Product %q already exists", product.Name))
	}

	product.SetImages(req.Images)
	product.SetFeatures(req.Features)
	product.SetTags(req.Tags)

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateVariantCache(ctx, id)

	response := ToProductResponse(product)
	return &response, nil
}

// SetPublished publishes or unpublishes a product
func (s *ProductService) SetPublished(ctx context.Context, id uuid.UUID, published bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if published {
		product.Publish()
	} else {
		product.Unpublish()
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product and its variants
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateVariantCache(ctx, id)
	return nil
}

func (s *ProductService) invalidateVariantCache(ctx context.Context, productID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, VariantCacheKey(productID)); err != nil {
		s.logger.Warn("variant cache invalidation failed",
			zap.String("product_id", productID.String()),
			zap.Error(err))
	}
}
