package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CategoryService handles category tree operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

// Create creates a category, optionally under a parent
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	var parent *catalog.Category
	if req.ParentID != nil {
		var err error
		parent, err = s.categoryRepo.FindByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
	}

	category, err := catalog.NewChildCategory(req.Name, req.Description, parent)
	if err != nil {
		return nil, err
	}

	exists, err := s.categoryRepo.ExistsBySlug(ctx, category.Slug, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS",
			fmt.Sprintf("Category %q already exists", category.Name))
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category created",
		zap.String("category_id", category.ID.String()),
		zap.Int("level", category.Level))

	response := ToCategoryResponse(category)
	return &response, nil
}

// GetByID retrieves a category
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// GetBySlug retrieves a category by its slug
func (s *CategoryService) GetBySlug(ctx context.Context, categorySlug string) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// GetTree returns the full category tree. Categories arrive ordered by
// level, so every parent is placed before its children.
func (s *CategoryService) GetTree(ctx context.Context, activeOnly bool) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	nodes := make(map[uuid.UUID]*CategoryResponse, len(categories))
	order := make([]uuid.UUID, 0, len(categories))
	for i := range categories {
		node := ToCategoryResponse(&categories[i])
		nodes[node.ID] = &node
		order = append(order, node.ID)
	}

	roots := make([]CategoryResponse, 0)
	// children are appended in reverse so parents collect fully-built subtrees
	for i := len(order) - 1; i >= 0; i-- {
		node := nodes[order[i]]
		if node.ParentID == nil {
			continue
		}
		if parent, ok := nodes[*node.ParentID]; ok {
			parent.Children = append([]CategoryResponse{*node}, parent.Children...)
			delete(nodes, node.ID)
		}
	}
	for _, id := range order {
		if node, ok := nodes[id]; ok && node.ParentID == nil {
			roots = append(roots, *node)
		}
	}
	return roots, nil
}

// GetRoots returns the top-level categories
func (s *CategoryService) GetRoots(ctx context.Context, activeOnly bool) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	roots := make([]CategoryResponse, 0)
	for i := range categories {
		if categories[i].ParentID == nil {
			roots = append(roots, ToCategoryResponse(&categories[i]))
		}
	}
	return roots, nil
}

// GetChildren returns a category's direct children
func (s *CategoryService) GetChildren(ctx context.Context, parentID uuid.UUID, activeOnly bool) ([]CategoryResponse, error) {
	if _, err := s.categoryRepo.FindByID(ctx, parentID); err != nil {
		return nil, err
	}

	children, err := s.categoryRepo.FindChildren(ctx, parentID)
	if err != nil {
		return nil, err
	}

	responses := make([]CategoryResponse, 0, len(children))
	for i := range children {
		if activeOnly && !children[i].IsActive {
			continue
		}
		responses = append(responses, ToCategoryResponse(&children[i]))
	}
	return responses, nil
}

// Update updates a category's display fields
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.categoryRepo.ExistsBySlug(ctx, slug.Make(req.Name), id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS",
			fmt.Sprintf("Category %q already exists", req.Name))
	}

	if err := category.Update(req.Name, req.Description, req.Image); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		category.SetActive(*req.IsActive)
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// Move re-parents a category and rewrites the paths of its subtree
func (s *CategoryService) Move(ctx context.Context, id uuid.UUID, req MoveCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var parent *catalog.Category
	if req.ParentID != nil {
		parent, err = s.categoryRepo.FindByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
	}

	// descendants must be loaded against the old path before it changes
	descendants, err := s.categoryRepo.FindDescendants(ctx, category)
	if err != nil {
		return nil, err
	}
	oldPath := category.Path
	oldLevel := category.Level

	if err := category.MoveTo(parent); err != nil {
		return nil, err
	}
	levelDelta := category.Level - oldLevel

	toSave := make([]*catalog.Category, 0, len(descendants)+1)
	toSave = append(toSave, category)
	for i := range descendants {
		d := &descendants[i]
		if d.Level+levelDelta >= catalog.MaxCategoryDepth {
			return nil, shared.NewDomainError("MAX_DEPTH_EXCEEDED",
				fmt.Sprintf("Moving would push %q beyond %d levels", d.Name, catalog.MaxCategoryDepth))
		}
		d.Path = strings.Replace(d.Path, oldPath, category.Path, 1)
		d.Level += levelDelta
		d.IncrementVersion()
		toSave = append(toSave, d)
	}

	if err := s.categoryRepo.SaveAll(ctx, toSave); err != nil {
		return nil, err
	}

	s.logger.Info("category moved",
		zap.String("category_id", category.ID.String()),
		zap.Int("descendants", len(descendants)))

	response := ToCategoryResponse(category)
	return &response, nil
}

// Delete removes a category. The delete is rejected while the category
// has children or products.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}

	hasChildren, err := s.categoryRepo.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return shared.NewDomainError("CATEGORY_NOT_EMPTY", "Category with subcategories cannot be deleted")
	}

	productCount, err := s.productRepo.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if productCount > 0 {
		return shared.NewDomainError("CATEGORY_NOT_EMPTY",
			fmt.Sprintf("Category contains %d product(s) and cannot be deleted", productCount))
	}

	return s.categoryRepo.Delete(ctx, id)
}
