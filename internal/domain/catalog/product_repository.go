package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	// FindAll applies pagination plus optional filters: category_ids
	// ([]uuid.UUID, matches the category subtree), brand (string),
	// published (bool), and tag (string).
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Search returns published products constrained by resolved search
	// tokens: a category filter (product belongs to any of the
	// categories) and an attribute filter (some variant carries every
	// one of the value IDs).
	Search(ctx context.Context, categoryIDs, valueIDs []uuid.UUID, filter shared.Filter) ([]Product, int64, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}
