package catalog

import (
	"context"

	"github.com/google/uuid"
)

// CategoryRepository defines persistence operations for categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	// FindAll returns every category ordered by level then sort order,
	// so callers can assemble the tree in a single pass.
	FindAll(ctx context.Context, activeOnly bool) ([]Category, error)
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]Category, error)
	// FindDescendants returns all categories whose path contains the given
	// category, excluding the category itself.
	FindDescendants(ctx context.Context, category *Category) ([]Category, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	HasChildren(ctx context.Context, id uuid.UUID) (bool, error)
	Save(ctx context.Context, category *Category) error
	// SaveAll persists multiple categories in one transaction; used when a
	// move rewrites the paths of an entire subtree.
	SaveAll(ctx context.Context, categories []*Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}
