package catalog

import (
	"context"

	"github.com/google/uuid"
)

// VariantRepository defines persistence operations for product variants
type VariantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductVariant, error)
	FindBySKU(ctx context.Context, sku string) (*ProductVariant, error)
	// FindByProduct returns the product's variants with their attribute
	// bindings preloaded, ordered by creation time.
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]ProductVariant, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ProductVariant, error)
	ExistsBySKU(ctx context.Context, sku string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, variant *ProductVariant) error
	// SaveBatch inserts multiple variants atomically; used by variant-set
	// creation so a partial set is never persisted.
	SaveBatch(ctx context.Context, variants []*ProductVariant) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AdjustStock applies a relative delta with a conditional update, so
	// stock never goes negative under concurrent access. Returns
	// shared.ErrInsufficientStock when the decrement cannot be satisfied.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
	// CountByAttribute reports how many variant bindings reference any
	// value of the attribute; used to block attribute deletion.
	CountByAttribute(ctx context.Context, attributeID uuid.UUID) (int64, error)
	// CountByValue reports how many variant bindings reference the value;
	// used to block value deletion.
	CountByValue(ctx context.Context, valueID uuid.UUID) (int64, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}
