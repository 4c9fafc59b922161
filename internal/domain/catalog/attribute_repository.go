package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// AttributeRepository defines persistence operations for attributes
type AttributeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Attribute, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Attribute, error)
	FindBySlug(ctx context.Context, slug string) (*Attribute, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Attribute, error)
	// ExistsByNameOrSlug reports whether another attribute already uses the
	// given name or slug. excludeID is ignored when uuid.Nil.
	ExistsByNameOrSlug(ctx context.Context, name, slug string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, attribute *Attribute) error
	// Delete removes the attribute and all of its values
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// AttributeValueRepository defines persistence operations for attribute values
type AttributeValueRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AttributeValue, error)
	// FindByAttribute lists values ordered by creation time. A Nil
	// attributeID returns all values across all attributes.
	FindByAttribute(ctx context.Context, attributeID uuid.UUID) ([]AttributeValue, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]AttributeValue, error)
	// ExistsForAttribute reports whether the attribute already has a value
	// with the given display value or slug. excludeID is ignored when uuid.Nil.
	ExistsForAttribute(ctx context.Context, attributeID uuid.UUID, value, slug string, excludeID uuid.UUID) (bool, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]AttributeValue, error)
	Save(ctx context.Context, value *AttributeValue) error
	Delete(ctx context.Context, id uuid.UUID) error
}
