package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for carts
type Repository interface {
	// FindByUser returns the user's cart with items preloaded, or nil
	// when the user has no cart yet.
	FindByUser(ctx context.Context, userID uuid.UUID) (*Cart, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)
	// Save persists the cart and reconciles its item rows: new lines are
	// inserted, changed lines updated, removed lines deleted.
	Save(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, id uuid.UUID) error
}
