package wishlist

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for wishlists
type Repository interface {
	// FindByUser returns the user's wishlist with items preloaded, or nil
	// when the user has none yet.
	FindByUser(ctx context.Context, userID uuid.UUID) (*Wishlist, error)
	// Save persists the wishlist and reconciles its item rows.
	Save(ctx context.Context, w *Wishlist) error
}
