package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Repository defines persistence operations for orders
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	// FindByUser returns the user's orders, newest first, with optional
	// status filter.
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, int64, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, int64, error)
	// PlaceOrder atomically inserts the order, decrements each variant's
	// stock with a conditional update, and clears the user's cart. The
	// whole operation rolls back when any line has insufficient stock.
	PlaceOrder(ctx context.Context, o *Order, cartID uuid.UUID) error
	// Save persists status and payment changes with an optimistic
	// version check.
	Save(ctx context.Context, o *Order) error
	// SaveWithStockRestore persists the order and increments each line's
	// variant stock in the same transaction; used on cancellation.
	SaveWithStockRestore(ctx context.Context, o *Order) error
	// NextOrderNumber allocates a sequential order number for the year,
	// formatted as ORD-YYYY-NNNNN.
	NextOrderNumber(ctx context.Context) (string, error)
}
