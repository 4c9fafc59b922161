package wishlist

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Item is one saved product in a wishlist
type Item struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	WishlistID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_product,priority:1"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_product,priority:2"`
	CreatedAt  time.Time
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "wishlist_items"
}

// Wishlist holds the products a user has saved for later
type Wishlist struct {
	shared.BaseAggregateRoot
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Items  []Item    `gorm:"foreignKey:WishlistID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Wishlist) TableName() string {
	return "wishlists"
}

// NewWishlist creates an empty wishlist for the user
func NewWishlist(userID uuid.UUID) (*Wishlist, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	return &Wishlist{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Items:             []Item{},
	}, nil
}

// AddProduct saves a product. Adding a product that is already saved is
// a no-op.
func (w *Wishlist) AddProduct(productID uuid.UUID) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if w.Contains(productID) {
		return nil
	}
	w.Items = append(w.Items, Item{
		ID:         uuid.New(),
		WishlistID: w.ID,
		ProductID:  productID,
		CreatedAt:  time.Now(),
	})
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
	return nil
}

// RemoveProduct drops a saved product
func (w *Wishlist) RemoveProduct(productID uuid.UUID) error {
	for i := range w.Items {
		if w.Items[i].ProductID == productID {
			w.Items = append(w.Items[:i], w.Items[i+1:]...)
			w.UpdatedAt = time.Now()
			w.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Product is not in the wishlist")
}

// Contains reports whether the product is saved
func (w *Wishlist) Contains(productID uuid.UUID) bool {
	for _, item := range w.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}
