package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// MaxItemQuantity caps the quantity of a single cart line
const MaxItemQuantity = 99

// CartItem is one variant line in a cart. Name and Image are display
// snapshots; PriceAtAdd is the unit price captured when the line was
// created and is never silently refreshed.
type CartItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CartID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_variant,priority:1"`
	VariantID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cart_variant,priority:2"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null"`
	Name       string          `gorm:"type:varchar(200);not null"`
	SKU        string          `gorm:"type:varchar(64);not null"`
	Image      string          `gorm:"type:varchar(500)"`
	Quantity   int             `gorm:"not null"`
	PriceAtAdd decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// Cart is a user's shopping cart. Totals are derived from the items and
// recomputed on every mutation, never stored authoritatively elsewhere.
type Cart struct {
	shared.BaseAggregateRoot
	UserID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Items         []CartItem      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	TotalQuantity int             `gorm:"not null;default:0"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// NewCart creates an empty cart for the user
func NewCart(userID uuid.UUID) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Items:             []CartItem{},
		TotalPrice:        decimal.Zero,
	}, nil
}

// AddItem adds a variant line or, when the variant is already in the
// cart, merges the quantities. The existing line keeps its original
// PriceAtAdd on merge.
func (c *Cart) AddItem(variantID, productID uuid.UUID, name, sku, image string, quantity int, unitPrice valueobject.Money) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	if variantID == uuid.Nil {
		return shared.NewDomainError("INVALID_VARIANT", "Variant ID cannot be empty")
	}

	now := time.Now()
	for i := range c.Items {
		if c.Items[i].VariantID == variantID {
			merged := c.Items[i].Quantity + quantity
			if merged > MaxItemQuantity {
				merged = MaxItemQuantity
			}
			c.Items[i].Quantity = merged
			c.Items[i].UpdatedAt = now
			c.recalculate()
			return nil
		}
	}

	c.Items = append(c.Items, CartItem{
		ID:         uuid.New(),
		CartID:     c.ID,
		VariantID:  variantID,
		ProductID:  productID,
		Name:       name,
		SKU:        sku,
		Image:      image,
		Quantity:   quantity,
		PriceAtAdd: unitPrice.Amount().Round(2),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	c.recalculate()
	return nil
}

// UpdateItem sets the absolute quantity of an existing line
func (c *Cart) UpdateItem(variantID uuid.UUID, quantity int) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	for i := range c.Items {
		if c.Items[i].VariantID == variantID {
			c.Items[i].Quantity = quantity
			c.Items[i].UpdatedAt = time.Now()
			c.recalculate()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Item is not in the cart")
}

// RemoveItem deletes a line from the cart
func (c *Cart) RemoveItem(variantID uuid.UUID) error {
	for i := range c.Items {
		if c.Items[i].VariantID == variantID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.recalculate()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Item is not in the cart")
}

// Clear removes all lines
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.recalculate()
}

// IsEmpty returns true when the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// FindItem returns the line for the given variant, or nil
func (c *Cart) FindItem(variantID uuid.UUID) *CartItem {
	for i := range c.Items {
		if c.Items[i].VariantID == variantID {
			return &c.Items[i]
		}
	}
	return nil
}

// recalculate refreshes line subtotals and the cart totals
func (c *Cart) recalculate() {
	total := decimal.Zero
	qty := 0
	for i := range c.Items {
		c.Items[i].Subtotal = c.Items[i].PriceAtAdd.Mul(decimal.NewFromInt(int64(c.Items[i].Quantity))).Round(2)
		total = total.Add(c.Items[i].Subtotal)
		qty += c.Items[i].Quantity
	}
	c.TotalPrice = total.Round(2)
	c.TotalQuantity = qty
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

func validateQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity > MaxItemQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity exceeds the per-item limit")
	}
	return nil
}
