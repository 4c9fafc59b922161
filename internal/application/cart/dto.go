package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
)

// AddItemRequest represents a request to add a variant to the cart
type AddItemRequest struct {
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=99"`
}

// UpdateItemRequest represents a request to set an item's quantity
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=99"`
}

// SyncItemInput is one line of a guest cart being synced after login.
// VariantID arrives as a string because guest storage is untrusted;
// lines that do not parse as UUIDs are dropped silently.
type SyncItemInput struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// SyncRequest merges a guest cart into the user's server-side cart
type SyncRequest struct {
	Items []SyncItemInput `json:"items" binding:"required"`
}

// ItemResponse represents a cart line in API responses
type ItemResponse struct {
	VariantID  uuid.UUID       `json:"variant_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	Image      string          `json:"image,omitempty"`
	Quantity   int             `json:"quantity"`
	PriceAtAdd decimal.Decimal `json:"price_at_add"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	AddedAt    time.Time       `json:"added_at"`
}

// Response represents the cart in API responses
type Response struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Items         []ItemResponse  `json:"items"`
	TotalQuantity int             `json:"total_quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToResponse converts a domain cart to a response DTO
func ToResponse(c *cart.Cart) Response {
	items := make([]ItemResponse, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, ItemResponse{
			VariantID:  item.VariantID,
			ProductID:  item.ProductID,
			Name:       item.Name,
			SKU:        item.SKU,
			Image:      item.Image,
			Quantity:   item.Quantity,
			PriceAtAdd: item.PriceAtAdd,
			Subtotal:   item.Subtotal,
			AddedAt:    item.CreatedAt,
		})
	}
	return Response{
		ID:            c.ID,
		UserID:        c.UserID,
		Items:         items,
		TotalQuantity: c.TotalQuantity,
		TotalPrice:    c.TotalPrice,
		UpdatedAt:     c.UpdatedAt,
	}
}
