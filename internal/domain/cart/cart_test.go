package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
)

func TestNewCart(t *testing.T) {
	userID := uuid.New()

	c, err := NewCart(userID)

	assert.NoError(t, err)
	assert.Equal(t, userID, c.UserID)
	assert.True(t, c.IsEmpty())
	assert.True(t, c.TotalPrice.IsZero())
}

func TestCartAddItem(t *testing.T) {
	c, _ := NewCart(uuid.New())
	variantID := uuid.New()

	err := c.AddItem(variantID, uuid.New(), "Shoe Blue 42", "SHOE-BLUE-42", "", 2, valueobject.NewMoneyUSDFromFloat(19.99))

	assert.NoError(t, err)
	assert.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.TotalQuantity)
	assert.Equal(t, "39.98", c.TotalPrice.StringFixed(2))
	assert.Equal(t, "39.98", c.Items[0].Subtotal.StringFixed(2))
}

func TestCartAddItem_MergesQuantity(t *testing.T) {
	c, _ := NewCart(uuid.New())
	variantID := uuid.New()

	_ = c.AddItem(variantID, uuid.New(), "Shoe", "SKU-1", "", 2, valueobject.NewMoneyUSDFromFloat(10.00))
	err := c.AddItem(variantID, uuid.New(), "Shoe", "SKU-1", "", 3, valueobject.NewMoneyUSDFromFloat(12.00))

	assert.NoError(t, err)
	assert.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
	// merged line keeps the price captured when it was first added
	assert.Equal(t, "10", c.Items[0].PriceAtAdd.String())
	assert.Equal(t, "50.00", c.TotalPrice.StringFixed(2))
}

func TestCartAddItem_InvalidQuantity(t *testing.T) {
	c, _ := NewCart(uuid.New())

	assert.Error(t, c.AddItem(uuid.New(), uuid.New(), "Shoe", "SKU-1", "", 0, valueobject.ZeroUSD()))
	assert.Error(t, c.AddItem(uuid.New(), uuid.New(), "Shoe", "SKU-1", "", MaxItemQuantity+1, valueobject.ZeroUSD()))
}

func TestCartUpdateItem(t *testing.T) {
	c, _ := NewCart(uuid.New())
	variantID := uuid.New()
	_ = c.AddItem(variantID, uuid.New(), "Shoe", "SKU-1", "", 1, valueobject.NewMoneyUSDFromFloat(5.50))

	err := c.UpdateItem(variantID, 4)

	assert.NoError(t, err)
	assert.Equal(t, 4, c.TotalQuantity)
	assert.Equal(t, "22.00", c.TotalPrice.StringFixed(2))
}

func TestCartUpdateItem_NotFound(t *testing.T) {
	c, _ := NewCart(uuid.New())

	err := c.UpdateItem(uuid.New(), 2)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not in the cart")
}

func TestCartRemoveItem(t *testing.T) {
	c, _ := NewCart(uuid.New())
	keep := uuid.New()
	drop := uuid.New()
	_ = c.AddItem(keep, uuid.New(), "Keep", "SKU-K", "", 1, valueobject.NewMoneyUSDFromFloat(1.00))
	_ = c.AddItem(drop, uuid.New(), "Drop", "SKU-D", "", 1, valueobject.NewMoneyUSDFromFloat(2.00))

	err := c.RemoveItem(drop)

	assert.NoError(t, err)
	assert.Len(t, c.Items, 1)
	assert.Equal(t, keep, c.Items[0].VariantID)
	assert.Equal(t, "1.00", c.TotalPrice.StringFixed(2))
}

func TestCartClear(t *testing.T) {
	c, _ := NewCart(uuid.New())
	_ = c.AddItem(uuid.New(), uuid.New(), "Shoe", "SKU-1", "", 3, valueobject.NewMoneyUSDFromFloat(9.99))

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.TotalQuantity)
	assert.True(t, c.TotalPrice.IsZero())
}
