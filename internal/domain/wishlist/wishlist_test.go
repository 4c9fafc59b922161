package wishlist

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestWishlistAddProduct(t *testing.T) {
	w, err := NewWishlist(uuid.New())
	assert.NoError(t, err)
	productID := uuid.New()

	assert.NoError(t, w.AddProduct(productID))
	assert.True(t, w.Contains(productID))
	assert.Len(t, w.Items, 1)

	// adding the same product again is a no-op
	assert.NoError(t, w.AddProduct(productID))
	assert.Len(t, w.Items, 1)
}

func TestWishlistRemoveProduct(t *testing.T) {
	w, _ := NewWishlist(uuid.New())
	productID := uuid.New()
	_ = w.AddProduct(productID)

	assert.NoError(t, w.RemoveProduct(productID))
	assert.False(t, w.Contains(productID))

	err := w.RemoveProduct(productID)
	assert.Error(t, err)
}
