package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
)

func makePairs(n int) []AttributePair {
	pairs := make([]AttributePair, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, AttributePair{AttributeID: uuid.New(), ValueID: uuid.New()})
	}
	return pairs
}

func TestNewProductVariant(t *testing.T) {
	productID := uuid.New()
	pairs := makePairs(2)

	v, err := NewProductVariant(productID, "shoe-blue-42", valueobject.NewMoneyUSDFromFloat(79.90), 10, pairs)

	assert.NoError(t, err)
	assert.Equal(t, "SHOE-BLUE-42", v.SKU)
	assert.Equal(t, "79.9", v.Price.String())
	assert.Equal(t, 10, v.Stock)
	assert.True(t, v.IsActive)
	assert.Len(t, v.Attributes, 2)
	for _, a := range v.Attributes {
		assert.Equal(t, v.ID, a.VariantID)
	}
}

func TestNewProductVariant_NoAttributes(t *testing.T) {
	_, err := NewProductVariant(uuid.New(), "SKU-1", valueobject.ZeroUSD(), 0, nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least one attribute")
}

func TestNewProductVariant_DuplicateAttribute(t *testing.T) {
	attrID := uuid.New()
	pairs := []AttributePair{
		{AttributeID: attrID, ValueID: uuid.New()},
		{AttributeID: attrID, ValueID: uuid.New()},
	}

	_, err := NewProductVariant(uuid.New(), "SKU-1", valueobject.ZeroUSD(), 0, pairs)

	assert.Error(t, err)
}

func TestNewProductVariant_InvalidSKU(t *testing.T) {
	_, err := NewProductVariant(uuid.New(), "bad sku!", valueobject.ZeroUSD(), 0, makePairs(1))

	assert.Error(t, err)
}

func TestNewProductVariant_NegativePrice(t *testing.T) {
	_, err := NewProductVariant(uuid.New(), "SKU-1", valueobject.NewMoneyUSDFromFloat(-1), 0, makePairs(1))

	assert.Error(t, err)
}

func TestVariantHasValues(t *testing.T) {
	pairs := makePairs(3)
	v, _ := NewProductVariant(uuid.New(), "SKU-1", valueobject.ZeroUSD(), 5, pairs)

	assert.True(t, v.HasValues([]uuid.UUID{pairs[0].ValueID}))
	assert.True(t, v.HasValues([]uuid.UUID{pairs[2].ValueID, pairs[1].ValueID}))
	assert.True(t, v.HasValues(nil))
	assert.False(t, v.HasValues([]uuid.UUID{uuid.New()}))
	assert.False(t, v.HasValues([]uuid.UUID{pairs[0].ValueID, uuid.New()}))
}

func TestVariantCombinationKey_OrderIndependent(t *testing.T) {
	pairs := makePairs(2)
	reversed := []AttributePair{pairs[1], pairs[0]}

	a, _ := NewProductVariant(uuid.New(), "SKU-A", valueobject.ZeroUSD(), 0, pairs)
	b, _ := NewProductVariant(uuid.New(), "SKU-B", valueobject.ZeroUSD(), 0, reversed)

	assert.Equal(t, a.CombinationKey(), b.CombinationKey())
}

func TestVariantInStock(t *testing.T) {
	v, _ := NewProductVariant(uuid.New(), "SKU-1", valueobject.ZeroUSD(), 3, makePairs(1))

	assert.True(t, v.InStock(3))
	assert.False(t, v.InStock(4))

	v.SetActive(false)
	assert.False(t, v.InStock(1))
}

func TestVariantUpdatePriceRounds(t *testing.T) {
	v, _ := NewProductVariant(uuid.New(), "SKU-1", valueobject.ZeroUSD(), 0, makePairs(1))

	err := v.UpdatePrice(valueobject.NewMoneyUSDFromFloat(19.999))

	assert.NoError(t, err)
	assert.Equal(t, "20", v.Price.String())
}
