package catalog

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

var skuPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]*$`)

// VariantAttribute binds a variant to one attribute/value pair.
// A variant carries at most one value per attribute.
type VariantAttribute struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	VariantID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_variant_attribute,priority:1"`
	AttributeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_variant_attribute,priority:2"`
	ValueID     uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time
}

// TableName returns the table name for GORM
func (VariantAttribute) TableName() string {
	return "variant_attributes"
}

// AttributePair is the input form of a variant's attribute binding
type AttributePair struct {
	AttributeID uuid.UUID
	ValueID     uuid.UUID
}

// ProductVariant is the sellable unit of a product: a unique SKU with
// its own price, stock and attribute combination.
type ProductVariant struct {
	shared.BaseAggregateRoot
	ProductID  uuid.UUID          `gorm:"type:uuid;not null;index"`
	SKU        string             `gorm:"type:varchar(64);not null;uniqueIndex"`
	Price      decimal.Decimal    `gorm:"type:decimal(12,2);not null"`
	Stock      int                `gorm:"not null;default:0"`
	IsActive   bool               `gorm:"not null;default:true"`
	Attributes []VariantAttribute `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ProductVariant) TableName() string {
	return "product_variants"
}

// NewProductVariant creates a variant for the given product. The pairs
// must be non-empty and reference each attribute at most once; the
// check that each value actually belongs to its attribute is done at
// the application layer, where the values are loaded.
func NewProductVariant(productID uuid.UUID, sku string, price valueobject.Money, stock int, pairs []AttributePair) (*ProductVariant, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	sku = normalizeSKU(sku)
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Variant price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Variant stock cannot be negative")
	}
	if len(pairs) == 0 {
		return nil, shared.NewDomainError("INVALID_ATTRIBUTES", "Variant must have at least one attribute value")
	}

	seen := make(map[uuid.UUID]struct{}, len(pairs))
	attrs := make([]VariantAttribute, 0, len(pairs))
	v := &ProductVariant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		SKU:               sku,
		Price:             price.Amount().Round(2),
		Stock:             stock,
		IsActive:          true,
	}
	for _, p := range pairs {
		if p.AttributeID == uuid.Nil || p.ValueID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_ATTRIBUTES", "Attribute and value IDs cannot be empty")
		}
		if _, dup := seen[p.AttributeID]; dup {
			return nil, shared.NewDomainError("DUPLICATE_ATTRIBUTE", "Variant references the same attribute more than once")
		}
		seen[p.AttributeID] = struct{}{}
		attrs = append(attrs, VariantAttribute{
			ID:          uuid.New(),
			VariantID:   v.ID,
			AttributeID: p.AttributeID,
			ValueID:     p.ValueID,
			CreatedAt:   time.Now(),
		})
	}
	v.Attributes = attrs
	return v, nil
}

// UpdatePrice sets a new price, rounded to cents
func (v *ProductVariant) UpdatePrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Variant price cannot be negative")
	}
	v.Price = price.Amount().Round(2)
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	return nil
}

// SetStock replaces the absolute stock level
func (v *ProductVariant) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Variant stock cannot be negative")
	}
	v.Stock = stock
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	return nil
}

// SetActive toggles the variant's active flag
func (v *ProductVariant) SetActive(active bool) {
	v.IsActive = active
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
}

// ReplaceAttributes swaps the variant's attribute combination for a new
// one, under the same rules as creation
func (v *ProductVariant) ReplaceAttributes(pairs []AttributePair) error {
	if len(pairs) == 0 {
		return shared.NewDomainError("INVALID_ATTRIBUTES", "Variant must have at least one attribute value")
	}
	seen := make(map[uuid.UUID]struct{}, len(pairs))
	attrs := make([]VariantAttribute, 0, len(pairs))
	for _, p := range pairs {
		if p.AttributeID == uuid.Nil || p.ValueID == uuid.Nil {
			return shared.NewDomainError("INVALID_ATTRIBUTES", "Attribute and value IDs cannot be empty")
		}
		if _, dup := seen[p.AttributeID]; dup {
			return shared.NewDomainError("DUPLICATE_ATTRIBUTE", "Variant references the same attribute more than once")
		}
		seen[p.AttributeID] = struct{}{}
		attrs = append(attrs, VariantAttribute{
			ID:          uuid.New(),
			VariantID:   v.ID,
			AttributeID: p.AttributeID,
			ValueID:     p.ValueID,
			CreatedAt:   time.Now(),
		})
	}
	v.Attributes = attrs
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	return nil
}

// InStock reports whether the requested quantity is available
func (v *ProductVariant) InStock(quantity int) bool {
	return v.IsActive && v.Stock >= quantity
}

// ValueIDs returns the variant's attribute value IDs
func (v *ProductVariant) ValueIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(v.Attributes))
	for _, a := range v.Attributes {
		ids = append(ids, a.ValueID)
	}
	return ids
}

// HasValues reports whether the variant carries every one of the given
// value IDs. A variant may carry more values than asked for.
func (v *ProductVariant) HasValues(valueIDs []uuid.UUID) bool {
	owned := make(map[uuid.UUID]struct{}, len(v.Attributes))
	for _, a := range v.Attributes {
		owned[a.ValueID] = struct{}{}
	}
	for _, id := range valueIDs {
		if _, ok := owned[id]; !ok {
			return false
		}
	}
	return true
}

// CombinationKey returns a canonical key for the variant's attribute
// combination, used to enforce per-product uniqueness.
func (v *ProductVariant) CombinationKey() string {
	ids := make([]string, 0, len(v.Attributes))
	for _, a := range v.Attributes {
		ids = append(ids, a.ValueID.String())
	}
	sort.Strings(ids)
	return strings.Join(ids, "|")
}

// UnitPrice returns the variant price as Money
func (v *ProductVariant) UnitPrice() valueobject.Money {
	return valueobject.NewMoneyUSD(v.Price)
}

func normalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 64 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 64 characters")
	}
	if !skuPattern.MatchString(sku) {
		return shared.NewDomainError("INVALID_SKU", "SKU may only contain letters, digits, hyphens and underscores")
	}
	return nil
}
