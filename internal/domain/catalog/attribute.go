package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/storefront/backend/internal/domain/shared"
)

// Attribute represents a named product dimension (e.g. "Color", "Size").
// Its allowed values live in AttributeValue.
type Attribute struct {
	shared.BaseAggregateRoot
	Name     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Slug     string `gorm:"type:varchar(120);not null;uniqueIndex"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Attribute) TableName() string {
	return "attributes"
}

// NewAttribute creates a new attribute, deriving its slug from the name
func NewAttribute(name string) (*Attribute, error) {
	name = strings.TrimSpace(name)
	if err := validateAttributeName(name); err != nil {
		return nil, err
	}

	return &Attribute{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug.Make(name),
		IsActive:          true,
	}, nil
}

// Rename updates the attribute name and re-derives its slug
func (a *Attribute) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateAttributeName(name); err != nil {
		return err
	}

	a.Name = name
	a.Slug = slug.Make(name)
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// SetActive toggles the attribute's active flag
func (a *Attribute) SetActive(active bool) {
	a.IsActive = active
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// AttributeValue represents one concrete value of an Attribute
// (e.g. "Blue" under "Color"). Its slug is unique within the owning
// attribute, not globally.
type AttributeValue struct {
	shared.BaseAggregateRoot
	AttributeID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_attribute_value_slug,priority:1"`
	Value       string    `gorm:"type:varchar(100);not null"`
	Slug        string    `gorm:"type:varchar(120);not null;uniqueIndex:idx_attribute_value_slug,priority:2"`
	IsActive    bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (AttributeValue) TableName() string {
	return "attribute_values"
}

// NewAttributeValue creates a new value under the given attribute
func NewAttributeValue(attributeID uuid.UUID, value string) (*AttributeValue, error) {
	if attributeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ATTRIBUTE", "Attribute ID cannot be empty")
	}
	value = strings.TrimSpace(value)
	if err := validateAttributeValue(value); err != nil {
		return nil, err
	}

	return &AttributeValue{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AttributeID:       attributeID,
		Value:             value,
		Slug:              slug.Make(value),
		IsActive:          true,
	}, nil
}

// UpdateValue changes the display value and re-derives the slug
func (v *AttributeValue) UpdateValue(value string) error {
	value = strings.TrimSpace(value)
	if err := validateAttributeValue(value); err != nil {
		return err
	}

	v.Value = value
	v.Slug = slug.Make(value)
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	return nil
}

// SetActive toggles the value's active flag
func (v *AttributeValue) SetActive(active bool) {
	v.IsActive = active
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
}

// BelongsTo returns true if this value is owned by the given attribute
func (v *AttributeValue) BelongsTo(attributeID uuid.UUID) bool {
	return v.AttributeID == attributeID
}

func validateAttributeName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Attribute name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Attribute name cannot exceed 100 characters")
	}
	return nil
}

func validateAttributeValue(value string) error {
	if value == "" {
		return shared.NewDomainError("INVALID_VALUE", "Attribute value cannot be empty")
	}
	if len(value) > 100 {
		return shared.NewDomainError("INVALID_VALUE", "Attribute value cannot exceed 100 characters")
	}
	return nil
}
