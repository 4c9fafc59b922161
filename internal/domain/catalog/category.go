package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/storefront/backend/internal/domain/shared"
)

// MaxCategoryDepth limits how deep the category tree can grow
const MaxCategoryDepth = 5

// Category represents a node in the category tree. Path is the
// materialized path of ancestor IDs ("/id1/id2/"), which makes
// descendant queries and cycle checks cheap.
type Category struct {
	shared.BaseAggregateRoot
	Name        string    `gorm:"type:varchar(100);not null"`
	Slug        string    `gorm:"type:varchar(120);not null;uniqueIndex"`
	Description string    `gorm:"type:text"`
	Image       string    `gorm:"type:varchar(500)"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	Path        string    `gorm:"type:varchar(1000);not null;index"`
	Level       int       `gorm:"not null;default:0"`
	SortOrder   int       `gorm:"not null;default:0"`
	IsActive    bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a root category
func NewCategory(name, description string) (*Category, error) {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	c := &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug.Make(name),
		Description:       description,
		Level:             0,
		IsActive:          true,
	}
	c.Path = fmt.Sprintf("/%s/", c.ID)
	return c, nil
}

// NewChildCategory creates a category under the given parent
func NewChildCategory(name, description string, parent *Category) (*Category, error) {
	if parent == nil {
		return NewCategory(name, description)
	}
	if parent.Level+1 >= MaxCategoryDepth {
		return nil, shared.NewDomainError("MAX_DEPTH_EXCEEDED",
			fmt.Sprintf("Category depth cannot exceed %d levels", MaxCategoryDepth))
	}
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	parentID := parent.ID
	c := &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug.Make(name),
		Description:       description,
		ParentID:          &parentID,
		Level:             parent.Level + 1,
		IsActive:          true,
	}
	c.Path = fmt.Sprintf("%s%s/", parent.Path, c.ID)
	return c, nil
}

// Update changes the category's display fields. The slug is re-derived
// when the name changes.
func (c *Category) Update(name, description, image string) error {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return err
	}

	c.Name = name
	c.Slug = slug.Make(name)
	c.Description = description
	c.Image = image
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// MoveTo re-parents the category. Passing nil makes it a root. The move
// is rejected when the target is the category itself or one of its
// descendants, or when the resulting depth would exceed the limit.
func (c *Category) MoveTo(parent *Category) error {
	if parent == nil {
		c.ParentID = nil
		c.Level = 0
		c.Path = fmt.Sprintf("/%s/", c.ID)
		c.UpdatedAt = time.Now()
		c.IncrementVersion()
		return nil
	}
	if parent.ID == c.ID {
		return shared.NewDomainError("INVALID_PARENT", "Category cannot be its own parent")
	}
	if parent.IsDescendantOf(c) {
		return shared.NewDomainError("INVALID_PARENT", "Category cannot be moved under its own descendant")
	}
	if parent.Level+1 >= MaxCategoryDepth {
		return shared.NewDomainError("MAX_DEPTH_EXCEEDED",
			fmt.Sprintf("Category depth cannot exceed %d levels", MaxCategoryDepth))
	}

	parentID := parent.ID
	c.ParentID = &parentID
	c.Level = parent.Level + 1
	c.Path = fmt.Sprintf("%s%s/", parent.Path, c.ID)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// IsDescendantOf reports whether this category lives under other
func (c *Category) IsDescendantOf(other *Category) bool {
	if other == nil || other.ID == c.ID {
		return false
	}
	return strings.Contains(c.Path, fmt.Sprintf("/%s/", other.ID))
}

// SetActive toggles the category's active flag
func (c *Category) SetActive(active bool) {
	c.IsActive = active
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// SetSortOrder updates the sibling ordering hint
func (c *Category) SetSortOrder(order int) {
	c.SortOrder = order
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// IsRoot returns true if the category has no parent
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	return nil
}
