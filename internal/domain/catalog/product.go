package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/lib/pq"
	"github.com/storefront/backend/internal/domain/shared"
)

// Product is the marketing-level catalog entry. Sellable units (price,
// stock, SKU) live on its variants.
type Product struct {
	shared.BaseAggregateRoot
	Name        string         `gorm:"type:varchar(200);not null"`
	Slug        string         `gorm:"type:varchar(220);not null;uniqueIndex"`
	Description string         `gorm:"type:text"`
	Brand       string         `gorm:"type:varchar(100)"`
	CategoryID  uuid.UUID      `gorm:"type:uuid;not null;index"`
	Images      pq.StringArray `gorm:"type:text[]"`
	Features    pq.StringArray `gorm:"type:text[]"`
	Tags        pq.StringArray `gorm:"type:text[]"`
	IsPublished bool           `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates an unpublished product in the given category
func NewProduct(name, description, brand string, categoryID uuid.UUID) (*Product, error) {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Product category cannot be empty")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug.Make(name),
		Description:       description,
		Brand:             strings.TrimSpace(brand),
		CategoryID:        categoryID,
		Images:            pq.StringArray{},
		Features:          pq.StringArray{},
		Tags:              pq.StringArray{},
		IsPublished:       false,
	}, nil
}

// Update changes the product's descriptive fields. The slug is
// re-derived when the name changes.
func (p *Product) Update(name, description, brand string, categoryID uuid.UUID) error {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return err
	}
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Product category cannot be empty")
	}

	p.Name = name
	p.Slug = slug.Make(name)
	p.Description = description
	p.Brand = strings.TrimSpace(brand)
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetImages replaces the image list. The first entry is the primary image.
func (p *Product) SetImages(images []string) {
	cleaned := make(pq.StringArray, 0, len(images))
	for _, img := range images {
		if img = strings.TrimSpace(img); img != "" {
			cleaned = append(cleaned, img)
		}
	}
	p.Images = cleaned
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetFeatures replaces the feature bullet list
func (p *Product) SetFeatures(features []string) {
	cleaned := make(pq.StringArray, 0, len(features))
	for _, f := range features {
		if f = strings.TrimSpace(f); f != "" {
			cleaned = append(cleaned, f)
		}
	}
	p.Features = cleaned
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetTags replaces the tag list, lowercasing and de-duplicating entries
func (p *Product) SetTags(tags []string) {
	seen := make(map[string]struct{}, len(tags))
	cleaned := make(pq.StringArray, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		cleaned = append(cleaned, t)
	}
	p.Tags = cleaned
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// PrimaryImage returns the first image, or empty when none are set
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Publish makes the product visible in the storefront
func (p *Product) Publish() {
	p.IsPublished = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Unpublish hides the product from the storefront
func (p *Product) Unpublish() {
	p.IsPublished = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
