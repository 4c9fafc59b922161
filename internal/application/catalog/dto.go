package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// ==================== Attribute DTOs ====================

// CreateAttributeRequest represents a request to create an attribute
type CreateAttributeRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// UpdateAttributeRequest represents a request to update an attribute
type UpdateAttributeRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	IsActive *bool   `json:"is_active"`
}

// CreateAttributeValueRequest represents a request to add a value to an attribute
type CreateAttributeValueRequest struct {
	Value string `json:"value" binding:"required,min=1,max=100"`
}

// UpdateAttributeValueRequest represents a request to update an attribute value
type UpdateAttributeValueRequest struct {
	Value    *string `json:"value" binding:"omitempty,min=1,max=100"`
	IsActive *bool   `json:"is_active"`
}

// AttributeValueResponse represents an attribute value in API responses
type AttributeValueResponse struct {
	ID          uuid.UUID `json:"id"`
	AttributeID uuid.UUID `json:"attribute_id"`
	Value       string    `json:"value"`
	Slug        string    `json:"slug"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// AttributeResponse represents an attribute with its values
type AttributeResponse struct {
	ID        uuid.UUID                `json:"id"`
	Name      string                   `json:"name"`
	Slug      string                   `json:"slug"`
	IsActive  bool                     `json:"is_active"`
	Values    []AttributeValueResponse `json:"values"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// ToAttributeValueResponse converts a domain attribute value to a response DTO
func ToAttributeValueResponse(v *catalog.AttributeValue) AttributeValueResponse {
	return AttributeValueResponse{
		ID:          v.ID,
		AttributeID: v.AttributeID,
		Value:       v.Value,
		Slug:        v.Slug,
		IsActive:    v.IsActive,
		CreatedAt:   v.CreatedAt,
	}
}

// ToAttributeResponse converts a domain attribute and its values to a response DTO
func ToAttributeResponse(a *catalog.Attribute, values []catalog.AttributeValue) AttributeResponse {
	valueResponses := make([]AttributeValueResponse, 0, len(values))
	for i := range values {
		valueResponses = append(valueResponses, ToAttributeValueResponse(&values[i]))
	}
	return AttributeResponse{
		ID:        a.ID,
		Name:      a.Name,
		Slug:      a.Slug,
		IsActive:  a.IsActive,
		Values:    valueResponses,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// ==================== Category DTOs ====================

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string     `json:"name" binding:"required,min=1,max=100"`
	Description string     `json:"description" binding:"max=2000"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=2000"`
	Image       string `json:"image" binding:"max=500"`
	IsActive    *bool  `json:"is_active"`
}

// MoveCategoryRequest represents a request to re-parent a category
type MoveCategoryRequest struct {
	ParentID *uuid.UUID `json:"parent_id"`
}

// CategoryResponse represents a category node; Children is populated in
// tree responses
type CategoryResponse struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Slug        string             `json:"slug"`
	Description string             `json:"description"`
	Image       string             `json:"image,omitempty"`
	ParentID    *uuid.UUID         `json:"parent_id,omitempty"`
	Level       int                `json:"level"`
	SortOrder   int                `json:"sort_order"`
	IsActive    bool               `json:"is_active"`
	Children    []CategoryResponse `json:"children,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// ToCategoryResponse converts a domain category to a response DTO
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Image:       c.Image,
		ParentID:    c.ParentID,
		Level:       c.Level,
		SortOrder:   c.SortOrder,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
}

// ==================== Product DTOs ====================

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name        string    `json:"name" binding:"required,min=1,max=200"`
	Description string    `json:"description" binding:"max=10000"`
	Brand       string    `json:"brand" binding:"max=100"`
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
	Images      []string  `json:"images" binding:"omitempty,dive,max=500"`
	Features    []string  `json:"features" binding:"omitempty,dive,max=500"`
	Tags        []string  `json:"tags" binding:"omitempty,dive,max=50"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name        string    `json:"name" binding:"required,min=1,max=200"`
	Description string    `json:"description" binding:"max=10000"`
	Brand       string    `json:"brand" binding:"max=100"`
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
	Images      []string  `json:"images" binding:"omitempty,dive,max=500"`
	Features    []string  `json:"features" binding:"omitempty,dive,max=500"`
	Tags        []string  `json:"tags" binding:"omitempty,dive,max=50"`
}

// ProductListFilter represents filter options for product listing
type ProductListFilter struct {
	Search     string     `form:"search"`
	CategoryID *uuid.UUID `form:"category_id"`
	Brand      string     `form:"brand"`
	Tag        string     `form:"tag"`
	Published  *bool      `form:"published"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by" binding:"omitempty,oneof=created_at name"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Brand       string    `json:"brand,omitempty"`
	CategoryID  uuid.UUID `json:"category_id"`
	Images      []string  `json:"images"`
	Features    []string  `json:"features"`
	Tags        []string  `json:"tags"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductListItemResponse is the compact product shape used in listings
type ProductListItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Brand       string    `json:"brand,omitempty"`
	CategoryID  uuid.UUID `json:"category_id"`
	Image       string    `json:"image,omitempty"`
	Tags        []string  `json:"tags"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToProductResponse converts a domain product to a response DTO
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Brand:       p.Brand,
		CategoryID:  p.CategoryID,
		Images:      p.Images,
		Features:    p.Features,
		Tags:        p.Tags,
		IsPublished: p.IsPublished,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProductListItemResponse converts a domain product to its listing shape
func ToProductListItemResponse(p *catalog.Product) ProductListItemResponse {
	return ProductListItemResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Brand:       p.Brand,
		CategoryID:  p.CategoryID,
		Image:       p.PrimaryImage(),
		Tags:        p.Tags,
		IsPublished: p.IsPublished,
		CreatedAt:   p.CreatedAt,
	}
}

// ==================== Variant DTOs ====================

// VariantAttributeInput binds a variant to an attribute value on creation
type VariantAttributeInput struct {
	AttributeID uuid.UUID `json:"attribute_id" binding:"required"`
	ValueID     uuid.UUID `json:"value_id" binding:"required"`
}

// CreateVariantInput describes one variant inside a variant-set request
type CreateVariantInput struct {
	SKU        string                  `json:"sku" binding:"required,min=1,max=64,sku"`
	Price      decimal.Decimal         `json:"price" binding:"required"`
	Stock      int                     `json:"stock" binding:"min=0"`
	Attributes []VariantAttributeInput `json:"attributes" binding:"required,min=1,dive"`
}

// CreateVariantSetRequest creates a batch of variants for a product in
// one atomic operation
type CreateVariantSetRequest struct {
	Variants []CreateVariantInput `json:"variants" binding:"required,min=1,dive"`
}

// UpdateVariantRequest represents a request to update a variant. A
// non-empty Attributes list fully replaces the variant's combination.
type UpdateVariantRequest struct {
	Price      *decimal.Decimal        `json:"price"`
	Stock      *int                    `json:"stock" binding:"omitempty,min=0"`
	IsActive   *bool                   `json:"is_active"`
	Attributes []VariantAttributeInput `json:"attributes" binding:"omitempty,min=1,dive"`
}

// VariantSelectionFilter filters a product's variants by attribute values.
// A variant matches when it carries every requested value.
type VariantSelectionFilter struct {
	ValueIDs []uuid.UUID `form:"values"`
}

// VariantAttributeResponse is one attribute/value binding on a variant,
// decorated with display names
type VariantAttributeResponse struct {
	AttributeID   uuid.UUID `json:"attribute_id"`
	AttributeName string    `json:"attribute_name"`
	AttributeSlug string    `json:"attribute_slug"`
	ValueID       uuid.UUID `json:"value_id"`
	Value         string    `json:"value"`
	ValueSlug     string    `json:"value_slug"`
}

// VariantResponse represents a product variant in API responses
type VariantResponse struct {
	ID         uuid.UUID                  `json:"id"`
	ProductID  uuid.UUID                  `json:"product_id"`
	SKU        string                     `json:"sku"`
	Price      decimal.Decimal            `json:"price"`
	Stock      int                        `json:"stock"`
	InStock    bool                       `json:"in_stock"`
	IsActive   bool                       `json:"is_active"`
	Attributes []VariantAttributeResponse `json:"attributes"`
	CreatedAt  time.Time                  `json:"created_at"`
	UpdatedAt  time.Time                  `json:"updated_at"`
}
