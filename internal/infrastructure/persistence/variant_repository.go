package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormVariantRepository implements catalog.VariantRepository
type GormVariantRepository struct {
	db *gorm.DB
}

// NewGormVariantRepository creates a new variant repository
func NewGormVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// FindByID finds a variant by ID with attribute bindings preloaded
func (r *GormVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductVariant, error) {
	var variant catalog.ProductVariant
	err := r.db.WithContext(ctx).Preload("Attributes").First(&variant, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindBySKU finds a variant by SKU
func (r *GormVariantRepository) FindBySKU(ctx context.Context, sku string) (*catalog.ProductVariant, error) {
	var variant catalog.ProductVariant
	err := r.db.WithContext(ctx).Preload("Attributes").First(&variant, "sku = ?", sku).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindByProduct returns the product's variants ordered by creation time
func (r *GormVariantRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductVariant, error) {
	var variants []catalog.ProductVariant
	err := r.db.WithContext(ctx).
		Preload("Attributes").
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&variants).Error
	if err != nil {
		return nil, err
	}
	return variants, nil
}

// FindByIDs loads variants by their IDs
func (r *GormVariantRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.ProductVariant, error) {
	if len(ids) == 0 {
		return []catalog.ProductVariant{}, nil
	}
	var variants []catalog.ProductVariant
	err := r.db.WithContext(ctx).
		Preload("Attributes").
		Where("id IN ?", ids).
		Find(&variants).Error
	if err != nil {
		return nil, err
	}
	return variants, nil
}

// ExistsBySKU checks for a SKU collision
func (r *GormVariantRepository) ExistsBySKU(ctx context.Context, sku string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.ProductVariant{}).Where("sku = ?", sku)
	if excludeID != uuid.Nil {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists a variant and reconciles its attribute bindings: rows
// no longer present on the aggregate are removed.
func (r *GormVariantRepository) Save(ctx context.Context, variant *catalog.ProductVariant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Attributes").Save(variant).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, 0, len(variant.Attributes))
		for _, a := range variant.Attributes {
			keep = append(keep, a.ID)
		}
		if err := tx.Where("variant_id = ? AND id NOT IN ?", variant.ID, keep).
			Delete(&catalog.VariantAttribute{}).Error; err != nil {
			return err
		}

		for i := range variant.Attributes {
			if err := tx.Save(&variant.Attributes[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveBatch inserts multiple variants atomically
func (r *GormVariantRepository) SaveBatch(ctx context.Context, variants []*catalog.ProductVariant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, variant := range variants {
			if err := tx.Create(variant).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a variant; its attribute bindings cascade
func (r *GormVariantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("variant_id = ?", id).Delete(&catalog.VariantAttribute{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.ProductVariant{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// AdjustStock applies a relative stock delta with a conditional update
// so stock never goes negative under concurrent access
func (r *GormVariantRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	result := r.db.WithContext(ctx).Model(&catalog.ProductVariant{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&catalog.ProductVariant{}).
			Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrInsufficientStock
	}
	return nil
}

// CountByAttribute reports how many variant bindings reference any value
// of the attribute
func (r *GormVariantRepository) CountByAttribute(ctx context.Context, attributeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.VariantAttribute{}).
		Where("attribute_id = ?", attributeID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountByValue reports how many variant bindings reference the value
func (r *GormVariantRepository) CountByValue(ctx context.Context, valueID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.VariantAttribute{}).
		Where("value_id = ?", valueID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountByProduct reports how many variants the product has
func (r *GormVariantRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.ProductVariant{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
