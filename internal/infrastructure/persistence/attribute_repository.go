package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAttributeRepository implements catalog.AttributeRepository
type GormAttributeRepository struct {
	db *gorm.DB
}

// NewGormAttributeRepository creates a new attribute repository
func NewGormAttributeRepository(db *gorm.DB) *GormAttributeRepository {
	return &GormAttributeRepository{db: db}
}

// FindByID finds an attribute by ID
func (r *GormAttributeRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Attribute, error) {
	var attribute catalog.Attribute
	err := r.db.WithContext(ctx).First(&attribute, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &attribute, nil
}

// FindByIDs loads attributes by their IDs
func (r *GormAttributeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Attribute, error) {
	if len(ids) == 0 {
		return []catalog.Attribute{}, nil
	}
	var attributes []catalog.Attribute
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&attributes).Error; err != nil {
		return nil, err
	}
	return attributes, nil
}

// FindBySlug finds an attribute by slug
func (r *GormAttributeRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Attribute, error) {
	var attribute catalog.Attribute
	err := r.db.WithContext(ctx).First(&attribute, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &attribute, nil
}

// FindAll lists attributes with pagination
func (r *GormAttributeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Attribute, error) {
	var attributes []catalog.Attribute
	query := r.db.WithContext(ctx).Model(&catalog.Attribute{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if err := applyPagination(query, filter).Find(&attributes).Error; err != nil {
		return nil, err
	}
	return attributes, nil
}

// ExistsByNameOrSlug checks for a name or slug collision
func (r *GormAttributeRepository) ExistsByNameOrSlug(ctx context.Context, name, slug string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.Attribute{}).
		Where("name = ? OR slug = ?", name, slug)
	if excludeID != uuid.Nil {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists an attribute
func (r *GormAttributeRepository) Save(ctx context.Context, attribute *catalog.Attribute) error {
	return r.db.WithContext(ctx).Save(attribute).Error
}

// Delete removes an attribute and its values
func (r *GormAttributeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attribute_id = ?", id).Delete(&catalog.AttributeValue{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.Attribute{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count returns the total number of attributes matching the filter
func (r *GormAttributeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.Attribute{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GormAttributeValueRepository implements catalog.AttributeValueRepository
type GormAttributeValueRepository struct {
	db *gorm.DB
}

// NewGormAttributeValueRepository creates a new attribute value repository
func NewGormAttributeValueRepository(db *gorm.DB) *GormAttributeValueRepository {
	return &GormAttributeValueRepository{db: db}
}

// FindByID finds an attribute value by ID
func (r *GormAttributeValueRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.AttributeValue, error) {
	var value catalog.AttributeValue
	err := r.db.WithContext(ctx).First(&value, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &value, nil
}

// FindByAttribute lists values of an attribute, or all values when
// attributeID is Nil
func (r *GormAttributeValueRepository) FindByAttribute(ctx context.Context, attributeID uuid.UUID) ([]catalog.AttributeValue, error) {
	var values []catalog.AttributeValue
	query := r.db.WithContext(ctx).Order("created_at ASC")
	if attributeID != uuid.Nil {
		query = query.Where("attribute_id = ?", attributeID)
	}
	if err := query.Find(&values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

// FindByIDs loads values by their IDs
func (r *GormAttributeValueRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.AttributeValue, error) {
	if len(ids) == 0 {
		return []catalog.AttributeValue{}, nil
	}
	var values []catalog.AttributeValue
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

// ExistsForAttribute checks for a value or slug collision inside one attribute
func (r *GormAttributeValueRepository) ExistsForAttribute(ctx context.Context, attributeID uuid.UUID, value, slug string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.AttributeValue{}).
		Where("attribute_id = ? AND (value = ? OR slug = ?)", attributeID, value, slug)
	if excludeID != uuid.Nil {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindBySlugs loads values by their slugs
func (r *GormAttributeValueRepository) FindBySlugs(ctx context.Context, slugs []string) ([]catalog.AttributeValue, error) {
	if len(slugs) == 0 {
		return []catalog.AttributeValue{}, nil
	}
	var values []catalog.AttributeValue
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

// Save persists an attribute value
func (r *GormAttributeValueRepository) Save(ctx context.Context, value *catalog.AttributeValue) error {
	return r.db.WithContext(ctx).Save(value).Error
}

// Delete removes an attribute value
func (r *GormAttributeValueRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.AttributeValue{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
