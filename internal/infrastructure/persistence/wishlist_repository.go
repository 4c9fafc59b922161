package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/wishlist"
	"gorm.io/gorm"
)

// GormWishlistRepository implements wishlist.Repository
type GormWishlistRepository struct {
	db *gorm.DB
}

// NewGormWishlistRepository creates a new wishlist repository
func NewGormWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

// FindByUser returns the user's wishlist with items preloaded, or nil
// when the user has none yet
func (r *GormWishlistRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*wishlist.Wishlist, error) {
	var w wishlist.Wishlist
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("wishlist_items.created_at ASC")
		}).
		First(&w, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

// Save persists the wishlist and reconciles its item rows
func (r *GormWishlistRepository) Save(ctx context.Context, w *wishlist.Wishlist) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(w).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, 0, len(w.Items))
		for _, item := range w.Items {
			keep = append(keep, item.ID)
		}
		cleanup := tx.Where("wishlist_id = ?", w.ID)
		if len(keep) > 0 {
			cleanup = cleanup.Where("id NOT IN ?", keep)
		}
		if err := cleanup.Delete(&wishlist.Item{}).Error; err != nil {
			return err
		}

		for i := range w.Items {
			if err := tx.Save(&w.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
