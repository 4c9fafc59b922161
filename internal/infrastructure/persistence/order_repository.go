package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOrderRepository implements order.Repository
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by ID with items preloaded
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByOrderNumber finds an order by its order number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	var o order.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&o, "order_number = ?", orderNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByUser returns the user's orders, newest first
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Order, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&order.Order{}), filter).
		Where("user_id = ?", userID)
	return r.paginate(query, filter)
}

// FindAll lists all orders with pagination
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&order.Order{}), filter)
	return r.paginate(query, filter)
}

// PlaceOrder atomically inserts the order, decrements each line's
// variant stock with a conditional update, and clears the cart. Any
// line that cannot be satisfied rolls back the whole transaction.
func (r *GormOrderRepository) PlaceOrder(ctx context.Context, o *order.Order, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			return err
		}

		for _, item := range o.Items {
			result := tx.Model(&catalog.ProductVariant{}).
				Where("id = ? AND stock >= ?", item.VariantID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				var available int
				if err := tx.Model(&catalog.ProductVariant{}).
					Where("id = ?", item.VariantID).
					Select("stock").Scan(&available).Error; err != nil {
					return err
				}
				return shared.NewInsufficientStockError(item.SKU, available, item.Quantity)
			}
		}

		if cartID != uuid.Nil {
			if err := tx.Where("cart_id = ?", cartID).Delete(&cart.CartItem{}).Error; err != nil {
				return err
			}
			if err := tx.Model(&cart.Cart{}).Where("id = ?", cartID).
				Updates(map[string]interface{}{
					"total_quantity": 0,
					"total_price":    0,
					"updated_at":     time.Now(),
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Save persists status and payment changes with an optimistic version
// check: the row must still carry the version the aggregate was loaded
// at, and the write advances it.
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	result := r.db.WithContext(ctx).Model(&order.Order{}).
		Where("id = ? AND version = ?", o.ID, o.Version).
		Updates(map[string]interface{}{
			"status":         o.Status,
			"payment_status": o.PaymentStatus,
			"transaction_id": o.TransactionID,
			"confirmed_at":   o.ConfirmedAt,
			"shipped_at":     o.ShippedAt,
			"delivered_at":   o.DeliveredAt,
			"cancelled_at":   o.CancelledAt,
			"cancel_reason":  o.CancelReason,
			"updated_at":     o.UpdatedAt,
			"version":        o.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrency
	}
	o.IncrementVersion()
	return nil
}

// SaveWithStockRestore persists the order and restores each line's
// stock in the same transaction
func (r *GormOrderRepository) SaveWithStockRestore(ctx context.Context, o *order.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&order.Order{}).
			Where("id = ? AND version = ?", o.ID, o.Version).
			Updates(map[string]interface{}{
				"status":         o.Status,
				"payment_status": o.PaymentStatus,
				"cancelled_at":   o.CancelledAt,
				"cancel_reason":  o.CancelReason,
				"updated_at":     o.UpdatedAt,
				"version":        o.Version + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrency
		}

		for _, item := range o.Items {
			if err := tx.Model(&catalog.ProductVariant{}).
				Where("id = ?", item.VariantID).
				UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	o.IncrementVersion()
	return nil
}

// NextOrderNumber allocates an order number from a database sequence,
// formatted as ORD-YYYY-NNNNN. The sequence keeps concurrent checkouts
// from colliding; numbers run on across year boundaries.
func (r *GormOrderRepository) NextOrderNumber(ctx context.Context) (string, error) {
	var seq int64
	err := r.db.WithContext(ctx).
		Raw("SELECT nextval('order_number_seq')").
		Scan(&seq).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%d-%05d", time.Now().Year(), seq), nil
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if paymentStatus, ok := filter.Filters["payment_status"].(string); ok && paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}
	if filter.Search != "" {
		query = query.Where("order_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

func (r *GormOrderRepository) paginate(query *gorm.DB, filter shared.Filter) ([]order.Order, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []order.Order
	if err := applyPagination(query, filter).Preload("Items").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
