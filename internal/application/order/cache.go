package order

import (
	"context"

	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"go.uber.org/zap"
)

// VariantCache invalidates cached variant listings. Checkout, cancel and
// refund all move stock, so they must bust the catalog's cached bundles
// for every product the order touches.
type VariantCache interface {
	Delete(ctx context.Context, key string) error
}

// invalidateVariantCache drops the cached variant listing of each
// product on the order. Failures are logged, not returned; the cache
// entry's TTL bounds the staleness window.
func invalidateVariantCache(ctx context.Context, cache VariantCache, logger *zap.Logger, o *order.Order) {
	if cache == nil {
		return
	}
	seen := make(map[uuid.UUID]struct{}, len(o.Items))
	for _, item := range o.Items {
		if _, dup := seen[item.ProductID]; dup {
			continue
		}
		seen[item.ProductID] = struct{}{}
		if err := cache.Delete(ctx, catalogapp.VariantCacheKey(item.ProductID)); err != nil {
			logger.Warn("variant cache invalidation failed",
				zap.String("order_number", o.OrderNumber),
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err))
		}
	}
}
