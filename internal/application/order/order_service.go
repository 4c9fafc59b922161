package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Service handles order queries and lifecycle operations
type Service struct {
	orderRepo order.Repository
	cache     VariantCache
	logger    *zap.Logger
}

// NewService creates a new order Service
func NewService(orderRepo order.Repository, cache VariantCache, logger *zap.Logger) *Service {
	return &Service{
		orderRepo: orderRepo,
		cache:     cache,
		logger:    logger,
	}
}

// GetForUser retrieves an order, enforcing ownership
func (s *Service) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*Response, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, shared.ErrForbidden
	}
	response := ToResponse(o)
	return &response, nil
}

// GetByID retrieves an order without an ownership check; admin only
func (s *Service) GetByID(ctx context.Context, orderID uuid.UUID) (*Response, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToResponse(o)
	return &response, nil
}

// ListForUser retrieves the user's orders, newest first
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, req ListFilter) (shared.Paginated[ListItemResponse], error) {
	filter := buildFilter(req)
	orders, total, err := s.orderRepo.FindByUser(ctx, userID, filter)
	if err != nil {
		return shared.Paginated[ListItemResponse]{Items: []ListItemResponse{}}, err
	}
	return paginate(orders, total, filter), nil
}

// List retrieves all orders; admin only
func (s *Service) List(ctx context.Context, req ListFilter) (shared.Paginated[ListItemResponse], error) {
	filter := buildFilter(req)
	orders, total, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ListItemResponse]{Items: []ListItemResponse{}}, err
	}
	return paginate(orders, total, filter), nil
}

// UpdateStatus advances an order's fulfillment status; admin only
func (s *Service) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*Response, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch req.Status {
	case order.StatusConfirmed:
		err = o.Confirm()
	case order.StatusShipped:
		err = o.Ship()
	case order.StatusDelivered:
		err = o.Deliver()
	default:
		err = shared.NewDomainError("INVALID_STATE", "Unsupported status transition")
	}
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("order status updated",
		zap.String("order_number", o.OrderNumber),
		zap.String("status", string(o.Status)))

	response := ToResponse(o)
	return &response, nil
}

// Cancel cancels the user's order before shipment
func (s *Service) Cancel(ctx context.Context, userID, orderID uuid.UUID, req CancelRequest) (*Response, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, shared.ErrForbidden
	}
	return s.cancel(ctx, o, req.Reason)
}

// CancelByAdmin cancels any order regardless of ownership; admin only
func (s *Service) CancelByAdmin(ctx context.Context, orderID uuid.UUID, req CancelRequest) (*Response, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, o, req.Reason)
}

// cancel applies the cancellation: reserved stock is restored in the
// same transaction, and payment status moves to refunded when the order
// was paid, failed otherwise.
func (s *Service) cancel(ctx context.Context, o *order.Order, reason string) (*Response, error) {
	wasPaid := o.IsPaid()
	if err := o.Cancel(reason); err != nil {
		return nil, err
	}
	if wasPaid {
		if err := o.Refund(); err != nil {
			return nil, err
		}
	} else if o.PaymentStatus != order.PaymentFailed {
		if err := o.MarkPaymentFailed(); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.SaveWithStockRestore(ctx, o); err != nil {
		return nil, err
	}
	invalidateVariantCache(ctx, s.cache, s.logger, o)

	s.logger.Info("order cancelled",
		zap.String("order_number", o.OrderNumber),
		zap.Bool("refunded", wasPaid))

	response := ToResponse(o)
	return &response, nil
}

func buildFilter(req ListFilter) shared.Filter {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.Status != nil {
		filter.Filters["status"] = string(*req.Status)
	}
	if req.PaymentStatus != nil {
		filter.Filters["payment_status"] = string(*req.PaymentStatus)
	}
	return filter
}

func paginate(orders []order.Order, total int64, filter shared.Filter) shared.Paginated[ListItemResponse] {
	items := make([]ListItemResponse, 0, len(orders))
	for i := range orders {
		items = append(items, ToListItemResponse(&orders[i]))
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize)
}
