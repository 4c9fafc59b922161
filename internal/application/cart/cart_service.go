package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Service handles shopping cart operations
type Service struct {
	cartRepo    cart.Repository
	variantRepo catalog.VariantRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewService creates a new cart Service
func NewService(
	cartRepo cart.Repository,
	variantRepo catalog.VariantRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		cartRepo:    cartRepo,
		variantRepo: variantRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// Get returns the user's cart, creating an empty one on first access
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*Response, error) {
	c, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToResponse(c)
	return &response, nil
}

// AddItem adds a variant to the cart, merging quantities when the
// variant is already present. The merged quantity must be coverable by
// the variant's current stock.
func (s *Service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*Response, error) {
	variant, err := s.variantRepo.FindByID(ctx, req.VariantID)
	if err != nil {
		return nil, err
	}
	if !variant.IsActive {
		return nil, shared.NewDomainError("VARIANT_UNAVAILABLE", "This variant is no longer available")
	}

	product, err := s.productRepo.FindByID(ctx, variant.ProductID)
	if err != nil {
		return nil, err
	}

	c, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	requested := req.Quantity
	if existing := c.FindItem(variant.ID); existing != nil {
		requested += existing.Quantity
	}
	if variant.Stock < requested {
		return nil, shared.NewInsufficientStockError(variant.SKU, variant.Stock, requested)
	}

	if err := c.AddItem(variant.ID, product.ID, product.Name, variant.SKU, product.PrimaryImage(),
		req.Quantity, variant.UnitPrice()); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToResponse(c)
	return &response, nil
}

// UpdateItem sets the absolute quantity of a cart line. Stock is not
// checked here; availability is validated at checkout.
func (s *Service) UpdateItem(ctx context.Context, userID, variantID uuid.UUID, req UpdateItemRequest) (*Response, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := c.UpdateItem(variantID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToResponse(c)
	return &response, nil
}

// RemoveItem deletes a line from the cart
func (s *Service) RemoveItem(ctx context.Context, userID, variantID uuid.UUID) (*Response, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := c.RemoveItem(variantID); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToResponse(c)
	return &response, nil
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) (*Response, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.Clear()
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToResponse(c)
	return &response, nil
}

// Sync merges a guest cart into the user's server-side cart after
// login. Lines with malformed variant IDs, unknown variants or invalid
// quantities are dropped silently; valid lines are merged with the
// usual quantity rules, capped at available stock.
func (s *Service) Sync(ctx context.Context, userID uuid.UUID, req SyncRequest) (*Response, error) {
	c, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	dropped := 0
	for _, line := range req.Items {
		variantID, err := uuid.Parse(line.VariantID)
		if err != nil || line.Quantity <= 0 || line.Quantity > cart.MaxItemQuantity {
			dropped++
			continue
		}
		variant, err := s.variantRepo.FindByID(ctx, variantID)
		if err != nil {
			dropped++
			continue
		}
		if !variant.IsActive || variant.Stock == 0 {
			dropped++
			continue
		}
		product, err := s.productRepo.FindByID(ctx, variant.ProductID)
		if err != nil {
			dropped++
			continue
		}

		quantity := line.Quantity
		merged := quantity
		if existing := c.FindItem(variant.ID); existing != nil {
			merged += existing.Quantity
		}
		if merged > variant.Stock {
			quantity -= merged - variant.Stock
		}
		if quantity <= 0 {
			dropped++
			continue
		}

		if err := c.AddItem(variant.ID, product.ID, product.Name, variant.SKU, product.PrimaryImage(),
			quantity, variant.UnitPrice()); err != nil {
			dropped++
			continue
		}
	}

	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	if dropped > 0 {
		s.logger.Info("guest cart lines dropped during sync",
			zap.String("user_id", userID.String()),
			zap.Int("dropped", dropped))
	}

	response := ToResponse(c)
	return &response, nil
}

func (s *Service) load(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Cart is empty")
	}
	return c, nil
}

func (s *Service) loadOrCreate(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c, err = cart.NewCart(userID)
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}
