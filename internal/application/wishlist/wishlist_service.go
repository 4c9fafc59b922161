package wishlist

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/wishlist"
	"go.uber.org/zap"
)

// ItemResponse represents a saved product in API responses
type ItemResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Image     string    `json:"image,omitempty"`
	SavedAt   time.Time `json:"saved_at"`
}

// Response represents a wishlist in API responses
type Response struct {
	ID     uuid.UUID      `json:"id"`
	UserID uuid.UUID      `json:"user_id"`
	Items  []ItemResponse `json:"items"`
}

// AddRequest represents a request to save a product
type AddRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

// Service handles wishlist operations
type Service struct {
	wishlistRepo wishlist.Repository
	productRepo  catalog.ProductRepository
	logger       *zap.Logger
}

// NewService creates a new wishlist Service
func NewService(wishlistRepo wishlist.Repository, productRepo catalog.ProductRepository, logger *zap.Logger) *Service {
	return &Service{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

// Get returns the user's wishlist with product display data. Products
// deleted since they were saved are omitted.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*Response, error) {
	w, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(w.Items))
	for _, item := range w.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	productByID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		productByID[products[i].ID] = &products[i]
	}

	items := make([]ItemResponse, 0, len(w.Items))
	for _, item := range w.Items {
		product, ok := productByID[item.ProductID]
		if !ok {
			continue
		}
		items = append(items, ItemResponse{
			ProductID: product.ID,
			Name:      product.Name,
			Slug:      product.Slug,
			Image:     product.PrimaryImage(),
			SavedAt:   item.CreatedAt,
		})
	}
	return &Response{ID: w.ID, UserID: w.UserID, Items: items}, nil
}

// Add saves a product to the wishlist; saving twice is a no-op
func (s *Service) Add(ctx context.Context, userID uuid.UUID, req AddRequest) (*Response, error) {
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, err
	}

	w, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := w.AddProduct(req.ProductID); err != nil {
		return nil, err
	}
	if err := s.wishlistRepo.Save(ctx, w); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// Remove drops a saved product
func (s *Service) Remove(ctx context.Context, userID, productID uuid.UUID) (*Response, error) {
	w, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := w.RemoveProduct(productID); err != nil {
		return nil, err
	}
	if err := s.wishlistRepo.Save(ctx, w); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *Service) loadOrCreate(ctx context.Context, userID uuid.UUID) (*wishlist.Wishlist, error) {
	w, err := s.wishlistRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w, err = wishlist.NewWishlist(userID)
		if err != nil {
			return nil, err
		}
	}
	return w, nil
}
