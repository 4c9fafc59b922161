package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// Cache is the byte-level cache used for variant listings. Get returns
// (nil, nil) on a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// variantCacheTTL bounds staleness for cache entries that survive a
// missed invalidation
const variantCacheTTL = time.Hour

// VariantCacheKey is the cache key for a product's variant listing.
// Exported so order-side stock mutations can invalidate the same entry.
func VariantCacheKey(productID uuid.UUID) string {
	return fmt.Sprintf("catalog:variants:%s", productID)
}

// VariantService handles product variant operations
type VariantService struct {
	variantRepo   catalog.VariantRepository
	productRepo   catalog.ProductRepository
	attributeRepo catalog.AttributeRepository
	valueRepo     catalog.AttributeValueRepository
	cache         Cache
	logger        *zap.Logger
}

// NewVariantService creates a new VariantService
func NewVariantService(
	variantRepo catalog.VariantRepository,
	productRepo catalog.ProductRepository,
	attributeRepo catalog.AttributeRepository,
	valueRepo catalog.AttributeValueRepository,
	cache Cache,
	logger *zap.Logger,
) *VariantService {
	return &VariantService{
		variantRepo:   variantRepo,
		productRepo:   productRepo,
		attributeRepo: attributeRepo,
		valueRepo:     valueRepo,
		cache:         cache,
		logger:        logger,
	}
}

// CreateSet creates a batch of variants for a product atomically. SKUs
// must be unique globally and attribute combinations unique within the
// product; if any variant fails, none are persisted.
func (s *VariantService) CreateSet(ctx context.Context, productID uuid.UUID, req CreateVariantSetRequest) ([]VariantResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	valueByID, err := s.loadReferencedValues(ctx, req)
	if err != nil {
		return nil, err
	}

	existing, err := s.variantRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	combinations := make(map[string]struct{}, len(existing))
	for i := range existing {
		combinations[existing[i].CombinationKey()] = struct{}{}
	}

	seenSKUs := make(map[string]struct{}, len(req.Variants))
	variants := make([]*catalog.ProductVariant, 0, len(req.Variants))
	for _, input := range req.Variants {
		pairs := make([]catalog.AttributePair, 0, len(input.Attributes))
		for _, attr := range input.Attributes {
			value, ok := valueByID[attr.ValueID]
			if !ok {
				return nil, shared.NewDomainError("NOT_FOUND",
					fmt.Sprintf("Attribute value %s does not exist", attr.ValueID))
			}
			if !value.BelongsTo(attr.AttributeID) {
				return nil, shared.NewDomainError("VALUE_MISMATCH",
					fmt.Sprintf("Value %q does not belong to attribute %s", value.Value, attr.AttributeID))
			}
			pairs = append(pairs, catalog.AttributePair{AttributeID: attr.AttributeID, ValueID: attr.ValueID})
		}

		variant, err := catalog.NewProductVariant(productID, input.SKU, valueobject.NewMoneyUSD(input.Price), input.Stock, pairs)
		if err != nil {
			return nil, err
		}

		if _, dup := seenSKUs[variant.SKU]; dup {
			return nil, shared.NewDomainError("ALREADY_EXISTS",
				fmt.Sprintf("SKU %q appears more than once in the request", variant.SKU))
		}
		seenSKUs[variant.SKU] = struct{}{}

		exists, err := s.variantRepo.ExistsBySKU(ctx, variant.SKU, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS",
				fmt.Sprintf("SKU %q is already in use", variant.SKU))
		}

		key := variant.CombinationKey()
		if _, dup := combinations[key]; dup {
			return nil, shared.NewDomainError("DUPLICATE_COMBINATION",
				fmt.Sprintf("Variant %q duplicates an attribute combination of this product", variant.SKU))
		}
		combinations[key] = struct{}{}

		variants = append(variants, variant)
	}

	if err := s.variantRepo.SaveBatch(ctx, variants); err != nil {
		return nil, err
	}
	s.invalidate(ctx, productID)

	s.logger.Info("variant set created",
		zap.String("product_id", productID.String()),
		zap.Int("count", len(variants)))

	created := make([]catalog.ProductVariant, 0, len(variants))
	for _, v := range variants {
		created = append(created, *v)
	}
	return s.decorate(ctx, created)
}

// ListByProduct returns a product's variants, serving from cache when
// possible
func (s *VariantService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]VariantResponse, error) {
	key := VariantCacheKey(productID)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err != nil {
			s.logger.Warn("variant cache read failed", zap.Error(err))
		} else if data != nil {
			var cached []VariantResponse
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	variants, err := s.variantRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	responses, err := s.decorate(ctx, variants)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(responses); err == nil {
			if err := s.cache.Set(ctx, key, data, variantCacheTTL); err != nil {
				s.logger.Warn("variant cache write failed", zap.Error(err))
			}
		}
	}
	return responses, nil
}

// FilterBySelection returns the product's variants carrying every one of
// the requested attribute values. An empty selection matches all
// variants.
func (s *VariantService) FilterBySelection(ctx context.Context, productID uuid.UUID, filter VariantSelectionFilter) ([]VariantResponse, error) {
	all, err := s.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(filter.ValueIDs) == 0 {
		return all, nil
	}

	matched := make([]VariantResponse, 0, len(all))
	for _, v := range all {
		owned := make(map[uuid.UUID]struct{}, len(v.Attributes))
		for _, a := range v.Attributes {
			owned[a.ValueID] = struct{}{}
		}
		ok := true
		for _, id := range filter.ValueIDs {
			if _, found := owned[id]; !found {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, v)
		}
	}
	return matched, nil
}

// GetByID retrieves a variant
func (s *VariantService) GetByID(ctx context.Context, id uuid.UUID) (*VariantResponse, error) {
	variant, err := s.variantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	responses, err := s.decorate(ctx, []catalog.ProductVariant{*variant})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// GetBySKU retrieves a variant by its SKU
func (s *VariantService) GetBySKU(ctx context.Context, sku string) (*VariantResponse, error) {
	variant, err := s.variantRepo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	responses, err := s.decorate(ctx, []catalog.ProductVariant{*variant})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// Update updates a variant's price, stock or active flag. When the
// request carries attributes they replace the combination under the
// same validation as creation.
func (s *VariantService) Update(ctx context.Context, id uuid.UUID, req UpdateVariantRequest) (*VariantResponse, error) {
	variant, err := s.variantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Price != nil {
		if err := variant.UpdatePrice(valueobject.NewMoneyUSD(*req.Price)); err != nil {
			return nil, err
		}
	}
	if req.Stock != nil {
		if err := variant.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		variant.SetActive(*req.IsActive)
	}
	if len(req.Attributes) > 0 {
		if err := s.replaceAttributes(ctx, variant, req.Attributes); err != nil {
			return nil, err
		}
	}

	if err := s.variantRepo.Save(ctx, variant); err != nil {
		return nil, err
	}
	s.invalidate(ctx, variant.ProductID)

	responses, err := s.decorate(ctx, []catalog.ProductVariant{*variant})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// Delete removes a variant
func (s *VariantService) Delete(ctx context.Context, id uuid.UUID) error {
	variant, err := s.variantRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.variantRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, variant.ProductID)
	return nil
}

// replaceAttributes validates and applies a full attribute-combination
// replacement, re-checking per-product combination uniqueness against
// the product's other variants.
func (s *VariantService) replaceAttributes(ctx context.Context, variant *catalog.ProductVariant, inputs []VariantAttributeInput) error {
	ids := make([]uuid.UUID, 0, len(inputs))
	for _, attr := range inputs {
		ids = append(ids, attr.ValueID)
	}
	values, err := s.valueRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	valueByID := make(map[uuid.UUID]catalog.AttributeValue, len(values))
	for _, v := range values {
		valueByID[v.ID] = v
	}

	pairs := make([]catalog.AttributePair, 0, len(inputs))
	for _, attr := range inputs {
		value, ok := valueByID[attr.ValueID]
		if !ok {
			return shared.NewDomainError("NOT_FOUND",
				fmt.Sprintf("Attribute value %s does not exist", attr.ValueID))
		}
		if !value.BelongsTo(attr.AttributeID) {
			return shared.NewDomainError("VALUE_MISMATCH",
				fmt.Sprintf("Value %q does not belong to attribute %s", value.Value, attr.AttributeID))
		}
		pairs = append(pairs, catalog.AttributePair{AttributeID: attr.AttributeID, ValueID: attr.ValueID})
	}

	if err := variant.ReplaceAttributes(pairs); err != nil {
		return err
	}

	siblings, err := s.variantRepo.FindByProduct(ctx, variant.ProductID)
	if err != nil {
		return err
	}
	key := variant.CombinationKey()
	for i := range siblings {
		if siblings[i].ID != variant.ID && siblings[i].CombinationKey() == key {
			return shared.NewDomainError("DUPLICATE_COMBINATION",
				fmt.Sprintf("Variant %q duplicates an attribute combination of this product", variant.SKU))
		}
	}
	return nil
}

// loadReferencedValues loads every attribute value referenced by the
// request, keyed by ID
func (s *VariantService) loadReferencedValues(ctx context.Context, req CreateVariantSetRequest) (map[uuid.UUID]catalog.AttributeValue, error) {
	idSet := make(map[uuid.UUID]struct{})
	for _, input := range req.Variants {
		for _, attr := range input.Attributes {
			idSet[attr.ValueID] = struct{}{}
		}
	}
	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	values, err := s.valueRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]catalog.AttributeValue, len(values))
	for _, v := range values {
		byID[v.ID] = v
	}
	return byID, nil
}

// decorate converts variants to responses, batch-loading the referenced
// attributes and values to resolve display names
func (s *VariantService) decorate(ctx context.Context, variants []catalog.ProductVariant) ([]VariantResponse, error) {
	valueIDSet := make(map[uuid.UUID]struct{})
	attrIDSet := make(map[uuid.UUID]struct{})
	for i := range variants {
		for _, a := range variants[i].Attributes {
			valueIDSet[a.ValueID] = struct{}{}
			attrIDSet[a.AttributeID] = struct{}{}
		}
	}
	valueIDs := make([]uuid.UUID, 0, len(valueIDSet))
	for id := range valueIDSet {
		valueIDs = append(valueIDs, id)
	}
	attrIDs := make([]uuid.UUID, 0, len(attrIDSet))
	for id := range attrIDSet {
		attrIDs = append(attrIDs, id)
	}

	values, err := s.valueRepo.FindByIDs(ctx, valueIDs)
	if err != nil {
		return nil, err
	}
	valueByID := make(map[uuid.UUID]catalog.AttributeValue, len(values))
	for _, v := range values {
		valueByID[v.ID] = v
	}

	attributes, err := s.attributeRepo.FindByIDs(ctx, attrIDs)
	if err != nil {
		return nil, err
	}
	attrByID := make(map[uuid.UUID]catalog.Attribute, len(attributes))
	for _, a := range attributes {
		attrByID[a.ID] = a
	}

	responses := make([]VariantResponse, 0, len(variants))
	for i := range variants {
		responses = append(responses, toVariantResponse(&variants[i], valueByID, attrByID))
	}
	return responses, nil
}

func toVariantResponse(v *catalog.ProductVariant, valueByID map[uuid.UUID]catalog.AttributeValue, attrByID map[uuid.UUID]catalog.Attribute) VariantResponse {
	attrs := make([]VariantAttributeResponse, 0, len(v.Attributes))
	for _, binding := range v.Attributes {
		attr := VariantAttributeResponse{
			AttributeID: binding.AttributeID,
			ValueID:     binding.ValueID,
		}
		if value, ok := valueByID[binding.ValueID]; ok {
			attr.Value = value.Value
			attr.ValueSlug = value.Slug
		}
		if attribute, ok := attrByID[binding.AttributeID]; ok {
			attr.AttributeName = attribute.Name
			attr.AttributeSlug = attribute.Slug
		}
		attrs = append(attrs, attr)
	}
	return VariantResponse{
		ID:         v.ID,
		ProductID:  v.ProductID,
		SKU:        v.SKU,
		Price:      v.Price,
		Stock:      v.Stock,
		InStock:    v.Stock > 0 && v.IsActive,
		IsActive:   v.IsActive,
		Attributes: attrs,
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
}

func (s *VariantService) invalidate(ctx context.Context, productID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, VariantCacheKey(productID)); err != nil {
		s.logger.Warn("variant cache invalidation failed",
			zap.String("product_id", productID.String()),
			zap.Error(err))
	}
}
