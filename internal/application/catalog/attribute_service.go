package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AttributeService handles attribute and attribute-value operations
type AttributeService struct {
	attributeRepo catalog.AttributeRepository
	valueRepo     catalog.AttributeValueRepository
	variantRepo   catalog.VariantRepository
	logger        *zap.Logger
}

// NewAttributeService creates a new AttributeService
func NewAttributeService(
	attributeRepo catalog.AttributeRepository,
	valueRepo catalog.AttributeValueRepository,
	variantRepo catalog.VariantRepository,
	logger *zap.Logger,
) *AttributeService {
	return &AttributeService{
		attributeRepo: attributeRepo,
		valueRepo:     valueRepo,
		variantRepo:   variantRepo,
		logger:        logger,
	}
}

// ListValues returns an attribute's values ordered by creation time. A
// Nil attribute ID returns every value across all attributes.
func (s *AttributeService) ListValues(ctx context.Context, attributeID uuid.UUID) ([]AttributeValueResponse, error) {
	values, err := s.valueRepo.FindByAttribute(ctx, attributeID)
	if err != nil {
		return nil, err
	}
	responses := make([]AttributeValueResponse, 0, len(values))
	for i := range values {
		responses = append(responses, ToAttributeValueResponse(&values[i]))
	}
	return responses, nil
}

// Create creates a new attribute
func (s *AttributeService) Create(ctx context.Context, req CreateAttributeRequest) (*AttributeResponse, error) {
	attribute, err := catalog.NewAttribute(req.Name)
	if err != nil {
		return nil, err
	}

	exists, err := s.attributeRepo.ExistsByNameOrSlug(ctx, attribute.Name, attribute.Slug, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS",
			fmt.Sprintf("Attribute %q already exists", attribute.Name))
	}

	if err := s.attributeRepo.Save(ctx, attribute); err != nil {
		return nil, err
	}

	s.logger.Info("attribute created",
		zap.String("attribute_id", attribute.ID.String()),
		zap.String("slug", attribute.Slug))

	response := ToAttributeResponse(attribute, nil)
	return &response, nil
}

// GetByID retrieves an attribute with its values
func (s *AttributeService) GetByID(ctx context.Context, id uuid.UUID) (*AttributeResponse, error) {
	attribute, err := s.attributeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	values, err := s.valueRepo.FindByAttribute(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToAttributeResponse(attribute, values)
	return &response, nil
}

// List retrieves all attributes with their values
func (s *AttributeService) List(ctx context.Context) ([]AttributeResponse, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 200
	filter.OrderBy = "name"
	filter.OrderDir = "asc"

	attributes, err := s.attributeRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	values, err := s.valueRepo.FindByAttribute(ctx, uuid.Nil)
	if err != nil {
		return nil, err
	}
	valuesByAttribute := make(map[uuid.UUID][]catalog.AttributeValue)
	for _, v := range values {
		valuesByAttribute[v.AttributeID] = append(valuesByAttribute[v.AttributeID], v)
	}

	responses := make([]AttributeResponse, 0, len(attributes))
	for i := range attributes {
		responses = append(responses, ToAttributeResponse(&attributes[i], valuesByAttribute[attributes[i].ID]))
	}
	return responses, nil
}

// Update updates an attribute's name and/or active flag
func (s *AttributeService) Update(ctx context.Context, id uuid.UUID, req UpdateAttributeRequest) (*AttributeResponse, error) {
	attribute, err := s.attributeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		exists, err := s.attributeRepo.ExistsByNameOrSlug(ctx, *req.Name, slug.Make(*req.Name), id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS",
				fmt.Sprintf("Attribute %q already exists", *req.Name))
		}
		if err := attribute.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		attribute.SetActive(*req.IsActive)
	}

	if err := s.attributeRepo.Save(ctx, attribute); err != nil {
		return nil, err
	}

	values, err := s.valueRepo.FindByAttribute(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToAttributeResponse(attribute, values)
	return &response, nil
}

// Delete removes an attribute and its values. The delete is rejected
// while any variant still references the attribute.
func (s *AttributeService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.attributeRepo.FindByID(ctx, id); err != nil {
		return err
	}

	count, err := s.variantRepo.CountByAttribute(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("ATTRIBUTE_IN_USE",
			fmt.Sprintf("Attribute is referenced by %d variant(s) and cannot be deleted", count))
	}

	return s.attributeRepo.Delete(ctx, id)
}

// AddValue adds a value to an attribute
func (s *AttributeService) AddValue(ctx context.Context, attributeID uuid.UUID, req CreateAttributeValueRequest) (*AttributeValueResponse, error) {
	if _, err := s.attributeRepo.FindByID(ctx, attributeID); err != nil {
		return nil, err
	}

	value, err := catalog.NewAttributeValue(attributeID, req.Value)
	if err != nil {
		return nil, err
	}

	exists, err := s.valueRepo.ExistsForAttribute(ctx, attributeID, value.Value, value.Slug, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS",
			fmt.Sprintf("Value %q already exists for this attribute", value.Value))
	}

	if err := s.valueRepo.Save(ctx, value); err != nil {
		return nil, err
	}

	response := ToAttributeValueResponse(value)
	return &response, nil
}

// UpdateValue updates an attribute value
func (s *AttributeService) UpdateValue(ctx context.Context, valueID uuid.UUID, req UpdateAttributeValueRequest) (*AttributeValueResponse, error) {
	value, err := s.valueRepo.FindByID(ctx, valueID)
	if err != nil {
		return nil, err
	}

	if req.Value != nil {
		exists, err := s.valueRepo.ExistsForAttribute(ctx, value.AttributeID, *req.Value, slug.Make(*req.Value), valueID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS",
				fmt.Sprintf("Value %q already exists for this attribute", *req.Value))
		}
		if err := value.UpdateValue(*req.Value); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		value.SetActive(*req.IsActive)
	}

	if err := s.valueRepo.Save(ctx, value); err != nil {
		return nil, err
	}

	response := ToAttributeValueResponse(value)
	return &response, nil
}

// DeleteValue removes an attribute value. The delete is rejected while
// any variant still references the value.
func (s *AttributeService) DeleteValue(ctx context.Context, valueID uuid.UUID) error {
	if _, err := s.valueRepo.FindByID(ctx, valueID); err != nil {
		return err
	}

	count, err := s.variantRepo.CountByValue(ctx, valueID)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("VALUE_IN_USE",
			fmt.Sprintf("Value is referenced by %d variant(s) and cannot be deleted", count))
	}

	return s.valueRepo.Delete(ctx, valueID)
}
