package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// VariantHandler handles product variant endpoints
type VariantHandler struct {
	BaseHandler
	variantService *catalogapp.VariantService
}

// NewVariantHandler creates a new VariantHandler
func NewVariantHandler(variantService *catalogapp.VariantService) *VariantHandler {
	return &VariantHandler{variantService: variantService}
}

// CreateSet godoc
// @Summary      Create a set of variants for a product
// @Description  Creates all listed variants atomically. SKUs must be unique and no two variants may share the same attribute combination.
// @Tags         variants
// @Accept       json
// @Produce      json
// @Param        productId path string true "Product ID"
// @Param        request body catalogapp.CreateVariantSetRequest true "Variant set creation request"
// @Success      201 {object} dto.Response{data=[]catalogapp.VariantResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products/{productId}/variants [post]
func (h *VariantHandler) CreateSet(productParam string) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := parseIDParam(c, productParam)
		if err != nil {
			h.BadRequest(c, "Invalid product ID")
			return
		}

		var req catalogapp.CreateVariantSetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}

		resp, err := h.variantService.CreateSet(c.Request.Context(), productID, req)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Created(c, resp)
	}
}

// ListByProduct godoc
// @Summary      List a product's variants
// @Tags         variants
// @Produce      json
// @Param        productId path string true "Product ID"
// @Success      200 {object} dto.Response{data=[]catalogapp.VariantResponse}
// @Router       /products/{productId}/variants [get]
func (h *VariantHandler) ListByProduct(productParam string) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := parseIDParam(c, productParam)
		if err != nil {
			h.BadRequest(c, "Invalid product ID")
			return
		}

		resp, err := h.variantService.ListByProduct(c.Request.Context(), productID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, resp)
	}
}

// Filter godoc
// @Summary      Filter a product's variants by attribute values
// @Description  Returns variants that carry every requested value ID.
// @Tags         variants
// @Produce      json
// @Param        productId path string true "Product ID"
// @Param        values query []string false "Attribute value IDs" collectionFormat(multi)
// @Success      200 {object} dto.Response{data=[]catalogapp.VariantResponse}
// @Router       /products/{productId}/variants/filter [get]
func (h *VariantHandler) Filter(productParam string) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := parseIDParam(c, productParam)
		if err != nil {
			h.BadRequest(c, "Invalid product ID")
			return
		}

		var req catalogapp.VariantSelectionFilter
		if err := c.ShouldBindQuery(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}

		resp, err := h.variantService.FilterBySelection(c.Request.Context(), productID, req)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, resp)
	}
}

// Update godoc
// @Summary      Update a variant's price, stock or active flag
// @Tags         variants
// @Accept       json
// @Produce      json
// @Param        id path string true "Variant ID"
// @Param        request body catalogapp.UpdateVariantRequest true "Variant update request"
// @Success      200 {object} dto.Response{data=catalogapp.VariantResponse}
// @Security     BearerAuth
// @Router       /admin/variants/{id} [put]
func (h *VariantHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid variant ID")
		return
	}

	var req catalogapp.UpdateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.variantService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @Summary      Delete a variant
// @Tags         variants
// @Param        id path string true "Variant ID"
// @Success      204
// @Security     BearerAuth
// @Router       /admin/variants/{id} [delete]
func (h *VariantHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid variant ID")
		return
	}

	if err := h.variantService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
