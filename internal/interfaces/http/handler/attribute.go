package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// AttributeHandler handles attribute management endpoints
type AttributeHandler struct {
	BaseHandler
	attributeService *catalogapp.AttributeService
}

// NewAttributeHandler creates a new AttributeHandler
func NewAttributeHandler(attributeService *catalogapp.AttributeService) *AttributeHandler {
	return &AttributeHandler{attributeService: attributeService}
}

// Create godoc
// @Summary      Create an attribute
// @Tags         attributes
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateAttributeRequest true "Attribute creation request"
// @Success      201 {object} dto.Response{data=catalogapp.AttributeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/attributes [post]
func (h *AttributeHandler) Create(c *gin.Context) {
	var req catalogapp.CreateAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.attributeService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @Summary      List attributes with their values
// @Tags         attributes
// @Produce      json
// @Success      200 {object} dto.Response{data=[]catalogapp.AttributeResponse}
// @Router       /attributes [get]
func (h *AttributeHandler) List(c *gin.Context) {
	resp, err := h.attributeService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListValues godoc
// @Summary      List attribute values
// @Description  Returns values ordered by creation time. Without the attribute query parameter, values of every attribute are returned.
// @Tags         attributes
// @Produce      json
// @Param        attribute query string false "Attribute ID"
// @Success      200 {object} dto.Response{data=[]catalogapp.AttributeValueResponse}
// @Router       /attribute-values [get]
func (h *AttributeHandler) ListValues(c *gin.Context) {
	attributeID := uuid.Nil
	if raw := c.Query("attribute"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid attribute ID")
			return
		}
		attributeID = parsed
	}

	resp, err := h.attributeService.ListValues(c.Request.Context(), attributeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get godoc
// @Summary      Get an attribute by ID
// @Tags         attributes
// @Produce      json
// @Param        id path string true "Attribute ID"
// @Success      200 {object} dto.Response{data=catalogapp.AttributeResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /attributes/{id} [get]
func (h *AttributeHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid attribute ID")
		return
	}

	resp, err := h.attributeService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update godoc
// @Summary      Update an attribute
// @Tags         attributes
// @Accept       json
// @Produce      json
// @Param        id path string true "Attribute ID"
// @Param        request body catalogapp.UpdateAttributeRequest true "Attribute update request"
// @Success      200 {object} dto.Response{data=catalogapp.AttributeResponse}
// @Security     BearerAuth
// @Router       /admin/attributes/{id} [put]
func (h *AttributeHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid attribute ID")
		return
	}

	var req catalogapp.UpdateAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.attributeService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @Summary      Delete an attribute not referenced by any variant
// @Tags         attributes
// @Param        id path string true "Attribute ID"
// @Success      204
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/attributes/{id} [delete]
func (h *AttributeHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid attribute ID")
		return
	}

	if err := h.attributeService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddValue godoc
// @Summary      Add a value to an attribute
// @Tags         attributes
// @Accept       json
// @Produce      json
// @Param        id path string true "Attribute ID"
// @Param        request body catalogapp.CreateAttributeValueRequest true "Value creation request"
// @Success      201 {object} dto.Response{data=catalogapp.AttributeValueResponse}
// @Security     BearerAuth
// @Router       /admin/attributes/{id}/values [post]
func (h *AttributeHandler) AddValue(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid attribute ID")
		return
	}

	var req catalogapp.CreateAttributeValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.attributeService.AddValue(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateValue godoc
// @Summary      Update an attribute value
// @Tags         attributes
// @Accept       json
// @Produce      json
// @Param        valueId path string true "Value ID"
// @Param        request body catalogapp.UpdateAttributeValueRequest true "Value update request"
// @Success      200 {object} dto.Response{data=catalogapp.AttributeValueResponse}
// @Security     BearerAuth
// @Router       /admin/attribute-values/{valueId} [put]
func (h *AttributeHandler) UpdateValue(c *gin.Context) {
	valueID, err := parseIDParam(c, "valueId")
	if err != nil {
		h.BadRequest(c, "Invalid value ID")
		return
	}

	var req catalogapp.UpdateAttributeValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.attributeService.UpdateValue(c.Request.Context(), valueID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteValue godoc
// @Summary      Delete a value not referenced by any variant
// @Tags         attributes
// @Param        valueId path string true "Value ID"
// @Success      204
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/attribute-values/{valueId} [delete]
func (h *AttributeHandler) DeleteValue(c *gin.Context) {
	valueID, err := parseIDParam(c, "valueId")
	if err != nil {
		h.BadRequest(c, "Invalid value ID")
		return
	}

	if err := h.attributeService.DeleteValue(c.Request.Context(), valueID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
