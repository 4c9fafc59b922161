package handler

import (
	"github.com/gin-gonic/gin"
	wishlistapp "github.com/storefront/backend/internal/application/wishlist"
)

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	BaseHandler
	wishlistService *wishlistapp.Service
}

// NewWishlistHandler creates a new WishlistHandler
func NewWishlistHandler(wishlistService *wishlistapp.Service) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

// Get godoc
// @Summary      Get the current user's wishlist
// @Description  Products deleted from the catalog are omitted from the response.
// @Tags         wishlist
// @Produce      json
// @Success      200 {object} dto.Response{data=wishlistapp.Response}
// @Security     BearerAuth
// @Router       /wishlist [get]
func (h *WishlistHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.wishlistService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Add godoc
// @Summary      Save a product to the wishlist
// @Description  Saving an already-saved product is a no-op.
// @Tags         wishlist
// @Accept       json
// @Produce      json
// @Param        request body wishlistapp.AddRequest true "Add request"
// @Success      200 {object} dto.Response{data=wishlistapp.Response}
// @Security     BearerAuth
// @Router       /wishlist/items [post]
func (h *WishlistHandler) Add(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req wishlistapp.AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.wishlistService.Add(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Remove godoc
// @Summary      Remove a product from the wishlist
// @Tags         wishlist
// @Produce      json
// @Param        productId path string true "Product ID"
// @Success      200 {object} dto.Response{data=wishlistapp.Response}
// @Security     BearerAuth
// @Router       /wishlist/items/{productId} [delete]
func (h *WishlistHandler) Remove(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	productID, err := parseIDParam(c, "productId")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	resp, err := h.wishlistService.Remove(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
