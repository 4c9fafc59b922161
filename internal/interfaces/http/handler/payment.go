package handler

import (
	"io"

	"github.com/gin-gonic/gin"
	orderapp "github.com/storefront/backend/internal/application/order"
)

// SignatureHeader carries the HMAC signature of the webhook body
const SignatureHeader = "X-Webhook-Signature"

// PaymentHandler handles payment notifications and manual payment actions
type PaymentHandler struct {
	BaseHandler
	paymentService *orderapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *orderapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Webhook godoc
// @Summary      Receive a payment webhook
// @Description  Verifies the HMAC signature over the raw body, then applies the event. Duplicate deliveries are acknowledged without effect.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        X-Webhook-Signature header string true "Hex HMAC-SHA256 of the body"
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /webhooks/payment [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}

	signature := c.GetHeader(SignatureHeader)
	if err := h.paymentService.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"received": true})
}

// RecordSuccess godoc
// @Summary      Confirm a completed payment
// @Description  Marks the caller's order as paid. Repeating the call for an already-paid order succeeds without effect.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body orderapp.PaymentSuccessRequest true "Payment result"
// @Success      200 {object} dto.Response
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments/success [post]
func (h *PaymentHandler) RecordSuccess(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req orderapp.PaymentSuccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.paymentService.HandleSuccess(c.Request.Context(), userID, req.OrderID, req.TransactionID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"order_id": req.OrderID})
}

// RecordFailure godoc
// @Summary      Record a failed payment attempt
// @Description  Marks the caller's order payment as failed. The stock reservation is kept so payment can be retried.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body orderapp.PaymentFailureRequest true "Failure details"
// @Success      200 {object} dto.Response
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /payments/failure [post]
func (h *PaymentHandler) RecordFailure(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req orderapp.PaymentFailureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.paymentService.HandleFailure(c.Request.Context(), userID, req.OrderID, req.Reason); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"order_id": req.OrderID})
}

// Refund godoc
// @Summary      Refund a paid order
// @Description  Restores the order's stock and marks it refunded.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body orderapp.RefundRequest true "Order to refund"
// @Success      200 {object} dto.Response
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/payments/refund [post]
func (h *PaymentHandler) Refund(c *gin.Context) {
	var req orderapp.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.paymentService.Refund(c.Request.Context(), req.OrderID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"order_id": req.OrderID})
}
