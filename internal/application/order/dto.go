package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
)

// AddressInput is the shipping address payload of a checkout request
type AddressInput struct {
	Name    string `json:"name" binding:"required,max=200"`
	Address string `json:"address" binding:"required,max=500"`
	City    string `json:"city" binding:"required,max=100"`
	State   string `json:"state" binding:"required,max=100"`
	Zip     string `json:"zip" binding:"required,max=20"`
	Country string `json:"country" binding:"required,max=100"`
}

// CheckoutRequest places an order from the user's current cart
type CheckoutRequest struct {
	ShippingAddress AddressInput `json:"shipping_address" binding:"required"`
	PaymentMethod   string       `json:"payment_method" binding:"required,oneof=card paypal"`
}

// CancelRequest represents a request to cancel an order
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// UpdateStatusRequest advances an order's fulfillment status
type UpdateStatusRequest struct {
	Status order.Status `json:"status" binding:"required,oneof=confirmed shipped delivered"`
}

// PaymentSuccessRequest marks an order paid after a completed gateway flow
type PaymentSuccessRequest struct {
	OrderID       uuid.UUID `json:"order_id" binding:"required"`
	TransactionID string    `json:"transaction_id" binding:"required,max=100"`
}

// PaymentFailureRequest records a failed payment attempt
type PaymentFailureRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
	Reason  string    `json:"reason" binding:"max=500"`
}

// RefundRequest refunds a paid order
type RefundRequest struct {
	OrderID uuid.UUID `json:"order_id" binding:"required"`
}

// ListFilter represents filter options for order listing
type ListFilter struct {
	Status        *order.Status        `form:"status"`
	PaymentStatus *order.PaymentStatus `form:"payment_status"`
	Page          int                  `form:"page" binding:"omitempty,min=1"`
	PageSize      int                  `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ItemResponse represents an order line in API responses
type ItemResponse struct {
	VariantID uuid.UUID       `json:"variant_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Image     string          `json:"image,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Response represents an order in API responses
type Response struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	UserID          uuid.UUID           `json:"user_id"`
	Items           []ItemResponse      `json:"items"`
	ShippingAddress interface{}         `json:"shipping_address"`
	PaymentMethod   string              `json:"payment_method"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	ShippingCost    decimal.Decimal     `json:"shipping_cost"`
	Tax             decimal.Decimal     `json:"tax"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	Status          order.Status        `json:"status"`
	PaymentStatus   order.PaymentStatus `json:"payment_status"`
	TransactionID   string              `json:"transaction_id,omitempty"`
	CancelReason    string              `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ListItemResponse is the compact order shape used in listings
type ListItemResponse struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   string              `json:"order_number"`
	ItemCount     int                 `json:"item_count"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Status        order.Status        `json:"status"`
	PaymentStatus order.PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time           `json:"created_at"`
}

// PaymentIntentResponse carries the gateway handle the client uses to
// complete payment
type PaymentIntentResponse struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
}

// CheckoutResponse is the result of placing an order
type CheckoutResponse struct {
	Order   Response               `json:"order"`
	Payment *PaymentIntentResponse `json:"payment,omitempty"`
}

// ToResponse converts a domain order to a response DTO
func ToResponse(o *order.Order) Response {
	items := make([]ItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, ItemResponse{
			VariantID: item.VariantID,
			ProductID: item.ProductID,
			Name:      item.Name,
			SKU:       item.SKU,
			Image:     item.Image,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
		})
	}
	return Response{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Items:           items,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		Subtotal:        o.Subtotal,
		ShippingCost:    o.ShippingCost,
		Tax:             o.Tax,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		PaymentStatus:   o.PaymentStatus,
		TransactionID:   o.TransactionID,
		CancelReason:    o.CancelReason,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// ToListItemResponse converts a domain order to its listing shape
func ToListItemResponse(o *order.Order) ListItemResponse {
	return ListItemResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		ItemCount:     o.ItemCount(),
		TotalAmount:   o.TotalAmount,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		CreatedAt:     o.CreatedAt,
	}
}
