package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Pricing rules applied at checkout. Shipping is free only when the
// subtotal strictly exceeds the threshold.
var (
	FreeShippingThreshold = decimal.NewFromInt(50)
	FlatShippingFee       = decimal.NewFromFloat(9.99)
	TaxRate               = decimal.NewFromFloat(0.08)
)

// Item is an immutable snapshot of a purchased variant. Name, SKU,
// image and unit price are copied at checkout so later catalog edits
// never change a placed order.
type Item struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariantID uuid.UUID       `gorm:"type:uuid;not null"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Name      string          `gorm:"type:varchar(200);not null"`
	SKU       string          `gorm:"type:varchar(64);not null"`
	Image     string          `gorm:"type:varchar(500)"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity  int             `gorm:"not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "order_items"
}

// NewItem builds an order line snapshot
func NewItem(variantID, productID uuid.UUID, name, sku, image string, unitPrice valueobject.Money, quantity int) (Item, error) {
	if quantity <= 0 {
		return Item{}, shared.NewDomainError("INVALID_QUANTITY", "Order item quantity must be positive")
	}
	price := unitPrice.Amount().Round(2)
	return Item{
		ID:        uuid.New(),
		VariantID: variantID,
		ProductID: productID,
		Name:      name,
		SKU:       sku,
		Image:     image,
		UnitPrice: price,
		Quantity:  quantity,
		Subtotal:  price.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
		CreatedAt: time.Now(),
	}, nil
}

// Order is a placed order. Fulfillment status and payment status move
// independently; monetary fields are fixed at creation.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     string                         `gorm:"type:varchar(20);not null;uniqueIndex"`
	UserID          uuid.UUID                      `gorm:"type:uuid;not null;index"`
	Items           []Item                         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingAddress valueobject.ShippingAddress    `gorm:"type:jsonb"`
	PaymentMethod   string                         `gorm:"type:varchar(50);not null"`
	Subtotal        decimal.Decimal                `gorm:"type:decimal(12,2);not null"`
	ShippingCost    decimal.Decimal                `gorm:"type:decimal(12,2);not null"`
	Tax             decimal.Decimal                `gorm:"type:decimal(12,2);not null"`
	TotalAmount     decimal.Decimal                `gorm:"type:decimal(12,2);not null"`
	Status          Status                         `gorm:"type:varchar(20);not null;index"`
	PaymentStatus   PaymentStatus                  `gorm:"type:varchar(20);not null;index"`
	TransactionID   string                         `gorm:"type:varchar(100)"`
	ConfirmedAt     *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order from item snapshots and computes its
// totals from the pricing rules.
func NewOrder(orderNumber string, userID uuid.UUID, address valueobject.ShippingAddress, paymentMethod string, items []Item) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if err := address.Validate(); err != nil {
		return nil, shared.NewValidationError("shippingAddress", err.Error())
	}
	if paymentMethod == "" {
		return nil, shared.NewValidationError("paymentMethod", "payment method is required")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		UserID:            userID,
		ShippingAddress:   address,
		PaymentMethod:     paymentMethod,
		Status:            StatusPending,
		PaymentStatus:     PaymentPending,
	}
	for i := range items {
		items[i].OrderID = o.ID
	}
	o.Items = items
	o.computeTotals()
	return o, nil
}

// computeTotals derives subtotal, shipping, tax and total from the items
func (o *Order) computeTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Subtotal)
	}
	o.Subtotal = subtotal.Round(2)

	if o.Subtotal.GreaterThan(FreeShippingThreshold) {
		o.ShippingCost = decimal.Zero
	} else {
		o.ShippingCost = FlatShippingFee
	}

	o.Tax = o.Subtotal.Mul(TaxRate).Round(2)
	o.TotalAmount = o.Subtotal.Add(o.ShippingCost).Add(o.Tax).Round(2)
}

// MarkPaid records a successful payment
func (o *Order) MarkPaid(transactionID string) error {
	if !o.PaymentStatus.CanTransitionTo(PaymentPaid) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot mark order %s paid from payment status %s", o.OrderNumber, o.PaymentStatus))
	}
	o.PaymentStatus = PaymentPaid
	o.TransactionID = transactionID
	o.touch()
	return nil
}

// MarkPaymentFailed records a failed payment attempt. The order stays
// pending so the user can retry; its stock reservation is kept.
func (o *Order) MarkPaymentFailed() error {
	if !o.PaymentStatus.CanTransitionTo(PaymentFailed) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot fail payment for order %s from payment status %s", o.OrderNumber, o.PaymentStatus))
	}
	o.PaymentStatus = PaymentFailed
	o.touch()
	return nil
}

// Confirm moves the order to confirmed; requires payment to have settled
func (o *Order) Confirm() error {
	if o.PaymentStatus != PaymentPaid {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot confirm order %s before payment", o.OrderNumber))
	}
	if err := o.transition(StatusConfirmed); err != nil {
		return err
	}
	now := time.Now()
	o.ConfirmedAt = &now
	return nil
}

// Ship moves the order to shipped
func (o *Order) Ship() error {
	if err := o.transition(StatusShipped); err != nil {
		return err
	}
	now := time.Now()
	o.ShippedAt = &now
	return nil
}

// Deliver moves the order to delivered
func (o *Order) Deliver() error {
	if err := o.transition(StatusDelivered); err != nil {
		return err
	}
	now := time.Now()
	o.DeliveredAt = &now
	return nil
}

// Cancel cancels the order. Allowed only before shipment; the caller is
// responsible for restoring the reserved stock.
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanCancel() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel order %s in status %s", o.OrderNumber, o.Status))
	}
	o.Status = StatusCancelled
	o.CancelReason = reason
	now := time.Now()
	o.CancelledAt = &now
	o.touch()
	return nil
}

// Refund records a refund for a paid order
func (o *Order) Refund() error {
	if !o.PaymentStatus.CanTransitionTo(PaymentRefunded) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot refund order %s from payment status %s", o.OrderNumber, o.PaymentStatus))
	}
	o.PaymentStatus = PaymentRefunded
	o.touch()
	return nil
}

// IsPaid reports whether the order has been paid
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentPaid
}

// ItemCount returns the total quantity across all lines
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

func (o *Order) transition(target Status) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot transition order %s from %s to %s", o.OrderNumber, o.Status, target))
	}
	o.Status = target
	o.touch()
	return nil
}

// touch refreshes the modification timestamp. The version is advanced
// by the repository on save, so several mutations in one unit of work
// count as a single optimistic-lock step.
func (o *Order) touch() {
	o.UpdatedAt = time.Now()
}
