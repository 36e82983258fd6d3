package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentMethodCash   = "cash"
	PaymentMethodOnline = "online"

	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"

	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
)

// Order is a placed table order.
//
// CreatedAt is set once on insert. UpdatedAt stays nil until items are added
// to the order, so gorm's automatic update tracking is disabled for it.
type Order struct {
	ID                    uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	TableNumber           string      `gorm:"not null" json:"table_number"`
	CustomerName          string      `gorm:"not null" json:"customer_name"`
	PhoneNumber           string      `gorm:"not null" json:"phone_number"`
	Description           string      `json:"description,omitempty"`
	Items                 []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount           int64       `gorm:"not null" json:"total_amount"`
	PaymentMethod         string      `gorm:"size:16;not null" json:"payment_method"`
	PaymentStatus         string      `gorm:"size:16;index;not null" json:"payment_status"`
	OrderStatus           string      `gorm:"size:16;index;not null" json:"order_status"`
	CreatedAt             time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt             *time.Time  `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
	PaymentScreenshotName string      `json:"payment_screenshot_name,omitempty"`
	PaymentScreenshotURL  string      `json:"payment_screenshot_url,omitempty"`
}

// OrderItem is one persisted line of an order.
type OrderItem struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	OrderID  uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	Position int       `gorm:"not null" json:"-"`
	CartItem
}

// BeforeCreate assigns the order id when the store has not set one.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// BeforeCreate assigns a row id.
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// CartItems returns the order lines as cart items, in order.
func (o *Order) CartItems() []CartItem {
	items := make([]CartItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = item.CartItem
	}
	return items
}

// SetItems replaces the order lines, keeping their sequence.
func (o *Order) SetItems(items []CartItem) {
	o.Items = OrderItemsFrom(o.ID, items)
}

// IsCompleted reports whether the order reached its terminal state.
func (o Order) IsCompleted() bool {
	return o.OrderStatus == OrderStatusCompleted
}

// Clone returns a deep copy of the order.
func (o Order) Clone() Order {
	c := o
	if o.Items != nil {
		c.Items = make([]OrderItem, len(o.Items))
		copy(c.Items, o.Items)
	}
	if o.UpdatedAt != nil {
		t := *o.UpdatedAt
		c.UpdatedAt = &t
	}
	return c
}

// OrderItemsFrom builds persisted lines for orderID.
func OrderItemsFrom(orderID uuid.UUID, items []CartItem) []OrderItem {
	lines := make([]OrderItem, len(items))
	for i, item := range items {
		lines[i] = OrderItem{OrderID: orderID, Position: i, CartItem: item}
	}
	return lines
}
