package models

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderServed    OrderStatus = "served"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderItem is one line of an order. Stored serialized in
// ActiveOrder.ItemsJSON; validated at the API boundary, never parsed
// ad hoc elsewhere.
type OrderItem struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"` // minor currency units
	Quantity int    `json:"quantity"`
}

func (i OrderItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// ActiveOrder: an order inside the pending→served lifecycle.
// TotalAmount is always computed server-side from the item lines.
type ActiveOrder struct {
	ID            uint        `gorm:"primaryKey"`
	RestaurantID  uint        `gorm:"index;not null;uniqueIndex:idx_orders_restaurant_number"`
	OrderNumber   string      `gorm:"size:30;not null;uniqueIndex:idx_orders_restaurant_number"`
	ItemsJSON     string      `gorm:"type:jsonb;column:items;not null"`
	TotalAmount   int64       `gorm:"not null"`
	Status        OrderStatus `gorm:"size:20;index;not null"`
	CustomerPhone string      `gorm:"size:30"` // optional, enables loyalty accrual
	TableNumber   string      `gorm:"size:10"`
	ServedAt      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
