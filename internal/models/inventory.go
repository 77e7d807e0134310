package models

import "time"

// InventoryItem: stock tracked per tenant. CurrentStock never goes below
// zero; it is only mutated through the add/withdraw stock operations,
// never by a direct field update.
type InventoryItem struct {
	ID           uint   `gorm:"primaryKey"`
	RestaurantID uint   `gorm:"index;not null;uniqueIndex:idx_items_restaurant_name"`
	ItemName     string `gorm:"size:150;not null;uniqueIndex:idx_items_restaurant_name"`
	CurrentStock int64  `gorm:"not null;default:0"`
	MinStock     int64  `gorm:"not null;default:0"` // low-stock threshold
	Unit         string `gorm:"size:20;not null"`   // kg, pcs, l ...
	CostPerUnit  int64  `gorm:"not null;default:0"` // minor currency units
	SupplierID   *uint
	Supplier     *Supplier
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type MovementDirection string

const (
	MovementIn  MovementDirection = "in"
	MovementOut MovementDirection = "out"
)

// StockMovement: append-only audit trail of every stock adjustment.
// Written in the same transaction as the stock update.
type StockMovement struct {
	ID              uint              `gorm:"primaryKey"`
	RestaurantID    uint              `gorm:"index;not null"`
	InventoryItemID uint              `gorm:"index;not null"`
	InventoryItem   InventoryItem
	Direction       MovementDirection `gorm:"size:10;not null"`
	Quantity        int64             `gorm:"not null"` // always positive
	Note            string            `gorm:"size:255"`
	UserID          uint
	UserName        string `gorm:"size:100"` // denormalized for display
	CreatedAt       time.Time
}
