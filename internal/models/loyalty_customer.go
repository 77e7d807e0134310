package models

import "time"

// LoyaltyCustomer: phone is the natural key within a tenant.
// Points are clamped at zero, a redemption can never drive them negative.
type LoyaltyCustomer struct {
	ID           uint   `gorm:"primaryKey"`
	RestaurantID uint   `gorm:"index;not null;uniqueIndex:idx_loyalty_restaurant_phone"`
	Phone        string `gorm:"size:30;not null;uniqueIndex:idx_loyalty_restaurant_phone"`
	Name         string `gorm:"size:100"`
	Points       int64  `gorm:"not null;default:0"`
	TotalSpent   int64  `gorm:"not null;default:0"` // minor currency units
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
