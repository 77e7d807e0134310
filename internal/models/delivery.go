package models

import "time"

type DeliveryPerson struct {
	ID           uint   `gorm:"primaryKey"`
	RestaurantID uint   `gorm:"index;not null"`
	Name         string `gorm:"size:100;not null"`
	Phone        string `gorm:"size:30"`
	IsAvailable  bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type DeliveryStatus string

const (
	DeliveryAssigned  DeliveryStatus = "assigned"
	DeliveryPickedUp  DeliveryStatus = "picked_up"
	DeliveryDelivered DeliveryStatus = "delivered"
)

// Delivery: couriers see these by Code in the mobile web app.
type Delivery struct {
	ID               uint           `gorm:"primaryKey"`
	RestaurantID     uint           `gorm:"index;not null"`
	OrderID          uint           `gorm:"index;not null"`
	Order            ActiveOrder
	DeliveryPersonID uint           `gorm:"index;not null"`
	DeliveryPerson   DeliveryPerson
	Code             string         `gorm:"size:20;uniqueIndex;not null"`
	Address          string         `gorm:"size:255;not null"`
	Status           DeliveryStatus `gorm:"size:20;not null"`
	DeliveredAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
