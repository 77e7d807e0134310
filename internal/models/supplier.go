package models

import "time"

type Supplier struct {
	ID           uint   `gorm:"primaryKey"`
	RestaurantID uint   `gorm:"index;not null"`
	Name         string `gorm:"size:150;not null"`
	Phone        string `gorm:"size:30"`
	Email        string `gorm:"size:100"`
	Notes        string `gorm:"size:500"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
