package models

import "time"

// Restaurant: a single tenant. Every other table hangs off RestaurantID
// and no row is ever visible across tenants.
type Restaurant struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"size:150;not null"`
	JoinCode string `gorm:"size:20;uniqueIndex;not null"` // staff enter this at login
	Address  string `gorm:"size:255"`
	Phone    string `gorm:"size:50"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Users []User
}
