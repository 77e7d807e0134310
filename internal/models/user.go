package models

import "time"

type UserRole string

const (
	RolePlatformAdmin UserRole = "platform_admin"
	RoleManager       UserRole = "manager"
	RoleStaff         UserRole = "staff"
)

type User struct {
	ID           uint `gorm:"primaryKey"`
	RestaurantID *uint // nil for platform admins
	Restaurant   *Restaurant
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
