package models

import "time"

type ReservationStatus string

const (
	ReservationBooked    ReservationStatus = "booked"
	ReservationSeated    ReservationStatus = "seated"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationNoShow    ReservationStatus = "no_show"
)

type Reservation struct {
	ID           uint              `gorm:"primaryKey"`
	RestaurantID uint              `gorm:"index;not null"`
	CustomerName string            `gorm:"size:100;not null"`
	Phone        string            `gorm:"size:30"`
	ReservedAt   time.Time         `gorm:"index;not null"` // date + time of the booking
	PartySize    int               `gorm:"not null"`
	Status       ReservationStatus `gorm:"size:20;not null"`
	Note         string            `gorm:"size:255"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
