package models

import "time"

type StaffMember struct {
	ID            uint   `gorm:"primaryKey"`
	RestaurantID  uint   `gorm:"index;not null"`
	Name          string `gorm:"size:100;not null"`
	Role          string `gorm:"size:50;not null"` // waiter, cook, cashier ...
	Phone         string `gorm:"size:30"`
	MonthlySalary int64  `gorm:"not null;default:0"`
	IsActive      bool   `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLeave   AttendanceStatus = "leave"
)

// Attendance: one row per staff member per day.
type Attendance struct {
	ID             uint             `gorm:"primaryKey"`
	RestaurantID   uint             `gorm:"index;not null"`
	StaffMemberID  uint             `gorm:"not null;uniqueIndex:idx_attendance_staff_date"`
	StaffMember    StaffMember
	AttendanceDate time.Time        `gorm:"not null;uniqueIndex:idx_attendance_staff_date"`
	Status         AttendanceStatus `gorm:"size:20;not null"`
	CheckIn        *time.Time
	CheckOut       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
