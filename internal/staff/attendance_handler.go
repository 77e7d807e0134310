package staff

import (
	"time"

	"dinehub-backend/internal/auth"
	"dinehub-backend/internal/models"
	"dinehub-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AttendanceRequest struct {
	Date     string `json:"date"` // "2025-12-09"
	Status   string `json:"status"`
	CheckIn  string `json:"check_in"`  // "09:00", optional
	CheckOut string `json:"check_out"` // "18:00", optional
}

type AttendanceResponse struct {
	ID            uint   `json:"id"`
	StaffMemberID uint   `json:"staff_member_id"`
	StaffName     string `json:"staff_name,omitempty"`
	Date          string `json:"date"`
	Status        string `json:"status"`
	CheckIn       string `json:"check_in,omitempty"`
	CheckOut      string `json:"check_out,omitempty"`
}

func toAttendanceResponse(a *models.Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:            a.ID,
		StaffMemberID: a.StaffMemberID,
		StaffName:     a.StaffMember.Name,
		Date:          a.AttendanceDate.Format("2006-01-02"),
		Status:        string(a.Status),
	}
	if a.CheckIn != nil {
		resp.CheckIn = a.CheckIn.Format("15:04")
	}
	if a.CheckOut != nil {
		resp.CheckOut = a.CheckOut.Format("15:04")
	}
	return resp
}

func validAttendanceStatus(s string) bool {
	switch models.AttendanceStatus(s) {
	case models.AttendancePresent, models.AttendanceAbsent, models.AttendanceLeave:
		return true
	}
	return false
}

// POST /api/staff/:id/attendance
// Upserts the day's record: one row per (staff member, date).
func RecordAttendanceHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid staff id")
		}

		var body AttendanceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if !validAttendanceStatus(body.Status) {
			return fiber.NewError(fiber.StatusBadRequest, "status must be present, absent or leave")
		}

		day, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
		}

		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		var member models.StaffMember
		if err := db.Where("restaurant_id = ?", restaurantID).First(&member, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "staff member not found")
		}

		var checkIn, checkOut *time.Time
		if body.CheckIn != "" {
			t, err := time.Parse("15:04", body.CheckIn)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "check_in must be 'HH:MM'")
			}
			at := time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.Local)
			checkIn = &at
		}
		if body.CheckOut != "" {
			t, err := time.Parse("15:04", body.CheckOut)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "check_out must be 'HH:MM'")
			}
			at := time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.Local)
			checkOut = &at
		}

		var record models.Attendance
		err = db.Where("staff_member_id = ? AND attendance_date = ?", member.ID, day).First(&record).Error
		if err != nil {
			record = models.Attendance{
				RestaurantID:   restaurantID,
				StaffMemberID:  member.ID,
				AttendanceDate: day,
				Status:         models.AttendanceStatus(body.Status),
				CheckIn:        checkIn,
				CheckOut:       checkOut,
			}
			if err := db.Create(&record).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "attendance could not be recorded")
			}
		} else {
			record.Status = models.AttendanceStatus(body.Status)
			if checkIn != nil {
				record.CheckIn = checkIn
			}
			if checkOut != nil {
				record.CheckOut = checkOut
			}
			if err := db.Save(&record).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "attendance could not be updated")
			}
		}

		record.StaffMember = member
		return respond.OK(c, toAttendanceResponse(&record))
	}
}

// GET /api/attendance?date=YYYY-MM-DD
func ListAttendanceHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		dateStr := c.Query("date")
		if dateStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "date is required")
		}
		day, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
		}

		var records []models.Attendance
		if err := db.Preload("StaffMember").
			Where("restaurant_id = ? AND attendance_date = ?", restaurantID, day).
			Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list attendance")
		}

		resp := make([]AttendanceResponse, 0, len(records))
		for i := range records {
			resp = append(resp, toAttendanceResponse(&records[i]))
		}

		return respond.OK(c, resp)
	}
}
