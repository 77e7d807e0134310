package staff

import (
	"fmt"
	"strings"

	"dinehub-backend/internal/audit"
	"dinehub-backend/internal/auth"
	"dinehub-backend/internal/models"
	"dinehub-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// -------------------------
// Request/Response Types
// -------------------------

type CreateStaffRequest struct {
	Name          string `json:"name"`
	Role          string `json:"role"`
	Phone         string `json:"phone"`
	MonthlySalary int64  `json:"monthly_salary"`
}

type UpdateStaffRequest struct {
	Name          *string `json:"name"`
	Role          *string `json:"role"`
	Phone         *string `json:"phone"`
	MonthlySalary *int64  `json:"monthly_salary"`
	IsActive      *bool   `json:"is_active"`
}

type StaffResponse struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	Phone         string `json:"phone"`
	MonthlySalary int64  `json:"monthly_salary"`
	IsActive      bool   `json:"is_active"`
	CreatedAt     string `json:"created_at"`
}

func toStaffResponse(m *models.StaffMember) StaffResponse {
	return StaffResponse{
		ID:            m.ID,
		Name:          m.Name,
		Role:          m.Role,
		Phone:         m.Phone,
		MonthlySalary: m.MonthlySalary,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// -------------------------
// Staff CRUD
// -------------------------

// GET /api/staff
func ListStaffHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		q := db.Where("restaurant_id = ?", restaurantID).Order("name asc")
		if c.Query("active") == "true" {
			q = q.Where("is_active = ?", true)
		}

		var members []models.StaffMember
		if err := q.Find(&members).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list staff")
		}

		resp := make([]StaffResponse, 0, len(members))
		for i := range members {
			resp = append(resp, toStaffResponse(&members[i]))
		}

		return respond.OK(c, resp)
	}
}

// POST /api/staff
func CreateStaffHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateStaffRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Role = strings.TrimSpace(body.Role)
		if body.Name == "" || body.Role == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name and role are required")
		}
		if body.MonthlySalary < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "monthly_salary cannot be negative")
		}

		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		member := models.StaffMember{
			RestaurantID:  restaurantID,
			Name:          body.Name,
			Role:          body.Role,
			Phone:         strings.TrimSpace(body.Phone),
			MonthlySalary: body.MonthlySalary,
			IsActive:      true,
		}
		if err := db.Create(&member).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "staff member could not be created")
		}

		userID, userName := auth.Identity(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			RestaurantID: &restaurantID,
			UserID:       userID,
			UserName:     userName,
			EntityType:   "staff_member",
			EntityID:     member.ID,
			Action:       models.AuditActionCreate,
			Description:  fmt.Sprintf("Staff member added: %s (%s)", member.Name, member.Role),
			After:        member,
		})

		return respond.Created(c, toStaffResponse(&member))
	}
}

// PATCH /api/staff/:id
func UpdateStaffHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid staff id")
		}

		var body UpdateStaffRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		var member models.StaffMember
		if err := db.Where("restaurant_id = ?", restaurantID).First(&member, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "staff member not found")
		}
		before := member

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name cannot be empty")
			}
			member.Name = name
		}
		if body.Role != nil {
			role := strings.TrimSpace(*body.Role)
			if role == "" {
				return fiber.NewError(fiber.StatusBadRequest, "role cannot be empty")
			}
			member.Role = role
		}
		if body.Phone != nil {
			member.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.MonthlySalary != nil {
			if *body.MonthlySalary < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "monthly_salary cannot be negative")
			}
			member.MonthlySalary = *body.MonthlySalary
		}
		if body.IsActive != nil {
			member.IsActive = *body.IsActive
		}

		if err := db.Save(&member).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "staff member could not be updated")
		}

		userID, userName := auth.Identity(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			RestaurantID: &restaurantID,
			UserID:       userID,
			UserName:     userName,
			EntityType:   "staff_member",
			EntityID:     member.ID,
			Action:       models.AuditActionUpdate,
			Description:  fmt.Sprintf("Staff member updated: %s", member.Name),
			Before:       before,
			After:        member,
		})

		return respond.OK(c, toStaffResponse(&member))
	}
}

// DELETE /api/staff/:id
func DeleteStaffHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid staff id")
		}

		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		var member models.StaffMember
		if err := db.Where("restaurant_id = ?", restaurantID).First(&member, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "staff member not found")
		}

		if err := db.Delete(&member).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "staff member could not be deleted")
		}

		userID, userName := auth.Identity(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			RestaurantID: &restaurantID,
			UserID:       userID,
			UserName:     userName,
			EntityType:   "staff_member",
			EntityID:     member.ID,
			Action:       models.AuditActionDelete,
			Description:  fmt.Sprintf("Staff member removed: %s", member.Name),
			Before:       member,
		})

		return respond.OK(c, fiber.Map{"deleted": true})
	}
}
