package suppliers

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

type CreateSupplierRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

type UpdateSupplierRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
	Notes *string `json:"notes"`
}

type SupplierResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"created_at"`
}

func toSupplierResponse(s *models.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Phone:     s.Phone,
		Email:     s.Email,
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// GET /api/suppliers
func ListSuppliersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		var suppliers []models.Supplier
		if err := db.Where("restaurant_id = ?", restaurantID).Order("name asc").Find(&suppliers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list suppliers")
		}

		resp := make([]SupplierResponse, 0, len(suppliers))
		for i := range suppliers {
			resp = append(resp, toSupplierResponse(&suppliers[i]))
		}

		return respond.OK(c, resp)
	}
}

// POST /api/suppliers
func CreateSupplierHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}

		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		supplier := models.Supplier{
			RestaurantID: restaurantID,
			Name:         body.Name,
			Phone:        strings.TrimSpace(body.Phone),
			Email:        strings.TrimSpace(body.Email),
			Notes:        strings.TrimSpace(body.Notes),
		}
		if err := db.Create(&supplier).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "supplier could not be created")
		}

		userID, userName := auth.Identity(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			RestaurantID: &restaurantID,
			UserID:       userID,
			UserName:     userName,
			EntityType:   "supplier",
			EntityID:     supplier.ID,
			Action:       models.AuditActionCreate,
			Description:  fmt.Sprintf("Supplier added: %s", supplier.Name),
			After:        supplier,
		})

		return respond.Created(c, toSupplierResponse(&supplier))
	}
}

// PATCH /api/suppliers/:id
func UpdateSupplierHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid supplier id")
		}

		var body UpdateSupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		var supplier models.Supplier
		if err := db.Where("restaurant_id = ?", restaurantID).First(&supplier, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "supplier not found")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name cannot be empty")
			}
			supplier.Name = name
		}
		if body.Phone != nil {
			supplier.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Email != nil {
			supplier.Email = strings.TrimSpace(*body.Email)
		}
		if body.Notes != nil {
			supplier.Notes = strings.TrimSpace(*body.Notes)
		}

		if err := db.Save(&supplier).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "supplier could not be updated")
		}

		return respond.OK(c, toSupplierResponse(&supplier))
	}
}

// DELETE /api/suppliers/:id
func DeleteSupplierHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid supplier id")
		}

		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		var supplier models.Supplier
		if err := db.Where("restaurant_id = ?", restaurantID).First(&supplier, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "supplier not found")
		}

		// items keep working without a supplier
		if err := db.Model(&models.InventoryItem{}).
			Where("restaurant_id = ? AND supplier_id = ?", restaurantID, supplier.ID).
			Update("supplier_id", nil).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "supplier could not be detached from items")
		}

		if err := db.Delete(&supplier).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "supplier could not be deleted")
		}

		userID, userName := auth.Identity(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			RestaurantID: &restaurantID,
			UserID:       userID,
			UserName:     userName,
			EntityType:   "supplier",
			EntityID:     supplier.ID,
			Action:       models.AuditActionDelete,
			Description:  fmt.Sprintf("Supplier removed: %s", supplier.Name),
			Before:       supplier,
		})

		return respond.OK(c, fiber.Map{"deleted": true})
	}
}
