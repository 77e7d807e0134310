package inventory

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

type CreateItemRequest struct {
	ItemName     string `json:"item_name"`
	CurrentStock int64  `json:"current_stock"`
	MinStock     int64  `json:"min_stock"`
	Unit         string `json:"unit"`
	CostPerUnit  int64  `json:"cost_per_unit"`
	SupplierID   *uint  `json:"supplier_id"`
}

type UpdateItemRequest struct {
	ItemName    *string `json:"item_name"`
	MinStock    *int64  `json:"min_stock"`
	Unit        *string `json:"unit"`
	CostPerUnit *int64  `json:"cost_per_unit"`
	SupplierID  *uint   `json:"supplier_id"`
}

type ItemResponse struct {
	ID           uint   `json:"id"`
	ItemName     string `json:"item_name"`
	CurrentStock int64  `json:"current_stock"`
	MinStock     int64  `json:"min_stock"`
	Unit         string `json:"unit"`
	CostPerUnit  int64  `json:"cost_per_unit"`
	SupplierID   *uint  `json:"supplier_id,omitempty"`
	SupplierName string `json:"supplier_name,omitempty"`
	LowStock     bool   `json:"low_stock"`
	UpdatedAt    string `json:"updated_at"`
}

func toItemResponse(item *models.InventoryItem) ItemResponse {
	resp := ItemResponse{
		ID:           item.ID,
		ItemName:     item.ItemName,
		CurrentStock: item.CurrentStock,
		MinStock:     item.MinStock,
		Unit:         item.Unit,
		CostPerUnit:  item.CostPerUnit,
		SupplierID:   item.SupplierID,
		LowStock:     item.CurrentStock < item.MinStock,
		UpdatedAt:    item.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if item.Supplier != nil {
		resp.SupplierName = item.Supplier.Name
	}
	return resp
}

// -------------------------
// Inventory Item CRUD
// -------------------------

// GET /api/inventory
func ListItemsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		q := db.Preload("Supplier").Where("restaurant_id = ?", restaurantID).Order("item_name asc")
		if c.Query("low") == "true" {
			q = q.Where("current_stock < min_stock")
		}

		var items []models.InventoryItem
		if err := q.Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list inventory")
		}

		resp := make([]ItemResponse, 0, len(items))
		for i := range items {
			resp = append(resp, toItemResponse(&items[i]))
		}

		return respond.OK(c, resp)
	}
}

// POST /api/inventory
func CreateItemHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.ItemName = strings.TrimSpace(body.ItemName)
		body.Unit = strings.TrimSpace(body.Unit)

		if body.ItemName == "" || body.Unit == "" {
			return fiber.NewError(fiber.StatusBadRequest, "item_name and unit are required")
		}
		if body.CurrentStock < 0 || body.MinStock < 0 || body.CostPerUnit < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "stock and cost values cannot be negative")
		}

		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		if body.SupplierID != nil {
			var supplier models.Supplier
			if err := db.Where("restaurant_id = ?", restaurantID).First(&supplier, *body.SupplierID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "supplier not found")
			}
		}

		item := models.InventoryItem{
			RestaurantID: restaurantID,
			ItemName:     body.ItemName,
			CurrentStock: body.CurrentStock,
			MinStock:     body.MinStock,
			Unit:         body.Unit,
			CostPerUnit:  body.CostPerUnit,
			SupplierID:   body.SupplierID,
		}

		if err := db.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "item could not be created (duplicate name?)")
		}

		userID, userName := auth.Identity(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			RestaurantID: &restaurantID,
			UserID:       userID,
			UserName:     userName,
			EntityType:   "inventory_item",
			EntityID:     item.ID,
			Action:       models.AuditActionCreate,
			Description:  fmt.Sprintf("Inventory item created: %s", item.ItemName),
			After:        item,
		})

		return respond.Created(c, toItemResponse(&item))
	}
}

// PATCH /api/inventory/:id
// Descriptive fields only. CurrentStock moves exclusively through the
// add/withdraw stock endpoints.
func UpdateItemHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid item id")
		}

		var body UpdateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		var item models.InventoryItem
		if err := db.Where("restaurant_id = ?", restaurantID).First(&item, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "item not found")
		}
		before := item

		if body.ItemName != nil {
			name := strings.TrimSpace(*body.ItemName)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "item_name cannot be empty")
			}
			item.ItemName = name
		}
		if body.MinStock != nil {
			if *body.MinStock < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "min_stock cannot be negative")
			}
			item.MinStock = *body.MinStock
		}
		if body.Unit != nil {
			unit := strings.TrimSpace(*body.Unit)
			if unit == "" {
				return fiber.NewError(fiber.StatusBadRequest, "unit cannot be empty")
			}
			item.Unit = unit
		}
		if body.CostPerUnit != nil {
			if *body.CostPerUnit < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "cost_per_unit cannot be negative")
			}
			item.CostPerUnit = *body.CostPerUnit
		}
		if body.SupplierID != nil {
			var supplier models.Supplier
			if err := db.Where("restaurant_id = ?", restaurantID).First(&supplier, *body.SupplierID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "supplier not found")
			}
			item.SupplierID = body.SupplierID
		}

		if err := db.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "item could not be updated")
		}

		userID, userName := auth.Identity(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			RestaurantID: &restaurantID,
			UserID:       userID,
			UserName:     userName,
			EntityType:   "inventory_item",
			EntityID:     item.ID,
			Action:       models.AuditActionUpdate,
			Description:  fmt.Sprintf("Inventory item updated: %s", item.ItemName),
			Before:       before,
			After:        item,
		})

		return respond.OK(c, toItemResponse(&item))
	}
}

// DELETE /api/inventory/:id
func DeleteItemHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid item id")
		}

		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		var item models.InventoryItem
		if err := db.Where("restaurant_id = ?", restaurantID).First(&item, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "item not found")
		}

		if err := db.Delete(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "item could not be deleted")
		}

		userID, userName := auth.Identity(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			RestaurantID: &restaurantID,
			UserID:       userID,
			UserName:     userName,
			EntityType:   "inventory_item",
			EntityID:     item.ID,
			Action:       models.AuditActionDelete,
			Description:  fmt.Sprintf("Inventory item deleted: %s", item.ItemName),
			Before:       item,
		})

		return respond.OK(c, fiber.Map{"deleted": true})
	}
}

// GET /api/inventory/:id/movements
func ListMovementsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid item id")
		}

		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		var item models.InventoryItem
		if err := db.Where("restaurant_id = ?", restaurantID).First(&item, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "item not found")
		}

		var movements []models.StockMovement
		if err := db.Where("restaurant_id = ? AND inventory_item_id = ?", restaurantID, item.ID).
			Order("created_at DESC").
			Find(&movements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list stock movements")
		}

		type MovementResponse struct {
			ID        uint   `json:"id"`
			Direction string `json:"direction"`
			Quantity  int64  `json:"quantity"`
			Note      string `json:"note"`
			UserName  string `json:"user_name"`
			CreatedAt string `json:"created_at"`
		}

		resp := make([]MovementResponse, 0, len(movements))
		for _, m := range movements {
			resp = append(resp, MovementResponse{
				ID:        m.ID,
				Direction: string(m.Direction),
				Quantity:  m.Quantity,
				Note:      m.Note,
				UserName:  m.UserName,
				CreatedAt: m.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return respond.OK(c, resp)
	}
}
