package inventory

import (
	"fmt"
	"strconv"
	"strings"

	"dinehub-backend/internal/audit"
	"dinehub-backend/internal/auth"
	"dinehub-backend/internal/models"
	"dinehub-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ImportResultRow struct {
	Row      int    `json:"row"`
	ItemName string `json:"item_name"`
	Status   string `json:"status"` // created / skipped
	Reason   string `json:"reason,omitempty"`
}

// POST /api/inventory/import
// Bulk item import from an .xlsx upload. Expected columns:
// item_name | unit | current_stock | min_stock | cost_per_unit
// The first row is treated as a header when its stock column does not
// parse as a number. Existing item names are skipped, not overwritten.
func ImportItemsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file is required (multipart field 'file')")
		}

		f, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file could not be opened")
		}
		defer f.Close()

		xl, err := excelize.OpenReader(f)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file is not a valid .xlsx")
		}
		defer xl.Close()

		sheets := xl.GetSheetList()
		if len(sheets) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "workbook has no sheets")
		}

		rows, err := xl.GetRows(sheets[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "sheet could not be read")
		}

		results := make([]ImportResultRow, 0, len(rows))
		created := 0

		for i, row := range rows {
			rowNum := i + 1

			if len(row) < 2 || strings.TrimSpace(row[0]) == "" {
				continue
			}

			name := strings.TrimSpace(row[0])
			unit := strings.TrimSpace(row[1])

			stock, stockErr := parseCellInt(row, 2)
			minStock, _ := parseCellInt(row, 3)
			cost, _ := parseCellInt(row, 4)

			// header row
			if i == 0 && stockErr != nil && len(row) > 2 && strings.TrimSpace(row[2]) != "" {
				continue
			}

			if unit == "" {
				results = append(results, ImportResultRow{Row: rowNum, ItemName: name, Status: "skipped", Reason: "missing unit"})
				continue
			}
			if stock < 0 || minStock < 0 || cost < 0 {
				results = append(results, ImportResultRow{Row: rowNum, ItemName: name, Status: "skipped", Reason: "negative value"})
				continue
			}

			var count int64
			db.Model(&models.InventoryItem{}).
				Where("restaurant_id = ? AND item_name = ?", restaurantID, name).
				Count(&count)
			if count > 0 {
				results = append(results, ImportResultRow{Row: rowNum, ItemName: name, Status: "skipped", Reason: "already exists"})
				continue
			}

			item := models.InventoryItem{
				RestaurantID: restaurantID,
				ItemName:     name,
				CurrentStock: stock,
				MinStock:     minStock,
				Unit:         unit,
				CostPerUnit:  cost,
			}
			if err := db.Create(&item).Error; err != nil {
				results = append(results, ImportResultRow{Row: rowNum, ItemName: name, Status: "skipped", Reason: "database error"})
				continue
			}

			created++
			results = append(results, ImportResultRow{Row: rowNum, ItemName: name, Status: "created"})
		}

		userID, userName := auth.Identity(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			RestaurantID: &restaurantID,
			UserID:       userID,
			UserName:     userName,
			EntityType:   "inventory_item",
			Action:       models.AuditActionCreate,
			Description:  fmt.Sprintf("Bulk import: %d items created from %s", created, fileHeader.Filename),
		})

		return respond.OK(c, fiber.Map{
			"created": created,
			"rows":    results,
		})
	}
}

func parseCellInt(row []string, idx int) (int64, error) {
	if idx >= len(row) {
		return 0, nil
	}
	s := strings.TrimSpace(row[idx])
	if s == "" {
		return 0, nil
	}
	// excel often renders integers as "12.0"
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f), nil
	}
	return 0, fmt.Errorf("not a number: %q", s)
}
