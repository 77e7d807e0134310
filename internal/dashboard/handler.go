package dashboard

import (
	"time"

	"dinehub-backend/internal/auth"
	"dinehub-backend/internal/models"
	"dinehub-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SummaryResponse struct {
	Date            string `json:"date"`
	OrdersCreated   int64  `json:"orders_created"`
	OrdersServed    int64  `json:"orders_served"`
	OrdersCancelled int64  `json:"orders_cancelled"`
	Revenue         int64  `json:"revenue"` // served orders only, minor units
	LowStockItems   int64  `json:"low_stock_items"`
	OpenDeliveries  int64  `json:"open_deliveries"`
}

// GET /api/dashboard/summary?date=YYYY-MM-DD
// Defaults to today. Clients poll this, there is no push channel.
func SummaryHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		day := time.Now().Truncate(24 * time.Hour)
		if dateStr := c.Query("date"); dateStr != "" {
			d, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
			}
			day = d
		}
		dayEnd := day.AddDate(0, 0, 1)

		summary := SummaryResponse{Date: day.Format("2006-01-02")}

		db.Model(&models.ActiveOrder{}).
			Where("restaurant_id = ? AND created_at >= ? AND created_at < ?", restaurantID, day, dayEnd).
			Count(&summary.OrdersCreated)

		db.Model(&models.ActiveOrder{}).
			Where("restaurant_id = ? AND status = ? AND served_at >= ? AND served_at < ?",
				restaurantID, models.OrderServed, day, dayEnd).
			Count(&summary.OrdersServed)

		db.Model(&models.ActiveOrder{}).
			Where("restaurant_id = ? AND status = ? AND updated_at >= ? AND updated_at < ?",
				restaurantID, models.OrderCancelled, day, dayEnd).
			Count(&summary.OrdersCancelled)

		db.Model(&models.ActiveOrder{}).
			Select("COALESCE(SUM(total_amount), 0)").
			Where("restaurant_id = ? AND status = ? AND served_at >= ? AND served_at < ?",
				restaurantID, models.OrderServed, day, dayEnd).
			Scan(&summary.Revenue)

		db.Model(&models.InventoryItem{}).
			Where("restaurant_id = ? AND current_stock < min_stock", restaurantID).
			Count(&summary.LowStockItems)

		db.Model(&models.Delivery{}).
			Where("restaurant_id = ? AND status <> ?", restaurantID, models.DeliveryDelivered).
			Count(&summary.OpenDeliveries)

		return respond.OK(c, summary)
	}
}
