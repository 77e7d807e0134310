package inventory

import (
	"errors"

	"dinehub-backend/internal/auth"
	"dinehub-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StockRequest struct {
	ItemID   uint   `json:"item_id"`
	Quantity int64  `json:"quantity"`
	Notes    string `json:"notes"`
}

// POST /api/inventory/add-stock
func AddStockHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body StockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.ItemID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "item_id is required")
		}

		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		userID, userName := auth.Identity(c)
		item, err := AddStock(db, restaurantID, StockAdjustment{
			ItemID:   body.ItemID,
			Quantity: body.Quantity,
			Note:     body.Notes,
			UserID:   userID,
			UserName: userName,
		})
		if err != nil {
			return stockError(err)
		}

		return respond.OK(c, toItemResponse(item))
	}
}

// POST /api/inventory/withdraw-stock
func WithdrawStockHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body StockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.ItemID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "item_id is required")
		}

		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		userID, userName := auth.Identity(c)
		item, err := WithdrawStock(db, restaurantID, StockAdjustment{
			ItemID:   body.ItemID,
			Quantity: body.Quantity,
			Note:     body.Notes,
			UserID:   userID,
			UserName: userName,
		})
		if err != nil {
			return stockError(err)
		}

		return respond.OK(c, toItemResponse(item))
	}
}

func stockError(err error) error {
	switch {
	case errors.Is(err, ErrItemNotFound):
		return fiber.NewError(fiber.StatusNotFound, "item not found")
	case errors.Is(err, ErrInvalidQuantity):
		return fiber.NewError(fiber.StatusBadRequest, "quantity must be positive")
	case errors.Is(err, ErrInsufficientStock):
		return fiber.NewError(fiber.StatusBadRequest, "insufficient stock")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "stock adjustment failed")
	}
}
