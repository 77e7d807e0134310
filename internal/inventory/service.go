package inventory

import (
	"errors"
	"fmt"

	"dinehub-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrItemNotFound      = errors.New("inventory item not found")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// StockAdjustment describes one add or withdraw request.
type StockAdjustment struct {
	ItemID   uint
	Quantity int64
	Note     string
	UserID   uint
	UserName string
}

// AddStock increments the item's stock and appends the movement row in
// a single transaction.
func AddStock(db *gorm.DB, restaurantID uint, adj StockAdjustment) (*models.InventoryItem, error) {
	if adj.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var item models.InventoryItem
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", restaurantID).First(&item, adj.ItemID).Error; err != nil {
			return ErrItemNotFound
		}

		res := tx.Model(&models.InventoryItem{}).
			Where("id = ? AND restaurant_id = ?", item.ID, restaurantID).
			UpdateColumn("current_stock", gorm.Expr("current_stock + ?", adj.Quantity))
		if res.Error != nil {
			return res.Error
		}

		movement := models.StockMovement{
			RestaurantID:    restaurantID,
			InventoryItemID: item.ID,
			Direction:       models.MovementIn,
			Quantity:        adj.Quantity,
			Note:            adj.Note,
			UserID:          adj.UserID,
			UserName:        adj.UserName,
		}
		if err := tx.Create(&movement).Error; err != nil {
			return fmt.Errorf("write stock movement: %w", err)
		}

		return tx.Where("restaurant_id = ?", restaurantID).First(&item, item.ID).Error
	})
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// WithdrawStock decrements the item's stock and appends the movement
// row in a single transaction. The availability check runs as a
// conditional UPDATE (current_stock >= quantity), so two concurrent
// withdrawals cannot both pass against a stale read: the second one
// matches no row and is rejected.
func WithdrawStock(db *gorm.DB, restaurantID uint, adj StockAdjustment) (*models.InventoryItem, error) {
	if adj.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var item models.InventoryItem
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", restaurantID).First(&item, adj.ItemID).Error; err != nil {
			return ErrItemNotFound
		}

		res := tx.Model(&models.InventoryItem{}).
			Where("id = ? AND restaurant_id = ? AND current_stock >= ?", item.ID, restaurantID, adj.Quantity).
			UpdateColumn("current_stock", gorm.Expr("current_stock - ?", adj.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientStock
		}

		movement := models.StockMovement{
			RestaurantID:    restaurantID,
			InventoryItemID: item.ID,
			Direction:       models.MovementOut,
			Quantity:        adj.Quantity,
			Note:            adj.Note,
			UserID:          adj.UserID,
			UserName:        adj.UserName,
		}
		if err := tx.Create(&movement).Error; err != nil {
			return fmt.Errorf("write stock movement: %w", err)
		}

		return tx.Where("restaurant_id = ?", restaurantID).First(&item, item.ID).Error
	})
	if err != nil {
		return nil, err
	}

	return &item, nil
}
