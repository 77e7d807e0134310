package loyalty

import (
	"errors"
	"strings"

	"dinehub-backend/internal/models"

	"gorm.io/gorm"
)

var ErrCustomerNotFound = errors.New("loyalty customer not found")

// PointsPerUnit: one point per 100 minor currency units of spend.
const PointsPerUnit = 100

// AccrueFromOrder awards points for a served order. The customer record
// is created on first sight of the phone number.
func AccrueFromOrder(db *gorm.DB, restaurantID uint, phone string, amount int64) (*models.LoyaltyCustomer, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || amount <= 0 {
		return nil, nil
	}

	var customer models.LoyaltyCustomer
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(models.LoyaltyCustomer{RestaurantID: restaurantID, Phone: phone}).
			FirstOrCreate(&customer).Error; err != nil {
			return err
		}

		customer.Points += amount / PointsPerUnit
		customer.TotalSpent += amount
		return tx.Save(&customer).Error
	})
	if err != nil {
		return nil, err
	}

	return &customer, nil
}

// AdjustPoints applies a manual delta (negative = redemption). The
// balance clamps at zero, a redemption larger than the balance empties
// it instead of going negative.
func AdjustPoints(db *gorm.DB, restaurantID, customerID uint, delta int64) (*models.LoyaltyCustomer, error) {
	var customer models.LoyaltyCustomer
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", restaurantID).First(&customer, customerID).Error; err != nil {
			return ErrCustomerNotFound
		}

		customer.Points += delta
		if customer.Points < 0 {
			customer.Points = 0
		}
		return tx.Save(&customer).Error
	})
	if err != nil {
		return nil, err
	}

	return &customer, nil
}
