package database

import (
	"fmt"

	"dinehub-backend/internal/config"
	"dinehub-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres and runs migrations. The returned handle is
// passed explicitly into every handler constructor; there is no package
// level connection.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate is separate from Open so tests can run it against their own
// database handle.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Restaurant{},
		&models.User{},
		&models.Supplier{},
		&models.InventoryItem{},
		&models.StockMovement{},
		&models.ActiveOrder{},
		&models.LoyaltyCustomer{},
		&models.StaffMember{},
		&models.Attendance{},
		&models.Reservation{},
		&models.DeliveryPerson{},
		&models.Delivery{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
