package inventory

import (
	"sync"
	"testing"

	"dinehub-backend/internal/models"
	"dinehub-backend/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedItem(t *testing.T, db *gorm.DB, restaurantID uint, stock int64) *models.InventoryItem {
	t.Helper()

	item := models.InventoryItem{
		RestaurantID: restaurantID,
		ItemName:     "Coffee Beans",
		CurrentStock: stock,
		MinStock:     2,
		Unit:         "kg",
		CostPerUnit:  1200,
	}
	require.NoError(t, db.Create(&item).Error)
	return &item
}

func seedRestaurant(t *testing.T, db *gorm.DB, name string) *models.Restaurant {
	t.Helper()

	r := models.Restaurant{Name: name, JoinCode: name + "-CODE"}
	require.NoError(t, db.Create(&r).Error)
	return &r
}

func TestAddStock(t *testing.T) {
	db := testdb.Open(t)
	r := seedRestaurant(t, db, "R1")
	item := seedItem(t, db, r.ID, 5)

	updated, err := AddStock(db, r.ID, StockAdjustment{
		ItemID:   item.ID,
		Quantity: 10,
		Note:     "weekly delivery",
		UserID:   1,
		UserName: "Manager",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15), updated.CurrentStock)

	var movements []models.StockMovement
	require.NoError(t, db.Where("inventory_item_id = ?", item.ID).Find(&movements).Error)
	require.Len(t, movements, 1)
	assert.Equal(t, models.MovementIn, movements[0].Direction)
	assert.Equal(t, int64(10), movements[0].Quantity)
	assert.Equal(t, "weekly delivery", movements[0].Note)
	assert.Equal(t, r.ID, movements[0].RestaurantID)
}

func TestAddStock_InvalidQuantity(t *testing.T) {
	db := testdb.Open(t)
	r := seedRestaurant(t, db, "R1")
	item := seedItem(t, db, r.ID, 5)

	for _, q := range []int64{0, -3} {
		_, err := AddStock(db, r.ID, StockAdjustment{ItemID: item.ID, Quantity: q})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}

	var count int64
	db.Model(&models.StockMovement{}).Count(&count)
	assert.Zero(t, count)
}

func TestWithdrawStock(t *testing.T) {
	db := testdb.Open(t)
	r := seedRestaurant(t, db, "R1")
	item := seedItem(t, db, r.ID, 15)

	updated, err := WithdrawStock(db, r.ID, StockAdjustment{
		ItemID:   item.ID,
		Quantity: 5,
		Note:     "dinner service",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), updated.CurrentStock)

	var movement models.StockMovement
	require.NoError(t, db.Where("inventory_item_id = ?", item.ID).First(&movement).Error)
	assert.Equal(t, models.MovementOut, movement.Direction)
	assert.Equal(t, int64(5), movement.Quantity)
}

func TestWithdrawStock_Insufficient(t *testing.T) {
	db := testdb.Open(t)
	r := seedRestaurant(t, db, "R1")
	item := seedItem(t, db, r.ID, 15)

	_, err := WithdrawStock(db, r.ID, StockAdjustment{ItemID: item.ID, Quantity: 20})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var reloaded models.InventoryItem
	require.NoError(t, db.First(&reloaded, item.ID).Error)
	assert.Equal(t, int64(15), reloaded.CurrentStock, "rejected withdrawal must not mutate stock")

	var count int64
	db.Model(&models.StockMovement{}).Count(&count)
	assert.Zero(t, count, "rejected withdrawal must not leave a movement row")
}

func TestWithdrawStock_WrongTenant(t *testing.T) {
	db := testdb.Open(t)
	r1 := seedRestaurant(t, db, "R1")
	r2 := seedRestaurant(t, db, "R2")
	item := seedItem(t, db, r1.ID, 15)

	_, err := WithdrawStock(db, r2.ID, StockAdjustment{ItemID: item.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrItemNotFound)

	var reloaded models.InventoryItem
	require.NoError(t, db.First(&reloaded, item.ID).Error)
	assert.Equal(t, int64(15), reloaded.CurrentStock)
}

// Two concurrent withdrawals of 8 against a stock of 10: the
// conditional update serializes them, exactly one succeeds and stock
// never goes negative.
func TestWithdrawStock_ConcurrentWithdrawals(t *testing.T) {
	db := testdb.Open(t)
	r := seedRestaurant(t, db, "R1")
	item := seedItem(t, db, r.ID, 10)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = WithdrawStock(db, r.ID, StockAdjustment{ItemID: item.ID, Quantity: 8})
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrInsufficientStock)
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactly one of the two withdrawals must be rejected")

	var reloaded models.InventoryItem
	require.NoError(t, db.First(&reloaded, item.ID).Error)
	assert.Equal(t, int64(2), reloaded.CurrentStock)
	assert.GreaterOrEqual(t, reloaded.CurrentStock, int64(0))

	var count int64
	db.Model(&models.StockMovement{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
