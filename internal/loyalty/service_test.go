package loyalty

import (
	"testing"

	"dinehub-backend/internal/models"
	"dinehub-backend/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCustomer(t *testing.T, db *gorm.DB, restaurantID uint, points int64) *models.LoyaltyCustomer {
	t.Helper()

	cust := models.LoyaltyCustomer{
		RestaurantID: restaurantID,
		Phone:        "+15551234",
		Name:         "Regular",
		Points:       points,
	}
	require.NoError(t, db.Create(&cust).Error)
	return &cust
}

func TestAdjustPoints_AddAndRedeem(t *testing.T) {
	db := testdb.Open(t)
	cust := seedCustomer(t, db, 1, 30)

	updated, err := AdjustPoints(db, 1, cust.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(50), updated.Points)

	updated, err = AdjustPoints(db, 1, cust.ID, -15)
	require.NoError(t, err)
	assert.Equal(t, int64(35), updated.Points)
}

func TestAdjustPoints_RedemptionClampsAtZero(t *testing.T) {
	db := testdb.Open(t)
	cust := seedCustomer(t, db, 1, 10)

	updated, err := AdjustPoints(db, 1, cust.ID, -25)
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated.Points, "balance clamps at zero, never negative")
}

func TestAdjustPoints_WrongTenant(t *testing.T) {
	db := testdb.Open(t)
	cust := seedCustomer(t, db, 1, 10)

	_, err := AdjustPoints(db, 2, cust.ID, 5)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestAccrueFromOrder_CreatesCustomer(t *testing.T) {
	db := testdb.Open(t)

	cust, err := AccrueFromOrder(db, 1, "+15559999", 2550)
	require.NoError(t, err)
	require.NotNil(t, cust)
	assert.Equal(t, int64(25), cust.Points) // 2550 / 100
	assert.Equal(t, int64(2550), cust.TotalSpent)

	// second order accumulates on the same record
	cust, err = AccrueFromOrder(db, 1, "+15559999", 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(35), cust.Points)
	assert.Equal(t, int64(3550), cust.TotalSpent)

	var count int64
	db.Model(&models.LoyaltyCustomer{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAccrueFromOrder_NoPhoneIsNoop(t *testing.T) {
	db := testdb.Open(t)

	cust, err := AccrueFromOrder(db, 1, "  ", 2000)
	require.NoError(t, err)
	assert.Nil(t, cust)

	var count int64
	db.Model(&models.LoyaltyCustomer{}).Count(&count)
	assert.Zero(t, count)
}
