package orders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"dinehub-backend/internal/auth"
	"dinehub-backend/internal/models"
	"dinehub-backend/internal/respond"
	"dinehub-backend/internal/testdb"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestApp mounts the order routes behind a stub middleware that
// plants the same locals the JWT middleware would.
func newTestApp(db *gorm.DB, restaurantID uint) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: respond.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, uint(1))
		c.Locals(auth.CtxUserNameKey, "Test Manager")
		c.Locals(auth.CtxUserRoleKey, models.RoleManager)
		c.Locals(auth.CtxRestaurantIDKey, restaurantID)
		return c.Next()
	})

	app.Get("/api/active-orders", ListOrdersHandler(db))
	app.Post("/api/active-orders", CreateOrderHandler(db))
	app.Get("/api/active-orders/:id", GetOrderHandler(db))
	app.Patch("/api/active-orders/:id/status", UpdateStatusHandler(db))
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return resp.StatusCode, env
}

func seedRestaurant(t *testing.T, db *gorm.DB) *models.Restaurant {
	t.Helper()
	r := models.Restaurant{Name: "Test Resto", JoinCode: "TESTCODE"}
	require.NoError(t, db.Create(&r).Error)
	return &r
}

func TestCreateOrder_ComputesTotal(t *testing.T) {
	db := testdb.Open(t)
	r := seedRestaurant(t, db)
	app := newTestApp(db, r.ID)

	status, env := doJSON(t, app, "POST", "/api/active-orders", fiber.Map{
		"items": []fiber.Map{
			{"name": "Coffee", "price": 500, "quantity": 2},
		},
	})
	require.Equal(t, fiber.StatusCreated, status)
	require.True(t, env.Success)

	var order OrderResponse
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, int64(1000), order.TotalAmount)
	assert.Equal(t, "pending", order.Status)
	assert.NotEmpty(t, order.OrderNumber)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Coffee", order.Items[0].Name)
}

func TestCreateOrder_Validation(t *testing.T) {
	db := testdb.Open(t)
	r := seedRestaurant(t, db)
	app := newTestApp(db, r.ID)

	cases := []fiber.Map{
		{"items": []fiber.Map{}},
		{"items": []fiber.Map{{"name": "", "price": 100, "quantity": 1}}},
		{"items": []fiber.Map{{"name": "Tea", "price": -1, "quantity": 1}}},
		{"items": []fiber.Map{{"name": "Tea", "price": 100, "quantity": 0}}},
	}
	for i, body := range cases {
		status, env := doJSON(t, app, "POST", "/api/active-orders", body)
		assert.Equal(t, fiber.StatusBadRequest, status, "case %d", i)
		assert.False(t, env.Success, "case %d", i)
		assert.NotEmpty(t, env.Error, "case %d", i)
	}

	var count int64
	db.Model(&models.ActiveOrder{}).Count(&count)
	assert.Zero(t, count)
}

func TestOrderLifecycle(t *testing.T) {
	db := testdb.Open(t)
	r := seedRestaurant(t, db)
	app := newTestApp(db, r.ID)

	_, env := doJSON(t, app, "POST", "/api/active-orders", fiber.Map{
		"items":          []fiber.Map{{"name": "Pizza", "price": 2500, "quantity": 2}},
		"customer_phone": "+15550001",
	})
	var order OrderResponse
	require.NoError(t, json.Unmarshal(env.Data, &order))

	statusPath := fmt.Sprintf("/api/active-orders/%d/status", order.ID)
	for _, expected := range []string{"preparing", "ready", "served"} {
		status, env := doJSON(t, app, "PATCH", statusPath, fiber.Map{"action": "next"})
		require.Equal(t, fiber.StatusOK, status)
		require.NoError(t, json.Unmarshal(env.Data, &order))
		assert.Equal(t, expected, order.Status)
	}

	// served is terminal
	status, env := doJSON(t, app, "PATCH", statusPath, fiber.Map{"action": "next"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, env.Success)
	status, _ = doJSON(t, app, "PATCH", statusPath, fiber.Map{"action": "cancel"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	// serving awarded loyalty points: 5000 total -> 50 points
	var customer models.LoyaltyCustomer
	require.NoError(t, db.Where("restaurant_id = ? AND phone = ?", r.ID, "+15550001").First(&customer).Error)
	assert.Equal(t, int64(50), customer.Points)
	assert.Equal(t, int64(5000), customer.TotalSpent)
}

func TestCancelOrder(t *testing.T) {
	db := testdb.Open(t)
	r := seedRestaurant(t, db)
	app := newTestApp(db, r.ID)

	_, env := doJSON(t, app, "POST", "/api/active-orders", fiber.Map{
		"items": []fiber.Map{{"name": "Soup", "price": 800, "quantity": 1}},
	})
	var order OrderResponse
	require.NoError(t, json.Unmarshal(env.Data, &order))

	statusPath := fmt.Sprintf("/api/active-orders/%d/status", order.ID)
	status, env := doJSON(t, app, "PATCH", statusPath, fiber.Map{"action": "cancel"})
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, "cancelled", order.Status)

	// cancelled is terminal
	status, _ = doJSON(t, app, "PATCH", statusPath, fiber.Map{"action": "next"})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestListOrders_TenantScoped(t *testing.T) {
	db := testdb.Open(t)
	r1 := seedRestaurant(t, db)
	r2 := models.Restaurant{Name: "Other Resto", JoinCode: "OTHERCODE"}
	require.NoError(t, db.Create(&r2).Error)

	app1 := newTestApp(db, r1.ID)
	app2 := newTestApp(db, r2.ID)

	_, _ = doJSON(t, app1, "POST", "/api/active-orders", fiber.Map{
		"items": []fiber.Map{{"name": "Burger", "price": 1500, "quantity": 1}},
	})

	status, env := doJSON(t, app2, "GET", "/api/active-orders", nil)
	require.Equal(t, fiber.StatusOK, status)

	var orders []OrderResponse
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	assert.Empty(t, orders, "tenant two must not see tenant one's orders")

	status, env = doJSON(t, app1, "GET", "/api/active-orders", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	assert.Len(t, orders, 1)
}
