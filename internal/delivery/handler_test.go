package delivery

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

func newTestApp(db *gorm.DB, restaurantID uint) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: respond.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, uint(1))
		c.Locals(auth.CtxUserNameKey, "Test Manager")
		c.Locals(auth.CtxUserRoleKey, models.RoleManager)
		c.Locals(auth.CtxRestaurantIDKey, restaurantID)
		return c.Next()
	})

	app.Post("/api/deliveries", CreateDeliveryHandler(db))
	app.Patch("/api/deliveries/:id/status", UpdateDeliveryStatusHandler(db))
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

func seedOrder(t *testing.T, db *gorm.DB, restaurantID uint, number string) *models.ActiveOrder {
	t.Helper()

	order := models.ActiveOrder{
		RestaurantID: restaurantID,
		OrderNumber:  number,
		ItemsJSON:    `[{"name":"Pizza","price":2000,"quantity":1}]`,
		TotalAmount:  2000,
		Status:       models.OrderReady,
	}
	require.NoError(t, db.Create(&order).Error)
	return &order
}

func TestDeliveryAssignment(t *testing.T) {
	db := testdb.Open(t)
	r := models.Restaurant{Name: "Resto", JoinCode: "RCODE"}
	require.NoError(t, db.Create(&r).Error)
	app := newTestApp(db, r.ID)

	courier1 := models.DeliveryPerson{RestaurantID: r.ID, Name: "A", IsAvailable: true}
	courier2 := models.DeliveryPerson{RestaurantID: r.ID, Name: "B", IsAvailable: true}
	require.NoError(t, db.Create(&courier1).Error)
	require.NoError(t, db.Create(&courier2).Error)

	order1 := seedOrder(t, db, r.ID, "ORD-1")
	order2 := seedOrder(t, db, r.ID, "ORD-2")
	order3 := seedOrder(t, db, r.ID, "ORD-3")

	status, env := doJSON(t, app, "POST", "/api/deliveries", fiber.Map{
		"order_id": order1.ID, "address": "1 Main St",
	})
	require.Equal(t, fiber.StatusCreated, status)
	var d1 DeliveryResponse
	require.NoError(t, json.Unmarshal(env.Data, &d1))
	assert.Equal(t, courier1.ID, d1.PersonID)
	assert.Equal(t, "assigned", d1.Status)
	assert.NotEmpty(t, d1.Code)

	// first courier is now busy, the second one gets the next delivery
	status, env = doJSON(t, app, "POST", "/api/deliveries", fiber.Map{
		"order_id": order2.ID, "address": "2 Main St",
	})
	require.Equal(t, fiber.StatusCreated, status)
	var d2 DeliveryResponse
	require.NoError(t, json.Unmarshal(env.Data, &d2))
	assert.Equal(t, courier2.ID, d2.PersonID)

	// nobody left
	status, env = doJSON(t, app, "POST", "/api/deliveries", fiber.Map{
		"order_id": order3.ID, "address": "3 Main St",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "no available delivery person", env.Error)
}

func TestDeliveryLifecycle_FreesCourier(t *testing.T) {
	db := testdb.Open(t)
	r := models.Restaurant{Name: "Resto", JoinCode: "RCODE"}
	require.NoError(t, db.Create(&r).Error)
	app := newTestApp(db, r.ID)

	courier := models.DeliveryPerson{RestaurantID: r.ID, Name: "A", IsAvailable: true}
	require.NoError(t, db.Create(&courier).Error)
	order := seedOrder(t, db, r.ID, "ORD-1")

	_, env := doJSON(t, app, "POST", "/api/deliveries", fiber.Map{
		"order_id": order.ID, "address": "1 Main St",
	})
	var d DeliveryResponse
	require.NoError(t, json.Unmarshal(env.Data, &d))

	statusPath := fmt.Sprintf("/api/deliveries/%d/status", d.ID)

	// skipping picked_up is rejected
	status, _ := doJSON(t, app, "PATCH", statusPath, fiber.Map{"status": "delivered"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = doJSON(t, app, "PATCH", statusPath, fiber.Map{"status": "picked_up"})
	require.Equal(t, fiber.StatusOK, status)

	status, env = doJSON(t, app, "PATCH", statusPath, fiber.Map{"status": "delivered"})
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &d))
	assert.Equal(t, "delivered", d.Status)
	assert.NotEmpty(t, d.DeliveredAt)

	var reloaded models.DeliveryPerson
	require.NoError(t, db.First(&reloaded, courier.ID).Error)
	assert.True(t, reloaded.IsAvailable, "courier is free again after delivering")
}

func TestDelivery_DuplicateOrderRejected(t *testing.T) {
	db := testdb.Open(t)
	r := models.Restaurant{Name: "Resto", JoinCode: "RCODE"}
	require.NoError(t, db.Create(&r).Error)
	app := newTestApp(db, r.ID)

	for _, name := range []string{"A", "B"} {
		require.NoError(t, db.Create(&models.DeliveryPerson{RestaurantID: r.ID, Name: name, IsAvailable: true}).Error)
	}
	order := seedOrder(t, db, r.ID, "ORD-1")

	status, _ := doJSON(t, app, "POST", "/api/deliveries", fiber.Map{
		"order_id": order.ID, "address": "1 Main St",
	})
	require.Equal(t, fiber.StatusCreated, status)

	status, env := doJSON(t, app, "POST", "/api/deliveries", fiber.Map{
		"order_id": order.ID, "address": "1 Main St",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "order already has a delivery", env.Error)
}
