package auth

import (
	"net/http/httptest"
	"testing"

	"dinehub-backend/internal/config"
	"dinehub-backend/internal/models"
	"dinehub-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testConfig() *config.Config {
	return &config.Config{JWTSecret: testSecret}
}

func TestGenerateToken_RoundTrip(t *testing.T) {
	rid := uint(42)
	user := &models.User{
		Name:         "Alex",
		Email:        "alex@example.com",
		Role:         models.RoleManager,
		RestaurantID: &rid,
	}
	user.ID = 7

	tokenStr, err := GenerateToken(testSecret, user)
	require.NoError(t, err)

	token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(*JWTCustomClaims)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, models.RoleManager, claims.Role)
	require.NotNil(t, claims.RestaurantID)
	assert.Equal(t, uint(42), *claims.RestaurantID)
}

func middlewareApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: respond.ErrorHandler})
	app.Use(JWTMiddleware(cfg))
	app.Get("/probe", func(c *fiber.Ctx) error {
		rid, err := RestaurantID(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"restaurant_id": rid})
	})
	return app
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	app := middlewareApp(testConfig())

	resp, err := app.Test(httptest.NewRequest("GET", "/probe", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddleware_BadToken(t *testing.T) {
	app := middlewareApp(testConfig())

	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddleware_TenantFromClaim(t *testing.T) {
	cfg := testConfig()
	app := middlewareApp(cfg)

	rid := uint(3)
	user := &models.User{Role: models.RoleManager, RestaurantID: &rid, Name: "M", Email: "m@x.com"}
	user.ID = 1
	token, err := GenerateToken(cfg.JWTSecret, user)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	// the header must NOT override the claim for tenant-bound roles
	req.Header.Set("x-restaurant-id", "999")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJWTMiddleware_PlatformAdminNeedsHeader(t *testing.T) {
	cfg := testConfig()
	app := middlewareApp(cfg)

	admin := &models.User{Role: models.RolePlatformAdmin, Name: "Root", Email: "root@x.com"}
	admin.ID = 1
	token, err := GenerateToken(cfg.JWTSecret, admin)
	require.NoError(t, err)

	// no tenant picked: tenant-scoped endpoints refuse
	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// tenant picked via header: allowed
	req = httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("x-restaurant-id", "5")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
