package auth

import (
	"fmt"
	"strings"

	"dinehub-backend/internal/config"
	"dinehub-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey       = "user_id"
	CtxUserNameKey     = "user_name"
	CtxUserRoleKey     = "user_role"
	CtxRestaurantIDKey = "restaurant_id"
)

// JWTMiddleware verifies the Bearer token and resolves the tenant id
// exactly once per request. The token claim is authoritative; the
// x-restaurant-id header is honored only for platform admins, which are
// not bound to a tenant. Handlers never look anywhere else.
func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing Authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header must be 'Bearer <token>'")
		}

		token, err := jwt.ParseWithClaims(parts[1], &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "malformed token claims")
		}

		restaurantID := uint(0)
		if claims.RestaurantID != nil {
			restaurantID = *claims.RestaurantID
		} else if claims.Role == models.RolePlatformAdmin {
			if h := c.Get("x-restaurant-id"); h != "" {
				var rid uint
				if _, err := fmt.Sscan(h, &rid); err != nil || rid == 0 {
					return fiber.NewError(fiber.StatusBadRequest, "invalid x-restaurant-id header")
				}
				restaurantID = rid
			}
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserNameKey, claims.Name)
		c.Locals(CtxUserRoleKey, claims.Role)
		c.Locals(CtxRestaurantIDKey, restaurantID)

		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "role information missing")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "insufficient permissions")
	}
}

// RestaurantID returns the tenant scope resolved by the middleware.
// A platform admin that did not pick a tenant gets a 403 here.
func RestaurantID(c *fiber.Ctx) (uint, error) {
	rid, ok := c.Locals(CtxRestaurantIDKey).(uint)
	if !ok || rid == 0 {
		return 0, fiber.NewError(fiber.StatusForbidden, "restaurant scope missing")
	}
	return rid, nil
}

// Identity returns the acting user's id and display name for audit
// trails.
func Identity(c *fiber.Ctx) (uint, string) {
	userID, _ := c.Locals(CtxUserIDKey).(uint)
	userName, _ := c.Locals(CtxUserNameKey).(string)
	return userID, userName
}
