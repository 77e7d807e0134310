package loyalty

import (
	"errors"
	"fmt"
	"strings"

	"dinehub-backend/internal/audit"
	"dinehub-backend/internal/auth"
	"dinehub-backend/internal/models"
	"dinehub-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// -------------------------
// Request/Response Types
// -------------------------

type CreateCustomerRequest struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
}

type AdjustPointsRequest struct {
	Delta  int64  `json:"delta"` // negative = redemption
	Reason string `json:"reason"`
}

type CustomerResponse struct {
	ID         uint   `json:"id"`
	Phone      string `json:"phone"`
	Name       string `json:"name"`
	Points     int64  `json:"points"`
	TotalSpent int64  `json:"total_spent"`
	CreatedAt  string `json:"created_at"`
}

func toCustomerResponse(cust *models.LoyaltyCustomer) CustomerResponse {
	return CustomerResponse{
		ID:         cust.ID,
		Phone:      cust.Phone,
		Name:       cust.Name,
		Points:     cust.Points,
		TotalSpent: cust.TotalSpent,
		CreatedAt:  cust.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// -------------------------
// Loyalty Customer CRUD
// -------------------------

// GET /api/loyalty-customers
func ListCustomersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		q := db.Where("restaurant_id = ?", restaurantID).Order("points DESC")
		if phone := strings.TrimSpace(c.Query("phone")); phone != "" {
			q = q.Where("phone LIKE ?", "%"+phone+"%")
		}

		var customers []models.LoyaltyCustomer
		if err := q.Find(&customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list loyalty customers")
		}

		resp := make([]CustomerResponse, 0, len(customers))
		for i := range customers {
			resp = append(resp, toCustomerResponse(&customers[i]))
		}

		return respond.OK(c, resp)
	}
}

// POST /api/loyalty-customers
func CreateCustomerHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Phone = strings.TrimSpace(body.Phone)
		if body.Phone == "" {
			return fiber.NewError(fiber.StatusBadRequest, "phone is required")
		}

		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		customer := models.LoyaltyCustomer{
			RestaurantID: restaurantID,
			Phone:        body.Phone,
			Name:         strings.TrimSpace(body.Name),
		}
		if err := db.Create(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "customer could not be created (duplicate phone?)")
		}

		userID, userName := auth.Identity(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			RestaurantID: &restaurantID,
			UserID:       userID,
			UserName:     userName,
			EntityType:   "loyalty_customer",
			EntityID:     customer.ID,
			Action:       models.AuditActionCreate,
			Description:  fmt.Sprintf("Loyalty customer created: %s", customer.Phone),
			After:        customer,
		})

		return respond.Created(c, toCustomerResponse(&customer))
	}
}

// POST /api/loyalty-customers/:id/points
func AdjustPointsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid customer id")
		}

		var body AdjustPointsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.Delta == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "delta cannot be zero")
		}

		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		customer, err := AdjustPoints(db, restaurantID, uint(id), body.Delta)
		if err != nil {
			if errors.Is(err, ErrCustomerNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "customer not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "points could not be adjusted")
		}

		userID, userName := auth.Identity(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			RestaurantID: &restaurantID,
			UserID:       userID,
			UserName:     userName,
			EntityType:   "loyalty_customer",
			EntityID:     customer.ID,
			Action:       models.AuditActionUpdate,
			Description:  fmt.Sprintf("Points adjusted by %d (%s)", body.Delta, body.Reason),
			After:        customer,
		})

		return respond.OK(c, toCustomerResponse(customer))
	}
}
