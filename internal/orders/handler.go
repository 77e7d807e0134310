package orders

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"dinehub-backend/internal/audit"
	"dinehub-backend/internal/auth"
	"dinehub-backend/internal/loyalty"
	"dinehub-backend/internal/models"
	"dinehub-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// -------------------------
// Request/Response Types
// -------------------------

type CreateOrderRequest struct {
	Items         []models.OrderItem `json:"items"`
	CustomerPhone string             `json:"customer_phone"`
	TableNumber   string             `json:"table_number"`
}

type StatusRequest struct {
	Action string `json:"action"` // "next" or "cancel"
}

type OrderResponse struct {
	ID            uint               `json:"id"`
	OrderNumber   string             `json:"order_number"`
	Items         []models.OrderItem `json:"items"`
	TotalAmount   int64              `json:"total_amount"`
	Status        string             `json:"status"`
	CustomerPhone string             `json:"customer_phone,omitempty"`
	TableNumber   string             `json:"table_number,omitempty"`
	CreatedAt     string             `json:"created_at"`
	ServedAt      string             `json:"served_at,omitempty"`
}

func toOrderResponse(order *models.ActiveOrder) OrderResponse {
	var items []models.OrderItem
	if err := json.Unmarshal([]byte(order.ItemsJSON), &items); err != nil {
		// the column is only ever written from validated structs
		log.Printf("order %d has malformed items json: %v", order.ID, err)
	}

	resp := OrderResponse{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		Items:         items,
		TotalAmount:   order.TotalAmount,
		Status:        string(order.Status),
		CustomerPhone: order.CustomerPhone,
		TableNumber:   order.TableNumber,
		CreatedAt:     order.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if order.ServedAt != nil {
		resp.ServedAt = order.ServedAt.Format("2006-01-02 15:04:05")
	}
	return resp
}

// -------------------------
// Active Orders
// -------------------------

// GET /api/active-orders
func ListOrdersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		q := db.Where("restaurant_id = ?", restaurantID).Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}

		var orders []models.ActiveOrder
		if err := q.Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list orders")
		}

		resp := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, toOrderResponse(&orders[i]))
		}

		return respond.OK(c, resp)
	}
}

// GET /api/active-orders/:id
func GetOrderHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
		}

		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		var order models.ActiveOrder
		if err := db.Where("restaurant_id = ?", restaurantID).First(&order, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}

		return respond.OK(c, toOrderResponse(&order))
	}
}

// POST /api/active-orders
// The total is always recomputed server-side; any client-supplied total
// is ignored.
func CreateOrderHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "order needs at least one item")
		}

		total := int64(0)
		for i := range body.Items {
			body.Items[i].Name = strings.TrimSpace(body.Items[i].Name)
			item := body.Items[i]
			if item.Name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "every item needs a name")
			}
			if item.Price < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "item price cannot be negative")
			}
			if item.Quantity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "item quantity must be positive")
			}
			total += item.Subtotal()
		}

		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		itemsJSON, err := json.Marshal(body.Items)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "items could not be serialized")
		}

		order := models.ActiveOrder{
			RestaurantID:  restaurantID,
			OrderNumber:   newOrderNumber(),
			ItemsJSON:     string(itemsJSON),
			TotalAmount:   total,
			Status:        models.OrderPending,
			CustomerPhone: strings.TrimSpace(body.CustomerPhone),
			TableNumber:   strings.TrimSpace(body.TableNumber),
		}

		if err := db.Create(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "order could not be created")
		}

		userID, userName := auth.Identity(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			RestaurantID: &restaurantID,
			UserID:       userID,
			UserName:     userName,
			EntityType:   "active_order",
			EntityID:     order.ID,
			Action:       models.AuditActionCreate,
			Description:  fmt.Sprintf("Order %s created, total %d", order.OrderNumber, order.TotalAmount),
			After:        order,
		})

		return respond.Created(c, toOrderResponse(&order))
	}
}

// PATCH /api/active-orders/:id/status
// action=next advances pending->preparing->ready->served, action=cancel
// cancels any non-terminal order. Terminal orders reject both.
func UpdateStatusHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
		}

		var body StatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.Action != "next" && body.Action != "cancel" {
			return fiber.NewError(fiber.StatusBadRequest, "action must be 'next' or 'cancel'")
		}

		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		var order models.ActiveOrder
		if err := db.Where("restaurant_id = ?", restaurantID).First(&order, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}

		if IsTerminal(order.Status) {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("order is already %s", order.Status))
		}

		oldStatus := order.Status
		var newStatus models.OrderStatus
		if body.Action == "cancel" {
			newStatus = models.OrderCancelled
		} else {
			next, ok := NextStatus(order.Status)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "order cannot advance further")
			}
			newStatus = next
		}

		updates := map[string]any{"status": newStatus}
		var servedAt *time.Time
		if newStatus == models.OrderServed {
			now := time.Now()
			servedAt = &now
			updates["served_at"] = servedAt
		}

		// guard against a concurrent transition on the same order
		res := db.Model(&order).Where("status = ?", oldStatus).Updates(updates)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "status could not be updated")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusConflict, "order status changed concurrently, retry")
		}
		order.Status = newStatus
		if servedAt != nil {
			order.ServedAt = servedAt
		}

		// Loyalty accrual is best-effort: a failure here never rolls back
		// the serve.
		if newStatus == models.OrderServed && order.CustomerPhone != "" {
			if _, err := loyalty.AccrueFromOrder(db, restaurantID, order.CustomerPhone, order.TotalAmount); err != nil {
				log.Printf("loyalty accrual failed for order %s: %v", order.OrderNumber, err)
			}
		}

		userID, userName := auth.Identity(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			RestaurantID: &restaurantID,
			UserID:       userID,
			UserName:     userName,
			EntityType:   "active_order",
			EntityID:     order.ID,
			Action:       models.AuditActionUpdate,
			Description:  fmt.Sprintf("Order %s: %s -> %s", order.OrderNumber, oldStatus, newStatus),
		})

		return respond.OK(c, toOrderResponse(&order))
	}
}

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
