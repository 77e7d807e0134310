package delivery

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dinehub-backend/internal/audit"
	"dinehub-backend/internal/auth"
	"dinehub-backend/internal/models"
	"dinehub-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// -------------------------
// Request/Response Types
// -------------------------

type CreatePersonRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type UpdatePersonRequest struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	IsAvailable *bool   `json:"is_available"`
}

type PersonResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	IsAvailable bool   `json:"is_available"`
}

type CreateDeliveryRequest struct {
	OrderID          uint   `json:"order_id"`
	Address          string `json:"address"`
	DeliveryPersonID *uint  `json:"delivery_person_id"` // optional, auto-assign when empty
}

type DeliveryStatusRequest struct {
	Status string `json:"status"` // picked_up or delivered
}

type DeliveryResponse struct {
	ID             uint   `json:"id"`
	Code           string `json:"code"`
	OrderID        uint   `json:"order_id"`
	OrderNumber    string `json:"order_number,omitempty"`
	PersonID       uint   `json:"delivery_person_id"`
	PersonName     string `json:"delivery_person_name,omitempty"`
	Address        string `json:"address"`
	Status         string `json:"status"`
	DeliveredAt    string `json:"delivered_at,omitempty"`
	CreatedAt      string `json:"created_at"`
}

func toPersonResponse(p *models.DeliveryPerson) PersonResponse {
	return PersonResponse{
		ID:          p.ID,
		Name:        p.Name,
		Phone:       p.Phone,
		IsAvailable: p.IsAvailable,
	}
}

func toDeliveryResponse(d *models.Delivery) DeliveryResponse {
	resp := DeliveryResponse{
		ID:          d.ID,
		Code:        d.Code,
		OrderID:     d.OrderID,
		OrderNumber: d.Order.OrderNumber,
		PersonID:    d.DeliveryPersonID,
		PersonName:  d.DeliveryPerson.Name,
		Address:     d.Address,
		Status:      string(d.Status),
		CreatedAt:   d.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if d.DeliveredAt != nil {
		resp.DeliveredAt = d.DeliveredAt.Format("2006-01-02 15:04:05")
	}
	return resp
}

// -------------------------
// Delivery Persons
// -------------------------

// GET /api/delivery-persons
func ListPersonsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		q := db.Where("restaurant_id = ?", restaurantID).Order("name asc")
		if c.Query("available") == "true" {
			q = q.Where("is_available = ?", true)
		}

		var persons []models.DeliveryPerson
		if err := q.Find(&persons).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list delivery persons")
		}

		resp := make([]PersonResponse, 0, len(persons))
		for i := range persons {
			resp = append(resp, toPersonResponse(&persons[i]))
		}

		return respond.OK(c, resp)
	}
}

// POST /api/delivery-persons
func CreatePersonHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePersonRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}

		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		person := models.DeliveryPerson{
			RestaurantID: restaurantID,
			Name:         body.Name,
			Phone:        strings.TrimSpace(body.Phone),
			IsAvailable:  true,
		}
		if err := db.Create(&person).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "delivery person could not be created")
		}

		return respond.Created(c, toPersonResponse(&person))
	}
}

// PATCH /api/delivery-persons/:id
func UpdatePersonHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid delivery person id")
		}

		var body UpdatePersonRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		var person models.DeliveryPerson
		if err := db.Where("restaurant_id = ?", restaurantID).First(&person, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "delivery person not found")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name cannot be empty")
			}
			person.Name = name
		}
		if body.Phone != nil {
			person.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.IsAvailable != nil {
			person.IsAvailable = *body.IsAvailable
		}

		if err := db.Save(&person).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "delivery person could not be updated")
		}

		return respond.OK(c, toPersonResponse(&person))
	}
}

// -------------------------
// Deliveries
// -------------------------

// GET /api/deliveries
func ListDeliveriesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		q := db.Preload("Order").Preload("DeliveryPerson").
			Where("restaurant_id = ?", restaurantID).
			Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}

		var deliveries []models.Delivery
		if err := q.Find(&deliveries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list deliveries")
		}

		resp := make([]DeliveryResponse, 0, len(deliveries))
		for i := range deliveries {
			resp = append(resp, toDeliveryResponse(&deliveries[i]))
		}

		return respond.OK(c, resp)
	}
}

var errNoCourier = errors.New("no available delivery person")

// POST /api/deliveries
// Assigns a courier in the same transaction that creates the delivery,
// so one courier can never be handed two deliveries at once.
func CreateDeliveryHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDeliveryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.Address = strings.TrimSpace(body.Address)
		if body.OrderID == 0 || body.Address == "" {
			return fiber.NewError(fiber.StatusBadRequest, "order_id and address are required")
		}

		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		var order models.ActiveOrder
		if err := db.Where("restaurant_id = ?", restaurantID).First(&order, body.OrderID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		if order.Status == models.OrderCancelled {
			return fiber.NewError(fiber.StatusBadRequest, "cancelled orders cannot be delivered")
		}

		var count int64
		db.Model(&models.Delivery{}).Where("order_id = ?", order.ID).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "order already has a delivery")
		}

		var delivery models.Delivery
		err = db.Transaction(func(tx *gorm.DB) error {
			var person models.DeliveryPerson
			q := tx.Where("restaurant_id = ? AND is_available = ?", restaurantID, true)
			if body.DeliveryPersonID != nil {
				q = q.Where("id = ?", *body.DeliveryPersonID)
			}
			if err := q.Order("id asc").First(&person).Error; err != nil {
				return errNoCourier
			}

			res := tx.Model(&models.DeliveryPerson{}).
				Where("id = ? AND is_available = ?", person.ID, true).
				Update("is_available", false)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errNoCourier
			}

			delivery = models.Delivery{
				RestaurantID:     restaurantID,
				OrderID:          order.ID,
				DeliveryPersonID: person.ID,
				Code:             newDeliveryCode(),
				Address:          body.Address,
				Status:           models.DeliveryAssigned,
			}
			if err := tx.Create(&delivery).Error; err != nil {
				return err
			}

			delivery.Order = order
			delivery.DeliveryPerson = person
			return nil
		})
		if err != nil {
			if errors.Is(err, errNoCourier) {
				return fiber.NewError(fiber.StatusBadRequest, "no available delivery person")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "delivery could not be created")
		}

		userID, userName := auth.Identity(c)
		_ = audit.WriteLog(db, audit.LogOptions{
			RestaurantID: &restaurantID,
			UserID:       userID,
			UserName:     userName,
			EntityType:   "delivery",
			EntityID:     delivery.ID,
			Action:       models.AuditActionCreate,
			Description:  fmt.Sprintf("Delivery %s assigned to %s", delivery.Code, delivery.DeliveryPerson.Name),
			After:        delivery,
		})

		return respond.Created(c, toDeliveryResponse(&delivery))
	}
}

// PATCH /api/deliveries/:id/status
// assigned -> picked_up -> delivered; reaching delivered frees the
// courier.
func UpdateDeliveryStatusHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid delivery id")
		}

		var body DeliveryStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		var delivery models.Delivery
		if err := db.Preload("Order").Preload("DeliveryPerson").
			Where("restaurant_id = ?", restaurantID).First(&delivery, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "delivery not found")
		}

		newStatus := models.DeliveryStatus(body.Status)
		valid := (delivery.Status == models.DeliveryAssigned && newStatus == models.DeliveryPickedUp) ||
			(delivery.Status == models.DeliveryPickedUp && newStatus == models.DeliveryDelivered)
		if !valid {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("cannot move delivery from %s to %s", delivery.Status, body.Status))
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			delivery.Status = newStatus
			if newStatus == models.DeliveryDelivered {
				now := time.Now()
				delivery.DeliveredAt = &now
			}
			if err := tx.Save(&delivery).Error; err != nil {
				return err
			}

			if newStatus == models.DeliveryDelivered {
				return tx.Model(&models.DeliveryPerson{}).
					Where("id = ?", delivery.DeliveryPersonID).
					Update("is_available", true).Error
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "delivery could not be updated")
		}

		return respond.OK(c, toDeliveryResponse(&delivery))
	}
}

func newDeliveryCode() string {
	return "DLV-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
