package reservations

import (
	"strings"
	"time"

	"dinehub-backend/internal/auth"
	"dinehub-backend/internal/models"
	"dinehub-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateReservationRequest struct {
	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
	ReservedAt   string `json:"reserved_at"` // "2025-12-09 19:30"
	PartySize    int    `json:"party_size"`
	Note         string `json:"note"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type ReservationResponse struct {
	ID           uint   `json:"id"`
	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
	ReservedAt   string `json:"reserved_at"`
	PartySize    int    `json:"party_size"`
	Status       string `json:"status"`
	Note         string `json:"note"`
}

func toReservationResponse(r *models.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:           r.ID,
		CustomerName: r.CustomerName,
		Phone:        r.Phone,
		ReservedAt:   r.ReservedAt.Format("2006-01-02 15:04"),
		PartySize:    r.PartySize,
		Status:       string(r.Status),
		Note:         r.Note,
	}
}

// GET /api/reservations
func ListReservationsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		q := db.Where("restaurant_id = ?", restaurantID).Order("reserved_at asc")
		if dateStr := c.Query("date"); dateStr != "" {
			day, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be 'YYYY-MM-DD'")
			}
			q = q.Where("reserved_at >= ? AND reserved_at < ?", day, day.AddDate(0, 0, 1))
		}

		var reservations []models.Reservation
		if err := q.Find(&reservations).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list reservations")
		}

		resp := make([]ReservationResponse, 0, len(reservations))
		for i := range reservations {
			resp = append(resp, toReservationResponse(&reservations[i]))
		}

		return respond.OK(c, resp)
	}
}

// POST /api/reservations
func CreateReservationHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateReservationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		body.CustomerName = strings.TrimSpace(body.CustomerName)
		if body.CustomerName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "customer_name is required")
		}
		if body.PartySize <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "party_size must be positive")
		}

		reservedAt, err := time.Parse("2006-01-02 15:04", body.ReservedAt)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "reserved_at must be 'YYYY-MM-DD HH:MM'")
		}

		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		reservation := models.Reservation{
			RestaurantID: restaurantID,
			CustomerName: body.CustomerName,
			Phone:        strings.TrimSpace(body.Phone),
			ReservedAt:   reservedAt,
			PartySize:    body.PartySize,
			Status:       models.ReservationBooked,
			Note:         strings.TrimSpace(body.Note),
		}
		if err := db.Create(&reservation).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "reservation could not be created")
		}

		return respond.Created(c, toReservationResponse(&reservation))
	}
}

// PATCH /api/reservations/:id/status
// booked can move to seated, cancelled or no_show; all three are
// terminal.
func UpdateReservationStatusHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid reservation id")
		}

		var body StatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		newStatus := models.ReservationStatus(body.Status)
		switch newStatus {
		case models.ReservationSeated, models.ReservationCancelled, models.ReservationNoShow:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "status must be seated, cancelled or no_show")
		}

		restaurantID, err := auth.RestaurantID(c)
		if err != nil {
			return err
		}

		var reservation models.Reservation
		if err := db.Where("restaurant_id = ?", restaurantID).First(&reservation, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "reservation not found")
		}

		if reservation.Status != models.ReservationBooked {
			return fiber.NewError(fiber.StatusBadRequest, "reservation is no longer open")
		}

		reservation.Status = newStatus
		if err := db.Save(&reservation).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "reservation could not be updated")
		}

		return respond.OK(c, toReservationResponse(&reservation))
	}
}
