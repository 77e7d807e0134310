package respond

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// Envelope is the uniform response shape of every endpoint:
// { success, data?, error? }.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func OK(c *fiber.Ctx, data any) error {
	return c.JSON(Envelope{Success: true, Data: data})
}

func Created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Data: data})
}

// ErrorHandler translates handler errors into the envelope. Anything
// that is not a *fiber.Error is logged server-side and surfaced as a
// generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(Envelope{Success: false, Error: e.Message})
	}
	log.Println("unexpected error:", err)
	return c.Status(fiber.StatusInternalServerError).JSON(Envelope{
		Success: false,
		Error:   "internal server error",
	})
}
