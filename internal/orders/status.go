package orders

import "dinehub-backend/internal/models"

// The order lifecycle is a fixed linear chain. Cancellation is an
// explicit action from any non-terminal state, never part of "next".
var nextStatus = map[models.OrderStatus]models.OrderStatus{
	models.OrderPending:   models.OrderPreparing,
	models.OrderPreparing: models.OrderReady,
	models.OrderReady:     models.OrderServed,
}

func NextStatus(s models.OrderStatus) (models.OrderStatus, bool) {
	next, ok := nextStatus[s]
	return next, ok
}

func IsTerminal(s models.OrderStatus) bool {
	return s == models.OrderServed || s == models.OrderCancelled
}
