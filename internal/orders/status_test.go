package orders

import (
	"testing"

	"dinehub-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNextStatus_Chain(t *testing.T) {
	s := models.OrderPending
	want := []models.OrderStatus{models.OrderPreparing, models.OrderReady, models.OrderServed}

	for _, expected := range want {
		next, ok := NextStatus(s)
		assert.True(t, ok)
		assert.Equal(t, expected, next)
		s = next
	}

	_, ok := NextStatus(models.OrderServed)
	assert.False(t, ok, "served has no next status")
	_, ok = NextStatus(models.OrderCancelled)
	assert.False(t, ok, "cancelled has no next status")
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(models.OrderServed))
	assert.True(t, IsTerminal(models.OrderCancelled))
	assert.False(t, IsTerminal(models.OrderPending))
	assert.False(t, IsTerminal(models.OrderPreparing))
	assert.False(t, IsTerminal(models.OrderReady))
}
