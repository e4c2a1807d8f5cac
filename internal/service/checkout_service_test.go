package service

import (
	"context"
	"testing"

	"store-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	svc := NewCheckoutService(nil, nil)

	_, err := svc.Checkout(context.Background(), models.NewCart())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrderLines(t *testing.T) {
	items := []models.OrderItem{
		{Name: "Pizza", UnitPrice: 1, Quantity: 3},
		{Name: "Carrot", UnitPrice: 2, Quantity: 1},
	}

	lines := orderLines(items)

	require.Len(t, lines, 2)
	assert.Equal(t, models.OrderLineData{Name: "Pizza", UnitPrice: 1, Quantity: 3}, lines[0])
	assert.Equal(t, models.OrderLineData{Name: "Carrot", UnitPrice: 2, Quantity: 1}, lines[1])
}

func TestCheckoutPersistsAndPublishes(t *testing.T) {
	// Requires database and Kafka; covered by integration environments
	t.Skip("Integration test - requires database and Kafka")
}
