package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"store-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCartRoundTrip(t *testing.T) {
	cart := models.NewCart()
	item, err := models.NewFoodItem("Pizza", 1, models.CategoryJunk, "pizza.jpg", "")
	require.NoError(t, err)
	cart.AddItem(item)
	cart.AddItem(item)

	data, err := json.Marshal(cart)
	require.NoError(t, err)

	decoded, err := DecodeCart(data)
	require.NoError(t, err)

	assert.Equal(t, cart.Items, decoded.Items)
	assert.Equal(t, cart.TotalCost, decoded.TotalCost)
	assert.Equal(t, cart.ItemCount, decoded.ItemCount)
}

func TestDecodeCartEmpty(t *testing.T) {
	decoded, err := DecodeCart([]byte(`{"items":null,"total_cost":0,"item_count":0}`))
	require.NoError(t, err)

	assert.NotNil(t, decoded.Items)
	assert.Empty(t, decoded.Items)
}

func TestDecodeCartRejectsGarbage(t *testing.T) {
	_, err := DecodeCart([]byte(`not json`))
	assert.Error(t, err)
}

func TestDecodeCartRejectsInconsistentTotals(t *testing.T) {
	// total_cost does not match the line
	data := []byte(`{"items":[{"name":"Pizza","price":1,"image":"pizza.jpg","quantity":2}],"total_cost":5,"item_count":2}`)
	_, err := DecodeCart(data)
	assert.Error(t, err)
}

func TestDecodeCartRejectsDuplicateLines(t *testing.T) {
	data := []byte(`{"items":[{"name":"Pizza","price":1,"image":"pizza.jpg","quantity":1},{"name":"Pizza","price":1,"image":"pizza.jpg","quantity":1}],"total_cost":2,"item_count":2}`)
	_, err := DecodeCart(data)
	assert.Error(t, err)
}

func TestDecodeCartRejectsNonPositiveQuantity(t *testing.T) {
	data := []byte(`{"items":[{"name":"Pizza","price":1,"image":"pizza.jpg","quantity":0}],"total_cost":0,"item_count":0}`)
	_, err := DecodeCart(data)
	assert.Error(t, err)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	t.Skip("Integration test - requires Redis")

	store, err := NewRedisStore("localhost:6379", "", 0, time.Hour)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	cart := models.NewCart()
	item, err := models.NewFoodItem("Pizza", 1, models.CategoryJunk, "pizza.jpg", "")
	require.NoError(t, err)
	cart.AddItem(item)

	require.NoError(t, store.Save(ctx, "test-sid", cart))

	loaded, err := store.Load(ctx, "test-sid")
	require.NoError(t, err)
	assert.Equal(t, cart.Items, loaded.Items)

	require.NoError(t, store.Clear(ctx, "test-sid"))

	fresh, err := store.Load(ctx, "test-sid")
	require.NoError(t, err)
	assert.Empty(t, fresh.Items)
}
