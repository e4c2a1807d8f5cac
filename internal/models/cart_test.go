package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItem(t *testing.T, name string, price int64) FoodItem {
	t.Helper()
	item, err := NewFoodItem(name, price, CategoryJunk, "test.jpg", "")
	require.NoError(t, err)
	return item
}

// checkInvariants verifies the derived totals against the lines
func checkInvariants(t *testing.T, cart *Cart) {
	t.Helper()

	var total int64
	var count int
	for _, line := range cart.Items {
		total += line.Price * int64(line.Quantity)
		count += line.Quantity
	}

	assert.Equal(t, total, cart.TotalCost, "total_cost must equal sum of price*quantity")
	assert.Equal(t, count, cart.ItemCount, "item_count must equal sum of quantities")
	assert.True(t, cart.Consistent())
}

func TestAddItemToEmptyCart(t *testing.T) {
	cart := NewCart()
	pizza := testItem(t, "Pizza", 1)

	cart.AddItem(pizza)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, CartLine{Name: "Pizza", Price: 1, Image: "test.jpg", Quantity: 1}, cart.Items[0])
	assert.Equal(t, int64(1), cart.TotalCost)
	assert.Equal(t, 1, cart.ItemCount)
	checkInvariants(t, cart)
}

func TestRepeatAddAccumulatesOnOneLine(t *testing.T) {
	cart := NewCart()
	pizza := testItem(t, "Pizza", 1)

	cart.AddItem(pizza)
	cart.AddItem(pizza)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, int64(2), cart.TotalCost)
	assert.Equal(t, 2, cart.ItemCount)
	checkInvariants(t, cart)
}

func TestAddItemNTimesYieldsOneLine(t *testing.T) {
	cart := NewCart()
	fries := testItem(t, "Fries", 1)

	for i := 0; i < 7; i++ {
		cart.AddItem(fries)
		checkInvariants(t, cart)
	}

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 7, cart.Items[0].Quantity)
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	cart := NewCart()
	cart.AddItem(testItem(t, "Pizza", 1))
	cart.AddItem(testItem(t, "Carrot", 2))
	cart.AddItem(testItem(t, "Pizza", 1))
	cart.AddItem(testItem(t, "Tea", 2))

	require.Len(t, cart.Items, 3)
	assert.Equal(t, "Pizza", cart.Items[0].Name)
	assert.Equal(t, "Carrot", cart.Items[1].Name)
	assert.Equal(t, "Tea", cart.Items[2].Name)
	checkInvariants(t, cart)
}

func TestRemoveItemRemovesWholeLine(t *testing.T) {
	cart := NewCart()
	pizza := testItem(t, "Pizza", 1)

	cart.AddItem(pizza)
	cart.AddItem(pizza)
	cart.AddItem(pizza)

	removed := cart.RemoveItem("Pizza")

	// Removal takes the whole line at once, not one unit
	assert.True(t, removed)
	assert.Empty(t, cart.Items)
	assert.Equal(t, int64(0), cart.TotalCost)
	assert.Equal(t, 0, cart.ItemCount)
	checkInvariants(t, cart)
}

func TestRemoveItemLeavesOtherLines(t *testing.T) {
	cart := NewCart()
	cart.AddItem(testItem(t, "Pizza", 1))
	cart.AddItem(testItem(t, "Carrot", 2))
	cart.AddItem(testItem(t, "Carrot", 2))

	removed := cart.RemoveItem("Carrot")

	assert.True(t, removed)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Pizza", cart.Items[0].Name)
	assert.Equal(t, int64(1), cart.TotalCost)
	assert.Equal(t, 1, cart.ItemCount)
	checkInvariants(t, cart)
}

func TestRemoveMissingItemReturnsFalse(t *testing.T) {
	cart := NewCart()
	cart.AddItem(testItem(t, "Pizza", 1))

	removed := cart.RemoveItem("Carrot")

	assert.False(t, removed)
	assert.Equal(t, 1, cart.ItemCount)
	checkInvariants(t, cart)
}

func TestClearIsIdempotent(t *testing.T) {
	cart := NewCart()
	cart.AddItem(testItem(t, "Pizza", 1))
	cart.AddItem(testItem(t, "Tea", 2))

	cart.Clear()
	once := *cart
	cart.Clear()

	assert.Equal(t, once, *cart)
	assert.Empty(t, cart.Items)
	assert.Equal(t, int64(0), cart.TotalCost)
	assert.Equal(t, 0, cart.ItemCount)
	checkInvariants(t, cart)
}

func TestInvariantsHoldAcrossMixedOperations(t *testing.T) {
	cart := NewCart()
	pizza := testItem(t, "Pizza", 1)
	carrot := testItem(t, "Carrot", 2)
	tea := testItem(t, "Tea", 2)

	ops := []func(){
		func() { cart.AddItem(pizza) },
		func() { cart.AddItem(carrot) },
		func() { cart.AddItem(pizza) },
		func() { cart.RemoveItem("Pizza") },
		func() { cart.AddItem(tea) },
		func() { cart.RemoveItem("Hotdog") },
		func() { cart.AddItem(carrot) },
		func() { cart.Clear() },
		func() { cart.AddItem(tea) },
	}

	for _, op := range ops {
		op()
		checkInvariants(t, cart)
	}
}

func TestCartJSONRoundTrip(t *testing.T) {
	cart := NewCart()
	cart.AddItem(testItem(t, "Pizza", 1))
	cart.AddItem(testItem(t, "Pizza", 1))
	cart.AddItem(testItem(t, "Carrot", 2))

	data, err := json.Marshal(cart)
	require.NoError(t, err)

	var decoded Cart
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, cart.Items, decoded.Items)
	assert.Equal(t, cart.TotalCost, decoded.TotalCost)
	assert.Equal(t, cart.ItemCount, decoded.ItemCount)
	assert.True(t, decoded.Consistent())
}

func TestCartJSONFieldNames(t *testing.T) {
	cart := NewCart()
	cart.AddItem(testItem(t, "Pizza", 1))

	data, err := json.Marshal(cart)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Contains(t, raw, "items")
	assert.Contains(t, raw, "total_cost")
	assert.Contains(t, raw, "item_count")

	line := raw["items"].([]interface{})[0].(map[string]interface{})
	assert.Contains(t, line, "name")
	assert.Contains(t, line, "price")
	assert.Contains(t, line, "image")
	assert.Contains(t, line, "quantity")
}

func TestConsistentDetectsTampering(t *testing.T) {
	cart := NewCart()
	cart.AddItem(testItem(t, "Pizza", 1))
	require.True(t, cart.Consistent())

	tampered := *cart
	tampered.TotalCost = 100
	assert.False(t, tampered.Consistent())

	tampered = *cart
	tampered.ItemCount = 9
	assert.False(t, tampered.Consistent())

	duplicated := Cart{
		Items: []CartLine{
			{Name: "Pizza", Price: 1, Quantity: 1},
			{Name: "Pizza", Price: 1, Quantity: 1},
		},
		TotalCost: 2,
		ItemCount: 2,
	}
	assert.False(t, duplicated.Consistent())
}
