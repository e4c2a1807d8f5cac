package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category classifies menu items
type Category string

const (
	CategoryJunk    Category = "junk"
	CategoryHealthy Category = "healthy"
)

// ParseCategory converts a raw string into a Category
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryJunk, CategoryHealthy:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown category: %q", s)
}

var (
	nameRe  = regexp.MustCompile(`^[a-zA-Z0-9 ]+$`)
	imageRe = regexp.MustCompile(`\.(jpg|png|gif)$`)
)

// FoodItem represents an item on the menu. Prices are in the smallest
// currency unit.
type FoodItem struct {
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Category    Category `json:"category"`
	Image       string   `json:"image"`
	Description string   `json:"description,omitempty"`
}

// NewFoodItem validates item attributes and canonicalizes the name to
// title case. Lookups elsewhere are exact-match, so canonicalization
// happens here and only here.
func NewFoodItem(name string, price int64, category Category, image, description string) (FoodItem, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 50 {
		return FoodItem{}, fmt.Errorf("item name must be 1-50 characters")
	}
	if !nameRe.MatchString(name) {
		return FoodItem{}, fmt.Errorf("item name must contain only alphanumeric characters and spaces: %q", name)
	}
	if price <= 0 {
		return FoodItem{}, fmt.Errorf("item price must be positive: %d", price)
	}
	if _, err := ParseCategory(string(category)); err != nil {
		return FoodItem{}, err
	}
	if !imageRe.MatchString(image) {
		return FoodItem{}, fmt.Errorf("item image must end in .jpg, .png or .gif: %q", image)
	}
	if len(description) > 200 {
		return FoodItem{}, fmt.Errorf("item description must be at most 200 characters")
	}

	// A cases.Caser is not safe for concurrent use, so build one per call
	return FoodItem{
		Name:        cases.Title(language.English).String(name),
		Price:       price,
		Category:    category,
		Image:       image,
		Description: description,
	}, nil
}

// CartLine is one distinct item's entry in a cart. Price and image are
// captured at add time, not re-derived from the catalog on read.
type CartLine struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
}

// Cart holds the per-session line items and their derived totals. The
// JSON shape is the session persistence contract and must round-trip
// losslessly.
type Cart struct {
	Items     []CartLine `json:"items"`
	TotalCost int64      `json:"total_cost"`
	ItemCount int        `json:"item_count"`
}

// NewCart returns an empty cart
func NewCart() *Cart {
	return &Cart{Items: []CartLine{}}
}

// AddItem adds one unit of the item. A repeat add accumulates quantity
// on the existing line instead of appending a duplicate. Capacity is not
// checked here; validation before persisting is the gate.
func (c *Cart) AddItem(item FoodItem) {
	for i := range c.Items {
		if c.Items[i].Name == item.Name {
			c.Items[i].Quantity++
			c.TotalCost += item.Price
			c.ItemCount++
			return
		}
	}

	c.Items = append(c.Items, CartLine{
		Name:     item.Name,
		Price:    item.Price,
		Image:    item.Image,
		Quantity: 1,
	})
	c.TotalCost += item.Price
	c.ItemCount++
}

// RemoveItem deletes the whole line for the named item, regardless of
// quantity. Returns false when no such line exists; absence is a valid
// outcome, not an error.
func (c *Cart) RemoveItem(name string) bool {
	for i := range c.Items {
		if c.Items[i].Name == name {
			c.TotalCost -= c.Items[i].Price * int64(c.Items[i].Quantity)
			c.ItemCount -= c.Items[i].Quantity
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the cart. Idempotent.
func (c *Cart) Clear() {
	c.Items = []CartLine{}
	c.TotalCost = 0
	c.ItemCount = 0
}

// Consistent reports whether the derived totals match the lines and no
// item name appears twice. Used when a cart is deserialized from the
// session store, which is validated rather than trusted.
func (c *Cart) Consistent() bool {
	var total int64
	var count int
	seen := make(map[string]struct{}, len(c.Items))

	for _, line := range c.Items {
		if line.Quantity <= 0 || line.Price <= 0 {
			return false
		}
		if _, dup := seen[line.Name]; dup {
			return false
		}
		seen[line.Name] = struct{}{}
		total += line.Price * int64(line.Quantity)
		count += line.Quantity
	}

	return total == c.TotalCost && count == c.ItemCount
}

// Order represents a checked-out cart persisted to the database
type Order struct {
	ID          int64     `db:"id" json:"id"`
	Number      string    `db:"number" json:"number"`
	TotalAmount int64     `db:"total_amount" json:"total_amount"`
	ItemCount   int       `db:"item_count" json:"item_count"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// OrderItem represents one line of a persisted order
type OrderItem struct {
	ID        int64  `db:"id" json:"id"`
	OrderID   int64  `db:"order_id" json:"order_id"`
	Name      string `db:"name" json:"name"`
	UnitPrice int64  `db:"unit_price" json:"unit_price"`
	Quantity  int    `db:"quantity" json:"quantity"`
}

// Order statuses
const (
	OrderStatusPlaced    = "PLACED"
	OrderStatusConfirmed = "CONFIRMED"
)
