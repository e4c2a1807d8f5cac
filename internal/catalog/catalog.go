package catalog

import (
	"errors"
	"fmt"

	"store-service/internal/models"
)

// ErrItemNotFound is returned when a lookup names no menu item
var ErrItemNotFound = errors.New("item not found")

// Catalog is the fixed set of purchasable items. It is populated once at
// startup and never mutated, so it is safe for concurrent readers
// without synchronization.
type Catalog struct {
	byName map[string]models.FoodItem
	order  []string
}

type itemDef struct {
	name        string
	price       int64
	category    models.Category
	image       string
	description string
}

// The menu definition. Order here fixes the order of ByCategory results.
var menu = []itemDef{
	{"Pizza", 1, models.CategoryJunk, "pizza.jpg", "Delicious cheese pizza"},
	{"Fries", 1, models.CategoryJunk, "fries.jpg", "Crispy golden fries"},
	{"Cookie", 1, models.CategoryJunk, "cookie.jpg", "Sweet chocolate chip cookie"},
	{"Hotdog", 1, models.CategoryJunk, "hotdog.jpg", "Classic hotdog with mustard"},
	{"Chocolate", 1, models.CategoryJunk, "chocolate.jpg", "Rich milk chocolate bar"},
	{"Carrot", 2, models.CategoryHealthy, "carrot.jpg", "Fresh organic carrot"},
	{"Tomato", 2, models.CategoryHealthy, "tomato.jpg", "Ripe red tomato"},
	{"Corn", 2, models.CategoryHealthy, "corn.jpg", "Sweet corn on the cob"},
	{"Tea", 2, models.CategoryHealthy, "tea.jpg", "Healthy herbal tea"},
	{"Icecream", 2, models.CategoryJunk, "icecream.jpg", "Vanilla ice cream cone"},
}

// New builds the catalog from the fixed menu definition. A malformed
// definition is a programming error, so it panics rather than returning
// an error.
func New() *Catalog {
	c := &Catalog{
		byName: make(map[string]models.FoodItem, len(menu)),
		order:  make([]string, 0, len(menu)),
	}

	for _, def := range menu {
		item, err := models.NewFoodItem(def.name, def.price, def.category, def.image, def.description)
		if err != nil {
			panic(fmt.Sprintf("invalid menu definition for %q: %v", def.name, err))
		}
		if _, exists := c.byName[item.Name]; exists {
			panic(fmt.Sprintf("duplicate menu item: %q", item.Name))
		}
		c.byName[item.Name] = item
		c.order = append(c.order, item.Name)
	}

	return c
}

// All returns the full menu keyed by item name
func (c *Catalog) All() map[string]models.FoodItem {
	out := make(map[string]models.FoodItem, len(c.byName))
	for name, item := range c.byName {
		out[name] = item
	}
	return out
}

// ByCategory returns the items in a category, in menu definition order
func (c *Catalog) ByCategory(category models.Category) []models.FoodItem {
	items := make([]models.FoodItem, 0, len(c.order))
	for _, name := range c.order {
		if item := c.byName[name]; item.Category == category {
			items = append(items, item)
		}
	}
	return items
}

// Get looks up an item by exact name. Names are canonicalized to title
// case when the catalog is built; callers must match that casing.
func (c *Catalog) Get(name string) (models.FoodItem, error) {
	item, ok := c.byName[name]
	if !ok {
		return models.FoodItem{}, fmt.Errorf("%w: %q", ErrItemNotFound, name)
	}
	return item, nil
}

// Len returns the number of menu items
func (c *Catalog) Len() int {
	return len(c.order)
}
