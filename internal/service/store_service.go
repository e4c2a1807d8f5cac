package service

import (
	"fmt"

	"store-service/internal/catalog"
	"store-service/internal/models"
	"store-service/internal/util"

	"go.uber.org/zap"
)

// StoreService exposes the menu and validates carts against it
type StoreService struct {
	catalog  *catalog.Catalog
	maxItems int
	logger   *zap.Logger
}

// NewStoreService creates a new store service
func NewStoreService(cat *catalog.Catalog, maxItems int) *StoreService {
	return &StoreService{
		catalog:  cat,
		maxItems: maxItems,
		logger:   util.GetLogger(),
	}
}

// Menu returns the full menu keyed by item name
func (s *StoreService) Menu() map[string]models.FoodItem {
	return s.catalog.All()
}

// MenuByCategory returns the menu items for one category, in menu order
func (s *StoreService) MenuByCategory(category models.Category) []models.FoodItem {
	return s.catalog.ByCategory(category)
}

// GetItem looks up a single menu item by canonical name
func (s *StoreService) GetItem(name string) (models.FoodItem, error) {
	item, err := s.catalog.Get(name)
	if err != nil {
		s.logger.Warn("Menu lookup failed", zap.String("item", name))
		return models.FoodItem{}, err
	}
	return item, nil
}

// ValidateCart cross-checks a cart against the menu and the configured
// capacity. It is the sole gate before a mutated cart is persisted:
// AddItem may transiently push the cart over the limit, and a cart that
// fails here must not be saved.
func (s *StoreService) ValidateCart(cart *models.Cart) error {
	if cart.ItemCount > s.maxItems {
		util.CartValidationFailures.WithLabelValues("too_large").Inc()
		return fmt.Errorf("%w: %d > %d", ErrCartTooLarge, cart.ItemCount, s.maxItems)
	}

	for _, line := range cart.Items {
		if _, err := s.catalog.Get(line.Name); err != nil {
			util.CartValidationFailures.WithLabelValues("unknown_item").Inc()
			return fmt.Errorf("%w: %q", ErrItemNotInMenu, line.Name)
		}
	}

	return nil
}
