package service

import (
	"context"
	"fmt"
	"time"

	"store-service/internal/broker"
	"store-service/internal/models"
	"store-service/internal/store"
	"store-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutService turns a validated cart into a persisted order and
// announces it on the order events topic
type CheckoutService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(store *store.Store, eventPublisher *broker.EventPublisher) *CheckoutService {
	return &CheckoutService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// Checkout persists the cart as a PLACED order and publishes an
// OrderPlaced event. Callers validate the cart against the menu first;
// this only rejects an empty cart. Order numbers are random UUIDs rather
// than anything derived from the order contents.
func (s *CheckoutService) Checkout(ctx context.Context, cart *models.Cart) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Checkout")
	defer span.End()

	if cart.ItemCount == 0 {
		util.CheckoutsFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	}

	order := &models.Order{
		Number:      uuid.New().String(),
		TotalAmount: cart.TotalCost,
		ItemCount:   cart.ItemCount,
		Status:      models.OrderStatusPlaced,
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, models.OrderItem{
			Name:      line.Name,
			UnitPrice: line.Price,
			Quantity:  line.Quantity,
		})
	}

	if err := s.store.CreateOrder(ctx, order, items); err != nil {
		util.CheckoutsFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	util.CheckoutsCompletedTotal.Inc()
	s.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.String("order_number", order.Number),
		zap.Int64("total_amount", order.TotalAmount))

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderID:     order.ID,
		OrderNumber: order.Number,
		TotalAmount: order.TotalAmount,
		ItemCount:   order.ItemCount,
		Items:       orderLines(items),
	}

	if err := s.eventPublisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
	}

	return order, nil
}

// ConfirmOrder marks a placed order CONFIRMED and publishes the
// follow-up event. Invoked by the confirm worker.
func (s *CheckoutService) ConfirmOrder(ctx context.Context, event *models.OrderPlacedEvent) error {
	ctx, span := util.StartSpan(ctx, "CheckoutService.ConfirmOrder")
	defer span.End()

	if err := s.store.UpdateOrderStatus(ctx, event.OrderID, models.OrderStatusConfirmed); err != nil {
		return fmt.Errorf("failed to confirm order %d: %w", event.OrderID, err)
	}

	util.OrdersConfirmedTotal.Inc()
	s.logger.Info("Order confirmed",
		zap.Int64("order_id", event.OrderID),
		zap.String("order_number", event.OrderNumber))

	confirmed := &models.OrderConfirmedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderConfirmed,
			Timestamp: time.Now(),
		},
		OrderID:     event.OrderID,
		OrderNumber: event.OrderNumber,
	}

	if err := s.eventPublisher.PublishOrderConfirmed(ctx, confirmed); err != nil {
		s.logger.Error("Failed to publish OrderConfirmed event", zap.Error(err))
	}

	return nil
}

// GetOrder retrieves a persisted order with its items
func (s *CheckoutService) GetOrder(ctx context.Context, orderID int64) (*models.Order, []models.OrderItem, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.store.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	return order, items, nil
}

func orderLines(items []models.OrderItem) []models.OrderLineData {
	lines := make([]models.OrderLineData, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.OrderLineData{
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	return lines
}
