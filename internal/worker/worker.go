package worker

import (
	"context"

	"store-service/internal/broker"
	"store-service/internal/service"
	"store-service/internal/util"

	"go.uber.org/zap"
)

// ConfirmWorker consumes OrderPlaced events and confirms the orders
type ConfirmWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewConfirmWorker creates a new confirm worker
func NewConfirmWorker(
	consumer *broker.Consumer,
	checkoutService *service.CheckoutService,
) *ConfirmWorker {
	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderPlaced(checkoutService.ConfirmOrder)

	return &ConfirmWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		logger:       util.GetLogger(),
	}
}

// Start starts the worker
func (w *ConfirmWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting confirm worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ConfirmWorker) Stop() error {
	w.logger.Info("Stopping confirm worker")
	return w.consumer.Close()
}
