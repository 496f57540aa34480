package notifier

import (
	"context"

	"shop-backend/internal/model"
)

// Notifier dispatches the order-confirmation message. The orchestrator
// treats sends as fire-and-forget: errors are logged there, never
// propagated.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, toAddress string, order *model.Order, items []*model.OrderItem) error
}
