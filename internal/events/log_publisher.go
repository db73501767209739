package events

import (
	"context"
	"log/slog"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type logPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher announces placed orders in the application log only.
func NewLogPublisher(logger *slog.Logger) port.OrderPublisher {
	return &logPublisher{logger: logger}
}

func (p *logPublisher) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	ev := NewOrderPlaced(order)

	p.logger.InfoContext(ctx, "Order Placed",
		"order_id", ev.OrderID,
		"items", len(ev.Items),
		"total", ev.TotalAmount.String(),
		"currency", ev.Currency,
	)
	return nil
}
