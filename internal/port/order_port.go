package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, order domain.Order) error
}
