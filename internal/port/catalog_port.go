package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

type Catalog interface {
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
	ListProducts(ctx context.Context, limit int) ([]domain.Product, error)
	ListProductsByCategory(ctx context.Context, category string, limit int) ([]domain.Product, error)
}
