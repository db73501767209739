package cart_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

var errStorageDown = errors.New("storage is down")

// flakyStorage wraps a storage and fails reads or writes on demand.
type flakyStorage struct {
	port.Storage

	mu        sync.Mutex
	failGet   bool
	failSet   bool
	setCalls  int
	strictCtx bool
}

func (s *flakyStorage) GetItem(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	fail := s.failGet
	strict := s.strictCtx
	s.mu.Unlock()

	if fail {
		return nil, errStorageDown
	}
	if strict && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return s.Storage.GetItem(ctx, key)
}

func (s *flakyStorage) SetItem(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.setCalls++
	fail := s.failSet
	strict := s.strictCtx
	s.mu.Unlock()

	if fail {
		return errStorageDown
	}
	if strict && ctx.Err() != nil {
		return ctx.Err()
	}
	return s.Storage.SetItem(ctx, key, value)
}

func (s *flakyStorage) setFailSet(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSet = fail
}

func (s *flakyStorage) setFailGet(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failGet = fail
}

func newStore(t *testing.T, storage port.Storage) *cart.Store {
	t.Helper()

	store, err := cart.NewStore(t.Context(), storage)
	require.NoError(t, err)

	return store
}

func randomProduct() domain.Product {
	return domain.Product{
		ID:       gofakeit.Int64(),
		Title:    gofakeit.ProductName(),
		Price:    domain.NewMoney(decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2)),
		Category: gofakeit.ProductCategory(),
		Image:    gofakeit.URL(),
	}
}

func product(id int64, title, price, image string) domain.Product {
	return domain.Product{
		ID:    id,
		Title: title,
		Price: domain.NewMoney(decimal.RequireFromString(price)),
		Image: image,
	}
}

func assertCart(t *testing.T, expected, actual domain.Cart) {
	t.Helper()

	opts := cmp.Options{
		cmp.Comparer(func(x, y decimal.Decimal) bool {
			return x.Equal(y)
		}),
		cmp.Comparer(func(x, y currency.Unit) bool {
			return x.String() == y.String()
		}),
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)
}

func assertMoney(t *testing.T, expected string, actual domain.Money) {
	t.Helper()

	assert.Equal(t, expected, actual.Amount.StringFixed(2))
}
