// Package cart holds the shopping cart state of one visitor session: the line
// items, the operations that change them and the totals derived from them.
//
// A Store persists the full cart after every mutation. Persistence is best
// effort: a failed write is logged and recorded, and the in-memory cart stays
// authoritative for the life of the process.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

const defaultPersistTimeout = 5 * time.Second

var ErrEmptyCart = errors.New("cart is empty")

type Store struct {
	storage        port.Storage
	logger         *slog.Logger
	persistTimeout time.Duration

	mu         sync.Mutex
	cart       domain.Cart
	persistErr error

	subsMu      sync.Mutex
	subscribers []subscriber
	nextSubID   int
}

type subscriber struct {
	id int
	fn func(domain.Cart)
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithPersistTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.persistTimeout = d
		}
	}
}

// NewStore loads the cart saved under StorageKey. Missing or malformed state
// yields an empty cart. A failed read is returned as an error so the saved
// cart is never replaced by an empty one.
func NewStore(ctx context.Context, storage port.Storage, opts ...Option) (*Store, error) {
	s := &Store{
		storage:        storage,
		logger:         slog.Default(),
		persistTimeout: defaultPersistTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	cart, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.cart = cart

	return s, nil
}

func (s *Store) load(ctx context.Context) (domain.Cart, error) {
	readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout)
	defer cancel()

	data, err := s.storage.GetItem(readCtx, StorageKey)
	if errors.Is(err, port.ErrNotFound) {
		return domain.Cart{}, nil
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("storage.GetItem: %w", err)
	}

	cart, err := decodeCart(data)
	if err != nil {
		s.logger.WarnContext(ctx, "discarding malformed cart state", "error", err)
		return domain.Cart{}, nil
	}

	return cart, nil
}

// AddToCart inserts product with quantity 1, or increments the quantity of
// the existing line item. The increment saturates at math.MaxInt. The display
// metadata of an existing line is kept.
func (s *Store) AddToCart(ctx context.Context, product domain.Product) {
	s.mutate(ctx, "add", func(cart *domain.Cart) {
		if i := cart.Find(product.ID); i >= 0 {
			if cart.Items[i].Quantity < math.MaxInt {
				cart.Items[i].Quantity++
			}
			return
		}

		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.Price,
			Image:     product.Image,
			Quantity:  1,
		})
	})
}

func (s *Store) RemoveFromCart(ctx context.Context, productID int64) {
	s.mutate(ctx, "remove", func(cart *domain.Cart) {
		if i := cart.Find(productID); i >= 0 {
			cart.Items = append(cart.Items[:i:i], cart.Items[i+1:]...)
		}
	})
}

// UpdateQuantity sets the quantity of an existing line item. A quantity of
// zero or less removes the item.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int) {
	if quantity <= 0 {
		s.RemoveFromCart(ctx, productID)
		return
	}

	s.mutate(ctx, "update", func(cart *domain.Cart) {
		if i := cart.Find(productID); i >= 0 {
			cart.Items[i].Quantity = quantity
		}
	})
}

func (s *Store) ClearCart(ctx context.Context) {
	s.mutate(ctx, "clear", func(cart *domain.Cart) {
		cart.Items = nil
	})
}

// Checkout empties the cart and returns what it held, in one step: an item
// added concurrently lands either in the returned cart or in the next one.
// An empty cart yields ErrEmptyCart and is left untouched.
func (s *Store) Checkout(ctx context.Context) (domain.Cart, error) {
	s.mu.Lock()
	if s.cart.IsEmpty() {
		s.mu.Unlock()
		return domain.Cart{}, ErrEmptyCart
	}
	ordered := s.cart.Clone()
	s.cart.Items = nil
	s.persistErr = s.persist(ctx, "checkout", domain.Cart{})
	s.mu.Unlock()

	s.notify(domain.Cart{})

	return ordered, nil
}

func (s *Store) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Clone()
}

func (s *Store) CartTotal() domain.Money {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Total()
}

func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.ItemCount()
}

// LastPersistErr reports the outcome of the most recent write to storage.
func (s *Store) LastPersistErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.persistErr
}

// Subscribe registers fn to be called with a snapshot of the cart after every
// mutation, before the mutating call returns.
func (s *Store) Subscribe(fn func(domain.Cart)) (unsubscribe func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()

		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) mutate(ctx context.Context, op string, fn func(cart *domain.Cart)) {
	s.mu.Lock()
	fn(&s.cart)
	if len(s.cart.Items) == 0 {
		s.cart.Items = nil
	}
	snapshot := s.cart.Clone()
	s.persistErr = s.persist(ctx, op, snapshot)
	s.mu.Unlock()

	s.notify(snapshot)
}

// persist must not depend on the caller still waiting: a request that goes
// away mid-mutation still gets its change written.
func (s *Store) persist(ctx context.Context, op string, cart domain.Cart) error {
	data, err := encodeCart(cart)
	if err != nil {
		s.logger.ErrorContext(ctx, "encode cart", "op", op, "error", err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout)
	defer cancel()

	if err := s.storage.SetItem(ctx, StorageKey, data); err != nil {
		s.logger.ErrorContext(ctx, "persist cart", "op", op, "error", err)
		return err
	}

	return nil
}

func (s *Store) notify(cart domain.Cart) {
	s.subsMu.Lock()
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.subsMu.Unlock()

	for _, sub := range subs {
		sub.fn(cart.Clone())
	}
}
