// Package checkout turns a cart into a placed order. There is no payment
// step: the card number on the form is accepted and dropped.
package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
)

var ErrEmptyCart = cart.ErrEmptyCart

type Form struct {
	Email      string
	Name       string
	Address    string
	CardNumber string
}

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}

	return "invalid checkout form: " + strings.Join(parts, "; ")
}

func (f Form) normalize() Form {
	return Form{
		Email:      strings.TrimSpace(f.Email),
		Name:       strings.TrimSpace(f.Name),
		Address:    strings.TrimSpace(f.Address),
		CardNumber: f.CardNumber,
	}
}

func (f Form) validate() error {
	fields := make(map[string]string)

	if f.Email == "" {
		fields["email"] = "is required"
	} else if addr, err := mail.ParseAddress(f.Email); err != nil || addr.Address != f.Email {
		fields["email"] = "is not a valid email address"
	}
	if f.Name == "" {
		fields["name"] = "is required"
	}
	if f.Address == "" {
		fields["address"] = "is required"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

type Service struct {
	publisher port.OrderPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(publisher port.OrderPublisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// PlaceOrder validates form, takes the cart contents and empties the cart in
// one step, then announces the order. Publishing is best effort: a failed
// publish is logged and the order still completes.
func (s *Service) PlaceOrder(ctx context.Context, store *cart.Store, form Form) (domain.Order, error) {
	// an empty cart is reported before form errors
	if store.Cart().IsEmpty() {
		return domain.Order{}, ErrEmptyCart
	}

	form = form.normalize()
	if err := form.validate(); err != nil {
		return domain.Order{}, err
	}

	ordered, err := store.Checkout(ctx)
	if err != nil {
		return domain.Order{}, fmt.Errorf("store.Checkout: %w", err)
	}

	subtotal := ordered.Total()
	order := domain.Order{
		ID:       uuid.New(),
		Items:    ordered.Items,
		Subtotal: subtotal,
		Shipping: domain.Money{Amount: decimal.Zero, Currency: subtotal.Currency},
		Total:    subtotal,
		Email:    form.Email,
		Name:     form.Name,
		Address:  form.Address,
		PlacedAt: s.now().UTC(),
	}

	if err := s.publisher.PublishOrderPlaced(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "publish order placed", "order_id", order.ID, "error", fmt.Errorf("publisher.PublishOrderPlaced: %w", err))
	}

	return order, nil
}
