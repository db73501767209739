package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order is the summary produced when a checkout completes. It is handed to
// publishers and rendered once; nothing stores it.
type Order struct {
	ID       uuid.UUID
	Items    []CartItem
	Subtotal Money
	Shipping Money
	Total    Money

	Email   string
	Name    string
	Address string

	PlacedAt time.Time
}
