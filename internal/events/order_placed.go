package events

import (
	"encoding/json"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
)

const OrderPlacedEventType = "OrderPlaced"

type OrderPlaced struct {
	EventType   string      `json:"eventType"`
	OrderID     string      `json:"orderId"`
	Items       []OrderItem `json:"items"`
	TotalAmount json.Number `json:"totalAmount"`
	Currency    string      `json:"currency"`
	Timestamp   time.Time   `json:"timestamp"`
}

type OrderItem struct {
	ProductID int64       `json:"productId"`
	Title     string      `json:"title"`
	Quantity  int         `json:"quantity"`
	Price     json.Number `json:"price"`
}

// NewOrderPlaced maps an order to its wire form. Customer details stay out of
// the event.
func NewOrderPlaced(order domain.Order) OrderPlaced {
	ev := OrderPlaced{
		EventType:   OrderPlacedEventType,
		OrderID:     order.ID.String(),
		Items:       make([]OrderItem, 0, len(order.Items)),
		TotalAmount: json.Number(order.Total.Amount.String()),
		Currency:    order.Total.Currency.String(),
		Timestamp:   order.PlacedAt.UTC(),
	}

	for _, item := range order.Items {
		ev.Items = append(ev.Items, OrderItem{
			ProductID: item.ProductID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			Price:     json.Number(item.Price.Amount.String()),
		})
	}

	return ev
}
