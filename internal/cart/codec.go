package cart

import (
	"encoding/json"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// StorageKey is the fixed key the cart is persisted under.
const StorageKey = "cartItems"

type persistedItem struct {
	ID       int64       `json:"id"`
	Title    string      `json:"title"`
	Price    json.Number `json:"price"`
	Image    string      `json:"image"`
	Quantity int         `json:"quantity"`
}

func encodeCart(cart domain.Cart) ([]byte, error) {
	items := make([]persistedItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, persistedItem{
			ID:       item.ProductID,
			Title:    item.Title,
			Price:    json.Number(item.Price.Amount.String()),
			Image:    item.Image,
			Quantity: item.Quantity,
		})
	}

	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return data, nil
}

// decodeCart rejects the whole value when any item breaks a cart invariant;
// a partially trusted cart is worse than an empty one.
func decodeCart(data []byte) (domain.Cart, error) {
	var items []persistedItem
	if err := json.Unmarshal(data, &items); err != nil {
		return domain.Cart{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	var cart domain.Cart
	seen := make(map[int64]struct{}, len(items))

	for i, item := range items {
		if _, ok := seen[item.ID]; ok {
			return domain.Cart{}, fmt.Errorf("item[%d]: duplicate id %d", i, item.ID)
		}
		seen[item.ID] = struct{}{}

		if item.Quantity < 1 {
			return domain.Cart{}, fmt.Errorf("item[%d]: quantity %d is not positive", i, item.Quantity)
		}

		price, err := decimal.NewFromString(item.Price.String())
		if err != nil {
			return domain.Cart{}, fmt.Errorf("item[%d]: price[%s] is not valid: %w", i, item.Price, err)
		}
		if price.IsNegative() {
			return domain.Cart{}, fmt.Errorf("item[%d]: price %s is negative", i, price)
		}

		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: item.ID,
			Title:     item.Title,
			Price:     domain.NewMoney(price),
			Image:     item.Image,
			Quantity:  item.Quantity,
		})
	}

	return cart, nil
}
