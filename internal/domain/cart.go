package domain

import "math"

type Cart struct {
	Items []CartItem
}

// CartItem is one line of a cart. Title, Price and Image are copied from the
// catalog when the product is first added and are not re-synced.
type CartItem struct {
	ProductID int64
	Title     string
	Price     Money
	Image     string
	Quantity  int
}

func (i CartItem) LineTotal() Money {
	return i.Price.Mul(i.Quantity)
}

func (c Cart) Total() Money {
	total := ZeroMoney()
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// ItemCount sums the quantities, saturating at math.MaxInt.
func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		if item.Quantity > math.MaxInt-count {
			return math.MaxInt
		}
		count += item.Quantity
	}
	return count
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Find returns the index of the line item for productID, or -1.
func (c Cart) Find(productID int64) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) Clone() Cart {
	if c.Items == nil {
		return Cart{}
	}
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}
