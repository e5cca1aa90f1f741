// Package cart holds the externally supplied cart and line item types the
// pricing engine consumes. The engine treats both as read-only: a calculation
// pass never mutates a cart, it only derives fresh result values from it.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/kadepos/kadepos/internal/types"
)

// Item is a single priced cart line.
type Item struct {
	// ID uniquely identifies the line's product
	ID string `json:"id"`

	// Name is the display name of the product
	Name string `json:"name"`

	// Price is the unit price in minor units
	Price types.Money `json:"price"`

	// Quantity of units on this line. Kept as a decimal so thresholds and
	// tiers can compare fractional quantities; money multiplication floors
	// it to an integer multiplier.
	Quantity decimal.Decimal `json:"quantity"`

	// Currency is the ISO-ish currency code of the price
	Currency string `json:"currency"`

	// Metadata carries auxiliary data such as category or SKU
	Metadata map[string]string `json:"metadata,omitempty"`
}

// NewItem creates a cart line with a generated ID and the default currency.
func NewItem(name string, price types.Money, quantity decimal.Decimal) *Item {
	return &Item{
		ID:       types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CART_ITEM),
		Name:     name,
		Price:    price,
		Quantity: quantity,
		Currency: DefaultCurrency,
		Metadata: map[string]string{},
	}
}

// Total returns price multiplied by the floored quantity.
func (i *Item) Total() types.Money {
	return i.Price.MulInt(i.Quantity.IntPart())
}

// DefaultCurrency is the currency assumed when none is supplied.
const DefaultCurrency = "LKR"

// Cart is a collection of lines belonging to one transaction.
type Cart struct {
	ID         string  `json:"id"`
	CustomerID *string `json:"customer_id,omitempty"`
	Items      []*Item `json:"items"`
	Currency   string  `json:"currency"`
}

// NewCart creates an empty cart with a generated ID.
func NewCart() *Cart {
	return &Cart{
		ID:       types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CART),
		Items:    make([]*Item, 0),
		Currency: DefaultCurrency,
	}
}

// AddItem appends a line to the cart.
func (c *Cart) AddItem(item *Item) {
	c.Items = append(c.Items, item)
}

// Subtotal sums line totals before any discount or tax. Lines in a currency
// other than the cart's are skipped; conversion is out of scope here.
func (c *Cart) Subtotal() types.Money {
	total := types.ZeroMoney()
	for _, item := range c.Items {
		if item.Currency == c.Currency {
			total = total.Add(item.Total())
		}
	}
	return total
}

// TotalQuantity sums the quantity across all lines.
func (c *Cart) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Quantity)
	}
	return total
}

// QuantityOf returns the summed quantity of the given product across lines.
func (c *Cart) QuantityOf(itemID string) decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		if item.ID == itemID {
			total = total.Add(item.Quantity)
		}
	}
	return total
}

// Snapshot is the immutable read-only view of a cart that condition
// evaluation and cart-level rules run against. Building it once per
// calculation keeps rule evaluation pure: no rule can observe a cart
// mid-mutation, and many calculations can share one snapshot concurrently.
type Snapshot struct {
	subtotal      types.Money
	totalQuantity decimal.Decimal
	items         []SnapshotItem
	promoCodes    map[string]struct{}
}

// SnapshotItem is a frozen view of one cart line.
type SnapshotItem struct {
	ID       string
	Name     string
	Price    types.Money
	Quantity decimal.Decimal
}

// NewSnapshot freezes the cart's state along with the promo codes supplied
// for this calculation.
func NewSnapshot(c *Cart, promoCodes []string) *Snapshot {
	snap := &Snapshot{
		subtotal:      c.Subtotal(),
		totalQuantity: c.TotalQuantity(),
		items:         make([]SnapshotItem, 0, len(c.Items)),
		promoCodes:    make(map[string]struct{}, len(promoCodes)),
	}
	for _, item := range c.Items {
		snap.items = append(snap.items, SnapshotItem{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	for _, code := range promoCodes {
		snap.promoCodes[code] = struct{}{}
	}
	return snap
}

// Subtotal returns the frozen cart subtotal.
func (s *Snapshot) Subtotal() types.Money {
	return s.subtotal
}

// TotalQuantity returns the frozen total quantity.
func (s *Snapshot) TotalQuantity() decimal.Decimal {
	return s.totalQuantity
}

// Items returns the frozen cart lines.
func (s *Snapshot) Items() []SnapshotItem {
	return s.items
}

// QuantityOf returns the frozen quantity of the given product.
func (s *Snapshot) QuantityOf(itemID string) decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.items {
		if item.ID == itemID {
			total = total.Add(item.Quantity)
		}
	}
	return total
}

// HasPromoCode reports whether the given code was supplied for this
// calculation.
func (s *Snapshot) HasPromoCode(code string) bool {
	_, ok := s.promoCodes[code]
	return ok
}
