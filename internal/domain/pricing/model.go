// Package pricing holds the immutable result structs produced by a
// calculation pass. Results carry no back-references into configuration;
// downstream consumers (ledger posting, DTO layers, refund pro-ration) use
// them verbatim.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/kadepos/kadepos/internal/types"
)

// DiscountDetail records one applied discount rule on a line.
type DiscountDetail struct {
	RuleID string      `json:"rule_id"`
	Name   string      `json:"name"`
	Amount types.Money `json:"amount"`
}

// TaxDetail records one applied tax rate on a line.
type TaxDetail struct {
	Name   string          `json:"name"`
	Rate   decimal.Decimal `json:"rate"`
	Amount types.Money     `json:"amount"`
}

// ItemCalculation is the priced breakdown of one cart line.
type ItemCalculation struct {
	ItemID         string      `json:"item_id"`
	BaseAmount     types.Money `json:"base_amount"`
	DiscountAmount types.Money `json:"discount_amount"`
	TaxAmount      types.Money `json:"tax_amount"`
	Total          types.Money `json:"total"`

	DiscountDetails []DiscountDetail `json:"discount_details,omitempty"`
	TaxDetails      []TaxDetail      `json:"tax_details,omitempty"`
}

// CartRuleDetail records one cart-level promotional rule that fired.
type CartRuleDetail struct {
	Name   string      `json:"name"`
	Amount types.Money `json:"amount"`
}

// CartCalculation aggregates the per-item results for a whole cart.
// Money addition is associative and commutative, so the aggregate is
// independent of the order items were reduced in.
type CartCalculation struct {
	Items []*ItemCalculation `json:"items"`

	Subtotal      types.Money `json:"subtotal"`
	TotalDiscount types.Money `json:"total_discount"`
	TotalTax      types.Money `json:"total_tax"`

	// CartDiscount is the extra discount granted by cart-level rules on
	// top of the per-item discounts.
	CartDiscount    types.Money      `json:"cart_discount"`
	CartRuleDetails []CartRuleDetail `json:"cart_rule_details,omitempty"`

	GrandTotal types.Money `json:"grand_total"`
}
