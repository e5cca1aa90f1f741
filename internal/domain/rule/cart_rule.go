package rule

import (
	"github.com/shopspring/decimal"

	"github.com/kadepos/kadepos/internal/domain/cart"
	"github.com/kadepos/kadepos/internal/types"
)

// CartRule is the extension point for promotional behaviour that needs the
// whole cart rather than a single product line. Anything not expressible in
// the closed discount/condition unions can be plugged in here.
//
// Matches must be a pure predicate over the snapshot. Compute returns the
// discount amount the rule grants; it runs only when Matches reports true.
type CartRule interface {
	Name() string
	Priority() int
	Matches(snap *cart.Snapshot) bool
	Compute(snap *cart.Snapshot) (types.Money, error)
}

// BuyNGetFree grants the unit price of the free units for every completed
// group of (buy + free) units of the target product. The scanned quantity
// must already include the free units, as at a POS register.
type BuyNGetFree struct {
	RuleName     string
	TargetItemID string
	BuyQty       decimal.Decimal
	FreeQty      decimal.Decimal
	RulePriority int
}

// NewBuyNGetFree builds the promotion with its conventional high priority.
func NewBuyNGetFree(name, itemID string, buy, free decimal.Decimal) *BuyNGetFree {
	return &BuyNGetFree{
		RuleName:     name,
		TargetItemID: itemID,
		BuyQty:       buy,
		FreeQty:      free,
		RulePriority: 50,
	}
}

func (r *BuyNGetFree) Name() string  { return r.RuleName }
func (r *BuyNGetFree) Priority() int { return r.RulePriority }

func (r *BuyNGetFree) Matches(snap *cart.Snapshot) bool {
	return snap.QuantityOf(r.TargetItemID).GreaterThanOrEqual(r.BuyQty)
}

func (r *BuyNGetFree) Compute(snap *cart.Snapshot) (types.Money, error) {
	discount := types.ZeroMoney()
	setSize := r.BuyQty.Add(r.FreeQty)
	if !setSize.IsPositive() {
		return discount, nil
	}
	for _, item := range snap.Items() {
		if item.ID != r.TargetItemID {
			continue
		}
		sets := item.Quantity.Div(setSize).Floor()
		if sets.IsPositive() {
			freeUnits := sets.Mul(r.FreeQty)
			discount = discount.Add(item.Price.MulInt(freeUnits.IntPart()))
		}
	}
	return discount, nil
}

// PriceThresholdFixed grants a fixed discount per unit on lines of a product
// whose unit price exceeds a threshold.
type PriceThresholdFixed struct {
	RuleName     string
	TargetItemID string
	Threshold    types.Money
	Discount     types.Money
}

func (r *PriceThresholdFixed) Name() string  { return r.RuleName }
func (r *PriceThresholdFixed) Priority() int { return 40 }

func (r *PriceThresholdFixed) Matches(snap *cart.Snapshot) bool {
	for _, item := range snap.Items() {
		if item.ID == r.TargetItemID && item.Price.GreaterThan(r.Threshold) {
			return true
		}
	}
	return false
}

func (r *PriceThresholdFixed) Compute(snap *cart.Snapshot) (types.Money, error) {
	discount := types.ZeroMoney()
	for _, item := range snap.Items() {
		if item.ID == r.TargetItemID && item.Price.GreaterThan(r.Threshold) {
			discount = discount.Add(r.Discount.MulInt(item.Quantity.IntPart()))
		}
	}
	return discount, nil
}

// QuantityThresholdPercent grants a percentage off a product's line total
// once its quantity exceeds a threshold.
type QuantityThresholdPercent struct {
	RuleName     string
	TargetItemID string
	ThresholdQty decimal.Decimal
	Percent      decimal.Decimal
}

func (r *QuantityThresholdPercent) Name() string  { return r.RuleName }
func (r *QuantityThresholdPercent) Priority() int { return 30 }

func (r *QuantityThresholdPercent) Matches(snap *cart.Snapshot) bool {
	for _, item := range snap.Items() {
		if item.ID == r.TargetItemID && item.Quantity.GreaterThan(r.ThresholdQty) {
			return true
		}
	}
	return false
}

func (r *QuantityThresholdPercent) Compute(snap *cart.Snapshot) (types.Money, error) {
	discount := types.ZeroMoney()
	for _, item := range snap.Items() {
		if item.ID == r.TargetItemID && item.Quantity.GreaterThan(r.ThresholdQty) {
			lineTotal := item.Price.MulInt(item.Quantity.IntPart())
			discount = discount.Add(lineTotal.PercentageOf(r.Percent))
		}
	}
	return discount, nil
}

// CartQuantityThreshold grants a fixed discount once the whole cart holds
// more than a threshold quantity of units.
type CartQuantityThreshold struct {
	RuleName     string
	ThresholdQty decimal.Decimal
	Discount     types.Money
}

func (r *CartQuantityThreshold) Name() string  { return r.RuleName }
func (r *CartQuantityThreshold) Priority() int { return 10 }

func (r *CartQuantityThreshold) Matches(snap *cart.Snapshot) bool {
	return snap.TotalQuantity().GreaterThan(r.ThresholdQty)
}

func (r *CartQuantityThreshold) Compute(snap *cart.Snapshot) (types.Money, error) {
	return r.Discount, nil
}
