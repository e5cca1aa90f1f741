package service

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/kadepos/kadepos/internal/domain/discount"
	"github.com/kadepos/kadepos/internal/domain/pricing"
	"github.com/kadepos/kadepos/internal/logger"
	"github.com/kadepos/kadepos/internal/types"
)

// discountResolver resolves the accumulated discount for one cart line from
// the frozen rule set. Resolution never fails: a product with no registered
// config, or rules whose conditions do not hold, simply contribute zero.
type discountResolver struct {
	rules  *RuleSet
	logger *logger.Logger
}

func newDiscountResolver(rules *RuleSet, log *logger.Logger) *discountResolver {
	return &discountResolver{rules: rules, logger: log}
}

// ResolveItemDiscount walks the product's rules in priority order (frozen
// descending at Build time), applying every eligible rule. A non-stackable
// rule, once triggered, blocks further non-stackable rules but never blocks
// stackable ones. The accumulated discount is clamped to the product's
// max_discount_percent cap when one is configured.
func (r *discountResolver) ResolveItemDiscount(
	productID string,
	baseAmount types.Money,
	quantity decimal.Decimal,
	promoCodes []string,
) (types.Money, []pricing.DiscountDetail) {
	total := types.ZeroMoney()

	cfg, ok := r.rules.productDiscounts[productID]
	if !ok {
		return total, nil
	}

	var details []pricing.DiscountDetail
	nonStackableApplied := false

	for _, dr := range cfg.Rules {
		if nonStackableApplied && !dr.Stackable {
			r.logger.Debugw("skipping non-stackable rule, another already applied",
				"product_id", productID, "rule_id", dr.ID)
			continue
		}
		if !r.conditionsMet(dr.Conditions, baseAmount, quantity, promoCodes) {
			continue
		}

		amount := computeRuleDiscount(dr, baseAmount, quantity).Abs()
		total = total.Add(amount)
		if !amount.IsZero() {
			details = append(details, pricing.DiscountDetail{
				RuleID: dr.ID,
				Name:   dr.Name,
				Amount: amount,
			})
		}

		// The stacking gate trips on any triggered non-stackable rule,
		// even one that computed to zero.
		if !dr.Stackable {
			nonStackableApplied = true
		}
	}

	if cfg.MaxDiscountPercent != nil {
		maxDiscount := baseAmount.PercentageOf(*cfg.MaxDiscountPercent)
		if total.GreaterThan(maxDiscount) {
			r.logger.Debugw("discount clamped to product cap",
				"product_id", productID,
				"accumulated", total.String(),
				"cap", maxDiscount.String())
			total = maxDiscount
		}
	}

	return total, details
}

// conditionsMet requires every condition on the rule to hold. Condition
// kinds needing context the engine does not model (customer group, date
// range, first purchase, cart contents) count as satisfied.
func (r *discountResolver) conditionsMet(
	conditions []discount.RuleCondition,
	baseAmount types.Money,
	quantity decimal.Decimal,
	promoCodes []string,
) bool {
	for _, cond := range conditions {
		met := true
		switch cond.Type {
		case discount.RuleConditionMinQuantity:
			if cond.MinQuantity != nil {
				met = quantity.GreaterThanOrEqual(*cond.MinQuantity)
			}
		case discount.RuleConditionMinAmount:
			if cond.MinAmount != nil {
				met = baseAmount.GreaterThanOrEqual(*cond.MinAmount)
			}
		case discount.RuleConditionPromoCode:
			if cond.PromoCode != nil {
				met = lo.Contains(promoCodes, *cond.PromoCode)
			}
		}
		if !met {
			return false
		}
	}
	return true
}

// computeRuleDiscount returns the discount magnitude a single rule grants
// against the given base amount and quantity.
func computeRuleDiscount(dr *discount.DiscountRule, baseAmount types.Money, quantity decimal.Decimal) types.Money {
	switch dr.Type {
	case discount.DiscountTypeFixedAmount:
		if dr.AmountOff == nil {
			return types.ZeroMoney()
		}
		return *dr.AmountOff

	case discount.DiscountTypePercentage:
		if dr.PercentageOff == nil {
			return types.ZeroMoney()
		}
		return baseAmount.Sub(baseAmount.SubPercentage(*dr.PercentageOff))

	case discount.DiscountTypeTiered:
		// Tiers are normalized ascending by MinQuantity at Build time;
		// the first containing tier wins. Bounds are inclusive.
		for _, tier := range dr.Tiers {
			if tier.Contains(quantity) {
				return baseAmount.PercentageOf(tier.DiscountPercent)
			}
		}
		return types.ZeroMoney()

	case discount.DiscountTypeBuyXGetY:
		if dr.BuyXGetY == nil {
			return types.ZeroMoney()
		}
		p := dr.BuyXGetY
		setSize := p.Buy.Add(p.Get)
		if !setSize.IsPositive() {
			return types.ZeroMoney()
		}
		sets := quantity.Div(setSize).Floor()
		freeUnits := sets.Mul(p.Get)
		unitPrice := baseAmount.DivInt(quantity.IntPart())
		return unitPrice.MulInt(freeUnits.IntPart()).PercentageOf(p.FreePercent)

	case discount.DiscountTypeBundle:
		// Bundles need cart-wide, multi-product evaluation; at item level
		// they contribute nothing.
		return types.ZeroMoney()

	default:
		return types.ZeroMoney()
	}
}
