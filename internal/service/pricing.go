package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/iter"

	"github.com/kadepos/kadepos/internal/domain/cart"
	"github.com/kadepos/kadepos/internal/domain/pricing"
	ierr "github.com/kadepos/kadepos/internal/errors"
	"github.com/kadepos/kadepos/internal/types"
)

// PricingService computes deterministic per-item and cart totals against a
// frozen rule set. All methods are pure reads over immutable state, so one
// service instance can serve many concurrent calculations.
type PricingService interface {
	// CalculateItem prices a single line: base = unitPrice × ⌊quantity⌋,
	// then discount and tax composed per the configured calculation order.
	CalculateItem(ctx context.Context, productID string, unitPrice types.Money, quantity decimal.Decimal, promoCodes []string) (*pricing.ItemCalculation, error)

	// CalculateCart prices every line and reduces the results, then applies
	// any registered cart-level rules.
	CalculateCart(ctx context.Context, c *cart.Cart, promoCodes []string) (*pricing.CartCalculation, error)

	// CalculateCartParallel is CalculateCart with the per-line work fanned
	// out across goroutines. Money addition is associative and commutative,
	// so the result is identical to the sequential path.
	CalculateCartParallel(ctx context.Context, c *cart.Cart, promoCodes []string) (*pricing.CartCalculation, error)
}

type pricingService struct {
	ServiceParams
	rules     *RuleSet
	discounts *discountResolver
	taxes     *taxResolver
}

// NewPricingService builds a pricing service over a frozen rule set.
func NewPricingService(params ServiceParams, rules *RuleSet) PricingService {
	return &pricingService{
		ServiceParams: params,
		rules:         rules,
		discounts:     newDiscountResolver(rules, params.Logger),
		taxes:         newTaxResolver(rules, params.Logger),
	}
}

func (s *pricingService) CalculateItem(
	ctx context.Context,
	productID string,
	unitPrice types.Money,
	quantity decimal.Decimal,
	promoCodes []string,
) (*pricing.ItemCalculation, error) {
	if quantity.IsNegative() {
		return nil, ierr.NewError("quantity cannot be negative").
			WithHint("Line quantities must be zero or positive").
			WithReportableDetails(map[string]any{
				"product_id": productID,
				"quantity":   quantity.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	if unitPrice.IsNegative() {
		return nil, ierr.NewError("unit price cannot be negative").
			WithHint("Unit prices must be zero or positive").
			WithReportableDetails(map[string]any{
				"product_id": productID,
				"unit_price": unitPrice.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	// Fractional quantities floor to an integer multiplier for the money
	// multiplication; the fractional part still participates in condition
	// and tier comparisons.
	baseAmount := unitPrice.MulInt(quantity.IntPart())

	discountAmount, discountDetails := s.discounts.ResolveItemDiscount(productID, baseAmount, quantity, promoCodes)

	var taxableAmount types.Money
	switch s.rules.calculationOrder {
	case types.CalculationOrderDiscountFirst:
		taxableAmount = baseAmount.Sub(discountAmount)
	default: // TaxFirst and Parallel both tax the original base.
		taxableAmount = baseAmount
	}

	taxAmount, taxDetails := s.taxes.ResolveItemTax(productID, taxableAmount)

	var total types.Money
	switch s.rules.calculationOrder {
	case types.CalculationOrderDiscountFirst:
		total = taxableAmount.Add(taxAmount)
	case types.CalculationOrderTaxFirst:
		total = baseAmount.Add(taxAmount).Sub(discountAmount)
	default:
		total = baseAmount.Sub(discountAmount).Add(taxAmount)
	}

	// A negative total signals a configuration bug (discounts exceeding
	// base plus tax); it is never silently floored to zero.
	if total.IsNegative() {
		return nil, ierr.NewErrorf("calculation produced a negative total for %s", productID).
			WithHint("Discounts exceed the base amount plus tax; check the product's discount configuration").
			WithReportableDetails(map[string]any{
				"code":       "negative_total",
				"product_id": productID,
				"base":       baseAmount.String(),
				"discount":   discountAmount.String(),
				"tax":        taxAmount.String(),
				"total":      total.String(),
			}).
			Mark(ierr.ErrCalculation)
	}

	return &pricing.ItemCalculation{
		ItemID:          productID,
		BaseAmount:      baseAmount,
		DiscountAmount:  discountAmount,
		TaxAmount:       taxAmount,
		Total:           total,
		DiscountDetails: discountDetails,
		TaxDetails:      taxDetails,
	}, nil
}

func (s *pricingService) CalculateCart(ctx context.Context, c *cart.Cart, promoCodes []string) (*pricing.CartCalculation, error) {
	results := make([]*pricing.ItemCalculation, 0, len(c.Items))
	for _, item := range c.Items {
		result, err := s.CalculateItem(ctx, item.ID, item.Price, item.Quantity, promoCodes)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return s.aggregate(c, promoCodes, results)
}

func (s *pricingService) CalculateCartParallel(ctx context.Context, c *cart.Cart, promoCodes []string) (*pricing.CartCalculation, error) {
	results, err := iter.MapErr(c.Items, func(item **cart.Item) (*pricing.ItemCalculation, error) {
		line := *item
		return s.CalculateItem(ctx, line.ID, line.Price, line.Quantity, promoCodes)
	})
	if err != nil {
		return nil, err
	}
	return s.aggregate(c, promoCodes, results)
}

// aggregate reduces per-item results component-wise and layers cart-level
// rules on top. The reduction is order-independent.
func (s *pricingService) aggregate(c *cart.Cart, promoCodes []string, items []*pricing.ItemCalculation) (*pricing.CartCalculation, error) {
	subtotal := types.ZeroMoney()
	totalDiscount := types.ZeroMoney()
	totalTax := types.ZeroMoney()

	for _, item := range items {
		subtotal = subtotal.Add(item.BaseAmount)
		totalDiscount = totalDiscount.Add(item.DiscountAmount)
		totalTax = totalTax.Add(item.TaxAmount)
	}

	cartDiscount := types.ZeroMoney()
	var ruleDetails []pricing.CartRuleDetail
	if len(s.rules.cartRules) > 0 {
		snap := cart.NewSnapshot(c, promoCodes)
		for _, cr := range s.rules.cartRules {
			if !cr.Matches(snap) {
				continue
			}
			amount, err := cr.Compute(snap)
			if err != nil {
				return nil, ierr.WithError(err).
					WithHintf("Cart rule %s failed to compute", cr.Name()).
					Mark(ierr.ErrCalculation)
			}
			if amount.IsZero() {
				continue
			}
			cartDiscount = cartDiscount.Add(amount.Abs())
			ruleDetails = append(ruleDetails, pricing.CartRuleDetail{
				Name:   cr.Name(),
				Amount: amount.Abs(),
			})
		}
	}

	grandTotal := subtotal.Sub(totalDiscount).Add(totalTax).Sub(cartDiscount)
	if grandTotal.IsNegative() {
		return nil, ierr.NewError("cart calculation produced a negative grand total").
			WithHint("Combined discounts exceed the cart's base amount plus tax").
			WithReportableDetails(map[string]any{
				"code":          "negative_total",
				"cart_id":       c.ID,
				"subtotal":      subtotal.String(),
				"discount":      totalDiscount.String(),
				"tax":           totalTax.String(),
				"cart_discount": cartDiscount.String(),
			}).
			Mark(ierr.ErrCalculation)
	}

	s.Logger.Debugw("cart calculated",
		"cart_id", c.ID,
		"items", len(items),
		"subtotal", subtotal.String(),
		"discount", totalDiscount.String(),
		"tax", totalTax.String(),
		"grand_total", grandTotal.String())

	return &pricing.CartCalculation{
		Items:           items,
		Subtotal:        subtotal,
		TotalDiscount:   totalDiscount,
		TotalTax:        totalTax,
		CartDiscount:    cartDiscount,
		CartRuleDetails: ruleDetails,
		GrandTotal:      grandTotal,
	}, nil
}
