package service

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kadepos/kadepos/internal/domain/discount"
	"github.com/kadepos/kadepos/internal/domain/rule"
	"github.com/kadepos/kadepos/internal/domain/tax"
	ierr "github.com/kadepos/kadepos/internal/errors"
	"github.com/kadepos/kadepos/internal/types"
)

// Registry is the mutable configuration builder used during engine setup.
// Registration validates everything up front so calculation never has to;
// Build produces an immutable RuleSet that many concurrent calculations can
// read safely. The registry must not be mutated once calculations against a
// built RuleSet have begun; rebuild and swap instead.
type Registry struct {
	ServiceParams

	productTaxes     map[string]*tax.ProductTaxConfig
	productDiscounts map[string]*discount.ProductDiscountConfig
	globalTaxRates   []tax.TaxRate
	cartRules        []rule.CartRule
	calculationOrder types.CalculationOrder
}

// NewRegistry creates a registry seeded with the configured default
// calculation order.
func NewRegistry(params ServiceParams) *Registry {
	order := types.CalculationOrderDiscountFirst
	if params.Config != nil && params.Config.Pricing.DefaultCalculationOrder != "" {
		order = params.Config.Pricing.DefaultCalculationOrder
	}
	return &Registry{
		ServiceParams:    params,
		productTaxes:     make(map[string]*tax.ProductTaxConfig),
		productDiscounts: make(map[string]*discount.ProductDiscountConfig),
		globalTaxRates:   make([]tax.TaxRate, 0),
		cartRules:        make([]rule.CartRule, 0),
		calculationOrder: order,
	}
}

// SetCalculationOrder selects the discount/tax ordering for all calculations.
func (r *Registry) SetCalculationOrder(order types.CalculationOrder) error {
	if err := order.Validate(); err != nil {
		return err
	}
	r.calculationOrder = order
	return nil
}

// AddGlobalTax registers a tax rate applied to items without a
// product-specific tax config.
func (r *Registry) AddGlobalTax(rate tax.TaxRate) error {
	if err := rate.Validate(); err != nil {
		return err
	}
	if r.Config != nil && rate.Rate.GreaterThan(decimal.NewFromFloat(r.Config.Pricing.MaxTaxRatePercent)) {
		return ierr.NewErrorf("tax rate %s exceeds sanity bound", rate.Name).
			WithHintf("Tax rates above %.2f%% are rejected as misconfiguration", r.Config.Pricing.MaxTaxRatePercent).
			WithReportableDetails(map[string]any{"rate": rate.Rate.String()}).
			Mark(ierr.ErrValidation)
	}
	r.globalTaxRates = append(r.globalTaxRates, rate)
	return nil
}

// AddProductTax registers a product-specific tax config, replacing any
// previous config for the same product.
func (r *Registry) AddProductTax(cfg *tax.ProductTaxConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	r.productTaxes[cfg.ProductID] = cfg
	return nil
}

// AddProductDiscount registers a product-specific discount config, replacing
// any previous config for the same product.
func (r *Registry) AddProductDiscount(cfg *discount.ProductDiscountConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	r.productDiscounts[cfg.ProductID] = cfg
	return nil
}

// AddCartRule registers a cart-level promotional rule.
func (r *Registry) AddCartRule(cr rule.CartRule) {
	r.cartRules = append(r.cartRules, cr)
}

// Build freezes the registered configuration into an immutable RuleSet.
// Discount rules are pre-sorted by priority descending (stable, so equal
// priorities keep registration order) and tier levels are normalized by
// ascending MinQuantity so first-match resolution is well defined regardless
// of the order the config source listed them in.
func (r *Registry) Build() *RuleSet {
	rs := &RuleSet{
		productTaxes:     make(map[string]*tax.ProductTaxConfig, len(r.productTaxes)),
		productDiscounts: make(map[string]*discount.ProductDiscountConfig, len(r.productDiscounts)),
		globalTaxRates:   make([]tax.TaxRate, len(r.globalTaxRates)),
		cartRules:        make([]rule.CartRule, len(r.cartRules)),
		calculationOrder: r.calculationOrder,
	}

	for id, cfg := range r.productTaxes {
		frozen := *cfg
		frozen.TaxRates = append([]tax.TaxRate(nil), cfg.TaxRates...)
		rs.productTaxes[id] = &frozen
	}

	for id, cfg := range r.productDiscounts {
		frozen := *cfg
		frozen.Rules = make([]*discount.DiscountRule, len(cfg.Rules))
		for i, dr := range cfg.Rules {
			frozenRule := *dr
			frozenRule.Conditions = append([]discount.RuleCondition(nil), dr.Conditions...)
			frozenRule.Tiers = append([]discount.TierLevel(nil), dr.Tiers...)
			sort.SliceStable(frozenRule.Tiers, func(a, b int) bool {
				return frozenRule.Tiers[a].MinQuantity.LessThan(frozenRule.Tiers[b].MinQuantity)
			})
			frozen.Rules[i] = &frozenRule
		}
		sort.SliceStable(frozen.Rules, func(a, b int) bool {
			return frozen.Rules[a].Priority > frozen.Rules[b].Priority
		})
		rs.productDiscounts[id] = &frozen
	}

	copy(rs.globalTaxRates, r.globalTaxRates)
	copy(rs.cartRules, r.cartRules)
	sort.SliceStable(rs.cartRules, func(a, b int) bool {
		return rs.cartRules[a].Priority() > rs.cartRules[b].Priority()
	})

	return rs
}

// RuleSet is the frozen configuration snapshot calculation runs against.
// It is never mutated after Build, so it is safe for concurrent use.
type RuleSet struct {
	productTaxes     map[string]*tax.ProductTaxConfig
	productDiscounts map[string]*discount.ProductDiscountConfig
	globalTaxRates   []tax.TaxRate
	cartRules        []rule.CartRule
	calculationOrder types.CalculationOrder
}

// CalculationOrder returns the frozen discount/tax ordering.
func (rs *RuleSet) CalculationOrder() types.CalculationOrder {
	return rs.calculationOrder
}
