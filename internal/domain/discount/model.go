// Package discount defines per-product discount configuration: rule sets
// with priorities, stacking behaviour, gating conditions and an overall cap.
package discount

import (
	"github.com/shopspring/decimal"

	ierr "github.com/kadepos/kadepos/internal/errors"
	"github.com/kadepos/kadepos/internal/types"
)

// DiscountType tags the pricing behaviour of a rule.
type DiscountType string

const (
	// DiscountTypeFixedAmount grants a flat amount in minor units.
	DiscountTypeFixedAmount DiscountType = "fixed_amount"

	// DiscountTypePercentage grants a percentage of the base amount.
	DiscountTypePercentage DiscountType = "percentage"

	// DiscountTypeTiered grants a quantity-dependent percentage.
	DiscountTypeTiered DiscountType = "tiered"

	// DiscountTypeBuyXGetY makes Y units free (or partially discounted)
	// for every completed group of X+Y purchased.
	DiscountTypeBuyXGetY DiscountType = "buy_x_get_y"

	// DiscountTypeBundle is resolved at cart level across products; at item
	// level it always yields zero.
	DiscountTypeBundle DiscountType = "bundle"
)

func (t DiscountType) Validate() error {
	switch t {
	case DiscountTypeFixedAmount, DiscountTypePercentage, DiscountTypeTiered,
		DiscountTypeBuyXGetY, DiscountTypeBundle:
		return nil
	default:
		return ierr.NewErrorf("invalid discount type: %s", t).
			WithHint("Discount type must be one of fixed_amount, percentage, tiered, buy_x_get_y, bundle").
			Mark(ierr.ErrValidation)
	}
}

// TierLevel maps a quantity range to a discount percentage. The range is
// inclusive on both ends; a nil MaxQuantity means unbounded.
type TierLevel struct {
	MinQuantity     decimal.Decimal  `json:"min_quantity"`
	MaxQuantity     *decimal.Decimal `json:"max_quantity,omitempty"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
}

// Contains reports whether the quantity falls inside the tier's range.
func (t TierLevel) Contains(quantity decimal.Decimal) bool {
	if quantity.LessThan(t.MinQuantity) {
		return false
	}
	if t.MaxQuantity != nil && quantity.GreaterThan(*t.MaxQuantity) {
		return false
	}
	return true
}

func (t TierLevel) Validate() error {
	if t.MinQuantity.IsNegative() {
		return ierr.NewError("tier min_quantity cannot be negative").
			WithHint("Tier quantities must be non-negative").
			Mark(ierr.ErrValidation)
	}
	if t.MaxQuantity != nil && t.MaxQuantity.LessThan(t.MinQuantity) {
		return ierr.NewError("tier max_quantity below min_quantity").
			WithHint("Tier upper bound must not be below its lower bound").
			WithReportableDetails(map[string]any{
				"min_quantity": t.MinQuantity.String(),
				"max_quantity": t.MaxQuantity.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return validatePercent(t.DiscountPercent, "tier discount_percent")
}

// BuyXGetYParams parameterizes a buy-X-get-Y rule. FreePercent of 100 makes
// the free units fully free; lower values discount them partially.
type BuyXGetYParams struct {
	Buy         decimal.Decimal `json:"buy"`
	Get         decimal.Decimal `json:"get"`
	FreePercent decimal.Decimal `json:"free_percent"`
}

func (p BuyXGetYParams) Validate() error {
	if !p.Buy.IsPositive() || !p.Get.IsPositive() {
		return ierr.NewError("buy_x_get_y quantities must be positive").
			WithHint("Both buy and get quantities must be greater than zero").
			Mark(ierr.ErrValidation)
	}
	return validatePercent(p.FreePercent, "buy_x_get_y free_percent")
}

// RuleConditionType tags a discount rule's gating condition.
type RuleConditionType string

const (
	RuleConditionMinQuantity RuleConditionType = "min_quantity"
	RuleConditionMinAmount   RuleConditionType = "min_amount"
	RuleConditionPromoCode   RuleConditionType = "promo_code"

	// The kinds below need context this engine does not model (customer
	// identity, purchase history, wall-clock time, sibling cart lines).
	// They are treated as satisfied until that context is wired in; the
	// permissive default is deliberate and covered by tests.
	RuleConditionCustomerGroup RuleConditionType = "customer_group"
	RuleConditionDateRange     RuleConditionType = "date_range"
	RuleConditionFirstPurchase RuleConditionType = "first_purchase"
	RuleConditionCartContains  RuleConditionType = "cart_contains"
)

// RuleCondition gates a discount rule. All conditions on a rule must hold
// for the rule to apply.
type RuleCondition struct {
	Type RuleConditionType `json:"type"`

	MinQuantity *decimal.Decimal `json:"min_quantity,omitempty"`
	MinAmount   *types.Money     `json:"min_amount,omitempty"`
	PromoCode   *string          `json:"promo_code,omitempty"`

	// Value carries the payload of reserved condition kinds so configs
	// round-trip even before those kinds are evaluated.
	Value string `json:"value,omitempty"`
}

// MinQuantityCondition requires at least qty units on the line.
func MinQuantityCondition(qty decimal.Decimal) RuleCondition {
	return RuleCondition{Type: RuleConditionMinQuantity, MinQuantity: &qty}
}

// MinAmountCondition requires the line base amount to reach amount.
func MinAmountCondition(amount types.Money) RuleCondition {
	return RuleCondition{Type: RuleConditionMinAmount, MinAmount: &amount}
}

// PromoCodeCondition requires the given code among the supplied promo codes.
func PromoCodeCondition(code string) RuleCondition {
	return RuleCondition{Type: RuleConditionPromoCode, PromoCode: &code}
}

// DiscountRule is one discount behaviour attached to a product. Exactly one
// of the type-specific parameter fields must be set, matching Type.
type DiscountRule struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Type     DiscountType `json:"type"`
	Priority int          `json:"priority"`

	// Stackable rules may apply alongside discounts already triggered on
	// the same line. Once a non-stackable rule fires, further non-stackable
	// rules are skipped; stackable ones still apply.
	Stackable bool `json:"stackable"`

	Conditions []RuleCondition `json:"conditions,omitempty"`

	AmountOff     *types.Money     `json:"amount_off,omitempty"`
	PercentageOff *decimal.Decimal `json:"percentage_off,omitempty"`
	Tiers         []TierLevel      `json:"tiers,omitempty"`
	BuyXGetY      *BuyXGetYParams  `json:"buy_x_get_y,omitempty"`
}

// NewDiscountRule creates a rule shell with a generated ID; callers fill the
// type-specific parameters.
func NewDiscountRule(name string, discountType DiscountType, priority int, stackable bool) *DiscountRule {
	return &DiscountRule{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RULE),
		Name:      name,
		Type:      discountType,
		Priority:  priority,
		Stackable: stackable,
	}
}

// Validate checks that the rule's parameters are coherent with its type.
func (r *DiscountRule) Validate() error {
	if r.ID == "" {
		return ierr.NewError("discount rule id is required").
			WithHint("Rule ID is required").
			Mark(ierr.ErrValidation)
	}
	if err := r.Type.Validate(); err != nil {
		return err
	}

	switch r.Type {
	case DiscountTypeFixedAmount:
		if r.AmountOff == nil {
			return missingParam(r, "amount_off")
		}
		if r.AmountOff.IsNegative() {
			return ierr.NewError("amount_off cannot be negative").
				WithHint("Fixed discounts must be non-negative").
				Mark(ierr.ErrValidation)
		}
	case DiscountTypePercentage:
		if r.PercentageOff == nil {
			return missingParam(r, "percentage_off")
		}
		if err := validatePercent(*r.PercentageOff, "percentage_off"); err != nil {
			return err
		}
	case DiscountTypeTiered:
		if len(r.Tiers) == 0 {
			return missingParam(r, "tiers")
		}
		for _, tier := range r.Tiers {
			if err := tier.Validate(); err != nil {
				return err
			}
		}
	case DiscountTypeBuyXGetY:
		if r.BuyXGetY == nil {
			return missingParam(r, "buy_x_get_y")
		}
		if err := r.BuyXGetY.Validate(); err != nil {
			return err
		}
	case DiscountTypeBundle:
		// No item-level parameters.
	}
	return nil
}

// ProductDiscountConfig holds all discount rules registered for one product.
type ProductDiscountConfig struct {
	ProductID string          `json:"product_id"`
	Rules     []*DiscountRule `json:"rules"`

	// Stackable is the product-level allow-stack flag.
	Stackable bool `json:"stackable"`

	// MaxDiscountPercent caps the accumulated discount as a percentage of
	// the base amount. Nil means uncapped.
	MaxDiscountPercent *decimal.Decimal `json:"max_discount_percent,omitempty"`
}

func (c *ProductDiscountConfig) Validate() error {
	if c.ProductID == "" {
		return ierr.NewError("product_id is required").
			WithHint("Product ID is required").
			Mark(ierr.ErrValidation)
	}
	for _, rule := range c.Rules {
		if err := rule.Validate(); err != nil {
			return err
		}
	}
	if c.MaxDiscountPercent != nil {
		if err := validatePercent(*c.MaxDiscountPercent, "max_discount_percent"); err != nil {
			return err
		}
	}
	return nil
}

func validatePercent(p decimal.Decimal, field string) error {
	if p.IsNegative() || p.GreaterThan(decimal.NewFromInt(100)) {
		return ierr.NewErrorf("%s must be between 0 and 100", field).
			WithHint("Percentages must be in the range 0-100").
			WithReportableDetails(map[string]any{field: p.String()}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func missingParam(r *DiscountRule, field string) error {
	return ierr.NewErrorf("discount rule %s requires %s", r.ID, field).
		WithHintf("Rules of type %s must set %s", r.Type, field).
		Mark(ierr.ErrValidation)
}
