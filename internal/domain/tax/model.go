// Package tax defines tax rate configuration: global rates with
// applicability filters and per-product overrides with exemption.
package tax

import (
	"github.com/shopspring/decimal"

	ierr "github.com/kadepos/kadepos/internal/errors"
)

// AppliesTo scopes which items a tax rate covers.
type AppliesTo string

const (
	AppliesToAll      AppliesTo = "all"
	AppliesToCategory AppliesTo = "category"
	AppliesToProduct  AppliesTo = "product"
	AppliesToRegion   AppliesTo = "region"
)

func (a AppliesTo) Validate() error {
	switch a {
	case AppliesToAll, AppliesToCategory, AppliesToProduct, AppliesToRegion:
		return nil
	default:
		return ierr.NewErrorf("invalid tax applies_to: %s", a).
			WithHint("Tax scope must be one of all, category, product, region").
			Mark(ierr.ErrValidation)
	}
}

// TaxRate is a single percentage rate with an applicability filter.
// AppliesToValue carries the category name, product ID or region code when
// the scope needs one.
type TaxRate struct {
	Name           string          `json:"name"`
	Rate           decimal.Decimal `json:"rate"`
	Jurisdiction   string          `json:"jurisdiction"`
	AppliesTo      AppliesTo       `json:"applies_to"`
	AppliesToValue string          `json:"applies_to_value,omitempty"`
}

func (t TaxRate) Validate() error {
	if t.Name == "" {
		return ierr.NewError("tax rate name is required").
			WithHint("Tax rate name is required").
			Mark(ierr.ErrValidation)
	}
	if t.Rate.IsNegative() {
		return ierr.NewError("tax rate cannot be negative").
			WithHint("Tax rates must be non-negative percentages").
			WithReportableDetails(map[string]any{"rate": t.Rate.String()}).
			Mark(ierr.ErrValidation)
	}
	if err := t.AppliesTo.Validate(); err != nil {
		return err
	}
	if (t.AppliesTo == AppliesToCategory || t.AppliesTo == AppliesToProduct || t.AppliesTo == AppliesToRegion) &&
		t.AppliesToValue == "" {
		return ierr.NewErrorf("tax rate %s requires applies_to_value", t.Name).
			WithHintf("Tax rates scoped to %s must name their target", t.AppliesTo).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ProductTaxConfig overrides global rates for one product. TaxExempt takes
// precedence over everything: an exempt product yields zero tax even when
// global rates exist.
type ProductTaxConfig struct {
	ProductID          string    `json:"product_id"`
	TaxRates           []TaxRate `json:"tax_rates"`
	TaxExempt          bool      `json:"tax_exempt"`
	TaxIncludedInPrice bool      `json:"tax_included_in_price"`
}

func (c *ProductTaxConfig) Validate() error {
	if c.ProductID == "" {
		return ierr.NewError("product_id is required").
			WithHint("Product ID is required").
			Mark(ierr.ErrValidation)
	}
	for _, rate := range c.TaxRates {
		if err := rate.Validate(); err != nil {
			return err
		}
	}
	return nil
}
