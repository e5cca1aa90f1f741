package types

import (
	ierr "github.com/kadepos/kadepos/internal/errors"
)

// CalculationOrder selects which base amount the tax pass runs against
// relative to the discount pass. The three orders produce different totals
// for non-trivial rates, so the choice is part of the engine configuration
// and never inferred.
type CalculationOrder string

const (
	// CalculationOrderDiscountFirst applies discounts first and taxes the
	// discounted amount.
	CalculationOrderDiscountFirst CalculationOrder = "discount_first"

	// CalculationOrderTaxFirst taxes the original amount, then applies
	// discounts on top.
	CalculationOrderTaxFirst CalculationOrder = "tax_first"

	// CalculationOrderParallel computes tax and discount independently
	// against the original amount.
	CalculationOrderParallel CalculationOrder = "parallel"
)

func (o CalculationOrder) String() string {
	return string(o)
}

func (o CalculationOrder) Validate() error {
	switch o {
	case CalculationOrderDiscountFirst, CalculationOrderTaxFirst, CalculationOrderParallel:
		return nil
	default:
		return ierr.NewErrorf("invalid calculation order: %s", o).
			WithHint("Calculation order must be one of discount_first, tax_first, parallel").
			Mark(ierr.ErrValidation)
	}
}
