package service

import (
	"github.com/kadepos/kadepos/internal/domain/pricing"
	"github.com/kadepos/kadepos/internal/domain/tax"
	"github.com/kadepos/kadepos/internal/logger"
	"github.com/kadepos/kadepos/internal/types"
)

// taxResolver resolves the tax owed on one cart line's taxable amount from
// the frozen rule set. Like discount resolution it never fails; missing
// configuration resolves to zero tax.
type taxResolver struct {
	rules  *RuleSet
	logger *logger.Logger
}

func newTaxResolver(rules *RuleSet, log *logger.Logger) *taxResolver {
	return &taxResolver{rules: rules, logger: log}
}

// ResolveItemTax applies the product's tax config when one exists, falling
// back to global rates otherwise. Exemption short-circuits to zero. Each rate
// is rounded independently before summing, so the per-rate breakdown always
// adds up to the total exactly.
func (r *taxResolver) ResolveItemTax(productID string, taxableAmount types.Money) (types.Money, []pricing.TaxDetail) {
	total := types.ZeroMoney()
	var details []pricing.TaxDetail

	if cfg, ok := r.rules.productTaxes[productID]; ok {
		if cfg.TaxExempt {
			r.logger.Debugw("product is tax exempt", "product_id", productID)
			return types.ZeroMoney(), nil
		}
		for _, rate := range cfg.TaxRates {
			amount := taxableAmount.PercentageOf(rate.Rate)
			total = total.Add(amount)
			details = append(details, pricing.TaxDetail{
				Name:   rate.Name,
				Rate:   rate.Rate,
				Amount: amount,
			})
		}
		return total, details
	}

	for _, rate := range r.rules.globalTaxRates {
		if !globalRateApplies(rate, productID) {
			continue
		}
		amount := taxableAmount.PercentageOf(rate.Rate)
		total = total.Add(amount)
		details = append(details, pricing.TaxDetail{
			Name:   rate.Name,
			Rate:   rate.Rate,
			Amount: amount,
		})
	}
	return total, details
}

// globalRateApplies filters global rates for an item without its own tax
// config. Category and region scoping need item metadata and a locale the
// engine does not model yet; those rates are skipped here.
func globalRateApplies(rate tax.TaxRate, productID string) bool {
	switch rate.AppliesTo {
	case tax.AppliesToAll:
		return true
	case tax.AppliesToProduct:
		return rate.AppliesToValue == productID
	default:
		return false
	}
}
