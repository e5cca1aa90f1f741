package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadepos/kadepos/internal/domain/tax"
	"github.com/kadepos/kadepos/internal/logger"
	"github.com/kadepos/kadepos/internal/types"
)

func buildTaxResolver(t *testing.T, configure func(*Registry)) *taxResolver {
	t.Helper()
	registry := NewRegistry(testParams())
	configure(registry)
	return newTaxResolver(registry.Build(), logger.GetLogger())
}

func TestResolveItemTax_NoConfig(t *testing.T) {
	resolver := buildTaxResolver(t, func(r *Registry) {})
	got, details := resolver.ResolveItemTax("p1", types.NewMoney(100, 0))
	assert.True(t, got.IsZero())
	assert.Empty(t, details)
}

func TestResolveItemTax_ProductRates(t *testing.T) {
	resolver := buildTaxResolver(t, func(r *Registry) {
		require.NoError(t, r.AddProductTax(&tax.ProductTaxConfig{
			ProductID: "p1",
			TaxRates: []tax.TaxRate{
				{Name: "VAT", Rate: decimal.NewFromInt(15), Jurisdiction: "LK", AppliesTo: tax.AppliesToAll},
				{Name: "NBT", Rate: decimal.NewFromInt(2), Jurisdiction: "LK", AppliesTo: tax.AppliesToAll},
			},
		}))
	})

	got, details := resolver.ResolveItemTax("p1", types.NewMoney(100, 0))
	// 15% + 2% of Rs.100.00
	assert.Equal(t, int64(1700), got.Amount)
	require.Len(t, details, 2)
	assert.Equal(t, "VAT", details[0].Name)
	assert.Equal(t, int64(1500), details[0].Amount.Amount)
	assert.Equal(t, "NBT", details[1].Name)
	assert.Equal(t, int64(200), details[1].Amount.Amount)
}

// Each rate is rounded independently and the rounded amounts are summed.
// Summing first and rounding once would give a different (wrong) figure here.
func TestResolveItemTax_RoundPerRateThenSum(t *testing.T) {
	rate := decimal.RequireFromString("5.005")
	resolver := buildTaxResolver(t, func(r *Registry) {
		require.NoError(t, r.AddProductTax(&tax.ProductTaxConfig{
			ProductID: "p1",
			TaxRates: []tax.TaxRate{
				{Name: "levy-a", Rate: rate, Jurisdiction: "LK", AppliesTo: tax.AppliesToAll},
				{Name: "levy-b", Rate: rate, Jurisdiction: "LK", AppliesTo: tax.AppliesToAll},
			},
		}))
	})

	taxable := types.NewMoneyFromCents(9999)
	got, details := resolver.ResolveItemTax("p1", taxable)

	// 9999 × 5.005% = 500.44995 → 500 per rate; 500 + 500 = 1000.
	// Sum-then-round would give round(1000.8999) = 1001.
	assert.Equal(t, int64(1000), got.Amount)
	sum := types.ZeroMoney()
	for _, d := range details {
		sum = sum.Add(d.Amount)
	}
	assert.True(t, sum.Equal(got), "per-rate breakdown must add up to the total")
}

// An exempt product yields zero tax even when global rates exist.
func TestResolveItemTax_ExemptionPrecedence(t *testing.T) {
	resolver := buildTaxResolver(t, func(r *Registry) {
		require.NoError(t, r.AddGlobalTax(tax.TaxRate{
			Name: "VAT", Rate: decimal.NewFromInt(15), Jurisdiction: "LK", AppliesTo: tax.AppliesToAll,
		}))
		require.NoError(t, r.AddProductTax(&tax.ProductTaxConfig{
			ProductID: "books",
			TaxExempt: true,
			TaxRates: []tax.TaxRate{
				{Name: "ignored", Rate: decimal.NewFromInt(10), Jurisdiction: "LK", AppliesTo: tax.AppliesToAll},
			},
		}))
	})

	got, details := resolver.ResolveItemTax("books", types.NewMoney(100, 0))
	assert.True(t, got.IsZero())
	assert.Empty(t, details)
}

func TestResolveItemTax_GlobalFallback(t *testing.T) {
	resolver := buildTaxResolver(t, func(r *Registry) {
		require.NoError(t, r.AddGlobalTax(tax.TaxRate{
			Name: "VAT", Rate: decimal.NewFromInt(10), Jurisdiction: "LK", AppliesTo: tax.AppliesToAll,
		}))
		require.NoError(t, r.AddGlobalTax(tax.TaxRate{
			Name: "luxury", Rate: decimal.NewFromInt(5), Jurisdiction: "LK",
			AppliesTo: tax.AppliesToProduct, AppliesToValue: "perfume",
		}))
		require.NoError(t, r.AddGlobalTax(tax.TaxRate{
			Name: "regional", Rate: decimal.NewFromInt(3), Jurisdiction: "LK",
			AppliesTo: tax.AppliesToRegion, AppliesToValue: "western",
		}))
	})

	// Unrelated product: only the "all" rate applies; region rates are a
	// defined extension point and skipped.
	got, details := resolver.ResolveItemTax("soap", types.NewMoney(100, 0))
	assert.Equal(t, int64(1000), got.Amount)
	require.Len(t, details, 1)
	assert.Equal(t, "VAT", details[0].Name)

	// Named product: "all" plus its product-scoped rate.
	got, details = resolver.ResolveItemTax("perfume", types.NewMoney(100, 0))
	assert.Equal(t, int64(1500), got.Amount)
	assert.Len(t, details, 2)
}

// A product-specific config replaces the global rates entirely rather than
// adding to them.
func TestResolveItemTax_ProductConfigOverridesGlobal(t *testing.T) {
	resolver := buildTaxResolver(t, func(r *Registry) {
		require.NoError(t, r.AddGlobalTax(tax.TaxRate{
			Name: "VAT", Rate: decimal.NewFromInt(15), Jurisdiction: "LK", AppliesTo: tax.AppliesToAll,
		}))
		require.NoError(t, r.AddProductTax(&tax.ProductTaxConfig{
			ProductID: "p1",
			TaxRates: []tax.TaxRate{
				{Name: "reduced", Rate: decimal.NewFromInt(5), Jurisdiction: "LK", AppliesTo: tax.AppliesToAll},
			},
		}))
	})

	got, details := resolver.ResolveItemTax("p1", types.NewMoney(100, 0))
	assert.Equal(t, int64(500), got.Amount)
	require.Len(t, details, 1)
	assert.Equal(t, "reduced", details[0].Name)
}
