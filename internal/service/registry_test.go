package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadepos/kadepos/internal/domain/discount"
	"github.com/kadepos/kadepos/internal/domain/tax"
	ierr "github.com/kadepos/kadepos/internal/errors"
	"github.com/kadepos/kadepos/internal/types"
)

func TestRegistry_RejectsInvalidCalculationOrder(t *testing.T) {
	registry := NewRegistry(testParams())
	err := registry.SetCalculationOrder(types.CalculationOrder("sideways"))
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestRegistry_RejectsNegativeTaxRate(t *testing.T) {
	registry := NewRegistry(testParams())
	err := registry.AddGlobalTax(tax.TaxRate{
		Name: "broken", Rate: decimal.NewFromInt(-5), Jurisdiction: "LK", AppliesTo: tax.AppliesToAll,
	})
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestRegistry_RejectsTaxRateAboveSanityBound(t *testing.T) {
	registry := NewRegistry(testParams()) // default bound: 100%
	err := registry.AddGlobalTax(tax.TaxRate{
		Name: "confiscatory", Rate: decimal.NewFromInt(250), Jurisdiction: "LK", AppliesTo: tax.AppliesToAll,
	})
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestRegistry_RejectsIncoherentDiscountRule(t *testing.T) {
	registry := NewRegistry(testParams())

	// percentage rule without percentage_off
	err := registry.AddProductDiscount(&discount.ProductDiscountConfig{
		ProductID: "p1",
		Rules: []*discount.DiscountRule{{
			ID: "r1", Name: "r1", Type: discount.DiscountTypePercentage,
		}},
	})
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))

	// percentage outside 0-100
	over := decimal.NewFromInt(120)
	err = registry.AddProductDiscount(&discount.ProductDiscountConfig{
		ProductID: "p1",
		Rules: []*discount.DiscountRule{{
			ID: "r1", Name: "r1", Type: discount.DiscountTypePercentage, PercentageOff: &over,
		}},
	})
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))

	// tier with inverted bounds
	maxQty := decimal.NewFromInt(5)
	err = registry.AddProductDiscount(&discount.ProductDiscountConfig{
		ProductID: "p1",
		Rules: []*discount.DiscountRule{{
			ID: "r1", Name: "r1", Type: discount.DiscountTypeTiered,
			Tiers: []discount.TierLevel{{
				MinQuantity: decimal.NewFromInt(10), MaxQuantity: &maxQty,
				DiscountPercent: decimal.NewFromInt(5),
			}},
		}},
	})
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}

func TestRegistry_BuildFreezesAndNormalizes(t *testing.T) {
	registry := NewRegistry(testParams())

	ten := decimal.NewFromInt(10)
	cfg := &discount.ProductDiscountConfig{
		ProductID: "p1",
		Rules: []*discount.DiscountRule{
			{
				ID: "low", Name: "low", Priority: 1,
				Type: discount.DiscountTypePercentage, PercentageOff: &ten, Stackable: true,
			},
			{
				ID: "high", Name: "high", Priority: 9,
				Type: discount.DiscountTypePercentage, PercentageOff: &ten, Stackable: true,
			},
		},
	}
	require.NoError(t, registry.AddProductDiscount(cfg))
	rs := registry.Build()

	frozen := rs.productDiscounts["p1"]
	require.NotNil(t, frozen)
	assert.Equal(t, "high", frozen.Rules[0].ID, "rules are pre-sorted by priority descending")
	assert.Equal(t, "low", frozen.Rules[1].ID)

	// Mutating the source config after Build must not leak into the set.
	cfg.Rules[0].Priority = 100
	assert.Equal(t, 9, frozen.Rules[0].Priority)
}

func TestRegistry_DefaultOrderComesFromConfig(t *testing.T) {
	params := testParams()
	params.Config.Pricing.DefaultCalculationOrder = types.CalculationOrderTaxFirst
	registry := NewRegistry(params)
	assert.Equal(t, types.CalculationOrderTaxFirst, registry.Build().CalculationOrder())
}
