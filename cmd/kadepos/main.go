package main

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"github.com/kadepos/kadepos/internal/config"
	"github.com/kadepos/kadepos/internal/domain/cart"
	"github.com/kadepos/kadepos/internal/domain/discount"
	"github.com/kadepos/kadepos/internal/domain/tax"
	"github.com/kadepos/kadepos/internal/logger"
	"github.com/kadepos/kadepos/internal/service"
	"github.com/kadepos/kadepos/internal/types"
)

func main() {
	fx.New(
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			newServiceParams,
		),
		fx.Invoke(run),
		fx.NopLogger,
	).Run()
}

func newServiceParams(cfg *config.Configuration, log *logger.Logger) service.ServiceParams {
	return service.ServiceParams{Config: cfg, Logger: log}
}

// run registers a small sample catalogue and prices one cart, then shuts the
// app down. It doubles as a smoke test of the full setup → freeze → calculate
// flow.
func run(params service.ServiceParams, shutdowner fx.Shutdowner) error {
	defer shutdowner.Shutdown() //nolint:errcheck

	registry := service.NewRegistry(params)

	if err := registry.AddGlobalTax(tax.TaxRate{
		Name:         "VAT",
		Rate:         decimal.NewFromInt(15),
		Jurisdiction: "LK",
		AppliesTo:    tax.AppliesToAll,
	}); err != nil {
		return err
	}

	tenPercent := decimal.NewFromInt(10)
	rule := discount.NewDiscountRule("Opening Week 10% Off", discount.DiscountTypePercentage, 10, true)
	rule.PercentageOff = &tenPercent
	if err := registry.AddProductDiscount(&discount.ProductDiscountConfig{
		ProductID: "rice-5kg",
		Rules:     []*discount.DiscountRule{rule},
		Stackable: true,
	}); err != nil {
		return err
	}

	svc := service.NewPricingService(params, registry.Build())

	basket := cart.NewCart()
	rice := cart.NewItem("Rice 5kg", types.NewMoney(1850, 0), decimal.NewFromInt(2))
	rice.ID = "rice-5kg"
	dhal := cart.NewItem("Dhal 1kg", types.NewMoney(640, 0), decimal.NewFromInt(3))
	dhal.ID = "dhal-1kg"
	basket.AddItem(rice)
	basket.AddItem(dhal)

	result, err := svc.CalculateCart(context.Background(), basket, nil)
	if err != nil {
		return err
	}

	params.Logger.Infow("sample cart priced",
		"cart_id", basket.ID,
		"subtotal", result.Subtotal.String(),
		"discount", result.TotalDiscount.String(),
		"tax", result.TotalTax.String(),
		"grand_total", result.GrandTotal.String())
	return nil
}
