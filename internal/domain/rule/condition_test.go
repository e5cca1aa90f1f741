package rule

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/kadepos/kadepos/internal/domain/cart"
	"github.com/kadepos/kadepos/internal/types"
)

func snapshotFixture(promoCodes ...string) *cart.Snapshot {
	c := cart.NewCart()
	rice := cart.NewItem("Rice 5kg", types.NewMoney(1850, 0), decimal.NewFromInt(2))
	rice.ID = "rice-5kg"
	dhal := cart.NewItem("Dhal 1kg", types.NewMoney(640, 0), decimal.NewFromInt(3))
	dhal.ID = "dhal-1kg"
	c.AddItem(rice)
	c.AddItem(dhal)
	// subtotal = 2*1850.00 + 3*640.00 = Rs.5620.00, quantity = 5
	return cart.NewSnapshot(c, promoCodes)
}

func TestCondition_Subtotal(t *testing.T) {
	snap := snapshotFixture()
	subtotal := types.NewMoney(5620, 0)

	tests := []struct {
		name     string
		op       Operator
		value    types.Money
		expected bool
	}{
		{"gt below subtotal", OperatorGt, types.NewMoney(5000, 0), true},
		{"gt at subtotal", OperatorGt, subtotal, false},
		{"gte at subtotal", OperatorGte, subtotal, true},
		{"lt above subtotal", OperatorLt, types.NewMoney(6000, 0), true},
		{"lte at subtotal", OperatorLte, subtotal, true},
		{"eq exact", OperatorEq, subtotal, true},
		{"eq off by one cent", OperatorEq, types.NewMoneyFromCents(subtotal.Amount + 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Subtotal(tt.op, tt.value).Evaluate(snap))
		})
	}
}

func TestCondition_TotalQuantity(t *testing.T) {
	snap := snapshotFixture()

	assert.True(t, TotalQuantity(OperatorEq, decimal.NewFromInt(5)).Evaluate(snap))
	assert.True(t, TotalQuantity(OperatorGte, decimal.NewFromInt(5)).Evaluate(snap))
	assert.False(t, TotalQuantity(OperatorGt, decimal.NewFromInt(5)).Evaluate(snap))
	assert.True(t, TotalQuantity(OperatorLt, decimal.NewFromInt(6)).Evaluate(snap))
}

func TestCondition_HasItem(t *testing.T) {
	snap := snapshotFixture()

	assert.True(t, HasItem("rice-5kg", decimal.NewFromInt(2)).Evaluate(snap))
	assert.False(t, HasItem("rice-5kg", decimal.NewFromInt(3)).Evaluate(snap))
	assert.False(t, HasItem("no-such-item", decimal.NewFromInt(1)).Evaluate(snap))
}

func TestCondition_Combinators(t *testing.T) {
	snap := snapshotFixture()

	yes := Always()
	no := Not(Always())

	assert.True(t, And(yes, yes).Evaluate(snap))
	assert.False(t, And(yes, no).Evaluate(snap))
	assert.True(t, And().Evaluate(snap))

	assert.True(t, Or(no, yes).Evaluate(snap))
	assert.False(t, Or(no, no).Evaluate(snap))
	assert.True(t, Or().Evaluate(snap))

	assert.False(t, Not(yes).Evaluate(snap))
	assert.True(t, Not(no).Evaluate(snap))

	nested := And(
		Subtotal(OperatorGt, types.NewMoney(1000, 0)),
		Or(
			HasItem("rice-5kg", decimal.NewFromInt(1)),
			TotalQuantity(OperatorGte, decimal.NewFromInt(100)),
		),
	)
	assert.True(t, nested.Evaluate(snap))
}

// Reserved condition kinds and operators count as satisfied. This is the
// documented permissive default: an unevaluated condition never silently
// disables the rule carrying it.
func TestCondition_PermissiveDefaults(t *testing.T) {
	snap := snapshotFixture()

	assert.True(t, Condition{Type: ConditionType("customer_segment")}.Evaluate(snap))
	assert.True(t, Subtotal(OperatorIn, types.NewMoney(1, 0)).Evaluate(snap))
	assert.True(t, TotalQuantity(OperatorIn, decimal.NewFromInt(1)).Evaluate(snap))

	// Malformed conditions with missing thresholds are satisfied too.
	assert.True(t, Condition{Type: ConditionSubtotal, Op: OperatorGt}.Evaluate(snap))
	assert.True(t, Condition{Type: ConditionNot}.Evaluate(snap))
}
