// Package rule provides the boolean condition language gating discounts and
// the cart-level rule extension point for custom promotions.
package rule

import (
	"github.com/shopspring/decimal"

	"github.com/kadepos/kadepos/internal/domain/cart"
	"github.com/kadepos/kadepos/internal/types"
)

// Operator compares a snapshot value against a condition threshold.
type Operator string

const (
	OperatorGt  Operator = "gt"
	OperatorLt  Operator = "lt"
	OperatorEq  Operator = "eq"
	OperatorGte Operator = "gte"
	OperatorLte Operator = "lte"

	// OperatorIn is reserved for set membership and not evaluated yet.
	// Conditions using it are treated as satisfied (see Evaluate).
	OperatorIn Operator = "in"
)

// ConditionType tags the variant held by a Condition.
type ConditionType string

const (
	ConditionSubtotal      ConditionType = "subtotal"
	ConditionTotalQuantity ConditionType = "total_quantity"
	ConditionHasItem       ConditionType = "has_item"
	ConditionAnd           ConditionType = "and"
	ConditionOr            ConditionType = "or"
	ConditionNot           ConditionType = "not"
	ConditionAlways        ConditionType = "always"
)

// Condition is a pure boolean predicate over a cart snapshot. It is a closed
// tagged union: the Type field selects which of the value fields apply.
//
// Evaluation is deliberately permissive: condition types and operators this
// engine does not (yet) evaluate count as satisfied rather than silently
// disabling the rule that carries them. The choice is intentional and covered
// by tests; tightening it to "unsupported means not applicable" is a one-line
// change in Evaluate.
type Condition struct {
	Type ConditionType `json:"type"`

	// Op and one of Amount/Quantity apply to subtotal and total_quantity
	// comparisons.
	Op       Operator         `json:"op,omitempty"`
	Amount   *types.Money     `json:"amount,omitempty"`
	Quantity *decimal.Decimal `json:"quantity,omitempty"`

	// ItemID and MinQuantity apply to has_item.
	ItemID      string           `json:"item_id,omitempty"`
	MinQuantity *decimal.Decimal `json:"min_quantity,omitempty"`

	// Children applies to and/or, Inner to not.
	Children []Condition `json:"children,omitempty"`
	Inner    *Condition  `json:"inner,omitempty"`
}

// Subtotal builds a condition comparing the cart subtotal against value.
func Subtotal(op Operator, value types.Money) Condition {
	return Condition{Type: ConditionSubtotal, Op: op, Amount: &value}
}

// TotalQuantity builds a condition comparing the summed cart quantity.
func TotalQuantity(op Operator, value decimal.Decimal) Condition {
	return Condition{Type: ConditionTotalQuantity, Op: op, Quantity: &value}
}

// HasItem builds a condition requiring at least minQty units of a product.
func HasItem(itemID string, minQty decimal.Decimal) Condition {
	return Condition{Type: ConditionHasItem, ItemID: itemID, MinQuantity: &minQty}
}

// And builds a conjunction of conditions.
func And(children ...Condition) Condition {
	return Condition{Type: ConditionAnd, Children: children}
}

// Or builds a disjunction of conditions.
func Or(children ...Condition) Condition {
	return Condition{Type: ConditionOr, Children: children}
}

// Not negates a condition.
func Not(inner Condition) Condition {
	return Condition{Type: ConditionNot, Inner: &inner}
}

// Always is the identity predicate used when a rule has no gating condition.
func Always() Condition {
	return Condition{Type: ConditionAlways}
}

// Evaluate checks the condition against the snapshot. It has no side effects
// and never fails; malformed conditions (missing threshold values) count as
// satisfied under the permissive default.
func (c Condition) Evaluate(snap *cart.Snapshot) bool {
	switch c.Type {
	case ConditionSubtotal:
		if c.Amount == nil {
			return true
		}
		return compareMoney(c.Op, snap.Subtotal(), *c.Amount)
	case ConditionTotalQuantity:
		if c.Quantity == nil {
			return true
		}
		return compareDecimal(c.Op, snap.TotalQuantity(), *c.Quantity)
	case ConditionHasItem:
		if c.MinQuantity == nil {
			return true
		}
		return snap.QuantityOf(c.ItemID).GreaterThanOrEqual(*c.MinQuantity)
	case ConditionAnd:
		for _, child := range c.Children {
			if !child.Evaluate(snap) {
				return false
			}
		}
		return true
	case ConditionOr:
		for _, child := range c.Children {
			if child.Evaluate(snap) {
				return true
			}
		}
		return len(c.Children) == 0
	case ConditionNot:
		if c.Inner == nil {
			return true
		}
		return !c.Inner.Evaluate(snap)
	case ConditionAlways:
		return true
	default:
		// Reserved condition kinds are satisfied until implemented.
		return true
	}
}

func compareMoney(op Operator, got, want types.Money) bool {
	switch op {
	case OperatorGt:
		return got.GreaterThan(want)
	case OperatorLt:
		return got.LessThan(want)
	case OperatorEq:
		return got.Equal(want)
	case OperatorGte:
		return got.GreaterThanOrEqual(want)
	case OperatorLte:
		return got.LessThanOrEqual(want)
	default:
		// Reserved operators (in) are satisfied until implemented.
		return true
	}
}

func compareDecimal(op Operator, got, want decimal.Decimal) bool {
	switch op {
	case OperatorGt:
		return got.GreaterThan(want)
	case OperatorLt:
		return got.LessThan(want)
	case OperatorEq:
		return got.Equal(want)
	case OperatorGte:
		return got.GreaterThanOrEqual(want)
	case OperatorLte:
		return got.LessThanOrEqual(want)
	default:
		return true
	}
}
