package types

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	ierr "github.com/kadepos/kadepos/internal/errors"
)

// Money is a fixed-point monetary amount stored as an integer count of minor
// currency units (cents). Storing cents in an int64 removes floating point
// drift entirely: equality and ordering are plain integer comparisons and
// addition/subtraction are exact.
//
// All scaled operations (percentages, scalar multiplication) run through
// decimal intermediates, round half away from zero on the minor-unit result,
// and saturate at the int64 bounds. That single rounding rule holds across
// the whole engine: percentage discounts, tax computation and buy-X-get-Y
// free-unit pricing all round the same way, so independently computed shares
// of a split amount recombine to the original exactly.
type Money struct {
	// Amount is the value in minor units (cents). Rs.10.50 => 1050.
	Amount int64 `json:"amount"`
}

var (
	oneHundred  = decimal.NewFromInt(100)
	maxMoneyDec = decimal.NewFromInt(math.MaxInt64)
	minMoneyDec = decimal.NewFromInt(math.MinInt64)
)

// ZeroMoney returns the zero amount.
func ZeroMoney() Money {
	return Money{Amount: 0}
}

// NewMoney creates an amount from major and minor units.
// NewMoney(100, 50) => Rs.100.50
func NewMoney(major, minor int64) Money {
	return Money{Amount: major*100 + minor}
}

// NewMoneyFromCents creates an amount directly from minor units.
func NewMoneyFromCents(cents int64) Money {
	return Money{Amount: cents}
}

// NewMoneyFromFloat converts a float amount in major units. Only intended for
// display-adjacent conversions at the edges of the system; the engine itself
// never goes through floats.
func NewMoneyFromFloat(val float64) Money {
	return Money{Amount: int64(math.Round(val * 100))}
}

// Float64 returns the amount in major units. For display only.
func (m Money) Float64() float64 {
	return float64(m.Amount) / 100
}

// Decimal returns the amount in major units with two decimal places.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Amount, -2)
}

func (m Money) Add(other Money) Money {
	return Money{Amount: m.Amount + other.Amount}
}

func (m Money) Sub(other Money) Money {
	return Money{Amount: m.Amount - other.Amount}
}

// MulInt multiplies by an integer scalar, saturating at the int64 bounds.
func (m Money) MulInt(scalar int64) Money {
	return Money{Amount: clampToCents(decimal.NewFromInt(m.Amount).Mul(decimal.NewFromInt(scalar)))}
}

// DivInt divides by an integer scalar using truncating integer division.
// A zero scalar yields the zero amount; callers validate quantities before
// dividing, so this is a guard rather than an error path.
func (m Money) DivInt(scalar int64) Money {
	if scalar == 0 {
		return ZeroMoney()
	}
	return Money{Amount: m.Amount / scalar}
}

// PercentageOf returns rate% of the amount, rounded half away from zero on
// the minor-unit result.
// NewMoney(100, 0).PercentageOf(decimal.NewFromInt(10)) => Rs.10.00
func (m Money) PercentageOf(rate decimal.Decimal) Money {
	scaled := decimal.NewFromInt(m.Amount).Mul(rate).Div(oneHundred)
	return Money{Amount: clampToCents(scaled.Round(0))}
}

// AddPercentage adds rate% to the amount.
// Rs.100 + 10% = Rs.110
func (m Money) AddPercentage(rate decimal.Decimal) Money {
	return m.Add(m.PercentageOf(rate))
}

// SubPercentage subtracts rate% from the amount.
// Rs.100 - 10% = Rs.90
func (m Money) SubPercentage(rate decimal.Decimal) Money {
	return m.Sub(m.PercentageOf(rate))
}

// Split divides the amount into parts shares. Every share gets the truncated
// base amount and the remainder goes to the LAST share, so the shares always
// sum back to the original exactly.
func (m Money) Split(parts int64) ([]Money, error) {
	if parts <= 0 {
		return nil, ierr.NewError("split count must be positive").
			WithHint("Split requires at least one share").
			WithReportableDetails(map[string]any{"parts": parts}).
			Mark(ierr.ErrValidation)
	}

	base := m.Amount / parts
	remainder := m.Amount % parts

	shares := make([]Money, parts)
	for i := int64(0); i < parts; i++ {
		shares[i] = Money{Amount: base}
	}
	shares[parts-1].Amount += remainder
	return shares, nil
}

// Abs returns the absolute value.
func (m Money) Abs() Money {
	if m.Amount < 0 {
		return Money{Amount: -m.Amount}
	}
	return m
}

// Neg returns the negated value.
func (m Money) Neg() Money {
	return Money{Amount: -m.Amount}
}

func (m Money) IsZero() bool {
	return m.Amount == 0
}

func (m Money) IsPositive() bool {
	return m.Amount > 0
}

func (m Money) IsNegative() bool {
	return m.Amount < 0
}

func (m Money) Equal(other Money) bool {
	return m.Amount == other.Amount
}

// Cmp returns -1, 0 or 1 depending on whether m is less than, equal to or
// greater than other.
func (m Money) Cmp(other Money) int {
	switch {
	case m.Amount < other.Amount:
		return -1
	case m.Amount > other.Amount:
		return 1
	default:
		return 0
	}
}

func (m Money) GreaterThan(other Money) bool {
	return m.Amount > other.Amount
}

func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.Amount >= other.Amount
}

func (m Money) LessThan(other Money) bool {
	return m.Amount < other.Amount
}

func (m Money) LessThanOrEqual(other Money) bool {
	return m.Amount <= other.Amount
}

// String renders the amount as Rs.<major>.<2-digit minor>, with a leading
// minus for negative amounts. Rs.10.50, -Rs.3.07
func (m Money) String() string {
	abs := m.Amount
	sign := ""
	if abs < 0 {
		abs = -abs
		sign = "-"
	}
	return fmt.Sprintf("%sRs.%d.%02d", sign, abs/100, abs%100)
}

// Formatted is the display form used by serialization layers alongside the
// raw minor-unit amount.
func (m Money) Formatted() string {
	return m.String()
}

// clampToCents narrows a minor-unit decimal to int64, saturating at the
// numeric limits. Decimal intermediates are arbitrary precision, so only
// this final narrowing can lose range.
func clampToCents(d decimal.Decimal) int64 {
	if d.GreaterThan(maxMoneyDec) {
		return math.MaxInt64
	}
	if d.LessThan(minMoneyDec) {
		return math.MinInt64
	}
	return d.IntPart()
}
