package shared

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Direction tells a balance adjustment whether to increase or decrease
type Direction string

const (
	DirectionAdd      Direction = "add"
	DirectionSubtract Direction = "subtract"
)

// IsValid reports whether the direction is known
func (d Direction) IsValid() bool {
	return d == DirectionAdd || d == DirectionSubtract
}

// Inverse returns the opposite direction
func (d Direction) Inverse() Direction {
	if d == DirectionAdd {
		return DirectionSubtract
	}
	return DirectionAdd
}

// Signed returns amount with the sign the direction implies
func (d Direction) Signed(amount decimal.Decimal) decimal.Decimal {
	if d == DirectionSubtract {
		return amount.Neg()
	}
	return amount
}

// ParseDirection converts user input into a Direction
func ParseDirection(s string) (Direction, error) {
	d := Direction(s)
	if !d.IsValid() {
		return "", InvalidInput(fmt.Sprintf("direction must be %q or %q", DirectionAdd, DirectionSubtract))
	}
	return d, nil
}

// WeightPlaces is the precision weights are rounded to when compared or displayed
const WeightPlaces = 4

// Hundred is the percentage base
var Hundred = decimal.NewFromInt(100)

// PercentOf returns amount/100*pct without rounding
func PercentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Shift(-2).Mul(pct)
}

// IsPercentage reports whether v lies in [0, 100]
func IsPercentage(v decimal.Decimal) bool {
	return !v.IsNegative() && v.LessThanOrEqual(Hundred)
}
