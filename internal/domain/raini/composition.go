package raini

import (
	"github.com/goldbook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// sumTolerance is how far copper% + silver% may drift from 100
var sumTolerance = decimal.New(1, -6)

// Composition is the alloy needed to bring pure gold down to a purity
type Composition struct {
	PureGoldWeight   decimal.Decimal `json:"pure_gold_weight"`
	Purity           decimal.Decimal `json:"purity_percentage"`
	CopperPercentage decimal.Decimal `json:"copper_percentage"`
	SilverPercentage decimal.Decimal `json:"silver_percentage"`
	TotalWeight      decimal.Decimal `json:"total_weight"`
	ImpuritiesWeight decimal.Decimal `json:"impurities_weight"`
	CopperWeight     decimal.Decimal `json:"copper_weight"`
	SilverWeight     decimal.Decimal `json:"silver_weight"`
}

// ComputeComposition derives the output and alloy weights:
//
//	total      = pure / (purity / 100)
//	impurities = total - pure
//	copper     = impurities * copper% / 100
//	silver     = impurities * silver% / 100
func ComputeComposition(pure, purity, copperPct, silverPct decimal.Decimal) (Composition, error) {
	if !pure.IsPositive() {
		return Composition{}, shared.InvalidInput("Pure gold weight must be greater than zero")
	}
	if !purity.IsPositive() || purity.GreaterThan(shared.Hundred) {
		return Composition{}, shared.InvalidInput("Purity must be greater than 0 and at most 100")
	}
	if err := validatePercentages(copperPct, silverPct); err != nil {
		return Composition{}, err
	}

	total := pure.Mul(shared.Hundred).Div(purity)
	impurities := total.Sub(pure)
	return Composition{
		PureGoldWeight:   pure,
		Purity:           purity,
		CopperPercentage: copperPct,
		SilverPercentage: silverPct,
		TotalWeight:      total,
		ImpuritiesWeight: impurities,
		CopperWeight:     shared.PercentOf(impurities, copperPct),
		SilverWeight:     shared.PercentOf(impurities, silverPct),
	}, nil
}

func validatePercentages(copperPct, silverPct decimal.Decimal) error {
	if !shared.IsPercentage(copperPct) || !shared.IsPercentage(silverPct) {
		return shared.InvalidInput("Copper and silver percentages must be between 0 and 100")
	}
	if copperPct.Add(silverPct).Sub(shared.Hundred).Abs().GreaterThan(sumTolerance) {
		return shared.InvalidInput("Copper and silver percentages must add up to 100")
	}
	return nil
}

// Metal names a percentage field of the alloy
type Metal string

const (
	MetalCopper Metal = "copper"
	MetalSilver Metal = "silver"
)

// BalancePercentages keeps the value of the metal the user edited last and
// sets the other one to 100 minus it, clamped to [0, 100]. An edited value
// that is itself out of range is left for validation to reject.
func BalancePercentages(copperPct, silverPct decimal.Decimal, edited Metal) (decimal.Decimal, decimal.Decimal) {
	switch edited {
	case MetalCopper:
		return copperPct, clampPercentage(shared.Hundred.Sub(copperPct))
	case MetalSilver:
		return clampPercentage(shared.Hundred.Sub(silverPct)), silverPct
	default:
		return copperPct, silverPct
	}
}

func clampPercentage(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	if v.GreaterThan(shared.Hundred) {
		return shared.Hundred
	}
	return v
}

// ComputeWithCorrection computes a composition, and when the percentages do
// not add up, applies one balancing pass from the last edited metal and
// validates again before rejecting.
func ComputeWithCorrection(pure, purity, copperPct, silverPct decimal.Decimal, lastEdited Metal) (Composition, error) {
	c, err := ComputeComposition(pure, purity, copperPct, silverPct)
	if err == nil || lastEdited == "" {
		return c, err
	}
	if validatePercentages(copperPct, silverPct) == nil {
		return c, err
	}
	copperPct, silverPct = BalancePercentages(copperPct, silverPct, lastEdited)
	return ComputeComposition(pure, purity, copperPct, silverPct)
}
