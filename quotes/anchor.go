package quotes

import (
	"sort"

	"github.com/shopspring/decimal"
)

// AnchorMethod records how an analyst anchor was derived.
type AnchorMethod string

const (
	AnchorTrimmed   AnchorMethod = "trimmed"
	AnchorConsensus AnchorMethod = "consensus"
	AnchorNone      AnchorMethod = "none"
)

// DefaultHaircut is the discount applied to analyst targets.
const DefaultHaircut = 0.125

// Anchor reduces individual analyst targets to one conservative figure.
// With three or more targets the lowest and highest are dropped and the rest
// averaged; otherwise the consensus is used. Either way the haircut is
// applied. Non-positive targets are ignored.
func Anchor(targets []float64, consensus, haircut float64) (float64, AnchorMethod) {
	valid := make([]float64, 0, len(targets))
	for _, t := range targets {
		if t > 0 {
			valid = append(valid, t)
		}
	}
	keep := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(haircut))

	if len(valid) >= 3 {
		sort.Float64s(valid)
		trimmed := valid[1 : len(valid)-1]
		sum := decimal.Zero
		for _, t := range trimmed {
			sum = sum.Add(decimal.NewFromFloat(t))
		}
		mean := sum.Div(decimal.NewFromInt(int64(len(trimmed))))
		return mean.Mul(keep).Round(4).InexactFloat64(), AnchorTrimmed
	}
	if consensus > 0 {
		return decimal.NewFromFloat(consensus).Mul(keep).Round(4).InexactFloat64(), AnchorConsensus
	}
	return 0, AnchorNone
}
