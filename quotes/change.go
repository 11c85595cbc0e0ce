package quotes

import (
	"errors"

	"github.com/shopspring/decimal"

	"stock-movers/models"
)

var errIncomplete = errors.New("chart payload missing price or basis")

// PercentChange measures price against the period's basis. Intraday periods
// use the first sample in the window and longer periods the previous close;
// each falls back to the other when missing. ok is false when price or every
// basis is non-positive.
func PercentChange(period models.Period, price, previousClose float64, samples []float64) (float64, bool) {
	if price <= 0 {
		return 0, false
	}

	var first float64
	for _, s := range samples {
		if s > 0 {
			first = s
			break
		}
	}

	basis := previousClose
	alt := first
	if period.Intraday() {
		basis, alt = first, previousClose
	}
	if basis <= 0 {
		basis = alt
	}
	if basis <= 0 {
		return 0, false
	}

	b := decimal.NewFromFloat(basis)
	change := decimal.NewFromFloat(price).Sub(b).Div(b).Mul(decimal.NewFromInt(100)).Round(4)
	return change.InexactFloat64(), true
}

// TrailingAverage is the mean of the positive samples, or price when there
// are none.
func TrailingAverage(samples []float64, price float64) float64 {
	sum := decimal.Zero
	n := 0
	for _, s := range samples {
		if s > 0 {
			sum = sum.Add(decimal.NewFromFloat(s))
			n++
		}
	}
	if n == 0 {
		return price
	}
	return sum.Div(decimal.NewFromInt(int64(n))).Round(4).InexactFloat64()
}
