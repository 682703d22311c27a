package analysis

import "math"

// Minimum paired samples before correlation/regression produce a result.
// Short windows produce spuriously confident fits, keep the gates separate.
var (
	MinCorrelationSamples = 3
	MinRegressionSamples  = 5
)

// PairSeries extracts the benchmark-paired series from a snapshot history:
// only entries where the benchmark value is present are included, paired by
// index. No interpolation, no forward-fill.
func PairSeries(heatingPpl []float64, crudeGbp []*float64) (heating, crude []float64) {
	for i, c := range crudeGbp {
		if c == nil || i >= len(heatingPpl) {
			continue
		}
		heating = append(heating, heatingPpl[i])
		crude = append(crude, *c)
	}
	return heating, crude
}

// Correlation computes the Pearson correlation coefficient between the two
// series, rounded to 3 decimal places. Returns nil when fewer than
// MinCorrelationSamples points exist, the lengths differ, or either series
// has zero variance. The sign is preserved.
func Correlation(x, y []float64) *float64 {
	if len(x) != len(y) || len(x) < MinCorrelationSamples {
		return nil
	}

	n := float64(len(x))
	var sumX, sumY, sumXY, sumX2, sumY2 float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
		sumY2 += y[i] * y[i]
	}

	numerator := n*sumXY - sumX*sumY
	denominator := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if denominator == 0 {
		return nil
	}

	r := round(numerator/denominator, 3)
	return &r
}

// ExpectedPrice fits an ordinary least-squares line over the paired history
// (x = crude, y = heating oil ppl) and predicts the heating oil ppl for the
// given crude price, rounded to 2 decimal places. Returns nil when fewer than
// MinRegressionSamples points exist or the lengths differ. The fit recomputes
// from scratch on every call; the series is bounded by the retention window.
func ExpectedPrice(crudePrice float64, historicalCrude, historicalHeating []float64) *float64 {
	if len(historicalCrude) != len(historicalHeating) || len(historicalCrude) < MinRegressionSamples {
		return nil
	}

	n := float64(len(historicalCrude))
	var sumX, sumY, sumXY, sumX2 float64
	for i, x := range historicalCrude {
		sumX += x
		sumY += historicalHeating[i]
		sumXY += x * historicalHeating[i]
		sumX2 += x * x
	}

	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return nil
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	expected := round(slope*crudePrice+intercept, 2)
	return &expected
}

func round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
