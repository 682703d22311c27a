package analysis

import "math"

// MovingAverage calculates a simple moving average series. Positions with
// fewer than period preceding values are NaN, mirroring how charting
// consumers expect a leading gap.
func MovingAverage(prices []float64, period int) []float64 {
	result := make([]float64, len(prices))
	if len(prices) < period || period <= 0 {
		for i := range result {
			result[i] = math.NaN()
		}
		return result
	}

	for i := 0; i < len(prices); i++ {
		if i < period-1 {
			result[i] = math.NaN()
			continue
		}
		sum := 0.0
		for j := 0; j < period; j++ {
			sum += prices[i-period+1+j]
		}
		result[i] = sum / float64(period)
	}
	return result
}
