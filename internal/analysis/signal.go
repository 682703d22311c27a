package analysis

import "fmt"

// Spread band, in percent, within which the price is considered in line with
// the model prediction.
const SignalBandPercent = 5.0

type SignalState string

const (
	SignalBuy  SignalState = "buy"
	SignalHold SignalState = "hold"
	SignalWait SignalState = "wait"
)

type Signal struct {
	Signal  SignalState `json:"signal"`
	Spread  *float64    `json:"spread"`
	Message string      `json:"message"`
}

// BuySignal classifies the current price against the model-expected price.
// A nil expected price (insufficient history or missing benchmark) always
// yields hold. The band comparisons are strict, so a spread of exactly -5.0%
// is still hold.
func BuySignal(actualPpl float64, expectedPpl *float64) Signal {
	if expectedPpl == nil {
		return Signal{Signal: SignalHold, Message: "Insufficient data for analysis"}
	}

	spreadPercent := (actualPpl - *expectedPpl) / *expectedPpl * 100
	rounded := round(spreadPercent, 1)

	switch {
	case spreadPercent < -SignalBandPercent:
		return Signal{
			Signal:  SignalBuy,
			Spread:  &rounded,
			Message: fmt.Sprintf("%.1f%% below expected - Good time to buy!", -spreadPercent),
		}
	case spreadPercent > SignalBandPercent:
		return Signal{
			Signal:  SignalWait,
			Spread:  &rounded,
			Message: fmt.Sprintf("%.1f%% above expected - Consider waiting", spreadPercent),
		}
	default:
		return Signal{
			Signal:  SignalHold,
			Spread:  &rounded,
			Message: "Price is near expected value",
		}
	}
}
