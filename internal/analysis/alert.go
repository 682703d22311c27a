package analysis

import (
	"fmt"
	"math"
)

type AlertDecision struct {
	ShouldSend bool     `json:"should_send"`
	Reason     string   `json:"reason"`
	Change     *float64 `json:"change"`
}

// ShouldSendAlert decides whether today's cheapest ppl warrants a
// notification. The first successful snapshot always alerts, to confirm the
// pipeline is live. After that the change must exceed the threshold strictly;
// a change equal to the threshold does not trigger. The signed change is
// reported even when below threshold.
func ShouldSendAlert(currentPpl float64, previousPpl *float64, threshold float64) AlertDecision {
	if previousPpl == nil {
		return AlertDecision{ShouldSend: true, Reason: "first_record"}
	}

	change := currentPpl - *previousPpl
	absChange := math.Abs(change)

	if absChange > threshold {
		direction := "increased"
		if change < 0 {
			direction = "dropped"
		}
		return AlertDecision{
			ShouldSend: true,
			Reason:     fmt.Sprintf("ppl_%s_%.1fp", direction, absChange),
			Change:     &change,
		}
	}

	return AlertDecision{ShouldSend: false, Reason: "no_significant_change", Change: &change}
}
