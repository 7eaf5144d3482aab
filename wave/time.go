package wave

import (
	"fmt"
	"math"
)

// Time describes the temporal domain. NSteps is the unique count
// covering Duration:
//
//	NSteps*Step >= Duration  and  (NSteps-1)*Step < Duration
//
// so an exact multiple needs exactly Duration/Step steps, with no extra
// step tacked on. Immutable once built.
type Time struct {
	Step     float64
	Duration float64
	NSteps   int
}

// NewTime validates (step, duration) and derives NSteps.
func NewTime(step, duration float64) (Time, error) {
	if !(step > 0) || math.IsInf(step, 0) {
		return Time{}, &ConfigError{Param: "step",
			Msg: fmt.Sprintf("must be positive and finite, got %v", step)}
	}
	if !(duration > 0) || math.IsInf(duration, 0) {
		return Time{}, &ConfigError{Param: "duration",
			Msg: fmt.Sprintf("must be positive and finite, got %v", duration)}
	}
	n := int(math.Ceil(duration / step))
	if n < 1 {
		n = 1
	}
	// Ceil lands one step high when duration/step rounds up across an
	// integer, and one low when it rounds down. Walk to the unique
	// count satisfying the covering law.
	for n > 1 && float64(n-1)*step >= duration {
		n--
	}
	for float64(n)*step < duration {
		n++
	}
	return Time{Step: step, Duration: duration, NSteps: n}, nil
}
