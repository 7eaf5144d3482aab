package wave

import (
	"fmt"
	"math"

	"github.com/neuromusic/waver/utils"
)

// Waveform is the temporal factor of a source: a sinusoid at Frequency
// with a Phase offset, forced to zero for times strictly past Cutoff.
// A continuous waveform has Cutoff = +Inf.
type Waveform struct {
	Frequency float64
	Phase     float64
	Cutoff    float64
}

// NewWaveform validates the frequency and optional cycle count. A nil
// ncycles means the waveform rings for the whole run; otherwise the
// cutoff sits at ncycles/frequency.
func NewWaveform(frequency float64, ncycles *int, phase float64) (w Waveform, err error) {
	if !(frequency > 0) || math.IsInf(frequency, 0) {
		err = &ConfigError{Param: "frequency",
			Msg: fmt.Sprintf("must be positive and finite, got %v", frequency)}
		return
	}
	cutoff := math.Inf(1)
	if ncycles != nil {
		if *ncycles <= 0 {
			err = &ConfigError{Param: "ncycles",
				Msg: fmt.Sprintf("must be positive, got %d", *ncycles)}
			return
		}
		cutoff = float64(*ncycles) / frequency
	}
	w = Waveform{Frequency: frequency, Phase: phase, Cutoff: cutoff}
	return
}

// At evaluates the waveform at time t. The cutoff instant itself still
// rings; only times strictly past it are silenced.
func (w Waveform) At(t float64) float64 {
	if t > w.Cutoff {
		return 0
	}
	return math.Sin(2*math.Pi*w.Frequency*t + w.Phase)
}

// Sample evaluates the waveform at each time in ts.
func (w Waveform) Sample(ts utils.Vector) utils.Vector {
	return ts.Copy().Apply(w.At)
}
