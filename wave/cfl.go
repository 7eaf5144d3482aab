package wave

import (
	"fmt"
	"math"

	"github.com/neuromusic/waver/utils"
)

// StableStep derives the largest stable time step for the grid from the
// CFL criterion and rounds it down to a single leading significant
// digit:
//
//	courant = sqrt(ndim)
//	step    = floorsig(courant * spacing / maxSpeed)
//
// The rounding keeps the step strictly within the stability bound while
// printing as a clean number.
func StableStep(g *Grid) (step float64, err error) {
	var (
		maxSpeed = g.MaxSpeed()
		courant  = math.Sqrt(float64(g.NDim()))
	)
	if !(maxSpeed > 0) || math.IsInf(maxSpeed, 0) {
		return 0, &ConfigError{Param: "speed",
			Msg: fmt.Sprintf("stability bound undefined for max speed %v", maxSpeed)}
	}
	maxStep := courant * g.Spacing / maxSpeed
	if !(maxStep > 0) || math.IsInf(maxStep, 0) {
		return 0, &ConfigError{Param: "spacing",
			Msg: fmt.Sprintf("stability bound %v is not a usable step", maxStep)}
	}
	return utils.FloorSig(maxStep), nil
}
