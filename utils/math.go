package utils

import (
	"math"
)

const (
	NODETOL = 1.e-12
)

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

// FloorSig rounds a positive value down to a single leading significant
// digit at its own order of magnitude: 5.047e-7 becomes 5e-7, 343 becomes
// 300. The mantissa never drops below 1, so the result keeps the input's
// power of ten even when the division rounds just under it.
func FloorSig(x float64) (y float64) {
	var (
		power = math.Pow(10, math.Floor(math.Log10(x)))
		coef  = math.Floor(x / power)
	)
	if coef < 1 {
		coef = 1
	}
	y = coef * power
	return
}
