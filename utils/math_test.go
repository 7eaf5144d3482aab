package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloorSig(t *testing.T) {
	// Canonical cases: round down to one significant digit, magnitude kept
	assert.Equal(t, 5.e-7, FloorSig(5.047e-7))
	assert.Equal(t, 5.e-7, FloorSig(5.e-7))
	assert.Equal(t, 300., FloorSig(343))
	assert.Equal(t, 2.e-3, FloorSig(2.5e-3))
	assert.Equal(t, 900., FloorSig(999.99))
	assert.Equal(t, 1., FloorSig(1))

	// Mantissa is an integer in [1,9] and the result never exceeds the input
	for _, x := range []float64{1.5e-9, 3.3e-4, 7.77, 9.99e5, 0.5e-6} {
		y := FloorSig(x)
		power := math.Pow(10, math.Floor(math.Log10(y)))
		coef := y / power
		assert.InDelta(t, math.Round(coef), coef, NODETOL)
		assert.GreaterOrEqual(t, coef, 1.)
		assert.LessOrEqual(t, coef, 9.)
		assert.LessOrEqual(t, y, x)
	}
}

func TestConstArray(t *testing.T) {
	v := ConstArray(3, 1500)
	assert.Equal(t, []float64{1500, 1500, 1500}, v)
}
