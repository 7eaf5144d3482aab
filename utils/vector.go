package utils

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V *mat.VecDense
}

func NewVector(n int, dataO ...[]float64) (R Vector) {
	var data []float64
	if len(dataO) != 0 {
		data = dataO[0]
		if len(data) != n {
			err := fmt.Errorf("mismatch in allocation: NewVector n = %v, len(data[0]) = %v\n", n, len(data))
			panic(err)
		}
	} else {
		data = make([]float64, n)
	}
	R = Vector{mat.NewVecDense(n, data)}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (v Vector) Dims() (r, c int)         { return v.V.Dims() }
func (v Vector) At(i, j int) float64      { return v.V.At(i, j) }
func (v Vector) T() mat.Matrix            { return v.V.T() }
func (v Vector) AtVec(i int) float64      { return v.V.AtVec(i) }
func (v Vector) RawVector() blas64.Vector { return v.V.RawVector() }
func (v Vector) Len() int                 { return v.V.Len() }

// Data exposes the backing slice for fast-path loops.
func (v Vector) Data() []float64 { return v.V.RawVector().Data }

// Chainable (extended) methods
func (v Vector) Set(val float64) Vector {
	var (
		data = v.V.RawVector().Data
	)
	for i := range data {
		data[i] = val
	}
	return v
}

func (v Vector) Linspace(x0, x1 float64) Vector {
	floats.Span(v.V.RawVector().Data, x0, x1)
	return v
}

func (v Vector) Add(a float64) Vector {
	var (
		data = v.V.RawVector().Data
	)
	for i := range data {
		data[i] += a
	}
	return v
}

func (v Vector) Scale(a float64) Vector {
	floats.Scale(a, v.V.RawVector().Data)
	return v
}

func (v Vector) Apply(f func(float64) float64) Vector {
	var (
		data = v.V.RawVector().Data
	)
	for i, val := range data {
		data[i] = f(val)
	}
	return v
}

func (v Vector) Copy() (R Vector) {
	R = NewVector(v.Len())
	R.V.CopyVec(v.V)
	return
}

func (v Vector) Min() (min float64) {
	return floats.Min(v.V.RawVector().Data)
}

func (v Vector) Max() (max float64) {
	return floats.Max(v.V.RawVector().Data)
}

func (v Vector) String() (s string) {
	s = fmt.Sprintf("%v\n", mat.Formatted(v, mat.Squeeze()))
	return
}
