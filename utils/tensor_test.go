package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTensor(t *testing.T) {
	A := NewTensor([]int{2, 3}, []float64{1, 2, 3, 4, 5, 6})
	require.Equal(t, []int{2, 3}, A.Shape())
	require.Equal(t, 2, A.NDim())
	require.Equal(t, 6, A.Len())
	assert.Equal(t, 6., A.At(1, 2))
	A.SetAt(10, 0, 1)
	assert.Equal(t, 10., A.At(0, 1))
	assert.Panics(t, func() { NewTensor([]int{2, 2}, []float64{1}) })

	// Copies are independent, chains leave the source untouched
	B := A.Copy().Apply(math.Abs).Scale(2)
	assert.Equal(t, 10., A.At(0, 1))
	assert.Equal(t, 20., B.At(0, 1))

	// Elementwise arithmetic
	{
		C := NewTensor([]int{2}, []float64{1, 2})
		D := NewTensor([]int{2}, []float64{3, 4})
		C.Add(D)
		assert.Equal(t, []float64{4, 6}, C.Data())
		C.Subtract(D).ElMul(D)
		assert.Equal(t, []float64{3, 8}, C.Data())
		C.AddScalar(1)
		assert.Equal(t, []float64{4, 9}, C.Data())
		assert.Equal(t, 9., C.Max())
		assert.Equal(t, 4., C.Min())
		E := NewTensor([]int{3})
		assert.Panics(t, func() { C.Add(E) })
	}

	// Fill and Zero
	{
		F := NewTensor([]int{2, 2}).Fill(3)
		assert.Equal(t, []float64{3, 3, 3, 3}, F.Data())
		F.Zero()
		assert.Equal(t, []float64{0, 0, 0, 0}, F.Data())
	}
}

func TestTensorFrame(t *testing.T) {
	W := NewTensor([]int{2, 2, 2})
	f := W.Frame(1)
	require.Equal(t, []int{2, 2}, f.Shape())

	// Views share backing data in both directions
	f.SetAt(7, 0, 1)
	assert.Equal(t, 7., W.At(1, 0, 1))
	W.SetAt(3, 1, 1, 0)
	assert.Equal(t, 3., f.At(1, 0))

	assert.Panics(t, func() { W.Frame(2) })
	assert.Panics(t, func() { W.Frame(-1) })
}

func TestTensorReadOnly(t *testing.T) {
	R := NewTensor([]int{2, 2})
	RO := R.SetReadOnly("guarded")
	assert.Panics(t, func() { RO.SetAt(1, 0, 0) })
	assert.Panics(t, func() { R.Fill(1) })
	// Views inherit the guard
	assert.Panics(t, func() { RO.Frame(0).Zero() })
	// Reads still work
	assert.Equal(t, 0., RO.At(1, 1))

	R.SetWritable()
	R.SetAt(1, 0, 0)
	assert.Equal(t, 1., R.At(0, 0))
}
