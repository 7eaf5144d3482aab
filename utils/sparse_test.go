package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSparseMask(t *testing.T) {
	// A one-row mask over six flattened cells
	d := NewDOK(1, 6)
	d.Set(0, 1, 1)
	d.Set(0, 4, 1)
	m := d.ToCSR()

	nr, nc := m.Dims()
	assert.Equal(t, 1, nr)
	assert.Equal(t, 6, nc)
	assert.Equal(t, 2, m.NNZ())
	assert.Equal(t, 1., m.At(0, 4))
	assert.Equal(t, 0., m.At(0, 0))

	var cols Index
	m.DoNonZero(func(i, j int, v float64) {
		assert.Equal(t, 0, i)
		assert.Equal(t, 1., v)
		cols = append(cols, j)
	})
	assert.ElementsMatch(t, Index{1, 4}, cols)
}

func TestSparseReadOnly(t *testing.T) {
	d := NewDOK(1, 2)
	ro := d.SetReadOnly("mask")
	assert.Panics(t, func() { ro.Set(0, 0, 1) })
	d.SetWritable()
	d.Set(0, 0, 1)
	assert.Equal(t, 1., d.At(0, 0))
}
