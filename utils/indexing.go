package utils

import (
	"fmt"
)

type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}

func NewRange(rmin, rmax int) (r Index) {
	var (
		size = rmax - rmin + 1 // INCLUSIVE RANGE
	)
	r = make(Index, size)
	for i := range r {
		r[i] = i + rmin
	}
	return
}

// SizeOf is the cell count of a shape, 1 for rank zero.
func SizeOf(shape []int) (size int) {
	size = 1
	for _, n := range shape {
		size *= n
	}
	return
}

// Strides are the row-major flat offsets per unit index along each axis,
// so that flat = sum(ix[i]*strides[i]).
func Strides(shape []int) (s Index) {
	s = make(Index, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		s[i] = stride
		stride *= shape[i]
	}
	return
}

func Ravel(shape []int, ix []int) (flat int) {
	if len(ix) != len(shape) {
		panic(fmt.Errorf("index rank %v does not match shape rank %v", len(ix), len(shape)))
	}
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		if ix[i] < 0 || ix[i] >= shape[i] {
			panic(fmt.Errorf("index %v outside extent %v on axis %v", ix[i], shape[i], i))
		}
		flat += ix[i] * stride
		stride *= shape[i]
	}
	return
}

func Unravel(shape []int, flat int) (ix Index) {
	ix = make(Index, len(shape))
	for i := len(shape) - 1; i >= 0; i-- {
		ix[i] = flat % shape[i]
		flat /= shape[i]
	}
	return
}

// ProductIndex flattens the cartesian product of per-axis index sets.
// sets[i] selects indices along axis i of shape; the result lists the flat
// row-major cell index of every combination, ordered with the last axis
// varying fastest.
func ProductIndex(shape []int, sets []Index) (I Index) {
	if len(sets) != len(shape) {
		panic(fmt.Errorf("axis set rank %v does not match shape rank %v", len(sets), len(shape)))
	}
	var (
		strides = Strides(shape)
		total   = 1
	)
	for _, set := range sets {
		total *= len(set)
	}
	if total == 0 {
		return
	}
	I = make(Index, 0, total)
	var walk func(axis, base int)
	walk = func(axis, base int) {
		if axis == len(shape) {
			I = append(I, base)
			return
		}
		for _, j := range sets[axis] {
			if j < 0 || j >= shape[axis] {
				panic(fmt.Errorf("index %v outside extent %v on axis %v", j, shape[axis], axis))
			}
			walk(axis+1, base+j*strides[axis])
		}
	}
	walk(0, 0)
	return
}
