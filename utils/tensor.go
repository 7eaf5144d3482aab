package utils

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Tensor is a dense array of arbitrary dimensionality over a flat,
// row-major backing slice. Mutating methods change the backing data in
// place and return the receiver so that calls can be chained; methods
// marked "does not change receiver" allocate a fresh backing slice.
// Views produced by Frame share backing data with their parent.
type Tensor struct {
	data     []float64
	shape    []int
	readOnly bool
	name     string
}

func NewTensor(shape []int, dataO ...[]float64) (R Tensor) {
	var (
		size = SizeOf(shape)
		data []float64
	)
	if len(dataO) != 0 {
		data = dataO[0]
		if len(data) != size {
			err := fmt.Errorf("mismatch in allocation: NewTensor shape = %v needs %v values, len(data[0]) = %v\n",
				shape, size, len(data))
			panic(err)
		}
	} else {
		data = make([]float64, size)
	}
	R = Tensor{
		data,
		append([]int{}, shape...),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

func (m Tensor) Shape() (s []int) {
	s = append(s, m.shape...)
	return
}

func (m Tensor) NDim() int { return len(m.shape) }
func (m Tensor) Len() int  { return len(m.data) }

// Data exposes the flat row-major backing slice for fast-path loops.
func (m Tensor) Data() []float64 { return m.data }

func (m Tensor) At(ix ...int) float64 {
	return m.data[Ravel(m.shape, ix)]
}

func (m Tensor) SetAt(val float64, ix ...int) Tensor { // Changes receiver
	m.checkWritable()
	m.data[Ravel(m.shape, ix)] = val
	return m
}

func (m *Tensor) SetReadOnly(name ...string) Tensor {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m *Tensor) SetWritable() Tensor {
	m.readOnly = false
	return *m
}

func (m Tensor) Copy() (R Tensor) { // Does not change receiver
	dataR := make([]float64, len(m.data))
	copy(dataR, m.data)
	R = NewTensor(m.shape, dataR)
	return
}

// Frame returns the view of axis-0 slice i, sharing backing data with the
// receiver. Writes through the view write through to the parent, and the
// parent's read-only state travels with it.
func (m Tensor) Frame(i int) (R Tensor) {
	if len(m.shape) < 1 {
		panic(fmt.Errorf("cannot take a frame of a rank zero tensor named: \"%v\"", m.name))
	}
	if i < 0 || i >= m.shape[0] {
		panic(fmt.Errorf("frame index %v outside axis extent %v in tensor named: \"%v\"", i, m.shape[0], m.name))
	}
	var (
		size = SizeOf(m.shape[1:])
		off  = i * size
	)
	R = Tensor{
		m.data[off : off+size],
		append([]int{}, m.shape[1:]...),
		m.readOnly,
		m.name,
	}
	return
}

func (m Tensor) Scale(a float64) Tensor { // Changes receiver
	m.checkWritable()
	floats.Scale(a, m.data)
	return m
}

func (m Tensor) AddScalar(a float64) Tensor { // Changes receiver
	m.checkWritable()
	floats.AddConst(a, m.data)
	return m
}

func (m Tensor) Add(A Tensor) Tensor { // Changes receiver
	m.checkWritable()
	m.checkShape("Add", A)
	floats.Add(m.data, A.data)
	return m
}

func (m Tensor) Subtract(A Tensor) Tensor { // Changes receiver
	m.checkWritable()
	m.checkShape("Subtract", A)
	floats.Sub(m.data, A.data)
	return m
}

func (m Tensor) ElMul(A Tensor) Tensor { // Changes receiver
	m.checkWritable()
	m.checkShape("ElMul", A)
	floats.Mul(m.data, A.data)
	return m
}

func (m Tensor) Apply(f func(float64) float64) Tensor { // Changes receiver
	m.checkWritable()
	for i, val := range m.data {
		m.data[i] = f(val)
	}
	return m
}

func (m Tensor) Fill(val float64) Tensor { // Changes receiver
	m.checkWritable()
	for i := range m.data {
		m.data[i] = val
	}
	return m
}

func (m Tensor) Zero() Tensor { // Changes receiver
	return m.Fill(0)
}

func (m Tensor) Max() (max float64) { return floats.Max(m.data) }
func (m Tensor) Min() (min float64) { return floats.Min(m.data) }

func (m Tensor) checkShape(op string, A Tensor) {
	if len(m.shape) != len(A.shape) {
		panic(fmt.Errorf("shape mismatch in %s: %v vs %v", op, m.shape, A.shape))
	}
	for i, n := range m.shape {
		if A.shape[i] != n {
			panic(fmt.Errorf("shape mismatch in %s: %v vs %v", op, m.shape, A.shape))
		}
	}
}

func (m Tensor) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only tensor named: \"%v\"", m.name)
		panic(err)
	}
}
