package wave

import (
	"fmt"
	"math"

	"github.com/neuromusic/waver/utils"
)

// SourceSpec is the caller-facing description of a driving source. A
// nil Location entry broadcasts across the full extent of that axis; a
// nil NCycles lets the source ring for the whole run.
type SourceSpec struct {
	Location  []*float64
	Frequency float64
	NCycles   *int
	Phase     float64
}

// Fixed wraps a physical coordinate for a SourceSpec.Location entry.
func Fixed(v float64) *float64 { return &v }

// Cycles wraps a cycle count for SourceSpec.NCycles.
func Cycles(n int) *int { return &n }

// Source combines a sparse spatial mask over the grid with a temporal
// waveform. The mask is a single CSR row with one column per grid cell
// and unit weight on every selected cell. Immutable once built.
type Source struct {
	Spec     SourceSpec
	Waveform Waveform

	shape []int
	cells utils.Index
	mask  utils.CSR
}

// NewSource resolves the spec against a grid's shape and spacing. Each
// fixed coordinate rounds to its nearest cell index and must land
// inside [0, shape[i]); the mask is the cartesian product of the
// per-axis index sets.
func NewSource(spec SourceSpec, shape []int, spacing float64) (src *Source, err error) {
	if len(spec.Location) != len(shape) {
		err = &ConfigError{Param: "location",
			Msg: fmt.Sprintf("has %d axes, grid has %d", len(spec.Location), len(shape))}
		return
	}
	wf, err := NewWaveform(spec.Frequency, spec.NCycles, spec.Phase)
	if err != nil {
		return
	}
	sets := make([]utils.Index, len(shape))
	for i, loc := range spec.Location {
		if loc == nil {
			sets[i] = utils.NewRange(0, shape[i]-1)
			continue
		}
		cell := int(math.Round(*loc / spacing))
		if cell < 0 || cell >= shape[i] {
			err = &RangeError{Axis: i, Coord: *loc, Cell: cell, Extent: shape[i]}
			return
		}
		sets[i] = utils.Index{cell}
	}
	var (
		cells = utils.ProductIndex(shape, sets)
		dok   = utils.NewDOK(1, utils.SizeOf(shape))
	)
	for _, c := range cells {
		dok.Set(0, c, 1)
	}
	csr := dok.ToCSR()
	src = &Source{
		Spec:     copySpec(spec),
		Waveform: wf,
		shape:    append([]int{}, shape...),
		cells:    cells,
		mask:     csr.SetReadOnly("Source.mask"),
	}
	return
}

// copySpec deep-copies the pointer fields so a stored spec cannot be
// mutated through the caller's pointers.
func copySpec(spec SourceSpec) SourceSpec {
	loc := make([]*float64, len(spec.Location))
	for i, p := range spec.Location {
		if p != nil {
			v := *p
			loc[i] = &v
		}
	}
	spec.Location = loc
	if spec.NCycles != nil {
		n := *spec.NCycles
		spec.NCycles = &n
	}
	return spec
}

// Cells are the flat row-major indices the mask selects.
func (s *Source) Cells() utils.Index {
	return append(utils.Index{}, s.cells...)
}

// Mask is the sparse spatial weight row, one column per grid cell.
func (s *Source) Mask() utils.CSR { return s.mask }

// MaskTensor densifies the mask to the grid shape.
func (s *Source) MaskTensor() (R utils.Tensor) {
	R = utils.NewTensor(s.shape)
	data := R.Data()
	s.mask.DoNonZero(func(_, j int, v float64) {
		data[j] = v
	})
	return
}

// Value is the dense source snapshot at time t, mask times waveform.
func (s *Source) Value(t float64) (R utils.Tensor) {
	R = utils.NewTensor(s.shape)
	s.ValueInto(t, R)
	return
}

// ValueInto overwrites dst with the snapshot at time t. dst must have
// the grid's shape.
func (s *Source) ValueInto(t float64, dst utils.Tensor) {
	if !sameShape(dst.Shape(), s.shape) {
		panic(fmt.Errorf("shape mismatch: destination %v, source %v\n", dst.Shape(), s.shape))
	}
	dst.Zero()
	a := s.Waveform.At(t)
	if a == 0 {
		return
	}
	data := dst.Data()
	s.mask.DoNonZero(func(_, j int, v float64) {
		data[j] = v * a
	})
}
