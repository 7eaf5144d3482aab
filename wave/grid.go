package wave

import (
	"fmt"
	"math"

	"github.com/neuromusic/waver/utils"
)

// Speed is the wave speed over the grid, either a single uniform value
// or a per-cell field.
type Speed struct {
	c     float64
	field *utils.Tensor
}

// UniformSpeed is a constant speed everywhere on the grid.
func UniformSpeed(c float64) Speed {
	return Speed{c: c}
}

// SpeedField is a per-cell speed tensor. Its shape must match the grid
// shape implied by (size, spacing).
func SpeedField(f utils.Tensor) Speed {
	return Speed{field: &f}
}

// IsUniform reports whether the speed is a single value.
func (s Speed) IsUniform() bool { return s.field == nil }

// Grid describes the spatial domain: physical extents, a single spacing
// shared by all axes, and the cell shape rounded from extent/spacing.
// Immutable once built.
type Grid struct {
	Size    []float64
	Spacing float64
	Shape   []int

	speed utils.Tensor
	maxC  float64
}

// NewGrid validates (size, spacing), rounds each extent to a cell
// count, and materializes the per-cell speed tensor.
func NewGrid(size []float64, spacing float64, speed Speed) (g *Grid, err error) {
	if len(size) == 0 {
		return nil, &ConfigError{Param: "size", Msg: "needs at least one axis"}
	}
	if !(spacing > 0) || math.IsInf(spacing, 0) {
		return nil, &ConfigError{Param: "spacing",
			Msg: fmt.Sprintf("must be positive and finite, got %v", spacing)}
	}
	shape := make([]int, len(size))
	for i, ext := range size {
		if !(ext > 0) || math.IsInf(ext, 0) {
			return nil, &ConfigError{Param: "size",
				Msg: fmt.Sprintf("axis %d extent must be positive and finite, got %v", i, ext)}
		}
		shape[i] = int(math.Round(ext / spacing))
		if shape[i] < 1 {
			return nil, &ConfigError{Param: "size",
				Msg: fmt.Sprintf("axis %d extent %v spans no cells at spacing %v", i, ext, spacing)}
		}
	}
	var field utils.Tensor
	if speed.IsUniform() {
		field = utils.NewTensor(shape, utils.ConstArray(utils.SizeOf(shape), speed.c))
	} else {
		fshape := speed.field.Shape()
		if !sameShape(fshape, shape) {
			return nil, &ConfigError{Param: "speed",
				Msg: fmt.Sprintf("field shape %v does not match grid shape %v", fshape, shape)}
		}
		field = speed.field.Copy()
	}
	g = &Grid{
		Size:    append([]float64{}, size...),
		Spacing: spacing,
		Shape:   shape,
		maxC:    field.Max(),
	}
	g.speed = field.SetReadOnly("Grid.Speed")
	return
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// NDim is the number of spatial axes.
func (g *Grid) NDim() int { return len(g.Shape) }

// NCells is the total cell count, the product of Shape.
func (g *Grid) NCells() int { return utils.SizeOf(g.Shape) }

// MaxSpeed is the maximum wave speed anywhere on the grid.
func (g *Grid) MaxSpeed() float64 { return g.maxC }

// SpeedTensor is the per-cell wave speed, read-only.
func (g *Grid) SpeedTensor() utils.Tensor { return g.speed }

// Axis is the physical coordinate of each cell center along axis i, so
// cell j sits at j*Spacing.
func (g *Grid) Axis(i int) utils.Vector {
	n := g.Shape[i]
	if n == 1 {
		return utils.NewVector(1)
	}
	return utils.NewVector(n).Linspace(0, g.Spacing*float64(n-1))
}
