package utils

import (
	"image/color"

	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"
)

type ColorName uint8

const (
	White ColorName = iota
	Blue
	Red
	Green
	Black
)

func GetColor(name ColorName) (c color.RGBA) {
	switch name {
	case White:
		c = color.RGBA{
			R: 255,
			G: 255,
			B: 255,
			A: 0,
		}
	case Blue:
		c = color.RGBA{
			R: 50,
			G: 0,
			B: 255,
			A: 0,
		}
	case Red:
		c = color.RGBA{
			R: 255,
			G: 0,
			B: 50,
			A: 0,
		}
	case Green:
		c = color.RGBA{
			R: 25,
			G: 255,
			B: 25,
			A: 0,
		}
	case Black:
		c = color.RGBA{
			R: 0,
			G: 0,
			B: 0,
			A: 0,
		}
	}
	return
}

// LineChart wraps a chart2d window for piecewise-linear field plots. The
// window opens on construction and stays up until the process exits.
type LineChart struct {
	Chart *chart2d.Chart2D
}

func NewLineChart(width, height int, xmin, xmax, fmin, fmax float64) (lc *LineChart) {
	lc = &LineChart{
		Chart: chart2d.NewChart2D(float32(xmin), float32(xmax), float32(fmin), float32(fmax),
			width, height, utils2.WHITE, utils2.BLACK),
	}
	return
}

// AddLine draws the polyline through (x[i], f[i]).
func (lc *LineChart) AddLine(x, f []float64, name ColorName) {
	var (
		line = make([]float32, 0, 4*(len(x)-1))
	)
	for i := 0; i+1 < len(x); i++ {
		line = append(line,
			float32(x[i]), float32(f[i]),
			float32(x[i+1]), float32(f[i+1]),
		)
	}
	lc.Chart.AddLine(line, GetColor(name))
}
