// Package scenario reads YAML descriptions of a simulation and builds
// configured wave.Simulation instances from them.
package scenario

import (
	"errors"
	"fmt"
	"math"

	"github.com/ghodss/yaml"

	"github.com/neuromusic/waver/utils"
	"github.com/neuromusic/waver/wave"
)

// Parameters obtained from the YAML scenario file
type Parameters struct {
	Title        string           `yaml:"Title"`
	Size         []float64        `yaml:"Size"`
	Spacing      float64          `yaml:"Spacing"`
	Speed        float64          `yaml:"Speed"`
	SpeedCells   []float64        `yaml:"SpeedCells"` // Flat row-major per-cell speeds; overrides Speed when present
	Duration     float64          `yaml:"Duration"`
	Source       SourceParameters `yaml:"Source"`
	Boundaries   [][2]string      `yaml:"Boundaries"` // One [low, high] name pair per axis
	LogFrequency int              `yaml:"LogFrequency"`
}

// SourceParameters places and shapes the driving source. A null
// Location entry broadcasts along that axis; omitting Location
// broadcasts along every axis.
type SourceParameters struct {
	Location  []*float64 `yaml:"Location"`
	Frequency float64    `yaml:"Frequency"`
	NCycles   *int       `yaml:"NCycles"`
	Phase     float64    `yaml:"Phase"`
}

func (p *Parameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, p)
}

func (p *Parameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", p.Title)
	fmt.Printf("%v\t\t= Size\n", p.Size)
	fmt.Printf("%8.5g\t\t= Spacing\n", p.Spacing)
	if len(p.SpeedCells) != 0 {
		fmt.Printf("[%d cells]\t\t= Speed\n", len(p.SpeedCells))
	} else {
		fmt.Printf("%8.5g\t\t= Speed\n", p.Speed)
	}
	fmt.Printf("%8.5g\t\t= Duration\n", p.Duration)
	fmt.Printf("%8.5g\t\t= Source.Frequency\n", p.Source.Frequency)
	if p.Source.NCycles != nil {
		fmt.Printf("[%d]\t\t\t= Source.NCycles\n", *p.Source.NCycles)
	}
	for i, b := range p.Boundaries {
		fmt.Printf("[%s %s]\t\t= Boundaries axis %d\n", b[0], b[1], i)
	}
}

// Validate checks the scenario for missing or malformed fields before
// any simulation objects are built. Deep validation of values happens
// in the wave constructors.
func (p *Parameters) Validate() error {
	if len(p.Size) == 0 {
		return fmt.Errorf("scenario: Size must name at least one axis")
	}
	if !(p.Spacing > 0) {
		return fmt.Errorf("scenario: Spacing must be positive, got %v", p.Spacing)
	}
	if len(p.SpeedCells) == 0 && !(p.Speed > 0) {
		return fmt.Errorf("scenario: one of Speed or SpeedCells is required")
	}
	if !(p.Duration > 0) {
		return fmt.Errorf("scenario: Duration must be positive, got %v", p.Duration)
	}
	if !(p.Source.Frequency > 0) {
		return fmt.Errorf("scenario: Source.Frequency must be positive, got %v", p.Source.Frequency)
	}
	if len(p.Source.Location) != 0 && len(p.Source.Location) != len(p.Size) {
		return fmt.Errorf("scenario: Source.Location has %d axes, Size has %d",
			len(p.Source.Location), len(p.Size))
	}
	if len(p.Boundaries) != 0 && len(p.Boundaries) != len(p.Size) {
		return fmt.Errorf("scenario: Boundaries has %d pairs, Size has %d axes",
			len(p.Boundaries), len(p.Size))
	}
	return nil
}

// Build assembles a configured Simulation: grid and time from (Size,
// Spacing, speed, Duration), then the source, then recorded boundaries
// and progress logging.
func (p *Parameters) Build() (s *wave.Simulation, err error) {
	if err = p.Validate(); err != nil {
		return
	}
	speed := wave.UniformSpeed(p.Speed)
	if len(p.SpeedCells) != 0 {
		shape := shapeOf(p.Size, p.Spacing)
		if want := utils.SizeOf(shape); len(p.SpeedCells) != want {
			return nil, fmt.Errorf("scenario: SpeedCells has %d values, grid shape %v needs %d",
				len(p.SpeedCells), shape, want)
		}
		field := utils.NewTensor(shape, append([]float64{}, p.SpeedCells...))
		speed = wave.SpeedField(field)
	}
	if s, err = wave.New(p.Size, p.Spacing, speed, p.Duration); err != nil {
		return
	}
	loc := p.Source.Location
	if len(loc) == 0 {
		loc = make([]*float64, len(p.Size)) // broadcast on every axis
	}
	if err = s.AddSource(wave.SourceSpec{
		Location:  loc,
		Frequency: p.Source.Frequency,
		NCycles:   p.Source.NCycles,
		Phase:     p.Source.Phase,
	}); err != nil {
		return nil, err
	}
	if len(p.Boundaries) != 0 {
		var pairs []wave.BoundaryPair
		if pairs, err = wave.ParseBoundaries(p.Boundaries); err != nil {
			return nil, err
		}
		// The pairs are recorded only; the simulation reports
		// ErrUnimplemented for enforcement on every call.
		if err = s.SetBoundaries(pairs); err != nil && !errors.Is(err, wave.ErrUnimplemented) {
			return nil, err
		}
		err = nil
	}
	if p.LogFrequency > 0 {
		s.SetProgress(wave.LogProgress{Every: p.LogFrequency})
	}
	return s, nil
}

// shapeOf mirrors the grid's extent rounding so SpeedCells can be
// shaped and validated before the grid exists.
func shapeOf(size []float64, spacing float64) (shape []int) {
	shape = make([]int, len(size))
	for i, ext := range size {
		shape[i] = int(math.Round(ext / spacing))
	}
	return
}
