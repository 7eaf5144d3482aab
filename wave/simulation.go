// Package wave configures and advances finite-difference time-domain
// wave simulations on regular grids of arbitrary dimensionality. The
// time step is derived from the CFL stability criterion; sources drive
// the field through a sparse spatial mask and a sinusoidal waveform.
package wave

import (
	"context"
	"fmt"

	"github.com/neuromusic/waver/utils"
)

type phase uint8

const (
	phaseUnconfigured phase = iota // no source installed
	phaseConfigured                // source present, field not readable
	phaseCompleted                 // run finished, field readable
)

// Simulation owns one Grid, the Time derived from its stability bound,
// at most one Source, and the space-time field of shape
// (Time.NSteps,) + Grid.Shape.
type Simulation struct {
	Grid *Grid
	Time Time

	wave     utils.Tensor
	source   *Source
	phase    phase
	update   Update
	progress Progress
	bounds   []BoundaryPair
}

// New builds the grid from (size, spacing, speed), derives the stable
// step covering duration, and allocates the zero field.
func New(size []float64, spacing float64, speed Speed, duration float64) (s *Simulation, err error) {
	g, err := NewGrid(size, spacing, speed)
	if err != nil {
		return
	}
	return NewFromGrid(g, duration)
}

// NewFromGrid derives Time from the grid's stability bound and the
// requested duration.
func NewFromGrid(g *Grid, duration float64) (s *Simulation, err error) {
	step, err := StableStep(g)
	if err != nil {
		return
	}
	T, err := NewTime(step, duration)
	if err != nil {
		return
	}
	s = &Simulation{
		Grid:   g,
		Time:   T,
		wave:   utils.NewTensor(append([]int{T.NSteps}, g.Shape...)),
		update: SnapshotUpdate,
	}
	return
}

// AddSource resolves spec against the grid and installs the source,
// invalidating any prior run. On error the prior source and phase are
// kept untouched.
func (s *Simulation) AddSource(spec SourceSpec) error {
	src, err := NewSource(spec, s.Grid.Shape, s.Grid.Spacing)
	if err != nil {
		return err
	}
	s.source = src
	s.phase = phaseConfigured
	return nil
}

// Source is the installed source, or a StateError before AddSource.
func (s *Simulation) Source() (*Source, error) {
	if s.source == nil {
		return nil, &StateError{Op: "Source", Err: ErrNoSource}
	}
	return s.source, nil
}

// SetUpdate replaces the per-step operator. nil restores the default
// snapshot update.
func (s *Simulation) SetUpdate(u Update) {
	if u == nil {
		u = SnapshotUpdate
	}
	s.update = u
}

// SetProgress installs a per-step observer. nil silences progress.
func (s *Simulation) SetProgress(p Progress) {
	s.progress = p
}

// SetBoundaries records one condition pair per axis. Enforcement is not
// implemented: the recorded pairs have no effect on the run, and the
// returned NotImplementedError says so on every call, so callers cannot
// mistake the inert surface for working PML or periodic behavior.
func (s *Simulation) SetBoundaries(pairs []BoundaryPair) error {
	if len(pairs) != s.Grid.NDim() {
		return &ConfigError{Param: "boundaries",
			Msg: fmt.Sprintf("got %d pairs for %d axes", len(pairs), s.Grid.NDim())}
	}
	s.bounds = append([]BoundaryPair{}, pairs...)
	return &NotImplementedError{Feature: "boundary condition enforcement"}
}

// Boundaries is a copy of the recorded condition pairs.
func (s *Simulation) Boundaries() []BoundaryPair {
	return append([]BoundaryPair{}, s.bounds...)
}

// HasRun reports whether the field is currently readable.
func (s *Simulation) HasRun() bool { return s.phase == phaseCompleted }

// Run advances the simulation over all steps.
func (s *Simulation) Run() error {
	return s.RunContext(context.Background())
}

// RunContext advances the simulation, checking ctx before each step.
// Any failure, including cancellation, aborts the whole run: the phase
// drops back to configured and the field stays unreadable. A completed
// simulation may be run again from step zero.
func (s *Simulation) RunContext(ctx context.Context) (err error) {
	if s.source == nil {
		return &StateError{Op: "Run", Err: ErrNoSource}
	}
	s.phase = phaseConfigured
	var (
		nsteps = s.Time.NSteps
		dt     = s.Time.Step
	)
	for step := 0; step < nsteps; step++ {
		if err = ctx.Err(); err != nil {
			return
		}
		t := float64(step) * dt
		if err = s.update(step, t, s.source, s.wave.Frame(step)); err != nil {
			return fmt.Errorf("step %d (t=%g): %w", step, t, err)
		}
		if s.progress != nil {
			s.progress.Step(step, nsteps)
		}
	}
	s.phase = phaseCompleted
	return nil
}

// Wave is the space-time field, readable only after a completed run.
// The returned tensor is read-only; it shares storage with the
// simulation, so hold it only across runs you control.
func (s *Simulation) Wave() (utils.Tensor, error) {
	if s.phase != phaseCompleted {
		return utils.Tensor{}, &StateError{Op: "Wave", Err: ErrNotRun}
	}
	w := s.wave
	return w.SetReadOnly("Simulation.Wave"), nil
}
