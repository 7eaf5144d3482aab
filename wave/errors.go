package wave

import (
	"errors"
	"fmt"
)

// Sentinels for lifecycle violations and the inert boundary surface.
// They arrive wrapped in StateError or NotImplementedError, so call
// sites test them with errors.Is.
var (
	ErrNoSource      = errors.New("no source has been added")
	ErrNotRun        = errors.New("simulation has not been run")
	ErrUnimplemented = errors.New("not implemented")
)

// ConfigError reports an invalid construction parameter.
type ConfigError struct {
	Param string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("wave: invalid %s: %s", e.Param, e.Msg)
}

// RangeError reports a fixed source location that maps outside the
// grid's index bounds.
type RangeError struct {
	Axis   int
	Coord  float64
	Cell   int
	Extent int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("wave: source location %g on axis %d maps to cell %d, outside [0, %d)",
		e.Coord, e.Axis, e.Cell, e.Extent)
}

// StateError reports an operation attempted in the wrong lifecycle
// phase. Err is one of the sentinels above.
type StateError struct {
	Op  string
	Err error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("wave: %s: %v", e.Op, e.Err)
}

func (e *StateError) Unwrap() error { return e.Err }

// NotImplementedError reports a configuration surface that is accepted
// and recorded but not enforced.
type NotImplementedError struct {
	Feature string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("wave: %s is not implemented", e.Feature)
}

func (e *NotImplementedError) Unwrap() error { return ErrUnimplemented }
