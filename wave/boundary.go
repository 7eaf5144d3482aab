package wave

import (
	"fmt"
	"strings"
)

// BCType labels the boundary condition on one face of the domain.
type BCType uint8

const (
	// BCNone marks an open face with no condition attached
	BCNone BCType = iota
	// BCPML marks a perfectly matched absorbing layer
	BCPML
	// BCPeriodic wraps the axis onto itself
	BCPeriodic
)

// BCNameMap maps condition names to types. Keys are lowercase; lookups
// go through ParseBCName, which folds case.
var BCNameMap = map[string]BCType{
	"pml":      BCPML,
	"periodic": BCPeriodic,
}

// ParseBCName resolves a condition name case-insensitively. Unknown
// names are a ConfigError rather than a silent default.
func ParseBCName(name string) (BCType, error) {
	bc, ok := BCNameMap[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return BCNone, &ConfigError{
			Param: "boundaries",
			Msg:   fmt.Sprintf("unknown boundary condition %q", name),
		}
	}
	return bc, nil
}

func (bc BCType) String() string {
	switch bc {
	case BCNone:
		return "none"
	case BCPML:
		return "PML"
	case BCPeriodic:
		return "periodic"
	}
	return fmt.Sprintf("BCType(%d)", uint8(bc))
}

// BoundaryPair holds the conditions on the low and high faces of one
// axis.
type BoundaryPair struct {
	Lo, Hi BCType
}

func (p BoundaryPair) String() string {
	return fmt.Sprintf("(%v, %v)", p.Lo, p.Hi)
}

// ParseBoundaries resolves one [low, high] name pair per axis.
func ParseBoundaries(names [][2]string) (pairs []BoundaryPair, err error) {
	pairs = make([]BoundaryPair, len(names))
	for i, pair := range names {
		if pairs[i].Lo, err = ParseBCName(pair[0]); err != nil {
			return nil, err
		}
		if pairs[i].Hi, err = ParseBCName(pair[1]); err != nil {
			return nil, err
		}
	}
	return
}
