package model

import (
	"fmt"

	"github.com/tabnotation/notation"
)

// BarPosition locates a point in time in a tab: a bar, given by its
// ordinal, and a position within it.
type BarPosition struct {
	BarUnits   notation.Units
	BarOrdinal int
	InBarPos   notation.Units
}

// Units returns the position from the beginning of the tab.
func (p BarPosition) Units() notation.Units {
	return p.BarUnits*notation.Units(p.BarOrdinal) + p.InBarPos
}

// IsPassed reports if the position is at or after other.
func (p BarPosition) IsPassed(other BarPosition) bool {
	return !p.Units().IsSmallerThan(other.Units())
}

func (p BarPosition) String() string {
	return fmt.Sprintf("%d:%g", p.BarOrdinal, float32(p.InBarPos))
}
