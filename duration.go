// Package notation defines tab documents: note durations, track entries and
// the sections and form that arrange them into a song.
package notation

import (
	"fmt"
	"math"
	"strings"
)

type (
	// Unit is a base note value, from a whole note down to a thirty-second
	// note. The zero value is Whole.
	Unit int

	// DurationKind tells how a Unit is modified to get the length of a
	// Duration. The zero value is Zero, i.e. a Duration that takes no time at
	// all, which is what marks and plain ties have.
	DurationKind int

	// Duration is a note value: a Unit together with a modifier (dotted,
	// triplet or both).
	Duration struct {
		Kind DurationKind
		Unit Unit
	}

	// Units measures time as a fraction of a whole note, so a quarter note is
	// 0.25 Units. Comparisons should go through the epsilon tolerant methods,
	// as sums of triplets do not add up exactly.
	Units float32

	// Ticks measures time exactly, on a grid of TicksPerWhole ticks per whole
	// note. Every Duration is a whole number of ticks, so positions summed
	// over long tracks do not drift.
	Ticks int
)

const (
	Whole Unit = iota
	Half
	Quarter
	Eighth
	Sixteenth
	ThirtySecondth
)

const (
	Zero DurationKind = iota
	Simple
	Dotted
	Triplet
	DottedTriplet
)

// TicksPerWhole is the resolution of Ticks: 2^6 * 3, enough for a dotted
// triplet thirty-second note.
const TicksPerWhole Ticks = 192

const (
	// MinAccuracy is the tolerance used when comparing Units.
	MinAccuracy Units = 1e-5
	// HalfMinAccuracy is used when rounding positions to bar boundaries.
	HalfMinAccuracy Units = MinAccuracy / 2
)

var unitIdents = [...]string{"_1", "_1_2", "_1_4", "_1_8", "_1_16", "_1_32"}

var kindPrefixes = [...]string{"", "", "D", "T", "DT"}

// Valid reports if u is one of the defined units.
func (u Unit) Valid() bool {
	return u >= Whole && u <= ThirtySecondth
}

// Halved returns the unit of half the length; ThirtySecondth stays as is.
func (u Unit) Halved() Unit {
	if u >= ThirtySecondth {
		return ThirtySecondth
	}
	return u + 1
}

// Doubled returns the unit of double the length; Whole stays as is.
func (u Unit) Doubled() Unit {
	if u <= Whole {
		return Whole
	}
	return u - 1
}

// Units returns the length of the unit as a fraction of a whole note.
func (u Unit) Units() Units {
	if !u.Valid() {
		return 0
	}
	return Units(1 / float32(int(1)<<u))
}

// Ticks returns the length of the unit in ticks.
func (u Unit) Ticks() Ticks {
	if !u.Valid() {
		return 0
	}
	return TicksPerWhole >> u
}

// Ident returns the textual identifier of the unit, e.g. "_1_4" for a
// quarter note.
func (u Unit) Ident() string {
	if !u.Valid() {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return unitIdents[u]
}

func (u Unit) String() string {
	return u.Ident()
}

// ParseUnit parses an identifier returned by Unit.Ident.
func ParseUnit(s string) (Unit, error) {
	for i, ident := range unitIdents {
		if ident == s {
			return Unit(i), nil
		}
	}
	return Whole, fmt.Errorf("unknown unit %q", s)
}

func (u Unit) MarshalText() ([]byte, error) {
	if !u.Valid() {
		return nil, fmt.Errorf("invalid unit %d", int(u))
	}
	return []byte(u.Ident()), nil
}

func (u *Unit) UnmarshalText(text []byte) error {
	v, err := ParseUnit(string(text))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// NewDuration returns a Duration of the given kind and unit.
func NewDuration(kind DurationKind, unit Unit) Duration {
	if kind == Zero {
		return Duration{}
	}
	return Duration{Kind: kind, Unit: unit}
}

// IsZero reports if the duration takes no time.
func (d Duration) IsZero() bool {
	return d.Kind == Zero
}

// Units returns the length of the duration: the unit length times 1 for
// Simple, 3/2 for Dotted, 2/3 for Triplet and 4/3 for DottedTriplet.
func (d Duration) Units() Units {
	base := d.Unit.Units()
	switch d.Kind {
	case Simple:
		return base
	case Dotted:
		return base * 3 / 2
	case Triplet:
		return base * 2 / 3
	case DottedTriplet:
		return base * 4 / 3
	}
	return 0
}

// Ticks returns the exact length of the duration in ticks.
func (d Duration) Ticks() Ticks {
	base := d.Unit.Ticks()
	switch d.Kind {
	case Simple:
		return base
	case Dotted:
		return base * 3 / 2
	case Triplet:
		return base * 2 / 3
	case DottedTriplet:
		return base * 4 / 3
	}
	return 0
}

// Halved returns the duration of the same kind with a halved unit.
func (d Duration) Halved() Duration {
	if d.Kind == Zero {
		return d
	}
	return Duration{Kind: d.Kind, Unit: d.Unit.Halved()}
}

// Doubled returns the duration of the same kind with a doubled unit.
func (d Duration) Doubled() Duration {
	if d.Kind == Zero {
		return d
	}
	return Duration{Kind: d.Kind, Unit: d.Unit.Doubled()}
}

// Ident returns the textual identifier of the duration: "_0" for Zero, the
// unit identifier for Simple durations and the unit identifier prefixed with
// D, T or DT for the modified ones, e.g. "DT_1_8".
func (d Duration) Ident() string {
	if d.Kind == Zero {
		return "_0"
	}
	if d.Kind < Zero || d.Kind > DottedTriplet {
		return fmt.Sprintf("Duration(%d,%d)", int(d.Kind), int(d.Unit))
	}
	return kindPrefixes[d.Kind] + d.Unit.Ident()
}

func (d Duration) String() string {
	return d.Ident()
}

// ParseDuration parses an identifier returned by Duration.Ident.
func ParseDuration(s string) (Duration, error) {
	if s == "_0" {
		return Duration{}, nil
	}
	kind := Simple
	rest := s
	switch {
	case strings.HasPrefix(s, "DT_"):
		kind, rest = DottedTriplet, s[2:]
	case strings.HasPrefix(s, "D_"):
		kind, rest = Dotted, s[1:]
	case strings.HasPrefix(s, "T_"):
		kind, rest = Triplet, s[1:]
	}
	unit, err := ParseUnit(rest)
	if err != nil {
		return Duration{}, fmt.Errorf("unknown duration %q", s)
	}
	return Duration{Kind: kind, Unit: unit}, nil
}

func (d Duration) MarshalText() ([]byte, error) {
	if d.Kind < Zero || d.Kind > DottedTriplet || (d.Kind != Zero && !d.Unit.Valid()) {
		return nil, fmt.Errorf("invalid duration %d/%d", int(d.Kind), int(d.Unit))
	}
	return []byte(d.Ident()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Add returns u + o.
func (u Units) Add(o Units) Units { return u + o }

// Sub returns u - o.
func (u Units) Sub(o Units) Units { return u - o }

// IsBiggerThan reports if u exceeds o by more than MinAccuracy.
func (u Units) IsBiggerThan(o Units) bool {
	return u > o+MinAccuracy
}

// IsSmallerThan reports if u is below o by more than MinAccuracy.
func (u Units) IsSmallerThan(o Units) bool {
	return u < o-MinAccuracy
}

// Equals reports if u and o are within MinAccuracy of each other.
func (u Units) Equals(o Units) bool {
	return !u.IsBiggerThan(o) && !u.IsSmallerThan(o)
}

// Cmp returns -1, 0 or 1 depending on whether u is smaller than, equal to or
// bigger than o, within MinAccuracy.
func (u Units) Cmp(o Units) int {
	switch {
	case u.IsBiggerThan(o):
		return 1
	case u.IsSmallerThan(o):
		return -1
	}
	return 0
}

// Floor returns how many whole steps of size fit in u, tolerating rounding
// errors of HalfMinAccuracy. It returns 0 if size is not positive.
func (u Units) Floor(size Units) int {
	if size <= 0 {
		return 0
	}
	return int(math.Floor(float64((u + HalfMinAccuracy) / size)))
}

// Units converts the tick count to Units.
func (t Ticks) Units() Units {
	return Units(float64(t) / float64(TicksPerWhole))
}
