package notation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type (
	// Scale is the mode of the tab, relative to its key.
	Scale int

	// Signature is a time signature, e.g. 3/4: BeatsPerBar beats of
	// BeatUnit each.
	Signature struct {
		BeatUnit    Unit
		BeatsPerBar int
	}

	// Tempo is the speed of the tab in quarter note beats per minute.
	Tempo int

	// TabMeta holds the tab-wide musical settings. The bar length of every
	// bar in the tab is derived from the Signature.
	TabMeta struct {
		Key       Pitch     `yaml:"key" json:"key"`
		Scale     Scale     `yaml:"scale" json:"scale"`
		Signature Signature `yaml:"signature" json:"signature"`
		Tempo     Tempo     `yaml:"tempo" json:"tempo"`
	}
)

const (
	Major Scale = iota
	Minor
	Dorian
	Phrygian
	Lydian
	Mixolydian
	Locrian
)

const (
	Largo    Tempo = 50
	Adagio   Tempo = 70
	Andante  Tempo = 90
	Moderato Tempo = 108
	Allegro  Tempo = 132
	Presto   Tempo = 176
)

var scaleIdents = []string{"major", "minor", "dorian", "phrygian", "lydian", "mixolydian", "locrian"}

// MaxBeatsPerBar is the largest numerator a Signature may have; it is the
// largest one a MIDI meter event can carry.
const MaxBeatsPerBar = 255

// ErrInvalidSignature is returned when a time signature cannot describe a bar.
var ErrInvalidSignature = errors.New("invalid time signature")

// DefaultMeta returns C major, 4/4, Moderato.
func DefaultMeta() TabMeta {
	return TabMeta{
		Key:       C,
		Scale:     Major,
		Signature: Signature{BeatUnit: Quarter, BeatsPerBar: 4},
		Tempo:     Moderato,
	}
}

func (s Scale) String() string { return identOf("Scale", scaleIdents, s) }

func (s Scale) MarshalText() ([]byte, error) { return marshalIdent("scale", scaleIdents, s) }

func (s *Scale) UnmarshalText(text []byte) (err error) {
	*s, err = parseIdent[Scale]("scale", scaleIdents, string(text))
	return
}

// BarUnits returns the length of one bar in Units.
func (s Signature) BarUnits() (Units, error) {
	if err := s.validate(); err != nil {
		return 0, err
	}
	return s.BeatUnit.Units() * Units(s.BeatsPerBar), nil
}

// BarTicks returns the exact length of one bar in ticks.
func (s Signature) BarTicks() (Ticks, error) {
	if err := s.validate(); err != nil {
		return 0, err
	}
	return s.BeatUnit.Ticks() * Ticks(s.BeatsPerBar), nil
}

func (s Signature) validate() error {
	if s.BeatsPerBar <= 0 || s.BeatsPerBar > MaxBeatsPerBar || !s.BeatUnit.Valid() {
		return fmt.Errorf("%w: %d beats of %v", ErrInvalidSignature, s.BeatsPerBar, s.BeatUnit)
	}
	return nil
}

func (s Signature) String() string {
	if !s.BeatUnit.Valid() {
		return fmt.Sprintf("%d/%v", s.BeatsPerBar, s.BeatUnit)
	}
	return fmt.Sprintf("%d/%d", s.BeatsPerBar, 1<<s.BeatUnit)
}

// ParseSignature parses signatures written as "beats/denominator", where the
// denominator is a power of two between 1 and 32.
func ParseSignature(str string) (Signature, error) {
	num, den, ok := strings.Cut(strings.TrimSpace(str), "/")
	if !ok {
		return Signature{}, fmt.Errorf("%w: %q", ErrInvalidSignature, str)
	}
	beats, err := strconv.Atoi(num)
	if err != nil || beats <= 0 || beats > MaxBeatsPerBar {
		return Signature{}, fmt.Errorf("%w: %q", ErrInvalidSignature, str)
	}
	d, err := strconv.Atoi(den)
	if err != nil {
		return Signature{}, fmt.Errorf("%w: %q", ErrInvalidSignature, str)
	}
	for u := Whole; u <= ThirtySecondth; u++ {
		if 1<<u == d {
			return Signature{BeatUnit: u, BeatsPerBar: beats}, nil
		}
	}
	return Signature{}, fmt.Errorf("%w: %q", ErrInvalidSignature, str)
}

func (s Signature) MarshalText() ([]byte, error) {
	if _, err := s.BarUnits(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

func (s *Signature) UnmarshalText(text []byte) error {
	v, err := ParseSignature(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// BarUnits returns the length of one bar of the tab.
func (m TabMeta) BarUnits() (Units, error) {
	return m.Signature.BarUnits()
}

// BarTicks returns the exact length of one bar of the tab.
func (m TabMeta) BarTicks() (Ticks, error) {
	return m.Signature.BarTicks()
}

func (m TabMeta) String() string {
	return fmt.Sprintf("%v %v %v %d", m.Key, m.Scale, m.Signature, m.Tempo)
}
