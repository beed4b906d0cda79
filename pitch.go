package notation

import "fmt"

type (
	// Pitch is one of the twelve pitch classes, C being 0.
	Pitch int

	// Note is a pitch in a given octave. Octave 4 contains the middle C, so
	// Note{C, 4} has MIDI key 60.
	Note struct {
		Pitch  Pitch `yaml:"pitch" json:"pitch"`
		Octave int   `yaml:"octave" json:"octave"`
	}

	// ChordQuality tells which intervals are stacked on top of the root of a
	// chord.
	ChordQuality int

	// Chord is a chord symbol: a root pitch class and a quality.
	Chord struct {
		Root    Pitch        `yaml:"root" json:"root"`
		Quality ChordQuality `yaml:"quality" json:"quality"`
	}
)

const (
	C Pitch = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

const (
	MajorTriad ChordQuality = iota
	MinorTriad
	Diminished
	Augmented
	Dominant7
	Major7
	Minor7
	Sus2
	Sus4
)

var pitchIdents = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var qualityIdents = []string{"", "m", "dim", "aug", "7", "maj7", "m7", "sus2", "sus4"}

var qualityIntervals = [][]int{
	{0, 4, 7},
	{0, 3, 7},
	{0, 3, 6},
	{0, 4, 8},
	{0, 4, 7, 10},
	{0, 4, 7, 11},
	{0, 3, 7, 10},
	{0, 2, 7},
	{0, 5, 7},
}

func (p Pitch) String() string { return identOf("Pitch", pitchIdents, p) }

// Transposed returns the pitch class semitones above p.
func (p Pitch) Transposed(semitones int) Pitch {
	return Pitch(((int(p)+semitones)%12 + 12) % 12)
}

func (p Pitch) MarshalText() ([]byte, error) { return marshalIdent("pitch", pitchIdents, p) }

func (p *Pitch) UnmarshalText(text []byte) (err error) {
	*p, err = parseIdent[Pitch]("pitch", pitchIdents, string(text))
	return
}

// MidiKey returns the MIDI key number of the note, clamped to 0..127.
func (n Note) MidiKey() uint8 {
	k := (n.Octave+1)*12 + int(n.Pitch)
	return uint8(max(0, min(127, k)))
}

func (n Note) String() string {
	return fmt.Sprintf("%v%d", n.Pitch, n.Octave)
}

func (q ChordQuality) String() string { return identOf("ChordQuality", qualityIdents, q) }

func (q ChordQuality) MarshalText() ([]byte, error) {
	if q == MajorTriad {
		return []byte("maj"), nil
	}
	return marshalIdent("chord quality", qualityIdents, q)
}

func (q *ChordQuality) UnmarshalText(text []byte) (err error) {
	if s := string(text); s == "maj" || s == "" {
		*q = MajorTriad
		return nil
	}
	*q, err = parseIdent[ChordQuality]("chord quality", qualityIdents, string(text))
	return
}

// Intervals returns the semitone offsets of the chord tones from the root.
func (q ChordQuality) Intervals() []int {
	if q < 0 || int(q) >= len(qualityIntervals) {
		return nil
	}
	return append([]int(nil), qualityIntervals[q]...)
}

func (c Chord) String() string {
	return c.Root.String() + c.Quality.String()
}

// Notes returns the chord tones in root position, starting from the root in
// the given octave.
func (c Chord) Notes(octave int) []Note {
	var ret []Note
	for _, iv := range c.Quality.Intervals() {
		k := int(c.Root) + iv
		ret = append(ret, Note{Pitch: Pitch(k % 12), Octave: octave + k/12})
	}
	return ret
}
