package notation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type (
	// TrackKind tells what a track is played on or what it carries.
	TrackKind int

	// SectionKind is the role of a section in the song structure.
	SectionKind int

	// Track is a single stream of entries, e.g. the guitar part or the lyrics.
	// A track is written straight through the sections in document order; the
	// entries of a bar are found by summing durations, unless a bar layer
	// pins an explicit Slice.
	Track struct {
		ID      string       `yaml:"id" json:"id"`
		Kind    TrackKind    `yaml:"kind" json:"kind"`
		Entries []ProtoEntry `yaml:"entries" json:"entries"`
	}

	// Slice is a range of entries of a track: Count entries starting from
	// index Begin.
	Slice struct {
		Begin int `yaml:"begin" json:"begin"`
		Count int `yaml:"count" json:"count"`
	}

	// BarLayer connects a bar to a track. Slice, if given, overrides the
	// entries of the track that fall into this bar. Rounds, if given, limits
	// the layer to those rounds of the section (1 being the first time the
	// section is played).
	BarLayer struct {
		Track  string `yaml:"track" json:"track"`
		Slice  *Slice `yaml:"slice,omitempty" json:"slice,omitempty"`
		Rounds []int  `yaml:"rounds,flow,omitempty" json:"rounds,omitempty"`
	}

	// Bar is the definition of one bar of a section.
	Bar struct {
		Layers []BarLayer `yaml:"layers,omitempty" json:"layers,omitempty"`
	}

	// Section is a named part of the song (intro, verse...) made of bars.
	Section struct {
		ID   string      `yaml:"id" json:"id"`
		Kind SectionKind `yaml:"kind" json:"kind"`
		Bars []Bar       `yaml:"bars" json:"bars"`
	}

	// Form is the order in which the sections are played. Each item is a
	// section id, optionally followed by "*N" to play the section N times in
	// a row. An empty form plays all the sections once in document order.
	Form struct {
		Sections []string `yaml:"sections,flow" json:"sections"`
	}

	// Tab is a complete tab document, as produced by a compiler or read from
	// a file.
	Tab struct {
		UUID     uuid.UUID `yaml:"uuid" json:"uuid"`
		Meta     TabMeta   `yaml:"meta" json:"meta"`
		Tracks   []Track   `yaml:"tracks" json:"tracks"`
		Sections []Section `yaml:"sections" json:"sections"`
		Form     Form      `yaml:"form" json:"form"`
	}
)

const (
	UnsupportedTrack TrackKind = iota
	MetaTrack
	LyricsTrack
	VocalTrack
	GuitarTrack
	PianoTrack
	BassTrack
	SynthTrack
	DrumsTrack
	ChordTrack
)

const (
	ReadySection SectionKind = iota
	RestSection
	IntroSection
	VerseSection
	PreChorusSection
	ChorusSection
	BridgeSection
	SoloSection
	OutroSection
)

// ReadySectionID is the id of the synthetic lead-in section.
const ReadySectionID = "ready"

// MaxFormRepeat is the largest repeat count a form item may have.
const MaxFormRepeat = 1000

var trackKindIdents = []string{"unsupported", "meta", "lyrics", "vocal", "guitar", "piano", "bass", "synth", "drums", "chord"}

var sectionKindIdents = []string{"ready", "rest", "intro", "verse", "pre-chorus", "chorus", "bridge", "solo", "outro"}

func (k TrackKind) String() string { return identOf("TrackKind", trackKindIdents, k) }

func (k TrackKind) MarshalText() ([]byte, error) { return marshalIdent("track kind", trackKindIdents, k) }

func (k *TrackKind) UnmarshalText(text []byte) (err error) {
	*k, err = parseIdent[TrackKind]("track kind", trackKindIdents, string(text))
	return
}

// Sounding reports if the entries of tracks of this kind are played as notes.
func (k TrackKind) Sounding() bool {
	switch k {
	case VocalTrack, GuitarTrack, PianoTrack, BassTrack, SynthTrack, DrumsTrack, ChordTrack:
		return true
	}
	return false
}

func (k SectionKind) String() string { return identOf("SectionKind", sectionKindIdents, k) }

func (k SectionKind) MarshalText() ([]byte, error) {
	return marshalIdent("section kind", sectionKindIdents, k)
}

func (k *SectionKind) UnmarshalText(text []byte) (err error) {
	*k, err = parseIdent[SectionKind]("section kind", sectionKindIdents, string(text))
	return
}

// End returns the index one past the last entry of the slice.
func (s Slice) End() int { return s.Begin + s.Count }

// AppliesTo reports if the layer is active on the given round of its
// section.
func (l BarLayer) AppliesTo(round int) bool {
	if len(l.Rounds) == 0 {
		return true
	}
	for _, r := range l.Rounds {
		if r == round {
			return true
		}
	}
	return false
}

// NewReadySection returns the one bar lead-in section that can be played
// before the actual song.
func NewReadySection() Section {
	return Section{ID: ReadySectionID, Kind: ReadySection, Bars: []Bar{{}}}
}

// ParseFormItem splits a form item into a section id and a repeat count.
func ParseFormItem(item string) (id string, repeat int, err error) {
	id, count, found := strings.Cut(strings.TrimSpace(item), "*")
	id = strings.TrimSpace(id)
	if id == "" {
		return "", 0, fmt.Errorf("empty section id in form item %q", item)
	}
	if !found {
		return id, 1, nil
	}
	repeat, err = strconv.Atoi(strings.TrimSpace(count))
	if err != nil || repeat < 1 || repeat > MaxFormRepeat {
		return "", 0, fmt.Errorf("bad repeat count in form item %q", item)
	}
	return id, repeat, nil
}

// NewTab returns an empty tab with a random UUID and the default meta.
func NewTab() *Tab {
	return &Tab{UUID: uuid.New(), Meta: DefaultMeta()}
}

// Track returns the track with the given id.
func (t *Tab) Track(id string) (*Track, bool) {
	for i := range t.Tracks {
		if t.Tracks[i].ID == id {
			return &t.Tracks[i], true
		}
	}
	return nil, false
}

// Section returns the section with the given id.
func (t *Tab) Section(id string) (*Section, bool) {
	for i := range t.Sections {
		if t.Sections[i].ID == id {
			return &t.Sections[i], true
		}
	}
	return nil, false
}

func (t *Tab) String() string {
	return fmt.Sprintf("<Tab>(%v T:%d S:%d F:%d)", t.Meta, len(t.Tracks), len(t.Sections), len(t.Form.Sections))
}
