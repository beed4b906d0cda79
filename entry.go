package notation

import (
	"fmt"
	"strings"
)

type (
	// Entry is the contract between the notation model and the entries
	// produced by a compiler or read from a document. The model only needs to
	// know how long an entry is, whether it ties the previous and next entries
	// together, when it should be passed to consumers and whether it is a
	// textual mark.
	Entry interface {
		Duration() Duration
		IsCoreTie() bool
		PassMode() EntryPassMode
		AsMark() (string, bool)
	}

	// EntryKind is the kind of a ProtoEntry.
	EntryKind int

	// EntryPassMode tells if an entry should be passed to consumers right when
	// playback reaches it (Immediate) or only after the preceding entry has
	// finished (Delayed).
	EntryPassMode int

	// ProtoEntry is a single event in a track, as written in a tab document.
	// Which fields are meaningful depends on the Kind: Length for rests, ties,
	// tones, chords and words; Notes for tones; Chord for chords; Text for
	// marks and words.
	ProtoEntry struct {
		Kind   EntryKind     `yaml:"kind" json:"kind"`
		Length Duration      `yaml:"duration,omitempty" json:"duration,omitempty"`
		Notes  []Note        `yaml:"notes,flow,omitempty" json:"notes,omitempty"`
		Chord  *Chord        `yaml:"chord,omitempty" json:"chord,omitempty"`
		Text   string        `yaml:"text,omitempty" json:"text,omitempty"`
		Pass   EntryPassMode `yaml:"pass,omitempty" json:"pass,omitempty"`
	}
)

const (
	RestEntry EntryKind = iota
	TieEntry
	ToneEntry
	ChordEntry
	MarkEntry
	WordEntry
)

const (
	Delayed EntryPassMode = iota
	Immediate
)

var entryKindIdents = []string{"rest", "tie", "tone", "chord", "mark", "word"}

var passModeIdents = []string{"delayed", "immediate"}

func (k EntryKind) String() string { return identOf("EntryKind", entryKindIdents, k) }

func (k EntryKind) MarshalText() ([]byte, error) { return marshalIdent("entry kind", entryKindIdents, k) }

func (k *EntryKind) UnmarshalText(text []byte) (err error) {
	*k, err = parseIdent[EntryKind]("entry kind", entryKindIdents, string(text))
	return
}

func (m EntryPassMode) String() string { return identOf("EntryPassMode", passModeIdents, m) }

func (m EntryPassMode) MarshalText() ([]byte, error) {
	return marshalIdent("pass mode", passModeIdents, m)
}

func (m *EntryPassMode) UnmarshalText(text []byte) (err error) {
	*m, err = parseIdent[EntryPassMode]("pass mode", passModeIdents, string(text))
	return
}

// Rest returns a rest of duration d.
func Rest(d Duration) ProtoEntry {
	return ProtoEntry{Kind: RestEntry, Length: d}
}

// Tie returns a tie marker. A tie takes no time unless a compiler spells it
// out with an explicit length.
func Tie() ProtoEntry {
	return ProtoEntry{Kind: TieEntry}
}

// Tone returns an entry sounding the given notes for duration d.
func Tone(d Duration, notes ...Note) ProtoEntry {
	return ProtoEntry{Kind: ToneEntry, Length: d, Notes: notes}
}

// ChordOf returns a chord symbol entry lasting d.
func ChordOf(d Duration, chord Chord) ProtoEntry {
	return ProtoEntry{Kind: ChordEntry, Length: d, Chord: &chord}
}

// Mark returns a zero-length textual mark, e.g. a rehearsal mark.
func Mark(text string) ProtoEntry {
	return ProtoEntry{Kind: MarkEntry, Text: text, Pass: Immediate}
}

// Word returns a lyric syllable sung for duration d.
func Word(d Duration, text string) ProtoEntry {
	return ProtoEntry{Kind: WordEntry, Length: d, Text: text}
}

// Duration returns the length of the entry. Marks never take time.
func (e ProtoEntry) Duration() Duration {
	if e.Kind == MarkEntry {
		return Duration{}
	}
	return e.Length
}

// IsCoreTie reports if the entry is a tie marker.
func (e ProtoEntry) IsCoreTie() bool {
	return e.Kind == TieEntry
}

func (e ProtoEntry) PassMode() EntryPassMode {
	return e.Pass
}

// AsMark returns the text of a mark entry.
func (e ProtoEntry) AsMark() (string, bool) {
	if e.Kind != MarkEntry {
		return "", false
	}
	return e.Text, true
}

// AsChord returns the chord of a chord entry.
func (e ProtoEntry) AsChord() (Chord, bool) {
	if e.Kind != ChordEntry || e.Chord == nil {
		return Chord{}, false
	}
	return *e.Chord, true
}

func (e ProtoEntry) String() string {
	switch e.Kind {
	case TieEntry:
		if e.Length.IsZero() {
			return "tie"
		}
		return "tie " + e.Length.Ident()
	case ToneEntry:
		s := make([]string, len(e.Notes))
		for i, n := range e.Notes {
			s[i] = n.String()
		}
		return fmt.Sprintf("%s %s", strings.Join(s, "+"), e.Length.Ident())
	case ChordEntry:
		c, _ := e.AsChord()
		return fmt.Sprintf("[%v] %s", c, e.Length.Ident())
	case MarkEntry:
		return "@" + e.Text
	case WordEntry:
		return fmt.Sprintf("%q %s", e.Text, e.Length.Ident())
	}
	return "rest " + e.Length.Ident()
}

var _ Entry = ProtoEntry{}
