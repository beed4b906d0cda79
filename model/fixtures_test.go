package model_test

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tabnotation/notation"
	"github.com/tabnotation/notation/model"
)

var (
	quarter = notation.NewDuration(notation.Simple, notation.Quarter)
	half    = notation.NewDuration(notation.Simple, notation.Half)
	whole   = notation.NewDuration(notation.Simple, notation.Whole)
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func note(p notation.Pitch) notation.ProtoEntry {
	return notation.Tone(quarter, notation.Note{Pitch: p, Octave: 4})
}

func quarterTie() notation.ProtoEntry {
	return notation.ProtoEntry{Kind: notation.TieEntry, Length: quarter}
}

func section(id string, bars int, layers ...notation.BarLayer) notation.Section {
	s := notation.Section{ID: id, Kind: notation.VerseSection, Bars: make([]notation.Bar, bars)}
	if len(layers) > 0 && bars > 0 {
		s.Bars[0].Layers = layers
	}
	return s
}

func doc(tracks []notation.Track, sections []notation.Section, form ...string) *notation.Tab {
	return &notation.Tab{
		UUID:     uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		Meta:     notation.DefaultMeta(),
		Tracks:   tracks,
		Sections: sections,
		Form:     notation.Form{Sections: form},
	}
}

// quarters returns a guitar track of n quarter notes walking up from C.
func quarters(id string, n int) notation.Track {
	t := notation.Track{ID: id, Kind: notation.GuitarTrack}
	for i := range n {
		t.Entries = append(t.Entries, note(notation.C.Transposed(i)))
	}
	return t
}

func parse(d *notation.Tab, opts model.Options) (*model.Tab, error) {
	if opts.Logger == nil {
		opts.Logger = quietLogger
	}
	return model.Parse(d, opts)
}
