package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tabnotation/notation"
	"github.com/tabnotation/notation/model"
)

func TestReport(t *testing.T) {
	q := notation.NewDuration(notation.Simple, notation.Quarter)
	c := notation.Note{Pitch: notation.C, Octave: 4}
	doc := notation.NewTab()
	doc.Tracks = []notation.Track{{ID: "guitar", Kind: notation.GuitarTrack, Entries: []notation.ProtoEntry{
		notation.Tone(q, c), notation.Tie(), notation.Tone(q, c), notation.Rest(notation.NewDuration(notation.Simple, notation.Half)),
	}}}
	doc.Sections = []notation.Section{
		{ID: "intro", Kind: notation.IntroSection, Bars: []notation.Bar{{}}},
		{ID: "bad", Kind: notation.OutroSection, Bars: []notation.Bar{{Layers: []notation.BarLayer{{Track: "missing"}}}}},
	}
	doc.Form.Sections = []string{"intro*2"}
	tab, err := model.Parse(doc, model.Options{Logger: logger})
	require.NoError(t, err)

	tmpl, err := newReportTemplate()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, tmpl.Execute(&buf, report{Tab: tab, ShowBars: true}))
	out := buf.String()
	assert.Contains(t, out, `0 "guitar" guitar (4 entries)`)
	assert.Contains(t, out, `0 "intro" Intro (1 bars)`)
	assert.Contains(t, out, "Form: intro intro")
	assert.Contains(t, out, "track not found")
	assert.Contains(t, out, "  2 intro x2")
	assert.Contains(t, out, "C4 _1_4~0.5 tie C4 _1_4 rest _1_2")
	assert.Equal(t, 2, strings.Count(out, "    guitar"))
}
