package model_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tabnotation/notation"
	"github.com/tabnotation/notation/model"
)

func TestCalcTiedUnits(t *testing.T) {
	eighth := notation.NewDuration(notation.Simple, notation.Eighth)
	tie := notation.Tie()
	cases := []struct {
		name     string
		entries  []notation.ProtoEntry
		index    int
		expected notation.Units
	}{
		{"untied", []notation.ProtoEntry{note(notation.C), note(notation.D)}, 0, 0.25},
		{"tied once", []notation.ProtoEntry{note(notation.C), tie, note(notation.C)}, 0, 0.5},
		{"chain", []notation.ProtoEntry{note(notation.C), tie, note(notation.C), tie, notation.Tone(eighth, notation.Note{})}, 0, 0.625},
		{"middle of chain", []notation.ProtoEntry{note(notation.C), tie, note(notation.C), tie, note(notation.C)}, 2, 0.5},
		{"skips marks and ties", []notation.ProtoEntry{note(notation.C), tie, tie, notation.Mark("x"), note(notation.C)}, 0, 0.5},
		{"dangling tie", []notation.ProtoEntry{note(notation.C), tie}, 0, 0.25},
		{"tie itself", []notation.ProtoEntry{note(notation.C), tie, note(notation.C)}, 1, 0},
		{"out of range", []notation.ProtoEntry{note(notation.C)}, 3, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, model.CalcTiedUnits(c.entries, c.index))
		})
	}
}

func TestCalcTiedUnitsLongChain(t *testing.T) {
	var entries []notation.ProtoEntry
	for range 10000 {
		entries = append(entries, notation.Tone(notation.NewDuration(notation.Simple, notation.ThirtySecondth)), notation.Tie())
	}
	got := model.CalcTiedUnits(entries, 0)
	assert.True(t, got.Equals(10000.0/32), "got %v", got)
}

func TestEntryInvariants(t *testing.T) {
	triplet := notation.NewDuration(notation.Triplet, notation.Eighth)
	dotted := notation.NewDuration(notation.Dotted, notation.Quarter)
	entries := []notation.ProtoEntry{
		notation.Mark("intro"),
		notation.Tone(triplet), notation.Tone(triplet), notation.Tie(), notation.Tone(triplet),
		notation.Tone(dotted), notation.Tie(), notation.Tone(notation.NewDuration(notation.Simple, notation.Eighth)),
		notation.Rest(half), notation.Tone(quarter), notation.Tie(), notation.Tone(quarter),
		notation.Tone(half),
	}
	track := notation.Track{ID: "v", Kind: notation.VocalTrack, Entries: entries}
	tab, err := parse(doc([]notation.Track{track}, []notation.Section{section("a", 3)}), model.Options{})
	require.NoError(t, err)

	tr, ok := tab.Track("v")
	require.True(t, ok)
	for e := range tr.Entries() {
		assert.False(t, e.TiedUnits().IsSmallerThan(e.Duration().Units()), "entry %d", e.Index())
	}

	total := 0
	for i, bar := range tab.Bars() {
		assert.Equal(t, i, bar.Props().BarOrdinal)
		lane := bar.Lanes()[0]
		total += lane.Len()
		prev := notation.Units(0)
		for e := range lane.Entries() {
			if e.Index() == 0 {
				assert.Equal(t, notation.Units(0), e.InBarPos())
			}
			assert.False(t, e.InBarPos().IsSmallerThan(prev))
			prev = e.InBarPos()
			assert.Equal(t, lane.Slice().Begin+e.SliceIndex(), e.Model().Index())
		}
	}
	assert.Equal(t, len(entries), total)
	runtime.KeepAlive(tab)
}

func TestModelEntryNavigation(t *testing.T) {
	track := notation.Track{ID: "g", Kind: notation.GuitarTrack, Entries: []notation.ProtoEntry{
		notation.Mark("A"), note(notation.C), notation.Tie(), note(notation.C), note(notation.D), note(notation.E),
	}}
	tab, err := parse(doc([]notation.Track{track}, []notation.Section{section("a", 1)}), model.Options{})
	require.NoError(t, err)
	tr, _ := tab.Track("g")
	first, tied, last := tr.Entry(1), tr.Entry(3), tr.Entry(5)

	assert.Same(t, tab, first.Tab())
	assert.Equal(t, "g", first.TrackID())
	assert.Equal(t, notation.GuitarTrack, first.TrackKind())
	assert.Equal(t, 0, first.TrackIndex())
	mark, ok := first.PrevAsMark()
	assert.True(t, ok)
	assert.Equal(t, "A", mark)
	assert.Nil(t, tr.Entry(0).Prev())
	assert.Nil(t, last.Next())
	assert.True(t, first.NextIsTie())
	assert.True(t, tied.PrevIsTie())
	assert.Same(t, tied, first.TiedNext())
	assert.Same(t, first, tied.TiedPrev())
	assert.Nil(t, tied.TiedNext())
	assert.Nil(t, tr.Entry(4).TiedPrev())
	assert.Equal(t, notation.Units(0.5), first.TiedUnits())
	found := last.FindEntry(func(e *model.ModelEntry) bool { return e.Proto().Kind == notation.TieEntry })
	assert.Same(t, tr.Entry(2), found)
	runtime.KeepAlive(tab)
}

func TestLaneEntryNavigation(t *testing.T) {
	track := notation.Track{ID: "g", Kind: notation.GuitarTrack}
	track.Entries = []notation.ProtoEntry{
		note(notation.C), note(notation.D), note(notation.E), note(notation.F),
		notation.Mark("B"), note(notation.G), note(notation.A), notation.Tone(half),
	}
	tab, err := parse(doc([]notation.Track{track}, []notation.Section{section("a", 2)}), model.Options{})
	require.NoError(t, err)
	bar, _ := tab.Bar(1)
	lane := bar.Lanes()[0]
	require.Equal(t, 4, lane.Len())
	g := lane.Entry(1)
	mark, ok := g.PrevAsMark()
	assert.True(t, ok)
	assert.Equal(t, "B", mark)
	assert.Nil(t, lane.Entry(0).Prev())
	assert.Same(t, lane.Entry(2), g.Next())
	assert.Same(t, lane, g.Lane())
	assert.Same(t, bar, g.Bar())
	assert.Same(t, tab, g.Tab())
	props, ok := g.BarProps()
	assert.True(t, ok)
	assert.Equal(t, 1, props.BarOrdinal)
	lp, ok := g.LaneProps()
	assert.True(t, ok)
	assert.Equal(t, notation.Slice{Begin: 4, Count: 4}, lp.Slice)
	pos, ok := lane.Entry(3).BarPosition()
	assert.True(t, ok)
	assert.Equal(t, model.BarPosition{BarUnits: 1, BarOrdinal: 1, InBarPos: 0.5}, pos)
	assert.Equal(t, notation.Units(1.5), pos.Units())
	found := g.FindLaneEntry(func(e *model.LaneEntry) bool { return e.Duration() == half })
	assert.Same(t, lane.Entry(3), found)
	assert.Equal(t, 5, g.FindTrackEntry(func(e *model.ModelEntry) bool { return e.Index() == 5 }).Index())
	at, ok := tab.BarAt(1.25)
	assert.True(t, ok)
	assert.Same(t, bar, at)
}
