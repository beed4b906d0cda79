package model

import (
	"iter"
	"slices"
	"sort"
	"weak"

	"github.com/tabnotation/notation"
	"github.com/viterin/vek/vek32"
)

// Track is a track of the tab with its entries resolved into ModelEntries.
type Track struct {
	tab     weak.Pointer[Tab]
	index   int
	id      string
	kind    notation.TrackKind
	entries []*ModelEntry
	// barOf is the bar definition each entry starts in, when the track is
	// read straight through the sections. It is computed in exact ticks.
	barOf []int
}

func newTrack(tab weak.Pointer[Tab], index int, proto *notation.Track, barTicks notation.Ticks) *Track {
	t := &Track{tab: tab, index: index, id: proto.ID, kind: proto.Kind}
	ref := weak.Make(t)
	protos := slices.Clone(proto.Entries)
	t.entries = make([]*ModelEntry, len(protos))
	t.barOf = make([]int, len(protos))
	var start notation.Ticks
	for i := range protos {
		t.entries[i] = &ModelEntry{
			track:     ref,
			proto:     protos[i],
			index:     i,
			tiedUnits: CalcTiedUnits(protos, i),
		}
		t.barOf[i] = int(start / barTicks)
		start += protos[i].Duration().Ticks()
	}
	return t
}

// inBarPositions returns the start of each entry relative to the first one,
// i.e. the exclusive prefix sum of their lengths. It is only used within a
// bar, where the float32 sum stays well inside MinAccuracy.
func inBarPositions[E notation.Entry](entries []E) []float32 {
	if len(entries) == 0 {
		return nil
	}
	shifted := make([]float32, len(entries))
	for i := 1; i < len(entries); i++ {
		shifted[i] = float32(entries[i-1].Duration().Units())
	}
	return vek32.CumSum(shifted)
}

func (t *Track) Index() int { return t.index }
func (t *Track) ID() string { return t.id }
func (t *Track) Kind() notation.TrackKind { return t.kind }
func (t *Track) Len() int { return len(t.entries) }

// Tab returns the tab owning the track, or nil if it is gone.
func (t *Track) Tab() *Tab {
	return t.tab.Value()
}

// Entry returns the entry at index; or nil if the index is out of range.
func (t *Track) Entry(index int) *ModelEntry {
	if index < 0 || index >= len(t.entries) {
		return nil
	}
	return t.entries[index]
}

// Entries iterates over the entries of the track.
func (t *Track) Entries() iter.Seq[*ModelEntry] {
	return slices.Values(t.entries)
}

// FindEntry returns the first entry for which pred returns true; or nil.
func (t *Track) FindEntry(pred func(*ModelEntry) bool) *ModelEntry {
	for _, e := range t.entries {
		if pred(e) {
			return e
		}
	}
	return nil
}

// barSlice returns the entries starting in the given bar definition, when
// the track is read straight through the sections.
func (t *Track) barSlice(def int) notation.Slice {
	begin := sort.SearchInts(t.barOf, def)
	end := sort.SearchInts(t.barOf, def+1)
	return notation.Slice{Begin: begin, Count: end - begin}
}
