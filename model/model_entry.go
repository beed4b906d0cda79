package model

import (
	"weak"

	"github.com/tabnotation/notation"
)

// ModelEntry is an entry of a track, knowing its position in the track and
// how long it sounds when ties are followed. The back-reference to the track
// is weak: once the tab is dropped the navigation methods return nil.
type ModelEntry struct {
	track     weak.Pointer[Track]
	proto     notation.ProtoEntry
	index     int
	tiedUnits notation.Units
}

// CalcTiedUnits returns the length of the entry at index, plus the lengths of
// the entries it is tied to. An entry is tied to the next entry with a
// length that follows a tie marker right after it; the chain continues from
// there. Ties and zero length entries between the tie and the next sounding
// entry are skipped.
func CalcTiedUnits[E notation.Entry](entries []E, index int) notation.Units {
	if index < 0 || index >= len(entries) {
		return 0
	}
	total := entries[index].Duration().Units()
	cur := index
	// each step moves cur forward, so the chain ends in len(entries) steps
	for range len(entries) {
		if cur+1 >= len(entries) || !entries[cur+1].IsCoreTie() {
			break
		}
		next := nextSounding(entries, cur+2)
		if next < 0 {
			break
		}
		total += entries[next].Duration().Units()
		cur = next
	}
	return total
}

// nextSounding returns the index of the first entry at or after from that is
// not a tie and has a length; or -1 if there is none.
func nextSounding[E notation.Entry](entries []E, from int) int {
	for j := max(from, 0); j < len(entries); j++ {
		if !entries[j].IsCoreTie() && !entries[j].Duration().IsZero() {
			return j
		}
	}
	return -1
}

func prevSounding[E notation.Entry](entries []E, from int) int {
	for j := min(from, len(entries)-1); j >= 0; j-- {
		if !entries[j].IsCoreTie() && !entries[j].Duration().IsZero() {
			return j
		}
	}
	return -1
}

func (e *ModelEntry) Index() int { return e.index }
func (e *ModelEntry) TiedUnits() notation.Units { return e.tiedUnits }
func (e *ModelEntry) Proto() notation.ProtoEntry { return e.proto }
func (e *ModelEntry) Duration() notation.Duration { return e.proto.Duration() }
func (e *ModelEntry) IsCoreTie() bool { return e.proto.IsCoreTie() }
func (e *ModelEntry) PassMode() notation.EntryPassMode { return e.proto.PassMode() }
func (e *ModelEntry) AsMark() (string, bool) { return e.proto.AsMark() }

// Track returns the track owning the entry, or nil if the tab is gone.
func (e *ModelEntry) Track() *Track {
	return e.track.Value()
}

// Tab returns the tab owning the entry, or nil if it is gone.
func (e *ModelEntry) Tab() *Tab {
	if t := e.Track(); t != nil {
		return t.Tab()
	}
	return nil
}

// TrackID returns the id of the owning track; or "" if the track is gone.
func (e *ModelEntry) TrackID() string {
	if t := e.Track(); t != nil {
		return t.id
	}
	return ""
}

// TrackKind returns the kind of the owning track; or UnsupportedTrack if the
// track is gone.
func (e *ModelEntry) TrackKind() notation.TrackKind {
	if t := e.Track(); t != nil {
		return t.kind
	}
	return notation.UnsupportedTrack
}

// TrackIndex returns the index of the owning track; or -1 if the track is
// gone.
func (e *ModelEntry) TrackIndex() int {
	if t := e.Track(); t != nil {
		return t.index
	}
	return -1
}

// Prev returns the previous entry of the track; or nil for the first entry.
func (e *ModelEntry) Prev() *ModelEntry {
	return e.sibling(e.index - 1)
}

// Next returns the next entry of the track; or nil for the last entry.
func (e *ModelEntry) Next() *ModelEntry {
	return e.sibling(e.index + 1)
}

func (e *ModelEntry) sibling(index int) *ModelEntry {
	t := e.Track()
	if t == nil || index < 0 || index >= len(t.entries) {
		return nil
	}
	return t.entries[index]
}

func (e *ModelEntry) PrevIsTie() bool {
	p := e.Prev()
	return p != nil && p.proto.IsCoreTie()
}

func (e *ModelEntry) NextIsTie() bool {
	n := e.Next()
	return n != nil && n.proto.IsCoreTie()
}

// PrevAsMark returns the text of the previous entry if it is a mark.
func (e *ModelEntry) PrevAsMark() (string, bool) {
	if p := e.Prev(); p != nil {
		return p.proto.AsMark()
	}
	return "", false
}

// TiedNext returns the entry this entry is tied to, i.e. the first sounding
// entry after the tie marker following this one; or nil if the entry is not
// tied forward.
func (e *ModelEntry) TiedNext() *ModelEntry {
	t := e.Track()
	if t == nil || !e.NextIsTie() {
		return nil
	}
	if j := nextSounding(t.entries, e.index+2); j >= 0 {
		return t.entries[j]
	}
	return nil
}

// TiedPrev returns the entry tied to this one, i.e. the entry whose
// TiedNext is this one; or nil if the entry is not tied backward.
func (e *ModelEntry) TiedPrev() *ModelEntry {
	t := e.Track()
	if t == nil {
		return nil
	}
	j := prevSounding(t.entries, e.index-1)
	if j < 0 {
		return nil
	}
	if p := t.entries[j]; p.TiedNext() == e {
		return p
	}
	return nil
}

// FindEntry returns the first entry of the track for which pred returns
// true.
func (e *ModelEntry) FindEntry(pred func(*ModelEntry) bool) *ModelEntry {
	if t := e.Track(); t != nil {
		return t.FindEntry(pred)
	}
	return nil
}
