package model

import (
	"iter"
	"slices"
	"weak"

	"github.com/tabnotation/notation"
)

type (
	// LaneProps describe which part of which track a lane shows.
	LaneProps struct {
		Index      int // index of the lane in its bar
		TrackIndex int
		Slice      notation.Slice
	}

	// BarLane is the part of a track that falls into one bar.
	BarLane struct {
		bar     weak.Pointer[TabBar]
		track   weak.Pointer[Track]
		props   LaneProps
		entries []*LaneEntry
	}
)

func (l *BarLane) Props() LaneProps { return l.props }
func (l *BarLane) Index() int { return l.props.Index }
func (l *BarLane) Slice() notation.Slice { return l.props.Slice }
func (l *BarLane) Len() int { return len(l.entries) }

// Bar returns the bar owning the lane, or nil if it is gone.
func (l *BarLane) Bar() *TabBar {
	return l.bar.Value()
}

// Track returns the track shown in the lane, or nil if it is gone.
func (l *BarLane) Track() *Track {
	return l.track.Value()
}

// Entry returns the entry at index; or nil if the index is out of range.
func (l *BarLane) Entry(index int) *LaneEntry {
	if index < 0 || index >= len(l.entries) {
		return nil
	}
	return l.entries[index]
}

// Entries iterates over the entries of the lane in order.
func (l *BarLane) Entries() iter.Seq[*LaneEntry] {
	return slices.Values(l.entries)
}

// FindEntry returns the first entry for which pred returns true; or nil.
func (l *BarLane) FindEntry(pred func(*LaneEntry) bool) *LaneEntry {
	for _, e := range l.entries {
		if pred(e) {
			return e
		}
	}
	return nil
}
