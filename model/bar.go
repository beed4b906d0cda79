package model

import (
	"slices"
	"weak"

	"github.com/tabnotation/notation"
)

type (
	// BarProps locate a bar in the expanded tab.
	BarProps struct {
		// SectionRound counts how many times the section has been played,
		// starting from 1.
		SectionRound int
		// SectionOrdinal is the position of the section in the form.
		SectionOrdinal int
		// BarIndex is the index of the bar within its section.
		BarIndex int
		// BarOrdinal is the position of the bar in the tab, starting from 0.
		BarOrdinal int
		// BarNumber is the number printed for the bar: the lead-in bar is 0
		// and the first bar of the song is 1.
		BarNumber int
		BarUnits  notation.Units
	}

	// TabBar is a bar of the expanded tab, with one lane per track.
	TabBar struct {
		tab     weak.Pointer[Tab]
		section weak.Pointer[Section]
		props   BarProps
		lanes   []*BarLane
	}
)

func (b *TabBar) Props() BarProps { return b.props }
func (b *TabBar) Ordinal() int { return b.props.BarOrdinal }

// Tab returns the tab owning the bar, or nil if it is gone.
func (b *TabBar) Tab() *Tab {
	return b.tab.Value()
}

// Section returns the section the bar belongs to, or nil if it is gone.
func (b *TabBar) Section() *Section {
	return b.section.Value()
}

// Position returns the position at the given offset in the bar.
func (b *TabBar) Position(inBarPos notation.Units) BarPosition {
	return BarPosition{BarUnits: b.props.BarUnits, BarOrdinal: b.props.BarOrdinal, InBarPos: inBarPos}
}

// Lanes returns the lanes of the bar, one per track in track order.
func (b *TabBar) Lanes() []*BarLane {
	return slices.Clone(b.lanes)
}

// Lane returns the lane of the track with the given id.
func (b *TabBar) Lane(trackID string) (*BarLane, bool) {
	for _, l := range b.lanes {
		if t := l.Track(); t != nil && t.id == trackID {
			return l, true
		}
	}
	return nil, false
}

// ChordAt returns the chord sounding at inBarPos: the last chord entry of
// the bar starting at or before the position, or, if there is none, the
// last chord of the closest earlier bar that has one.
func (b *TabBar) ChordAt(inBarPos notation.Units) (notation.Chord, bool) {
	if c, ok := b.lastChord(func(e *LaneEntry) bool { return !e.InBarPos().IsBiggerThan(inBarPos) }); ok {
		return c, true
	}
	tab := b.Tab()
	if tab == nil {
		return notation.Chord{}, false
	}
	for o := b.props.BarOrdinal - 1; o >= 0; o-- {
		prev, ok := tab.Bar(o)
		if !ok {
			break
		}
		if c, ok := prev.lastChord(func(*LaneEntry) bool { return true }); ok {
			return c, true
		}
	}
	return notation.Chord{}, false
}

func (b *TabBar) lastChord(accept func(*LaneEntry) bool) (notation.Chord, bool) {
	var ret notation.Chord
	var pos notation.Units
	found := false
	for _, l := range b.lanes {
		for _, e := range l.entries {
			c, ok := e.model.proto.AsChord()
			if !ok || !accept(e) {
				continue
			}
			if !found || !e.props.InBarPos.IsSmallerThan(pos) {
				ret, pos, found = c, e.props.InBarPos, true
			}
		}
	}
	return ret, found
}
