package model

import (
	"weak"

	"github.com/tabnotation/notation"
)

type (
	// LaneEntryProps locate an entry within its lane.
	LaneEntryProps struct {
		Slice      notation.Slice
		SliceIndex int // index within Slice, counted from Slice.Begin
		Index      int // index within the lane
		InBarPos   notation.Units
		TiedUnits  notation.Units
		Duration   notation.Duration
	}

	// LaneEntry is a ModelEntry as it appears in a given bar.
	LaneEntry struct {
		lane  weak.Pointer[BarLane]
		model *ModelEntry
		props LaneEntryProps
	}
)

func (e *LaneEntry) Props() LaneEntryProps { return e.props }
func (e *LaneEntry) Index() int { return e.props.Index }
func (e *LaneEntry) SliceIndex() int { return e.props.SliceIndex }
func (e *LaneEntry) Slice() notation.Slice { return e.props.Slice }
func (e *LaneEntry) InBarPos() notation.Units { return e.props.InBarPos }
func (e *LaneEntry) TiedUnits() notation.Units { return e.props.TiedUnits }
func (e *LaneEntry) Duration() notation.Duration { return e.props.Duration }
func (e *LaneEntry) Model() *ModelEntry { return e.model }
func (e *LaneEntry) Proto() notation.ProtoEntry { return e.model.proto }

// Lane returns the lane owning the entry, or nil if it is gone.
func (e *LaneEntry) Lane() *BarLane {
	return e.lane.Value()
}

// Track returns the track of the entry, or nil if it is gone.
func (e *LaneEntry) Track() *Track {
	return e.model.Track()
}

// Bar returns the bar of the entry, or nil if it is gone.
func (e *LaneEntry) Bar() *TabBar {
	if l := e.Lane(); l != nil {
		return l.Bar()
	}
	return nil
}

// Tab returns the tab of the entry, or nil if it is gone.
func (e *LaneEntry) Tab() *Tab {
	if b := e.Bar(); b != nil {
		return b.Tab()
	}
	return nil
}

func (e *LaneEntry) LaneProps() (LaneProps, bool) {
	if l := e.Lane(); l != nil {
		return l.props, true
	}
	return LaneProps{}, false
}

func (e *LaneEntry) BarProps() (BarProps, bool) {
	if b := e.Bar(); b != nil {
		return b.props, true
	}
	return BarProps{}, false
}

// BarPosition returns where the entry starts in the tab.
func (e *LaneEntry) BarPosition() (BarPosition, bool) {
	b := e.Bar()
	if b == nil {
		return BarPosition{}, false
	}
	return b.Position(e.props.InBarPos), true
}

func (e *LaneEntry) TrackID() string { return e.model.TrackID() }
func (e *LaneEntry) TrackKind() notation.TrackKind { return e.model.TrackKind() }
func (e *LaneEntry) TrackIndex() int { return e.model.TrackIndex() }

// Prev returns the previous entry of the lane; or nil for the first entry.
func (e *LaneEntry) Prev() *LaneEntry {
	if l := e.Lane(); l != nil {
		return l.Entry(e.props.Index - 1)
	}
	return nil
}

// Next returns the next entry of the lane; or nil for the last entry.
func (e *LaneEntry) Next() *LaneEntry {
	if l := e.Lane(); l != nil {
		return l.Entry(e.props.Index + 1)
	}
	return nil
}

// PrevAsMark returns the text of the previous entry of the lane if it is a
// mark.
func (e *LaneEntry) PrevAsMark() (string, bool) {
	if p := e.Prev(); p != nil {
		return p.model.proto.AsMark()
	}
	return "", false
}

// FindLaneEntry returns the first entry of the same lane for which pred
// returns true.
func (e *LaneEntry) FindLaneEntry(pred func(*LaneEntry) bool) *LaneEntry {
	if l := e.Lane(); l != nil {
		return l.FindEntry(pred)
	}
	return nil
}

// FindTrackEntry returns the first entry of the whole track for which pred
// returns true.
func (e *LaneEntry) FindTrackEntry(pred func(*ModelEntry) bool) *ModelEntry {
	return e.model.FindEntry(pred)
}
