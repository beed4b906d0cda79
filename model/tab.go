// Package model assembles a tab document into an immutable graph of bars,
// lanes and entries.
package model

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/tabnotation/notation"
)

// Tab is an assembled, immutable tab: its tracks, sections and form, and
// the bars the form expands to. A Tab owns everything reachable from it;
// all references pointing back up are weak, so a Tab is released as soon as
// the last user lets go of it.
type Tab struct {
	uuid        uuid.UUID
	meta        notation.TabMeta
	barUnits    notation.Units
	tracks      []*Track
	sections    []*Section
	form        Form
	bars        []*TabBar
	diagnostics []Diagnostic
}

func (t *Tab) UUID() uuid.UUID { return t.uuid }
func (t *Tab) Meta() notation.TabMeta { return t.meta }
func (t *Tab) BarUnits() notation.Units { return t.barUnits }
func (t *Tab) Form() *Form { return &t.form }
func (t *Tab) NumBars() int { return len(t.bars) }
func (t *Tab) Tracks() []*Track { return slices.Clone(t.tracks) }
func (t *Tab) Sections() []*Section { return slices.Clone(t.sections) }
func (t *Tab) Bars() []*TabBar { return slices.Clone(t.bars) }
func (t *Tab) Diagnostics() []Diagnostic { return slices.Clone(t.diagnostics) }

// Bar returns the bar with the given ordinal.
func (t *Tab) Bar(ordinal int) (*TabBar, bool) {
	if ordinal < 0 || ordinal >= len(t.bars) {
		return nil, false
	}
	return t.bars[ordinal], true
}

// Track returns the track with the given id.
func (t *Tab) Track(id string) (*Track, bool) {
	for _, tr := range t.tracks {
		if tr.id == id {
			return tr, true
		}
	}
	return nil, false
}

// Section returns the section with the given id.
func (t *Tab) Section(id string) (*Section, bool) {
	for _, s := range t.sections {
		if s.id == id {
			return s, true
		}
	}
	return nil, false
}

// Units returns the total length of the tab.
func (t *Tab) Units() notation.Units {
	return t.barUnits * notation.Units(len(t.bars))
}

// BarAt returns the bar playing at the given position from the beginning of
// the tab.
func (t *Tab) BarAt(pos notation.Units) (*TabBar, bool) {
	return t.Bar(pos.Floor(t.barUnits))
}

func (t *Tab) String() string {
	return fmt.Sprintf("<Tab>(%v T:%d S:%d F:%d B:%d)", t.meta, len(t.tracks), len(t.sections), t.form.Len(), len(t.bars))
}
