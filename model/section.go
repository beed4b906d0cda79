package model

import (
	"iter"
	"slices"
	"weak"

	"github.com/tabnotation/notation"
)

type (
	// Section is a section of the tab whose track references have all been
	// resolved.
	Section struct {
		tab   weak.Pointer[Tab]
		index int
		id    string
		kind  notation.SectionKind
		bars  []notation.Bar
		// firstDef is the ordinal of the first bar of the section among all
		// bar definitions of the document; -1 for the lead-in
		firstDef int
	}

	// Form is the order the sections are played in, repeats expanded.
	Form struct {
		sections []*Section
	}
)

func (s *Section) Index() int { return s.index }
func (s *Section) ID() string { return s.id }
func (s *Section) Kind() notation.SectionKind { return s.kind }
func (s *Section) NumBars() int { return len(s.bars) }

// Tab returns the tab owning the section, or nil if it is gone.
func (s *Section) Tab() *Tab {
	return s.tab.Value()
}

// IsReady reports if the section is the synthetic lead-in.
func (s *Section) IsReady() bool {
	return s.firstDef < 0
}

// Bar returns the definition of the bar at index within the section.
func (s *Section) Bar(index int) (notation.Bar, bool) {
	if index < 0 || index >= len(s.bars) {
		return notation.Bar{}, false
	}
	return s.bars[index], true
}

func (f *Form) Len() int { return len(f.sections) }

// Sections iterates over the section occurrences in playing order.
func (f *Form) Sections() iter.Seq2[int, *Section] {
	return slices.All(f.sections)
}

// Section returns the section played at the given ordinal; or nil.
func (f *Form) Section(ordinal int) *Section {
	if ordinal < 0 || ordinal >= len(f.sections) {
		return nil
	}
	return f.sections[ordinal]
}
