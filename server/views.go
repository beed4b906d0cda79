package server

import (
	"github.com/tabnotation/notation"
	"github.com/tabnotation/notation/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type (
	tabView struct {
		UUID        string           `json:"uuid"`
		Meta        notation.TabMeta `json:"meta"`
		BarUnits    notation.Units   `json:"barUnits"`
		Bars        int              `json:"bars"`
		Tracks      []trackView      `json:"tracks"`
		Sections    []sectionView    `json:"sections"`
		Form        []string         `json:"form"`
		Diagnostics []string         `json:"diagnostics,omitempty"`
	}

	trackView struct {
		Index   int                `json:"index"`
		ID      string             `json:"id"`
		Kind    notation.TrackKind `json:"kind"`
		Entries int                `json:"entries"`
	}

	sectionView struct {
		Index int                  `json:"index"`
		ID    string               `json:"id"`
		Kind  notation.SectionKind `json:"kind"`
		Title string               `json:"title"`
		Bars  int                  `json:"bars"`
	}

	barView struct {
		Ordinal        int            `json:"ordinal"`
		Number         int            `json:"number"`
		Section        string         `json:"section"`
		SectionRound   int            `json:"sectionRound"`
		SectionOrdinal int            `json:"sectionOrdinal"`
		BarIndex       int            `json:"barIndex"`
		BarUnits       notation.Units `json:"barUnits"`
		Lanes          []laneView     `json:"lanes"`
	}

	laneView struct {
		Track   string          `json:"track"`
		Slice   notation.Slice  `json:"slice"`
		Entries []laneEntryView `json:"entries"`
	}

	laneEntryView struct {
		Index     int                `json:"index"`
		InBarPos  notation.Units     `json:"inBarPos"`
		TiedUnits notation.Units     `json:"tiedUnits"`
		Duration  notation.Duration  `json:"duration"`
		Kind      notation.EntryKind `json:"kind"`
		Text      string             `json:"text"`
	}

	chordView struct {
		Name  string         `json:"name"`
		Chord notation.Chord `json:"chord"`
	}
)

func newTabView(tab *model.Tab) tabView {
	v := tabView{
		UUID:     tab.UUID().String(),
		Meta:     tab.Meta(),
		BarUnits: tab.BarUnits(),
		Bars:     tab.NumBars(),
	}
	for _, t := range tab.Tracks() {
		v.Tracks = append(v.Tracks, trackView{Index: t.Index(), ID: t.ID(), Kind: t.Kind(), Entries: t.Len()})
	}
	for _, s := range tab.Sections() {
		v.Sections = append(v.Sections, sectionView{
			Index: s.Index(),
			ID:    s.ID(),
			Kind:  s.Kind(),
			Title: title(s.Kind().String()),
			Bars:  s.NumBars(),
		})
	}
	for _, s := range tab.Form().Sections() {
		v.Form = append(v.Form, s.ID())
	}
	for _, d := range tab.Diagnostics() {
		v.Diagnostics = append(v.Diagnostics, d.Error())
	}
	return v
}

func newBarView(bar *model.TabBar) barView {
	p := bar.Props()
	v := barView{
		Ordinal:        p.BarOrdinal,
		Number:         p.BarNumber,
		SectionRound:   p.SectionRound,
		SectionOrdinal: p.SectionOrdinal,
		BarIndex:       p.BarIndex,
		BarUnits:       p.BarUnits,
	}
	if s := bar.Section(); s != nil {
		v.Section = s.ID()
	}
	for _, l := range bar.Lanes() {
		v.Lanes = append(v.Lanes, newLaneView(l))
	}
	return v
}

func newLaneView(lane *model.BarLane) laneView {
	v := laneView{Slice: lane.Slice(), Entries: []laneEntryView{}}
	if t := lane.Track(); t != nil {
		v.Track = t.ID()
	}
	for e := range lane.Entries() {
		v.Entries = append(v.Entries, laneEntryView{
			Index:     e.Index(),
			InBarPos:  e.InBarPos(),
			TiedUnits: e.TiedUnits(),
			Duration:  e.Duration(),
			Kind:      e.Proto().Kind,
			Text:      e.Proto().String(),
		})
	}
	return v
}

// title capitalizes a kind name for display. Casers keep state, so each call
// gets its own.
func title(s string) string {
	return cases.Title(language.English).String(s)
}
