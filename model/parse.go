package model

import (
	"fmt"
	"log/slog"
	"weak"

	"github.com/tabnotation/notation"
)

// MaxBars is the largest number of bars a form may expand to. Form items
// that would go past it are reported and skipped.
const MaxBars = 100000

type (
	// BarRange is an inclusive range of bar ordinals, counted in the fully
	// expanded tab (with the lead-in bar, if any, being ordinal 0).
	BarRange struct {
		Begin int
		End   int
	}

	// Options control how a tab document is assembled.
	Options struct {
		// AddReadySection prepends a one bar lead-in section to the form.
		AddReadySection bool
		// Range, if not nil, limits the tab to the given bars. When a lead-in
		// is added and the range does not start from it, the lead-in bar is
		// kept in front of the range.
		Range *BarRange
		// Logger receives the diagnostics; slog.Default() is used if nil.
		Logger *slog.Logger
	}

	assembler struct {
		doc      *notation.Tab
		tab      *Tab
		ref      weak.Pointer[Tab]
		barTicks notation.Ticks
		logger   *slog.Logger
	}

	barPlan struct {
		section *Section
		props   BarProps
	}
)

// Parse assembles a tab document into a Tab. Problems with individual
// tracks, sections, form items or the range are reported in
// Tab.Diagnostics and the offending items left out; only an invalid time
// signature fails the whole assembly.
func Parse(doc *notation.Tab, opts Options) (*Tab, error) {
	barTicks, err := doc.Meta.BarTicks()
	if err != nil {
		return nil, fmt.Errorf("assembling tab %v: %w", doc.UUID, err)
	}
	tab := &Tab{uuid: doc.UUID, meta: doc.Meta, barUnits: barTicks.Units()}
	a := &assembler{doc: doc, tab: tab, ref: weak.Make(tab), barTicks: barTicks, logger: opts.Logger}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	a.logger = a.logger.With("tab", doc.UUID)
	tab.tracks = a.newTracks()
	tab.sections = a.newSections(opts.AddReadySection)
	tab.form = a.newForm(opts.AddReadySection)
	plans := a.expandBars()
	plans = a.limitRange(plans, opts)
	tab.bars = a.newBars(plans)
	a.logger.Debug("tab assembled", "tracks", len(tab.tracks), "sections", len(tab.sections), "bars", len(tab.bars), "diagnostics", len(tab.diagnostics))
	return tab, nil
}

func (a *assembler) report(item, id string, err error) {
	d := Diagnostic{Item: item, ID: id, Err: err}
	a.tab.diagnostics = append(a.tab.diagnostics, d)
	a.logger.Warn("tab item skipped", "item", item, "id", id, "err", err)
}

func (a *assembler) newTracks() []*Track {
	var ret []*Track
	seen := map[string]bool{}
	for i := range a.doc.Tracks {
		proto := &a.doc.Tracks[i]
		if seen[proto.ID] {
			a.report("track", proto.ID, ErrDuplicateID)
			continue
		}
		seen[proto.ID] = true
		ret = append(ret, newTrack(a.ref, len(ret), proto, a.barTicks))
	}
	return ret
}

func (a *assembler) newSections(addReady bool) []*Section {
	var ret []*Section
	if addReady {
		ready := notation.NewReadySection()
		ret = append(ret, &Section{tab: a.ref, id: ready.ID, kind: ready.Kind, bars: ready.Bars, firstDef: -1})
	}
	seen := map[string]bool{}
	def := 0
	for i := range a.doc.Sections {
		proto := &a.doc.Sections[i]
		firstDef := def
		def += len(proto.Bars)
		if seen[proto.ID] || (addReady && proto.ID == notation.ReadySectionID) {
			a.report("section", proto.ID, ErrDuplicateID)
			continue
		}
		if err := a.checkLayers(proto); err != nil {
			a.report("section", proto.ID, err)
			continue
		}
		seen[proto.ID] = true
		ret = append(ret, &Section{
			tab:      a.ref,
			index:    len(ret),
			id:       proto.ID,
			kind:     proto.Kind,
			bars:     a.clampLayers(proto),
			firstDef: firstDef,
		})
	}
	return ret
}

func (a *assembler) checkLayers(proto *notation.Section) error {
	for _, bar := range proto.Bars {
		for _, l := range bar.Layers {
			if _, ok := a.tab.Track(l.Track); !ok {
				return fmt.Errorf("%w: %q", ErrTrackNotFound, l.Track)
			}
		}
	}
	return nil
}

// clampLayers copies the bar definitions, fitting explicit slices into
// their tracks.
func (a *assembler) clampLayers(proto *notation.Section) []notation.Bar {
	bars := make([]notation.Bar, len(proto.Bars))
	for i, bar := range proto.Bars {
		bars[i].Layers = make([]notation.BarLayer, len(bar.Layers))
		for j, l := range bar.Layers {
			if l.Slice != nil {
				track, _ := a.tab.Track(l.Track)
				s := *l.Slice
				begin := max(0, min(s.Begin, track.Len()))
				end := max(begin, min(s.End(), track.Len()))
				if begin != s.Begin || end != s.End() {
					a.report("section", proto.ID, fmt.Errorf("%w: bar %d track %q entries %d..%d", ErrInvalidSlice, i, l.Track, s.Begin, s.End()))
				}
				l.Slice = &notation.Slice{Begin: begin, Count: end - begin}
			}
			bars[i].Layers[j] = l
		}
	}
	return bars
}

func (a *assembler) newForm(addReady bool) Form {
	var form Form
	bars := 0
	add := func(s *Section, repeat int) {
		for range repeat {
			form.sections = append(form.sections, s)
		}
		bars += repeat * len(s.bars)
	}
	if addReady {
		add(a.tab.sections[0], 1)
	}
	if len(a.doc.Form.Sections) == 0 {
		for _, s := range a.tab.sections {
			if !s.IsReady() {
				add(s, 1)
			}
		}
		return form
	}
	for _, item := range a.doc.Form.Sections {
		id, repeat, err := notation.ParseFormItem(item)
		if err != nil {
			a.report("form", item, fmt.Errorf("%w: %v", ErrInvalidForm, err))
			continue
		}
		s, ok := a.tab.Section(id)
		if !ok {
			a.report("form", id, ErrSectionNotFound)
			continue
		}
		if bars+repeat*len(s.bars) > MaxBars {
			a.report("form", item, fmt.Errorf("%w: more than %d bars", ErrInvalidForm, MaxBars))
			continue
		}
		add(s, repeat)
	}
	return form
}

// expandBars walks the form, numbering the bars of each section occurrence.
func (a *assembler) expandBars() []barPlan {
	var plans []barPlan
	rounds := map[string]int{}
	hasReady := len(a.tab.form.sections) > 0 && a.tab.form.sections[0].IsReady()
	for ordinal, s := range a.tab.form.sections {
		rounds[s.id]++
		for i := range s.bars {
			barOrdinal := len(plans)
			number := barOrdinal + 1
			if hasReady {
				number = barOrdinal
			}
			plans = append(plans, barPlan{section: s, props: BarProps{
				SectionRound:   rounds[s.id],
				SectionOrdinal: ordinal,
				BarIndex:       i,
				BarOrdinal:     barOrdinal,
				BarNumber:      number,
				BarUnits:       a.tab.barUnits,
			}})
		}
	}
	return plans
}

func (a *assembler) limitRange(plans []barPlan, opts Options) []barPlan {
	r := opts.Range
	if r == nil {
		return plans
	}
	if r.Begin < 0 || r.Begin >= len(plans) || r.End >= len(plans) || r.End < r.Begin {
		a.report("range", "", fmt.Errorf("%w: %d..%d of %d bars", ErrInvalidRange, r.Begin, r.End, len(plans)))
		return plans
	}
	readyAdded := opts.AddReadySection && r.Begin > 0
	var ret []barPlan
	if readyAdded {
		ret = append(ret, plans[0])
	}
	for _, s := range plans[r.Begin : r.End+1] {
		s.props.BarOrdinal = len(ret)
		ret = append(ret, s)
	}
	return ret
}

func (a *assembler) newBars(plans []barPlan) []*TabBar {
	bars := make([]*TabBar, len(plans))
	for i, plan := range plans {
		bar := &TabBar{tab: a.ref, section: weak.Make(plan.section), props: plan.props}
		barRef := weak.Make(bar)
		bar.lanes = make([]*BarLane, len(a.tab.tracks))
		for j, track := range a.tab.tracks {
			bar.lanes[j] = newLane(barRef, j, track, laneSlice(track, plan))
		}
		bars[i] = bar
	}
	return bars
}

// laneSlice decides which entries of the track fall into the bar. Explicit
// layers for the track win; a track with layers in the bar but none for the
// current round is silent; otherwise the entries are found by reading the
// track straight through the bar definitions.
func laneSlice(track *Track, plan barPlan) notation.Slice {
	s := plan.section
	if s.IsReady() {
		return notation.Slice{}
	}
	def := track.barSlice(s.firstDef + plan.props.BarIndex)
	bar, _ := s.Bar(plan.props.BarIndex)
	hasLayers := false
	for _, l := range bar.Layers {
		if l.Track != track.id {
			continue
		}
		hasLayers = true
		if !l.AppliesTo(plan.props.SectionRound) {
			continue
		}
		if l.Slice != nil {
			return *l.Slice
		}
		return def
	}
	if hasLayers {
		return notation.Slice{Begin: def.Begin}
	}
	return def
}

func newLane(bar weak.Pointer[TabBar], index int, track *Track, slice notation.Slice) *BarLane {
	lane := &BarLane{
		bar:   bar,
		track: weak.Make(track),
		props: LaneProps{Index: index, TrackIndex: track.index, Slice: slice},
	}
	ref := weak.Make(lane)
	models := track.entries[slice.Begin:slice.End()]
	starts := inBarPositions(models)
	lane.entries = make([]*LaneEntry, len(models))
	for i, m := range models {
		lane.entries[i] = &LaneEntry{
			lane:  ref,
			model: m,
			props: LaneEntryProps{
				Slice:      slice,
				SliceIndex: i,
				Index:      i,
				InBarPos:   notation.Units(starts[i]),
				TiedUnits:  m.tiedUnits,
				Duration:   m.Duration(),
			},
		}
	}
	return lane
}
