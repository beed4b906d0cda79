// Package midi renders an assembled tab as a Standard MIDI File.
package midi

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/tabnotation/notation"
	"github.com/tabnotation/notation/model"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type (
	// ExportOptions tune the generated file. Zero values select the
	// defaults.
	ExportOptions struct {
		TicksPerQuarter uint16 // default 960
		Velocity        uint8  // default 96
		ChordOctave     int    // octave of chord roots; default 3
	}

	// event is a message at an absolute tick. Events at the same tick are
	// written note-offs first, then meta events, then note-ons.
	event struct {
		tick  uint32
		order int
		msg   []byte
	}
)

const drumChannel = 9

func (o ExportOptions) withDefaults() ExportOptions {
	if o.TicksPerQuarter == 0 {
		o.TicksPerQuarter = 960
	}
	if o.Velocity == 0 {
		o.Velocity = 96
	}
	if o.ChordOctave == 0 {
		o.ChordOctave = 3
	}
	return o
}

// Export writes tab to w as a format 1 MIDI file: a conductor track with the
// tempo, the meter and a marker at the start of each section, followed by one
// track per tab track. Tones and chords become notes; an entry tied to the
// note exported just before it extends that note instead of striking again.
// A tie continuation whose origin was not exported right before it, e.g. at
// the start of a range, is struck anew. Words become lyric events and marks
// become markers.
func Export(w io.Writer, tab *model.Tab, opts ExportOptions) error {
	opts = opts.withDefaults()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(opts.TicksPerQuarter)
	ticks := func(u notation.Units) uint32 {
		return uint32(math.Round(float64(u) * 4 * float64(opts.TicksPerQuarter)))
	}
	if err := s.Add(conductor(tab, ticks)); err != nil {
		return fmt.Errorf("adding conductor track: %w", err)
	}
	for _, track := range tab.Tracks() {
		if err := s.Add(trackEvents(tab, track, opts, ticks)); err != nil {
			return fmt.Errorf("adding track %q: %w", track.ID(), err)
		}
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("writing midi file: %w", err)
	}
	return nil
}

func conductor(tab *model.Tab, ticks func(notation.Units) uint32) smf.Track {
	meta := tab.Meta()
	events := []event{
		{0, 1, smf.MetaTrackSequenceName(fmt.Sprintf("%v %v", meta.Key, meta.Scale))},
		{0, 1, smf.MetaMeter(uint8(min(meta.Signature.BeatsPerBar, notation.MaxBeatsPerBar)), uint8(1<<meta.Signature.BeatUnit))},
		{0, 1, smf.MetaTempo(float64(meta.Tempo))},
	}
	caser := cases.Title(language.English)
	for _, bar := range tab.Bars() {
		if bar.Props().BarIndex != 0 {
			continue
		}
		section := bar.Section()
		if section == nil {
			continue
		}
		name := caser.String(section.Kind().String())
		if bar.Props().SectionRound > 1 {
			name = fmt.Sprintf("%s %d", name, bar.Props().SectionRound)
		}
		events = append(events, event{ticks(bar.Position(0).Units()), 1, smf.MetaMarker(name)})
	}
	return toTrack(events)
}

// melodicChannel maps a track index to a channel, leaving out the drum
// channel.
func melodicChannel(index int) uint8 {
	ch := uint8(index % 15)
	if ch >= drumChannel {
		ch++
	}
	return ch
}

func trackEvents(tab *model.Tab, track *model.Track, opts ExportOptions, ticks func(notation.Units) uint32) smf.Track {
	channel := melodicChannel(track.Index())
	if track.Kind() == notation.DrumsTrack {
		channel = drumChannel
	}
	events := []event{{0, 1, smf.MetaTrackSequenceName(track.ID())}}
	// held is the note sounding from the last struck entry, extended by the
	// tied entries realized right after it.
	var held struct {
		entry *model.ModelEntry
		bar   int
		keys  []uint8
		end   uint32
	}
	release := func() {
		for _, k := range held.keys {
			events = append(events, event{held.end, 0, gomidi.NoteOff(channel, k)})
		}
		held.entry, held.keys = nil, nil
	}
	for _, bar := range tab.Bars() {
		lane, ok := bar.Lane(track.ID())
		if !ok {
			continue
		}
		for e := range lane.Entries() {
			proto := e.Proto()
			start := ticks(bar.Position(e.InBarPos()).Units())
			end := start + ticks(e.Duration().Units())
			var keys []uint8
			switch proto.Kind {
			case notation.ToneEntry:
				if !track.Kind().Sounding() {
					continue
				}
				for _, n := range proto.Notes {
					keys = append(keys, n.MidiKey())
				}
			case notation.ChordEntry:
				if c, ok := proto.AsChord(); ok {
					for _, n := range c.Notes(opts.ChordOctave) {
						keys = append(keys, n.MidiKey())
					}
				}
			case notation.WordEntry:
				events = append(events, event{start, 1, smf.MetaLyric(proto.Text)})
				continue
			case notation.MarkEntry:
				events = append(events, event{start, 1, smf.MetaMarker(proto.Text)})
				continue
			default:
				continue
			}
			ordinal := bar.Ordinal()
			if held.entry != nil && e.Model().TiedPrev() == held.entry && ordinal-held.bar <= 1 {
				held.entry, held.bar, held.end = e.Model(), ordinal, end
				continue
			}
			release()
			for _, k := range keys {
				events = append(events, event{start, 2, gomidi.NoteOn(channel, k, opts.Velocity)})
			}
			held.entry, held.bar, held.keys, held.end = e.Model(), ordinal, keys, end
		}
	}
	release()
	return toTrack(events)
}

func toTrack(events []event) smf.Track {
	slices.SortStableFunc(events, func(a, b event) int {
		return cmp.Or(cmp.Compare(a.tick, b.tick), cmp.Compare(a.order, b.order))
	})
	var track smf.Track
	var last uint32
	for _, ev := range events {
		track.Add(ev.tick-last, ev.msg)
		last = ev.tick
	}
	track.Close(0)
	return track
}
