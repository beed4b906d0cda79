package notation_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/tabnotation/notation"
)

const tabYAML = `
uuid: 1b4e28ba-2fa1-11d2-883f-0016d3cca427
meta:
  key: G
  scale: major
  signature: 3/4
  tempo: 96
tracks:
  - id: guitar
    kind: guitar
    entries:
      - {kind: tone, duration: _1_4, notes: [{pitch: G, octave: 3}]}
      - {kind: tie}
      - {kind: tone, duration: D_1_4, notes: [{pitch: B, octave: 3}]}
      - {kind: mark, text: fill, pass: immediate}
      - {kind: rest, duration: T_1_8}
  - id: chords
    kind: chord
    entries:
      - {kind: chord, duration: D_1_2, chord: {root: G, quality: maj}}
sections:
  - id: verse
    kind: verse
    bars:
      - {}
      - layers: [{track: chords, slice: {begin: 0, count: 1}, rounds: [2]}]
form:
  sections: [verse*2]
`

func TestReadTabYAML(t *testing.T) {
	tab, err := notation.ReadTab(strings.NewReader(tabYAML))
	if err != nil {
		t.Fatalf("ReadTab failed: %v", err)
	}
	if tab.Meta.Key != notation.G || tab.Meta.Signature.BeatsPerBar != 3 || tab.Meta.Signature.BeatUnit != notation.Quarter {
		t.Errorf("unexpected meta: %v", tab.Meta)
	}
	units, err := tab.Meta.BarUnits()
	if err != nil || units != 0.75 {
		t.Errorf("bar units got: %v, %v expected: 0.75", units, err)
	}
	guitar, ok := tab.Track("guitar")
	if !ok {
		t.Fatalf("guitar track not found")
	}
	if len(guitar.Entries) != 5 {
		t.Fatalf("guitar entries got: %v expected: 5", len(guitar.Entries))
	}
	if !guitar.Entries[1].IsCoreTie() || !guitar.Entries[1].Duration().IsZero() {
		t.Errorf("second entry should be a zero length tie, got: %v", guitar.Entries[1])
	}
	if d := guitar.Entries[2].Duration(); d != notation.NewDuration(notation.Dotted, notation.Quarter) {
		t.Errorf("third entry duration got: %v", d)
	}
	if mark, ok := guitar.Entries[3].AsMark(); !ok || mark != "fill" {
		t.Errorf("fourth entry should be the mark fill, got: %v", guitar.Entries[3])
	}
	if guitar.Entries[3].PassMode() != notation.Immediate {
		t.Errorf("mark should pass immediately")
	}
	chords, _ := tab.Track("chords")
	if c, ok := chords.Entries[0].AsChord(); !ok || c != (notation.Chord{Root: notation.G, Quality: notation.MajorTriad}) {
		t.Errorf("chord got: %v", chords.Entries[0])
	}
	verse, ok := tab.Section("verse")
	if !ok || len(verse.Bars) != 2 {
		t.Fatalf("verse should have two bars, got: %v", verse)
	}
	if l := verse.Bars[1].Layers[0]; l.AppliesTo(1) || !l.AppliesTo(2) {
		t.Errorf("layer should apply only on the second round: %v", l)
	}
}

func TestTabRoundTrip(t *testing.T) {
	tab, err := notation.ReadTab(strings.NewReader(tabYAML))
	if err != nil {
		t.Fatalf("ReadTab failed: %v", err)
	}
	for _, format := range []notation.Format{notation.YAML, notation.JSON} {
		var buf bytes.Buffer
		if err := tab.Write(&buf, format); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		back, err := notation.ReadTab(&buf)
		if err != nil {
			t.Fatalf("reading back failed: %v", err)
		}
		if !reflect.DeepEqual(tab, back) {
			t.Errorf("round trip in format %v changed the tab, got: %v expected: %v", format, back, tab)
		}
	}
}

func TestReadTabRejectsUnknownIdents(t *testing.T) {
	bad := strings.Replace(tabYAML, "D_1_4", "Q_1_4", 1)
	if _, err := notation.ReadTab(strings.NewReader(bad)); err == nil {
		t.Errorf("unknown duration should fail the read")
	}
	bad = strings.Replace(tabYAML, "3/4", "3/5", 1)
	if _, err := notation.ReadTab(strings.NewReader(bad)); err == nil {
		t.Errorf("unknown signature denominator should fail the read")
	}
}

func TestUnitsSerializeExactly(t *testing.T) {
	type doc struct {
		U notation.Units `yaml:"u" json:"u"`
	}
	for _, u := range []notation.Units{1.0 / 3, 1.0 / 6, 0.1, 0.75} {
		b, err := jsonRoundTrip(doc{u})
		if err != nil {
			t.Fatalf("json round trip failed: %v", err)
		}
		if b.U != u {
			t.Errorf("json round trip got: %v expected: %v", b.U, u)
		}
		y, err := yamlRoundTrip(doc{u})
		if err != nil {
			t.Fatalf("yaml round trip failed: %v", err)
		}
		if y.U != u {
			t.Errorf("yaml round trip got: %v expected: %v", y.U, u)
		}
	}
}

func TestParseFormItem(t *testing.T) {
	cases := []struct {
		item   string
		id     string
		repeat int
		fail   bool
	}{
		{"verse", "verse", 1, false},
		{"chorus*3", "chorus", 3, false},
		{" bridge * 2 ", "bridge", 2, false},
		{"verse*0", "", 0, true},
		{"*2", "", 0, true},
		{"verse*x", "", 0, true},
		{"verse*1000", "verse", 1000, false},
		{"verse*1001", "", 0, true},
		{"verse*2000000000", "", 0, true},
	}
	for _, c := range cases {
		id, repeat, err := notation.ParseFormItem(c.item)
		if (err != nil) != c.fail {
			t.Errorf("ParseFormItem(%q) error: %v", c.item, err)
			continue
		}
		if id != c.id || repeat != c.repeat {
			t.Errorf("ParseFormItem(%q) got: %v*%v expected: %v*%v", c.item, id, repeat, c.id, c.repeat)
		}
	}
}

func TestChordNotes(t *testing.T) {
	c := notation.Chord{Root: notation.A, Quality: notation.MinorTriad}
	expected := []notation.Note{{Pitch: notation.A, Octave: 3}, {Pitch: notation.C, Octave: 4}, {Pitch: notation.E, Octave: 4}}
	if got := c.Notes(3); !reflect.DeepEqual(got, expected) {
		t.Errorf("notes of %v got: %v expected: %v", c, got, expected)
	}
	if got := (notation.Note{Pitch: notation.C, Octave: 4}).MidiKey(); got != 60 {
		t.Errorf("middle C key got: %v expected: 60", got)
	}
}

func TestSignatureLimits(t *testing.T) {
	for _, bad := range []string{"0/4", "256/4", "300/8", "4/3", "4"} {
		if _, err := notation.ParseSignature(bad); err == nil {
			t.Errorf("parsing signature %q should fail", bad)
		}
	}
	sig, err := notation.ParseSignature("255/8")
	if err != nil {
		t.Fatalf("parsing 255/8 failed: %v", err)
	}
	if ticks, err := sig.BarTicks(); err != nil || ticks != 255*24 {
		t.Errorf("bar ticks of %v got: %v, %v expected: %v", sig, ticks, err, 255*24)
	}
	sig.BeatsPerBar = 300
	if _, err := sig.BarUnits(); err == nil {
		t.Errorf("a signature of 300 beats should not describe a bar")
	}
}
