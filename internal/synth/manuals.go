package synth

import (
	"cmp"
	"slices"

	"hw2go/internal/common"
	"hw2go/internal/match"
	"hw2go/internal/source"
	"hw2go/internal/target"
)

// Key range used when neither the keyboard nor its keys declare one.
const (
	defaultFirstNote = 36
	defaultKeyCount  = 61
)

// pedalAsgnCode is the keyboard assignment code of the pedalboard.
const pedalAsgnCode = 1

type manual struct {
	rec   *target.Record
	first int
	keys  int
}

// shapeNotes maps key shapes to the note suffixes of per-octave key images.
var shapeNotes = map[string][]string{
	"C":     {"C", "F"},
	"D":     {"D"},
	"E":     {"E", "B"},
	"G":     {"G"},
	"A":     {"A"},
	"Sharp": {"Cis", "Dis", "Fis", "Gis", "Ais"},
}

func (s *Synthesizer) buildManuals() {
	pedal := false

	for _, kb := range s.src.ByType(source.TypeKeyboard) {
		s.notify(kb.String())

		var rec *target.Record

		if !pedal && isPedal(kb) {
			rec = s.dst.Reserve(target.NamePedal)
			pedal = true
		} else {
			rec = s.dst.New("Manual")
		}

		first, keys := keyRange(kb)
		m := s.newManual(rec, describe(kb, source.KeyboardName), first, keys)

		s.manuals[kb.Key()] = m
		kb.SetTarget(rec.Name())

		for _, div := range kb.ChildrenOf(source.TypeDivision) {
			if _, ok := s.manuals[div.Key()]; !ok {
				s.manuals[div.Key()] = m
				div.SetTarget(rec.Name())
			}
		}

		s.keyboardElement(kb, m)
	}

	for _, div := range s.src.ByType(source.TypeDivision) {
		if _, ok := s.manuals[div.Key()]; ok {
			continue
		}

		// a keyboard sharing the division id and playing no division
		if kb, ok := s.src.Lookup(source.TypeKeyboard, div.ID()); ok && len(kb.ChildrenOf(source.TypeDivision)) == 0 {
			s.manuals[div.Key()] = s.manuals[kb.Key()]
			div.SetTarget(kb.Target())

			continue
		}

		rec := s.dst.New("Manual")
		s.manuals[div.Key()] = s.newManual(rec, describe(div, source.DivisionName), defaultFirstNote, defaultKeyCount)
		div.SetTarget(rec.Name())
		s.log.Infof("division-manual", div.String(), "no keyboard plays this division, created %s", rec.Name())
	}
}

func isPedal(kb *source.Record) bool {
	return kb.Int(source.KeyboardAsgnCode) == pedalAsgnCode || match.HasToken(kb.Str(source.KeyboardName), "ped")
}

// keyRange returns the MIDI note of the first key and the key count of a
// keyboard, from its key generation attributes, then from its keys.
func keyRange(kb *source.Record) (int, int) {
	first, okFirst := kb.IntOK(source.KeyboardFirstNote)
	keys, okKeys := kb.IntOK(source.KeyboardKeyCount)

	if okFirst && okKeys && keys > 0 {
		return first, keys
	}

	lo, hi := -1, -1

	for _, key := range kb.ChildrenOf(source.TypeKeyboardKey) {
		note, ok := key.IntOK(source.KeyNote)
		if !ok {
			continue
		}

		if lo < 0 || note < lo {
			lo = note
		}

		hi = max(hi, note)
	}

	if !okFirst {
		first = defaultFirstNote
		if lo >= 0 {
			first = lo
		}
	}

	if !okKeys || keys <= 0 {
		keys = defaultKeyCount
		if lo >= 0 {
			keys = hi - first + 1
		}
	}

	return first, max(keys, 1)
}

func (s *Synthesizer) newManual(rec *target.Record, name string, first, keys int) *manual {
	rec.Set("Name", name)
	rec.Set("NumberOfLogicalKeys", keys)
	rec.Set("FirstAccessibleKeyLogicalKeyNumber", 1)
	rec.Set("FirstAccessibleKeyMIDINoteNumber", first)
	rec.Set("NumberOfAccessibleKeys", keys)
	s.manualSeq++
	rec.Set("MIDIInputNumber", s.manualSeq)
	rec.Set("Displayed", false)
	rec.Set("NumberOfStops", 0)
	rec.Set("NumberOfCouplers", 0)
	rec.Set("NumberOfDivisionals", 0)
	rec.Set("NumberOfTremulants", 0)
	rec.Set("NumberOfSwitches", 0)

	m := &manual{rec: rec, first: first, keys: keys}
	s.lastManual = m

	return m
}

// noiseManual returns the hidden manual holding noise stops, creating it
// on first use.
func (s *Synthesizer) noiseManual() *manual {
	if s.noise == nil {
		last := s.lastManual
		rec := s.dst.New("Manual")
		s.noise = s.newManual(rec, s.cfg.NoiseManualName, defaultFirstNote, 1)
		rec.Set("NumberOfAccessibleKeys", 0)
		s.lastManual = last
	}

	return s.noise
}

type keyImage struct {
	note int
	sw   *source.Record
	isi  *source.Record
	set  *source.Record
	b    box
}

// keyboardElement draws a keyboard. Keys with their own switch image are
// drawn one by one; otherwise a key image set draws every octave alike.
func (s *Synthesizer) keyboardElement(kb *source.Record, m *manual) {
	var keys []keyImage

	for _, key := range kb.ChildrenOf(source.TypeKeyboardKey) {
		sw, ok := s.src.Resolve(key, source.KeySwitch)
		if !ok {
			continue
		}

		sw.SetTarget(m.rec.Name())

		note, ok := key.IntOK(source.KeyNote)
		if !ok {
			continue
		}

		isi, ok := s.src.Resolve(sw, source.SwitchImage)
		if !ok {
			continue
		}

		set, b, ok := s.instance(isi)
		if !ok {
			continue
		}

		keys = append(keys, keyImage{note: note, sw: sw, isi: isi, set: set, b: b})
	}

	if len(keys) > 0 {
		s.keysElement(m, keys)

		return
	}

	if kis, ok := s.src.Resolve(kb, source.KeyboardKeyImageSet); ok {
		s.octaveElement(kb, m, kis)
	}
}

func (s *Synthesizer) keysElement(m *manual, keys []keyImage) {
	slices.SortStableFunc(keys, func(a, b keyImage) int { return cmp.Compare(a.note, b.note) })

	top := keys[0].b.y
	for _, k := range keys {
		top = min(top, k.b.y)
	}

	panel := s.panelFor(pageOf(keys[0].isi))

	el := s.dst.New(elementName(panel))
	el.Set("Type", "Manual")
	el.Set("Manual", ref3(m.rec))
	el.Set("PositionX", keys[0].b.x)
	el.Set("PositionY", top)
	el.Set("DisplayFirstNote", keys[0].note)
	el.Set("DisplayKeys", len(keys))

	for i, k := range keys {
		prefix := "Key" + common.Pad3(i+1)

		width := k.b.w
		if i+1 < len(keys) {
			width = max(0, keys[i+1].b.x-k.b.x)
		}

		el.Set(prefix+"ImageOn", s.bitmap(k.set, k.sw.Int(source.SwitchIndexEngaged)))
		el.Set(prefix+"ImageOff", s.bitmap(k.set, k.sw.Int(source.SwitchIndexDisengaged)))
		el.Set(prefix+"Width", width)
		el.Set(prefix+"Offset", 0)
		el.Set(prefix+"YOffset", k.b.y-top)

		k.isi.SetTarget(el.Name())
	}

	s.pageManual[panel.Name()] = m
}

func (s *Synthesizer) octaveElement(kb *source.Record, m *manual, kis *source.Record) {
	page, _ := s.src.Resolve(kb, source.KeyboardPage)
	panel := s.panelFor(page)

	el := s.dst.New(elementName(panel))
	el.Set("Type", "Manual")
	el.Set("Manual", ref3(m.rec))
	el.Set("PositionX", kb.Int(source.KeyboardLeft))
	el.Set("PositionY", kb.Int(source.KeyboardTop))
	el.Set("DisplayFirstNote", m.first)
	el.Set("DisplayKeys", m.keys)

	natural := kis.Int(source.KeyImageSetNatural)
	sharp := kis.Int(source.KeyImageSetSharp)
	on := kis.Int(source.KeyImageSetEngaged)
	off := kis.Int(source.KeyImageSetDisengaged)

	for _, shape := range source.KeyShapes {
		notes, known := shapeNotes[shape.Shape]
		if !known {
			continue
		}

		set, ok := s.src.Resolve(kis, shape.Field)
		if !ok {
			continue
		}

		for _, note := range notes {
			el.Set("ImageOn_"+note, s.bitmap(set, on))
			el.Set("ImageOff_"+note, s.bitmap(set, off))

			switch {
			case shape.Shape == "Sharp":
				el.Set("Width_"+note, 0)
				el.Set("Offset_"+note, sharp-natural)
			case natural > 0:
				el.Set("Width_"+note, natural)
			}
		}
	}

	kis.SetTarget(el.Name())
	s.pageManual[panel.Name()] = m
}
