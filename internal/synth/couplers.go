package synth

import (
	"fmt"

	"hw2go/internal/source"
)

// couplerFlags are the fixed coupling options of converted couplers.
var couplerFlags = []string{
	"CoupleToSubsequentUnisonIntermanualCouplers",
	"CoupleToSubsequentUpwardIntermanualCouplers",
	"CoupleToSubsequentDownwardIntermanualCouplers",
	"CoupleToSubsequentUpwardIntramanualCouplers",
	"CoupleToSubsequentDownwardIntramanualCouplers",
}

// buildCouplers converts key actions between two keyboards. A key action
// without condition switch couples permanently.
func (s *Synthesizer) buildCouplers() {
	for _, ka := range s.src.ByType(source.TypeKeyAction) {
		if !ka.Has(source.ActionDestKeyboard) {
			continue
		}

		s.notify(ka.String())

		srcKb, okSrc := s.src.Resolve(ka, source.ActionSource)
		dstKb, okDst := s.src.Resolve(ka, source.ActionDestKeyboard)

		if !okSrc || !okDst {
			s.log.Warnf("coupler-keyboard", ka.String(), "source or destination keyboard does not exist")

			continue
		}

		from, okFrom := s.manualOf(srcKb)
		to, okTo := s.manualOf(dstKb)

		if !okFrom || !okTo {
			s.log.Warnf("coupler-keyboard", ka.String(), "keyboard has no manual")

			continue
		}

		g := s.gate(ka)
		if g.discard {
			continue
		}

		rec := s.dst.New("Coupler")

		name := ka.Str(source.ActionName)
		if name == "" && g.sw != nil {
			name, _ = g.sw.Get("Name")
		}

		if name == "" {
			name = fmt.Sprintf("%s to %s", describe(srcKb, source.KeyboardName), describe(dstKb, source.KeyboardName))
		}

		rec.Set("Name", name)
		rec.Set("UnisonOff", false)
		rec.Set("DestinationManual", ref3(to.rec))
		rec.Set("DestinationKeyshift", ka.Int(source.ActionIncrement))

		for _, f := range couplerFlags {
			rec.Set(f, false)
		}

		rec.Set("CouplerType", "Normal")

		if first, ok := ka.IntOK(source.ActionFirstNote); ok {
			rec.Set("FirstMIDINoteNumber", first)
		}

		if keys, ok := ka.IntOK(source.ActionKeyCount); ok {
			rec.Set("NumberOfKeys", keys)
		}

		rec.Set("Displayed", false)
		g.apply(rec)

		from.rec.Append("NumberOfCouplers", "Coupler", ref3(rec))
		ka.SetTarget(rec.Name())
	}
}
