package synth

import (
	"hw2go/internal/source"
	"hw2go/internal/target"
)

// buildTremulants converts tremulants into synthesized GrandOrgue
// tremulants and attaches them to the windchests of the pipes they modulate.
func (s *Synthesizer) buildTremulants() {
	for _, tr := range s.src.ByType(source.TypeTremulant) {
		s.notify(tr.String())

		g := s.gate(tr)
		if g.discard {
			continue
		}

		rec := s.dst.New("Tremulant")
		rec.Set("Name", describe(tr, source.TremulantName))
		rec.Set("TremulantType", "Synth")
		rec.Set("Period", tr.Int(source.TremulantPeriod))
		rec.Set("StartRate", tr.Int(source.TremulantStart))
		rec.Set("StopRate", tr.Int(source.TremulantStop))
		rec.Set("AmpModDepth", tr.Int(source.TremulantDepth))
		rec.Set("Displayed", false)
		g.apply(rec)

		seen := make(map[*target.Record]bool)

		for _, wf := range tr.ChildrenOf(source.TypeTremulantWaveform) {
			for _, tp := range wf.ChildrenOf(source.TypeTremulantPipe) {
				for _, p := range tp.ChildrenOf(source.TypePipe) {
					wc, ok := s.windchests[p.Key()]
					if !ok || seen[wc] {
						continue
					}

					seen[wc] = true
					wc.Append("NumberOfTremulants", "Tremulant", ref3(rec))
				}
			}
		}

		if len(seen) == 0 {
			s.log.Infof("tremulant-unattached", tr.String(), "tremulant modulates no converted pipe")
		}

		tr.SetTarget(rec.Name())
	}
}
