package synth

import (
	"hw2go/internal/control"
	"hw2go/internal/source"
)

// buildSwitches converts the clickable switches no device used, page by
// page. Each lands on the last manual drawn on its page.
func (s *Synthesizer) buildSwitches() {
	listed := make(map[string]bool)

	for _, page := range s.pages {
		panel := s.panelFor(page)

		for _, sw := range page.ChildrenOf(source.TypeSwitch) {
			if sw.Target() != "" || !sw.Bool(source.SwitchClickable) || len(sw.ParentsOf(source.TypeKeyboardKey)) > 0 {
				continue
			}

			s.notify(sw.String())

			net, _ := s.resolver.Resolve(sw, control.TowardControlling)
			rec := s.switchFor(net)

			if listed[rec.Name()] {
				continue
			}

			m := s.pageManual[panel.Name()]
			if m == nil {
				m = s.lastManual
			}

			if m == nil {
				s.log.Warnf("switch-manual", sw.String(), "no manual to list the switch on")

				continue
			}

			m.rec.Append("NumberOfSwitches", "Switch", ref3(rec))
			listed[rec.Name()] = true
		}
	}
}
