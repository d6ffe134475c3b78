package synth

import (
	"fmt"

	"hw2go/internal/registry"
	"hw2go/internal/source"
	"hw2go/internal/target"
)

// noisePipe is the single pipe of a noise rank.
type noisePipe struct {
	attack   string
	releases []string
	pipe     *source.Record
	layer    *source.Record
}

// buildNoises converts noise stop ranks and switch driven pipes into stops
// on the hidden noise manual.
func (s *Synthesizer) buildNoises() {
	for _, stop := range s.src.ByType(source.TypeStop) {
		s.stopNoises(stop)
	}

	for _, sw := range s.src.ByType(source.TypeSwitch) {
		if len(sw.ParentsOf(source.TypeKeyboardKey)) > 0 {
			continue
		}

		s.switchNoises(sw)
	}
}

func (s *Synthesizer) stopNoises(stop *source.Record) {
	var attack, release, ambient []*source.Record

	for _, sr := range stop.ChildrenOf(source.TypeStopRank) {
		switch sr.Int(source.StopRankAction) {
		case source.ActionAttackOnly:
			attack = append(attack, sr)
		case source.ActionReleaseOnly:
			release = append(release, sr)
		case source.ActionAmbient:
			ambient = append(ambient, sr)
		}
	}

	if len(attack)+len(release)+len(ambient) == 0 {
		return
	}

	s.notify(stop.String())

	g := s.gate(stop)
	if g.discard {
		return
	}

	name := describe(stop, source.StopName)

	if len(attack)+len(release) > 0 {
		on := s.noiseSample(attack)
		off := s.noiseSample(release)

		if on.attack == "" && off.attack == "" {
			s.log.Warnf("missing-sample", stop.String(), "noise ranks have no samples")
		} else {
			np := on
			if np.pipe == nil {
				np = off
			}

			np.attack = s.orSilent(on.attack)
			np.releases = []string{s.orSilent(off.attack)}

			st := s.noiseStop(name+" (noise)", g, np)

			for _, sr := range append(attack, release...) {
				sr.SetTarget(st.Name())
			}

			for _, p := range []*source.Record{on.pipe, off.pipe} {
				if p != nil {
					p.SetTarget(st.Name())
				}
			}
		}
	}

	for _, sr := range ambient {
		np := s.noiseSample([]*source.Record{sr})
		if np.attack == "" {
			s.log.Warnf("missing-sample", sr.String(), "ambient rank has no loop sample")

			continue
		}

		st := s.noiseStop(name+" (ambient)", g, np)
		sr.SetTarget(st.Name())
		np.pipe.SetTarget(st.Name())
	}
}

// noiseSample picks the lowest pipe of the first stop rank that has one
// and returns its first attack and its releases.
func (s *Synthesizer) noiseSample(srs []*source.Record) noisePipe {
	for _, sr := range srs {
		src, ok := s.src.Resolve(sr, source.StopRankRank)
		if !ok {
			continue
		}

		var lowest *source.Record

		for _, p := range src.ChildrenOf(source.TypePipe) {
			if lowest == nil || p.Int(source.PipeNote) < lowest.Int(source.PipeNote) {
				lowest = p
			}
		}

		if lowest == nil {
			continue
		}

		if np, ok := s.pipeSamples(lowest, sr.Int(source.StopRankPipeLayer)); ok {
			return np
		}
	}

	return noisePipe{}
}

func (s *Synthesizer) pipeSamples(pipe *source.Record, layerNo int) (noisePipe, bool) {
	layer := nthLayer(pipe, layerNo)
	if layer == nil {
		return noisePipe{}, false
	}

	np := noisePipe{pipe: pipe, layer: layer}

	if attacks := s.attacks(layer); len(attacks) > 0 {
		np.attack = attacks[0]
	}

	for _, rel := range layer.ChildrenOf(source.TypeReleaseSample) {
		if p := s.samplePath(rel, source.ReleaseSample); p != "" {
			np.releases = append(np.releases, p)
		}
	}

	return np, np.attack != "" || len(np.releases) > 0
}

// switchNoises converts the pipes a non-key switch sounds, one stop per
// pipe.
func (s *Synthesizer) switchNoises(sw *source.Record) {
	var pipes []*source.Record

	for _, p := range sw.ChildrenOf(source.TypePipe) {
		if id, ok := p.RefID(source.PipePallet.Name); ok && id == sw.ID() && p.Target() == "" {
			pipes = append(pipes, p)
		}
	}

	if len(pipes) == 0 {
		return
	}

	s.notify(sw.String())

	for i, p := range pipes {
		np, ok := s.pipeSamples(p, 1)
		if !ok {
			s.log.Warnf("missing-sample", p.String(), "switch driven pipe has no samples")

			continue
		}

		if np.attack == "" {
			np.attack = s.orSilent("")
		}

		g := s.gate(p)
		if g.discard {
			continue
		}

		name := describe(sw, source.SwitchName)
		if len(pipes) > 1 {
			name = fmt.Sprintf("%s %d", name, i+1)
		}

		st := s.noiseStop(name, g, np)
		p.SetTarget(st.Name())
	}
}

func (s *Synthesizer) orSilent(path string) string {
	if path != "" {
		return path
	}

	s.stats.SilentLoop = true

	return s.cfg.SilentLoop
}

// noiseStop creates a one pipe rank and the stop playing it on the noise
// manual.
func (s *Synthesizer) noiseStop(name string, g gating, np noisePipe) *target.Record {
	m := s.noiseManual()

	var wc *target.Record
	if np.pipe != nil {
		wc = s.windchestOf(np.pipe, np.layer)
	} else {
		wc = s.reg.Windchest(registry.Triple{})
	}

	r := s.dst.New("Rank")
	r.Set("Name", name)
	r.Set("FirstMidiNoteNumber", defaultFirstNote)
	r.Set("NumberOfPipes", 1)
	r.Set("WindchestGroup", ref3(wc))
	r.Set("Percussive", false)
	r.Set("Pipe001", np.attack)

	for _, rel := range np.releases {
		r.Append("Pipe001ReleaseCount", "Pipe001Release", rel)
	}

	st := s.dst.New("Stop")
	st.Set("Name", name)
	st.Set("FirstAccessiblePipeLogicalKeyNumber", 1)
	st.Set("NumberOfAccessiblePipes", 1)
	st.Set("NumberOfRanks", 0)
	st.Append("NumberOfRanks", "Rank", ref3(r))
	st.Set("Rank001FirstPipeNumber", 1)
	st.Set("Rank001PipeCount", 1)
	st.Set("Rank001FirstAccessibleKeyNumber", 1)
	st.Set("Displayed", false)
	g.apply(st)

	m.rec.Append("NumberOfStops", "Stop", ref3(st))

	return st
}
