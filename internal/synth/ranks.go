package synth

import (
	"cmp"
	"fmt"
	"slices"

	"hw2go/internal/common"
	"hw2go/internal/registry"
	"hw2go/internal/source"
	"hw2go/internal/target"
)

// pipeDummy fills the pipe slots a rank has no sample for.
const pipeDummy = "DUMMY"

type rankKey struct {
	rank  source.Key
	layer int
}

type rank struct {
	rec   *target.Record
	first int
	last  int
}

// keyed is the set of pipes of one source rank that keys play, by note.
type keyed struct {
	pipes       map[int]*source.Record
	first, last int
}

// isSwitchDriven reports whether a pipe sounds from a switch that is not a
// keyboard key. Such pipes are noises, not rank members.
func (s *Synthesizer) isSwitchDriven(pipe *source.Record) bool {
	sw, ok := s.src.Resolve(pipe, source.PipePallet)

	return ok && len(sw.ParentsOf(source.TypeKeyboardKey)) == 0
}

// keyedPipes collects the key played pipes of a source rank. Two pipes on
// the same note keep the lower id.
func (s *Synthesizer) keyedPipes(src *source.Record) keyed {
	if k, ok := s.keyedCache[src.Key()]; ok {
		return k
	}

	k := keyed{pipes: make(map[int]*source.Record), first: -1, last: -1}

	for _, p := range src.ChildrenOf(source.TypePipe) {
		if s.isSwitchDriven(p) {
			continue
		}

		note, ok := p.IntOK(source.PipeNote)
		if !ok {
			continue
		}

		if _, dup := k.pipes[note]; dup {
			s.log.Warnf("duplicate-pipe", p.String(), "note %d already has a pipe in rank %d", note, src.ID())

			continue
		}

		k.pipes[note] = p

		if k.first < 0 || note < k.first {
			k.first = note
		}

		k.last = max(k.last, note)
	}

	s.keyedCache[src.Key()] = k

	return k
}

// nthLayer returns the layer with the given 1-based position in id order.
func nthLayer(pipe *source.Record, n int) *source.Record {
	layers := slices.Clone(pipe.ChildrenOf(source.TypeLayer))
	slices.SortFunc(layers, func(a, b *source.Record) int { return cmp.Compare(a.ID(), b.ID()) })

	n = max(n, 1)
	if n > len(layers) {
		return nil
	}

	return layers[n-1]
}

// samplePath resolves the sample a pipe sample record points to.
func (s *Synthesizer) samplePath(link *source.Record, f source.Field) string {
	sample, ok := s.src.Resolve(link, f)
	if !ok {
		return ""
	}

	return s.file(s.packageOf(sample, source.SamplePackage), sample.Str(source.SampleFile), sample)
}

func (s *Synthesizer) attacks(layer *source.Record) []string {
	var out []string

	for _, a := range layer.ChildrenOf(source.TypeAttackSample) {
		if p := s.samplePath(a, source.AttackSample); p != "" {
			out = append(out, p)
		}
	}

	return out
}

// rankFor returns the target rank of a source rank layer, building it on
// first use. Stops sharing a rank layer share the target rank.
func (s *Synthesizer) rankFor(src *source.Record, layer int) (*rank, bool) {
	k := rankKey{rank: src.Key(), layer: max(layer, 1)}

	if r, ok := s.ranks[k]; ok {
		return r, r != nil
	}

	r := s.buildRank(src, k.layer)
	s.ranks[k] = r

	return r, r != nil
}

func (s *Synthesizer) buildRank(src *source.Record, layerNo int) *rank {
	k := s.keyedPipes(src)
	if len(k.pipes) == 0 {
		return nil
	}

	rec := s.dst.New("Rank")

	name := describe(src, source.RankName)
	if layerNo > 1 {
		name = fmt.Sprintf("%s (layer %d)", name, layerNo)
	}

	rec.Set("Name", name)
	rec.Set("FirstMidiNoteNumber", k.first)
	rec.Set("NumberOfPipes", k.last-k.first+1)
	rec.Set("WindchestGroup", "")
	rec.Set("Percussive", false)

	var (
		chests = make(map[int]*target.Record)
		votes  = make(map[*target.Record]int)
		order  []*target.Record
	)

	for note := k.first; note <= k.last; note++ {
		prefix := "Pipe" + common.Pad3(note-k.first+1)

		pipe, ok := k.pipes[note]
		if !ok {
			rec.Set(prefix, pipeDummy)

			continue
		}

		layer := nthLayer(pipe, layerNo)
		if layer == nil {
			s.log.Warnf("missing-layer", pipe.String(), "pipe has no layer %d", layerNo)
			rec.Set(prefix, pipeDummy)

			continue
		}

		attacks := s.attacks(layer)
		if len(attacks) == 0 {
			s.log.Warnf("missing-sample", layer.String(), "layer has no attack sample")
			rec.Set(prefix, pipeDummy)

			continue
		}

		rec.Set(prefix, attacks[0])

		if len(attacks) > 1 {
			rec.Set(prefix+"AttackCount", len(attacks)-1)

			for i, a := range attacks[1:] {
				rec.Set(prefix+"Attack"+common.Pad3(i+1), a)
			}
		}

		for _, rel := range layer.ChildrenOf(source.TypeReleaseSample) {
			path := s.samplePath(rel, source.ReleaseSample)
			if path == "" {
				continue
			}

			n := rec.Append(prefix+"ReleaseCount", prefix+"Release", path)

			if ms, ok := rel.IntOK(source.ReleaseMaxTime); ok {
				rec.Set(prefix+"Release"+common.Pad3(n)+"MaxKeyPressTime", ms)
			}
		}

		wc := s.windchestOf(pipe, layer)
		chests[note] = wc

		if votes[wc] == 0 {
			order = append(order, wc)
		}

		votes[wc]++

		pipe.SetTarget(rec.Name())
	}

	// the most used windchest wins; ties go to the first seen
	var primary *target.Record

	for _, wc := range order {
		if primary == nil || votes[wc] > votes[primary] {
			primary = wc
		}
	}

	if primary == nil {
		primary = s.reg.Windchest(registry.Triple{})
	}

	rec.Set("WindchestGroup", ref3(primary))

	for note := k.first; note <= k.last; note++ {
		if wc, ok := chests[note]; ok && wc != primary {
			rec.Set("Pipe"+common.Pad3(note-k.first+1)+"WindchestGroup", ref3(wc))
		}
	}

	src.SetTarget(rec.Name())

	return &rank{rec: rec, first: k.first, last: k.last}
}

// windchestOf returns the windchest of a pipe layer and remembers the
// first one seen per pipe for tremulant wiring.
func (s *Synthesizer) windchestOf(pipe, layer *source.Record) *target.Record {
	wc := s.reg.Windchest(s.reg.TripleFor(pipe, layer))

	if _, ok := s.windchests[pipe.Key()]; !ok {
		s.windchests[pipe.Key()] = wc
	}

	return wc
}
