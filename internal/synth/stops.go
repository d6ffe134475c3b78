package synth

import (
	"hw2go/internal/common"
	"hw2go/internal/source"
)

// span is the part of a rank one stop plays, in target numbering.
type span struct {
	firstPipe int
	count     int
	firstKey  int
	lastKey   int
}

// mapRank intersects the mapped division nodes of a stop rank with the
// rank and the manual. Keys are MIDI notes; key k plays rank note k+inc.
func mapRank(m *manual, first, last int, sr *source.Record) (span, bool) {
	inc := sr.Int(source.StopRankIncrement)

	mapped, ok := sr.IntOK(source.StopRankFirstNode)
	if !ok {
		mapped = m.first
	}

	count, ok := sr.IntOK(source.StopRankNodeCount)
	if !ok || count <= 0 {
		count = m.keys
	}

	lo := max(mapped, first-inc, m.first)
	hi := min(mapped+count-1, last-inc, m.first+m.keys-1)

	if hi < lo {
		return span{}, false
	}

	return span{
		firstPipe: lo + inc - first + 1,
		count:     hi - lo + 1,
		firstKey:  lo - m.first + 1,
		lastKey:   hi - m.first + 1,
	}, true
}

type stopRank struct {
	sr    *source.Record
	rank  *source.Record
	layer int
	span  span
}

// buildStops converts stops playing at least one normal rank with pipes.
func (s *Synthesizer) buildStops() {
	for _, stop := range s.src.ByType(source.TypeStop) {
		var normal []*source.Record

		for _, sr := range stop.ChildrenOf(source.TypeStopRank) {
			if sr.Int(source.StopRankAction) == source.ActionNormal {
				normal = append(normal, sr)
			}
		}

		if len(normal) == 0 {
			continue
		}

		s.notify(stop.String())

		m, ok := s.stopManual(stop)
		if !ok {
			s.log.Warnf("stop-manual", stop.String(), "no manual to place the stop on")

			continue
		}

		var ranks []stopRank

		for _, sr := range normal {
			src, ok := s.src.Resolve(sr, source.StopRankRank)
			if !ok {
				continue
			}

			k := s.keyedPipes(src)
			if len(k.pipes) == 0 {
				s.log.Warnf("empty-rank", src.String(), "rank has no key played pipes")

				continue
			}

			sp, ok := mapRank(m, k.first, k.last, sr)
			if !ok {
				s.log.Warnf("rank-range", sr.String(), "rank notes %d-%d fall outside the mapped keys", k.first, k.last)

				continue
			}

			ranks = append(ranks, stopRank{sr: sr, rank: src, layer: sr.Int(source.StopRankPipeLayer), span: sp})
		}

		if len(ranks) == 0 {
			continue
		}

		g := s.gate(stop)
		if g.discard {
			continue
		}

		rec := s.dst.New("Stop")

		name := stop.Str(source.StopName)
		if name == "" && g.sw != nil {
			name, _ = g.sw.Get("Name")
		}

		if name == "" {
			name = rec.Name()
		}

		rec.Set("Name", name)
		rec.Set("FirstAccessiblePipeLogicalKeyNumber", 1)
		rec.Set("NumberOfAccessiblePipes", 0)
		rec.Set("NumberOfRanks", 0)

		lastKey := 0

		for _, c := range ranks {
			r, ok := s.rankFor(c.rank, c.layer)
			if !ok {
				continue
			}

			n := rec.Append("NumberOfRanks", "Rank", ref3(r.rec))
			prefix := "Rank" + common.Pad3(n)

			rec.Set(prefix+"FirstPipeNumber", c.span.firstPipe)
			rec.Set(prefix+"PipeCount", c.span.count)
			rec.Set(prefix+"FirstAccessibleKeyNumber", c.span.firstKey)

			lastKey = max(lastKey, c.span.lastKey)
			c.sr.SetTarget(rec.Name())
		}

		rec.Set("NumberOfAccessiblePipes", lastKey)
		rec.Set("Displayed", false)
		g.apply(rec)

		m.rec.Append("NumberOfStops", "Stop", ref3(rec))
		stop.SetTarget(rec.Name())
	}
}

// stopManual returns the manual of the stop's division. Stops without
// division land on the last manual created.
func (s *Synthesizer) stopManual(stop *source.Record) (*manual, bool) {
	if div, ok := s.src.Resolve(stop, source.StopDivision); ok {
		return s.manualOf(div)
	}

	if s.lastManual == nil {
		return nil, false
	}

	s.log.Infof("stop-division", stop.String(), "stop has no division, placed on %s", s.lastManual.rec.Name())

	return s.lastManual, true
}
