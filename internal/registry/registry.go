package registry

import (
	"slices"
	"strings"

	"hw2go/internal/common"
	"hw2go/internal/source"
	"hw2go/internal/target"
)

// SourceAttr holds the rendered source identity on windchest and enclosure
// records until they are finalized.
const SourceAttr = target.BookkeepingPrefix + "source"

// Triple identifies a wind supply configuration. A zero Key marks an
// absent slot.
type Triple struct {
	Wind      source.Key
	Level     source.Key
	Enclosure source.Key
}

// String renders the triple as stored on windchest records.
func (t Triple) String() string {
	return strings.Join([]string{t.Wind.String(), t.Level.String(), t.Enclosure.String()}, "|")
}

// ResolveControlNode walks upward from a continuous control through
// ContinuousControlLinkage records (destination to source) and returns the
// first control exposing an image set instance. Cycles are cut by a
// visited set.
func ResolveControlNode(control *source.Record) (*source.Record, bool) {
	if control == nil {
		return nil, false
	}

	visited := map[source.Key]bool{control.Key(): true}
	queue := []*source.Record{control}

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		if c.Has(source.ControlImage) {
			return c, true
		}

		for _, link := range c.ParentsOf(source.TypeControlLinkage) {
			if id, ok := link.RefID(source.ControlLinkDest.Name); !ok || id != c.ID() {
				continue
			}

			for _, up := range link.ParentsOf(source.TypeContinuousControl) {
				if id, ok := link.RefID(source.ControlLinkSource.Name); ok && id == up.ID() && !visited[up.Key()] {
					visited[up.Key()] = true
					queue = append(queue, up)
				}
			}
		}
	}

	return nil, false
}

// Registry creates windchest groups and enclosures on first use.
type Registry struct {
	src *source.Store
	dst *target.Store

	// OnEnclosure is called once for every created enclosure with the
	// control node it represents.
	OnEnclosure func(control *source.Record, enclosure *target.Record)
}

// New returns a registry reading src and writing dst.
func New(src *source.Store, dst *target.Store) *Registry {
	return &Registry{src: src, dst: dst}
}

// TripleFor derives the configuration of one pipe layer.
func (r *Registry) TripleFor(pipe, layer *source.Record) Triple {
	var t Triple

	if wind, ok := r.src.Resolve(pipe, source.PipeWind); ok {
		t.Wind = wind.Key()
	} else if layer != nil {
		if winds := layer.ParentsOf(source.TypeWindCompartment); len(winds) > 0 {
			t.Wind = winds[0].Key()
		}
	}

	if layer != nil {
		if level, ok := r.src.Resolve(layer, source.LayerLevel); ok {
			if node, ok := ResolveControlNode(level); ok {
				t.Level = node.Key()
			}
		}
	}

	for _, ep := range pipe.ParentsOf(source.TypeEnclosurePipe) {
		enc, ok := r.src.Resolve(ep, source.EnclosurePipeEnclosure)
		if !ok {
			continue
		}

		shutter, ok := r.src.Resolve(enc, source.EnclosureShutter)
		if !ok {
			continue
		}

		if node, ok := ResolveControlNode(shutter); ok {
			t.Enclosure = node.Key()

			break
		}
	}

	return t
}

// Windchest returns the windchest group of a triple, creating it and its
// enclosures when the triple is new.
func (r *Registry) Windchest(t Triple) *target.Record {
	id := t.String()

	for _, wc := range r.dst.Prefixed("WindchestGroup") {
		if v, _ := wc.Get(SourceAttr); v == id {
			return wc
		}
	}

	wc := r.dst.New("WindchestGroup")
	wc.Set("Name", r.windchestName(t))
	wc.Set(SourceAttr, id)
	wc.Set("NumberOfEnclosures", 0)
	wc.Set("NumberOfTremulants", 0)

	var seen []source.Key

	for _, k := range []source.Key{t.Level, t.Enclosure} {
		if k.IsZero() || slices.Contains(seen, k) {
			continue
		}

		seen = append(seen, k)

		if control, ok := r.src.Get(k); ok {
			enc := r.Enclosure(control)
			wc.Append("NumberOfEnclosures", "Enclosure", common.Pad3(target.Number(enc.Name())))
		}
	}

	return wc
}

// Enclosure returns the enclosure of a control node, creating it on first
// use.
func (r *Registry) Enclosure(control *source.Record) *target.Record {
	id := control.Key().String()

	for _, enc := range r.dst.Prefixed("Enclosure") {
		if v, _ := enc.Get(SourceAttr); v == id {
			return enc
		}
	}

	enc := r.dst.New("Enclosure")
	name := control.Str(source.ControlName)

	if name == "" {
		name = enc.Name()
	}

	enc.Set("Name", name)
	enc.Set(SourceAttr, id)
	enc.Set("AmpMinimumLevel", 1)
	enc.Set("MIDIInputNumber", 0)
	enc.Set("Displayed", false)

	if r.OnEnclosure != nil {
		r.OnEnclosure(control, enc)
	}

	return enc
}

func (r *Registry) windchestName(t Triple) string {
	var parts []string

	for _, k := range []source.Key{t.Wind, t.Level, t.Enclosure} {
		rec, ok := r.src.Get(k)
		if !ok {
			continue
		}

		name := rec.Str(source.WindName)
		if rec.Type() == source.TypeContinuousControl {
			name = rec.Str(source.ControlName)
		}

		if name != "" && !slices.Contains(parts, name) {
			parts = append(parts, name)
		}
	}

	if len(parts) == 0 {
		return "Windchest"
	}

	return strings.Join(parts, " / ")
}
