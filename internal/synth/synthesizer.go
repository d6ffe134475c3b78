package synth

import (
	"errors"
	"fmt"

	"hw2go/internal/common"
	"hw2go/internal/control"
	"hw2go/internal/diagnostic"
	"hw2go/internal/media"
	"hw2go/internal/registry"
	"hw2go/internal/source"
	"hw2go/internal/target"
)

// ErrNoGeneralRecord is returned when the source store has no general
// record. Nothing can be synthesized without it.
var ErrNoGeneralRecord = errors.New("source document has no general record")

// Stats summarizes a synthesis run.
type Stats struct {
	Manuals    int
	Stops      int
	Ranks      int
	Couplers   int
	Switches   int
	Tremulants int
	Panels     int
	// Discarded counts devices dropped because their network is dead.
	Discarded int
	// SilentLoop is set when the silent loop sample was referenced.
	SilentLoop bool
}

// Synthesizer builds one target store from one linked source store.
type Synthesizer struct {
	src      *source.Store
	dst      *target.Store
	log      *diagnostic.Log
	files    *media.Resolver
	reg      *registry.Registry
	resolver *control.Resolver
	cfg      Config

	organ   *target.Record
	general *source.Record

	panels     map[source.Key]*target.Record
	pages      []*source.Record
	manuals    map[source.Key]*manual
	lastManual *manual
	pageManual map[string]*manual
	noise      *manual
	manualSeq  int
	ranks      map[rankKey]*rank
	keyedCache map[source.Key]keyed
	windchests map[source.Key]*target.Record
	switches   map[source.Key]*target.Record
	missing    map[string]bool
	stats      Stats
}

// New returns a synthesizer reading the linked store src and writing dst.
// A nil files resolver resolves paths without checking them.
func New(src *source.Store, dst *target.Store, log *diagnostic.Log, files *media.Resolver, cfg Config) *Synthesizer {
	cfg.applyDefaults()

	if log == nil {
		log = diagnostic.NewLog(nil)
	}

	if files == nil {
		files = media.New("", false)
	}

	s := &Synthesizer{
		src:        src,
		dst:        dst,
		log:        log,
		files:      files,
		reg:        registry.New(src, dst),
		resolver:   control.NewResolver(src),
		cfg:        cfg,
		panels:     make(map[source.Key]*target.Record),
		manuals:    make(map[source.Key]*manual),
		pageManual: make(map[string]*manual),
		ranks:      make(map[rankKey]*rank),
		keyedCache: make(map[source.Key]keyed),
		windchests: make(map[source.Key]*target.Record),
		switches:   make(map[source.Key]*target.Record),
		missing:    make(map[string]bool),
	}

	s.reg.OnEnclosure = s.enclosureElement

	return s
}

// Run executes every phase and finalizes the target store.
func (s *Synthesizer) Run() (Stats, error) {
	general, ok := s.src.General()
	if !ok {
		return Stats{}, ErrNoGeneralRecord
	}

	s.general = general

	phases := []struct {
		name string
		run  func()
	}{
		{"general", s.buildOrgan},
		{"panels", s.buildPanels},
		{"manuals", s.buildManuals},
		{"couplers", s.buildCouplers},
		{"stops", s.buildStops},
		{"noises", s.buildNoises},
		{"switches", s.buildSwitches},
		{"tremulants", s.buildTremulants},
		{"finalize", s.finalize},
	}

	for _, p := range phases {
		s.notify("phase " + p.name)
		p.run()
	}

	s.stats.Manuals = s.dst.Count("Manual")
	s.stats.Stops = s.dst.Count("Stop")
	s.stats.Ranks = s.dst.Count("Rank")
	s.stats.Couplers = s.dst.Count("Coupler")
	s.stats.Switches = s.dst.Count("Switch")
	s.stats.Tremulants = s.dst.Count("Tremulant")
	s.stats.Panels = len(s.dst.Prefixed("Panel"))

	return s.stats, nil
}

func (s *Synthesizer) notify(msg string) {
	if s.cfg.Progress != nil {
		s.cfg.Progress(msg)
	}
}

// gating is the outcome of resolving the control network of a device.
type gating struct {
	discard       bool
	unconditional bool
	inverting     bool
	sw            *target.Record
}

// gate resolves the network controlling a device. Devices without a gating
// attribute are unconditional; devices whose network is dead are discarded
// and every switch of the network is marked. A device discarded earlier
// stays discarded and is not counted again.
func (s *Synthesizer) gate(device *source.Record) gating {
	if device.Discarded() {
		return gating{discard: true}
	}

	net, ok := s.resolver.Resolve(device, control.TowardControlling)
	if !ok {
		return gating{unconditional: true}
	}

	if net.Dead() {
		for _, sw := range net.Switches {
			sw.SetTarget(source.TargetNone)
		}

		device.SetTarget(source.TargetNone)
		s.stats.Discarded++
		s.log.Infof("dead-device", device.String(), "the controlling switch does not resolve")

		return gating{discard: true}
	}

	return gating{inverting: net.Inverting, sw: s.switchFor(net)}
}

// apply writes the gating attributes of a device.
func (g gating) apply(r *target.Record) {
	if g.unconditional {
		r.Set("DefaultToEngaged", true)

		return
	}

	fn := "And"
	if g.inverting {
		fn = "Not"
	}

	r.Set("Function", fn)
	r.Set("SwitchCount", 1)
	r.Set("Switch001", common.Pad3(target.Number(g.sw.Name())))
}

// switchFor returns the target switch of a network, creating it and its
// panel element the first time the network's primary switch is seen.
func (s *Synthesizer) switchFor(net *control.Network) *target.Record {
	primary := net.Primary()
	if sw, ok := s.switches[primary.Key()]; ok {
		return sw
	}

	sw := s.dst.New("Switch")

	name := primary.Str(source.SwitchName)
	if name == "" {
		name = sw.Name()
	}

	sw.Set("Name", name)
	sw.Set("Displayed", false)
	sw.Set("DefaultToEngaged", net.DefaultEngaged)
	sw.Set("GCState", 0)
	sw.Set("StoreInDivisional", false)
	sw.Set("StoreInGeneral", false)

	for _, member := range net.Switches {
		member.SetTarget(sw.Name())

		if _, ok := s.switches[member.Key()]; !ok {
			s.switches[member.Key()] = sw
		}
	}

	s.switchElement(primary, sw)

	return sw
}

// manualOf returns the manual a division or keyboard was mapped to.
func (s *Synthesizer) manualOf(r *source.Record) (*manual, bool) {
	if r == nil {
		return nil, false
	}

	m, ok := s.manuals[r.Key()]

	return m, ok
}

// file resolves a file of an installation package and warns once per
// missing path. The declared path is kept either way.
func (s *Synthesizer) file(pkg int, name string, owner *source.Record) string {
	if name == "" {
		return ""
	}

	rel, ok := s.files.Path(pkg, name)
	if !ok && !s.missing[rel] {
		s.missing[rel] = true
		s.log.Warnf("missing-file", owner.String(), "file %s not found", rel)
	}

	return rel
}

// packageOf returns the installation package id of a record with a package
// reference, falling back to the package of the general record.
func (s *Synthesizer) packageOf(r *source.Record, f source.Field) int {
	if id, ok := r.RefID(f.Name); ok {
		return id
	}

	if id, ok := s.general.RefID(source.GeneralPackage.Name); ok {
		return id
	}

	return 0
}

func elementName(panel *target.Record) string {
	return panel.Name() + "Element"
}

func imageName(panel *target.Record) string {
	return panel.Name() + "Image"
}

func ref3(r *target.Record) string {
	return common.Pad3(target.Number(r.Name()))
}

func describe(r *source.Record, f source.Field) string {
	if name := r.Str(f); name != "" {
		return name
	}

	return fmt.Sprintf("%s %d", r.Type(), r.ID())
}
