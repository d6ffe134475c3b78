package link

import (
	"slices"

	"hw2go/internal/diagnostic"
	"hw2go/internal/source"
)

// Stats counts what a linker run did.
type Stats struct {
	Edges     int
	Derived   int
	Rooted    int
	Unchecked int
}

// Linker applies the rule tables to a store.
type Linker struct {
	Rules      []Rule
	Derived    []DerivedRule
	Roots      []string
	Exclusions []Exclusion

	// Known reports whether a record type can be loaded at all. Rules
	// naming other types are reported as internal errors.
	Known func(recordType string) bool
	// Progress is notified once per record type of the direct pass.
	Progress func(string)

	log *diagnostic.Log
}

// New returns a linker with the default tables.
func New(log *diagnostic.Log) *Linker {
	return &Linker{
		Rules:      DefaultRules(),
		Derived:    DerivedRules(),
		Roots:      RootTypes(),
		Exclusions: DefaultExclusions(),
		log:        log,
	}
}

// Run links every record of the store. Running twice over the same store
// creates no new edges.
func (l *Linker) Run(store *source.Store) Stats {
	var stats Stats

	for _, group := range l.groups() {
		l.notify(group[0].SourceType)

		for _, r := range group {
			if l.excluded(r) || !l.valid(r.SourceType, r.TargetType, r.SourceType+"."+r.Attribute) {
				continue
			}

			stats.Edges += l.apply(store, r)
		}
	}

	for _, d := range l.Derived {
		if !l.valid(d.SourceType, d.TargetType(), d.Name) {
			continue
		}

		stats.Derived += l.derive(store, d)
	}

	stats.Rooted = l.root(store)

	return stats
}

// groups splits the direct rules by source type, in order of first
// appearance. Direct rules only read attributes, so regrouping them does not
// change the resulting edges.
func (l *Linker) groups() [][]Rule {
	var (
		order []string
		byTyp = map[string][]Rule{}
	)

	for _, r := range l.Rules {
		if _, ok := byTyp[r.SourceType]; !ok {
			order = append(order, r.SourceType)
		}

		byTyp[r.SourceType] = append(byTyp[r.SourceType], r)
	}

	out := make([][]Rule, 0, len(order))
	for _, t := range order {
		out = append(out, byTyp[t])
	}

	return out
}

func (l *Linker) apply(store *source.Store, r Rule) int {
	created := 0

	for _, rec := range store.ByType(r.SourceType) {
		target, ok := store.Ref(rec, r.Attribute, r.TargetType)
		if !ok {
			if r.Mandatory {
				l.reportMissing(rec, r)
			}

			continue
		}

		if link(store, rec, target, r.Direction) {
			created++
		}
	}

	return created
}

func (l *Linker) reportMissing(rec *source.Record, r Rule) {
	raw, present := rec.Attr(r.Attribute)
	if !present {
		l.log.Warnf("missing-reference", rec.String(), "mandatory %s is absent", r.Attribute)

		return
	}

	l.log.Warnf("dangling-reference", rec.String(), "%s=%s does not name a %s", r.Attribute, raw, r.TargetType)
}

func (l *Linker) derive(store *source.Store, d DerivedRule) int {
	created := 0

	for _, rec := range store.ByType(d.SourceType) {
		for _, target := range Walk(rec, d.Path) {
			if link(store, rec, target, d.Direction) {
				created++
			}
		}
	}

	return created
}

// Walk follows path from start and returns the records reached, without
// duplicates, in edge order.
func Walk(start *source.Record, path []Step) []*source.Record {
	current := []*source.Record{start}

	for _, step := range path {
		var next []*source.Record

		for _, rec := range current {
			candidates := rec.ChildrenOf(step.Type)
			if step.Up {
				candidates = rec.ParentsOf(step.Type)
			}

			for _, c := range candidates {
				if !slices.Contains(next, c) {
					next = append(next, c)
				}
			}
		}

		current = next
	}

	return current
}

func (l *Linker) root(store *source.Store) int {
	general, ok := store.General()
	if !ok {
		return 0
	}

	created := 0

	for _, t := range l.Roots {
		for _, rec := range store.ByType(t) {
			if len(rec.Parents()) == 0 && store.Link(general, rec) {
				created++
			}
		}
	}

	return created
}

func link(store *source.Store, rec, target *source.Record, dir Direction) bool {
	if dir == ToParent {
		return store.Link(target, rec)
	}

	return store.Link(rec, target)
}

func (l *Linker) excluded(r Rule) bool {
	return slices.Contains(l.Exclusions, Exclusion{Type: r.SourceType, Attribute: r.Attribute})
}

func (l *Linker) valid(sourceType, targetType, name string) bool {
	if l.Known == nil {
		return true
	}

	for _, t := range []string{sourceType, targetType} {
		if !l.Known(t) {
			l.log.Internalf("rule-type", "", "linkage rule %s names record type %s, which is never loaded", name, t)

			return false
		}
	}

	return true
}

func (l *Linker) notify(recordType string) {
	if l.Progress != nil {
		l.Progress(recordType)
	}
}
