package odf

import (
	"strings"

	"hw2go/internal/common"
	"hw2go/internal/diagnostic"
	"hw2go/internal/target"
)

// plurals maps the NumberOfXxx counters to the prefix they count.
var plurals = map[string]string{
	"Manuals":            "Manual",
	"Enclosures":         "Enclosure",
	"Tremulants":         "Tremulant",
	"WindchestGroups":    "WindchestGroup",
	"Switches":           "Switch",
	"Ranks":              "Rank",
	"Panels":             "Panel",
	"ReversiblePistons":  "ReversiblePiston",
	"Generals":           "General",
	"DivisionalCouplers": "DivisionalCoupler",
	"Stops":              "Stop",
	"Couplers":           "Coupler",
	"Divisionals":        "Divisional",
	"Pipes":              "Pipe",
	"Images":             "Image",
	"GUIElements":        "Element",
}

// Check builds the object graph of s and logs every inconsistency found:
// a missing Organ section, dangling references, sections nothing refers
// to, renamed duplicate sections and counters that disagree with what they
// count. It returns the graph.
func Check(s *target.Store, log *diagnostic.Log) *Graph {
	g := Build(s)

	if _, ok := g.Object(target.NameOrgan); !ok {
		log.Errorf("missing-organ", "", "the definition has no [%s] section", target.NameOrgan)
	}

	for _, ref := range g.Dangling {
		log.Errorf("dangling-ref", ref.From, "%s references missing section %s", ref.Attr, ref.To)
	}

	for _, name := range g.Names() {
		o := g.objects[name]

		if strings.HasSuffix(name, "_") {
			log.Warnf("duplicate-section", name, "section name was declared more than once")
		}

		if name != target.NameOrgan && len(o.Parents) == 0 {
			log.Warnf("unused", name, "no section refers to this one")
		}

		checkCounts(s, o.Record, log)
	}

	return g
}

func checkCounts(s *target.Store, r *target.Record, log *diagnostic.Log) {
	for _, a := range r.Attrs() {
		plural, ok := strings.CutPrefix(a.Name, "NumberOf")
		if !ok {
			continue
		}

		prefix, known := plurals[plural]
		if !known {
			continue
		}

		declared, ok := common.ParseInt(a.Value)
		if !ok {
			log.Errorf("count-value", r.Name(), "%s=%q is not a number", a.Name, a.Value)

			continue
		}

		if actual := countOf(s, r, prefix); declared != actual {
			log.Errorf("count-mismatch", r.Name(), "%s=%d but %d found", a.Name, declared, actual)
		}
	}
}

// countOf counts the objects a counter of r refers to: sections for Organ
// and for panel elements and images, numbered attributes otherwise.
func countOf(s *target.Store, r *target.Record, prefix string) int {
	name := r.Name()

	switch {
	case name == target.NameOrgan:
		return s.Count(prefix)
	case isPanel(name) && (prefix == "Element" || prefix == "Image"):
		return s.Count(name + prefix)
	}

	n := 0

	for _, a := range r.Attrs() {
		rest, ok := strings.CutPrefix(a.Name, prefix)
		if ok && len(rest) == 3 && isNumber(rest) && rest != "000" {
			n++
		}
	}

	return n
}

func isPanel(name string) bool {
	return len(name) == panelNameLen && strings.HasPrefix(name, "Panel")
}
