package odf

import (
	"slices"
	"strings"

	"hw2go/internal/common"
	"hw2go/internal/target"
)

// organChildren are the prefixes of the objects owned by Organ.
var organChildren = []string{
	"General", "Manual", "WindchestGroup", "Image", "Label", "ReversiblePiston", "SetterElement",
}

// refTypes are the object types a numbered attribute can reference.
var refTypes = map[string]bool{
	"Coupler": true, "Divisional": true, "DivisionalCoupler": true, "Enclosure": true,
	"General": true, "Manual": true, "Rank": true, "ReversiblePiston": true,
	"Stop": true, "Switch": true, "Tremulant": true, "WindchestGroup": true,
}

// elementRefs are the panel element attributes naming a main object by
// number.
var elementRefs = map[string]bool{
	"Coupler": true, "Divisional": true, "DivisionalCoupler": true, "Enclosure": true,
	"Manual": true, "Stop": true, "Switch": true, "Tremulant": true,
}

const panelNameLen = len("Panel000")

// Ref is one reference from an attribute to an object name.
type Ref struct {
	From   string
	Attr   string
	To     string
	Parent bool // the referenced object owns the referring one
}

// Object is one section of the definition with its graph edges.
type Object struct {
	Record   *target.Record
	Parents  []string
	Children []string
}

// Graph is the object graph of one definition.
type Graph struct {
	objects map[string]*Object
	// Dangling lists the references naming absent objects.
	Dangling []Ref
}

// Build derives the object graph of a store.
func Build(s *target.Store) *Graph {
	g := &Graph{objects: make(map[string]*Object, s.Len())}

	for _, r := range s.Records() {
		g.objects[r.Name()] = &Object{Record: r}
	}

	for _, r := range s.Records() {
		name := r.Name()

		if owner, ok := ownerOf(name); ok {
			g.link(owner, name)
		}

		for _, ref := range refsOf(r) {
			if _, ok := g.objects[ref.To]; !ok {
				g.Dangling = append(g.Dangling, ref)

				continue
			}

			if ref.Parent {
				g.link(ref.To, name)
			} else {
				g.link(name, ref.To)
			}
		}
	}

	for _, o := range g.objects {
		slices.Sort(o.Parents)
		slices.Sort(o.Children)
	}

	return g
}

// Object returns the graph node of a section.
func (g *Graph) Object(name string) (*Object, bool) {
	o, ok := g.objects[name]

	return o, ok
}

// Names returns every object name in ascending order.
func (g *Graph) Names() []string {
	return common.SortedKeys(g.objects)
}

// Len returns the number of objects.
func (g *Graph) Len() int {
	return len(g.objects)
}

func (g *Graph) link(parent, child string) {
	p, okP := g.objects[parent]
	c, okC := g.objects[child]

	if !okP || !okC || slices.Contains(p.Children, child) {
		return
	}

	p.Children = append(p.Children, child)
	c.Parents = append(c.Parents, parent)
}

// ownerOf returns the structural owner of a section name.
func ownerOf(name string) (string, bool) {
	if name == target.NameOrgan {
		return "", false
	}

	if strings.HasPrefix(name, "Panel") {
		switch {
		case len(name) == panelNameLen:
			return target.NameOrgan, true
		case len(name) > panelNameLen:
			return name[:panelNameLen], true
		}
	}

	for _, p := range organChildren {
		if strings.HasPrefix(name, p) {
			return target.NameOrgan, true
		}
	}

	return "", false
}

// refsOf extracts the references of one section.
func refsOf(r *target.Record) []Ref {
	var refs []Ref

	element := isElement(r.Name())

	for _, a := range r.Attrs() {
		if !isNumber(a.Value) {
			continue
		}

		n, _ := common.ParseInt(a.Value)

		switch {
		case strings.HasSuffix(a.Name, "WindchestGroup"):
			refs = append(refs, Ref{From: r.Name(), Attr: a.Name, To: "WindchestGroup" + common.Pad3(n), Parent: true})
		case element && elementRefs[a.Name]:
			refs = append(refs, Ref{From: r.Name(), Attr: a.Name, To: a.Name + common.Pad3(n)})
		case len(a.Name) > 3 && isNumber(a.Name[len(a.Name)-3:]):
			prefix := a.Name[:len(a.Name)-3]
			if refTypes[prefix] {
				refs = append(refs, Ref{From: r.Name(), Attr: a.Name, To: prefix + common.Pad3(n)})
			}
		}
	}

	return refs
}

func isElement(name string) bool {
	return len(name) > panelNameLen && strings.HasPrefix(name, "Panel") &&
		strings.HasPrefix(name[panelNameLen:], "Element")
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}

	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}

	return true
}
