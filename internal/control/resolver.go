package control

import (
	"hw2go/internal/common"
	"hw2go/internal/source"
)

// Direction selects which end of the switch linkages is followed.
type Direction int

const (
	// TowardControlling follows linkages from destination to source.
	TowardControlling Direction = iota
	// TowardControlled follows linkages from source to destination.
	TowardControlled
)

// String returns a human-readable direction name.
func (d Direction) String() string {
	switch d {
	case TowardControlling:
		return "controlling"
	case TowardControlled:
		return "controlled"
	default:
		return common.UnknownStr
	}
}

// Network is the closure of switches reached from a seed.
type Network struct {
	// Switches in visiting order.
	Switches []*source.Record
	// DefaultEngaged is set when any switch is engaged by default.
	DefaultEngaged bool
	// Clickable is set when any switch can be operated by the user.
	Clickable bool
	// Inverting is set when any traversed link mirrors the inverse state.
	Inverting bool
}

// Empty reports whether no switch was reached.
func (n *Network) Empty() bool {
	return len(n.Switches) == 0
}

// Dead reports whether the network can never be triggered: no switch was
// reached and neither flag is set. A reached switch may still be driven by
// links the walk does not follow, such as crescendo stages or conditional
// linkages.
func (n *Network) Dead() bool {
	return n.Empty() && !n.Clickable && !n.DefaultEngaged
}

// Primary returns the switch a target object should reference: the first
// clickable switch with an image, then the first clickable switch, then the
// first switch.
func (n *Network) Primary() *source.Record {
	var clickable *source.Record

	for _, sw := range n.Switches {
		if !sw.Bool(source.SwitchClickable) {
			continue
		}

		if sw.Has(source.SwitchImage) {
			return sw
		}

		if clickable == nil {
			clickable = sw
		}
	}

	if clickable != nil {
		return clickable
	}

	first, _ := common.First(n.Switches)

	return first
}

// gates maps the device types to the attribute naming their gating switch.
var gates = map[string]source.Field{
	source.TypeStop:        source.StopSwitch,
	source.TypeKeyAction:   source.ActionCondition,
	source.TypeTremulant:   source.TremulantSwitch,
	source.TypeKeyboardKey: source.KeySwitch,
	source.TypePipe:        source.PipePallet,
}

// Resolver walks switch linkages of one linked store.
type Resolver struct {
	store *source.Store
}

// NewResolver returns a resolver over store.
func NewResolver(store *source.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the network reached from seed in the given direction.
//
// A device seed first jumps to its gating switch. When the device has no
// gating attribute at all, Resolve returns (nil, false). A gating attribute
// that does not resolve yields an empty network.
func (r *Resolver) Resolve(seed *source.Record, dir Direction) (*Network, bool) {
	if seed == nil {
		return nil, false
	}

	start := seed

	if seed.Type() != source.TypeSwitch {
		gate, ok := gates[seed.Type()]
		if !ok || !seed.Has(gate) {
			return nil, false
		}

		sw, ok := r.store.Resolve(seed, gate)
		if !ok {
			return &Network{}, true
		}

		start = sw
	}

	return r.walk(start, dir), true
}

// walk is an iterative depth-first traversal. The visited set is keyed by
// record key, so cyclic linkage graphs terminate.
func (r *Resolver) walk(start *source.Record, dir Direction) *Network {
	net := &Network{}
	visited := map[source.Key]bool{start.Key(): true}
	stack := []*source.Record{start}

	for len(stack) > 0 {
		sw := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		net.Switches = append(net.Switches, sw)
		net.DefaultEngaged = net.DefaultEngaged || sw.Bool(source.SwitchDefaultEngaged)
		net.Clickable = net.Clickable || sw.Bool(source.SwitchClickable)

		next := r.neighbours(sw, dir)

		// push in reverse so the first linkage is visited first
		for i := len(next) - 1; i >= 0; i-- {
			n := next[i]
			if visited[n.to.Key()] {
				continue
			}

			visited[n.to.Key()] = true
			stack = append(stack, n.to)
			net.Inverting = net.Inverting || n.inverting
		}
	}

	return net
}

// hop is one traversable linkage out of a switch.
type hop struct {
	to        *source.Record
	inverting bool
}

// neighbours returns the switches joined to sw by plain pass-through
// linkages in the given direction.
func (r *Resolver) neighbours(sw *source.Record, dir Direction) []hop {
	from, to := source.LinkDest, source.LinkSource
	candidates := sw.ChildrenOf(source.TypeSwitchLinkage)

	if dir == TowardControlled {
		from, to = source.LinkSource, source.LinkDest
	} else {
		candidates = sw.ParentsOf(source.TypeSwitchLinkage)
	}

	var out []hop

	for _, link := range candidates {
		if id, ok := link.RefID(from.Name); !ok || id != sw.ID() {
			continue
		}

		if !Plain(link) {
			continue
		}

		other, ok := r.store.Resolve(link, to)
		if !ok || other == sw {
			continue
		}

		out = append(out, hop{to: other, inverting: !link.Bool(source.LinkSourceIfEngage)})
	}

	return out
}

// Plain reports whether a switch linkage passes state through
// unconditionally: no condition switch and plain action codes.
func Plain(link *source.Record) bool {
	if link.Has(source.LinkCondition) {
		return false
	}

	if link.Has(source.LinkEngageCode) && link.Int(source.LinkEngageCode) != source.LinkActionEngage {
		return false
	}

	if link.Has(source.LinkDisengageCode) && link.Int(source.LinkDisengageCode) != source.LinkActionDisengage {
		return false
	}

	return true
}
