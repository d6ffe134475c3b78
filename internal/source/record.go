package source

import (
	"fmt"
	"maps"
	"slices"
)

// Key identifies a source record. The zero Key means "absent".
type Key struct {
	Type string
	ID   int
}

// IsZero reports whether k is the zero Key.
func (k Key) IsZero() bool {
	return k == Key{}
}

// String renders the key as the type followed by the zero-padded id.
// The general record renders as its bare type name.
func (k Key) String() string {
	switch {
	case k.IsZero():
		return ""
	case k.Type == TypeGeneral:
		return TypeGeneral
	default:
		return fmt.Sprintf("%s%06d", k.Type, k.ID)
	}
}

// TargetNone marks a record whose control network was discarded.
const TargetNone = "none"

// Record is one typed, attributed source object.
type Record struct {
	key      Key
	attrs    map[string]string
	parents  []*Record
	children []*Record
	target   string
}

// NewRecord creates a record. Attributes with an empty value are dropped.
func NewRecord(recordType string, id int, attrs map[string]string) *Record {
	r := &Record{key: Key{Type: recordType, ID: id}, attrs: make(map[string]string, len(attrs))}

	for name, value := range attrs {
		if value != "" {
			r.attrs[name] = value
		}
	}

	return r
}

// Key returns the record key.
func (r *Record) Key() Key { return r.key }

// Type returns the record type name.
func (r *Record) Type() string { return r.key.Type }

// ID returns the numeric record id.
func (r *Record) ID() int { return r.key.ID }

// String returns the rendered key.
func (r *Record) String() string { return r.key.String() }

// Attr returns the raw value of an attribute.
func (r *Record) Attr(name string) (string, bool) {
	v, ok := r.attrs[name]

	return v, ok
}

// AttrNames returns the attribute names in ascending order.
func (r *Record) AttrNames() []string {
	return slices.Sorted(maps.Keys(r.attrs))
}

// Parents returns the parent records in edge creation order.
func (r *Record) Parents() []*Record { return r.parents }

// Children returns the child records in edge creation order.
func (r *Record) Children() []*Record { return r.children }

// ParentsOf returns the parents of the given type.
func (r *Record) ParentsOf(recordType string) []*Record {
	return filterType(r.parents, recordType)
}

// ChildrenOf returns the children of the given type.
func (r *Record) ChildrenOf(recordType string) []*Record {
	return filterType(r.children, recordType)
}

// HasParent reports whether p is a parent of r.
func (r *Record) HasParent(p *Record) bool {
	return slices.Contains(r.parents, p)
}

// HasChild reports whether c is a child of r.
func (r *Record) HasChild(c *Record) bool {
	return slices.Contains(r.children, c)
}

// Target returns the name of the target record synthesized from r, empty if
// none yet.
func (r *Record) Target() string { return r.target }

// SetTarget records the synthesized target name. The first value sticks:
// a second call returns false and leaves it unchanged.
func (r *Record) SetTarget(name string) bool {
	if r.target != "" || name == "" {
		return false
	}

	r.target = name

	return true
}

// Discarded reports whether r belongs to a discarded control network.
func (r *Record) Discarded() bool { return r.target == TargetNone }

func filterType(records []*Record, recordType string) []*Record {
	var out []*Record

	for _, rec := range records {
		if rec.key.Type == recordType {
			out = append(out, rec)
		}
	}

	return out
}
