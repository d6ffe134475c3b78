package source

import (
	"cmp"
	"slices"
)

// Store holds every source record of one run.
//
// The zero value is not usable; create stores with NewStore.
type Store struct {
	records map[Key]*Record
	byType  map[string][]*Record
}

// NewStore returns an empty store.
func NewStore() *Store {
	s := &Store{}
	s.Reset()

	return s
}

// Reset removes every record.
func (s *Store) Reset() {
	s.records = make(map[Key]*Record)
	s.byType = make(map[string][]*Record)
}

// Add inserts a record. It returns false when a record with the same key
// is already stored.
func (s *Store) Add(r *Record) bool {
	if _, dup := s.records[r.key]; dup {
		return false
	}

	s.records[r.key] = r

	list := s.byType[r.key.Type]
	i, _ := slices.BinarySearchFunc(list, r.key.ID, func(e *Record, id int) int { return cmp.Compare(e.key.ID, id) })
	s.byType[r.key.Type] = slices.Insert(list, i, r)

	return true
}

// Get returns the record with the given key.
func (s *Store) Get(k Key) (*Record, bool) {
	r, ok := s.records[k]

	return r, ok
}

// Lookup returns the record of the given type and id.
func (s *Store) Lookup(recordType string, id int) (*Record, bool) {
	return s.Get(Key{Type: recordType, ID: id})
}

// General returns the singleton general record.
func (s *Store) General() (*Record, bool) {
	return s.Lookup(TypeGeneral, 0)
}

// ByType returns the records of one type in ascending id order.
func (s *Store) ByType(recordType string) []*Record {
	return s.byType[recordType]
}

// HasType reports whether at least one record of the type is stored.
func (s *Store) HasType(recordType string) bool {
	return len(s.byType[recordType]) > 0
}

// Types returns the stored type names in ascending order.
func (s *Store) Types() []string {
	types := make([]string, 0, len(s.byType))
	for t := range s.byType {
		types = append(types, t)
	}

	slices.Sort(types)

	return types
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	return len(s.records)
}

// Link creates the edge parent -> child and its mirror child -> parent.
// Both endpoints must be stored. Existing edges are not duplicated. It
// returns true when a new edge was created.
func (s *Store) Link(parent, child *Record) bool {
	if parent == nil || child == nil || parent == child {
		return false
	}

	if s.records[parent.key] != parent || s.records[child.key] != child {
		return false
	}

	if parent.HasChild(child) {
		return false
	}

	parent.children = append(parent.children, child)
	child.parents = append(child.parents, parent)

	return true
}

// Ref resolves the record referenced by an integer attribute of r. The
// attribute must hold a positive integer and a record of recordType with
// that id must exist.
func (s *Store) Ref(r *Record, attr, recordType string) (*Record, bool) {
	id, ok := r.RefID(attr)
	if !ok {
		return nil, false
	}

	return s.Lookup(recordType, id)
}

// Resolve resolves the record referenced through a field.
func (s *Store) Resolve(r *Record, f Field) (*Record, bool) {
	return s.Ref(r, f.Name, f.Ref)
}
