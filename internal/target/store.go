package target

import (
	"slices"
	"strings"

	"hw2go/internal/common"
)

// MaxNumber is the largest object number a GrandOrgue reference can hold.
const MaxNumber = 999

// Store holds the target records of one run in creation order.
type Store struct {
	records  []*Record
	byName   map[string]*Record
	next     map[string]int
	overflow []string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{byName: make(map[string]*Record), next: make(map[string]int)}
}

// New creates the next record of a type prefix: "Stop" gives Stop001,
// Stop002 and so on; "Panel001Element" gives Panel001Element001.
func (s *Store) New(prefix string) *Record {
	s.next[prefix]++

	name := prefix + common.Pad3(s.next[prefix])
	for s.byName[name] != nil {
		s.next[prefix]++
		name = prefix + common.Pad3(s.next[prefix])
	}

	if s.next[prefix] > MaxNumber && !slices.Contains(s.overflow, prefix) {
		s.overflow = append(s.overflow, prefix)
	}

	return s.insert(NewRecord(name))
}

// Overflows returns the prefixes whose sequence went past MaxNumber, in the
// order they did. Such records are created but cannot be referenced.
func (s *Store) Overflows() []string {
	return s.overflow
}

// Reserve creates a record with a fixed name, or returns the existing one.
func (s *Store) Reserve(name string) *Record {
	if r, ok := s.byName[name]; ok {
		return r
	}

	return s.insert(NewRecord(name))
}

// Add inserts a record built elsewhere. It returns false when the name is
// taken.
func (s *Store) Add(r *Record) bool {
	if _, dup := s.byName[r.name]; dup {
		return false
	}

	s.insert(r)

	return true
}

func (s *Store) insert(r *Record) *Record {
	s.records = append(s.records, r)
	s.byName[r.name] = r

	return r
}

// Get returns the record with the given name.
func (s *Store) Get(name string) (*Record, bool) {
	r, ok := s.byName[name]

	return r, ok
}

// Records returns every record in creation order.
func (s *Store) Records() []*Record {
	return s.records
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Prefixed returns the records named prefix+NNN, in creation order. Numbers
// past MaxNumber have more than three digits.
func (s *Store) Prefixed(prefix string) []*Record {
	var out []*Record

	for _, r := range s.records {
		rest, ok := strings.CutPrefix(r.name, prefix)
		if ok && len(rest) >= 3 && isDigits(rest) {
			out = append(out, r)
		}
	}

	return out
}

// Count returns the number of records named prefix+NNN with NNN >= 1.
func (s *Store) Count(prefix string) int {
	n := 0

	for _, r := range s.Prefixed(prefix) {
		if Number(r.name) > 0 {
			n++
		}
	}

	return n
}

// Finalize strips bookkeeping attributes from every record.
func (s *Store) Finalize() {
	for _, r := range s.records {
		r.Strip()
	}
}

// Number returns the numeric suffix of a record name like Manual003, or 0
// when the name has none.
func Number(name string) int {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}

	n, _ := common.ParseInt(name[i:])

	return n
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}

	return s != ""
}
