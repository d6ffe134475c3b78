package target

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"hw2go/internal/common"
)

// BookkeepingPrefix marks attributes that only carry converter state.
const BookkeepingPrefix = "_"

// Reserved record names.
const (
	NameOrgan        = "Organ"
	NameDefaultPanel = "Panel000"
	NamePedal        = "Manual000"
)

// Attr is one attribute line.
type Attr struct {
	Name  string
	Value string
}

// Record is one ODF section.
type Record struct {
	name  string
	attrs []Attr
	index map[string]int
}

// NewRecord returns an empty record.
func NewRecord(name string) *Record {
	return &Record{name: name, index: make(map[string]int)}
}

// Name returns the section name.
func (r *Record) Name() string { return r.name }

// Set assigns an attribute. A new attribute is appended; an existing one
// keeps its position. Values are formatted with Format.
func (r *Record) Set(name string, value any) *Record {
	v := Format(value)

	if i, ok := r.index[name]; ok {
		r.attrs[i].Value = v

		return r
	}

	r.index[name] = len(r.attrs)
	r.attrs = append(r.attrs, Attr{Name: name, Value: v})

	return r
}

// Get returns an attribute value.
func (r *Record) Get(name string) (string, bool) {
	i, ok := r.index[name]
	if !ok {
		return "", false
	}

	return r.attrs[i].Value, true
}

// Int returns an attribute parsed as an integer, zero when absent.
func (r *Record) Int(name string) int {
	v, _ := r.Get(name)
	n, _ := common.ParseInt(v)

	return n
}

// Attrs returns the attributes in insertion order.
func (r *Record) Attrs() []Attr {
	return r.attrs
}

// Append adds the next entry of a numbered list: it increments the
// counter attribute and sets prefix+NNN to value. It returns the new count.
//
//	r.Append("NumberOfStops", "Stop", 3) // NumberOfStops=1, Stop001=003
func (r *Record) Append(counter, prefix string, value any) int {
	n := r.Int(counter) + 1
	r.Set(counter, n)
	r.Set(prefix+common.Pad3(n), value)

	return n
}

// List returns the values of a numbered list in order.
func (r *Record) List(counter, prefix string) []string {
	n := r.Int(counter)
	out := make([]string, 0, n)

	for i := 1; i <= n; i++ {
		if v, ok := r.Get(prefix + common.Pad3(i)); ok {
			out = append(out, v)
		}
	}

	return out
}

// Strip removes bookkeeping attributes.
func (r *Record) Strip() {
	r.attrs = slices.DeleteFunc(r.attrs, func(a Attr) bool {
		return strings.HasPrefix(a.Name, BookkeepingPrefix)
	})

	clear(r.index)

	for i, a := range r.attrs {
		r.index[a.Name] = i
	}
}

// Format renders a scalar as an ODF value.
func Format(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return common.YesNo(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		if v == float64(int(v)) {
			return strconv.Itoa(int(v))
		}

		return strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
