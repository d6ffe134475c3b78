package dictionary

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"hw2go/internal/common"
)

// ErrDictionary is returned when the lookup table is absent or unparsable.
// A conversion cannot proceed without it.
var ErrDictionary = errors.New("lookup table unavailable")

//go:embed hauptwerk.yaml
var embedded []byte

// TypeEntry describes one source record type.
type TypeEntry struct {
	// ID is the attribute holding the numeric record id, empty if none.
	ID string `yaml:"id,omitempty"`
	// Tags maps one/two-character tags to full attribute names.
	Tags map[string]string `yaml:"tags,omitempty"`
}

// Dictionary is the static lookup table keyed by record type.
type Dictionary struct {
	Types map[string]TypeEntry `yaml:"types"`
}

var (
	defaultOnce sync.Once
	defaultDict *Dictionary
	defaultErr  error
)

// Default returns the embedded lookup table. It is parsed on first use and
// cached for the process lifetime.
func Default() (*Dictionary, error) {
	defaultOnce.Do(func() {
		defaultDict, defaultErr = Parse(embedded)
		if defaultErr != nil {
			defaultErr = fmt.Errorf("embedded: %w", defaultErr)
		}
	})

	return defaultDict, defaultErr
}

// Embedded returns the raw embedded sidecar.
func Embedded() []byte {
	return slices.Clone(embedded)
}

// LoadFile reads and parses a lookup table sidecar.
func LoadFile(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", ErrDictionary, path, err)
	}

	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return d, nil
}

// Parse parses a lookup table from YAML bytes.
func Parse(data []byte) (*Dictionary, error) {
	var d Dictionary

	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %w", ErrDictionary, err)
	}

	if len(d.Types) == 0 {
		return nil, fmt.Errorf("%w: no record types defined", ErrDictionary)
	}

	for name, entry := range d.Types {
		for tag := range entry.Tags {
			if !common.IsInRange(1, len(tag), 2) {
				return nil, fmt.Errorf("%w: type %s: tag %q is not a one/two-character abbreviation",
					ErrDictionary, name, tag)
			}
		}
	}

	return &d, nil
}

// Lookup returns the entry of a record type.
func (d *Dictionary) Lookup(recordType string) (TypeEntry, bool) {
	e, ok := d.Types[recordType]

	return e, ok
}

// Expand returns the full attribute name for a tag of a record type. Tags
// without an abbreviation are already full names and are returned unchanged.
func (d *Dictionary) Expand(recordType, tag string) string {
	if full, ok := d.Types[recordType].Tags[tag]; ok {
		return full
	}

	return tag
}

// IDAttribute returns the id attribute of a record type, empty if none.
func (d *Dictionary) IDAttribute(recordType string) string {
	return d.Types[recordType].ID
}

// TypeNames returns the known record type names in ascending order.
func (d *Dictionary) TypeNames() []string {
	return common.SortedKeys(d.Types)
}

// Marshal renders the table back to YAML.
func (d *Dictionary) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}
