package loader

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding/ianaindex"

	"hw2go/internal/common"
	"hw2go/internal/diagnostic"
	"hw2go/internal/dictionary"
	"hw2go/internal/match"
	"hw2go/internal/source"
)

// ErrEnvelope is returned when the outer document shape is not a
// Hauptwerk organ definition.
var ErrEnvelope = errors.New("not a Hauptwerk organ definition")

// FormatOrgan is the only accepted FileFormat.
const FormatOrgan = "Organ"

const compressedBlock = "o"

// Document summarizes a loaded source document.
type Document struct {
	Format  string
	Version string
	// Counts holds the number of loaded records per type.
	Counts map[string]int
}

type envelope struct {
	XMLName xml.Name     `xml:"Hauptwerk"`
	Format  string       `xml:"FileFormat,attr"`
	Version string       `xml:"FileFormatVersion,attr"`
	Lists   []objectList `xml:"ObjectList"`
}

type objectList struct {
	Type   string  `xml:"ObjectType,attr"`
	Blocks []block `xml:",any"`
}

type block struct {
	XMLName xml.Name
	Tags    []tag `xml:",any"`
}

type tag struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// LoadFile opens path and loads it into store. Files ending in .zst are
// decompressed on the fly.
func LoadFile(path string, dict *dictionary.Dictionary, store *source.Store, log *diagnostic.Log) (Document, error) {
	store.Reset()

	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to open source document %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f

	if strings.EqualFold(filepath.Ext(path), ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return Document{}, fmt.Errorf("failed to open zstd stream %s: %w", path, err)
		}
		defer dec.Close()

		r = dec
	}

	doc, err := Load(r, dict, store, log)
	if err != nil {
		return doc, fmt.Errorf("%s: %w", path, err)
	}

	return doc, nil
}

// Load parses a document from r into store. The store is cleared first and
// stays empty when loading fails.
func Load(r io.Reader, dict *dictionary.Dictionary, store *source.Store, log *diagnostic.Log) (Document, error) {
	store.Reset()

	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var env envelope
	if err := dec.Decode(&env); err != nil {
		var (
			syntax *xml.SyntaxError
			shape  xml.UnmarshalError
		)

		if errors.As(err, &syntax) || errors.As(err, &shape) || errors.Is(err, io.EOF) {
			return Document{}, fmt.Errorf("%w: %w", ErrEnvelope, err)
		}

		return Document{}, fmt.Errorf("failed to decode source document: %w", err)
	}

	if !strings.EqualFold(env.Format, FormatOrgan) {
		return Document{}, fmt.Errorf("%w: FileFormat %q, want %q", ErrEnvelope, env.Format, FormatOrgan)
	}

	if i := slices.IndexFunc(env.Lists, func(l objectList) bool { return l.Type == "" }); i >= 0 {
		return Document{}, fmt.Errorf("%w: ObjectList #%d without ObjectType", ErrEnvelope, i+1)
	}

	staged := stage(env, dict, log)

	doc := Document{Format: env.Format, Version: env.Version, Counts: make(map[string]int)}

	for _, t := range common.SortedKeys(staged) {
		for _, rec := range staged[t] {
			store.Add(rec)
		}

		doc.Counts[t] = len(staged[t])
		log.Infof("loaded", "", "%s: %d records", t, len(staged[t]))
	}

	return doc, nil
}

// stage parses every group into records without touching the store.
func stage(env envelope, dict *dictionary.Dictionary, log *diagnostic.Log) map[string][]*source.Record {
	staged := make(map[string][]*source.Record)
	numbering := make(map[string]*idAllocator)

	for _, list := range env.Lists {
		if _, ok := dict.Lookup(list.Type); !ok {
			log.Add(diagnostic.Entry{
				Severity:    diagnostic.Internal,
				Code:        "unknown-type",
				Message:     fmt.Sprintf("record type %s is not in the lookup table, %d records dropped", list.Type, len(list.Blocks)),
				Suggestions: match.Suggest(list.Type, dict.TypeNames(), 3),
			})

			continue
		}

		alloc := numbering[list.Type]
		if alloc == nil {
			alloc = &idAllocator{used: make(map[int]bool)}
			numbering[list.Type] = alloc
		}

		for _, b := range list.Blocks {
			if name := b.XMLName.Local; name != compressedBlock && name != list.Type {
				log.Warnf("block-name", "", "%s: unexpected element block <%s>, read as a %s record", list.Type, name, list.Type)
			}

			alloc.pending = append(alloc.pending, expand(list.Type, b, dict))
		}
	}

	for _, t := range common.SortedKeys(numbering) {
		staged[t] = numbering[t].assign(t, dict.IDAttribute(t), log)
	}

	return staged
}

// expand turns a block into an attribute map with full names. Empty
// values are skipped; a repeated tag keeps its first value.
func expand(recordType string, b block, dict *dictionary.Dictionary) map[string]string {
	attrs := make(map[string]string, len(b.Tags))

	for _, t := range b.Tags {
		value := strings.TrimSpace(t.Value)
		if value == "" {
			continue
		}

		name := dict.Expand(recordType, t.XMLName.Local)
		if _, dup := attrs[name]; !dup {
			attrs[name] = value
		}
	}

	return attrs
}

type idAllocator struct {
	pending []map[string]string
	used    map[int]bool
}

// assign gives every pending block of one type its record id. Valid unique
// ids are kept; the rest are numbered after the highest id in use.
func (a *idAllocator) assign(recordType, idAttr string, log *diagnostic.Log) []*source.Record {
	if recordType == source.TypeGeneral {
		return a.assignGeneral(log)
	}

	ids := make([]int, len(a.pending))
	next := 0

	if idAttr != "" {
		for i, attrs := range a.pending {
			id, ok := common.ParsePositive(attrs[idAttr])
			if !ok || a.used[id] {
				continue
			}

			ids[i] = id
			a.used[id] = true
			next = max(next, id)
		}
	}

	recs := make([]*source.Record, 0, len(a.pending))

	for i, attrs := range a.pending {
		if ids[i] == 0 {
			next++
			ids[i] = next

			if idAttr != "" {
				logMissingID(log, recordType, idAttr, attrs[idAttr], next)
			}
		}

		recs = append(recs, source.NewRecord(recordType, ids[i], attrs))
	}

	slices.SortFunc(recs, func(x, y *source.Record) int { return x.ID() - y.ID() })

	return recs
}

func (a *idAllocator) assignGeneral(log *diagnostic.Log) []*source.Record {
	if len(a.pending) == 0 {
		return nil
	}

	for range a.pending[1:] {
		log.Warnf("duplicate-general", source.TypeGeneral, "extra %s block ignored", source.TypeGeneral)
	}

	return []*source.Record{source.NewRecord(source.TypeGeneral, 0, a.pending[0])}
}

func logMissingID(log *diagnostic.Log, recordType, idAttr, raw string, assigned int) {
	key := source.Key{Type: recordType, ID: assigned}.String()

	if raw == "" {
		log.Warnf("missing-id", key, "%s absent, assigned id %d", idAttr, assigned)

		return
	}

	if _, ok := common.ParsePositive(raw); ok {
		log.Warnf("duplicate-id", key, "%s=%s already used, assigned id %d", idAttr, raw, assigned)

		return
	}

	log.Warnf("invalid-id", key, "%s=%q is not a positive integer, assigned id %d", idAttr, raw, assigned)
}

// charsetReader decodes the non UTF-8 encodings some exported documents
// declare in their XML prolog.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported document encoding %q: %w", label, err)
	}

	if enc == nil {
		return input, nil
	}

	return enc.NewDecoder().Reader(input), nil
}
