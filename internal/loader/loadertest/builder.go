// Package loadertest builds small Hauptwerk organ definitions for tests.
package loadertest

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Builder accumulates element blocks grouped by record type. Groups are
// written in order of first use, blocks in order of addition.
type Builder struct {
	Format  string
	Version string

	order  []string
	blocks map[string][]block
}

type block struct {
	compressed bool
	pairs      []string
}

// New returns a builder for an organ definition document.
func New() *Builder {
	return &Builder{Format: "Organ", Version: "7.000000", blocks: make(map[string][]block)}
}

// Add appends a full-name element block. attrs alternates attribute names
// and values.
func (b *Builder) Add(recordType string, attrs ...string) *Builder {
	return b.add(recordType, block{pairs: attrs})
}

// Compressed appends an <o> block. tags alternates abbreviated tags and
// values.
func (b *Builder) Compressed(recordType string, tags ...string) *Builder {
	return b.add(recordType, block{compressed: true, pairs: tags})
}

func (b *Builder) add(recordType string, blk block) *Builder {
	if len(blk.pairs)%2 != 0 {
		panic(fmt.Sprintf("loadertest: odd attribute list for %s", recordType))
	}

	if _, ok := b.blocks[recordType]; !ok {
		b.order = append(b.order, recordType)
	}

	b.blocks[recordType] = append(b.blocks[recordType], blk)

	return b
}

// Bytes renders the document.
func (b *Builder) Bytes() []byte {
	var buf bytes.Buffer

	buf.WriteString(xml.Header)
	fmt.Fprintf(&buf, "<Hauptwerk FileFormat=%q FileFormatVersion=%q>\n", b.Format, b.Version)

	for _, t := range b.order {
		fmt.Fprintf(&buf, "  <ObjectList ObjectType=%q>\n", t)

		for _, blk := range b.blocks[t] {
			name := t
			if blk.compressed {
				name = "o"
			}

			fmt.Fprintf(&buf, "    <%s>", name)

			for i := 0; i < len(blk.pairs); i += 2 {
				fmt.Fprintf(&buf, "<%s>", blk.pairs[i])
				_ = xml.EscapeText(&buf, []byte(blk.pairs[i+1]))
				fmt.Fprintf(&buf, "</%s>", blk.pairs[i])
			}

			fmt.Fprintf(&buf, "</%s>\n", name)
		}

		buf.WriteString("  </ObjectList>\n")
	}

	buf.WriteString("</Hauptwerk>\n")

	return buf.Bytes()
}

// WriteFile writes the document into dir/OrganDefinitions/name, the layout
// where installation packages sit next to the definitions folder. It
// returns the document path.
func (b *Builder) WriteFile(tb testing.TB, dir, name string) string {
	tb.Helper()

	defs := filepath.Join(dir, "OrganDefinitions")
	if err := os.MkdirAll(defs, 0o755); err != nil {
		tb.Fatalf("create %s: %v", defs, err)
	}

	path := filepath.Join(defs, name)
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}

	return path
}
