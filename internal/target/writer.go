package target

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding names accepted by the writer.
const (
	EncodingUTF8BOM = "utf-8-bom"
	EncodingLatin1  = "iso-8859-1"
)

// Intro is the fixed comment heading every written document.
const Intro = "; GrandOrgue organ definition file converted from a Hauptwerk organ definition by hw2go"

// WriteOptions control document encoding.
type WriteOptions struct {
	// Encoding is EncodingUTF8BOM (default) or EncodingLatin1.
	Encoding string
}

// Write renders every record of the store: the intro comment, then one
// section per record in creation order, each preceded by a blank line.
func Write(w io.Writer, s *Store, opts WriteOptions) error {
	enc, err := encoder(opts.Encoding)
	if err != nil {
		return err
	}

	clean := sanitize
	if enc != unicode.UTF8BOM {
		clean = func(v string) string { return latin1(sanitize(v)) }
	}

	bw := bufio.NewWriter(enc.NewEncoder().Writer(w))

	if _, err := bw.WriteString(Intro + "\n"); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	for _, r := range s.Records() {
		fmt.Fprintf(bw, "\n[%s]\n", r.name)

		for _, a := range r.attrs {
			fmt.Fprintf(bw, "%s=%s\n", a.Name, clean(a.Value))
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	return nil
}

func encoder(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", EncodingUTF8BOM:
		return unicode.UTF8BOM, nil
	case EncodingLatin1, "latin1", "latin-1":
		return charmap.ISO8859_1, nil
	default:
		return nil, fmt.Errorf("unsupported output encoding %q", name)
	}
}

// sanitize keeps a value on its line.
func sanitize(v string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(v)
}

// latin1 replaces characters outside ISO-8859-1 with '?'.
func latin1(v string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFF {
			return '?'
		}

		return r
	}, v)
}
