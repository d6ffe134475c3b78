package target

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"hw2go/internal/diagnostic"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Read parses an ODF document. UTF-8 is assumed when the document starts
// with a byte order mark or is valid UTF-8, ISO-8859-1 otherwise. A section
// name seen twice is renamed with a trailing underscore and logged.
func Read(r io.Reader, log *diagnostic.Log) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	if rest, ok := bytes.CutPrefix(data, utf8BOM); ok {
		data = rest
	} else if !utf8.Valid(data) {
		data, err = charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode ISO-8859-1 document: %w", err)
		}
	}

	s := NewStore()

	var current *Record

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())

		switch {
		case text == "" || strings.HasPrefix(text, ";"):
			continue
		case strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]"):
			current = section(s, strings.TrimSpace(text[1:len(text)-1]), log)
		default:
			name, value, ok := strings.Cut(text, "=")
			if !ok || current == nil {
				log.Warnf("stray-line", "", "line %d ignored: %q", line, text)

				continue
			}

			name = strings.TrimSpace(name)
			if _, dup := current.Get(name); dup {
				log.Warnf("duplicate-attribute", current.name, "attribute %s repeated on line %d", name, line)
			}

			current.Set(name, strings.TrimSpace(value))
		}
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}

	return s, nil
}

func section(s *Store, name string, log *diagnostic.Log) *Record {
	if _, dup := s.Get(name); !dup {
		return s.Reserve(name)
	}

	renamed := name + "_"
	for {
		if _, taken := s.Get(renamed); !taken {
			break
		}

		renamed += "_"
	}

	log.Warnf("duplicate-section", name, "section [%s] repeated, renamed to [%s]", name, renamed)

	return s.Reserve(renamed)
}
