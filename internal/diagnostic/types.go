package diagnostic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

//go:generate go tool stringer -type=Severity -linecomment -output=severity_string.go

// Severity represents the severity level of a log entry.
type Severity int

const (
	// Info entries carry counts and phase banners.
	Info Severity = iota // info
	// Warning entries report a recoverable data-quality problem. The
	// offending value was dropped or defaulted and the run continued.
	Warning // warning
	// Error entries report a problem that made the run fail.
	Error // error
	// Internal entries report a broken invariant of the converter itself,
	// such as a linkage rule naming a record type that was never loaded.
	Internal // internal
)

// Entry represents a single run log message.
type Entry struct {
	// Severity of the entry.
	Severity Severity
	// Code is a stable identifier for this kind of entry.
	Code string
	// Message is the human-readable description.
	Message string
	// Record is the rendered key of the source record this relates to (if any).
	Record string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// Log is the cumulative, ordered log of one conversion run. It is owned by
// the caller, which decides whether to present or discard it.
//
// The zero value is ready to use. A Log is not safe for concurrent use.
type Log struct {
	entries []Entry
	logger  *slog.Logger
}

// NewLog returns a Log mirroring every entry to logger. A nil logger
// disables mirroring.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

// Add appends an entry.
func (l *Log) Add(e Entry) {
	l.entries = append(l.entries, e)
	l.mirror(e)
}

// Infof adds an info entry.
func (l *Log) Infof(code, record, format string, args ...any) {
	l.Add(Entry{Severity: Info, Code: code, Record: record, Message: fmt.Sprintf(format, args...)})
}

// Warnf adds a warning entry.
func (l *Log) Warnf(code, record, format string, args ...any) {
	l.Add(Entry{Severity: Warning, Code: code, Record: record, Message: fmt.Sprintf(format, args...)})
}

// Errorf adds an error entry.
func (l *Log) Errorf(code, record, format string, args ...any) {
	l.Add(Entry{Severity: Error, Code: code, Record: record, Message: fmt.Sprintf(format, args...)})
}

// Internalf adds an internal-error entry.
func (l *Log) Internalf(code, record, format string, args ...any) {
	l.Add(Entry{Severity: Internal, Code: code, Record: record, Message: fmt.Sprintf(format, args...)})
}

// Entries returns all entries in insertion order.
func (l *Log) Entries() []Entry {
	return l.entries
}

// Filter returns the entries of the given severity in insertion order.
func (l *Log) Filter(s Severity) []Entry {
	var out []Entry

	for _, e := range l.entries {
		if e.Severity == s {
			out = append(out, e)
		}
	}

	return out
}

// Count returns the number of entries of the given severity.
func (l *Log) Count(s Severity) int {
	n := 0

	for _, e := range l.entries {
		if e.Severity == s {
			n++
		}
	}

	return n
}

// HasCode reports whether any entry carries the given code.
func (l *Log) HasCode(code string) bool {
	for _, e := range l.entries {
		if e.Code == code {
			return true
		}
	}

	return false
}

// HasErrors returns true if there are any error or internal entries.
func (l *Log) HasErrors() bool {
	return l.Count(Error) > 0 || l.Count(Internal) > 0
}

// Merge appends the entries of other, without mirroring them again.
func (l *Log) Merge(other *Log) {
	if other == nil {
		return
	}

	l.entries = append(l.entries, other.entries...)
}

// Err returns a combined error from all error entries, or nil if there are none.
func (l *Log) Err() error {
	var parts []string

	for _, e := range l.entries {
		if e.Severity == Error {
			parts = append(parts, e.String())
		}
	}

	if len(parts) == 0 {
		return nil
	}

	return errors.New(strings.Join(parts, "; "))
}

func (l *Log) mirror(e Entry) {
	if l.logger == nil {
		return
	}

	var level slog.Level

	switch e.Severity {
	case Info:
		level = slog.LevelDebug
	case Warning:
		level = slog.LevelWarn
	default:
		level = slog.LevelError
	}

	attrs := []slog.Attr{slog.String("code", e.Code)}
	if e.Record != "" {
		attrs = append(attrs, slog.String("record", e.Record))
	}

	l.logger.LogAttrs(context.Background(), level, e.Message, attrs...)
}

// String returns a formatted entry string.
func (e Entry) String() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("[%s] %s", e.Code, msg)
	}

	if e.Record != "" {
		msg = e.Record + ": " + msg
	}

	if len(e.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(e.Suggestions, ", ") + "?)"
	}

	return msg
}
