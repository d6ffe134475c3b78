// Package report renders the run log of a conversion for a terminal.
package report

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"hw2go/internal/common"
	"hw2go/internal/diagnostic"
)

var severities = []diagnostic.Severity{
	diagnostic.Internal, diagnostic.Error, diagnostic.Warning, diagnostic.Info,
}

// Report is the digest of one run log.
type Report struct {
	// Counts holds the number of entries per severity.
	Counts map[diagnostic.Severity]int
	// Codes is the per-code tally, most frequent first.
	Codes   []CodeCount
	Entries []diagnostic.Entry
}

// CodeCount is the number of entries sharing a code.
type CodeCount struct {
	Code     string
	Severity diagnostic.Severity
	Count    int
}

// Generate builds a report of the entries of log at or above level.
func Generate(log *diagnostic.Log, level diagnostic.Severity) *Report {
	r := &Report{Counts: make(map[diagnostic.Severity]int)}
	tally := make(map[string]*CodeCount)

	for _, e := range log.Entries() {
		r.Counts[e.Severity]++

		c, ok := tally[e.Code]
		if !ok {
			c = &CodeCount{Code: e.Code, Severity: e.Severity}
			tally[e.Code] = c
		}

		c.Count++
		c.Severity = max(c.Severity, e.Severity)

		if e.Severity >= level {
			r.Entries = append(r.Entries, e)
		}
	}

	for _, code := range common.SortedKeys(tally) {
		r.Codes = append(r.Codes, *tally[code])
	}

	slices.SortStableFunc(r.Codes, func(a, b CodeCount) int {
		return b.Count - a.Count
	})

	return r
}

// Hidden returns the number of entries left out of Entries.
func (r *Report) Hidden() int {
	n := 0
	for _, c := range r.Counts {
		n += c
	}

	return n - len(r.Entries)
}

// Theme holds the colours of each severity.
type Theme struct {
	Info     lipgloss.Color
	Warning  lipgloss.Color
	Error    lipgloss.Color
	Internal lipgloss.Color
	Faint    lipgloss.Color
}

// DefaultTheme uses ANSI 256 colour codes.
var DefaultTheme = Theme{
	Info:     lipgloss.Color("245"),
	Warning:  lipgloss.Color("214"),
	Error:    lipgloss.Color("196"),
	Internal: lipgloss.Color("201"),
	Faint:    lipgloss.Color("242"),
}

func (t Theme) color(s diagnostic.Severity) lipgloss.Color {
	switch s {
	case diagnostic.Warning:
		return t.Warning
	case diagnostic.Error:
		return t.Error
	case diagnostic.Internal:
		return t.Internal
	default:
		return t.Info
	}
}

// Options control formatting.
type Options struct {
	Theme Theme
	// Codes includes the per-code tally.
	Codes bool
}

// Summary renders the per-severity counts on one line, most severe first.
// Severities without entries are left out.
func Summary(r *Report, theme Theme) string {
	var parts []string

	for _, s := range severities {
		n := r.Counts[s]
		if n == 0 {
			continue
		}

		style := lipgloss.NewStyle().Foreground(theme.color(s)).Bold(s >= diagnostic.Error)
		parts = append(parts, style.Render(fmt.Sprintf("%d %s", n, s)))
	}

	if len(parts) == 0 {
		return lipgloss.NewStyle().Foreground(theme.Faint).Render("no entries")
	}

	return strings.Join(parts, ", ")
}

// Format renders the entries of r, one per line, followed by the summary.
func Format(r *Report, opts Options) string {
	var sb strings.Builder

	severityWidth, codeWidth := 0, 0

	for _, e := range r.Entries {
		severityWidth = max(severityWidth, lipgloss.Width(e.Severity.String()))
		codeWidth = max(codeWidth, lipgloss.Width(e.Code))
	}

	faint := lipgloss.NewStyle().Foreground(opts.Theme.Faint)

	for _, e := range r.Entries {
		sev := lipgloss.NewStyle().
			Foreground(opts.Theme.color(e.Severity)).
			Bold(e.Severity >= diagnostic.Error).
			Width(severityWidth).
			Render(e.Severity.String())
		code := lipgloss.NewStyle().Width(codeWidth).Render(e.Code)

		line := sev + "  " + code + "  "
		if e.Record != "" {
			line += faint.Render(e.Record) + " "
		}

		sb.WriteString(line + e.Message + "\n")

		if len(e.Suggestions) > 0 {
			sb.WriteString(faint.Render("    did you mean: "+strings.Join(e.Suggestions, ", ")) + "\n")
		}
	}

	if hidden := r.Hidden(); hidden > 0 && len(r.Entries) > 0 {
		sb.WriteString(faint.Render(fmt.Sprintf("(%d more below the display level)", hidden)) + "\n")
	}

	if opts.Codes && len(r.Codes) > 0 {
		width := 0
		for _, c := range r.Codes {
			width = max(width, lipgloss.Width(c.Code))
		}

		for _, c := range r.Codes {
			code := lipgloss.NewStyle().Foreground(opts.Theme.color(c.Severity)).Width(width).Render(c.Code)
			fmt.Fprintf(&sb, "%s %6d\n", code, c.Count)
		}
	}

	sb.WriteString(Summary(r, opts.Theme) + "\n")

	return sb.String()
}
