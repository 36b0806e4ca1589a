package diagnostic

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a diagnostic message
type Severity int

const (
	Error Severity = iota
	Warning
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic is a single problem found in a grammar file.
type Diagnostic struct {
	Severity Severity
	Message  string
	Line     int
	Column   int
	// Incomplete marks errors caused by input ending in the middle of a
	// construct. Interactive callers read more input instead of reporting them.
	Incomplete bool
}

// Diagnostics manages a collection of diagnostic messages
type Diagnostics struct {
	items []Diagnostic
}

// New creates a new empty Diagnostics collection
func New() *Diagnostics {
	return &Diagnostics{}
}

// Errorf adds an error diagnostic with formatted message
func (d *Diagnostics) Errorf(line, col int, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
	})
}

// IncompleteErrorf adds an error caused by premature end of input.
func (d *Diagnostics) IncompleteErrorf(line, col int, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Severity:   Error,
		Message:    fmt.Sprintf(format, args...),
		Line:       line,
		Column:     col,
		Incomplete: true,
	})
}

// Warningf adds a warning diagnostic with formatted message
func (d *Diagnostics) Warningf(line, col int, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
	})
}

// Merge appends every diagnostic of other.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}
	d.items = append(d.items, other.items...)
}

// HasErrors returns true if there are any error-level diagnostics
func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.items {
		if item.Severity == Error {
			return true
		}
	}
	return false
}

// IsIncomplete reports whether every error was caused by the input ending
// early, i.e. more input could still make the source valid.
func (d *Diagnostics) IsIncomplete() bool {
	seen := false
	for _, item := range d.items {
		if item.Severity != Error {
			continue
		}
		if !item.Incomplete {
			return false
		}
		seen = true
	}
	return seen
}

// Errors returns only the error-level diagnostics
func (d *Diagnostics) Errors() []Diagnostic {
	var errors []Diagnostic
	for _, item := range d.items {
		if item.Severity == Error {
			errors = append(errors, item)
		}
	}
	return errors
}

// All returns all diagnostics regardless of severity
func (d *Diagnostics) All() []Diagnostic {
	return d.items
}

// Count returns the total number of diagnostics
func (d *Diagnostics) Count() int {
	return len(d.items)
}

// Format returns human-readable messages, one per line:
//
//	error[grammar.peg:3:10]: undefined rule 'digit'
//	warning[grammar.peg:5:1]: rule 'unused' is never referenced
func (d *Diagnostics) Format(filename string) string {
	var builder strings.Builder
	for i, item := range d.items {
		if i > 0 {
			builder.WriteString("\n")
		}
		fmt.Fprintf(&builder, "%s[%s:%d:%d]: %s",
			item.Severity, filename, item.Line, item.Column, item.Message)
	}
	return builder.String()
}

// Excerpt renders the source line a diagnostic points at with a caret under
// its column. It returns "" when the line is out of range.
func Excerpt(source string, item Diagnostic) string {
	lines := strings.Split(source, "\n")
	if item.Line < 1 || item.Line > len(lines) {
		return ""
	}
	line := lines[item.Line-1]
	col := item.Column
	if col < 1 {
		col = 1
	}
	return line + "\n" + strings.Repeat(" ", col-1) + "^"
}
