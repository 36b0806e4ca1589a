package packrat

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ParseError records the farthest offset any terminal failed at and every
// description expected there, in the order they were tried.
type ParseError struct {
	Input    string
	Offset   int
	Expected []string
}

func (e *ParseError) Error() string {
	return FormatError(e)
}

// record notes that expected failed to match at offset. A farther offset
// replaces what was expected before; the same offset adds to it.
func (e *ParseError) record(offset int, expected string) {
	if offset > e.Offset {
		e.Offset = offset
		e.Expected = []string{expected}
		return
	}
	if offset < e.Offset {
		return
	}
	for _, x := range e.Expected {
		if x == expected {
			return
		}
	}
	e.Expected = append(e.Expected, expected)
}

// FormatError renders a parse error as the generated parsers do:
//
//	Line 2: expected "x"
//	cde
//	 ^
func FormatError(e *ParseError) string {
	lines := strings.Split(e.Input, "\n")
	lineNo, offset := 0, 0
	for offset <= e.Offset && lineNo < len(lines) {
		offset += utf8.RuneCountInString(lines[lineNo]) + 1
		lineNo++
	}
	line := lines[lineNo-1]
	offset -= utf8.RuneCountInString(line) + 1

	pad := e.Offset - offset
	if pad < 0 {
		pad = 0
	}
	return fmt.Sprintf("Line %d: expected %s\n%s\n%s^",
		lineNo, strings.Join(e.Expected, " or "), line, strings.Repeat(" ", pad))
}
