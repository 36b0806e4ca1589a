// Package rubybe generates packrat parsers in Ruby.
//
// A Builder is a node in a tree of emitters. The root owns the output
// buffer; every child forwards its writes to its parent and starts at the
// indentation its parent had when the child was created. Method and class
// bodies get their own child so local variable counters restart per
// generated routine.
package rubybe

import (
	"path/filepath"
	"strings"

	"github.com/y8/canopy/internal/backend"
)

const indentUnit = "  "

// Builder emits Ruby source. The zero value is not usable; call New.
type Builder struct {
	parent *Builder

	// root only
	buffer     *strings.Builder
	pendingPad string

	indentLevel     int
	methodSeparator string
	varIndex        map[string]int
}

var _ backend.Builder = (*Builder)(nil)

// New returns a root builder with an empty buffer.
func New() *Builder {
	return &Builder{
		buffer:   &strings.Builder{},
		varIndex: make(map[string]int),
	}
}

// child returns a builder that writes through b and starts at b's depth.
func (b *Builder) child() *Builder {
	return &Builder{
		parent:      b,
		indentLevel: b.indentLevel,
		varIndex:    make(map[string]int),
	}
}

func (b *Builder) root() *Builder {
	for b.parent != nil {
		b = b.parent
	}
	return b
}

// Serialize returns everything written so far, terminated by a newline.
func (b *Builder) Serialize() string {
	out := b.root().buffer.String()
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

// OutputPathname swaps the grammar file's extension for .rb.
func (b *Builder) OutputPathname(inputPathname string) string {
	return strings.TrimSuffix(inputPathname, filepath.Ext(inputPathname)) + ".rb"
}

// write appends s verbatim to the root buffer. Indentation requested by the
// last newline is flushed first, so blank lines carry no trailing spaces.
func (b *Builder) write(s string) {
	r := b.root()
	if s == "" {
		return
	}
	if r.pendingPad != "" {
		r.buffer.WriteString(r.pendingPad)
		r.pendingPad = ""
	}
	r.buffer.WriteString(s)
}

// newline starts a new line indented to b's depth. The first line of the
// file needs no break.
func (b *Builder) newline() {
	r := b.root()
	if r.buffer.Len() > 0 {
		r.buffer.WriteString("\n")
	}
	r.pendingPad = strings.Repeat(indentUnit, b.indentLevel)
}

func (b *Builder) line(source string) {
	b.newline()
	b.write(source)
}

// indent runs block one level deeper. The level is restored however block
// returns.
func (b *Builder) indent(block func(*Builder)) {
	b.indentLevel++
	defer func() { b.indentLevel-- }()
	block(b)
}

// nested runs a public block one level deeper on b.
func (b *Builder) nested(block backend.Block) {
	if block == nil {
		panic("rubybe: nil block")
	}
	b.indent(func(b *Builder) { block(b) })
}
