package rubybe

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/y8/canopy/internal/backend"
)

// ruleName matches any identifier the grammar lexer produces.
var ruleName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Cache wraps a rule body in a memo lookup keyed by rule and start offset.
// Failures are memoised too, as the FAILURE sentinel, so no rule runs twice
// at one offset.
func (b *Builder) Cache(rule string, body func(b backend.Builder, address string)) {
	if !ruleName.MatchString(rule) {
		panic(fmt.Sprintf("rubybe: %q is not a valid rule name", rule))
	}
	vars := b.LocalVars(
		backend.Var{Name: "address", Value: b.Null()},
		backend.Var{Name: "index", Value: b.Offset()},
	)
	address, index := vars[0], vars[1]
	slot := fmt.Sprintf("@cache[:%s][%s]", rule, index)

	cached := b.LocalVar("cached", slot)
	b.If(cached, func(backend.Builder) {
		b.line("return " + b.Null() + " if " + cached + " == FAILURE")
		b.line(b.Offset() + " += " + b.StringLength(cached+".text"))
		b.Return(cached)
	}, nil)

	body(b, address)

	b.Assign(slot, address+" || FAILURE")
	b.Return(address)
}

// Chunk reads the next length characters into a fresh local. The local is
// nil when fewer than length characters remain.
func (b *Builder) Chunk(length int) string {
	n := strconv.Itoa(length)
	chunk := b.LocalVar("chunk", b.Null())
	end := b.Offset() + " + " + n
	b.If(end+" <= "+b.StringLength("@input"), func(backend.Builder) {
		b.Assign(chunk, b.Slice(b.Offset(), end))
	}, nil)
	return chunk
}
