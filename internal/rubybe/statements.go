package rubybe

import (
	"fmt"

	"github.com/y8/canopy/internal/backend"
)

func (b *Builder) Assign(name, value string) {
	b.line(name + " = " + value)
}

// Jump calls the reader method for rule and stores its result.
func (b *Builder) Jump(address, rule string) {
	b.Assign(address, "_read_"+rule)
}

func (b *Builder) If(cond string, then, otherwise backend.Block) {
	b.conditional("if", cond, then, otherwise)
}

func (b *Builder) Unless(cond string, then, otherwise backend.Block) {
	b.conditional("unless", cond, then, otherwise)
}

func (b *Builder) conditional(kw, cond string, then, otherwise backend.Block) {
	b.line(kw + " " + cond)
	b.nested(then)
	if otherwise != nil {
		b.line("else")
		b.nested(otherwise)
	}
	b.line("end")
}

func (b *Builder) WhileNotNull(expr string, body backend.Block) {
	b.line("until " + b.IsNull(expr))
	b.nested(body)
	b.line("end")
}

func (b *Builder) Return(expr string) {
	b.line("return " + expr)
}

func (b *Builder) Append(list, value string) {
	b.line(list + " << " + value)
}

func (b *Builder) ConcatText(str, node string) {
	b.line(str + " << " + node + ".text")
}

func (b *Builder) Decrement(variable string) {
	b.line(variable + " -= 1")
}

func (b *Builder) StringMatch(expr, s string) string {
	return expr + " == " + quote(s)
}

func (b *Builder) StringMatchCI(expr, s string) string {
	return expr + ".downcase == " + quote(s) + ".downcase"
}

func (b *Builder) RegexMatch(pattern, expr string) string {
	return expr + " =~ " + regexLiteral(pattern)
}

func (b *Builder) ArrayLookup(expr, index string) string {
	return expr + "[" + index + "]"
}

func (b *Builder) StringLength(expr string) string {
	return expr + ".size"
}

// Slice is the input text between two offsets, end exclusive.
func (b *Builder) Slice(start, end string) string {
	return fmt.Sprintf("@input[%s...%s]", start, end)
}

func (b *Builder) And(left, right string) string {
	return left + " and " + right
}

func (b *Builder) IsNull(expr string) string {
	return expr + ".nil?"
}

func (b *Builder) IsZero(expr string) string {
	return expr + " <= 0"
}

func (b *Builder) Offset() string      { return "@offset" }
func (b *Builder) EmptyList() string   { return "[]" }
func (b *Builder) EmptyString() string { return `""` }
func (b *Builder) True() string        { return "true" }
func (b *Builder) Null() string        { return "nil" }
