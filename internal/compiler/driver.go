package compiler

import (
	"strconv"
	"unicode/utf8"

	"github.com/y8/canopy/internal/backend"
	"github.com/y8/canopy/internal/ir"
)

// generator walks a compiled grammar and drives a target builder.
type generator struct {
	grammar   *ir.Grammar
	nodeClass string
}

// Generate emits a complete parser for g through b and returns the source.
func Generate(g *ir.Grammar, b backend.Builder) string {
	if g.Root() == nil {
		panic("compiler: grammar " + g.Name + " has no rules")
	}
	gen := &generator{grammar: g}
	b.Package(g.Name, func(b backend.Builder) {
		gen.nodeClass = b.SyntaxNodeClass()
		for _, c := range g.NodeClasses {
			gen.emitNodeClass(b, c)
		}
		b.GrammarModule(func(b backend.Builder) {
			for _, r := range g.Rules {
				gen.emitRule(b, r)
			}
		})
		b.ParserClass(g.Root().Name)
		b.Exports()
	})
	return b.Serialize()
}

// emitNodeClass emits a node subclass with one accessor per label.
func (gen *generator) emitNodeClass(b backend.Builder, c *ir.NodeClass) {
	names := make([]string, len(c.Labels))
	for i, l := range c.Labels {
		names[i] = l.Name
	}
	b.Class(c.Name, gen.nodeClass, func(b backend.Builder) {
		b.Attributes(names)
		b.Constructor([]string{"text", "offset", "elements"}, func(b backend.Builder) {
			for _, l := range c.Labels {
				b.Attribute(l.Name, b.ArrayLookup("elements", strconv.Itoa(l.Index)))
			}
		})
	})
}

func (gen *generator) emitRule(b backend.Builder, r *ir.Rule) {
	b.Method("_read_"+r.Name, nil, func(b backend.Builder) {
		b.Cache(r.Name, func(b backend.Builder, address string) {
			gen.emitExpr(b, r.Expr, address)
		})
	})
}

// emitExpr emits code that leaves the match of e in address, or nil with
// the offset unchanged.
func (gen *generator) emitExpr(b backend.Builder, e ir.Expr, address string) {
	switch e := e.(type) {
	case *ir.Literal:
		gen.emitLiteral(b, e, address)
	case *ir.CharClass:
		chunk := b.Chunk(1)
		gen.emitTerminal(b, e, address, chunk, b.And(chunk, b.RegexMatch(e.Source, chunk)), 1)
	case *ir.AnyChar:
		chunk := b.Chunk(1)
		gen.emitTerminal(b, e, address, chunk, chunk, 1)
	case *ir.Reference:
		b.Jump(address, e.Name)
		gen.emitExtend(b, address, e.ActionType())
	case *ir.Sequence:
		gen.emitSequence(b, e, address)
	case *ir.Choice:
		index := b.LocalVar("index", b.Offset())
		gen.emitAlternatives(b, e.Alternatives, address, index)
		gen.emitExtend(b, address, e.ActionType())
	case *ir.Repeat:
		gen.emitRepeat(b, e, address)
	case *ir.Maybe:
		index := b.LocalVar("index", b.Offset())
		gen.emitExpr(b, e.Expr, address)
		b.If(b.IsNull(address), func(b backend.Builder) {
			b.SyntaxNode(address, "", index, b.EmptyString(), "", "", "")
		}, nil)
		gen.emitExtend(b, address, e.ActionType())
	case *ir.Predicate:
		gen.emitPredicate(b, e, address)
	default:
		panic("compiler: unexpected expression type")
	}
}

func (gen *generator) emitLiteral(b backend.Builder, e *ir.Literal, address string) {
	length := utf8.RuneCountInString(e.Value)
	chunk := b.Chunk(length)
	match := b.StringMatch(chunk, e.Value)
	if e.CaseInsensitive {
		match = b.StringMatchCI(chunk, e.Value)
	}
	gen.emitTerminal(b, e, address, chunk, b.And(chunk, match), length)
}

// emitTerminal builds a leaf node from chunk when cond holds and records a
// failure otherwise.
func (gen *generator) emitTerminal(b backend.Builder, e ir.Expr, address, chunk, cond string, length int) {
	b.If(cond, func(b backend.Builder) {
		b.SyntaxNode(address, e.ActionType(), b.Offset(), chunk, strconv.Itoa(length), "", "")
	}, func(b backend.Builder) {
		b.Failure(address, ir.Describe(e))
	})
}

func (gen *generator) emitSequence(b backend.Builder, e *ir.Sequence, address string) {
	vars := b.LocalVars(
		backend.Var{Name: "index", Value: b.Offset()},
		backend.Var{Name: "elements", Value: b.EmptyList()},
	)
	index, elements := vars[0], vars[1]
	gen.emitElements(b, e.Elements, elements, index)
	b.If(elements, func(b backend.Builder) {
		b.SyntaxNode(address, e.ActionType(), index, b.Slice(index, b.Offset()), "", elements, e.Class)
	}, func(b backend.Builder) {
		b.Assign(address, b.Null())
	})
}

// emitElements matches each element in turn, nesting the rest inside the
// success branch. Any failure clears elements and rewinds to index.
func (gen *generator) emitElements(b backend.Builder, exprs []ir.Expr, elements, index string) {
	if len(exprs) == 0 {
		return
	}
	address := b.LocalVar("address", b.Null())
	gen.emitExpr(b, exprs[0], address)
	b.If(address, func(b backend.Builder) {
		b.Append(elements, address)
		gen.emitElements(b, exprs[1:], elements, index)
	}, func(b backend.Builder) {
		b.Assign(elements, b.Null())
		b.Assign(b.Offset(), index)
	})
}

func (gen *generator) emitAlternatives(b backend.Builder, alts []ir.Expr, address, index string) {
	gen.emitExpr(b, alts[0], address)
	if len(alts) == 1 {
		return
	}
	b.If(b.IsNull(address), func(b backend.Builder) {
		b.Assign(b.Offset(), index)
		gen.emitAlternatives(b, alts[1:], address, index)
	}, nil)
}

func (gen *generator) emitRepeat(b backend.Builder, e *ir.Repeat, address string) {
	vars := b.LocalVars(
		backend.Var{Name: "remaining", Value: strconv.Itoa(e.Min)},
		backend.Var{Name: "index", Value: b.Offset()},
		backend.Var{Name: "elements", Value: b.EmptyList()},
		backend.Var{Name: "address", Value: b.True()},
	)
	remaining, index, elements, item := vars[0], vars[1], vars[2], vars[3]
	b.WhileNotNull(item, func(b backend.Builder) {
		gen.emitExpr(b, e.Expr, item)
		b.If(item, func(b backend.Builder) {
			b.Append(elements, item)
			b.Decrement(remaining)
		}, nil)
	})
	b.If(b.IsZero(remaining), func(b backend.Builder) {
		b.SyntaxNode(address, e.ActionType(), index, b.Slice(index, b.Offset()), "", elements, "")
	}, func(b backend.Builder) {
		b.Assign(address, b.Null())
		b.Assign(b.Offset(), index)
	})
}

// emitPredicate runs the lookahead and always rewinds. Success yields an
// empty node.
func (gen *generator) emitPredicate(b backend.Builder, e *ir.Predicate, address string) {
	index := b.LocalVar("index", b.Offset())
	gen.emitExpr(b, e.Expr, address)
	b.Assign(b.Offset(), index)
	empty := func(b backend.Builder) {
		b.SyntaxNode(address, e.ActionType(), index, b.EmptyString(), "", "", "")
	}
	if e.Positive {
		b.If(address, empty, nil)
		return
	}
	b.If(b.IsNull(address), empty, func(b backend.Builder) {
		b.Assign(address, b.Null())
	})
}

// emitExtend mixes actionType into a node that was built elsewhere. That
// node may be the one held in the memo cache, so a copy is extended.
func (gen *generator) emitExtend(b backend.Builder, address, actionType string) {
	if actionType == "" {
		return
	}
	b.If(address, func(b backend.Builder) {
		b.CopyNode(address)
		b.ExtendNode(address, actionType)
	}, nil)
}
