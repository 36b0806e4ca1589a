package ast

import (
	"fmt"
	"strings"
)

// Print returns the grammar in canonical source form, one rule per line.
// Parsing the output yields an equivalent grammar.
func Print(g *Grammar) string {
	var sb strings.Builder
	sb.WriteString("grammar " + g.Name + "\n")
	for _, r := range g.Rules {
		fmt.Fprintf(&sb, "  %s <- %s\n", r.Name, String(r.Expr))
	}
	return sb.String()
}

// String returns the source form of a single expression
func String(expr Expression) string {
	var sb strings.Builder
	printExpr(&sb, expr, precChoice)
	return sb.String()
}

// precedence levels, loosest binding first
const (
	precChoice = iota
	precSequence
	precPrefix
	precSuffix
)

func printExpr(sb *strings.Builder, expr Expression, ctx int) {
	switch e := expr.(type) {
	case *ChoiceExpr:
		wrap(sb, ctx > precChoice, func() {
			for i, alt := range e.Alternatives {
				if i > 0 {
					sb.WriteString(" / ")
				}
				printExpr(sb, alt, precSequence)
			}
		})

	case *TypedExpr:
		wrap(sb, ctx > precSequence, func() {
			printExpr(sb, e.Expr, precSequence)
			sb.WriteString(" <" + e.TypeName + ">")
		})

	case *SequenceExpr:
		wrap(sb, ctx > precSequence, func() {
			for i, el := range e.Elements {
				if i > 0 {
					sb.WriteString(" ")
				}
				printExpr(sb, el, precPrefix)
			}
		})

	case *LabelledExpr:
		wrap(sb, ctx > precPrefix, func() {
			sb.WriteString(e.Label + ":")
			printExpr(sb, e.Expr, precPrefix)
		})

	case *PredicateExpr:
		wrap(sb, ctx > precPrefix, func() {
			if e.Positive {
				sb.WriteString("&")
			} else {
				sb.WriteString("!")
			}
			printExpr(sb, e.Expr, precSuffix)
		})

	case *RepeatExpr:
		wrap(sb, ctx > precSuffix, func() {
			printExpr(sb, e.Expr, precSuffix+1)
			sb.WriteByte(e.Op)
		})

	case *LiteralExpr:
		sb.WriteString(e.Raw)

	case *ClassExpr:
		sb.WriteString(e.Raw)

	case *AnyExpr:
		sb.WriteString(".")

	case *ReferenceExpr:
		sb.WriteString(e.Name)

	default:
		fmt.Fprintf(sb, "<unknown %T>", expr)
	}
}

func wrap(sb *strings.Builder, parens bool, body func()) {
	if parens {
		sb.WriteString("(")
	}
	body()
	if parens {
		sb.WriteString(")")
	}
}
