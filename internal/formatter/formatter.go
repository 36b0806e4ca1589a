package formatter

import (
	"strings"

	"github.com/y8/canopy/internal/ast"
	"github.com/y8/canopy/internal/diagnostic"
	"github.com/y8/canopy/internal/parser"
)

// MaxWidth is the line length past which a choice is split, one
// alternative per line.
const MaxWidth = 80

// Format takes a grammar AST and returns canonical grammar source. Rule
// arrows are aligned, and long choices continue on following lines with
// the slash under the arrow. Comments are not part of the AST and are
// dropped.
func Format(g *ast.Grammar) string {
	f := &formatter{indent: 1}
	f.formatGrammar(g)
	return f.sb.String()
}

// FormatSource parses source and formats it. The diagnostics carry any
// parse errors, in which case the string is empty.
func FormatSource(source string) (string, *diagnostic.Diagnostics) {
	p := parser.New(source)
	g := p.Parse()
	if p.Diagnostics().HasErrors() {
		return "", p.Diagnostics()
	}
	return Format(g), p.Diagnostics()
}

type formatter struct {
	sb     strings.Builder
	indent int
}

// --- helpers ---

func (f *formatter) emitLine(s string) {
	if s == "" {
		f.sb.WriteString("\n")
		return
	}
	f.sb.WriteString(f.indentStr())
	f.sb.WriteString(s)
	f.sb.WriteString("\n")
}

func (f *formatter) indentStr() string {
	return strings.Repeat("  ", f.indent)
}

// --- grammar-level ---

func (f *formatter) formatGrammar(g *ast.Grammar) {
	f.sb.WriteString("grammar " + g.Name + "\n")

	width := 0
	for _, r := range g.Rules {
		if len(r.Name) > width {
			width = len(r.Name)
		}
	}
	for _, r := range g.Rules {
		f.formatRule(r, width)
	}
}

func (f *formatter) formatRule(r *ast.Rule, width int) {
	head := r.Name + strings.Repeat(" ", width-len(r.Name)) + " <- "
	body := ast.String(r.Expr)

	choice, ok := r.Expr.(*ast.ChoiceExpr)
	if !ok || len(f.indentStr())+len(head)+len(body) <= MaxWidth {
		f.emitLine(head + body)
		return
	}

	cont := strings.Repeat(" ", width) + "  / "
	for i, alt := range choice.Alternatives {
		if i == 0 {
			f.emitLine(head + ast.String(alt))
			continue
		}
		f.emitLine(cont + ast.String(alt))
	}
}
