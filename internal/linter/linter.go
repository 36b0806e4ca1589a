package linter

import (
	"strings"
	"unicode"

	"github.com/y8/canopy/internal/ast"
	"github.com/y8/canopy/internal/diagnostic"
)

// Linter performs style and best-practice checks on a grammar AST.
// It reports warnings (never errors) using the diagnostic system.
type Linter struct {
	grammar *ast.Grammar
	diag    *diagnostic.Diagnostics
}

// Lint runs all lint rules on the given grammar and returns diagnostics.
func Lint(g *ast.Grammar) *diagnostic.Diagnostics {
	l := &Linter{
		grammar: g,
		diag:    diagnostic.New(),
	}

	l.checkGrammarNaming()
	for _, r := range g.Rules {
		l.checkRuleNaming(r)
		l.lintExpr(r.Name, r.Expr)
	}

	return l.diag
}

func (l *Linter) checkGrammarNaming() {
	for _, seg := range strings.Split(l.grammar.Name, ".") {
		if !isPascalCase(seg) {
			l.diag.Warningf(l.grammar.Line, l.grammar.Column,
				"grammar name '%s' should use PascalCase segments", l.grammar.Name)
			return
		}
	}
}

// checkRuleNaming warns if a rule name is not snake_case.
func (l *Linter) checkRuleNaming(r *ast.Rule) {
	if !isSnakeCase(r.Name) {
		l.diag.Warningf(r.Line, r.Column,
			"rule '%s' should use snake_case naming", r.Name)
	}
}

// lintExpr walks an expression tree and applies the per-node checks.
func (l *Linter) lintExpr(rule string, expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.ChoiceExpr:
		l.checkUnreachableAlternatives(rule, e)
		l.checkDuplicateAlternatives(rule, e)
		for _, alt := range e.Alternatives {
			l.lintExpr(rule, alt)
		}
	case *ast.SequenceExpr:
		for _, el := range e.Elements {
			l.lintExpr(rule, el)
		}
	case *ast.TypedExpr:
		l.checkTypeNaming(e)
		l.lintExpr(rule, e.Expr)
	case *ast.LabelledExpr:
		if !isSnakeCase(e.Label) {
			l.diag.Warningf(e.Line, e.Column,
				"label '%s' in rule '%s' should use snake_case naming", e.Label, rule)
		}
		l.lintExpr(rule, e.Expr)
	case *ast.PredicateExpr:
		l.lintExpr(rule, e.Expr)
	case *ast.RepeatExpr:
		l.lintExpr(rule, e.Expr)
	case *ast.LiteralExpr:
		if e.Value == "" {
			l.diag.Warningf(e.Line, e.Column,
				"empty literal in rule '%s' always matches", rule)
		}
	}
}

// checkTypeNaming warns if a node type is not a dotted PascalCase name.
func (l *Linter) checkTypeNaming(e *ast.TypedExpr) {
	for _, seg := range strings.Split(e.TypeName, ".") {
		if !isPascalCase(seg) {
			l.diag.Warningf(e.Line, e.Column,
				"node type '%s' should use PascalCase segments", e.TypeName)
			return
		}
	}
}

// checkUnreachableAlternatives warns about alternatives that follow one
// which can never fail.
func (l *Linter) checkUnreachableAlternatives(rule string, c *ast.ChoiceExpr) {
	for i, alt := range c.Alternatives[:len(c.Alternatives)-1] {
		if alwaysSucceeds(alt) {
			next := c.Alternatives[i+1]
			line, col := next.Pos()
			l.diag.Warningf(line, col,
				"alternative %s in rule '%s' is unreachable: %s always matches",
				ast.String(next), rule, ast.String(alt))
			return
		}
	}
}

// checkDuplicateAlternatives warns when the same alternative is spelled
// twice in one choice. The second copy can only run after the first failed,
// so it fails too.
func (l *Linter) checkDuplicateAlternatives(rule string, c *ast.ChoiceExpr) {
	seen := make(map[string]bool)
	for _, alt := range c.Alternatives {
		src := ast.String(alt)
		if seen[src] {
			line, col := alt.Pos()
			l.diag.Warningf(line, col,
				"duplicate alternative %s in rule '%s'", src, rule)
			continue
		}
		seen[src] = true
	}
}

// alwaysSucceeds reports whether expr matches at every offset without
// looking at rule bodies.
func alwaysSucceeds(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.RepeatExpr:
		return e.Op == '*' || e.Op == '?'
	case *ast.LiteralExpr:
		return e.Value == ""
	case *ast.TypedExpr:
		return alwaysSucceeds(e.Expr)
	case *ast.LabelledExpr:
		return alwaysSucceeds(e.Expr)
	case *ast.SequenceExpr:
		for _, el := range e.Elements {
			if !alwaysSucceeds(el) {
				return false
			}
		}
		return true
	case *ast.ChoiceExpr:
		for _, alt := range e.Alternatives {
			if alwaysSucceeds(alt) {
				return true
			}
		}
	}
	return false
}

// --- Naming convention helpers ---

// isSnakeCase returns true if the name follows snake_case conventions:
// lowercase letters, digits, and underscores only, not starting with a digit.
func isSnakeCase(name string) bool {
	if len(name) == 0 {
		return false
	}
	for i, r := range name {
		if i == 0 && unicode.IsDigit(r) {
			return false
		}
		if !unicode.IsLower(r) && r != '_' && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isPascalCase returns true if the name starts with an uppercase letter
// and contains no underscores.
func isPascalCase(name string) bool {
	if len(name) == 0 {
		return false
	}
	runes := []rune(name)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	return !strings.ContainsRune(name, '_')
}
