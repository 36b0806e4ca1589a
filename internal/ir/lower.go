package ir

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/y8/canopy/internal/ast"
	"github.com/y8/canopy/internal/diagnostic"
)

// lowerer transforms a grammar AST into IR, resolving references and
// allocating node classes for labelled sequences.
type lowerer struct {
	rules      map[string]*ast.Rule
	names      []string
	referenced map[string]bool
	classes    []*NodeClass
	diags      *diagnostic.Diagnostics
}

// Lower transforms a parsed grammar into IR. Problems that can be pinned
// to a source position (duplicate or undefined rules, bad labels, invalid
// character classes) are reported as diagnostics.
func Lower(g *ast.Grammar) (*Grammar, *diagnostic.Diagnostics) {
	l := &lowerer{
		rules:      make(map[string]*ast.Rule),
		referenced: make(map[string]bool),
		diags:      diagnostic.New(),
	}

	for _, r := range g.Rules {
		if prev, ok := l.rules[r.Name]; ok {
			l.diags.Errorf(r.Line, r.Column, "rule '%s' already defined at line %d", r.Name, prev.Line)
			continue
		}
		l.rules[r.Name] = r
		l.names = append(l.names, r.Name)
	}

	if !isConstantPath(g.Name) {
		l.diags.Errorf(g.Line, g.Column, "grammar name '%s' must start each segment with an uppercase letter", g.Name)
	}

	out := &Grammar{Name: g.Name}
	for _, r := range g.Rules {
		if l.rules[r.Name] != r {
			continue
		}
		out.Rules = append(out.Rules, &Rule{Name: r.Name, Expr: l.lowerExpr(r.Expr)})
	}
	out.NodeClasses = l.classes

	for i, r := range g.Rules {
		if i > 0 && l.rules[r.Name] == r && !l.referenced[r.Name] {
			l.diags.Warningf(r.Line, r.Column, "rule '%s' is never referenced", r.Name)
		}
	}

	return out, l.diags
}

func (l *lowerer) lowerExpr(expr ast.Expression) Expr {
	switch e := expr.(type) {
	case *ast.ChoiceExpr:
		c := &Choice{}
		for _, alt := range e.Alternatives {
			c.Alternatives = append(c.Alternatives, l.lowerExpr(alt))
		}
		return c

	case *ast.TypedExpr:
		if !isConstantPath(e.TypeName) {
			l.diags.Errorf(e.Line, e.Column, "node type '%s' must start each segment with an uppercase letter", e.TypeName)
		}
		inner := l.lowerExpr(e.Expr)
		inner.setActionType(e.TypeName)
		return inner

	case *ast.SequenceExpr:
		return l.lowerSequence(e)

	case *ast.LabelledExpr:
		l.diags.Warningf(e.Line, e.Column, "label '%s' outside a sequence has no effect", e.Label)
		return l.lowerExpr(e.Expr)

	case *ast.PredicateExpr:
		return &Predicate{Positive: e.Positive, Expr: l.lowerExpr(e.Expr)}

	case *ast.RepeatExpr:
		inner := l.lowerExpr(e.Expr)
		switch e.Op {
		case '*':
			return &Repeat{Min: 0, Expr: inner}
		case '+':
			return &Repeat{Min: 1, Expr: inner}
		default:
			return &Maybe{Expr: inner}
		}

	case *ast.LiteralExpr:
		return &Literal{Value: e.Value, CaseInsensitive: e.CaseInsensitive}

	case *ast.ClassExpr:
		if _, err := regexp.Compile(e.Raw); err != nil {
			l.diags.Errorf(e.Line, e.Column, "invalid character class %s: %v", e.Raw, err)
		}
		return &CharClass{Source: e.Raw}

	case *ast.AnyExpr:
		return &AnyChar{}

	case *ast.ReferenceExpr:
		if _, ok := l.rules[e.Name]; !ok {
			if near := closestRule(e.Name, l.names); near != "" {
				l.diags.Errorf(e.Line, e.Column, "undefined rule '%s' (did you mean '%s'?)", e.Name, near)
			} else {
				l.diags.Errorf(e.Line, e.Column, "undefined rule '%s'", e.Name)
			}
		}
		l.referenced[e.Name] = true
		return &Reference{Name: e.Name}
	}
	panic(fmt.Sprintf("ir: unexpected expression %T", expr))
}

// lowerSequence lowers a sequence and, when any element is labelled or is
// a plain rule reference, allocates a node class exposing those elements.
// Implicit labels use the rule name and are dropped when a name repeats.
func (l *lowerer) lowerSequence(e *ast.SequenceExpr) Expr {
	seq := &Sequence{}
	var labels []*Label
	explicit := make(map[string]bool)
	implicit := make(map[string]int)

	for i, el := range e.Elements {
		switch el := el.(type) {
		case *ast.LabelledExpr:
			if explicit[el.Label] {
				l.diags.Errorf(el.Line, el.Column, "duplicate label '%s' in sequence", el.Label)
			}
			if reservedLabels[el.Label] {
				l.diags.Errorf(el.Line, el.Column, "label '%s' clashes with a syntax node attribute", el.Label)
			}
			explicit[el.Label] = true
			labels = append(labels, &Label{Name: el.Label, Index: i})
			seq.Elements = append(seq.Elements, l.lowerExpr(el.Expr))
			continue
		case *ast.ReferenceExpr:
			implicit[el.Name]++
		}
		seq.Elements = append(seq.Elements, l.lowerExpr(el))
	}

	for i, el := range e.Elements {
		ref, ok := el.(*ast.ReferenceExpr)
		if !ok || implicit[ref.Name] > 1 || explicit[ref.Name] || reservedLabels[ref.Name] {
			continue
		}
		labels = append(labels, &Label{Name: ref.Name, Index: i})
	}

	if len(labels) > 0 {
		class := &NodeClass{
			Name:   fmt.Sprintf("TreeNode%d", len(l.classes)+1),
			Labels: sortLabels(labels),
		}
		l.classes = append(l.classes, class)
		seq.Class = class.Name
	}
	return seq
}

// sortLabels orders labels by element index.
func sortLabels(labels []*Label) []*Label {
	sort.SliceStable(labels, func(i, j int) bool {
		return labels[i].Index < labels[j].Index
	})
	return labels
}

// isConstantPath reports whether every dotted segment of name can be a
// Ruby constant.
func isConstantPath(name string) bool {
	for _, seg := range strings.Split(name, ".") {
		if seg == "" || seg[0] < 'A' || seg[0] > 'Z' {
			return false
		}
	}
	return true
}

// reservedLabels are attributes of the base syntax node and the Object
// methods that generated code or callers rely on.
var reservedLabels = map[string]bool{
	"text":     true,
	"offset":   true,
	"elements": true,
	"each":     true,

	"class":           true,
	"clone":           true,
	"display":         true,
	"dup":             true,
	"extend":          true,
	"freeze":          true,
	"hash":            true,
	"inspect":         true,
	"itself":          true,
	"method":          true,
	"methods":         true,
	"object_id":       true,
	"public_send":     true,
	"send":            true,
	"singleton_class": true,
	"tap":             true,
	"then":            true,
	"to_s":            true,
}
