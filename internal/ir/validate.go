package ir

import (
	"fmt"
	"strings"
)

// Validate checks a grammar for constructs a packrat parser cannot run:
// left recursion and repetition of expressions that can match the empty
// string (both loop forever). It returns a list of error messages; an empty
// slice means the grammar is valid.
func Validate(g *Grammar) []string {
	var errors []string

	if len(g.Rules) == 0 {
		return []string{fmt.Sprintf("grammar %s has no rules", g.Name)}
	}

	v := &validator{grammar: g, nullable: make(map[string]bool)}
	v.computeNullable()

	for _, r := range g.Rules {
		errors = append(errors, v.checkRepeats(r.Expr, r.Name)...)
	}
	errors = append(errors, v.checkLeftRecursion()...)
	return errors
}

type validator struct {
	grammar  *Grammar
	nullable map[string]bool
}

// computeNullable iterates to a fixed point over the rules.
func (v *validator) computeNullable() {
	for changed := true; changed; {
		changed = false
		for _, r := range v.grammar.Rules {
			if !v.nullable[r.Name] && v.isNullable(r.Expr) {
				v.nullable[r.Name] = true
				changed = true
			}
		}
	}
}

// isNullable reports whether expr can succeed without consuming input.
func (v *validator) isNullable(expr Expr) bool {
	switch e := expr.(type) {
	case *Choice:
		for _, alt := range e.Alternatives {
			if v.isNullable(alt) {
				return true
			}
		}
		return false
	case *Sequence:
		for _, el := range e.Elements {
			if !v.isNullable(el) {
				return false
			}
		}
		return true
	case *Repeat:
		return e.Min == 0 || v.isNullable(e.Expr)
	case *Maybe, *Predicate:
		return true
	case *Literal:
		return e.Value == ""
	case *CharClass, *AnyChar:
		return false
	case *Reference:
		return v.nullable[e.Name]
	}
	return false
}

func (v *validator) checkRepeats(expr Expr, rule string) []string {
	var errors []string
	switch e := expr.(type) {
	case *Choice:
		for _, alt := range e.Alternatives {
			errors = append(errors, v.checkRepeats(alt, rule)...)
		}
	case *Sequence:
		for _, el := range e.Elements {
			errors = append(errors, v.checkRepeats(el, rule)...)
		}
	case *Repeat:
		if v.isNullable(e.Expr) {
			errors = append(errors, fmt.Sprintf("rule %s: repeated expression can match empty input", rule))
		}
		errors = append(errors, v.checkRepeats(e.Expr, rule)...)
	case *Maybe:
		errors = append(errors, v.checkRepeats(e.Expr, rule)...)
	case *Predicate:
		errors = append(errors, v.checkRepeats(e.Expr, rule)...)
	}
	return errors
}

// leftCalls collects the rules expr may invoke before consuming any input.
func (v *validator) leftCalls(expr Expr, out map[string]bool) {
	switch e := expr.(type) {
	case *Choice:
		for _, alt := range e.Alternatives {
			v.leftCalls(alt, out)
		}
	case *Sequence:
		for _, el := range e.Elements {
			v.leftCalls(el, out)
			if !v.isNullable(el) {
				return
			}
		}
	case *Repeat:
		v.leftCalls(e.Expr, out)
	case *Maybe:
		v.leftCalls(e.Expr, out)
	case *Predicate:
		v.leftCalls(e.Expr, out)
	case *Reference:
		out[e.Name] = true
	}
}

// checkLeftRecursion finds cycles in the left-call graph.
func (v *validator) checkLeftRecursion() []string {
	edges := make(map[string][]string)
	for _, r := range v.grammar.Rules {
		calls := make(map[string]bool)
		v.leftCalls(r.Expr, calls)
		// keep declaration order for deterministic messages
		for _, other := range v.grammar.Rules {
			if calls[other.Name] {
				edges[r.Name] = append(edges[r.Name], other.Name)
			}
		}
	}

	var errors []string
	reported := make(map[string]bool)
	visiting := make(map[string]bool)
	visited := make(map[string]bool)

	var visit func(name string, stack []string)
	visit = func(name string, stack []string) {
		if visiting[name] {
			start := 0
			for i, s := range stack {
				if s == name {
					start = i
					break
				}
			}
			cycle := append(append([]string{}, stack[start:]...), name)
			if !reported[name] {
				errors = append(errors, "left recursion: "+strings.Join(cycle, " -> "))
				for _, s := range cycle {
					reported[s] = true
				}
			}
			return
		}
		if visited[name] {
			return
		}
		visiting[name] = true
		stack = append(stack, name)
		for _, next := range edges[name] {
			visit(next, stack)
		}
		visiting[name] = false
		visited[name] = true
	}

	for _, r := range v.grammar.Rules {
		visit(r.Name, nil)
	}
	return errors
}
