// Package packrat runs a compiled grammar directly, without generating
// code. It follows the semantics of the generated parsers exactly: ordered
// choice, greedy repetition, one memo entry per rule and offset, and
// farthest-failure error reporting.
package packrat

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/y8/canopy/internal/ir"
)

// Stats counts rule activity during one parse.
type Stats struct {
	// Calls is every rule invocation, including memo hits.
	Calls int
	// Evaluations is how many times a rule body actually ran.
	Evaluations int
	MemoHits    int
}

// Option configures a parse.
type Option func(*parser)

// WithoutMemo disables the memo table. Results are the same; only the
// amount of work changes.
func WithoutMemo() Option {
	return func(p *parser) { p.memoize = false }
}

// WithStats collects rule counters into s.
func WithStats(s *Stats) Option {
	return func(p *parser) { p.stats = s }
}

type memoKey struct {
	rule   string
	offset int
}

type memoEntry struct {
	node *Node // nil for a memoised failure
	end  int
}

type parser struct {
	grammar *ir.Grammar
	source  string
	input   []rune
	offset  int

	memoize bool
	memo    map[memoKey]memoEntry
	stats   *Stats

	err     *ParseError
	classes map[string]map[string]int
	regexps map[string]*regexp.Regexp
}

// Parse matches input against g starting from its root rule. The whole
// input must be consumed. Failures are returned as *ParseError.
func Parse(g *ir.Grammar, input string, opts ...Option) (*Node, error) {
	root := g.Root()
	if root == nil {
		return nil, fmt.Errorf("grammar %s has no rules", g.Name)
	}

	p := &parser{
		grammar: g,
		source:  input,
		input:   []rune(input),
		memoize: true,
		memo:    make(map[memoKey]memoEntry),
		stats:   &Stats{},
		classes: make(map[string]map[string]int),
		regexps: make(map[string]*regexp.Regexp),
	}
	for _, opt := range opts {
		opt(p)
	}
	for _, c := range g.NodeClasses {
		labels := make(map[string]int, len(c.Labels))
		for _, l := range c.Labels {
			labels[l.Name] = l.Index
		}
		p.classes[c.Name] = labels
	}

	tree := p.rule(root.Name)
	if tree != nil && p.offset == len(p.input) {
		return tree, nil
	}
	if tree != nil {
		p.fail("<EOF>")
	}
	if p.err == nil {
		p.err = &ParseError{Input: input, Offset: p.offset, Expected: []string{"<EOF>"}}
	}
	return nil, p.err
}

func (p *parser) rule(name string) *Node {
	p.stats.Calls++
	key := memoKey{name, p.offset}
	if p.memoize {
		if e, ok := p.memo[key]; ok {
			p.stats.MemoHits++
			if e.node != nil {
				p.offset = e.end
			}
			return e.node
		}
	}

	r := p.grammar.Rule(name)
	if r == nil {
		panic(fmt.Sprintf("packrat: undefined rule %q", name))
	}
	p.stats.Evaluations++
	node := p.eval(r.Expr)
	if p.memoize {
		p.memo[key] = memoEntry{node: node, end: p.offset}
	}
	return node
}

func (p *parser) fail(expected string) {
	if p.err == nil {
		p.err = &ParseError{Input: p.source, Offset: p.offset, Expected: []string{expected}}
		return
	}
	p.err.record(p.offset, expected)
}

func (p *parser) node(start int, elements []*Node, class, action string) *Node {
	if class == "" {
		class = "SyntaxNode"
	}
	n := &Node{
		Text:     string(p.input[start:p.offset]),
		Offset:   start,
		Elements: elements,
		Class:    class,
		labels:   p.classes[class],
	}
	return n.extend(action)
}

// eval matches e at the current offset. On failure it returns nil and
// leaves the offset where it was.
func (p *parser) eval(e ir.Expr) *Node {
	switch e := e.(type) {
	case *ir.Literal:
		return p.terminal(e, len([]rune(e.Value)), func(chunk string) bool {
			if e.CaseInsensitive {
				return strings.ToLower(chunk) == strings.ToLower(e.Value)
			}
			return chunk == e.Value
		})

	case *ir.CharClass:
		re := p.regexp(e.Source)
		return p.terminal(e, 1, re.MatchString)

	case *ir.AnyChar:
		return p.terminal(e, 1, func(string) bool { return true })

	case *ir.Reference:
		n := p.rule(e.Name)
		if n == nil {
			return nil
		}
		return n.extend(e.ActionType())

	case *ir.Sequence:
		start := p.offset
		elements := make([]*Node, 0, len(e.Elements))
		for _, el := range e.Elements {
			n := p.eval(el)
			if n == nil {
				p.offset = start
				return nil
			}
			elements = append(elements, n)
		}
		return p.node(start, elements, e.Class, e.ActionType())

	case *ir.Choice:
		start := p.offset
		for _, alt := range e.Alternatives {
			if n := p.eval(alt); n != nil {
				return n.extend(e.ActionType())
			}
			p.offset = start
		}
		return nil

	case *ir.Repeat:
		start := p.offset
		var elements []*Node
		for {
			n := p.eval(e.Expr)
			if n == nil {
				break
			}
			elements = append(elements, n)
		}
		if len(elements) < e.Min {
			p.offset = start
			return nil
		}
		if elements == nil {
			elements = []*Node{}
		}
		return p.node(start, elements, "", e.ActionType())

	case *ir.Maybe:
		start := p.offset
		if n := p.eval(e.Expr); n != nil {
			return n.extend(e.ActionType())
		}
		return p.node(start, []*Node{}, "", e.ActionType())

	case *ir.Predicate:
		start := p.offset
		n := p.eval(e.Expr)
		p.offset = start
		if (n != nil) != e.Positive {
			return nil
		}
		return p.node(start, []*Node{}, "", e.ActionType())
	}
	panic(fmt.Sprintf("packrat: unexpected expression %T", e))
}

// terminal reads length characters and builds a leaf when match accepts
// them. Too little input left counts as a mismatch.
func (p *parser) terminal(e ir.Expr, length int, match func(string) bool) *Node {
	if p.offset+length <= len(p.input) {
		chunk := string(p.input[p.offset : p.offset+length])
		if match(chunk) {
			start := p.offset
			p.offset += length
			return p.node(start, []*Node{}, "", e.ActionType())
		}
	}
	p.fail(ir.Describe(e))
	return nil
}

func (p *parser) regexp(source string) *regexp.Regexp {
	re, ok := p.regexps[source]
	if !ok {
		re = regexp.MustCompile(source)
		p.regexps[source] = re
	}
	return re
}
