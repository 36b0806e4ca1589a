// Package testgen produces sample inputs for a grammar. Candidates are
// derived from the rule expressions with a seeded generator, then kept only
// if the grammar actually accepts them, so every sample is a valid input.
package testgen

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/y8/canopy/internal/ir"
	"github.com/y8/canopy/internal/packrat"
)

// DefaultCount is the number of samples produced when none is requested.
const DefaultCount = 10

// MaxRepeat bounds how many extra iterations a repetition gets beyond its
// minimum.
const MaxRepeat = 3

// MaxDepth is the rule nesting depth after which the generator only takes
// the shortest way out of each expression.
const MaxDepth = 8

// attemptsPerSample bounds the work spent on grammars whose candidates are
// mostly rejected.
const attemptsPerSample = 25

// candidates are the characters tried for classes and the wildcard.
var candidates = func() []rune {
	var rs []rune
	for r := rune(0x20); r < 0x7f; r++ {
		rs = append(rs, r)
	}
	return append(rs, '\t', '\n', '\r', 'é', 'λ', '世')
}()

// Samples returns up to count distinct inputs accepted by g. The same seed
// always gives the same samples.
func Samples(g *ir.Grammar, count int, seed uint64) []string {
	root := g.Root()
	if root == nil || count <= 0 {
		return nil
	}
	if seed == 0 {
		seed = 0x517cc1b727220a95
	}
	gen := &generator{
		grammar: g,
		rng:     seed,
		heights: ruleHeights(g),
		regexps: make(map[string]*regexp.Regexp),
	}
	if gen.heights[root.Name] == math.MaxInt {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for i := 0; i < count*attemptsPerSample && len(out) < count; i++ {
		var sb strings.Builder
		if !gen.expr(&sb, &ir.Reference{Name: root.Name}, 0) {
			continue
		}
		s := sb.String()
		if seen[s] {
			continue
		}
		seen[s] = true
		if _, err := packrat.Parse(g, s); err == nil {
			out = append(out, s)
		}
	}
	return out
}

type generator struct {
	grammar *ir.Grammar
	rng     uint64
	heights map[string]int
	regexps map[string]*regexp.Regexp
}

func (g *generator) next(lo, hi int64) int64 {
	g.rng = xorshift64(g.rng)
	return randRange(g.rng, lo, hi)
}

// expr appends one string matched by e. Past MaxDepth every choice takes
// the alternative with the shallowest derivation, so generation ends.
func (g *generator) expr(sb *strings.Builder, e ir.Expr, depth int) bool {
	short := depth > MaxDepth
	switch e := e.(type) {
	case *ir.Literal:
		if !e.CaseInsensitive {
			sb.WriteString(e.Value)
			return true
		}
		for _, r := range e.Value {
			if g.next(0, 1) == 0 {
				r = unicode.ToUpper(r)
			} else {
				r = unicode.ToLower(r)
			}
			sb.WriteRune(r)
		}
		return true

	case *ir.CharClass:
		re := g.regexp(e.Source)
		start := int(g.next(0, int64(len(candidates)-1)))
		for i := range candidates {
			r := candidates[(start+i)%len(candidates)]
			if re.MatchString(string(r)) {
				sb.WriteRune(r)
				return true
			}
		}
		return false

	case *ir.AnyChar:
		sb.WriteRune(candidates[g.next(0, int64(len(candidates)-1))])
		return true

	case *ir.Reference:
		r := g.grammar.Rule(e.Name)
		if r == nil || g.heights[e.Name] == math.MaxInt {
			return false
		}
		return g.expr(sb, r.Expr, depth+1)

	case *ir.Sequence:
		for _, el := range e.Elements {
			if !g.expr(sb, el, depth) {
				return false
			}
		}
		return true

	case *ir.Choice:
		alt := e.Alternatives[g.next(0, int64(len(e.Alternatives)-1))]
		if short {
			alt = g.shallowest(e.Alternatives)
		}
		return g.expr(sb, alt, depth)

	case *ir.Repeat:
		n := int64(e.Min)
		if !short {
			n = g.next(int64(e.Min), int64(e.Min+MaxRepeat))
		}
		for i := int64(0); i < n; i++ {
			if !g.expr(sb, e.Expr, depth) {
				return false
			}
		}
		return true

	case *ir.Maybe:
		if short || g.next(0, 1) == 0 {
			return true
		}
		return g.expr(sb, e.Expr, depth)

	case *ir.Predicate:
		// lookahead consumes nothing; the acceptance check decides
		return true
	}
	return false
}

func (g *generator) shallowest(alts []ir.Expr) ir.Expr {
	best, bestHeight := alts[0], math.MaxInt
	for _, alt := range alts {
		if h := height(alt, g.heights); h < bestHeight {
			best, bestHeight = alt, h
		}
	}
	return best
}

func (g *generator) regexp(source string) *regexp.Regexp {
	re, ok := g.regexps[source]
	if !ok {
		re = regexp.MustCompile(source)
		g.regexps[source] = re
	}
	return re
}

// ruleHeights computes, for every rule, the least nesting of rule calls
// needed to derive a string from it. Rules that cannot finish get
// math.MaxInt.
func ruleHeights(g *ir.Grammar) map[string]int {
	heights := make(map[string]int, len(g.Rules))
	for _, r := range g.Rules {
		heights[r.Name] = math.MaxInt
	}
	for changed := true; changed; {
		changed = false
		for _, r := range g.Rules {
			if h := height(r.Expr, heights); h < heights[r.Name] {
				heights[r.Name] = h
				changed = true
			}
		}
	}
	return heights
}

func height(e ir.Expr, heights map[string]int) int {
	switch e := e.(type) {
	case *ir.Reference:
		h, ok := heights[e.Name]
		if !ok || h == math.MaxInt {
			return math.MaxInt
		}
		return h + 1
	case *ir.Sequence:
		deepest := 0
		for _, el := range e.Elements {
			if h := height(el, heights); h > deepest {
				deepest = h
			}
		}
		return deepest
	case *ir.Choice:
		shallow := math.MaxInt
		for _, alt := range e.Alternatives {
			if h := height(alt, heights); h < shallow {
				shallow = h
			}
		}
		return shallow
	case *ir.Repeat:
		if e.Min == 0 {
			return 0
		}
		return height(e.Expr, heights)
	}
	return 0
}

// xorshift64 is a simple deterministic PRNG.
func xorshift64(state uint64) uint64 {
	state ^= state << 13
	state ^= state >> 7
	state ^= state << 17
	return state
}

// randRange maps a PRNG state to a value in [lo, hi].
func randRange(state uint64, lo, hi int64) int64 {
	if lo >= hi {
		return lo
	}
	r := hi - lo + 1
	return lo + int64(state%uint64(r))
}
