package parser

import (
	"strings"

	"github.com/y8/canopy/internal/ast"
	"github.com/y8/canopy/internal/diagnostic"
	"github.com/y8/canopy/internal/lexer"
)

// New creates a new parser
func New(source string) *Parser {
	l := lexer.New(source)
	return &Parser{
		tokens: l.Tokenize(),
		diags:  diagnostic.New(),
	}
}

// Diagnostics returns the parser's diagnostics
func (p *Parser) Diagnostics() *diagnostic.Diagnostics {
	return p.diags
}

// Parse parses a complete grammar file: the header followed by its rules.
func (p *Parser) Parse() *ast.Grammar {
	tok := p.expect(lexer.GRAMMAR)
	g := &ast.Grammar{
		Name:   p.parseDottedName(),
		Line:   tok.Line,
		Column: tok.Column,
	}
	g.Rules = p.ParseRules()
	if len(g.Rules) == 0 && !p.diags.HasErrors() {
		end := p.current()
		p.errorAt(end, "grammar %s has no rules", g.Name)
	}
	return g
}

// ParseRules parses rule definitions until end of input.
func (p *Parser) ParseRules() []*ast.Rule {
	var rules []*ast.Rule
	for !p.check(lexer.EOF) {
		if !p.atRuleStart() {
			tok := p.current()
			p.errorAt(tok, "expected rule definition, got %s", describe(tok))
			start := p.pos
			p.synchronize()
			if p.pos == start {
				p.advance() // ensure forward progress
			}
			continue
		}
		rules = append(rules, p.parseRule())
	}
	return rules
}

// parseRule parses: name <- expression
func (p *Parser) parseRule() *ast.Rule {
	name := p.expect(lexer.IDENT)
	p.expect(lexer.ARROW)
	rule := &ast.Rule{Name: name.Literal, Line: name.Line, Column: name.Column}
	before := p.diags.Count()
	rule.Expr = p.parseChoice()
	if !p.check(lexer.EOF) && !p.atRuleStart() {
		if p.diags.Count() == before {
			tok := p.current()
			p.errorAt(tok, "unexpected %s in rule '%s'", describe(tok), rule.Name)
		}
		p.synchronize()
	}
	return rule
}

// parseDottedName parses: ident (. ident)*
func (p *Parser) parseDottedName() string {
	parts := []string{p.expect(lexer.IDENT).Literal}
	for p.check(lexer.DOT) && p.peek().Type == lexer.IDENT {
		p.advance()
		parts = append(parts, p.advance().Literal)
	}
	return strings.Join(parts, ".")
}

// parseChoice parses: typed (/ typed)*
func (p *Parser) parseChoice() ast.Expression {
	tok := p.current()
	first := p.parseTyped()
	if !p.check(lexer.SLASH) {
		return first
	}
	choice := &ast.ChoiceExpr{
		Alternatives: []ast.Expression{first},
		Line:         tok.Line,
		Column:       tok.Column,
	}
	for p.match(lexer.SLASH) {
		choice.Alternatives = append(choice.Alternatives, p.parseTyped())
	}
	return choice
}

// parseTyped parses: sequence [<Type.Name>]
func (p *Parser) parseTyped() ast.Expression {
	tok := p.current()
	seq := p.parseSequence()
	if !p.check(lexer.LT) {
		return seq
	}
	p.advance()
	name := p.parseDottedName()
	p.expect(lexer.GT)
	return &ast.TypedExpr{Expr: seq, TypeName: name, Line: tok.Line, Column: tok.Column}
}

func (p *Parser) atSequenceEnd() bool {
	switch p.current().Type {
	case lexer.EOF, lexer.SLASH, lexer.RPAREN, lexer.LT:
		return true
	}
	return p.atRuleStart()
}

// parseSequence parses one or more prefix expressions
func (p *Parser) parseSequence() ast.Expression {
	tok := p.current()
	var elements []ast.Expression
	for !p.atSequenceEnd() {
		el := p.parsePrefix()
		if el == nil {
			// already reported
			return &ast.SequenceExpr{Elements: elements, Line: tok.Line, Column: tok.Column}
		}
		elements = append(elements, el)
	}
	switch len(elements) {
	case 0:
		p.errorAt(p.current(), "expected expression, got %s", describe(p.current()))
		return &ast.SequenceExpr{Line: tok.Line, Column: tok.Column}
	case 1:
		return elements[0]
	}
	return &ast.SequenceExpr{Elements: elements, Line: tok.Line, Column: tok.Column}
}

// parsePrefix parses: label:prefix | &suffix | !suffix | suffix
func (p *Parser) parsePrefix() ast.Expression {
	tok := p.current()
	switch {
	case tok.Type == lexer.IDENT && p.peek().Type == lexer.COLON:
		p.advance()
		p.advance()
		inner := p.parsePrefix()
		if inner == nil {
			return nil
		}
		return &ast.LabelledExpr{Label: tok.Literal, Expr: inner, Line: tok.Line, Column: tok.Column}
	case tok.Type == lexer.AMP || tok.Type == lexer.BANG:
		p.advance()
		inner := p.parseSuffix()
		if inner == nil {
			return nil
		}
		return &ast.PredicateExpr{Positive: tok.Type == lexer.AMP, Expr: inner, Line: tok.Line, Column: tok.Column}
	}
	return p.parseSuffix()
}

// parseSuffix parses: primary (* | + | ?)*
func (p *Parser) parseSuffix() ast.Expression {
	tok := p.current()
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}
	for {
		var op byte
		switch p.current().Type {
		case lexer.STAR:
			op = '*'
		case lexer.PLUS:
			op = '+'
		case lexer.QUESTION:
			op = '?'
		default:
			return expr
		}
		p.advance()
		expr = &ast.RepeatExpr{Op: op, Expr: expr, Line: tok.Line, Column: tok.Column}
	}
}

// parsePrimary parses an atom or a parenthesised choice. It returns nil
// after reporting an error.
func (p *Parser) parsePrimary() ast.Expression {
	tok := p.current()
	switch tok.Type {
	case lexer.STRING_LIT, lexer.CI_LIT:
		p.advance()
		return &ast.LiteralExpr{
			Value:           tok.Value,
			Raw:             tok.Literal,
			CaseInsensitive: tok.Type == lexer.CI_LIT,
			Line:            tok.Line,
			Column:          tok.Column,
		}
	case lexer.CLASS_LIT:
		p.advance()
		return &ast.ClassExpr{Raw: tok.Literal, Line: tok.Line, Column: tok.Column}
	case lexer.DOT:
		p.advance()
		return &ast.AnyExpr{Line: tok.Line, Column: tok.Column}
	case lexer.IDENT:
		p.advance()
		return &ast.ReferenceExpr{Name: tok.Literal, Line: tok.Line, Column: tok.Column}
	case lexer.LPAREN:
		p.advance()
		inner := p.parseChoice()
		p.expect(lexer.RPAREN)
		return inner
	}
	p.errorAt(tok, "expected expression, got %s", describe(tok))
	if tok.Type != lexer.EOF {
		p.advance()
	}
	return nil
}
