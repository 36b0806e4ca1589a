package parser

import (
	"github.com/y8/canopy/internal/diagnostic"
	"github.com/y8/canopy/internal/lexer"
)

// Parser holds the parser state
type Parser struct {
	tokens []lexer.Token
	pos    int
	diags  *diagnostic.Diagnostics
}

// current returns the current token
func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

// peek returns the next token without consuming
func (p *Parser) peek() lexer.Token {
	if p.pos+1 >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos+1]
}

// advance moves to the next token and returns the consumed token
func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches the expected type,
// otherwise reports an error
func (p *Parser) expect(tt lexer.TokenType) lexer.Token {
	tok := p.current()
	if tok.Type != tt {
		p.errorAt(tok, "expected %s, got %s", tt, describe(tok))
		return tok
	}
	return p.advance()
}

// check returns true if the current token is of the given type
func (p *Parser) check(tt lexer.TokenType) bool {
	return p.current().Type == tt
}

// match consumes the current token if it matches, returns true if consumed
func (p *Parser) match(tt lexer.TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

// atRuleStart reports whether the current tokens begin a new rule: name <-
func (p *Parser) atRuleStart() bool {
	return p.check(lexer.IDENT) && p.peek().Type == lexer.ARROW
}

// errorAt records an error at tok. Errors at end of input, or caused by an
// unterminated literal, are flagged as incomplete.
func (p *Parser) errorAt(tok lexer.Token, format string, args ...interface{}) {
	if tok.Type == lexer.EOF || tok.Type == lexer.UNTERMINATED {
		p.diags.IncompleteErrorf(tok.Line, tok.Column, format, args...)
		return
	}
	p.diags.Errorf(tok.Line, tok.Column, format, args...)
}

// synchronize skips tokens until the start of the next rule.
func (p *Parser) synchronize() {
	for !p.check(lexer.EOF) && !p.atRuleStart() {
		p.advance()
	}
}

func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF:
		return "end of input"
	case lexer.ILLEGAL, lexer.UNTERMINATED:
		return tok.Literal
	default:
		return "'" + tok.Literal + "'"
	}
}
