package lexer

import "strings"

// Lexer scans grammar source and produces tokens
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int  // current line number
	column       int  // current column number
}

// New creates a new Lexer instance
func New(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
	}
	l.readChar()
	return l
}

// readChar reads the next character and advances the position
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peekChar returns the next character without advancing the position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// skipWhitespace skips whitespace and # comments
func (l *Lexer) skipWhitespace() {
	for {
		switch {
		case l.ch == '\n':
			l.readChar()
			l.line++
			l.column = 1
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readChar()
		case l.ch == '#':
			for l.ch != '\n' && !l.atEOF() {
				l.readChar()
			}
		default:
			return
		}
	}
}

// readIdentifier reads an identifier or keyword
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readQuoted reads a literal delimited by quote, decoding escapes. It stops
// on the closing quote, which is left as the current char.
func (l *Lexer) readQuoted(quote byte) (string, TokenType) {
	var sb strings.Builder
	for {
		l.readChar()
		if l.atEOF() {
			return "", UNTERMINATED
		}
		if l.ch == '\n' {
			return "", ILLEGAL
		}
		if l.ch == quote {
			return sb.String(), STRING_LIT
		}
		if l.ch == '\\' {
			l.readChar()
			if l.atEOF() {
				return "", UNTERMINATED
			}
			sb.WriteByte(unescape(l.ch))
			continue
		}
		sb.WriteByte(l.ch)
	}
}

// readClass reads a character class, keeping its source as-is.
func (l *Lexer) readClass() TokenType {
	for {
		l.readChar()
		if l.atEOF() {
			return UNTERMINATED
		}
		if l.ch == '\n' {
			return ILLEGAL
		}
		if l.ch == ']' {
			return CLASS_LIT
		}
		if l.ch == '\\' {
			l.readChar()
			if l.atEOF() {
				return UNTERMINATED
			}
		}
	}
}

func unescape(ch byte) byte {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case 'a':
		return '\a'
	case 'b':
		return '\b'
	case 'v':
		return '\v'
	case 'f':
		return '\f'
	case 'e':
		return 0x1b
	case '0':
		return 0
	default:
		return ch
	}
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	tok := Token{Line: l.line, Column: l.column}
	single := func(tt TokenType) Token {
		tok.Type = tt
		tok.Literal = string(l.ch)
		return tok
	}

	if l.atEOF() {
		tok.Type = EOF
		return tok
	}

	switch l.ch {
	case '<':
		if l.peekChar() == '-' {
			l.readChar()
			tok.Type = ARROW
			tok.Literal = "<-"
		} else {
			tok = single(LT)
		}
	case '>':
		tok = single(GT)
	case '/':
		tok = single(SLASH)
	case '*':
		tok = single(STAR)
	case '+':
		tok = single(PLUS)
	case '?':
		tok = single(QUESTION)
	case '&':
		tok = single(AMP)
	case '!':
		tok = single(BANG)
	case '.':
		tok = single(DOT)
	case '(':
		tok = single(LPAREN)
	case ')':
		tok = single(RPAREN)
	case ':':
		tok = single(COLON)
	case '"', '\'', '`':
		quote := l.ch
		start := l.position
		value, tt := l.readQuoted(quote)
		if tt != STRING_LIT {
			tok.Type = tt
			tok.Literal = "unterminated string"
			return tok
		}
		if quote == '`' {
			tt = CI_LIT
		}
		tok.Type = tt
		tok.Literal = l.input[start : l.position+1]
		tok.Value = value
	case '[':
		start := l.position
		if tt := l.readClass(); tt != CLASS_LIT {
			tok.Type = tt
			tok.Literal = "unterminated character class"
			return tok
		}
		tok.Type = CLASS_LIT
		tok.Literal = l.input[start : l.position+1]
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = LookupIdent(tok.Literal)
			return tok // readIdentifier already advanced
		}
		tok = single(ILLEGAL)
	}

	l.readChar()
	return tok
}

// Tokenize returns all tokens from the input
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			break
		}
	}
	return tokens
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
