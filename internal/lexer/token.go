package lexer

import "fmt"

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	UNTERMINATED
	EOF

	// Literals
	IDENT      // digit, Foo
	STRING_LIT // "abc" or 'abc'
	CI_LIT     // `abc`
	CLASS_LIT  // [a-z]

	// Keywords
	GRAMMAR

	// Operators
	ARROW    // <-
	SLASH    // /
	STAR     // *
	PLUS     // +
	QUESTION // ?
	AMP      // &
	BANG     // !
	DOT      // .

	// Delimiters
	LPAREN // (
	RPAREN // )
	LT     // <
	GT     // >
	COLON  // :
)

// Token represents a lexical token. Literal holds the raw source text;
// Value holds the decoded contents of string literals.
type Token struct {
	Type    TokenType
	Literal string
	Value   string
	Line    int
	Column  int
}

var tokenNames = map[TokenType]string{
	ILLEGAL:      "ILLEGAL",
	UNTERMINATED: "UNTERMINATED",
	EOF:          "EOF",
	IDENT:        "IDENT",
	STRING_LIT:   "STRING_LIT",
	CI_LIT:       "CI_LIT",
	CLASS_LIT:    "CLASS_LIT",
	GRAMMAR:      "grammar",
	ARROW:        "<-",
	SLASH:        "/",
	STAR:         "*",
	PLUS:         "+",
	QUESTION:     "?",
	AMP:          "&",
	BANG:         "!",
	DOT:          ".",
	LPAREN:       "(",
	RPAREN:       ")",
	LT:           "<",
	GT:           ">",
	COLON:        ":",
}

// String returns a string representation of the token type
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// String returns a debug representation of the token
func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, t.Literal, t.Line, t.Column)
}

var keywords = map[string]TokenType{
	"grammar": GRAMMAR,
}

// LookupIdent returns the keyword token type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
