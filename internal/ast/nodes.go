package ast

// Node is the base interface for all AST nodes
type Node interface {
	Pos() (line, col int)
}

// Expression nodes
type Expression interface {
	Node
	exprNode()
}

// Grammar represents an entire grammar file
type Grammar struct {
	Name   string // dotted, e.g. "Maps.Lists"
	Rules  []*Rule
	Line   int
	Column int
}

func (g *Grammar) Pos() (int, int) { return g.Line, g.Column }

// Rule represents a rule definition: name <- expr
type Rule struct {
	Name   string
	Expr   Expression
	Line   int
	Column int
}

func (r *Rule) Pos() (int, int) { return r.Line, r.Column }

// ChoiceExpr represents ordered choice: a / b / c
type ChoiceExpr struct {
	Alternatives []Expression
	Line         int
	Column       int
}

func (e *ChoiceExpr) Pos() (int, int) { return e.Line, e.Column }
func (e *ChoiceExpr) exprNode()       {}

// SequenceExpr represents a sequence: a b c
type SequenceExpr struct {
	Elements []Expression
	Line     int
	Column   int
}

func (e *SequenceExpr) Pos() (int, int) { return e.Line, e.Column }
func (e *SequenceExpr) exprNode()       {}

// TypedExpr attaches a node extension type to an alternative: a b <Foo.Bar>
type TypedExpr struct {
	Expr     Expression
	TypeName string
	Line     int
	Column   int
}

func (e *TypedExpr) Pos() (int, int) { return e.Line, e.Column }
func (e *TypedExpr) exprNode()       {}

// LabelledExpr represents a labelled sequence element: name:expr
type LabelledExpr struct {
	Label  string
	Expr   Expression
	Line   int
	Column int
}

func (e *LabelledExpr) Pos() (int, int) { return e.Line, e.Column }
func (e *LabelledExpr) exprNode()       {}

// PredicateExpr represents a lookahead: &expr or !expr
type PredicateExpr struct {
	Positive bool
	Expr     Expression
	Line     int
	Column   int
}

func (e *PredicateExpr) Pos() (int, int) { return e.Line, e.Column }
func (e *PredicateExpr) exprNode()       {}

// RepeatExpr represents a suffixed expression: expr*, expr+ or expr?
type RepeatExpr struct {
	Op     byte // '*', '+' or '?'
	Expr   Expression
	Line   int
	Column int
}

func (e *RepeatExpr) Pos() (int, int) { return e.Line, e.Column }
func (e *RepeatExpr) exprNode()       {}

// LiteralExpr represents a string literal. Raw keeps the source spelling,
// including delimiters, and is used in error messages.
type LiteralExpr struct {
	Value           string
	Raw             string
	CaseInsensitive bool
	Line            int
	Column          int
}

func (e *LiteralExpr) Pos() (int, int) { return e.Line, e.Column }
func (e *LiteralExpr) exprNode()       {}

// ClassExpr represents a character class, e.g. [a-z]
type ClassExpr struct {
	Raw    string
	Line   int
	Column int
}

func (e *ClassExpr) Pos() (int, int) { return e.Line, e.Column }
func (e *ClassExpr) exprNode()       {}

// AnyExpr represents the any-character wildcard: .
type AnyExpr struct {
	Line   int
	Column int
}

func (e *AnyExpr) Pos() (int, int) { return e.Line, e.Column }
func (e *AnyExpr) exprNode()       {}

// ReferenceExpr represents a reference to another rule
type ReferenceExpr struct {
	Name   string
	Line   int
	Column int
}

func (e *ReferenceExpr) Pos() (int, int) { return e.Line, e.Column }
func (e *ReferenceExpr) exprNode()       {}
