package ir

// Grammar is a compiled grammar ready for code generation.
type Grammar struct {
	Name        string // dotted, e.g. "Maps.Lists"
	Rules       []*Rule
	NodeClasses []*NodeClass
}

// Root returns the rule parsing starts from: the first one declared.
func (g *Grammar) Root() *Rule {
	if len(g.Rules) == 0 {
		return nil
	}
	return g.Rules[0]
}

// Rule looks up a rule by name.
func (g *Grammar) Rule(name string) *Rule {
	for _, r := range g.Rules {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// Rule is a named parsing expression. Each rule becomes one memoized
// routine in the generated parser.
type Rule struct {
	Name string
	Expr Expr
}

// NodeClass is a generated subclass of the base syntax node that exposes
// labelled sequence elements as named accessors.
type NodeClass struct {
	Name   string
	Labels []*Label
}

// Label maps an accessor name to an element index of a sequence node.
type Label struct {
	Name  string
	Index int
}

// Expr is the interface for all parsing expressions.
type Expr interface {
	exprNode()
	// ActionType names the semantic action extended onto the node the
	// expression produces, or "" when there is none.
	ActionType() string
	setActionType(name string)
}

// Action is embedded by every expression and carries its optional
// semantic-action type.
type Action struct {
	Type string
}

func (a *Action) ActionType() string        { return a.Type }
func (a *Action) setActionType(name string) { a.Type = name }

// Choice tries each alternative in order and commits to the first success.
type Choice struct {
	Action
	Alternatives []Expr
}

// Sequence matches every element in order. Class is the node class used
// for the result, "" for the base syntax node.
type Sequence struct {
	Action
	Elements []Expr
	Class    string
}

// Predicate is a lookahead that never consumes input.
type Predicate struct {
	Action
	Positive bool
	Expr     Expr
}

// Repeat matches Expr greedily, at least Min times.
type Repeat struct {
	Action
	Min  int
	Expr Expr
}

// Maybe matches Expr or the empty string.
type Maybe struct {
	Action
	Expr Expr
}

// Literal matches a fixed string.
type Literal struct {
	Action
	Value           string
	CaseInsensitive bool
}

// CharClass matches one character against a bracket expression such as [a-z].
type CharClass struct {
	Action
	Source string
}

// AnyChar matches any single character.
type AnyChar struct {
	Action
}

// Reference invokes another rule.
type Reference struct {
	Action
	Name string
}

func (*Choice) exprNode()    {}
func (*Sequence) exprNode()  {}
func (*Predicate) exprNode() {}
func (*Repeat) exprNode()    {}
func (*Maybe) exprNode()     {}
func (*Literal) exprNode()   {}
func (*CharClass) exprNode() {}
func (*AnyChar) exprNode()   {}
func (*Reference) exprNode() {}
