package backend

// Block is a unit of nested emission. It receives the builder that owns the
// enclosing scope, which may be a child of the one that opened the block.
type Block func(b Builder)

// Var is a local variable request: a base name and its initial value.
type Var struct {
	Name  string
	Value string
}

// Builder is the interface every target language implements. The compiler
// drives it in grammar order; each method either writes target source
// immediately or returns an expression fragment for the caller to embed.
type Builder interface {
	// Serialize returns the generated source once the driver is done.
	Serialize() string
	// OutputPathname maps a grammar path to the generated file's path.
	OutputPathname(inputPathname string) string

	// Structure
	Package(name string, body Block)
	SyntaxNodeClass() string
	GrammarModule(body Block)
	ParserClass(root string)
	Exports()
	Class(name, parent string, body Block)
	Constructor(args []string, body Block)
	Method(name string, args []string, body Block)
	Attributes(names []string)
	Attribute(name, value string)

	// Packrat machinery
	Cache(rule string, body func(b Builder, address string))
	Chunk(length int) string
	SyntaxNode(address, actionType, start, text, bump, elements, nodeClass string)
	ExtendNode(address, actionType string)
	CopyNode(address string)
	Failure(address, expected string)
	Jump(address, rule string)

	// Locals
	LocalVar(name, value string) string
	LocalVars(vars ...Var) []string

	// Statements
	Assign(name, value string)
	If(cond string, then, otherwise Block)
	Unless(cond string, then, otherwise Block)
	WhileNotNull(expr string, body Block)
	Return(expr string)
	Append(list, value string)
	ConcatText(str, node string)
	Decrement(variable string)

	// Expressions
	Quote(s string) string
	StringMatch(expr, s string) string
	StringMatchCI(expr, s string) string
	RegexMatch(pattern, expr string) string
	ArrayLookup(expr, index string) string
	StringLength(expr string) string
	Slice(start, end string) string
	And(left, right string) string
	IsNull(expr string) string
	IsZero(expr string) string
	Offset() string
	EmptyList() string
	EmptyString() string
	True() string
	Null() string
}
