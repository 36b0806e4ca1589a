package ir

import "strconv"

// Describe returns how a failed terminal is reported to the user, e.g.
// "foo" for a literal or [0-9] for a character class. Non-terminals have no
// description of their own and return "".
func Describe(e Expr) string {
	switch e := e.(type) {
	case *Literal:
		if e.CaseInsensitive {
			return "`" + e.Value + "`"
		}
		return strconv.Quote(e.Value)
	case *CharClass:
		return e.Source
	case *AnyChar:
		return "<any char>"
	}
	return ""
}
