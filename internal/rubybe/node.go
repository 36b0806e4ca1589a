package rubybe

import (
	"fmt"
	"strings"
)

// SyntaxNode builds a node into address, mixes in the action type if there
// is one and advances the offset by bump. Empty start, elements and
// nodeClass fall back to the current offset, no children and the base
// node class.
func (b *Builder) SyntaxNode(address, actionType, start, text, bump, elements, nodeClass string) {
	if start == "" {
		start = b.Offset()
	}
	if elements == "" {
		elements = b.EmptyList()
	}
	if nodeClass == "" {
		nodeClass = "SyntaxNode"
	}
	b.Assign(address, fmt.Sprintf("%s.new(%s, %s, %s)", nodeClass, text, start, elements))
	b.ExtendNode(address, actionType)
	if bump != "" && bump != "0" {
		b.line(b.Offset() + " += " + bump)
	}
}

// CopyNode replaces address with a shallow copy that keeps the modules
// already mixed into it. Nodes returned by a rule are shared with the memo
// cache and must be copied before they are extended.
func (b *Builder) CopyNode(address string) {
	b.Assign(address, address+".clone")
}

// ExtendNode mixes the module named by a dotted action type into the node.
func (b *Builder) ExtendNode(address, actionType string) {
	if actionType == "" {
		return
	}
	b.line(address + ".extend(" + strings.ReplaceAll(actionType, ".", "::") + ")")
}
