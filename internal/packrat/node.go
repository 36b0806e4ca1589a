package packrat

import (
	"fmt"
	"strings"
)

// Node is a matched region of the input. Offsets count characters, not
// bytes.
type Node struct {
	Text     string
	Offset   int
	Elements []*Node
	// Class is the node class the generated parser would instantiate.
	Class string
	// Actions lists the action types mixed into the node, innermost first.
	Actions []string

	labels map[string]int
}

// Label returns the element bound to name, or nil when the node's class
// has no such label.
func (n *Node) Label(name string) *Node {
	i, ok := n.labels[name]
	if !ok || i >= len(n.Elements) {
		return nil
	}
	return n.Elements[i]
}

// extend returns a copy of n carrying one more action type. Memoised nodes
// are never modified.
func (n *Node) extend(action string) *Node {
	if action == "" {
		return n
	}
	c := *n
	c.Actions = append(append([]string(nil), n.Actions...), action)
	return &c
}

// Format renders the tree one node per line, children indented.
func (n *Node) Format() string {
	var sb strings.Builder
	n.format(&sb, "", 0)
	return sb.String()
}

func (n *Node) format(sb *strings.Builder, label string, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if label != "" {
		sb.WriteString(label + ": ")
	}
	fmt.Fprintf(sb, "%s %q @%d", n.Class, n.Text, n.Offset)
	if len(n.Actions) > 0 {
		fmt.Fprintf(sb, " <%s>", strings.Join(n.Actions, ", "))
	}
	sb.WriteString("\n")

	names := make(map[int]string, len(n.labels))
	for name, i := range n.labels {
		names[i] = name
	}
	for i, el := range n.Elements {
		el.format(sb, names[i], depth+1)
	}
}
