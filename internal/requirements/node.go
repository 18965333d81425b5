package requirements

import "strings"

// Operator joins the two children of a binary requirement node.
type Operator string

const (
	OpNone Operator = ""
	OpAnd  Operator = "^"
	OpOr   Operator = "|"
)

// Node is one node of a parsed requirement tree. A leaf carries a course code
// (or "" for no requirement); a binary node carries an operator and both children.
type Node struct {
	Op    Operator
	Text  string
	Left  *Node
	Right *Node
}

// Leaf builds a leaf node.
func Leaf(text string) *Node {
	return &Node{Text: text}
}

// Binary builds an operator node owning both children.
func Binary(op Operator, left, right *Node) *Node {
	return &Node{Op: op, Left: left, Right: right}
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return n.Op == OpNone
}

// IsEmpty reports whether the node is the "no requirement" leaf.
func (n *Node) IsEmpty() bool {
	return n.IsLeaf() && n.Text == ""
}

// String renders the tree fully parenthesized, so the grouping chosen by the
// parser is visible.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b, true)
	return b.String()
}

func (n *Node) write(b *strings.Builder, root bool) {
	if n.IsLeaf() {
		b.WriteString(n.Text)
		return
	}
	if !root {
		b.WriteByte('(')
	}
	n.Left.write(b, false)
	b.WriteString(string(n.Op))
	n.Right.write(b, false)
	if !root {
		b.WriteByte(')')
	}
}

// Equal reports whether two trees have the same shape and content.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Op != other.Op || n.Text != other.Text {
		return false
	}
	return n.Left.Equal(other.Left) && n.Right.Equal(other.Right)
}

// Evaluate reports whether the completed courses satisfy the requirement.
func Evaluate(n *Node, completed map[string]bool) bool {
	switch n.Op {
	case OpAnd:
		return Evaluate(n.Left, completed) && Evaluate(n.Right, completed)
	case OpOr:
		return Evaluate(n.Left, completed) || Evaluate(n.Right, completed)
	default:
		return n.Text == "" || completed[n.Text]
	}
}

// Leaves returns every course code referenced by the tree, each once, in
// left-to-right order of first appearance.
func Leaves(n *Node) []string {
	seen := make(map[string]bool)
	var out []string
	var walk func(*Node)
	walk = func(n *Node) {
		if n.IsLeaf() {
			if n.Text != "" && !seen[n.Text] {
				seen[n.Text] = true
				out = append(out, n.Text)
			}
			return
		}
		walk(n.Left)
		walk(n.Right)
	}
	walk(n)
	return out
}
