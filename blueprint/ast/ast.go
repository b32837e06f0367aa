// Package ast holds the parsed blueprint tree: a sequence of Nodes, each
// either a literal text run, a variable reference, or a snippet with nested
// children (component E's output).
package ast

// Node is a single parsed blueprint construct.
type Node struct {
	// Literal text, set only when Name == "".
	Text string

	// Name is the directive's main command (e.g. "each", "if", "func",
	// "import", "link", "br", "ref", "exec"), empty for a plain literal run.
	Name string
	// Sub is the dotted sub-command (e.g. "field" in each.field).
	Sub string
	// Arg is the directive's bare trailing argument.
	Arg string

	// Children holds the body of an open/close directive; empty for
	// self-closing directives and literals.
	Children []Node
}

// IsLiteral reports whether this node is a plain text run.
func (n Node) IsLiteral() bool { return n.Name == "" }
