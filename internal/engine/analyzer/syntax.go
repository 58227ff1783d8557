package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// python2Only are statements the grammar accepts but Python 3 rejects.
var python2Only = map[string]bool{
	"print_statement": true,
	"exec_statement":  true,
}

// clauseTypes continue a compound statement and must line up with its header.
var clauseTypes = map[string]bool{
	"elif_clause":         true,
	"else_clause":         true,
	"except_clause":       true,
	"except_group_clause": true,
	"finally_clause":      true,
}

// hasSyntaxError reports parse errors and the inputs the grammar recovers
// from or accepts although the Python 3 compiler rejects them: inconsistent
// indentation, Python 2 statements, statement-level walrus and unparenthesised
// tuples after a comprehension's "in".
func hasSyntaxError(src []byte, root *sitter.Node) bool {
	if root.HasError() {
		return true
	}
	return rejected(src, root)
}

func rejected(src []byte, n *sitter.Node) bool {
	if python2Only[n.Type()] {
		return true
	}

	switch n.Type() {
	case "module":
		if !alignedModule(src, n) {
			return true
		}
	case "block":
		if !alignedBlock(src, n) {
			return true
		}
	case "decorated_definition":
		if !alignedChildren(src, n, func(*sitter.Node) bool { return true }) {
			return true
		}
	case "expression_statement", "assignment", "augmented_assignment":
		if hasNamedChild(n, "named_expression") {
			return true
		}
	case "for_in_clause":
		if tupleAfterIn(n) {
			return true
		}
	case "argument_list":
		if bareGenerator(src, n) {
			return true
		}
	}
	if !alignedChildren(src, n, func(c *sitter.Node) bool { return clauseTypes[c.Type()] }) {
		return true
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		if rejected(src, n.NamedChild(i)) {
			return true
		}
	}
	return false
}

// alignedModule requires every statement that begins a line to start at
// column zero.
func alignedModule(src []byte, n *sitter.Node) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if isExtra(c) {
			continue
		}
		if indent, ok := leadingIndent(src, c.StartByte()); ok && indent != "" {
			return false
		}
	}
	return true
}

// alignedBlock requires the statements of a block that begin a line to share
// one indentation, deeper than the line holding the block's header.
func alignedBlock(src []byte, n *sitter.Node) bool {
	header := ""
	if p := n.Parent(); p != nil {
		header = lineIndent(src, p.StartByte())
	}

	want, seen := "", false
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if isExtra(c) {
			continue
		}
		indent, ok := leadingIndent(src, c.StartByte())
		if !ok {
			continue
		}
		if !seen {
			if !deeper(indent, header) {
				return false
			}
			want, seen = indent, true
			continue
		}
		if !sameIndent(indent, want) {
			return false
		}
	}
	return true
}

// alignedChildren requires the selected children of n that begin a line to
// share the indentation of the line n starts on.
func alignedChildren(src []byte, n *sitter.Node, selected func(*sitter.Node) bool) bool {
	var header string
	var resolved bool
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if isExtra(c) || !selected(c) {
			continue
		}
		indent, ok := leadingIndent(src, c.StartByte())
		if !ok {
			continue
		}
		if !resolved {
			header, resolved = lineIndent(src, n.StartByte()), true
		}
		if !sameIndent(indent, header) {
			return false
		}
	}
	return true
}

// tupleAfterIn reports a comma-separated iterable in a comprehension clause,
// which Python 3 only accepts in parentheses.
func tupleAfterIn(n *sitter.Node) bool {
	afterIn := false
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch {
		case c.Type() == "in" && !c.IsNamed():
			afterIn = true
		case !afterIn:
		case c.Type() == "," && !c.IsNamed(), c.Type() == "expression_list":
			return true
		}
	}
	return false
}

// bareGenerator reports a generator expression without its own parentheses
// inside a multi-argument call.
func bareGenerator(src []byte, n *sitter.Node) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "for_in_clause":
			return true
		case "generator_expression":
			if src[c.StartByte()] != '(' {
				return true
			}
		}
	}
	return false
}

func isExtra(n *sitter.Node) bool {
	return n.Type() == "comment" || n.Type() == "line_continuation"
}

// leadingIndent returns the whitespace between the start of the line and
// off, and whether only whitespace precedes off on that line.
func leadingIndent(src []byte, off uint32) (string, bool) {
	i := int(off) - 1
	for i >= 0 && isIndentByte(src[i]) {
		i--
	}
	if i >= 0 && src[i] != '\n' && src[i] != '\r' {
		return "", false
	}
	return string(src[i+1 : off]), true
}

// lineIndent returns the leading whitespace of the line containing off.
func lineIndent(src []byte, off uint32) string {
	start := int(off)
	for start > 0 && src[start-1] != '\n' && src[start-1] != '\r' {
		start--
	}
	end := start
	for end < len(src) && isIndentByte(src[end]) {
		end++
	}
	return string(src[start:end])
}

func isIndentByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\f'
}

// indentWidth measures indentation with tab stops every tabSize columns.
// A form feed resets the column.
func indentWidth(s string, tabSize int) int {
	col := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\t':
			col = (col/tabSize + 1) * tabSize
		case '\f':
			col = 0
		default:
			col++
		}
	}
	return col
}

// sameIndent and deeper compare under tab sizes 8 and 1, so tab/space mixes
// that are ambiguous count as mismatches.
func sameIndent(a, b string) bool {
	return a == b || (indentWidth(a, 8) == indentWidth(b, 8) && indentWidth(a, 1) == indentWidth(b, 1))
}

func deeper(a, b string) bool {
	return indentWidth(a, 8) > indentWidth(b, 8) && indentWidth(a, 1) > indentWidth(b, 1)
}
