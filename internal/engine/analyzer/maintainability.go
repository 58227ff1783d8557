package analyzer

import (
	"math"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// halstead accumulates operator and operand occurrences.
type halstead struct {
	operators     map[string]int
	operands      map[string]int
	totalOperator int
	totalOperand  int
}

func newHalstead() *halstead {
	return &halstead{operators: map[string]int{}, operands: map[string]int{}}
}

func (h *halstead) operator(op string) {
	h.operators[op]++
	h.totalOperator++
}

func (h *halstead) operand(src []byte, n *sitter.Node) {
	if n == nil {
		return
	}
	h.operands[n.Content(src)]++
	h.totalOperand++
}

// volume is N * log2(n) over the observed vocabulary.
func (h *halstead) volume() float64 {
	vocabulary := len(h.operators) + len(h.operands)
	if vocabulary == 0 {
		return 0
	}
	length := h.totalOperator + h.totalOperand
	return float64(length) * math.Log2(float64(vocabulary))
}

func (h *halstead) visit(src []byte, n *sitter.Node) {
	switch n.Type() {
	case "binary_operator", "boolean_operator", "augmented_assignment":
		if op := n.ChildByFieldName("operator"); op != nil {
			h.operator(op.Type())
		}
		h.operand(src, n.ChildByFieldName("left"))
		h.operand(src, n.ChildByFieldName("right"))
	case "unary_operator":
		if op := n.ChildByFieldName("operator"); op != nil {
			h.operator(op.Type())
		}
		h.operand(src, n.ChildByFieldName("argument"))
	case "not_operator":
		h.operator("not")
		h.operand(src, n.ChildByFieldName("argument"))
	case "comparison_operator":
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			if child.IsNamed() {
				h.operand(src, child)
			} else {
				h.operator(child.Type())
			}
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		h.visit(src, n.NamedChild(i))
	}
}

var compoundLines = map[string]bool{
	"function_definition": true,
	"class_definition":    true,
	"elif_clause":         true,
	"else_clause":         true,
	"except_clause":       true,
	"finally_clause":      true,
	"case_clause":         true,
}

// logicalLines counts statements and compound-statement clauses.
func logicalLines(n *sitter.Node) int {
	var count int
	t := n.Type()
	if strings.HasSuffix(t, "_statement") || compoundLines[t] {
		count++
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		count += logicalLines(n.NamedChild(i))
	}
	return count
}

// commentLines counts # comments plus the lines spanned by bare string
// statements (docstrings).
func commentLines(n *sitter.Node) int {
	var count int
	switch n.Type() {
	case "comment":
		return 1
	case "expression_statement":
		if isBareString(n) {
			return int(n.EndPoint().Row-n.StartPoint().Row) + 1
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		count += commentLines(n.NamedChild(i))
	}
	return count
}

// maintainabilityIndex follows the radon formula with multi-line strings
// counted as comments. The result is clamped to [0, 100].
func maintainabilityIndex(volume, complexity float64, lloc, sloc, comments int) float64 {
	if volume <= 0 || lloc <= 0 {
		return 100
	}
	var commentPct float64
	if sloc > 0 {
		commentPct = float64(comments) / float64(sloc) * 100
	}
	commentScale := math.Sqrt(2.46 * commentPct * math.Pi / 180)
	mi := 171 - 5.2*math.Log(volume) - 0.23*complexity - 16.2*math.Log(float64(lloc)) + 50*math.Sin(commentScale)
	return math.Min(math.Max(0, mi*100/171), 100)
}
