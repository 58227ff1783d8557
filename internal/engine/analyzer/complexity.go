package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// complexity holds per-function cyclomatic scores and the decision points
// found outside any function.
type complexity struct {
	functions []float64
	module    float64
}

// functionsTotal is the summed complexity over all functions.
func (c complexity) functionsTotal() float64 {
	var sum float64
	for _, f := range c.functions {
		sum += f
	}
	return sum
}

// total includes module-level decision points, used by the maintainability index.
func (c complexity) total() float64 {
	return c.functionsTotal() + c.module
}

func measureComplexity(root *sitter.Node) complexity {
	var c complexity
	c.visit(root, -1)
	return c
}

// visit attributes each decision point to the nearest enclosing function.
func (c *complexity) visit(n *sitter.Node, fn int) {
	if n.Type() == "function_definition" {
		c.functions = append(c.functions, 1)
		fn = len(c.functions) - 1
	} else if d := decisions(n); d > 0 {
		if fn >= 0 {
			c.functions[fn] += d
		} else {
			c.module += d
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c.visit(n.NamedChild(i), fn)
	}
}

func decisions(n *sitter.Node) float64 {
	switch n.Type() {
	case "if_statement", "elif_clause", "conditional_expression",
		"boolean_operator", "for_in_clause", "if_clause",
		"except_clause", "except_group_clause", "case_clause",
		"assert_statement":
		return 1
	case "for_statement", "while_statement":
		if hasNamedChild(n, "else_clause") {
			return 2
		}
		return 1
	case "try_statement":
		if hasNamedChild(n, "else_clause") {
			return 1
		}
	}
	return 0
}

func hasNamedChild(n *sitter.Node, typ string) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == typ {
			return true
		}
	}
	return false
}
