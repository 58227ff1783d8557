package analyzer

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/hejijunhao/sieve/internal/model"
)

// structure is the definitions and imports found in one module.
type structure struct {
	moduleDocstring bool
	functions       []model.FunctionDef
	classes         []model.ClassDef
	imports         []string
}

func extractStructure(src []byte, root *sitter.Node) structure {
	s := structure{
		moduleDocstring: hasDocstring(root),
		functions:       []model.FunctionDef{},
		classes:         []model.ClassDef{},
		imports:         []string{},
	}
	s.walk(src, root)
	return s
}

func (s *structure) walk(src []byte, n *sitter.Node) {
	switch n.Type() {
	case "function_definition":
		start, end := lineSpan(n)
		s.functions = append(s.functions, model.FunctionDef{
			Name:         fieldText(src, n, "name"),
			Line:         start,
			EndLine:      end,
			HasDocstring: hasDocstring(n.ChildByFieldName("body")),
		})
	case "class_definition":
		start, end := lineSpan(n)
		s.classes = append(s.classes, model.ClassDef{
			Name:         fieldText(src, n, "name"),
			Line:         start,
			EndLine:      end,
			Bases:        baseNames(src, n.ChildByFieldName("superclasses")),
			HasDocstring: hasDocstring(n.ChildByFieldName("body")),
		})
	case "import_statement":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if name := importedName(src, n.NamedChild(i)); name != "" {
				s.imports = append(s.imports, name)
			}
		}
		return
	case "import_from_statement", "future_import_statement":
		s.imports = append(s.imports, fromImports(src, n)...)
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		s.walk(src, n.NamedChild(i))
	}
}

// fromImports renders "from m import a, b" as ["m.a", "m.b"] and keeps
// relative prefixes (".a" for "from . import a").
func fromImports(src []byte, n *sitter.Node) []string {
	module := "__future__"
	var moduleNode *sitter.Node
	if n.Type() == "import_from_statement" {
		moduleNode = n.ChildByFieldName("module_name")
		module = ""
		if moduleNode != nil {
			module = moduleNode.Content(src)
		}
	}
	var out []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if moduleNode != nil && child.StartByte() == moduleNode.StartByte() && child.EndByte() == moduleNode.EndByte() {
			continue
		}
		var name string
		switch child.Type() {
		case "wildcard_import":
			name = "*"
		default:
			name = importedName(src, child)
		}
		if name == "" {
			continue
		}
		if module == "" || strings.HasSuffix(module, ".") {
			out = append(out, module+name)
		} else {
			out = append(out, module+"."+name)
		}
	}
	return out
}

func importedName(src []byte, n *sitter.Node) string {
	switch n.Type() {
	case "dotted_name":
		return n.Content(src)
	case "aliased_import":
		return fieldText(src, n, "name")
	}
	return ""
}

// baseNames keeps plain identifier bases; attribute bases and keyword
// arguments such as metaclass= are skipped.
func baseNames(src []byte, args *sitter.Node) []string {
	bases := []string{}
	if args == nil {
		return bases
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		if child := args.NamedChild(i); child.Type() == "identifier" {
			bases = append(bases, child.Content(src))
		}
	}
	return bases
}

// hasDocstring reports whether the first statement of a module or block is
// a bare string.
func hasDocstring(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		return child.Type() == "expression_statement" && isBareString(child)
	}
	return false
}

func isBareString(stmt *sitter.Node) bool {
	if stmt.NamedChildCount() != 1 {
		return false
	}
	t := stmt.NamedChild(0).Type()
	return t == "string" || t == "concatenated_string"
}

func fieldText(src []byte, n *sitter.Node, field string) string {
	if f := n.ChildByFieldName(field); f != nil {
		return f.Content(src)
	}
	return ""
}

// lineSpan returns 1-based first and last lines of a node.
func lineSpan(n *sitter.Node) (int, int) {
	start := int(n.StartPoint().Row) + 1
	end := int(n.EndPoint().Row) + 1
	if n.EndPoint().Column == 0 && end > start {
		end--
	}
	return start, end
}
