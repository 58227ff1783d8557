// Package analyzer computes static quality metrics for Python snippets.
package analyzer

import (
	"context"
	"log/slog"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/hejijunhao/sieve/internal/model"
)

// Extractor turns one code string into its metric set.
// Not safe for concurrent use: it owns a single tree-sitter parser.
type Extractor struct {
	parser *sitter.Parser
}

// New creates an Extractor backed by the tree-sitter Python grammar.
func New() *Extractor {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &Extractor{parser: parser}
}

// Close releases the parser.
func (e *Extractor) Close() {
	e.parser.Close()
}

// Extract computes the full metric set. It never fails: unparseable input
// gets is_syntax_error=true with zero complexity and maintainability and
// empty structural lists.
func (e *Extractor) Extract(content string) (m model.Metrics) {
	m.CleanContent = StripComments(content)
	m.ContentLength = RuneLen(m.CleanContent)
	m.SpecialRatio = SpecialRatio(content)
	m.NumberOfLines, m.CommentRatio = CommentRatio(content)
	resetStructure(&m)

	defer func() {
		if r := recover(); r != nil {
			slog.Warn("metric extraction panicked, using fallback values", "panic", r)
			syntaxFallback(&m)
		}
	}()

	if strings.TrimSpace(content) == "" {
		return m
	}

	src := []byte(content)
	tree, err := e.parser.ParseCtx(context.Background(), nil, src)
	if err != nil || tree == nil {
		syntaxFallback(&m)
		return m
	}
	defer tree.Close()

	root := tree.RootNode()
	if hasSyntaxError(src, root) {
		syntaxFallback(&m)
		return m
	}

	cc := measureComplexity(root)
	m.CyclomaticComplexity = cc.functionsTotal()

	h := newHalstead()
	h.visit(src, root)
	m.MaintainabilityIndex = maintainabilityIndex(h.volume(), cc.total(), logicalLines(root), sourceLines(content), commentLines(root))

	s := extractStructure(src, root)
	m.HasModuleDocstring = s.moduleDocstring
	m.FunctionDefinitions = s.functions
	m.ClassDefinitions = s.classes
	m.Imports = s.imports
	return m
}

func syntaxFallback(m *model.Metrics) {
	m.IsSyntaxError = true
	m.CyclomaticComplexity = 0
	m.MaintainabilityIndex = 0
	resetStructure(m)
}

func resetStructure(m *model.Metrics) {
	m.HasModuleDocstring = false
	m.FunctionDefinitions = []model.FunctionDef{}
	m.ClassDefinitions = []model.ClassDef{}
	m.Imports = []string{}
}
