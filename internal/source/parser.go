// Package source loads a component source tree, parses it with tree-sitter,
// and builds the declaration index behind the resolution service consumed by
// the heritage resolver and the member extractor.
package source

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language identifies the grammar used for a source file.
type Language string

const (
	// LangTypeScript for .ts/.mts/.cts files
	LangTypeScript Language = "typescript"
	// LangTSX for .tsx files
	LangTSX Language = "tsx"
	// LangJavaScript for .js/.mjs/.cjs/.jsx files
	LangJavaScript Language = "javascript"
)

// LanguageFromExtension maps a lowercased file extension to a Language.
func LanguageFromExtension(ext string) (Language, bool) {
	switch ext {
	case ".ts", ".mts", ".cts":
		return LangTypeScript, true
	case ".tsx":
		return LangTSX, true
	case ".js", ".mjs", ".cjs", ".jsx":
		return LangJavaScript, true
	default:
		return "", false
	}
}

// Parser wraps tree-sitter for component source parsing.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a new tree-sitter parser.
func NewParser() *Parser {
	return &Parser{
		parser: sitter.NewParser(),
	}
}

// Parse parses source code and returns the syntax tree.
func (p *Parser) Parse(ctx context.Context, src []byte, lang Language) (*sitter.Tree, error) {
	tsLang, err := getLanguage(lang)
	if err != nil {
		return nil, err
	}

	p.parser.SetLanguage(tsLang)
	tree, err := p.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	return tree, nil
}

func getLanguage(lang Language) (*sitter.Language, error) {
	switch lang {
	case LangTypeScript:
		return typescript.GetLanguage(), nil
	case LangTSX:
		return tsx.GetLanguage(), nil
	case LangJavaScript:
		return javascript.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// File is a parsed source file.
type File struct {
	Path   string
	Source []byte
	Lang   Language
	Root   *sitter.Node
	// Declared marks declaration-only files (.d.ts); symbols that resolve
	// here are treated as platform/external.
	Declared bool

	tree *sitter.Tree // held so the nodes stay valid
}

// Text returns the source text covered by a node.
func (f *File) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(f.Source[n.StartByte():n.EndByte()])
}

// NamedChildren returns all named children of a node.
func NamedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

// Children returns all children of a node, anonymous nodes included.
func Children(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.ChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.Child(i))
	}
	return out
}

// FirstChildOfType returns the first direct child with one of the given
// types, or nil.
func FirstChildOfType(n *sitter.Node, types ...string) *sitter.Node {
	for _, c := range Children(n) {
		for _, t := range types {
			if c.Type() == t {
				return c
			}
		}
	}
	return nil
}

// FindDescendants collects every descendant of n (n included) whose type is
// in types, in document order.
func FindDescendants(n *sitter.Node, types ...string) []*sitter.Node {
	var out []*sitter.Node
	var walk func(*sitter.Node)
	walk = func(node *sitter.Node) {
		if node == nil {
			return
		}
		for _, t := range types {
			if node.Type() == t {
				out = append(out, node)
				break
			}
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(n)
	return out
}

// Unparenthesize unwraps nested parenthesized expressions.
func Unparenthesize(n *sitter.Node) *sitter.Node {
	for n != nil && n.Type() == "parenthesized_expression" {
		inner := n.NamedChild(0)
		if inner == nil {
			return n
		}
		n = inner
	}
	return n
}

// StringLiteralValue returns the literal value of a string node.
func StringLiteralValue(n *sitter.Node, src []byte) (string, bool) {
	if n == nil || n.Type() != "string" {
		return "", false
	}
	var b strings.Builder
	for _, c := range Children(n) {
		if c.Type() == "string_fragment" {
			b.Write(src[c.StartByte():c.EndByte()])
		}
	}
	return b.String(), true
}
