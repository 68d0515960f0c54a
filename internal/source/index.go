package source

import (
	"path"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// DeclKind classifies a resolved declaration.
type DeclKind string

const (
	// DeclClass is a class declaration
	DeclClass DeclKind = "class"
	// DeclFunction is a function declaration
	DeclFunction DeclKind = "function"
	// DeclVariable is a variable declarator (const/let/var)
	DeclVariable DeclKind = "variable"
	// DeclParameter is a function parameter
	DeclParameter DeclKind = "parameter"
	// DeclExternal is a symbol declared outside the loaded source set
	DeclExternal DeclKind = "external"
)

// Decl is a resolved declaration.
type Decl struct {
	Kind     DeclKind
	Name     string
	Node     *sitter.Node // declaration node; nil for external symbols
	File     *File
	External bool
}

// Service is the narrow resolution capability the heritage resolver and the
// extractor depend on. Project implements it; tests may substitute it.
type Service interface {
	// ResolveIdentifier resolves an identifier node in the context of its
	// file to the declaration it names.
	ResolveIdentifier(file *File, node *sitter.Node) (*Decl, bool)
	// IsExternal reports whether a declaration lives outside the loaded
	// source set (library typings, bare-specifier imports).
	IsExternal(d *Decl) bool
	// IsParameter reports whether a declaration is a function parameter.
	IsParameter(d *Decl) bool
}

type importBinding struct {
	local     string
	imported  string // source-side name, "default", or "*"
	specifier string
}

// Project is the indexed source set for one run. The whole tree is loaded
// once and shared by every pipeline stage.
type Project struct {
	Files []*File // discovery order

	byPath  map[string]*File
	decls   map[string]map[string]*Decl
	imports map[string]map[string]importBinding
	exports map[string]map[string]string // exported name -> local name
}

// NewProject indexes the given files.
func NewProject(files []*File) *Project {
	p := &Project{
		Files:   files,
		byPath:  make(map[string]*File, len(files)),
		decls:   make(map[string]map[string]*Decl, len(files)),
		imports: make(map[string]map[string]importBinding, len(files)),
		exports: make(map[string]map[string]string, len(files)),
	}
	for _, f := range files {
		p.byPath[f.Path] = f
	}
	for _, f := range files {
		p.indexFile(f)
	}
	return p
}

// FileAt returns the loaded file for a path.
func (p *Project) FileAt(filePath string) (*File, bool) {
	f, ok := p.byPath[filePath]
	return f, ok
}

func (p *Project) indexFile(f *File) {
	decls := make(map[string]*Decl)
	imports := make(map[string]importBinding)
	exports := make(map[string]string)
	p.decls[f.Path] = decls
	p.imports[f.Path] = imports
	p.exports[f.Path] = exports

	for _, stmt := range NamedChildren(f.Root) {
		switch stmt.Type() {
		case "export_statement":
			p.indexExport(f, stmt, decls, exports)
		case "import_statement":
			p.indexImport(f, stmt, imports)
		default:
			for _, d := range declsFromStatement(f, stmt) {
				decls[d.Name] = d
			}
		}
	}
}

func (p *Project) indexExport(f *File, stmt *sitter.Node, decls map[string]*Decl, exports map[string]string) {
	isDefault := FirstChildOfType(stmt, "default") != nil

	if declNode := stmt.ChildByFieldName("declaration"); declNode != nil {
		for _, d := range declsFromStatement(f, declNode) {
			decls[d.Name] = d
			if isDefault {
				exports["default"] = d.Name
			} else {
				exports[d.Name] = d.Name
			}
		}
		return
	}

	// export default <identifier>
	if isDefault {
		if val := stmt.ChildByFieldName("value"); val != nil && val.Type() == "identifier" {
			exports["default"] = f.Text(val)
		}
		return
	}

	// export { a, b as c }
	if clause := FirstChildOfType(stmt, "export_clause"); clause != nil {
		for _, spec := range NamedChildren(clause) {
			if spec.Type() != "export_specifier" {
				continue
			}
			name := f.Text(spec.ChildByFieldName("name"))
			alias := name
			if a := spec.ChildByFieldName("alias"); a != nil {
				alias = f.Text(a)
			}
			exports[alias] = name
		}
	}
}

func (p *Project) indexImport(f *File, stmt *sitter.Node, imports map[string]importBinding) {
	specifier, ok := StringLiteralValue(stmt.ChildByFieldName("source"), f.Source)
	if !ok {
		return
	}

	clause := FirstChildOfType(stmt, "import_clause")
	if clause == nil {
		return // side-effect import
	}

	for _, c := range NamedChildren(clause) {
		switch c.Type() {
		case "identifier": // default import
			imports[f.Text(c)] = importBinding{local: f.Text(c), imported: "default", specifier: specifier}
		case "namespace_import":
			if id := FirstChildOfType(c, "identifier"); id != nil {
				imports[f.Text(id)] = importBinding{local: f.Text(id), imported: "*", specifier: specifier}
			}
		case "named_imports":
			for _, spec := range NamedChildren(c) {
				if spec.Type() != "import_specifier" {
					continue
				}
				name := f.Text(spec.ChildByFieldName("name"))
				local := name
				if a := spec.ChildByFieldName("alias"); a != nil {
					local = f.Text(a)
				}
				imports[local] = importBinding{local: local, imported: name, specifier: specifier}
			}
		}
	}
}

// declsFromStatement extracts the declarations introduced by one top-level
// statement.
func declsFromStatement(f *File, stmt *sitter.Node) []*Decl {
	switch stmt.Type() {
	case "class_declaration", "abstract_class_declaration":
		name := f.Text(stmt.ChildByFieldName("name"))
		if name == "" {
			return nil
		}
		return []*Decl{{Kind: DeclClass, Name: name, Node: stmt, File: f}}
	case "function_declaration", "generator_function_declaration":
		name := f.Text(stmt.ChildByFieldName("name"))
		if name == "" {
			return nil
		}
		return []*Decl{{Kind: DeclFunction, Name: name, Node: stmt, File: f}}
	case "lexical_declaration", "variable_declaration":
		var out []*Decl
		for _, declarator := range NamedChildren(stmt) {
			if declarator.Type() != "variable_declarator" {
				continue
			}
			nameNode := declarator.ChildByFieldName("name")
			if nameNode == nil || nameNode.Type() != "identifier" {
				continue
			}
			out = append(out, &Decl{
				Kind: DeclVariable,
				Name: f.Text(nameNode),
				Node: declarator,
				File: f,
			})
		}
		return out
	}
	return nil
}

// ResolveIdentifier implements Service.
func (p *Project) ResolveIdentifier(file *File, node *sitter.Node) (*Decl, bool) {
	if node == nil || file == nil {
		return nil, false
	}
	name := file.Text(node)
	if name == "" {
		return nil, false
	}

	if param := findEnclosingParameter(file, node, name); param != nil {
		return param, true
	}

	if d, ok := p.decls[file.Path][name]; ok {
		return d, true
	}

	if binding, ok := p.imports[file.Path][name]; ok {
		return p.followImport(file, binding), true
	}

	if platformGlobals[name] {
		return &Decl{Kind: DeclExternal, Name: name, File: file, External: true}, true
	}

	return nil, false
}

// platformGlobals are the host types declared in library typings rather than
// in any loadable source file. Extending one of these is the normal case for
// a component and never worth a warning.
var platformGlobals = map[string]bool{
	"HTMLElement":      true,
	"Element":          true,
	"Node":             true,
	"EventTarget":      true,
	"Event":            true,
	"CustomEvent":      true,
	"Object":           true,
	"Error":            true,
	"ShadowRoot":       true,
	"DocumentFragment": true,
}

// followImport resolves an import binding to the declaration it names, or to
// an external placeholder when the target is outside the loaded set.
func (p *Project) followImport(from *File, binding importBinding) *Decl {
	external := &Decl{Kind: DeclExternal, Name: binding.local, File: from, External: true}

	if !strings.HasPrefix(binding.specifier, ".") || binding.imported == "*" {
		return external
	}

	target := p.resolveRelative(from.Path, binding.specifier)
	if target == nil {
		return external
	}
	if target.Declared {
		return &Decl{Kind: DeclExternal, Name: binding.local, File: target, External: true}
	}

	localName, ok := p.exports[target.Path][binding.imported]
	if !ok {
		return external
	}
	if d, ok := p.decls[target.Path][localName]; ok {
		return d
	}
	return external
}

// resolveRelative maps a relative import specifier to a loaded file.
func (p *Project) resolveRelative(fromPath, specifier string) *File {
	base := path.Join(path.Dir(slashPath(fromPath)), specifier)
	candidates := []string{
		base,
		base + ".ts",
		base + ".tsx",
		base + ".js",
		base + "/index.ts",
		base + "/index.js",
	}
	for _, c := range candidates {
		if f, ok := p.byPath[c]; ok {
			return f
		}
	}
	return nil
}

func slashPath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// IsExternal implements Service.
func (p *Project) IsExternal(d *Decl) bool {
	if d == nil {
		return false
	}
	return d.External || (d.File != nil && d.File.Declared)
}

// IsParameter implements Service.
func (p *Project) IsParameter(d *Decl) bool {
	return d != nil && d.Kind == DeclParameter
}

// findEnclosingParameter walks up from node looking for a function whose
// parameter list declares name.
func findEnclosingParameter(file *File, node *sitter.Node, name string) *Decl {
	for anc := node.Parent(); anc != nil; anc = anc.Parent() {
		if !isFunctionLike(anc.Type()) {
			continue
		}
		params := anc.ChildByFieldName("parameters")
		if params == nil {
			// Arrow functions with a single bare parameter
			if single := anc.ChildByFieldName("parameter"); single != nil {
				if single.Type() == "identifier" && file.Text(single) == name {
					return &Decl{Kind: DeclParameter, Name: name, Node: single, File: file}
				}
			}
			continue
		}
		for _, param := range NamedChildren(params) {
			if id := parameterName(param); id != nil && file.Text(id) == name {
				return &Decl{Kind: DeclParameter, Name: name, Node: id, File: file}
			}
		}
	}
	return nil
}

func parameterName(param *sitter.Node) *sitter.Node {
	switch param.Type() {
	case "identifier":
		return param
	case "required_parameter", "optional_parameter":
		pattern := param.ChildByFieldName("pattern")
		if pattern != nil && pattern.Type() == "identifier" {
			return pattern
		}
	}
	return nil
}

func isFunctionLike(nodeType string) bool {
	switch nodeType {
	case "function_declaration", "generator_function_declaration",
		"function_expression", "function", "arrow_function", "method_definition":
		return true
	}
	return false
}
