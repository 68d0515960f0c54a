// Package heritage reconstructs the linear ancestor chain of a component
// class, including classes produced dynamically by mixin functions. The
// chain is ordered ancestors-first and de-duplicated by a (file, position)
// identity key, never by name: mixin output is frequently anonymous or
// name-colliding.
package heritage

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"wcc/internal/source"
)

// Kind discriminates the closed set of class-like shapes.
type Kind string

const (
	// KindDeclaration is a named class declaration
	KindDeclaration Kind = "declaration"
	// KindExpression is a (possibly anonymous) class expression
	KindExpression Kind = "expression"
)

// ClassLike is one link of a resolved inheritance chain.
type ClassLike struct {
	Kind Kind
	Name string // empty for anonymous expressions
	Node *sitter.Node
	File *source.File
}

// Key returns the identity key used for chain de-duplication.
func (c *ClassLike) Key() string {
	return fmt.Sprintf("%s#%d", c.File.Path, c.Node.StartByte())
}

// Resolution is the outcome of resolving one class hierarchy.
type Resolution struct {
	// Chain lists every ancestor, ancestors-first, the resolved class last.
	Chain []*ClassLike
	// Warnings describe heritage expressions that could not be followed.
	Warnings []string
	// Unresolved lists the source text of those expressions.
	Unresolved []string
}

// Resolver resolves inheritance chains against a declaration service.
type Resolver struct {
	svc source.Service
}

// NewResolver creates a resolver backed by the given declaration service.
func NewResolver(svc source.Service) *Resolver {
	return &Resolver{svc: svc}
}

// Resolve produces the full inheritance resolution for a class declaration
// or class expression node.
func (r *Resolver) Resolve(file *source.File, classNode *sitter.Node) *Resolution {
	res := &Resolution{}
	seen := make(map[string]bool)
	r.collect(classLikeFromNode(file, classNode), seen, res)
	return res
}

// collect recurses into every extends expression before appending the class
// itself, so the chain comes out ancestors-first. The seen set is keyed by
// identity so shared bases appear exactly once even across mixin calls.
func (r *Resolver) collect(cl *ClassLike, seen map[string]bool, res *Resolution) {
	if cl == nil || seen[cl.Key()] {
		return
	}
	seen[cl.Key()] = true

	for _, expr := range heritageExpressions(cl.Node) {
		r.resolveExpression(cl.File, expr, seen, res)
	}

	res.Chain = append(res.Chain, cl)
}

// resolveExpression follows a single extends expression.
func (r *Resolver) resolveExpression(file *source.File, expr *sitter.Node, seen map[string]bool, res *Resolution) {
	expr = source.Unparenthesize(expr)
	if expr == nil {
		return
	}

	switch expr.Type() {
	case "class":
		// Inline anonymous class expression.
		r.collect(classLikeFromNode(file, expr), seen, res)

	case "identifier":
		r.resolveReference(file, expr, seen, res)

	case "member_expression":
		// Property access such as Namespace.Base: classify by the object.
		obj := expr.ChildByFieldName("object")
		if obj != nil && obj.Type() == "identifier" {
			if d, ok := r.svc.ResolveIdentifier(file, obj); ok && (r.svc.IsExternal(d) || r.svc.IsParameter(d)) {
				return
			}
		}
		r.recordUnresolved(file, expr, res)

	case "call_expression":
		r.resolveMixinCall(file, expr, seen, res)

	case "string", "number", "template_string", "object", "array",
		"true", "false", "null", "undefined":
		// Literal mixin arguments carry no heritage.

	default:
		r.recordUnresolved(file, expr, res)
	}
}

// resolveReference resolves an identifier heritage expression to a local
// class declaration, skipping platform/external and parameter bases.
func (r *Resolver) resolveReference(file *source.File, ident *sitter.Node, seen map[string]bool, res *Resolution) {
	d, ok := r.svc.ResolveIdentifier(file, ident)
	if !ok {
		r.recordUnresolved(file, ident, res)
		return
	}
	if r.svc.IsExternal(d) || r.svc.IsParameter(d) {
		return
	}

	switch d.Kind {
	case source.DeclClass:
		r.collect(&ClassLike{Kind: KindDeclaration, Name: d.Name, Node: d.Node, File: d.File}, seen, res)
	case source.DeclVariable:
		value := source.Unparenthesize(d.Node.ChildByFieldName("value"))
		if value != nil && value.Type() == "class" {
			r.collect(classLikeFromNode(d.File, value), seen, res)
			return
		}
		r.recordUnresolved(file, ident, res)
	default:
		r.recordUnresolved(file, ident, res)
	}
}

// resolveMixinCall handles Mixin(Base, ...) heritage. Arguments are resolved
// first so a mixin's own bases survive even when the producer itself cannot
// be unwrapped.
func (r *Resolver) resolveMixinCall(file *source.File, call *sitter.Node, seen map[string]bool, res *Resolution) {
	if args := call.ChildByFieldName("arguments"); args != nil {
		for _, arg := range source.NamedChildren(args) {
			r.resolveExpression(file, arg, seen, res)
		}
	}

	callee := source.Unparenthesize(call.ChildByFieldName("function"))
	injected, skip := r.resolveProducer(file, callee)
	if injected != nil {
		r.collect(injected, seen, res)
		return
	}
	if skip {
		return
	}
	r.recordUnresolved(file, call, res)
}

// resolveProducer maps a mixin call's callee to the class it produces. The
// second return is true when the callee is external or a parameter and the
// call should be skipped silently.
func (r *Resolver) resolveProducer(file *source.File, callee *sitter.Node) (*ClassLike, bool) {
	if callee == nil {
		return nil, false
	}

	switch callee.Type() {
	case "identifier":
		d, ok := r.svc.ResolveIdentifier(file, callee)
		if !ok {
			return nil, false
		}
		if r.svc.IsExternal(d) || r.svc.IsParameter(d) {
			return nil, true
		}
		switch d.Kind {
		case source.DeclFunction:
			return r.classProducedBy(d.File, d.Node), false
		case source.DeclVariable:
			value := source.Unparenthesize(d.Node.ChildByFieldName("value"))
			if value != nil && isFunctionNode(value.Type()) {
				return r.classProducedBy(d.File, value), false
			}
		}
		return nil, false

	case "member_expression":
		obj := callee.ChildByFieldName("object")
		if obj != nil && obj.Type() == "identifier" {
			if d, ok := r.svc.ResolveIdentifier(file, obj); ok && (r.svc.IsExternal(d) || r.svc.IsParameter(d)) {
				return nil, true
			}
		}
		return nil, false

	case "arrow_function", "function_expression", "function":
		// Immediately supplied producer.
		return r.classProducedBy(file, callee), false
	}

	return nil, false
}

// classProducedBy inspects a producer function body for the class it
// returns. Three shapes are recognized: an explicit returned class
// expression, a returned identifier naming a class declared (or assigned as
// a class expression) inside the body, and, absent any return, the first
// class declaration present in the body. The last one is a best-effort
// heuristic only; a body holding several unrelated class declarations may
// pick the wrong one.
func (r *Resolver) classProducedBy(file *source.File, fn *sitter.Node) *ClassLike {
	body := fn.ChildByFieldName("body")
	if body == nil {
		return nil
	}

	// Arrow function with an expression body.
	if body.Type() != "statement_block" {
		return r.classFromProducerValue(file, body, body)
	}

	for _, ret := range source.FindDescendants(body, "return_statement") {
		value := ret.NamedChild(0)
		if value == nil {
			continue
		}
		if cl := r.classFromProducerValue(file, value, body); cl != nil {
			return cl
		}
	}

	// Tolerant fallback: no usable return statement.
	if decls := source.FindDescendants(body, "class_declaration", "abstract_class_declaration"); len(decls) > 0 {
		return classLikeFromNode(file, decls[0])
	}
	return nil
}

// classFromProducerValue resolves a returned value to a class, looking up
// returned identifiers inside the producer body first and falling back to
// the surrounding scope.
func (r *Resolver) classFromProducerValue(file *source.File, value *sitter.Node, body *sitter.Node) *ClassLike {
	value = source.Unparenthesize(value)
	if value == nil {
		return nil
	}

	switch value.Type() {
	case "class":
		return classLikeFromNode(file, value)

	case "identifier":
		name := file.Text(value)
		if cl := classNamedInBody(file, body, name); cl != nil {
			return cl
		}
		if d, ok := r.svc.ResolveIdentifier(file, value); ok && d.Kind == source.DeclClass {
			return &ClassLike{Kind: KindDeclaration, Name: d.Name, Node: d.Node, File: d.File}
		}
	}
	return nil
}

// classNamedInBody finds a class declared, or assigned as a class
// expression, under the given producer body.
func classNamedInBody(file *source.File, body *sitter.Node, name string) *ClassLike {
	for _, decl := range source.FindDescendants(body, "class_declaration", "abstract_class_declaration") {
		if file.Text(decl.ChildByFieldName("name")) == name {
			return classLikeFromNode(file, decl)
		}
	}
	for _, declarator := range source.FindDescendants(body, "variable_declarator") {
		if file.Text(declarator.ChildByFieldName("name")) != name {
			continue
		}
		value := source.Unparenthesize(declarator.ChildByFieldName("value"))
		if value != nil && value.Type() == "class" {
			return classLikeFromNode(file, value)
		}
	}
	return nil
}

func (r *Resolver) recordUnresolved(file *source.File, expr *sitter.Node, res *Resolution) {
	text := file.Text(expr)
	res.Unresolved = append(res.Unresolved, text)
	res.Warnings = append(res.Warnings, fmt.Sprintf("could not resolve base class %q in %s", text, file.Path))
}

// heritageExpressions returns the extends expressions of a class node.
// Implements clauses are ignored without warning.
func heritageExpressions(classNode *sitter.Node) []*sitter.Node {
	h := source.FirstChildOfType(classNode, "class_heritage")
	if h == nil {
		return nil
	}

	// TypeScript wraps the expressions in an extends_clause next to any
	// implements_clause; JavaScript puts the expression directly under
	// class_heritage.
	if ext := source.FirstChildOfType(h, "extends_clause"); ext != nil {
		var out []*sitter.Node
		for _, c := range source.NamedChildren(ext) {
			if c.Type() != "type_arguments" {
				out = append(out, c)
			}
		}
		return out
	}
	return source.NamedChildren(h)
}

func classLikeFromNode(file *source.File, node *sitter.Node) *ClassLike {
	if node == nil {
		return nil
	}
	kind := KindExpression
	if node.Type() == "class_declaration" || node.Type() == "abstract_class_declaration" {
		kind = KindDeclaration
	}
	return &ClassLike{
		Kind: kind,
		Name: file.Text(node.ChildByFieldName("name")),
		Node: node,
		File: file,
	}
}

func isFunctionNode(nodeType string) bool {
	switch nodeType {
	case "arrow_function", "function_expression", "function",
		"function_declaration", "generator_function_declaration":
		return true
	}
	return false
}
