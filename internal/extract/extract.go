// Package extract walks a resolved inheritance chain and pulls out the
// annotated fields and dispatched events that make up a component's public
// surface. Chain order matters: descendant-declared members override
// ancestor ones by name.
package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"wcc/internal/heritage"
	"wcc/internal/model"
	"wcc/internal/source"
)

// propertyAnnotation is the decorator name that marks a bindable field.
const propertyAnnotation = "property"

// tagAnnotation is the decorator that registers a component's tag name.
const tagAnnotation = "customElement"

// Result is the outcome of member extraction over one chain.
type Result struct {
	ClassName string
	TagName   string
	Fields    []model.FieldDescriptor
	Events    []model.EventDescriptor
	Warnings  []string
}

// Extractor scans class chains for annotated members.
type Extractor struct{}

// New creates an extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract walks the chain ancestors-first and collects fields and events.
// The last chain element is the component class itself; its name and tag
// name identify the result.
func (e *Extractor) Extract(chain []*heritage.ClassLike) *Result {
	res := &Result{}
	if len(chain) == 0 {
		return res
	}

	for _, cl := range chain {
		e.extractClass(cl, res)
	}

	self := chain[len(chain)-1]
	res.ClassName = self.Name
	res.TagName = tagNameOf(self)
	return res
}

func (e *Extractor) extractClass(cl *heritage.ClassLike, res *Result) {
	body := source.FirstChildOfType(cl.Node, "class_body")
	if body == nil {
		return
	}

	for _, member := range source.NamedChildren(body) {
		switch member.Type() {
		case "public_field_definition", "field_definition":
			if field, ok := e.extractField(cl, body, member); ok {
				res.Fields = append(res.Fields, field)
			}
		}
	}

	e.extractEvents(cl, body, res)
}

// extractField decodes one annotated field declaration. Fields without the
// recognized annotation, private fields, and static fields are skipped.
func (e *Extractor) extractField(cl *heritage.ClassLike, body, member *sitter.Node) (model.FieldDescriptor, bool) {
	f := cl.File

	if source.FirstChildOfType(member, "static") != nil {
		return model.FieldDescriptor{}, false
	}

	nameNode := member.ChildByFieldName("name")
	if nameNode == nil || nameNode.Type() == "private_property_identifier" {
		return model.FieldDescriptor{}, false
	}
	name := f.Text(nameNode)

	visibility := model.Public
	if mod := source.FirstChildOfType(member, "accessibility_modifier"); mod != nil {
		switch f.Text(mod) {
		case "private":
			return model.FieldDescriptor{}, false
		case "protected":
			visibility = model.Protected
		}
	}

	cfg, annotated := propertyConfig(f, member)
	if !annotated {
		return model.FieldDescriptor{}, false
	}

	kind := cfg.kind
	enumValues := []string(nil)
	if kind == "" {
		kind, enumValues = kindFromAnnotationOrValue(f, member)
	}

	bindingName := cfg.bindingName
	if !cfg.suppressed && bindingName == "" {
		bindingName = strings.ToLower(name)
	}

	return model.FieldDescriptor{
		Name:        name,
		BindingName: bindingName,
		Kind:        kind,
		Reflects:    cfg.reflects,
		Default:     defaultValue(f, member.ChildByFieldName("value")),
		Doc:         docText(f, body, member),
		Visibility:  visibility,
		EnumValues:  enumValues,
	}, true
}

type propertyCfg struct {
	kind        model.ValueKind
	bindingName string
	suppressed  bool
	reflects    bool
}

// propertyConfig decodes the @property({...}) decorator on a field. The
// second return is false when the field carries no recognized annotation.
func propertyConfig(f *source.File, member *sitter.Node) (propertyCfg, bool) {
	var cfg propertyCfg

	for _, dec := range source.Children(member) {
		if dec.Type() != "decorator" {
			continue
		}
		expr := dec.NamedChild(0)
		if expr == nil {
			continue
		}

		switch expr.Type() {
		case "identifier":
			if f.Text(expr) == propertyAnnotation {
				return cfg, true
			}
		case "call_expression":
			callee := expr.ChildByFieldName("function")
			if callee == nil || f.Text(callee) != propertyAnnotation {
				continue
			}
			if args := expr.ChildByFieldName("arguments"); args != nil {
				if obj := source.FirstChildOfType(args, "object"); obj != nil {
					decodePropertyObject(f, obj, &cfg)
				}
			}
			return cfg, true
		}
	}
	return cfg, false
}

func decodePropertyObject(f *source.File, obj *sitter.Node, cfg *propertyCfg) {
	for _, pair := range source.NamedChildren(obj) {
		if pair.Type() != "pair" {
			continue
		}
		key := strings.Trim(f.Text(pair.ChildByFieldName("key")), `"'`)
		value := pair.ChildByFieldName("value")
		if value == nil {
			continue
		}

		switch key {
		case "type":
			switch f.Text(value) {
			case "String":
				cfg.kind = model.KindString
			case "Number":
				cfg.kind = model.KindNumber
			case "Boolean":
				cfg.kind = model.KindBoolean
			}
		case "attribute":
			if value.Type() == "false" {
				cfg.suppressed = true
				cfg.bindingName = ""
			} else if lit, ok := source.StringLiteralValue(value, f.Source); ok {
				cfg.bindingName = lit
			}
		case "reflect":
			cfg.reflects = value.Type() == "true"
		}
	}
}

// kindFromAnnotationOrValue classifies a field without an explicit type
// configuration, from its TypeScript annotation first and its initializer
// second. A union of string literals becomes an enum.
func kindFromAnnotationOrValue(f *source.File, member *sitter.Node) (model.ValueKind, []string) {
	if ann := source.FirstChildOfType(member, "type_annotation"); ann != nil {
		t := ann.NamedChild(0)
		if t != nil {
			switch t.Type() {
			case "predefined_type":
				switch f.Text(t) {
				case "string":
					return model.KindString, nil
				case "number":
					return model.KindNumber, nil
				case "boolean":
					return model.KindBoolean, nil
				}
				return model.KindUnknown, nil
			case "union_type":
				if values, ok := stringLiteralUnion(f, t); ok {
					return model.KindEnum, values
				}
				return model.KindUnknown, nil
			case "literal_type":
				if lit, ok := source.StringLiteralValue(t.NamedChild(0), f.Source); ok {
					return model.KindEnum, []string{lit}
				}
				return model.KindUnknown, nil
			}
			return model.KindUnknown, nil
		}
	}

	if value := member.ChildByFieldName("value"); value != nil {
		switch value.Type() {
		case "string", "template_string":
			return model.KindString, nil
		case "number":
			return model.KindNumber, nil
		case "true", "false":
			return model.KindBoolean, nil
		}
	}
	return model.KindUnknown, nil
}

// stringLiteralUnion flattens a union type into its string literal members.
func stringLiteralUnion(f *source.File, union *sitter.Node) ([]string, bool) {
	var values []string
	var walk func(n *sitter.Node) bool
	walk = func(n *sitter.Node) bool {
		for _, c := range source.NamedChildren(n) {
			switch c.Type() {
			case "union_type":
				if !walk(c) {
					return false
				}
			case "literal_type":
				lit, ok := source.StringLiteralValue(c.NamedChild(0), f.Source)
				if !ok {
					return false
				}
				values = append(values, lit)
			default:
				return false
			}
		}
		return true
	}
	if !walk(union) || len(values) == 0 {
		return nil, false
	}
	return values, true
}

// defaultValue renders an initializer literal as its model representation.
func defaultValue(f *source.File, value *sitter.Node) string {
	if value == nil {
		return ""
	}
	if lit, ok := source.StringLiteralValue(value, f.Source); ok {
		return lit
	}
	return f.Text(value)
}

// docText gathers the comment block immediately above a class member.
func docText(f *source.File, body, member *sitter.Node) string {
	var comments []string
	prev := member.PrevNamedSibling()
	for prev != nil && prev.Type() == "comment" {
		comments = append([]string{cleanComment(f.Text(prev))}, comments...)
		prev = prev.PrevNamedSibling()
	}
	return strings.TrimSpace(strings.Join(comments, "\n"))
}

// cleanComment strips comment syntax from a line or jsdoc comment.
func cleanComment(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "//") {
		return strings.TrimSpace(strings.TrimPrefix(text, "//"))
	}
	text = strings.TrimPrefix(text, "/**")
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimSuffix(text, "*/")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
