package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"wcc/internal/heritage"
	"wcc/internal/model"
	"wcc/internal/source"
)

// extractEvents scans one class for documented event tags and dispatch call
// patterns.
func (e *Extractor) extractEvents(cl *heritage.ClassLike, body *sitter.Node, res *Result) {
	for _, name := range firedEventTags(cl) {
		res.Events = append(res.Events, eventDescriptor(name, ""))
	}

	for _, call := range source.FindDescendants(body, "call_expression") {
		name, detail, ok, warn := dispatchedEvent(cl.File, call)
		if warn != "" {
			res.Warnings = append(res.Warnings, warn)
		}
		if ok {
			res.Events = append(res.Events, eventDescriptor(name, detail))
		}
	}
}

// firedEventTags reads @fires tags from the doc comment above a class.
func firedEventTags(cl *heritage.ClassLike) []string {
	doc := cl.Node.PrevNamedSibling()
	if doc == nil || doc.Type() != "comment" {
		// Exported classes hang off an export statement; the doc comment
		// sits above that.
		if parent := cl.Node.Parent(); parent != nil && parent.Type() == "export_statement" {
			doc = parent.PrevNamedSibling()
		}
	}
	if doc == nil || doc.Type() != "comment" {
		return nil
	}

	var names []string
	for _, line := range strings.Split(cl.File.Text(doc), "\n") {
		idx := strings.Index(line, "@fires")
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(line[idx+len("@fires"):])
		if rest == "" {
			continue
		}
		name := strings.Fields(rest)[0]
		names = append(names, name)
	}
	return names
}

// dispatchedEvent decodes this.dispatchEvent(new CustomEvent('name', ...)).
// The warning return flags dynamically named events, which cannot be bound.
func dispatchedEvent(f *source.File, call *sitter.Node) (name, detail string, ok bool, warn string) {
	callee := call.ChildByFieldName("function")
	if callee == nil || callee.Type() != "member_expression" {
		return "", "", false, ""
	}
	if f.Text(callee.ChildByFieldName("property")) != "dispatchEvent" {
		return "", "", false, ""
	}

	args := call.ChildByFieldName("arguments")
	if args == nil {
		return "", "", false, ""
	}
	arg := args.NamedChild(0)
	if arg == nil || arg.Type() != "new_expression" {
		return "", "", false, ""
	}

	ctor := f.Text(arg.ChildByFieldName("constructor"))
	if ctor != "CustomEvent" && ctor != "Event" {
		return "", "", false, ""
	}

	ctorArgs := arg.ChildByFieldName("arguments")
	if ctorArgs == nil {
		return "", "", false, ""
	}
	nameNode := ctorArgs.NamedChild(0)
	lit, isLit := source.StringLiteralValue(nameNode, f.Source)
	if !isLit {
		return "", "", false, "skipping dynamically named event dispatch in " + f.Path
	}

	if typeArgs := arg.ChildByFieldName("type_arguments"); typeArgs != nil {
		if t := typeArgs.NamedChild(0); t != nil {
			detail = f.Text(t)
		}
	}
	return lit, detail, true, ""
}

func eventDescriptor(name, detail string) model.EventDescriptor {
	return model.EventDescriptor{
		Name:        name,
		HandlerName: handlerName(name),
		DetailType:  detail,
	}
}

// handlerName maps an event name to its conventional handler name:
// "value-changed" becomes "onValueChanged".
func handlerName(event string) string {
	var b strings.Builder
	b.WriteString("on")
	for _, part := range strings.FieldsFunc(event, func(r rune) bool {
		return r == '-' || r == '_' || r == ':' || r == '.'
	}) {
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// tagNameOf reads the component's tag name from its registration decorator.
func tagNameOf(cl *heritage.ClassLike) string {
	nodes := []*sitter.Node{cl.Node}
	if parent := cl.Node.Parent(); parent != nil && parent.Type() == "export_statement" {
		nodes = append(nodes, parent)
	}

	for _, n := range nodes {
		for _, dec := range source.Children(n) {
			if dec.Type() != "decorator" {
				continue
			}
			expr := dec.NamedChild(0)
			if expr == nil || expr.Type() != "call_expression" {
				continue
			}
			if cl.File.Text(expr.ChildByFieldName("function")) != tagAnnotation {
				continue
			}
			if args := expr.ChildByFieldName("arguments"); args != nil {
				if lit, ok := source.StringLiteralValue(args.NamedChild(0), cl.File.Source); ok {
					return lit
				}
			}
		}
	}
	return ""
}
