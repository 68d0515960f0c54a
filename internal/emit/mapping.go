package emit

import (
	"fmt"
	"sort"
	"strings"

	"wcc/internal/model"
)

// propExpression maps a binding to the design tool's primitive constructor.
// Numbers are rendered through the string constructor: the connect format
// represents numeric values as strings. Unrecognized kinds fall back to the
// string constructor and produce one warning naming the field.
func propExpression(b model.BindingDescriptor) (expr string, warning string) {
	switch b.Kind {
	case model.KindString, model.KindNumber:
		return fmt.Sprintf("figma.string('%s')", b.BindingName), ""
	case model.KindBoolean:
		return fmt.Sprintf("figma.boolean('%s')", b.BindingName), ""
	case model.KindEnum:
		if len(b.EnumValues) > 0 {
			return enumExpression(b), ""
		}
		return fmt.Sprintf("figma.string('%s')", b.BindingName),
			fmt.Sprintf("field %q has an enum kind without values; defaulting to string", b.SourceFieldName)
	default:
		return fmt.Sprintf("figma.string('%s')", b.BindingName),
			fmt.Sprintf("field %q has unrecognized kind %q; defaulting to string", b.SourceFieldName, b.Kind)
	}
}

// enumExpression renders a sorted, title-cased key/value map.
func enumExpression(b model.BindingDescriptor) string {
	values := append([]string(nil), b.EnumValues...)
	sort.Strings(values)

	entries := make([]string, 0, len(values))
	for _, v := range values {
		entries = append(entries, fmt.Sprintf("'%s': '%s'", titleCase(v), v))
	}
	return fmt.Sprintf("figma.enum('%s', { %s })", titleCase(b.BindingName), strings.Join(entries, ", "))
}

// propsSection renders the shared props mapping block, name-sorted for
// deterministic output.
func propsSection(m *model.ComponentModel) (string, []string) {
	bindings := sortedBindings(m)

	var warnings []string
	var b strings.Builder
	b.WriteString("props: {\n")
	for _, binding := range bindings {
		expr, warn := propExpression(binding)
		if warn != "" {
			warnings = append(warnings, warn)
		}
		fmt.Fprintf(&b, "  %s: %s,\n", binding.SourceFieldName, expr)
	}
	b.WriteString("},")
	return b.String(), warnings
}

// sortedBindings returns the component's bindings sorted by source field
// name, the order every emitted block uses.
func sortedBindings(m *model.ComponentModel) []model.BindingDescriptor {
	bindings := append([]model.BindingDescriptor(nil), m.Bindings...)
	sort.Slice(bindings, func(i, j int) bool {
		return bindings[i].SourceFieldName < bindings[j].SourceFieldName
	})
	return bindings
}

// titleCase uppercases the first rune of each dash/space separated word and
// joins the words.
func titleCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// OutputFilePath places a target's generated file next to the component
// source, swapping the extension for the target suffix.
func OutputFilePath(sourcePath, suffix string) string {
	base := sourcePath
	if idx := strings.LastIndex(base, "."); idx > strings.LastIndex(base, "/") {
		base = base[:idx]
	}
	return base + suffix
}
