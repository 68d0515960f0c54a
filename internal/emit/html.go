package emit

import (
	"fmt"
	"strings"

	"wcc/internal/model"
	"wcc/internal/patch"
)

// HTMLEmitter emits structural-markup connect files: a tag-based usage
// template with attribute bindings.
type HTMLEmitter struct{}

// Meta implements Emitter.
func (e *HTMLEmitter) Meta() Meta {
	return Meta{ID: "html", Description: "structural markup connect file", FileSuffix: ".figma.ts"}
}

// Emit implements Emitter.
func (e *HTMLEmitter) Emit(m *model.ComponentModel, opts Options) (*Output, error) {
	props, warnings := propsSection(m)

	sections := []patch.Section{
		{Name: "props", Content: props},
		{Name: "example", Content: e.exampleSection(m)},
	}

	return &Output{
		FilePath: OutputFilePath(m.FilePath, e.Meta().FileSuffix),
		Content:  e.freshFile(m, sections, opts),
		Sections: sections,
		Warnings: warnings,
	}, nil
}

// exampleSection renders the markup usage template. Boolean bindings use
// the conditional-binding syntax; all others interpolate as strings.
func (e *HTMLEmitter) exampleSection(m *model.ComponentModel) string {
	var b strings.Builder
	b.WriteString("example: (props) => html`\n")
	fmt.Fprintf(&b, "  <%s\n", m.TagName)
	for _, binding := range sortedBindings(m) {
		if binding.Kind == model.KindBoolean {
			fmt.Fprintf(&b, "    ?%s=${props.%s}\n", binding.BindingName, binding.SourceFieldName)
			continue
		}
		fmt.Fprintf(&b, "    %s=\"${props.%s}\"\n", binding.BindingName, binding.SourceFieldName)
	}
	fmt.Fprintf(&b, "  ></%s>\n", m.TagName)
	b.WriteString("`,")
	return b.String()
}

func (e *HTMLEmitter) freshFile(m *model.ComponentModel, sections []patch.Section, opts Options) string {
	var b strings.Builder
	b.WriteString("import figma, { html } from '@figma/code-connect/html'\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "// %s (%s)\n", m.ClassName, m.TagName)
	fmt.Fprintf(&b, "figma.connect('%s', {\n", nodeURL(opts))
	for _, s := range sections {
		b.WriteString(patch.RenderBlock(s, "  "))
		b.WriteString("\n")
	}
	b.WriteString("})\n")
	return b.String()
}

func nodeURL(opts Options) string {
	if opts.NodeURL != "" {
		return opts.NodeURL
	}
	return "<FIGMA_NODE_URL>"
}
