package emit

import (
	"fmt"
	"strings"

	"wcc/internal/model"
	"wcc/internal/patch"
)

// ReactEmitter emits component-framework connect files: a function
// returning a component invocation.
type ReactEmitter struct{}

// Meta implements Emitter.
func (e *ReactEmitter) Meta() Meta {
	return Meta{ID: "react", Description: "component framework connect file", FileSuffix: ".figma.tsx"}
}

// Emit implements Emitter.
func (e *ReactEmitter) Emit(m *model.ComponentModel, opts Options) (*Output, error) {
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

func (e *ReactEmitter) exampleSection(m *model.ComponentModel) string {
	var b strings.Builder
	b.WriteString("example: (props) => (\n")
	fmt.Fprintf(&b, "  <%s\n", m.ClassName)
	for _, binding := range sortedBindings(m) {
		fmt.Fprintf(&b, "    %s={props.%s}\n", binding.SourceFieldName, binding.SourceFieldName)
	}
	for _, event := range m.Events {
		fmt.Fprintf(&b, "    %s={() => {}}\n", event.HandlerName)
	}
	b.WriteString("  />\n")
	b.WriteString("),")
	return b.String()
}

func (e *ReactEmitter) freshFile(m *model.ComponentModel, sections []patch.Section, opts Options) string {
	var b strings.Builder
	b.WriteString("import figma from '@figma/code-connect'\n")
	fmt.Fprintf(&b, "import { %s } from '%s'\n", m.ClassName, m.ImportPath)
	b.WriteString("\n")
	fmt.Fprintf(&b, "figma.connect(%s, '%s', {\n", m.ClassName, nodeURL(opts))
	for _, s := range sections {
		b.WriteString(patch.RenderBlock(s, "  "))
		b.WriteString("\n")
	}
	b.WriteString("})\n")
	return b.String()
}
