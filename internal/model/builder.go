package model

import (
	"path"
	"strings"
)

// UnknownComponent is the sentinel class name used when a component's class
// name cannot be determined.
const UnknownComponent = "UnknownComponent"

// packageRootMarker is the conventional directory that roots component
// packages; the import path is the segment that follows it.
const packageRootMarker = "components"

// BuildInput carries the raw extraction results into the builder.
type BuildInput struct {
	ClassName          string
	TagName            string
	FilePath           string
	Fields             []FieldDescriptor
	Events             []EventDescriptor
	ImportPathOverride string
}

// Build normalizes extracted members into a ComponentModel. Fields are
// merged by name and bindings by binding name, last-in-wins, so
// descendant-declared members replace ancestor ones.
func Build(in BuildInput) *ComponentModel {
	className := strings.TrimSpace(in.ClassName)
	if className == "" {
		className = UnknownComponent
	}

	tagName := in.TagName
	if tagName == "" {
		tagName = kebabCase(className)
	}

	componentDir := path.Dir(slash(in.FilePath))

	importPath := in.ImportPathOverride
	if importPath == "" {
		importPath = deriveImportPath(componentDir)
	}

	fields := MergeByKey(in.Fields, func(f FieldDescriptor) string { return f.Name })

	var bindings []BindingDescriptor
	for _, f := range fields {
		if f.BindingName == "" {
			continue
		}
		bindings = append(bindings, BindingDescriptor{
			BindingName:     f.BindingName,
			SourceFieldName: f.Name,
			Kind:            f.Kind,
			Reflects:        f.Reflects,
			Default:         f.Default,
			Doc:             f.Doc,
			EnumValues:      f.EnumValues,
		})
	}
	bindings = MergeByKey(bindings, func(b BindingDescriptor) string { return b.BindingName })

	events := MergeByKey(in.Events, func(e EventDescriptor) string { return e.Name })

	return &ComponentModel{
		ClassName:    className,
		TagName:      tagName,
		FilePath:     slash(in.FilePath),
		ComponentDir: componentDir,
		ImportPath:   importPath,
		Fields:       fields,
		Bindings:     bindings,
		Events:       events,
	}
}

// MergeByKey de-duplicates items by key, last-in-wins, while keeping the
// position of each key's first occurrence.
func MergeByKey[T any](items []T, key func(T) string) []T {
	if len(items) == 0 {
		return nil
	}
	index := make(map[string]int, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if at, ok := index[k]; ok {
			out[at] = item
			continue
		}
		index[k] = len(out)
		out = append(out, item)
	}
	return out
}

// deriveImportPath returns the path segment following the last conventional
// package-root marker, else the directory basename.
func deriveImportPath(componentDir string) string {
	segments := strings.Split(strings.Trim(componentDir, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == packageRootMarker && i+1 < len(segments) {
			return segments[i+1]
		}
	}
	return path.Base(componentDir)
}

// kebabCase converts a CamelCase class name to a kebab-case tag name.
func kebabCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func slash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
