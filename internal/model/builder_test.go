package model

import (
	"reflect"
	"testing"
)

func TestBuildOverridesByName(t *testing.T) {
	m := Build(BuildInput{
		ClassName: "WccChip",
		FilePath:  "src/components/chip/chip.ts",
		Fields: []FieldDescriptor{
			{Name: "disabled", BindingName: "disabled", Kind: KindBoolean, Default: "true"},
			{Name: "label", BindingName: "label", Kind: KindString},
			{Name: "disabled", BindingName: "disabled", Kind: KindBoolean, Default: "false"},
		},
	})

	if len(m.Fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2", len(m.Fields))
	}
	// Descendant wins, ancestor position kept.
	if m.Fields[0].Name != "disabled" || m.Fields[0].Default != "false" {
		t.Errorf("Fields[0] = %+v, want descendant disabled at ancestor position", m.Fields[0])
	}
	if m.Fields[1].Name != "label" {
		t.Errorf("Fields[1].Name = %q, want label", m.Fields[1].Name)
	}
}

func TestBuildSuppressedFieldHasNoBinding(t *testing.T) {
	m := Build(BuildInput{
		ClassName: "WccBadge",
		FilePath:  "src/components/badge.ts",
		Fields: []FieldDescriptor{
			{Name: "tone", BindingName: "tone", Kind: KindString},
			{Name: "internalState", BindingName: "", Kind: KindString},
		},
	})

	if len(m.Fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2", len(m.Fields))
	}
	if len(m.Bindings) != 1 {
		t.Fatalf("len(Bindings) = %d, want 1", len(m.Bindings))
	}
	if m.Bindings[0].SourceFieldName != "tone" {
		t.Errorf("Bindings[0].SourceFieldName = %q, want tone", m.Bindings[0].SourceFieldName)
	}
}

func TestBuildClassNameFallback(t *testing.T) {
	m := Build(BuildInput{FilePath: "src/anon.ts"})
	if m.ClassName != UnknownComponent {
		t.Errorf("ClassName = %q, want %q", m.ClassName, UnknownComponent)
	}
}

func TestBuildTagNameFallback(t *testing.T) {
	tests := []struct {
		className string
		want      string
	}{
		{"WccButton", "wcc-button"},
		{"Spinner", "spinner"},
		{"URLInput", "u-r-l-input"},
	}
	for _, tt := range tests {
		m := Build(BuildInput{ClassName: tt.className, FilePath: "x.ts"})
		if m.TagName != tt.want {
			t.Errorf("kebab(%q) = %q, want %q", tt.className, m.TagName, tt.want)
		}
	}
}

func TestBuildTagNameExplicitWins(t *testing.T) {
	m := Build(BuildInput{ClassName: "WccButton", TagName: "my-button", FilePath: "x.ts"})
	if m.TagName != "my-button" {
		t.Errorf("TagName = %q, want my-button", m.TagName)
	}
}

func TestDeriveImportPath(t *testing.T) {
	tests := []struct {
		filePath string
		want     string
	}{
		{"src/components/button/button.ts", "button"},
		{"src/components/badge.ts", "components"},
		{"lib/widgets/chip.ts", "widgets"},
		{"src/components/nested/components/tab/tab.ts", "tab"},
	}
	for _, tt := range tests {
		m := Build(BuildInput{ClassName: "X", FilePath: tt.filePath})
		if m.ImportPath != tt.want {
			t.Errorf("importPath(%q) = %q, want %q", tt.filePath, m.ImportPath, tt.want)
		}
	}
}

func TestBuildImportPathOverride(t *testing.T) {
	m := Build(BuildInput{
		ClassName:          "WccButton",
		FilePath:           "src/components/button/button.ts",
		ImportPathOverride: "@acme/kit",
	})
	if m.ImportPath != "@acme/kit" {
		t.Errorf("ImportPath = %q, want @acme/kit", m.ImportPath)
	}
}

func TestBuildEventsMergeByName(t *testing.T) {
	m := Build(BuildInput{
		ClassName: "X",
		FilePath:  "x.ts",
		Events: []EventDescriptor{
			{Name: "wcc-click", HandlerName: "onWccClick"},
			{Name: "wcc-click", HandlerName: "onWccClick", DetailType: "{ origin: string }"},
		},
	})
	want := []EventDescriptor{{Name: "wcc-click", HandlerName: "onWccClick", DetailType: "{ origin: string }"}}
	if !reflect.DeepEqual(m.Events, want) {
		t.Errorf("Events = %+v, want %+v", m.Events, want)
	}
}

func TestMergeByKey(t *testing.T) {
	got := MergeByKey([]string{"a1", "b1", "a2", "c1", "b2"}, func(s string) string { return s[:1] })
	want := []string{"a2", "b2", "c1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeByKey() = %v, want %v", got, want)
	}

	if got := MergeByKey(nil, func(s string) string { return s }); got != nil {
		t.Errorf("MergeByKey(nil) = %v, want nil", got)
	}
}
