package extract

import (
	"context"
	"strings"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"

	"wcc/internal/heritage"
	"wcc/internal/model"
	"wcc/internal/slogutil"
	"wcc/internal/source"
	"wcc/internal/vfs"
)

// resolveChain loads the fixture set and resolves the chain of the named
// class, the same path the pipeline takes.
func resolveChain(t *testing.T, files map[string]string, path, name string) []*heritage.ClassLike {
	t.Helper()
	fs := vfs.NewMem()
	for p, content := range files {
		if err := fs.WriteFile(p, []byte(content)); err != nil {
			t.Fatalf("write fixture %s: %v", p, err)
		}
	}
	loader := source.NewLoader(fs, slogutil.NewDiscardLogger())
	project, fileErrs, err := loader.Load(context.Background(), "src", true)
	if err != nil || len(fileErrs) != 0 {
		t.Fatalf("Load() = errs %v, err %v", fileErrs, err)
	}

	file, ok := project.FileAt(path)
	if !ok {
		t.Fatalf("file %s not loaded", path)
	}
	var classNode *sitter.Node
	for _, decl := range source.FindDescendants(file.Root, "class_declaration", "abstract_class_declaration") {
		if file.Text(decl.ChildByFieldName("name")) == name {
			classNode = decl
			break
		}
	}
	if classNode == nil {
		t.Fatalf("class %s not found in %s", name, path)
	}
	return heritage.NewResolver(project).Resolve(file, classNode).Chain
}

func fieldByName(t *testing.T, fields []model.FieldDescriptor, name string) model.FieldDescriptor {
	t.Helper()
	for _, f := range fields {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("field %q not extracted; have %+v", name, fields)
	return model.FieldDescriptor{}
}

func TestExtractAnnotatedFields(t *testing.T) {
	chain := resolveChain(t, map[string]string{
		"src/a.ts": `@customElement('wcc-card')
export class WccCard extends HTMLElement {
  /** Title shown in the header. */
  @property({ type: String })
  heading = 'untitled';

  @property({ type: Boolean, reflect: true })
  elevated = false;

  @property({ type: Number, attribute: 'max-items' })
  maxItems = 3;

  plain = 'not annotated';

  static styles = 'ignored';

  #secret = 1;

  private hidden = true;

  protected internalGap = 4;
}`,
	}, "src/a.ts", "WccCard")

	res := New().Extract(chain)

	if res.ClassName != "WccCard" {
		t.Errorf("ClassName = %q", res.ClassName)
	}
	if res.TagName != "wcc-card" {
		t.Errorf("TagName = %q", res.TagName)
	}
	if len(res.Fields) != 3 {
		t.Fatalf("len(Fields) = %d, want 3: %+v", len(res.Fields), res.Fields)
	}

	heading := fieldByName(t, res.Fields, "heading")
	if heading.Kind != model.KindString || heading.Default != "untitled" || heading.BindingName != "heading" {
		t.Errorf("heading = %+v", heading)
	}
	if heading.Doc != "Title shown in the header." {
		t.Errorf("heading.Doc = %q", heading.Doc)
	}

	elevated := fieldByName(t, res.Fields, "elevated")
	if elevated.Kind != model.KindBoolean || !elevated.Reflects {
		t.Errorf("elevated = %+v", elevated)
	}

	maxItems := fieldByName(t, res.Fields, "maxItems")
	if maxItems.Kind != model.KindNumber || maxItems.BindingName != "max-items" {
		t.Errorf("maxItems = %+v", maxItems)
	}
}

func TestExtractProtectedFieldKept(t *testing.T) {
	chain := resolveChain(t, map[string]string{
		"src/a.ts": `export class A extends HTMLElement {
  @property({ type: Number })
  protected gap = 4;
}`,
	}, "src/a.ts", "A")

	res := New().Extract(chain)
	if len(res.Fields) != 1 {
		t.Fatalf("len(Fields) = %d, want 1", len(res.Fields))
	}
	if res.Fields[0].Visibility != model.Protected {
		t.Errorf("Visibility = %q, want protected", res.Fields[0].Visibility)
	}
}

func TestExtractSuppressedAttribute(t *testing.T) {
	chain := resolveChain(t, map[string]string{
		"src/a.ts": `export class A extends HTMLElement {
  @property({ type: String, attribute: false })
  internalOnly = '';
}`,
	}, "src/a.ts", "A")

	res := New().Extract(chain)
	if len(res.Fields) != 1 {
		t.Fatalf("len(Fields) = %d, want 1", len(res.Fields))
	}
	if res.Fields[0].BindingName != "" {
		t.Errorf("BindingName = %q, want suppressed", res.Fields[0].BindingName)
	}
}

func TestExtractEnumFromUnionType(t *testing.T) {
	chain := resolveChain(t, map[string]string{
		"src/a.ts": `export class A extends HTMLElement {
  @property()
  variant: 'primary' | 'secondary' | 'ghost' = 'primary';
}`,
	}, "src/a.ts", "A")

	res := New().Extract(chain)
	v := fieldByName(t, res.Fields, "variant")
	if v.Kind != model.KindEnum {
		t.Fatalf("Kind = %q, want enum", v.Kind)
	}
	want := []string{"primary", "secondary", "ghost"}
	if len(v.EnumValues) != len(want) {
		t.Fatalf("EnumValues = %v, want %v", v.EnumValues, want)
	}
	for i := range want {
		if v.EnumValues[i] != want[i] {
			t.Errorf("EnumValues = %v, want %v", v.EnumValues, want)
		}
	}
	if v.Default != "primary" {
		t.Errorf("Default = %q, want primary", v.Default)
	}
}

func TestExtractKindFromTypeAnnotationAndInitializer(t *testing.T) {
	chain := resolveChain(t, map[string]string{
		"src/a.ts": `export class A extends HTMLElement {
  @property()
  count: number = 0;

  @property()
  inferred = true;

  @property()
  opaque: Date = new Date();
}`,
	}, "src/a.ts", "A")

	res := New().Extract(chain)
	if got := fieldByName(t, res.Fields, "count").Kind; got != model.KindNumber {
		t.Errorf("count.Kind = %q, want number", got)
	}
	if got := fieldByName(t, res.Fields, "inferred").Kind; got != model.KindBoolean {
		t.Errorf("inferred.Kind = %q, want boolean", got)
	}
	if got := fieldByName(t, res.Fields, "opaque").Kind; got != model.KindUnknown {
		t.Errorf("opaque.Kind = %q, want unknown", got)
	}
}

func TestExtractChainOverride(t *testing.T) {
	chain := resolveChain(t, map[string]string{
		"src/base.ts": `export class Base extends HTMLElement {
  @property({ type: Boolean })
  disabled = true;

  @property({ type: String })
  label = '';
}`,
		"src/a.ts": `import { Base } from './base';
export class A extends Base {
  @property({ type: Boolean })
  disabled = false;
}`,
	}, "src/a.ts", "A")

	res := New().Extract(chain)
	// Raw extraction keeps both declarations; the model builder merges them
	// last-in-wins.
	m := model.Build(model.BuildInput{
		ClassName: res.ClassName,
		FilePath:  "src/a.ts",
		Fields:    res.Fields,
	})
	disabled := fieldByName(t, m.Fields, "disabled")
	if disabled.Default != "false" {
		t.Errorf("disabled.Default = %q, want descendant value false", disabled.Default)
	}
	if len(m.Fields) != 2 {
		t.Errorf("len(Fields) = %d, want 2", len(m.Fields))
	}
}

func TestExtractDispatchedEvents(t *testing.T) {
	chain := resolveChain(t, map[string]string{
		"src/a.ts": `export class A extends HTMLElement {
  toggle() {
    this.dispatchEvent(new CustomEvent<{ open: boolean }>('wcc-toggle', { bubbles: true }));
  }
  close() {
    this.dispatchEvent(new Event('wcc-close'));
  }
  relay(name: string) {
    this.dispatchEvent(new CustomEvent(name));
  }
}`,
	}, "src/a.ts", "A")

	res := New().Extract(chain)

	if len(res.Events) != 2 {
		t.Fatalf("len(Events) = %d, want 2: %+v", len(res.Events), res.Events)
	}
	toggle := res.Events[0]
	if toggle.Name != "wcc-toggle" || toggle.HandlerName != "onWccToggle" {
		t.Errorf("toggle = %+v", toggle)
	}
	if toggle.DetailType != "{ open: boolean }" {
		t.Errorf("toggle.DetailType = %q", toggle.DetailType)
	}
	if res.Events[1].Name != "wcc-close" {
		t.Errorf("Events[1] = %+v", res.Events[1])
	}

	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "dynamically named") {
		t.Errorf("Warnings = %v, want one about the dynamic dispatch", res.Warnings)
	}
}

func TestExtractFiredEventTags(t *testing.T) {
	chain := resolveChain(t, map[string]string{
		"src/a.ts": `/**
 * A toggle control.
 *
 * @fires wcc-change when the value flips
 * @fires wcc-focus
 */
export class A extends HTMLElement {}`,
	}, "src/a.ts", "A")

	res := New().Extract(chain)
	if len(res.Events) != 2 {
		t.Fatalf("len(Events) = %d, want 2: %+v", len(res.Events), res.Events)
	}
	if res.Events[0].Name != "wcc-change" || res.Events[0].HandlerName != "onWccChange" {
		t.Errorf("Events[0] = %+v", res.Events[0])
	}
	if res.Events[1].Name != "wcc-focus" {
		t.Errorf("Events[1] = %+v", res.Events[1])
	}
}

func TestExtractEventsAcrossChain(t *testing.T) {
	chain := resolveChain(t, map[string]string{
		"src/base.ts": `export class Base extends HTMLElement {
  notify() {
    this.dispatchEvent(new CustomEvent('wcc-ready'));
  }
}`,
		"src/a.ts": `import { Base } from './base';
export class A extends Base {
  fire() {
    this.dispatchEvent(new CustomEvent('wcc-fire'));
  }
}`,
	}, "src/a.ts", "A")

	res := New().Extract(chain)
	if len(res.Events) != 2 {
		t.Fatalf("len(Events) = %d, want ancestor and own events: %+v", len(res.Events), res.Events)
	}
	if res.Events[0].Name != "wcc-ready" || res.Events[1].Name != "wcc-fire" {
		t.Errorf("Events = %+v, want ancestors-first order", res.Events)
	}
}

func TestExtractEmptyChain(t *testing.T) {
	res := New().Extract(nil)
	if res.ClassName != "" || len(res.Fields) != 0 || len(res.Events) != 0 {
		t.Errorf("Extract(nil) = %+v, want empty result", res)
	}
}

func TestHandlerName(t *testing.T) {
	tests := []struct {
		event string
		want  string
	}{
		{"click", "onClick"},
		{"value-changed", "onValueChanged"},
		{"menu:open", "onMenuOpen"},
		{"a.b_c", "onABC"},
	}
	for _, tt := range tests {
		if got := handlerName(tt.event); got != tt.want {
			t.Errorf("handlerName(%q) = %q, want %q", tt.event, got, tt.want)
		}
	}
}
