package heritage

import (
	"context"
	"strings"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"

	"wcc/internal/slogutil"
	"wcc/internal/source"
	"wcc/internal/vfs"
)

func loadProject(t *testing.T, files map[string]string) *source.Project {
	t.Helper()
	fs := vfs.NewMem()
	for path, content := range files {
		if err := fs.WriteFile(path, []byte(content)); err != nil {
			t.Fatalf("write fixture %s: %v", path, err)
		}
	}
	loader := source.NewLoader(fs, slogutil.NewDiscardLogger())
	project, fileErrs, err := loader.Load(context.Background(), "src", true)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(fileErrs) != 0 {
		t.Fatalf("Load() file errors = %v", fileErrs)
	}
	return project
}

func classNamed(t *testing.T, p *source.Project, path, name string) (*source.File, *sitter.Node) {
	t.Helper()
	file, ok := p.FileAt(path)
	if !ok {
		t.Fatalf("file %s not loaded", path)
	}
	for _, decl := range source.FindDescendants(file.Root, "class_declaration", "abstract_class_declaration") {
		if file.Text(decl.ChildByFieldName("name")) == name {
			return file, decl
		}
	}
	t.Fatalf("class %s not found in %s", name, path)
	return nil, nil
}

// chainNames renders a resolved chain for assertions: named links by name,
// anonymous ones as "<anon>".
func chainNames(res *Resolution) []string {
	out := make([]string, 0, len(res.Chain))
	for _, cl := range res.Chain {
		if cl.Name == "" {
			out = append(out, "<anon>")
		} else {
			out = append(out, cl.Name)
		}
	}
	return out
}

func assertChain(t *testing.T, res *Resolution, want ...string) {
	t.Helper()
	got := chainNames(res)
	if len(got) != len(want) {
		t.Fatalf("chain = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("chain = %v, want %v", got, want)
		}
	}
}

func TestResolvePlainInheritance(t *testing.T) {
	p := loadProject(t, map[string]string{
		"src/base.ts":   "export class Base {}",
		"src/middle.ts": "import { Base } from './base';\nexport class Middle extends Base {}",
		"src/leaf.ts":   "import { Middle } from './middle';\nexport class Leaf extends Middle {}",
	})
	file, node := classNamed(t, p, "src/leaf.ts", "Leaf")

	res := NewResolver(p).Resolve(file, node)
	assertChain(t, res, "Base", "Middle", "Leaf")
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", res.Warnings)
	}
}

func TestResolveExternalBaseIsSkippedSilently(t *testing.T) {
	p := loadProject(t, map[string]string{
		"src/a.ts": "import { LitElement } from 'lit';\nexport class A extends LitElement {}",
	})
	file, node := classNamed(t, p, "src/a.ts", "A")

	res := NewResolver(p).Resolve(file, node)
	assertChain(t, res, "A")
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v, want silent skip of external base", res.Warnings)
	}
}

func TestResolveUnresolvedBaseWarns(t *testing.T) {
	p := loadProject(t, map[string]string{
		"src/a.ts": "export class A extends NeverDeclared {}",
	})
	file, node := classNamed(t, p, "src/a.ts", "A")

	res := NewResolver(p).Resolve(file, node)
	assertChain(t, res, "A")
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "NeverDeclared") {
		t.Errorf("Warnings = %v, want one naming NeverDeclared", res.Warnings)
	}
	if len(res.Unresolved) != 1 || res.Unresolved[0] != "NeverDeclared" {
		t.Errorf("Unresolved = %v", res.Unresolved)
	}
}

func TestResolveMixinArrowExpressionBody(t *testing.T) {
	p := loadProject(t, map[string]string{
		"src/mixin.ts": "export const Hoverable = (Base) => class extends Base { hovered = false; };",
		"src/a.ts":     "import { Hoverable } from './mixin';\nexport class Base {}\nexport class A extends Hoverable(Base) {}",
	})
	file, node := classNamed(t, p, "src/a.ts", "A")

	res := NewResolver(p).Resolve(file, node)
	assertChain(t, res, "Base", "<anon>", "A")
}

func TestResolveMixinArrowBlockReturn(t *testing.T) {
	p := loadProject(t, map[string]string{
		"src/mixin.ts": "export const Focusable = (Base) => {\n  return class extends Base { focused = false; };\n};",
		"src/a.ts":     "import { Focusable } from './mixin';\nexport class Base {}\nexport class A extends Focusable(Base) {}",
	})
	file, node := classNamed(t, p, "src/a.ts", "A")

	res := NewResolver(p).Resolve(file, node)
	assertChain(t, res, "Base", "<anon>", "A")
}

func TestResolveMixinFunctionDeclaration(t *testing.T) {
	p := loadProject(t, map[string]string{
		"src/mixin.ts": "export function Disableable(Base) {\n  return class extends Base { disabled = false; };\n}",
		"src/a.ts":     "import { Disableable } from './mixin';\nexport class Base {}\nexport class A extends Disableable(Base) {}",
	})
	file, node := classNamed(t, p, "src/a.ts", "A")

	res := NewResolver(p).Resolve(file, node)
	assertChain(t, res, "Base", "<anon>", "A")
}

func TestResolveMixinReturnedVariable(t *testing.T) {
	p := loadProject(t, map[string]string{
		"src/mixin.ts": "export function Labelled(Base) {\n  const LabelledClass = class extends Base { label = ''; };\n  return LabelledClass;\n}",
		"src/a.ts":     "import { Labelled } from './mixin';\nexport class Base {}\nexport class A extends Labelled(Base) {}",
	})
	file, node := classNamed(t, p, "src/a.ts", "A")

	res := NewResolver(p).Resolve(file, node)
	assertChain(t, res, "Base", "<anon>", "A")
}

func TestResolveNestedMixinCalls(t *testing.T) {
	p := loadProject(t, map[string]string{
		"src/mixin.ts": "export const Hoverable = (Base) => class extends Base {};\nexport function Disableable(Base) {\n  return class extends Base {};\n}",
		"src/a.ts":     "import { Hoverable, Disableable } from './mixin';\nexport class Base {}\nexport class A extends Hoverable(Disableable(Base)) {}",
	})
	file, node := classNamed(t, p, "src/a.ts", "A")

	res := NewResolver(p).Resolve(file, node)
	// Innermost argument first, then each mixin product, then the class.
	assertChain(t, res, "Base", "<anon>", "<anon>", "A")
}

func TestResolveSharedBaseDeduplicated(t *testing.T) {
	p := loadProject(t, map[string]string{
		"src/mixin.ts": "export const M = (Base) => class extends Base {};",
		"src/a.ts":     "import { M } from './mixin';\nexport class Base {}\nexport class A extends M(M(Base)) {}",
	})
	file, node := classNamed(t, p, "src/a.ts", "A")

	res := NewResolver(p).Resolve(file, node)
	names := chainNames(res)
	baseCount := 0
	for _, n := range names {
		if n == "Base" {
			baseCount++
		}
	}
	if baseCount != 1 {
		t.Errorf("Base appears %d times in %v, want exactly once", baseCount, names)
	}
	if names[len(names)-1] != "A" {
		t.Errorf("chain = %v, want A last", names)
	}
}

func TestResolveRepeatedArgumentDeduplicated(t *testing.T) {
	p := loadProject(t, map[string]string{
		"src/mixin.ts": "export const M = (Base) => class extends Base {};",
		"src/a.ts":     "import { M } from './mixin';\nexport class Base {}\nexport class A extends M(Base, Base) {}",
	})
	file, node := classNamed(t, p, "src/a.ts", "A")

	res := NewResolver(p).Resolve(file, node)
	assertChain(t, res, "Base", "<anon>", "A")
}

func TestResolveMixinWithExternalCalleeSkips(t *testing.T) {
	p := loadProject(t, map[string]string{
		"src/a.ts": "import { mix } from 'ts-mixer';\nexport class Base {}\nexport class A extends mix(Base) {}",
	})
	file, node := classNamed(t, p, "src/a.ts", "A")

	res := NewResolver(p).Resolve(file, node)
	// The argument's heritage survives; the external producer is skipped
	// without a warning.
	assertChain(t, res, "Base", "A")
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", res.Warnings)
	}
}

func TestResolveLiteralMixinArgumentsIgnored(t *testing.T) {
	p := loadProject(t, map[string]string{
		"src/mixin.ts": "export const Tagged = (tag, Base) => class extends Base {};",
		"src/a.ts":     "import { Tagged } from './mixin';\nexport class Base {}\nexport class A extends Tagged('chip', Base) {}",
	})
	file, node := classNamed(t, p, "src/a.ts", "A")

	res := NewResolver(p).Resolve(file, node)
	assertChain(t, res, "Base", "<anon>", "A")
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v, want literal args skipped silently", res.Warnings)
	}
}

func TestResolveInlineAnonymousClassExtends(t *testing.T) {
	p := loadProject(t, map[string]string{
		"src/a.ts": "export class A extends (class { x = 1; }) {}",
	})
	file, node := classNamed(t, p, "src/a.ts", "A")

	res := NewResolver(p).Resolve(file, node)
	assertChain(t, res, "<anon>", "A")
}

func TestResolveVariableHoldingClass(t *testing.T) {
	p := loadProject(t, map[string]string{
		"src/a.ts": "const Base = class { y = 2; };\nexport class A extends Base {}",
	})
	file, node := classNamed(t, p, "src/a.ts", "A")

	res := NewResolver(p).Resolve(file, node)
	assertChain(t, res, "<anon>", "A")
}

func TestResolveJavaScriptHeritage(t *testing.T) {
	p := loadProject(t, map[string]string{
		"src/base.js": "export class Base {}",
		"src/a.js":    "import { Base } from './base';\nexport class A extends Base {}",
	})
	file, node := classNamed(t, p, "src/a.js", "A")

	res := NewResolver(p).Resolve(file, node)
	assertChain(t, res, "Base", "A")
}

func TestResolveCheckedInMixinFixtures(t *testing.T) {
	loader := source.NewLoader(vfs.NewOS(), slogutil.NewDiscardLogger())
	project, fileErrs, err := loader.Load(context.Background(), "../../testdata/mixins", true)
	if err != nil || len(fileErrs) != 0 {
		t.Fatalf("Load() = errs %v, err %v", fileErrs, err)
	}

	file, node := classNamed(t, project, "../../testdata/mixins/chip.ts", "WccChip")
	res := NewResolver(project).Resolve(file, node)

	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", res.Warnings)
	}
	// Four mixin products (one per mixin form), then the chip itself; the
	// platform base contributes nothing.
	assertChain(t, res, "<anon>", "<anon>", "<anon>", "<anon>", "WccChip")
}

func TestClassLikeKey(t *testing.T) {
	p := loadProject(t, map[string]string{
		"src/a.ts": "export class A {}",
	})
	file, node := classNamed(t, p, "src/a.ts", "A")

	cl := &ClassLike{Kind: KindDeclaration, Name: "A", Node: node, File: file}
	key := cl.Key()
	if !strings.HasPrefix(key, "src/a.ts#") {
		t.Errorf("Key() = %q, want path#offset shape", key)
	}
}
