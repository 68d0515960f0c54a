// Package emit maps component models into target-specific generated text
// plus named generated-section payloads. Emitters are pure: they read the
// model and produce independent outputs, sharing no state between
// invocations.
package emit

import (
	"fmt"
	"sort"

	"wcc/internal/model"
	"wcc/internal/patch"
)

// Options tunes a single emission.
type Options struct {
	// NodeURL is the design-tool node placeholder inserted into fresh
	// files.
	NodeURL string
}

// Output is the result of emitting one component for one target.
type Output struct {
	// FilePath is the target file, next to the component source.
	FilePath string
	// Content is complete fresh-file text, used when no file exists yet.
	Content string
	// Sections are the named payloads patched into existing files.
	Sections []patch.Section
	// Warnings from mapping, e.g. unrecognized value kinds.
	Warnings []string
}

// Meta describes a registered target.
type Meta struct {
	ID          string
	Description string
	FileSuffix  string
}

// Factory builds a fresh emitter instance.
type Factory func() Emitter

// Emitter turns a component model into generated output.
type Emitter interface {
	Meta() Meta
	Emit(m *model.ComponentModel, opts Options) (*Output, error)
}

// Registry holds the pluggable target set. It is constructor-injected, not
// a process-wide singleton; duplicate registration is an explicit error.
type Registry struct {
	factories map[string]Factory
	metas     map[string]Meta
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		metas:     make(map[string]Meta),
	}
}

// Register adds a target. Registering an already-registered ID fails.
func (r *Registry) Register(meta Meta, factory Factory) error {
	if _, exists := r.factories[meta.ID]; exists {
		return fmt.Errorf("emit target %q already registered", meta.ID)
	}
	r.factories[meta.ID] = factory
	r.metas[meta.ID] = meta
	return nil
}

// Lookup builds an emitter for a target ID.
func (r *Registry) Lookup(id string) (Emitter, error) {
	factory, ok := r.factories[id]
	if !ok {
		return nil, fmt.Errorf("unknown emit target %q (known: %v)", id, r.TargetIDs())
	}
	return factory(), nil
}

// TargetIDs lists registered target IDs in sorted order.
func (r *Registry) TargetIDs() []string {
	ids := make([]string, 0, len(r.metas))
	for id := range r.metas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DefaultRegistry returns a registry with the built-in targets.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	// Built-in registrations cannot collide.
	_ = r.Register(Meta{ID: "html", Description: "structural markup connect file", FileSuffix: ".figma.ts"},
		func() Emitter { return &HTMLEmitter{} })
	_ = r.Register(Meta{ID: "react", Description: "component framework connect file", FileSuffix: ".figma.tsx"},
		func() Emitter { return &ReactEmitter{} })
	return r
}
