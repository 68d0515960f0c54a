// Package pipeline sequences resolution, extraction, emission, and patching
// across a discovered source tree, aggregating diagnostics and change
// records into a run-level report. Files are processed strictly
// sequentially in discovery order; the tree is loaded once per run.
package pipeline

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	sitter "github.com/smacker/go-tree-sitter"

	"wcc/internal/diag"
	"wcc/internal/emit"
	"wcc/internal/extract"
	"wcc/internal/heritage"
	"wcc/internal/model"
	"wcc/internal/patch"
	"wcc/internal/source"
	"wcc/internal/storage"
	"wcc/internal/vfs"
)

// Options configures a run.
type Options struct {
	Root               string
	Recursive          bool
	DryRun             bool
	Targets            []string
	Strict             bool
	ContinueOnError    bool
	ImportPathOverride string
	Force              bool
	NoCache            bool
	NodeURL            string
}

// Runner drives the batch. All I/O goes through the injected filesystem.
type Runner struct {
	fs       vfs.FS
	registry *emit.Registry
	cache    *storage.GenCache // nil disables caching
	logger   *slog.Logger
}

// NewRunner creates a runner. cache may be nil.
func NewRunner(fsys vfs.FS, registry *emit.Registry, cache *storage.GenCache, logger *slog.Logger) *Runner {
	return &Runner{fs: fsys, registry: registry, cache: cache, logger: logger}
}

// Run processes every component under opts.Root. The returned report is
// always complete: failures are recorded, never thrown away.
func (r *Runner) Run(ctx context.Context, opts Options) (*Report, error) {
	report := &Report{
		RunID:   uuid.NewString(),
		Root:    opts.Root,
		DryRun:  opts.DryRun,
		Targets: append([]string(nil), opts.Targets...),
	}

	emitters, err := r.resolveTargets(opts.Targets)
	if err != nil {
		report.Diagnostics.AddError(diag.NewError(diag.TargetUnknown, "invalid emit target list", err))
		report.finalize()
		return report, nil
	}

	loader := source.NewLoader(r.fs, r.logger)
	project, loadErrs, err := loader.Load(ctx, opts.Root, opts.Recursive)
	if err != nil {
		report.Diagnostics.AddError(diag.NewError(diag.SourceMissing, "source discovery failed", err))
		report.finalize()
		return report, nil
	}

	for _, fe := range loadErrs {
		report.Components = append(report.Components, ComponentReport{
			SourcePath: fe.Path,
			Diagnostics: diag.Diagnostics{
				Errors: []*diag.Error{diag.NewError(diag.SourceMissing, "cannot load "+fe.Path, fe.Err)},
			},
		})
		if !opts.ContinueOnError {
			report.Halted = true
			report.finalize()
			return report, nil
		}
	}

	resolver := heritage.NewResolver(project)
	extractor := extract.New()
	optionsHash := r.optionsFingerprint(opts)

	for _, file := range project.Files {
		if file.Declared {
			continue
		}
		classNode := componentClass(file)
		if classNode == nil {
			continue // helper module, not a component
		}

		comp := r.processComponent(file, classNode, resolver, extractor, emitters, opts, optionsHash)
		report.Components = append(report.Components, comp)

		if comp.Diagnostics.HasErrors() && !opts.ContinueOnError {
			report.Halted = true
			break
		}
	}

	report.finalize()
	return report, nil
}

// processComponent runs one source file through the per-file state machine:
// resolve, extract, build, emit, write. Any stage error short-circuits to
// done.
func (r *Runner) processComponent(
	file *source.File,
	classNode *sitter.Node,
	resolver *heritage.Resolver,
	extractor *extract.Extractor,
	emitters []emit.Emitter,
	opts Options,
	optionsHash string,
) ComponentReport {
	comp := ComponentReport{SourcePath: file.Path}

	sourceHash := storage.Hash(file.Source)
	if r.cacheFresh(file.Path, sourceHash, optionsHash, opts, emitters) {
		for _, em := range emitters {
			comp.Changes = append(comp.Changes, ChangeRecord{
				FilePath: emit.OutputFilePath(file.Path, em.Meta().FileSuffix),
				Status:   StatusUnchanged,
				Reason:   ReasonUnchanged,
			})
		}
		r.logger.Debug("cache hit", "component", file.Path)
		return comp
	}

	// Resolve the inheritance chain.
	resolution := resolver.Resolve(file, classNode)
	resDiags := diag.Diagnostics{Warnings: resolution.Warnings}
	if opts.Strict {
		resDiags.PromoteWarnings(diag.BaseUnresolved)
	}
	comp.Diagnostics.Merge(resDiags)
	if comp.Diagnostics.HasErrors() {
		return comp
	}

	// Extract members and build the model.
	extracted := extractor.Extract(resolution.Chain)
	comp.Diagnostics.Merge(diag.Diagnostics{Warnings: extracted.Warnings})

	m := model.Build(model.BuildInput{
		ClassName:          extracted.ClassName,
		TagName:            extracted.TagName,
		FilePath:           file.Path,
		Fields:             extracted.Fields,
		Events:             extracted.Events,
		ImportPathOverride: opts.ImportPathOverride,
	})
	comp.ClassName = m.ClassName
	comp.TagName = m.TagName

	// Emit and write per target.
	failed := false
	for _, em := range emitters {
		out, err := em.Emit(m, emit.Options{NodeURL: opts.NodeURL})
		if err != nil {
			comp.Diagnostics.AddError(diag.NewError(diag.InternalError, "emit failed for "+em.Meta().ID, err))
			failed = true
			continue
		}
		comp.Diagnostics.Merge(diag.Diagnostics{Warnings: out.Warnings})

		record, writeDiags := r.writeOutput(out, opts)
		comp.Changes = append(comp.Changes, record)
		comp.Diagnostics.Merge(writeDiags)
		failed = failed || writeDiags.HasErrors()
	}

	if !failed && !comp.Diagnostics.HasErrors() && !opts.DryRun && !opts.NoCache && r.cache != nil {
		if err := r.cache.Store(file.Path, sourceHash, optionsHash); err != nil {
			r.logger.Warn("cache store failed", "component", file.Path, "error", err)
		}
	}
	return comp
}

// writeOutput decides the per-file write strategy: whole-file replacement
// when forced or section-less, fresh write when no file exists, otherwise a
// marker patch that leaves foreign files untouched.
func (r *Runner) writeOutput(out *emit.Output, opts Options) (ChangeRecord, diag.Diagnostics) {
	var d diag.Diagnostics
	record := ChangeRecord{FilePath: out.FilePath, Status: StatusUnchanged, Reason: ReasonUnchanged}

	exists := r.fs.Exists(out.FilePath)

	switch {
	case opts.Force || len(out.Sections) == 0:
		if exists {
			existing, err := r.fs.ReadFile(out.FilePath)
			if err == nil && string(existing) == out.Content {
				return record, d
			}
			record.Status = StatusUpdated
			record.Reason = ReasonContentUpdated
		} else {
			record.Status = StatusCreated
			record.Reason = ReasonNewFile
		}
		d.Merge(r.write(out.FilePath, out.Content, opts))

	case !exists:
		record.Status = StatusCreated
		record.Reason = ReasonNewFile
		d.Merge(r.write(out.FilePath, out.Content, opts))

	default:
		existing, err := r.fs.ReadFile(out.FilePath)
		if err != nil {
			d.AddError(diag.NewError(diag.WriteFailed, "cannot read "+out.FilePath, err))
			return record, d
		}
		patched, err := patch.Apply(string(existing), out.Sections)
		if err != nil {
			// Missing markers: leave the file alone, warn exactly once.
			d.Warnf("generated-section markers missing in %s; file left untouched", out.FilePath)
			return record, d
		}
		if patched == string(existing) {
			return record, d
		}
		record.Status = StatusUpdated
		record.Reason = ReasonSectionUpdated
		d.Merge(r.write(out.FilePath, patched, opts))
	}

	return record, d
}

// write performs the actual write unless the run is a dry run.
func (r *Runner) write(path, content string, opts Options) diag.Diagnostics {
	var d diag.Diagnostics
	if opts.DryRun {
		return d
	}
	if err := r.fs.WriteFile(path, []byte(content)); err != nil {
		d.AddError(diag.NewError(diag.WriteFailed, "cannot write "+path, err))
	}
	return d
}

// cacheFresh reports whether the cache marks this component as up to date
// and every expected output is still present.
func (r *Runner) cacheFresh(path, sourceHash, optionsHash string, opts Options, emitters []emit.Emitter) bool {
	if r.cache == nil || opts.NoCache || opts.Force {
		return false
	}
	fresh, err := r.cache.Fresh(path, sourceHash, optionsHash)
	if err != nil || !fresh {
		return false
	}
	for _, em := range emitters {
		if !r.fs.Exists(emit.OutputFilePath(path, em.Meta().FileSuffix)) {
			return false
		}
	}
	return true
}

// resolveTargets validates the target list up front; an unknown target
// aborts the run before any file is touched.
func (r *Runner) resolveTargets(targets []string) ([]emit.Emitter, error) {
	out := make([]emit.Emitter, 0, len(targets))
	for _, id := range targets {
		em, err := r.registry.Lookup(strings.TrimSpace(id))
		if err != nil {
			return nil, err
		}
		out = append(out, em)
	}
	return out, nil
}

// optionsFingerprint hashes the options that influence generated content.
func (r *Runner) optionsFingerprint(opts Options) string {
	targets := append([]string(nil), opts.Targets...)
	sort.Strings(targets)
	key := strings.Join(targets, ",") + "|" + opts.ImportPathOverride + "|" + opts.NodeURL
	return storage.Hash([]byte(key))
}

// componentClass finds the file's component class: the first top-level
// class declaration, exported or not. Files without one are not components.
func componentClass(file *source.File) *sitter.Node {
	for _, stmt := range source.NamedChildren(file.Root) {
		switch stmt.Type() {
		case "class_declaration", "abstract_class_declaration":
			return stmt
		case "export_statement":
			if decl := stmt.ChildByFieldName("declaration"); decl != nil {
				if decl.Type() == "class_declaration" || decl.Type() == "abstract_class_declaration" {
					return decl
				}
			}
		}
	}
	return nil
}
