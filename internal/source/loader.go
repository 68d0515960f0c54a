package source

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"wcc/internal/vfs"
)

// Loader reads and parses a source tree through the storage abstraction.
type Loader struct {
	fs     vfs.FS
	parser *Parser
	logger *slog.Logger
}

// NewLoader creates a loader.
func NewLoader(fsys vfs.FS, logger *slog.Logger) *Loader {
	return &Loader{
		fs:     fsys,
		parser: NewParser(),
		logger: logger,
	}
}

// FileError is a per-file load failure; the rest of the tree still loads.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Load parses every supported file under root and indexes the result. When
// recursive is false only files directly inside root are loaded. Root may
// also name a single source file. Per-file failures are returned alongside
// the project so the caller decides whether to continue.
func (l *Loader) Load(ctx context.Context, root string, recursive bool) (*Project, []FileError, error) {
	root = strings.TrimSuffix(slashPath(root), "/")

	if _, ok := LanguageFromExtension(path.Ext(root)); ok {
		f, err := l.loadFile(ctx, root)
		if err != nil {
			return NewProject(nil), []FileError{{Path: root, Err: err}}, nil
		}
		return NewProject([]*File{f}), nil, nil
	}

	var files []*File
	var fileErrs []FileError
	err := l.fs.Walk(root, func(p string) error {
		p = slashPath(p)
		if _, ok := LanguageFromExtension(path.Ext(p)); !ok {
			return nil
		}
		if !recursive && path.Dir(p) != root {
			return nil
		}
		f, err := l.loadFile(ctx, p)
		if err != nil {
			fileErrs = append(fileErrs, FileError{Path: p, Err: err})
			return nil
		}
		files = append(files, f)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", root, err)
	}

	l.logger.Debug("source tree loaded", "root", root, "files", len(files), "failed", len(fileErrs))
	return NewProject(files), fileErrs, nil
}

func (l *Loader) loadFile(ctx context.Context, p string) (*File, error) {
	src, err := l.fs.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}

	lang, _ := LanguageFromExtension(path.Ext(p))
	tree, err := l.parser.Parse(ctx, src, lang)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p, err)
	}

	return &File{
		Path:     p,
		Source:   src,
		Lang:     lang,
		Root:     tree.RootNode(),
		Declared: strings.HasSuffix(p, ".d.ts"),
		tree:     tree,
	}, nil
}
