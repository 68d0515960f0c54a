// Package vfs provides the storage abstraction used by the loader and the
// pipeline. Production code uses the OS implementation; tests use the
// in-memory implementation so no fixture ever touches the real filesystem.
package vfs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FS is the narrow filesystem capability the tool depends on.
type FS interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	Exists(path string) bool
	// Walk visits every regular file under root in lexical order.
	Walk(root string, fn func(path string) error) error
}

// OS is the real-filesystem implementation.
type OS struct{}

// NewOS creates an OS-backed filesystem.
func NewOS() *OS {
	return &OS{}
}

// ReadFile reads a file from disk.
func (o *OS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes a file, creating parent directories as needed.
func (o *OS) WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Exists reports whether path names an existing file or directory.
func (o *OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Walk visits regular files under root, skipping hidden directories and
// node_modules.
func (o *OS) Walk(root string, fn func(path string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || name == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}
		return fn(path)
	})
}

// Mem is an in-memory filesystem for tests.
type Mem struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMem creates an empty in-memory filesystem.
func NewMem() *Mem {
	return &Mem{files: make(map[string][]byte)}
}

// ReadFile returns the stored content for path.
func (m *Mem) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[normalize(path)]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// WriteFile stores content under path.
func (m *Mem) WriteFile(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	m.files[normalize(path)] = stored
	return nil
}

// Exists reports whether path was written, or is a prefix directory of a
// written file.
func (m *Mem) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := normalize(path)
	if _, ok := m.files[p]; ok {
		return true
	}
	prefix := p + "/"
	for k := range m.files {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

// Walk visits stored files under root in lexical order.
func (m *Mem) Walk(root string, fn func(path string) error) error {
	m.mu.Lock()
	var paths []string
	prefix := normalize(root)
	for k := range m.files {
		if k == prefix || strings.HasPrefix(k, prefix+"/") {
			paths = append(paths, k)
		}
	}
	m.mu.Unlock()

	sort.Strings(paths)
	for _, p := range paths {
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

func normalize(path string) string {
	return strings.TrimSuffix(filepath.ToSlash(path), "/")
}
