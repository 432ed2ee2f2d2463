package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// WriteCategory labels the kind of artifact being written.
type WriteCategory string

const (
	CategoryPage     WriteCategory = "page"
	CategorySitemap  WriteCategory = "sitemap"
	CategoryRobots   WriteCategory = "robots"
	CategoryManifest WriteCategory = "manifest"
)

// WriteRequest describes a file write routed through the artifact writer.
type WriteRequest struct {
	Path        string
	Content     io.Reader
	Size        int64
	Category    WriteCategory
	ContentType string
	Checksum    string
}

// ArtifactWriter abstracts the output target so builds can write to disk,
// memory (tests) or nowhere at all (dry runs).
type ArtifactWriter interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, req WriteRequest) error
	Clean(ctx context.Context) error
}

// NewFSWriter returns a writer rooted at dir.
func NewFSWriter(dir string) ArtifactWriter {
	return &fsWriter{root: dir}
}

type fsWriter struct {
	root string
}

func (w *fsWriter) EnsureDir(_ context.Context, path string) error {
	target := w.root
	if strings.TrimSpace(path) != "" && path != "." {
		target = filepath.Join(w.root, filepath.FromSlash(path))
	}
	if strings.TrimSpace(target) == "" {
		return errors.New("export: writer requires an output directory")
	}
	return os.MkdirAll(target, 0o755)
}

func (w *fsWriter) WriteFile(ctx context.Context, req WriteRequest) error {
	if req.Content == nil {
		return errors.New("export: write requires content reader")
	}
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("export: write requires path")
	}
	target := filepath.Join(w.root, filepath.FromSlash(req.Path))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("export: ensure dir for %s: %w", req.Path, err)
	}
	data, err := io.ReadAll(req.Content)
	if err != nil {
		return fmt.Errorf("export: read content for %s: %w", req.Path, err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", req.Path, err)
	}
	_ = ctx
	return nil
}

func (w *fsWriter) Clean(_ context.Context) error {
	if strings.TrimSpace(w.root) == "" {
		return errors.New("export: writer requires an output directory")
	}
	entries, err := os.ReadDir(w.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(w.root, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

type noopWriter struct{}

func (noopWriter) EnsureDir(context.Context, string) error       { return nil }
func (noopWriter) WriteFile(context.Context, WriteRequest) error { return nil }
func (noopWriter) Clean(context.Context) error                   { return nil }

// MemoryWriter records artifacts in memory. Intended for tests and previews.
type MemoryWriter struct {
	Files map[string][]byte
	Kinds map[string]WriteCategory
}

// NewMemoryWriter returns an empty in-memory writer.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{
		Files: map[string][]byte{},
		Kinds: map[string]WriteCategory{},
	}
}

func (m *MemoryWriter) EnsureDir(context.Context, string) error { return nil }

func (m *MemoryWriter) WriteFile(_ context.Context, req WriteRequest) error {
	if req.Content == nil {
		return errors.New("export: write requires content reader")
	}
	data, err := io.ReadAll(req.Content)
	if err != nil {
		return err
	}
	m.Files[req.Path] = data
	m.Kinds[req.Path] = req.Category
	return nil
}

func (m *MemoryWriter) Clean(context.Context) error {
	m.Files = map[string][]byte{}
	m.Kinds = map[string]WriteCategory{}
	return nil
}
