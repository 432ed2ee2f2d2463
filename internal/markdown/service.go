package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-article/pkg/interfaces"
)

// Config controls how the Markdown service discovers and parses files.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
	Parser    interfaces.ParseOptions
}

// Service implements interfaces.MarkdownService for filesystem-backed articles.
type Service struct {
	cfg    Config
	parser interfaces.MarkdownParser
	loader *Loader
}

// NewService constructs a Markdown service rooted at cfg.BasePath. The base
// path must exist. When parser is nil a Goldmark parser seeded with
// cfg.Parser is used.
func NewService(cfg Config, parser interfaces.MarkdownParser) (*Service, error) {
	base := strings.TrimSpace(cfg.BasePath)
	if base == "" {
		base = "."
	}
	if _, err := os.Stat(base); err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", base, err)
	}
	return NewServiceWithFS(cfg, os.DirFS(base), parser), nil
}

// NewServiceWithFS constructs a Markdown service over an arbitrary fs.FS,
// useful for embedded content and tests.
func NewServiceWithFS(cfg Config, filesystem fs.FS, parser interfaces.MarkdownParser) *Service {
	if parser == nil {
		parser = NewGoldmarkParser(cfg.Parser)
	}

	return &Service{
		cfg:    cfg,
		parser: parser,
		loader: NewLoader(filesystem, LoaderConfig{
			BasePath:  cfg.BasePath,
			Pattern:   cfg.Pattern,
			Recursive: cfg.Recursive,
		}),
	}
}

// Load reads a single Markdown document relative to the configured base path.
// The returned document carries rendered HTML alongside the raw body.
func (s *Service) Load(ctx context.Context, path string, opts interfaces.LoadOptions) (*interfaces.Document, error) {
	result, err := s.loader.LoadFile(ctx, s.relativePath(path), loaderParams(opts))
	if err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, result.Document, opts.Parser); err != nil {
		return nil, err
	}
	return result.Document, nil
}

// LoadDirectory reads every Markdown document within the supplied directory,
// ordered by file path.
func (s *Service) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error) {
	results, err := s.loader.LoadDirectory(ctx, s.relativePath(dir), loaderParams(opts))
	if err != nil {
		return nil, err
	}

	docs := make([]*interfaces.Document, 0, len(results))
	for _, result := range results {
		if err := s.hydrate(ctx, result.Document, opts.Parser); err != nil {
			return nil, err
		}
		docs = append(docs, result.Document)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].FilePath < docs[j].FilePath
	})
	return docs, nil
}

// Render parses Markdown bytes into HTML using the configured parser.
func (s *Service) Render(ctx context.Context, markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.parser.ParseWithOptions(markdown, s.parseOptions(opts))
}

// RenderDocument converts the document's Markdown body into HTML and records
// it on the document.
func (s *Service) RenderDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ParseOptions) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("markdown service: document is nil")
	}
	html, err := s.Render(ctx, doc.Body, opts)
	if err != nil {
		return nil, err
	}
	doc.BodyHTML = html
	return html, nil
}

func (s *Service) hydrate(ctx context.Context, doc *interfaces.Document, overrides interfaces.ParseOptions) error {
	if doc == nil {
		return nil
	}
	if _, err := s.RenderDocument(ctx, doc, overrides); err != nil {
		return fmt.Errorf("markdown render document %s: %w", doc.FilePath, err)
	}
	return nil
}

// relativePath maps caller-supplied paths onto the loader's filesystem root.
// Absolute paths under the base path are rebased; everything else is cleaned
// and slash-normalised.
func (s *Service) relativePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "."
	}
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) && strings.TrimSpace(s.cfg.BasePath) != "" {
		if rel, err := filepath.Rel(s.cfg.BasePath, clean); err == nil {
			clean = rel
		}
	}
	return filepath.ToSlash(clean)
}

// parseOptions overlays per-call parse options on the service defaults. Flags
// only ever tighten: an override can enable sanitisation or safe mode but not
// disable a default.
func (s *Service) parseOptions(override interfaces.ParseOptions) interfaces.ParseOptions {
	merged := s.cfg.Parser
	if len(override.Extensions) > 0 {
		merged.Extensions = append([]string(nil), override.Extensions...)
	}
	merged.Sanitize = merged.Sanitize || override.Sanitize
	merged.HardWraps = merged.HardWraps || override.HardWraps
	merged.SafeMode = merged.SafeMode || override.SafeMode
	return merged
}

func loaderParams(opts interfaces.LoadOptions) LoadParams {
	return LoadParams{
		Pattern:   opts.Pattern,
		Recursive: opts.Recursive,
	}
}
