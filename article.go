package article

import (
	"github.com/goliatone/go-article/internal/di"
	"github.com/goliatone/go-article/internal/export"
	"github.com/goliatone/go-article/internal/lint"
	"github.com/goliatone/go-article/internal/markdown"
	"github.com/goliatone/go-article/internal/store"
	"github.com/goliatone/go-article/pkg/interfaces"
)

// MarkdownService exports the markdown loading contract for consumers of the article package.
type MarkdownService = interfaces.MarkdownService

// Document exports the parsed markdown document DTO.
type Document = interfaces.Document

// FrontMatter exports the parsed frontmatter DTO.
type FrontMatter = interfaces.FrontMatter

// Outline exports the structural outline DTO.
type Outline = interfaces.Outline

// Report exports the lint report DTO.
type Report = interfaces.Report

// Issue exports a single lint finding.
type Issue = interfaces.Issue

// Checker exports the lint checker.
type Checker = lint.Checker

// StoreService exports the article persistence contract.
type StoreService = store.Service

// ImportRequest exports the store import request DTO.
type ImportRequest = store.ImportRequest

// ImportResult exports the store import result DTO.
type ImportResult = store.ImportResult

// Record exports the persisted article model.
type Record = store.Article

// ExportService exports the static site build contract.
type ExportService = export.Service

// BuildOptions exports the static site build options.
type BuildOptions = export.BuildOptions

// BuildResult exports the static site build result.
type BuildResult = export.BuildResult

// Module represents the top level article runtime façade.
type Module struct {
	container *di.Container
}

// New constructs an article module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Markdown returns the filesystem-backed markdown service.
func (m *Module) Markdown() *markdown.Service {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Markdown()
}

// Lint returns the configured lint checker.
func (m *Module) Lint() *Checker {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Checker()
}

// Store returns the article store service, nil when the storage feature is disabled.
func (m *Module) Store() StoreService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Store()
}

// Export returns the static site exporter. Disabled exporters fail builds
// with export.ErrServiceDisabled.
func (m *Module) Export() ExportService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Export()
}

// Close releases resources owned by the module, such as a database the
// container opened from configuration.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
