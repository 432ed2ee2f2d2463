package store

import (
	"context"
	"encoding/hex"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-article/internal/identity"
	"github.com/goliatone/go-article/internal/lint"
	"github.com/goliatone/go-article/internal/logging"
	"github.com/goliatone/go-article/internal/outline"
	"github.com/goliatone/go-article/pkg/interfaces"
)

// Service is the article store contract: write-once import from a markdown
// source tree plus read access for hosts and the exporter.
type Service interface {
	Import(ctx context.Context, req ImportRequest) (*ImportResult, error)
	Get(ctx context.Context, id uuid.UUID) (*Article, error)
	GetBySlug(ctx context.Context, slug string) (*Article, error)
	List(ctx context.Context) ([]*Article, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ImportRequest selects the documents to ingest.
type ImportRequest struct {
	// Dir is the directory to import, relative to the markdown base path.
	Dir string
	// Pattern overrides the discovery glob.
	Pattern string
	// DryRun reports what would change without persisting anything.
	DryRun bool
	// AllowLintErrors stores articles even when lint reports errors. The
	// reports still surface in the result.
	AllowLintErrors bool
	// IncludeDrafts imports articles marked draft in frontmatter.
	IncludeDrafts bool
}

// ImportResult summarises an import run.
type ImportResult struct {
	Created []uuid.UUID
	Updated []uuid.UUID
	Skipped []uuid.UUID
	Reports []interfaces.Report
	Errors  []error
	DryRun  bool
}

type service struct {
	repo     Repository
	markdown interfaces.MarkdownService
	checker  *lint.Checker
	logger   interfaces.Logger
	nowFunc  func() time.Time
}

// ServiceOption customises the store service.
type ServiceOption func(*service)

// WithLogger attaches a logger to the store service.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.nowFunc = now
		}
	}
}

// NewService wires the store service with its collaborators. The markdown
// service provides loading and rendering; the checker gates imports.
func NewService(repo Repository, md interfaces.MarkdownService, checker *lint.Checker, opts ...ServiceOption) (Service, error) {
	if repo == nil {
		return nil, ErrRepositoryNeeded
	}
	if md == nil {
		return nil, errors.New("store: markdown service is required")
	}
	if checker == nil {
		var err error
		checker, err = lint.New(lint.Config{})
		if err != nil {
			return nil, err
		}
	}

	s := &service{
		repo:     repo,
		markdown: md,
		checker:  checker,
		logger:   logging.NoOp(),
		nowFunc:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *service) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	dir := strings.TrimSpace(req.Dir)
	if dir == "" {
		dir = "."
	}

	docs, err := s.markdown.LoadDirectory(ctx, dir, interfaces.LoadOptions{Pattern: req.Pattern})
	if err != nil {
		return nil, err
	}

	result := &ImportResult{DryRun: req.DryRun}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if doc.FrontMatter.Draft && !req.IncludeDrafts {
			continue
		}

		report, err := s.checker.Check(ctx, doc)
		if err != nil {
			return nil, err
		}
		result.Reports = append(result.Reports, report)

		if !report.Ok() && !req.AllowLintErrors {
			result.Errors = append(result.Errors, &LintError{
				FilePath: doc.FilePath,
				Count:    len(report.Errors()),
			})
			continue
		}

		record, err := s.buildRecord(doc)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}

		logger := logging.WithArticleContext(s.logger, doc.FilePath, record.Slug, "import")

		existing, err := s.repo.GetBySlug(ctx, record.Slug)
		switch {
		case err == nil:
			if existing.Checksum == record.Checksum {
				logger.Debug("store.import.unchanged")
				result.Skipped = append(result.Skipped, existing.ID)
				continue
			}
			record.ID = existing.ID
			record.CreatedAt = existing.CreatedAt
			if req.DryRun {
				result.Updated = append(result.Updated, existing.ID)
				continue
			}
			updated, err := s.repo.Update(ctx, record)
			if err != nil {
				result.Errors = append(result.Errors, err)
				continue
			}
			logger.Info("store.import.updated")
			result.Updated = append(result.Updated, updated.ID)

		case errors.Is(err, ErrArticleNotFound):
			if req.DryRun {
				result.Created = append(result.Created, record.ID)
				continue
			}
			created, err := s.repo.Create(ctx, record)
			if err != nil {
				result.Errors = append(result.Errors, err)
				continue
			}
			logger.Info("store.import.created")
			result.Created = append(result.Created, created.ID)

		default:
			return nil, err
		}
	}

	return result, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Article, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, articleSlug string) (*Article, error) {
	normalized, err := slug.Normalize(articleSlug)
	if err != nil {
		return nil, ErrSlugInvalid
	}
	return s.repo.GetBySlug(ctx, normalized)
}

func (s *service) List(ctx context.Context) ([]*Article, error) {
	return s.repo.List(ctx)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// buildRecord converts a loaded document into a persistable article. Rendered
// HTML and the structural outline are materialised here so reads never need
// the markdown toolchain.
func (s *service) buildRecord(doc *interfaces.Document) (*Article, error) {
	articleSlug, err := resolveSlug(doc)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(doc.FrontMatter.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	if len(doc.BodyHTML) == 0 {
		return nil, errors.New("store: document was not rendered before import")
	}

	extracted, err := outline.Extract(doc.Body)
	if err != nil {
		return nil, err
	}

	now := s.nowFunc()
	record := &Article{
		ID:         identity.ArticleUUID(articleSlug),
		Slug:       articleSlug,
		Title:      title,
		Tags:       append([]string(nil), doc.FrontMatter.Tags...),
		SourcePath: doc.FilePath,
		Checksum:   hex.EncodeToString(doc.Checksum),
		Body:       string(doc.Body),
		BodyHTML:   string(doc.BodyHTML),
		Outline:    extracted.Outline,
		Metadata:   doc.FrontMatter.Raw,
		Draft:      doc.FrontMatter.Draft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if summary := strings.TrimSpace(doc.FrontMatter.Summary); summary != "" {
		record.Summary = &summary
	}
	if author := strings.TrimSpace(doc.FrontMatter.Author); author != "" {
		record.Author = &author
	}
	if !doc.FrontMatter.Date.IsZero() {
		date := doc.FrontMatter.Date
		record.Date = &date
	}

	return record, nil
}

// resolveSlug prefers explicit frontmatter, then the title, then the file
// name, normalising with the shared slug rules.
func resolveSlug(doc *interfaces.Document) (string, error) {
	candidate := strings.TrimSpace(doc.FrontMatter.Slug)
	if candidate == "" {
		candidate = strings.TrimSpace(doc.FrontMatter.Title)
	}
	if candidate == "" {
		base := filepath.Base(doc.FilePath)
		candidate = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if candidate == "" {
		return "", ErrSlugRequired
	}

	normalized, err := slug.Normalize(candidate)
	if err != nil || normalized == "" {
		return "", ErrSlugInvalid
	}
	return normalized, nil
}
