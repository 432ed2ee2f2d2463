package export

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-article/internal/logging"
	"github.com/goliatone/go-article/internal/store"
	"github.com/goliatone/go-article/pkg/interfaces"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/google/uuid"
)

// ErrServiceDisabled indicates the exporter was not enabled in configuration.
var ErrServiceDisabled = errors.New("export: service disabled")

// Service renders stored articles into a static HTML site.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
}

// Config controls how the exporter lays out and renders the site.
type Config struct {
	OutputDir       string
	BaseURL         string
	SiteTitle       string
	CleanBuild      bool
	GenerateSitemap bool
	GenerateRobots  bool
	Workers         int
	Template        string

	// Routes configures go-urlkit permalink resolution. When nil the
	// exporter falls back to "/articles/<slug>" paths.
	Routes     *urlkit.Config
	RouteGroup string
	RouteName  string
	SlugParam  string
}

// BuildOptions narrows the scope of an export run.
type BuildOptions struct {
	Slugs         []string
	IncludeDrafts bool
	DryRun        bool
}

// BuildResult reports aggregated export metadata.
type BuildResult struct {
	ArticlesBuilt   int
	ArticlesSkipped int
	Rendered        []RenderedArticle
	Diagnostics     []RenderDiagnostic
	Errors          []error
	Duration        time.Duration
	DryRun          bool
}

// RenderedArticle captures the rendered HTML output for one article.
type RenderedArticle struct {
	ArticleID    uuid.UUID
	Slug         string
	Route        string
	Output       string
	HTML         string
	Checksum     string
	LastModified time.Time
	Duration     time.Duration
}

// RenderDiagnostic records timing and errors for individual articles.
type RenderDiagnostic struct {
	ArticleID uuid.UUID
	Slug      string
	Route     string
	Duration  time.Duration
	Skipped   bool
	Err       error
}

type renderOutcome struct {
	page       RenderedArticle
	diagnostic RenderDiagnostic
	err        error
	skipped    bool
}

// Dependencies lists the collaborators required by the exporter.
type Dependencies struct {
	Articles store.Repository
	Logger   interfaces.Logger
	Writer   ArtifactWriter
}

// NewService wires an exporter with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) (Service, error) {
	if deps.Articles == nil {
		return nil, errors.New("export: article repository is required")
	}
	resolver, err := newPermalinkResolver(cfg)
	if err != nil {
		return nil, err
	}
	renderer, err := newPageRenderer(cfg)
	if err != nil {
		return nil, err
	}
	writer := deps.Writer
	if writer == nil {
		writer = NewFSWriter(cfg.OutputDir)
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &service{
		cfg:      cfg,
		articles: deps.Articles,
		writer:   writer,
		resolver: resolver,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// NewDisabledService returns a Service that fails every build with ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type disabledService struct{}

func (disabledService) Build(context.Context, BuildOptions) (*BuildResult, error) {
	return nil, ErrServiceDisabled
}

type service struct {
	cfg      Config
	articles store.Repository
	writer   ArtifactWriter
	resolver *permalinkResolver
	renderer *pageRenderer
	logger   interfaces.Logger
	now      func() time.Time
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := s.now()

	articles, err := s.articles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: list articles: %w", err)
	}
	selected := selectArticles(articles, opts)

	result := &BuildResult{DryRun: opts.DryRun}
	if len(selected) == 0 {
		result.Duration = s.now().Sub(start)
		return result, nil
	}

	writer := s.writer
	if opts.DryRun {
		writer = noopWriter{}
	}
	if !opts.DryRun {
		if err := writer.EnsureDir(ctx, ""); err != nil {
			return nil, fmt.Errorf("export: prepare output dir: %w", err)
		}
		if s.cfg.CleanBuild {
			if err := writer.Clean(ctx); err != nil {
				return nil, fmt.Errorf("export: clean output dir: %w", err)
			}
		}
	}

	var (
		mu       sync.Mutex
		rendered = make([]RenderedArticle, 0, len(selected))
	)
	collect := func(outcome renderOutcome) {
		mu.Lock()
		defer mu.Unlock()
		result.Diagnostics = append(result.Diagnostics, outcome.diagnostic)
		switch {
		case outcome.err != nil:
			result.Errors = append(result.Errors, outcome.err)
		case outcome.skipped:
			result.ArticlesSkipped++
		default:
			rendered = append(rendered, outcome.page)
		}
	}

	if err := s.renderConcurrently(ctx, selected, collect); err != nil {
		return nil, err
	}

	sort.Slice(rendered, func(i, j int) bool {
		return rendered[i].Route < rendered[j].Route
	})

	manifest := newBuildManifest()
	manifest.GeneratedAt = s.now().UTC()

	for _, page := range rendered {
		if err := s.writePage(ctx, writer, page); err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		manifest.Articles[page.Slug] = manifestArticle{
			ArticleID:    page.ArticleID.String(),
			Slug:         page.Slug,
			Route:        page.Route,
			Output:       page.Output,
			Checksum:     page.Checksum,
			LastModified: page.LastModified,
			RenderedAt:   manifest.GeneratedAt,
		}
		result.ArticlesBuilt++
	}
	result.Rendered = rendered

	if s.cfg.GenerateSitemap {
		if err := s.writeSitemap(ctx, writer, rendered, manifest.GeneratedAt); err != nil {
			result.Errors = append(result.Errors, err)
		}
	}
	if s.cfg.GenerateRobots {
		if err := s.writeRobots(ctx, writer); err != nil {
			result.Errors = append(result.Errors, err)
		}
	}
	if err := s.writeManifest(ctx, writer, manifest); err != nil {
		result.Errors = append(result.Errors, err)
	}

	result.Duration = s.now().Sub(start)
	s.logger.Info("export build finished",
		"articles_built", result.ArticlesBuilt,
		"articles_skipped", result.ArticlesSkipped,
		"errors", len(result.Errors),
		"dry_run", result.DryRun,
	)
	return result, nil
}

func (s *service) renderConcurrently(
	ctx context.Context,
	articles []*store.Article,
	collect func(renderOutcome),
) error {
	workers := s.effectiveWorkerCount(len(articles))

	jobs := make(chan *store.Article)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for article := range jobs {
				select {
				case <-ctx.Done():
					collect(renderOutcome{
						diagnostic: RenderDiagnostic{
							ArticleID: article.ID,
							Slug:      article.Slug,
							Err:       ctx.Err(),
						},
						err: ctx.Err(),
					})
					return
				default:
					collect(s.renderArticle(article))
				}
			}
		}()
	}

	for _, article := range articles {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- article:
		}
	}
	close(jobs)
	wg.Wait()
	return nil
}

func (s *service) renderArticle(article *store.Article) renderOutcome {
	start := s.now()
	diagnostic := RenderDiagnostic{ArticleID: article.ID, Slug: article.Slug}

	route, err := s.resolver.Resolve(article.Slug)
	if err != nil {
		diagnostic.Err = err
		diagnostic.Duration = s.now().Sub(start)
		return renderOutcome{diagnostic: diagnostic, err: err}
	}
	diagnostic.Route = route

	html, err := s.renderer.Render(article, s.cfg.SiteTitle)
	if err != nil {
		diagnostic.Err = fmt.Errorf("export: render %s: %w", article.Slug, err)
		diagnostic.Duration = s.now().Sub(start)
		return renderOutcome{diagnostic: diagnostic, err: diagnostic.Err}
	}

	sum := sha256.Sum256([]byte(html))
	duration := s.now().Sub(start)
	diagnostic.Duration = duration

	return renderOutcome{
		page: RenderedArticle{
			ArticleID:    article.ID,
			Slug:         article.Slug,
			Route:        route,
			Output:       outputPathFor(route),
			HTML:         html,
			Checksum:     hex.EncodeToString(sum[:]),
			LastModified: article.UpdatedAt,
			Duration:     duration,
		},
		diagnostic: diagnostic,
	}
}

func (s *service) writePage(ctx context.Context, writer ArtifactWriter, page RenderedArticle) error {
	req := WriteRequest{
		Path:        page.Output,
		Content:     strings.NewReader(page.HTML),
		Size:        int64(len(page.HTML)),
		Category:    CategoryPage,
		ContentType: "text/html; charset=utf-8",
		Checksum:    page.Checksum,
	}
	if err := writer.WriteFile(ctx, req); err != nil {
		return fmt.Errorf("export: write %s: %w", page.Output, err)
	}
	return nil
}

func (s *service) writeSitemap(ctx context.Context, writer ArtifactWriter, pages []RenderedArticle, fallback time.Time) error {
	body := buildSitemap(s.cfg.BaseURL, pages, fallback)
	req := WriteRequest{
		Path:        "sitemap.xml",
		Content:     strings.NewReader(body),
		Size:        int64(len(body)),
		Category:    CategorySitemap,
		ContentType: "application/xml; charset=utf-8",
	}
	if err := writer.WriteFile(ctx, req); err != nil {
		return fmt.Errorf("export: write sitemap: %w", err)
	}
	return nil
}

func (s *service) writeRobots(ctx context.Context, writer ArtifactWriter) error {
	body := buildRobots(s.cfg.BaseURL, s.cfg.GenerateSitemap)
	req := WriteRequest{
		Path:        "robots.txt",
		Content:     strings.NewReader(body),
		Size:        int64(len(body)),
		Category:    CategoryRobots,
		ContentType: "text/plain; charset=utf-8",
	}
	if err := writer.WriteFile(ctx, req); err != nil {
		return fmt.Errorf("export: write robots: %w", err)
	}
	return nil
}

func (s *service) writeManifest(ctx context.Context, writer ArtifactWriter, manifest *buildManifest) error {
	data, err := manifest.marshal()
	if err != nil {
		return err
	}
	req := WriteRequest{
		Path:        manifestFileName,
		Content:     strings.NewReader(string(data)),
		Size:        int64(len(data)),
		Category:    CategoryManifest,
		ContentType: "application/json; charset=utf-8",
	}
	if err := writer.WriteFile(ctx, req); err != nil {
		return fmt.Errorf("export: write manifest: %w", err)
	}
	return nil
}

func (s *service) effectiveWorkerCount(articleCount int) int {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if articleCount > 0 && workers > articleCount {
		return articleCount
	}
	return workers
}

func selectArticles(articles []*store.Article, opts BuildOptions) []*store.Article {
	var wanted map[string]struct{}
	if len(opts.Slugs) > 0 {
		wanted = make(map[string]struct{}, len(opts.Slugs))
		for _, slug := range opts.Slugs {
			slug = strings.ToLower(strings.TrimSpace(slug))
			if slug != "" {
				wanted[slug] = struct{}{}
			}
		}
	}

	selected := make([]*store.Article, 0, len(articles))
	for _, article := range articles {
		if article == nil {
			continue
		}
		if article.Draft && !opts.IncludeDrafts {
			continue
		}
		if wanted != nil {
			if _, ok := wanted[strings.ToLower(article.Slug)]; !ok {
				continue
			}
		}
		selected = append(selected, article)
	}
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Slug < selected[j].Slug
	})
	return selected
}

// outputPathFor maps a permalink route to a relative file path. Routes map
// to directory-style output so links work without an .html suffix.
func outputPathFor(route string) string {
	trimmed := strings.Trim(strings.TrimSpace(route), "/")
	if trimmed == "" {
		return "index.html"
	}
	return trimmed + "/index.html"
}
