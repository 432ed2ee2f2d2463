package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-article/internal/export"
	"github.com/goliatone/go-article/internal/lint"
	"github.com/goliatone/go-article/internal/logging"
	"github.com/goliatone/go-article/internal/logging/gologger"
	"github.com/goliatone/go-article/internal/markdown"
	"github.com/goliatone/go-article/internal/runtimeconfig"
	"github.com/goliatone/go-article/internal/store"
	"github.com/goliatone/go-article/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// Container wires the article module's services from runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	ownsDB        bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	articleRepo store.Repository
	writer      export.ArtifactWriter
	parser      interfaces.MarkdownParser

	markdownSvc *markdown.Service
	checker     *lint.Checker
	storeSvc    store.Service
	exportSvc   export.Service
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider used for module-scoped loggers.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB supplies an externally managed database connection.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default repository cache service.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithArticleRepository overrides repository selection entirely.
func WithArticleRepository(repo store.Repository) Option {
	return func(c *Container) {
		c.articleRepo = repo
	}
}

// WithArtifactWriter overrides the export output target.
func WithArtifactWriter(writer export.ArtifactWriter) Option {
	return func(c *Container) {
		c.writer = writer
	}
}

// WithMarkdownParser overrides the goldmark-backed default parser.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		c.parser = parser
	}
}

// NewContainer validates the configuration and assembles every enabled service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	if err := c.configureRepository(); err != nil {
		return nil, err
	}
	if err := c.configureServices(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	if !c.Config.Features.Logger {
		return nil
	}

	format := c.Config.Logging.Format
	if strings.EqualFold(strings.TrimSpace(c.Config.Logging.Provider), "console") && format == "" {
		format = "console"
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.Config.Logging.Level,
		Format:    format,
		AddSource: c.Config.Logging.AddSource,
		Focus:     c.Config.Logging.Focus,
	})
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cacheCfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cacheCfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cacheCfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepository() error {
	if c.articleRepo != nil {
		return nil
	}
	if !c.Config.Features.Storage {
		return nil
	}

	driver := strings.ToLower(strings.TrimSpace(c.Config.Storage.Driver))
	switch driver {
	case "", "memory":
		c.articleRepo = store.NewMemoryRepository()
		return nil
	case "sqlite":
		if c.bunDB == nil {
			db, err := store.OpenSQLite(c.Config.Storage.DSN)
			if err != nil {
				return fmt.Errorf("di: open sqlite storage: %w", err)
			}
			if err := store.CreateTables(context.Background(), db); err != nil {
				return fmt.Errorf("di: create article tables: %w", err)
			}
			c.bunDB = db
			c.ownsDB = true
		}
		c.articleRepo = store.NewBunArticleRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		return nil
	default:
		return fmt.Errorf("%w: %s", runtimeconfig.ErrStorageDriverUnknown, driver)
	}
}

func (c *Container) configureServices() error {
	parserOpts := interfaces.ParseOptions{
		Extensions: c.Config.Markdown.Parser.Extensions,
		Sanitize:   c.Config.Markdown.Parser.Sanitize,
		HardWraps:  c.Config.Markdown.Parser.HardWraps,
		SafeMode:   c.Config.Markdown.Parser.SafeMode,
	}

	markdownSvc, err := markdown.NewService(markdown.Config{
		BasePath:  c.Config.Markdown.ContentDir,
		Pattern:   c.Config.Markdown.Pattern,
		Recursive: c.Config.Markdown.Recursive,
		Parser:    parserOpts,
	}, c.parser)
	if err != nil {
		return fmt.Errorf("di: configure markdown service: %w", err)
	}
	c.markdownSvc = markdownSvc

	checker, err := lint.New(lint.Config{
		FrontMatterSchema: c.Config.Lint.FrontMatterSchema,
		UnknownLanguages:  c.Config.Lint.WarnUnknownLanguages,
	}, lint.WithLogger(logging.LintLogger(c.loggerProvider)))
	if err != nil {
		return fmt.Errorf("di: configure lint checker: %w", err)
	}
	c.checker = checker

	if c.articleRepo != nil {
		storeSvc, err := store.NewService(c.articleRepo, c.markdownSvc, c.checker,
			store.WithLogger(logging.StoreLogger(c.loggerProvider)))
		if err != nil {
			return fmt.Errorf("di: configure article store: %w", err)
		}
		c.storeSvc = storeSvc
	}

	if c.Config.Features.Export && c.articleRepo != nil {
		exportSvc, err := export.NewService(export.Config{
			OutputDir:       c.Config.Export.OutputDir,
			BaseURL:         c.Config.Export.BaseURL,
			SiteTitle:       c.Config.Export.SiteTitle,
			CleanBuild:      c.Config.Export.CleanBuild,
			GenerateSitemap: c.Config.Export.GenerateSitemap,
			GenerateRobots:  c.Config.Export.GenerateRobots,
			Workers:         c.Config.Export.Workers,
			Template:        c.Config.Export.Template,
			Routes:          c.Config.Export.Routes,
			RouteGroup:      c.Config.Export.RouteGroup,
			RouteName:       c.Config.Export.RouteName,
			SlugParam:       c.Config.Export.SlugParam,
		}, export.Dependencies{
			Articles: c.articleRepo,
			Logger:   logging.ExportLogger(c.loggerProvider),
			Writer:   c.writer,
		})
		if err != nil {
			return fmt.Errorf("di: configure exporter: %w", err)
		}
		c.exportSvc = exportSvc
	} else {
		c.exportSvc = export.NewDisabledService()
	}

	return nil
}

// LoggerProvider exposes the configured logger provider. May be nil when the
// logging feature is disabled; logging.ModuleLogger handles that case.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Markdown returns the filesystem-backed markdown service.
func (c *Container) Markdown() *markdown.Service {
	return c.markdownSvc
}

// Checker returns the configured lint checker.
func (c *Container) Checker() *lint.Checker {
	return c.checker
}

// ArticleRepository returns the configured repository, nil when storage is disabled.
func (c *Container) ArticleRepository() store.Repository {
	return c.articleRepo
}

// Store returns the article store service, nil when storage is disabled.
func (c *Container) Store() store.Service {
	return c.storeSvc
}

// Export returns the static site exporter. Always non-nil; disabled builds
// return ErrServiceDisabled.
func (c *Container) Export() export.Service {
	return c.exportSvc
}

// DB exposes the bun handle when the container opened or received one.
func (c *Container) DB() *bun.DB {
	return c.bunDB
}

// Close releases resources the container owns. Databases supplied via
// WithBunDB stay open.
func (c *Container) Close() error {
	if c.ownsDB && c.bunDB != nil {
		err := c.bunDB.Close()
		c.bunDB = nil
		c.ownsDB = false
		return err
	}
	return nil
}
