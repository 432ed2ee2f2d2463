package bootstrap

import (
	"fmt"
	"strings"

	article "github.com/goliatone/go-article"
	"github.com/goliatone/go-article/internal/di"
	"github.com/goliatone/go-article/internal/logging"
	"github.com/goliatone/go-article/pkg/interfaces"
)

// Options captures configuration for article CLI bootstraps.
type Options struct {
	ContentDir    string
	Pattern       string
	Recursive     bool
	StorageDriver string
	StorageDSN    string
	OutputDir     string
	BaseURL       string
	SiteTitle     string
	LogLevel      string
	LogFormat     string
	Storage       bool
	Export        bool
}

// Module wraps the article module and the services the CLIs depend on.
type Module struct {
	Module   *article.Module
	Markdown interfaces.MarkdownService
	Checker  *article.Checker
	Store    article.StoreService
	Export   article.ExportService
	Logger   interfaces.Logger
}

// BuildModule constructs an article module configured for CLI operations.
func BuildModule(opts Options, diOpts ...di.Option) (*Module, error) {
	cfg := article.DefaultConfig()

	cfg.Markdown.ContentDir = strings.TrimSpace(opts.ContentDir)
	if cfg.Markdown.ContentDir == "" {
		cfg.Markdown.ContentDir = "content"
	}
	if trimmed := strings.TrimSpace(opts.Pattern); trimmed != "" {
		cfg.Markdown.Pattern = trimmed
	}
	cfg.Markdown.Recursive = opts.Recursive

	cfg.Features.Storage = opts.Storage
	if driver := strings.TrimSpace(opts.StorageDriver); driver != "" {
		cfg.Storage.Driver = driver
	}
	if dsn := strings.TrimSpace(opts.StorageDSN); dsn != "" {
		cfg.Storage.DSN = dsn
	}

	cfg.Features.Export = opts.Export
	if dir := strings.TrimSpace(opts.OutputDir); dir != "" {
		cfg.Export.OutputDir = dir
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.Export.BaseURL = base
	}
	if title := strings.TrimSpace(opts.SiteTitle); title != "" {
		cfg.Export.SiteTitle = title
	}

	cfg.Features.Logger = true
	cfg.Logging.Provider = "console"
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if format := strings.TrimSpace(opts.LogFormat); format != "" {
		cfg.Logging.Format = format
	}

	module, err := article.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise article module: %w", err)
	}

	provider := module.Container().LoggerProvider()

	return &Module{
		Module:   module,
		Markdown: module.Markdown(),
		Checker:  module.Lint(),
		Store:    module.Store(),
		Export:   module.Export(),
		Logger:   logging.ModuleLogger(provider, "article.cli"),
	}, nil
}

// SplitList parses a comma separated list into a trimmed slice.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
