package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

var ErrMarkdownContentDirRequired = errors.New("article config: markdown content directory is required")
var ErrStorageDriverUnknown = errors.New("article config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("article config: storage dsn is required for the sqlite driver")
var ErrExportOutputDirRequired = errors.New("article config: export output directory is required when export is enabled")
var ErrLoggingProviderRequired = errors.New("article config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("article config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("article config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("article config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the article module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled  bool
	Markdown MarkdownConfig
	Lint     LintConfig
	Storage  StorageConfig
	Cache    CacheConfig
	Export   ExportConfig
	Features Features
	Logging  LoggingConfig
}

// Features toggles module functionality.
type Features struct {
	Storage bool
	Export  bool
	Logger  bool
}

// MarkdownConfig captures filesystem and parser behaviour for Markdown ingestion.
type MarkdownConfig struct {
	ContentDir string
	Pattern    string
	Recursive  bool
	Parser     MarkdownParserConfig
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownParserConfig struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// LintConfig captures lint rule behaviour.
type LintConfig struct {
	// FrontMatterSchema overrides the built-in JSON schema applied to frontmatter.
	FrontMatterSchema map[string]any
	// WarnUnknownLanguages toggles warnings for fences whose language has no checker.
	WarnUnknownLanguages *bool
}

// StorageConfig selects the persistence backend for imported articles.
type StorageConfig struct {
	// Driver is "sqlite" or "memory".
	Driver string
	DSN    string
}

// CacheConfig captures repository cache behaviour.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// ExportConfig captures behaviour for the static site exporter.
type ExportConfig struct {
	Enabled         bool
	OutputDir       string
	BaseURL         string
	SiteTitle       string
	CleanBuild      bool
	GenerateSitemap bool
	GenerateRobots  bool
	Workers         int
	Template        string
	Routes          *urlkit.Config
	RouteGroup      string
	RouteName       string
	SlugParam       string
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults for embedding hosts.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Markdown: MarkdownConfig{
			ContentDir: "content",
			Pattern:    "*.md",
			Recursive:  true,
		},
		Storage: StorageConfig{
			Driver: "memory",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Export: ExportConfig{
			OutputDir:       "dist",
			CleanBuild:      true,
			GenerateSitemap: true,
			GenerateRobots:  false,
			Workers:         0,
		},
		Features: Features{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Markdown.ContentDir) == "" {
		return ErrMarkdownContentDirRequired
	}
	if cfg.Features.Storage {
		driver := strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
		switch driver {
		case "", "memory":
		case "sqlite":
			if strings.TrimSpace(cfg.Storage.DSN) == "" {
				return ErrStorageDSNRequired
			}
		default:
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
		}
	}
	if cfg.Features.Export || cfg.Export.Enabled {
		if strings.TrimSpace(cfg.Export.OutputDir) == "" {
			return ErrExportOutputDirRequired
		}
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
