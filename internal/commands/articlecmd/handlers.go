package articlecmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-article/internal/commands"
	"github.com/goliatone/go-article/internal/export"
	"github.com/goliatone/go-article/internal/lint"
	"github.com/goliatone/go-article/internal/logging"
	"github.com/goliatone/go-article/internal/store"
	"github.com/goliatone/go-article/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	importOperation = "article.import_articles"
	checkOperation  = "article.check_article"
	exportOperation = "article.export_site"
)

var (
	// ErrStorageFeatureDisabled is returned when the storage feature flag is disabled at runtime.
	ErrStorageFeatureDisabled = errors.New("article command: storage disabled")
	// ErrExportFeatureDisabled is returned when the export feature flag is disabled at runtime.
	ErrExportFeatureDisabled = errors.New("article command: export disabled")
)

var (
	_ command.Commander[ImportArticlesCommand] = (*ImportArticlesHandler)(nil)
	_ command.Commander[CheckArticleCommand]   = (*CheckArticleHandler)(nil)
	_ command.Commander[ExportSiteCommand]     = (*ExportSiteHandler)(nil)
)

// ImportArticlesHandler orchestrates article imports via the shared command handler foundation.
type ImportArticlesHandler struct {
	inner *commands.Handler[ImportArticlesCommand]
}

// NewImportArticlesHandler creates a handler bound to the supplied article store service.
func NewImportArticlesHandler(service store.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ImportArticlesCommand]) *ImportArticlesHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ImportArticlesCommand) error {
		if !gates.storageEnabled() {
			return ErrStorageFeatureDisabled
		}

		result, err := service.Import(ctx, store.ImportRequest{
			Dir:             msg.Directory,
			Pattern:         msg.Pattern,
			DryRun:          msg.DryRun,
			AllowLintErrors: msg.AllowLintErrors,
			IncludeDrafts:   msg.IncludeDrafts,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"created_count": len(result.Created),
				"updated_count": len(result.Updated),
				"skipped_count": len(result.Skipped),
				"error_count":   len(result.Errors),
				"dry_run":       msg.DryRun,
			}).Info("article.command.import_articles.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportArticlesCommand]{
		commands.WithLogger[ImportArticlesCommand](baseLogger),
		commands.WithOperation[ImportArticlesCommand](importOperation),
		commands.WithMessageFields(func(msg ImportArticlesCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.Pattern != "" {
				fields["pattern"] = msg.Pattern
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.AllowLintErrors {
				fields["allow_lint_errors"] = true
			}
			if msg.IncludeDrafts {
				fields["include_drafts"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ImportArticlesCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportArticlesHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ImportArticlesCommand].
func (h *ImportArticlesHandler) Execute(ctx context.Context, msg ImportArticlesCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CheckArticleHandler lints a single article file via the shared command handler foundation.
type CheckArticleHandler struct {
	inner *commands.Handler[CheckArticleCommand]
}

// NewCheckArticleHandler creates a handler bound to the markdown loader and lint checker.
func NewCheckArticleHandler(markdown interfaces.MarkdownService, checker *lint.Checker, logger interfaces.Logger, opts ...commands.HandlerOption[CheckArticleCommand]) *CheckArticleHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg CheckArticleCommand) error {
		doc, err := markdown.Load(ctx, msg.Path, interfaces.LoadOptions{})
		if err != nil {
			return err
		}
		report, err := checker.Check(ctx, doc)
		if err != nil {
			return err
		}

		logging.WithFields(baseLogger, map[string]any{
			"path":        msg.Path,
			"issue_count": len(report.Issues),
			"error_count": len(report.Errors()),
		}).Info("article.command.check_article.completed")

		failures := len(report.Errors())
		if msg.Strict {
			failures = len(report.Issues)
		}
		if failures > 0 {
			return fmt.Errorf("check %s: %w", msg.Path, &store.LintError{
				FilePath: doc.FilePath,
				Count:    failures,
			})
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[CheckArticleCommand]{
		commands.WithLogger[CheckArticleCommand](baseLogger),
		commands.WithOperation[CheckArticleCommand](checkOperation),
		commands.WithMessageFields(func(msg CheckArticleCommand) map[string]any {
			fields := map[string]any{
				"path": msg.Path,
			}
			if msg.Strict {
				fields["strict"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[CheckArticleCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CheckArticleHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CheckArticleCommand].
func (h *CheckArticleHandler) Execute(ctx context.Context, msg CheckArticleCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ExportSiteHandler runs static site exports via the shared command handler foundation.
type ExportSiteHandler struct {
	inner *commands.Handler[ExportSiteCommand]
}

// NewExportSiteHandler creates a handler bound to the supplied export service.
func NewExportSiteHandler(service export.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ExportSiteCommand]) *ExportSiteHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ExportSiteCommand) error {
		if !gates.exportEnabled() {
			return ErrExportFeatureDisabled
		}

		result, err := service.Build(ctx, export.BuildOptions{
			Slugs:         msg.Slugs,
			IncludeDrafts: msg.IncludeDrafts,
			DryRun:        msg.DryRun,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"articles_built":   result.ArticlesBuilt,
				"articles_skipped": result.ArticlesSkipped,
				"error_count":      len(result.Errors),
				"dry_run":          result.DryRun,
			}).Info("article.command.export_site.completed")
			if len(result.Errors) > 0 {
				return fmt.Errorf("export finished with %d errors: %w", len(result.Errors), result.Errors[0])
			}
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ExportSiteCommand]{
		commands.WithLogger[ExportSiteCommand](baseLogger),
		commands.WithOperation[ExportSiteCommand](exportOperation),
		commands.WithMessageFields(func(msg ExportSiteCommand) map[string]any {
			fields := map[string]any{}
			if len(msg.Slugs) > 0 {
				fields["slug_count"] = len(msg.Slugs)
			}
			if msg.IncludeDrafts {
				fields["include_drafts"] = true
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ExportSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ExportSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ExportSiteCommand].
func (h *ExportSiteHandler) Execute(ctx context.Context, msg ExportSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}
