package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-article/cmd/article/internal/bootstrap"
	articlecmd "github.com/goliatone/go-article/internal/commands/articlecmd"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runExport(os.Args[1:]); err != nil {
		log.Fatalf("article export: %v", err)
	}
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("article-export", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering markdown files")
	outputDir := fs.String("output-dir", "dist", "Directory receiving the rendered site")
	baseURL := fs.String("base-url", "", "Absolute base URL used in the sitemap")
	siteTitle := fs.String("site-title", "", "Site title rendered into page heads")
	driver := fs.String("storage-driver", "memory", "Storage driver (sqlite or memory)")
	dsn := fs.String("storage-dsn", "", "Database DSN for the sqlite driver")
	slugs := fs.String("slugs", "", "Comma separated slugs to export (default everything)")
	skipImport := fs.Bool("skip-import", false, "Export existing stored articles without importing first")
	includeDrafts := fs.Bool("include-drafts", false, "Export articles marked draft")
	allowLintErrors := fs.Bool("allow-lint-errors", false, "Import articles even when lint reports errors")
	dryRun := fs.Bool("dry-run", false, "Render without writing any files")

	if err := fs.Parse(args); err != nil {
		return err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir:    *contentDir,
		Pattern:       *pattern,
		Recursive:     true,
		Storage:       true,
		StorageDriver: *driver,
		StorageDSN:    *dsn,
		Export:        true,
		OutputDir:     *outputDir,
		BaseURL:       *baseURL,
		SiteTitle:     *siteTitle,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Module.Close()

	ctx := context.Background()

	if !*skipImport {
		if module.Store == nil {
			return fmt.Errorf("article store not configured; ensure Features.Storage is enabled")
		}
		importHandler := articlecmd.NewImportArticlesHandler(module.Store, module.Logger, articlecmd.FeatureGates{})
		importCmd := articlecmd.ImportArticlesCommand{
			Directory:       ".",
			Pattern:         *pattern,
			AllowLintErrors: *allowLintErrors,
			IncludeDrafts:   *includeDrafts,
		}
		if err := importHandler.Execute(ctx, importCmd); err != nil {
			return fmt.Errorf("execute import command: %w", err)
		}
	}

	handler := articlecmd.NewExportSiteHandler(module.Export, module.Logger, articlecmd.FeatureGates{})
	cmd := articlecmd.ExportSiteCommand{
		Slugs:         bootstrap.SplitList(*slugs),
		IncludeDrafts: *includeDrafts,
		DryRun:        *dryRun,
	}
	if err := handler.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("execute export command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "article export command executed successfully")

	return nil
}
