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
	if err := runImport(os.Args[1:]); err != nil {
		log.Fatalf("article import: %v", err)
	}
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("article-import", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering markdown files")
	directory := fs.String("directory", ".", "Directory to import, relative to the content root")
	driver := fs.String("storage-driver", "sqlite", "Storage driver (sqlite or memory)")
	dsn := fs.String("storage-dsn", "file:articles.db?_fk=1", "Database DSN for the sqlite driver")
	dryRun := fs.Bool("dry-run", false, "Preview changes without persisting articles")
	allowLintErrors := fs.Bool("allow-lint-errors", false, "Store articles even when lint reports errors")
	includeDrafts := fs.Bool("include-drafts", false, "Import articles marked draft in frontmatter")

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
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Module.Close()

	if module.Store == nil {
		return fmt.Errorf("article store not configured; ensure Features.Storage is enabled")
	}

	handler := articlecmd.NewImportArticlesHandler(module.Store, module.Logger, articlecmd.FeatureGates{})
	cmd := articlecmd.ImportArticlesCommand{
		Directory:       *directory,
		Pattern:         *pattern,
		DryRun:          *dryRun,
		AllowLintErrors: *allowLintErrors,
		IncludeDrafts:   *includeDrafts,
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		return fmt.Errorf("execute import command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "article import command executed successfully")

	return nil
}
