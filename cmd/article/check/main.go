package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/goliatone/go-article/cmd/article/internal/bootstrap"
	"github.com/goliatone/go-article/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	code, err := runCheck(os.Args[1:], os.Stdout)
	if err != nil {
		log.Fatalf("article check: %v", err)
	}
	os.Exit(code)
}

func runCheck(args []string, out io.Writer) (int, error) {
	fs := flag.NewFlagSet("article-check", flag.ExitOnError)
	contentDir := fs.String("content-dir", "content", "Path to the markdown content root")
	filePath := fs.String("file", "", "Markdown file to check (relative to the content root); empty checks every file")
	pattern := fs.String("pattern", "*.md", "Glob pattern applied when discovering markdown files")
	strict := fs.Bool("strict", false, "Treat warnings as failures")

	if err := fs.Parse(args); err != nil {
		return 1, err
	}

	module, err := moduleBuilder(bootstrap.Options{
		ContentDir: *contentDir,
		Pattern:    *pattern,
		Recursive:  true,
	})
	if err != nil {
		return 1, fmt.Errorf("bootstrap module: %w", err)
	}

	ctx := context.Background()

	var docs []*interfaces.Document
	if *filePath != "" {
		doc, err := module.Markdown.Load(ctx, *filePath, interfaces.LoadOptions{})
		if err != nil {
			return 1, fmt.Errorf("load %s: %w", *filePath, err)
		}
		docs = append(docs, doc)
	} else {
		docs, err = module.Markdown.LoadDirectory(ctx, ".", interfaces.LoadOptions{})
		if err != nil {
			return 1, fmt.Errorf("load directory: %w", err)
		}
	}

	reports, err := module.Checker.CheckAll(ctx, docs)
	if err != nil {
		return 1, fmt.Errorf("check documents: %w", err)
	}

	failures := 0
	for _, report := range reports {
		for _, issue := range report.Issues {
			fmt.Fprintf(out, "%s:%d [%s] %s: %s\n",
				report.FilePath, issue.Line, issue.Severity, issue.Rule, issue.Message)
			if issue.Severity == interfaces.SeverityError || *strict {
				failures++
			}
		}
	}

	if failures > 0 {
		fmt.Fprintf(out, "%d problem(s) in %d file(s)\n", failures, len(reports))
		return 1, nil
	}
	fmt.Fprintf(out, "checked %d file(s), no problems found\n", len(reports))
	return 0, nil
}
