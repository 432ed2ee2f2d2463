package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-article/internal/lint"
	"github.com/goliatone/go-article/internal/markdown"
	"github.com/goliatone/go-article/pkg/interfaces"
)

func TestImportCreatesArticles(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.Import(context.Background(), ImportRequest{})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	// hello-types imports, drafts.md is excluded, broken.md fails lint.
	if len(result.Created) != 1 {
		t.Fatalf("expected 1 created, got %#v", result)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 lint failure, got %#v", result.Errors)
	}
	if !errors.Is(result.Errors[0], ErrLintFailed) {
		t.Fatalf("expected lint error, got %v", result.Errors[0])
	}

	article, err := svc.GetBySlug(context.Background(), "hello-types")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if article.Title != "Hello Types" {
		t.Fatalf("unexpected title %q", article.Title)
	}
	if article.Checksum == "" || article.BodyHTML == "" {
		t.Fatalf("expected checksum and rendered HTML to be stored")
	}
	if len(article.Outline.Anchors) == 0 {
		t.Fatalf("expected outline anchors to be persisted")
	}
	if article.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("expected deterministic non-nil id")
	}
}

func TestImportIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Import(ctx, ImportRequest{})
	if err != nil {
		t.Fatalf("first Import: %v", err)
	}
	second, err := svc.Import(ctx, ImportRequest{})
	if err != nil {
		t.Fatalf("second Import: %v", err)
	}

	if len(second.Created) != 0 || len(second.Updated) != 0 {
		t.Fatalf("expected unchanged re-import to be skipped, got %#v", second)
	}
	if len(second.Skipped) != len(first.Created) {
		t.Fatalf("expected %d skipped, got %d", len(first.Created), len(second.Skipped))
	}
}

func TestImportIncludesDraftsOnRequest(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.Import(context.Background(), ImportRequest{IncludeDrafts: true})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(result.Created) != 2 {
		t.Fatalf("expected drafts to import, got %#v", result)
	}

	draft, err := svc.GetBySlug(context.Background(), "unfinished-thoughts")
	if err != nil {
		t.Fatalf("GetBySlug draft: %v", err)
	}
	if !draft.Draft {
		t.Fatalf("expected draft flag persisted")
	}
}

func TestImportDryRunPersistsNothing(t *testing.T) {
	svc, repo := newTestService(t)

	result, err := svc.Import(context.Background(), ImportRequest{DryRun: true})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(result.Created) != 1 || !result.DryRun {
		t.Fatalf("expected dry-run created report, got %#v", result)
	}

	records, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty repository after dry run, got %d records", len(records))
	}
}

func TestImportAllowLintErrors(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.Import(context.Background(), ImportRequest{AllowLintErrors: true})
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(result.Created) != 2 {
		t.Fatalf("expected lint-failing article stored when allowed, got %#v", result)
	}
	if len(result.Reports) == 0 {
		t.Fatalf("expected reports retained")
	}
}

func TestGetBySlugNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetBySlug(context.Background(), "missing-article")
	if !errors.Is(err, ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound, got %v", err)
	}
}

func TestDeleteRemovesArticle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Import(ctx, ImportRequest{}); err != nil {
		t.Fatalf("Import: %v", err)
	}
	article, err := svc.GetBySlug(ctx, "hello-types")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}

	if err := svc.Delete(ctx, article.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, article.ID); !errors.Is(err, ErrArticleNotFound) {
		t.Fatalf("expected article gone, got %v", err)
	}
}

func newTestService(tb testing.TB) (Service, *MemoryRepository) {
	tb.Helper()

	md, err := markdown.NewService(markdown.Config{
		BasePath:  filepath.Join("testdata", "content"),
		Recursive: true,
	}, nil)
	if err != nil {
		tb.Fatalf("markdown.NewService: %v", err)
	}

	checker, err := lint.New(lint.Config{})
	if err != nil {
		tb.Fatalf("lint.New: %v", err)
	}

	repo := NewMemoryRepository()
	svc, err := NewService(repo, md, checker)
	if err != nil {
		tb.Fatalf("NewService: %v", err)
	}
	return svc, repo
}

var _ interfaces.MarkdownService = (*markdown.Service)(nil)
