package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-article/internal/identity"
	"github.com/goliatone/go-article/pkg/interfaces"
)

func TestBunRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo := NewBunArticleRepository(db)
	ctx := context.Background()

	record := testArticle("typed-thinking")

	created, err := repo.Create(ctx, record)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != record.ID {
		t.Fatalf("expected deterministic id preserved, got %s", created.ID)
	}

	bySlug, err := repo.GetBySlug(ctx, "typed-thinking")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if bySlug.Title != record.Title {
		t.Fatalf("expected title roundtrip, got %q", bySlug.Title)
	}
	if len(bySlug.Outline.Anchors) != 1 || bySlug.Outline.Anchors[0] != "typed-thinking" {
		t.Fatalf("expected outline JSON roundtrip, got %#v", bySlug.Outline)
	}

	bySlug.Title = "Typed Thinking, Revised"
	if _, err := repo.Update(ctx, bySlug); err != nil {
		t.Fatalf("Update: %v", err)
	}

	byID, err := repo.GetByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID.Title != "Typed Thinking, Revised" {
		t.Fatalf("expected updated title, got %q", byID.Title)
	}

	records, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	if err := repo.Delete(ctx, record.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, record.ID); !errors.Is(err, ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound after delete, got %v", err)
	}
}

func TestBunRepository_MissingSlug(t *testing.T) {
	db := newTestDB(t)
	repo := NewBunArticleRepository(db)

	_, err := repo.GetBySlug(context.Background(), "never-written")
	if !errors.Is(err, ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound, got %v", err)
	}
}

func testArticle(slug string) *Article {
	summary := "A short summary"
	return &Article{
		ID:         identity.ArticleUUID(slug),
		Slug:       slug,
		Title:      "Typed Thinking",
		Summary:    &summary,
		Tags:       []string{"typescript"},
		SourcePath: slug + ".md",
		Checksum:   "deadbeef",
		Body:       "# Typed Thinking\n\nBody.\n",
		BodyHTML:   "<h1 id=\"typed-thinking\">Typed Thinking</h1>\n<p>Body.</p>\n",
		Outline: interfaces.Outline{
			Sections: []interfaces.Section{{
				Kind:   interfaces.SectionHeading,
				Level:  1,
				Line:   1,
				Text:   "Typed Thinking",
				Anchor: "typed-thinking",
			}},
			Anchors: []string{"typed-thinking"},
		},
		Metadata:  map[string]any{"title": "Typed Thinking"},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", "file:article_store_test?mode=memory&cache=shared&_fk=1")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := CreateTables(ctx, db); err != nil {
		t.Fatalf("create tables: %v", err)
	}
	if _, err := db.NewDelete().Model((*Article)(nil)).Where("1=1").Exec(ctx); err != nil {
		t.Fatalf("reset table: %v", err)
	}
	return db
}
