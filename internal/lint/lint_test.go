package lint

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-article/internal/markdown"
	"github.com/goliatone/go-article/pkg/interfaces"
)

func TestCheckPassesCleanDocument(t *testing.T) {
	report := check(t, `---
title: Clean
slug: clean
---

# Clean

Intro text linking to [usage](#usage).

## Usage

`+"```json\n{\"ok\": true}\n```\n")

	if !report.Ok() {
		t.Fatalf("expected clean report, got %#v", report.Issues)
	}
}

func TestCheckUnterminatedFence(t *testing.T) {
	report := check(t, "---\ntitle: Broken\n---\n\n# Broken\n\n```ts\nconst x = 1;\n")

	issue := findIssue(t, report, RuleFences)
	if issue.Severity != interfaces.SeverityError {
		t.Fatalf("expected fence error, got %#v", issue)
	}
	if issue.Line == 0 {
		t.Fatalf("expected fence issue to carry the opening line")
	}
}

func TestCheckUnresolvedAnchor(t *testing.T) {
	report := check(t, "---\ntitle: Anchors\n---\n\n# Anchors\n\nJump to [nowhere](#missing-section).\n")

	issue := findIssue(t, report, RuleAnchors)
	if !strings.Contains(issue.Message, "#missing-section") {
		t.Fatalf("expected anchor name in message, got %q", issue.Message)
	}
}

func TestCheckAnchorCaseAndDuplicates(t *testing.T) {
	report := check(t, `---
title: Dupes
---

# Setup

See [second setup](#setup-1).

# Setup

Body.
`)

	for _, issue := range report.Issues {
		if issue.Rule == RuleAnchors {
			t.Fatalf("expected de-duplicated anchor to resolve, got %#v", issue)
		}
	}
}

func TestCheckInvalidJSONSample(t *testing.T) {
	report := check(t, "---\ntitle: Bad JSON\n---\n\n# Bad JSON\n\n```json\n{\"broken\": \n```\n")

	issue := findIssue(t, report, RuleCodeSample)
	if issue.Severity != interfaces.SeverityError {
		t.Fatalf("expected code sample error, got %#v", issue)
	}
}

func TestCheckUnknownLanguageWarns(t *testing.T) {
	report := check(t, "---\ntitle: Exotic\n---\n\n# Exotic\n\n```brainfuck\n++++\n```\n")

	issue := findIssue(t, report, RuleCodeSample)
	if issue.Severity != interfaces.SeverityWarning {
		t.Fatalf("expected warning for unknown tag, got %#v", issue)
	}
	if !report.Ok() {
		t.Fatalf("warnings must not fail the report")
	}
}

func TestCheckMissingLanguageTagWarns(t *testing.T) {
	report := check(t, "---\ntitle: Untagged\n---\n\n# Untagged\n\n```\nplain\n```\n")

	issue := findIssue(t, report, RuleCodeSample)
	if issue.Severity != interfaces.SeverityWarning {
		t.Fatalf("expected warning for missing tag, got %#v", issue)
	}
}

func TestCheckFrontMatterSchema(t *testing.T) {
	report := check(t, "---\ntitle: \"\"\nslug: Not A Slug\n---\n\n# Title\n\nBody.\n")

	var schemaIssues int
	for _, issue := range report.Issues {
		if issue.Rule == RuleFrontMatter {
			schemaIssues++
		}
	}
	if schemaIssues < 2 {
		t.Fatalf("expected title and slug schema issues, got %#v", report.Issues)
	}
}

func TestCheckRenderNonEmpty(t *testing.T) {
	report := check(t, "---\ntitle: Present\n---\n\n# Present\n\nBody text.\n")

	for _, issue := range report.Issues {
		if issue.Rule == RuleRender {
			t.Fatalf("expected render rule to pass, got %#v", issue)
		}
	}
}

func TestCheckNilDocument(t *testing.T) {
	checker := newChecker(t)
	if _, err := checker.Check(context.Background(), nil); err != ErrDocumentRequired {
		t.Fatalf("expected ErrDocumentRequired, got %v", err)
	}
}

func TestCheckAllPreservesOrder(t *testing.T) {
	checker := newChecker(t)

	docs := []*interfaces.Document{
		mustDocument(t, "a.md", "---\ntitle: A\n---\n\n# A\n\nBody.\n"),
		mustDocument(t, "b.md", "---\ntitle: B\n---\n\n# B\n\nBody.\n"),
	}

	reports, err := checker.CheckAll(context.Background(), docs)
	if err != nil {
		t.Fatalf("CheckAll: %v", err)
	}
	if len(reports) != 2 || reports[0].FilePath != "a.md" || reports[1].FilePath != "b.md" {
		t.Fatalf("expected ordered reports, got %#v", reports)
	}
}

func TestLanguageRegistryCustomChecker(t *testing.T) {
	registry := DefaultLanguages()
	registry.Register("csv", func(body []byte) error { return nil })

	if _, known := registry.Lookup("CSV"); !known {
		t.Fatalf("expected case-insensitive lookup")
	}
}

func findIssue(tb testing.TB, report interfaces.Report, rule string) interfaces.Issue {
	tb.Helper()

	for _, issue := range report.Issues {
		if issue.Rule == rule {
			return issue
		}
	}
	tb.Fatalf("expected issue for rule %s, got %#v", rule, report.Issues)
	return interfaces.Issue{}
}

func check(tb testing.TB, source string) interfaces.Report {
	tb.Helper()

	checker := newChecker(tb)
	doc := mustDocument(tb, "article.md", source)

	report, err := checker.Check(context.Background(), doc)
	if err != nil {
		tb.Fatalf("Check: %v", err)
	}
	return report
}

func newChecker(tb testing.TB) *Checker {
	tb.Helper()

	checker, err := New(Config{})
	if err != nil {
		tb.Fatalf("New: %v", err)
	}
	return checker
}

func mustDocument(tb testing.TB, path, source string) *interfaces.Document {
	tb.Helper()

	doc, err := markdown.BuildDocument(path, []byte(source), time.Time{})
	if err != nil {
		tb.Fatalf("BuildDocument: %v", err)
	}
	return doc
}
