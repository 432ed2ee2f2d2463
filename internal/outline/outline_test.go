package outline

import (
	"strings"
	"testing"

	"github.com/goliatone/go-article/pkg/interfaces"
)

const sample = `# Getting Started

An intro paragraph with a [guide link](#setup) inside.

> A quote about types.

## Setup

` + "```json\n{\"name\": \"demo\"}\n```" + `

## Setup

Second heading with the same text to exercise anchor de-duplication.

Visit [the docs](https://example.com/docs) for more.
`

func TestExtractSections(t *testing.T) {
	result := extract(t, sample)

	kinds := []interfaces.SectionKind{}
	for _, s := range result.Outline.Sections {
		kinds = append(kinds, s.Kind)
	}

	want := []interfaces.SectionKind{
		interfaces.SectionHeading,
		interfaces.SectionParagraph,
		interfaces.SectionBlockQuote,
		interfaces.SectionHeading,
		interfaces.SectionCodeSample,
		interfaces.SectionHeading,
		interfaces.SectionParagraph,
		interfaces.SectionParagraph,
	}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d sections, got %d: %#v", len(want), len(kinds), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("section %d: expected %s, got %s", i, want[i], kinds[i])
		}
	}
}

func TestExtractAnchors(t *testing.T) {
	result := extract(t, sample)

	anchors := result.Outline.Anchors
	if len(anchors) != 3 {
		t.Fatalf("expected 3 anchors, got %#v", anchors)
	}
	if anchors[0] != "getting-started" {
		t.Fatalf("expected getting-started anchor, got %q", anchors[0])
	}
	if anchors[1] == anchors[2] {
		t.Fatalf("expected duplicate headings to receive distinct anchors, got %q twice", anchors[1])
	}
	if !result.Outline.HasAnchor("setup") {
		t.Fatalf("expected setup anchor, got %#v", anchors)
	}
}

func TestExtractLinks(t *testing.T) {
	result := extract(t, sample)

	if len(result.Outline.Links) != 2 {
		t.Fatalf("expected 2 links, got %#v", result.Outline.Links)
	}

	internal := result.Outline.Links[0]
	if !internal.Internal || internal.Destination != "#setup" {
		t.Fatalf("expected internal #setup link, got %#v", internal)
	}

	external := result.Outline.Links[1]
	if external.Internal || !strings.HasPrefix(external.Destination, "https://") {
		t.Fatalf("expected external link, got %#v", external)
	}
}

func TestExtractCodeBlocks(t *testing.T) {
	result := extract(t, sample)

	if len(result.Codes) != 1 {
		t.Fatalf("expected 1 code block, got %d", len(result.Codes))
	}
	code := result.Codes[0]
	if code.Language != "json" {
		t.Fatalf("expected json language tag, got %q", code.Language)
	}
	if !strings.Contains(string(code.Body), "\"name\"") {
		t.Fatalf("expected code body captured, got %q", string(code.Body))
	}
	if code.Line == 0 {
		t.Fatalf("expected a line number for the code block")
	}
}

func TestSlugNormalises(t *testing.T) {
	if got := Slug("Why Types Matter!"); got != "why-types-matter" {
		t.Fatalf("Slug: got %q", got)
	}
}

func extract(tb testing.TB, source string) *Result {
	tb.Helper()

	result, err := Extract([]byte(source))
	if err != nil {
		tb.Fatalf("Extract: %v", err)
	}
	return result
}
