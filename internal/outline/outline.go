// Package outline extracts the structural read model of a Markdown article:
// its ordered block sections, the anchors its headings expose, and the links
// its body contains. The extraction runs over the goldmark AST so anchors
// match the ids emitted in rendered HTML.
package outline

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-article/pkg/interfaces"
)

// CodeBlock carries the literal body of a fenced code sample so lint rules
// can syntax-check it without re-parsing the document.
type CodeBlock struct {
	Language string
	Line     int
	Body     []byte
}

// Result pairs the public outline with the internal extras extraction gathers
// along the way.
type Result struct {
	Outline interfaces.Outline
	Codes   []CodeBlock
}

const excerptLimit = 120

// Extract parses source and walks the AST collecting sections, anchors, and
// links in document order.
func Extract(source []byte) (*Result, error) {
	engine := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	reader := text.NewReader(source)
	root := engine.Parser().Parse(reader)

	lines := newLineIndex(source)
	result := &Result{}

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			section := interfaces.Section{
				Kind:   interfaces.SectionHeading,
				Level:  node.Level,
				Line:   lines.lineFor(nodeOffset(node)),
				Text:   string(nodeText(node, source)),
				Anchor: headingAnchor(node, source),
			}
			result.Outline.Sections = append(result.Outline.Sections, section)
			result.Outline.Anchors = append(result.Outline.Anchors, section.Anchor)

		case *ast.FencedCodeBlock:
			language := strings.TrimSpace(string(node.Language(source)))
			line := lines.lineFor(nodeOffset(node))
			result.Outline.Sections = append(result.Outline.Sections, interfaces.Section{
				Kind:     interfaces.SectionCodeSample,
				Line:     line,
				Language: language,
			})
			result.Codes = append(result.Codes, CodeBlock{
				Language: language,
				Line:     line,
				Body:     blockBody(node, source),
			})

		case *ast.Paragraph:
			// Paragraphs nested in list items or quotes are counted once at
			// the enclosing block.
			if _, ok := node.Parent().(*ast.Document); !ok {
				break
			}
			result.Outline.Sections = append(result.Outline.Sections, interfaces.Section{
				Kind: interfaces.SectionParagraph,
				Line: lines.lineFor(nodeOffset(node)),
				Text: excerpt(nodeText(node, source)),
			})

		case *ast.Blockquote:
			result.Outline.Sections = append(result.Outline.Sections, interfaces.Section{
				Kind: interfaces.SectionBlockQuote,
				Line: lines.lineFor(nodeOffset(node)),
				Text: excerpt(nodeText(node, source)),
			})

		case *ast.Link:
			dest := string(node.Destination)
			result.Outline.Links = append(result.Outline.Links, interfaces.Link{
				Destination: dest,
				Text:        string(nodeText(node, source)),
				Line:        lines.lineFor(nodeOffset(node)),
				Internal:    strings.HasPrefix(dest, "#"),
			})

		case *ast.AutoLink:
			dest := string(node.URL(source))
			result.Outline.Links = append(result.Outline.Links, interfaces.Link{
				Destination: dest,
				Line:        lines.lineFor(nodeOffset(node)),
			})
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("outline extract: %w", err)
	}

	return result, nil
}

// Slug normalises heading or title text into an anchor-safe slug using the
// shared slug rules.
func Slug(value string) string {
	normalized, err := slug.Normalize(value)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(value))
	}
	return normalized
}

// headingAnchor prefers the id goldmark assigned during parsing (which is what
// the HTML renderer emits) and falls back to slug rules for detached nodes.
func headingAnchor(node *ast.Heading, source []byte) string {
	if id, ok := node.AttributeString("id"); ok {
		switch v := id.(type) {
		case []byte:
			return string(v)
		case string:
			return v
		}
	}
	return Slug(string(nodeText(node, source)))
}

func nodeText(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			buf.Write(c.Segment.Value(source))
		default:
			buf.Write(nodeText(child, source))
		}
	}
	return buf.Bytes()
}

func blockBody(n *ast.FencedCodeBlock, source []byte) []byte {
	var buf bytes.Buffer
	segments := n.Lines()
	for i := 0; i < segments.Len(); i++ {
		segment := segments.At(i)
		buf.Write(segment.Value(source))
	}
	return buf.Bytes()
}

func nodeOffset(n ast.Node) int {
	type liner interface{ Lines() *text.Segments }
	if l, ok := n.(liner); ok && n.Type() == ast.TypeBlock {
		if segments := l.Lines(); segments != nil && segments.Len() > 0 {
			return segments.At(0).Start
		}
	}
	// Inline nodes and empty blocks fall back to the parent block.
	if parent := n.Parent(); parent != nil {
		return nodeOffset(parent)
	}
	return 0
}

func excerpt(text []byte) string {
	trimmed := strings.TrimSpace(string(text))
	if len(trimmed) <= excerptLimit {
		return trimmed
	}
	return trimmed[:excerptLimit]
}

type lineIndex struct {
	starts []int
}

func newLineIndex(source []byte) *lineIndex {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

// lineFor maps a byte offset to a 1-based line number.
func (l *lineIndex) lineFor(offset int) int {
	lo, hi := 0, len(l.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if l.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1
}
