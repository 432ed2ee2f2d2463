package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-article/pkg/interfaces"
)

// GoldmarkParser implements interfaces.MarkdownParser on top of goldmark. It
// holds no mutable state, so one instance can serve every article load.
type GoldmarkParser struct {
	defaults interfaces.ParseOptions
}

// NewGoldmarkParser returns a parser seeded with the given defaults. Zero-value
// defaults mean GFM extensions, no hard wraps, and raw HTML passed through.
func NewGoldmarkParser(defaults interfaces.ParseOptions) *GoldmarkParser {
	return &GoldmarkParser{defaults: defaults}
}

// Parse renders markdown to HTML with the parser's default options.
func (p *GoldmarkParser) Parse(markdown []byte) ([]byte, error) {
	return p.ParseWithOptions(markdown, p.defaults)
}

// ParseWithOptions renders markdown to HTML, overriding the defaults for this
// call only. Heading IDs are always generated; they are the anchor targets the
// lint rules check links against.
func (p *GoldmarkParser) ParseWithOptions(markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := engineFor(opts).Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown parse: %w", err)
	}
	return buf.Bytes(), nil
}

func engineFor(opts interfaces.ParseOptions) goldmark.Markdown {
	options := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}

	var render []renderer.Option
	if opts.HardWraps {
		render = append(render, html.WithHardWraps())
	}
	// Raw HTML only passes through when neither safety flag is set.
	if !opts.SafeMode && !opts.Sanitize {
		render = append(render, html.WithUnsafe())
	}
	if len(render) > 0 {
		options = append(options, goldmark.WithRendererOptions(render...))
	}

	if exts := resolveExtensions(opts.Extensions); len(exts) > 0 {
		options = append(options, goldmark.WithExtensions(exts...))
	}

	return goldmark.New(options...)
}

var knownExtensions = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

// resolveExtensions maps configured extension names onto goldmark extenders,
// dropping duplicates and names it does not recognise. An empty list selects
// the GFM baseline.
func resolveExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM, extension.Linkify, extension.TaskList}
	}

	seen := make(map[string]struct{}, len(names))
	extenders := make([]goldmark.Extender, 0, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if ext, ok := knownExtensions[key]; ok {
			extenders = append(extenders, ext)
		}
	}
	return extenders
}
