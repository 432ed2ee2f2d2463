// Package lint verifies the structural properties an article must hold before
// it is stored or exported: the source parses as Markdown, every fenced code
// sample is syntactically plausible for its language tag, internal anchor
// links resolve to an existing heading, and the document renders to non-empty
// HTML. Frontmatter is additionally validated against a JSON schema.
package lint

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-article/internal/logging"
	"github.com/goliatone/go-article/internal/markdown"
	"github.com/goliatone/go-article/internal/outline"
	"github.com/goliatone/go-article/pkg/interfaces"
)

// Rule identifiers reported on issues.
const (
	RuleFences      = "markdown/fences"
	RuleLinks       = "markdown/links"
	RuleCodeSample  = "code/language"
	RuleAnchors     = "anchors/resolve"
	RuleRender      = "render/nonempty"
	RuleFrontMatter = "frontmatter/schema"
)

// ErrDocumentRequired is returned when Check receives a nil document.
var ErrDocumentRequired = errors.New("lint: document is required")

// Config controls checker behaviour.
type Config struct {
	// Parser options applied when rendering for the non-empty HTML check.
	Parser interfaces.ParseOptions
	// FrontMatterSchema overrides the default article frontmatter schema.
	FrontMatterSchema map[string]any
	// UnknownLanguages controls whether unregistered language tags surface as
	// warnings. Defaults to true.
	UnknownLanguages *bool
}

// Checker runs the article lint rule set against loaded documents.
type Checker struct {
	parser           interfaces.MarkdownParser
	languages        *LanguageRegistry
	schema           *frontMatterSchema
	warnOnUnknownTag bool
	logger           interfaces.Logger
}

// Option customises a Checker.
type Option func(*Checker)

// WithParser overrides the markdown parser used for the render check.
func WithParser(parser interfaces.MarkdownParser) Option {
	return func(c *Checker) {
		if parser != nil {
			c.parser = parser
		}
	}
}

// WithLanguages overrides the code sample language registry.
func WithLanguages(registry *LanguageRegistry) Option {
	return func(c *Checker) {
		if registry != nil {
			c.languages = registry
		}
	}
}

// WithLogger attaches a logger used for per-document diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New constructs a Checker with the default rule set.
func New(cfg Config, opts ...Option) (*Checker, error) {
	schema, err := compileFrontMatterSchema(cfg.FrontMatterSchema)
	if err != nil {
		return nil, err
	}

	c := &Checker{
		parser:           markdown.NewGoldmarkParser(cfg.Parser),
		languages:        DefaultLanguages(),
		schema:           schema,
		warnOnUnknownTag: cfg.UnknownLanguages == nil || *cfg.UnknownLanguages,
		logger:           logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Check runs every rule against the document and returns the aggregated
// report. A failing rule is reported as issues, not as an error; the error
// return covers malfunctions of the checker itself.
func (c *Checker) Check(ctx context.Context, doc *interfaces.Document) (interfaces.Report, error) {
	if doc == nil {
		return interfaces.Report{}, ErrDocumentRequired
	}
	if err := ctx.Err(); err != nil {
		return interfaces.Report{}, err
	}

	report := interfaces.Report{FilePath: doc.FilePath}

	report.Issues = append(report.Issues, checkFences(doc.Body)...)

	extracted, err := outline.Extract(doc.Body)
	if err != nil {
		return interfaces.Report{}, fmt.Errorf("lint %s: %w", doc.FilePath, err)
	}

	report.Issues = append(report.Issues, c.checkLinks(extracted.Outline)...)
	report.Issues = append(report.Issues, c.checkAnchors(extracted.Outline)...)
	report.Issues = append(report.Issues, c.checkCodeSamples(extracted.Codes)...)
	report.Issues = append(report.Issues, c.checkRender(ctx, doc)...)
	report.Issues = append(report.Issues, c.schema.check(doc.FrontMatter.Raw)...)

	logger := logging.WithArticleContext(c.logger, doc.FilePath, doc.FrontMatter.Slug, "lint")
	if report.Ok() {
		logger.Debug("lint.check.passed", "issues", len(report.Issues))
	} else {
		logger.Warn("lint.check.failed", "errors", len(report.Errors()))
	}

	return report, nil
}

// CheckAll lints a batch of documents, preserving input order.
func (c *Checker) CheckAll(ctx context.Context, docs []*interfaces.Document) ([]interfaces.Report, error) {
	reports := make([]interfaces.Report, 0, len(docs))
	for _, doc := range docs {
		report, err := c.Check(ctx, doc)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (c *Checker) checkLinks(o interfaces.Outline) []interfaces.Issue {
	var issues []interfaces.Issue
	for _, link := range o.Links {
		dest := strings.TrimSpace(link.Destination)
		if dest == "" {
			issues = append(issues, interfaces.Issue{
				Rule:     RuleLinks,
				Severity: interfaces.SeverityError,
				Line:     link.Line,
				Message:  "link has an empty destination",
			})
			continue
		}
		if link.Internal {
			continue
		}
		if _, err := url.Parse(dest); err != nil {
			issues = append(issues, interfaces.Issue{
				Rule:     RuleLinks,
				Severity: interfaces.SeverityError,
				Line:     link.Line,
				Message:  fmt.Sprintf("link destination %q does not parse: %v", dest, err),
			})
		}
	}
	return issues
}

func (c *Checker) checkAnchors(o interfaces.Outline) []interfaces.Issue {
	var issues []interfaces.Issue
	for _, link := range o.Links {
		if !link.Internal {
			continue
		}
		anchor := strings.TrimPrefix(strings.TrimSpace(link.Destination), "#")
		if anchor == "" {
			continue
		}
		if !o.HasAnchor(anchor) {
			issues = append(issues, interfaces.Issue{
				Rule:     RuleAnchors,
				Severity: interfaces.SeverityError,
				Line:     link.Line,
				Message:  fmt.Sprintf("anchor #%s does not match any heading", anchor),
			})
		}
	}
	return issues
}

func (c *Checker) checkCodeSamples(codes []outline.CodeBlock) []interfaces.Issue {
	var issues []interfaces.Issue
	for _, code := range codes {
		if code.Language == "" {
			issues = append(issues, interfaces.Issue{
				Rule:     RuleCodeSample,
				Severity: interfaces.SeverityWarning,
				Line:     code.Line,
				Message:  "fenced code block is missing a language tag",
			})
			continue
		}

		check, known := c.languages.Lookup(code.Language)
		if !known {
			if c.warnOnUnknownTag {
				issues = append(issues, interfaces.Issue{
					Rule:     RuleCodeSample,
					Severity: interfaces.SeverityWarning,
					Line:     code.Line,
					Message:  fmt.Sprintf("unknown language tag %q", code.Language),
				})
			}
			continue
		}
		if check == nil {
			continue
		}
		if err := check(code.Body); err != nil {
			issues = append(issues, interfaces.Issue{
				Rule:     RuleCodeSample,
				Severity: interfaces.SeverityError,
				Line:     code.Line,
				Message:  fmt.Sprintf("%s sample does not parse: %v", code.Language, err),
			})
		}
	}
	return issues
}

func (c *Checker) checkRender(ctx context.Context, doc *interfaces.Document) []interfaces.Issue {
	if err := ctx.Err(); err != nil {
		return nil
	}
	html, err := c.parser.Parse(doc.Body)
	if err != nil {
		return []interfaces.Issue{{
			Rule:     RuleRender,
			Severity: interfaces.SeverityError,
			Message:  fmt.Sprintf("document failed to render: %v", err),
		}}
	}
	if len(strings.TrimSpace(string(html))) == 0 {
		return []interfaces.Issue{{
			Rule:     RuleRender,
			Severity: interfaces.SeverityError,
			Message:  "document renders to empty HTML",
		}}
	}
	return nil
}
