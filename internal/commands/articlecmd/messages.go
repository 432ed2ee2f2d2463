package articlecmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	importArticlesMessageType = "article.import_articles"
	checkArticleMessageType   = "article.check_article"
	exportSiteMessageType     = "article.export_site"
)

// ImportArticlesCommand triggers a filesystem walk for Markdown articles under
// the provided Directory and persists them through the article store.
type ImportArticlesCommand struct {
	// Directory selects the path (relative to the markdown base path) to load articles from.
	Directory string `json:"directory"`
	// Pattern overrides the discovery glob.
	Pattern string `json:"pattern,omitempty"`
	// DryRun toggles preview mode to collect import diffs without persisting changes.
	DryRun bool `json:"dry_run,omitempty"`
	// AllowLintErrors stores articles even when lint reports blocking issues.
	AllowLintErrors bool `json:"allow_lint_errors,omitempty"`
	// IncludeDrafts imports articles marked draft in frontmatter.
	IncludeDrafts bool `json:"include_drafts,omitempty"`
}

// Type implements command.Message.
func (ImportArticlesCommand) Type() string { return importArticlesMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd ImportArticlesCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("article.import_articles.directory_required", "directory is required")
			}
			return nil
		})),
	)
}

// CheckArticleCommand lints a single Markdown article without persisting it.
type CheckArticleCommand struct {
	// Path selects the article file, relative to the markdown base path.
	Path string `json:"path"`
	// Strict fails the command when warnings are present, not just errors.
	Strict bool `json:"strict,omitempty"`
}

// Type implements command.Message.
func (CheckArticleCommand) Type() string { return checkArticleMessageType }

// Validate ensures the path is present before handlers execute.
func (cmd CheckArticleCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("article.check_article.path_required", "path is required")
			}
			return nil
		})),
	)
}

// ExportSiteCommand renders stored articles to the static site output directory.
type ExportSiteCommand struct {
	// Slugs narrows the export to specific articles. Empty exports everything.
	Slugs []string `json:"slugs,omitempty"`
	// IncludeDrafts exports articles marked draft.
	IncludeDrafts bool `json:"include_drafts,omitempty"`
	// DryRun renders without writing any files.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (ExportSiteCommand) Type() string { return exportSiteMessageType }

// Validate implements command.Message validation. Every field is optional.
func (ExportSiteCommand) Validate() error { return nil }
