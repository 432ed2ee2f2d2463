package export

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/goliatone/go-article/internal/store"
)

// defaultPageTemplate is the built-in HTML shell. Hosts can override it via
// Config.Template with any html/template document that accepts pageContext.
const defaultPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{ .Title }}{{ if .SiteTitle }} · {{ .SiteTitle }}{{ end }}</title>
{{- if .Summary }}
<meta name="description" content="{{ .Summary }}">
{{- end }}
</head>
<body>
<article>
<header>
<h1>{{ .Title }}</h1>
{{- if .Author }}
<p class="byline">{{ .Author }}{{ if .Date }} · <time datetime="{{ .Date.Format "2006-01-02" }}">{{ .Date.Format "January 2, 2006" }}</time>{{ end }}</p>
{{- end }}
{{- if .Tags }}
<ul class="tags">
{{- range .Tags }}
<li>{{ . }}</li>
{{- end }}
</ul>
{{- end }}
</header>
{{ .Body }}
</article>
</body>
</html>
`

type pageContext struct {
	Title     string
	SiteTitle string
	Summary   string
	Author    string
	Date      *time.Time
	Tags      []string
	Slug      string
	Body      template.HTML
}

type pageRenderer struct {
	tmpl *template.Template
}

func newPageRenderer(cfg Config) (*pageRenderer, error) {
	source := cfg.Template
	if strings.TrimSpace(source) == "" {
		source = defaultPageTemplate
	}
	tmpl, err := template.New("article").Parse(source)
	if err != nil {
		return nil, fmt.Errorf("export: parse page template: %w", err)
	}
	return &pageRenderer{tmpl: tmpl}, nil
}

func (r *pageRenderer) Render(article *store.Article, siteTitle string) (string, error) {
	ctx := pageContext{
		Title:     article.Title,
		SiteTitle: siteTitle,
		Slug:      article.Slug,
		Tags:      article.Tags,
		Date:      article.Date,
		Body:      template.HTML(article.BodyHTML),
	}
	if article.Summary != nil {
		ctx.Summary = *article.Summary
	}
	if article.Author != nil {
		ctx.Author = *article.Author
	}

	var builder strings.Builder
	if err := r.tmpl.Execute(&builder, ctx); err != nil {
		return "", err
	}
	return builder.String(), nil
}
