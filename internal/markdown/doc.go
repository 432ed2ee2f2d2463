// Package markdown implements the filesystem-backed article workflows: glob
// discovery of Markdown files, frontmatter extraction, and HTML rendering
// through goldmark. Higher layers add structural analysis, linting, and
// persistence on top of the documents produced here.
package markdown
