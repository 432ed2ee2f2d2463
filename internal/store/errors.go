package store

import (
	"errors"
	"fmt"
)

var (
	ErrArticleNotFound  = errors.New("store: article not found")
	ErrSlugRequired     = errors.New("store: slug is required")
	ErrSlugInvalid      = errors.New("store: slug contains invalid characters")
	ErrTitleRequired    = errors.New("store: title is required")
	ErrStorageDisabled  = errors.New("store: storage feature disabled")
	ErrLintFailed       = errors.New("store: article failed lint checks")
	ErrRepositoryNeeded = errors.New("store: repository is required")
)

// NotFoundError carries the lookup key that produced a missing article.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ErrArticleNotFound.Error()
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrArticleNotFound
}

// LintError reports the error-severity findings that blocked an import.
type LintError struct {
	FilePath string
	Count    int
}

func (e *LintError) Error() string {
	if e == nil {
		return ErrLintFailed.Error()
	}
	return fmt.Sprintf("%s: %d lint error(s) in %s", ErrLintFailed.Error(), e.Count, e.FilePath)
}

func (e *LintError) Unwrap() error {
	return ErrLintFailed
}
