package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to wrapped command errors so callers can match on a
// stable identifier instead of message text.
const (
	codeValidationFailed = "COMMAND_VALIDATION_FAILED"
	codeCanceled         = "COMMAND_CONTEXT_CANCELED"
	codeDeadlineExceeded = "COMMAND_CONTEXT_TIMEOUT"
	codeContextError     = "COMMAND_CONTEXT_ERROR"
	codeExecutionFailed  = "COMMAND_EXECUTION_FAILED"
)

func wrapValidationError(err error) error {
	return wrapWith(err, goerrors.CategoryValidation, "command validation failed", codeValidationFailed)
}

func wrapContextError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return wrapWith(err, goerrors.CategoryCommand, "command execution cancelled", codeCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return wrapWith(err, goerrors.CategoryCommand, "command execution deadline exceeded", codeDeadlineExceeded)
	default:
		return wrapWith(err, goerrors.CategoryCommand, "command context error", codeContextError)
	}
}

func wrapExecuteError(err error) error {
	return wrapWith(err, goerrors.CategoryCommand, "command execution failed", codeExecutionFailed)
}

// wrapWith leaves already-wrapped errors untouched so handler chains keep the
// category and code assigned closest to the failure.
func wrapWith(err error, category goerrors.Category, msg, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, msg).WithTextCode(code)
}
