package downloader

import (
	"context"
	"errors"
)

// Category classifies where in the pipeline an error originated. The
// underlying collaborator message is always preserved verbatim so users can
// diagnose extraction-library issues without this tool understanding them.
type Category string

const (
	CategoryInvalidURL  Category = "invalid-url"
	CategoryResolve     Category = "resolve"
	CategoryNoStream    Category = "no-stream"
	CategoryTransfer    Category = "transfer"
	CategoryTranscode   Category = "transcode"
	CategoryFilesystem  Category = "filesystem"
	CategoryInterrupted Category = "interrupted"
)

type categorizedError struct {
	category Category
	err      error
}

func (e categorizedError) Error() string {
	return e.err.Error()
}

func (e categorizedError) Unwrap() error {
	return e.err
}

func wrapCategory(category Category, err error) error {
	if err == nil {
		return nil
	}
	return categorizedError{category: category, err: err}
}

// CategoryOf returns the innermost category attached to err, or "" when none
// is. Context cancellation always reports as interrupted.
func CategoryOf(err error) Category {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return CategoryInterrupted
	}
	var ce categorizedError
	if errors.As(err, &ce) {
		return ce.category
	}
	return ""
}

// ExitCode maps an error to the process exit code: 0 for nil, 1 otherwise.
// Partial playlist failures are not errors and never reach this path.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

type reportedError struct {
	err error
}

func (e reportedError) Error() string {
	return e.err.Error()
}

func (e reportedError) Unwrap() error {
	return e.err
}

// markReported tags an error the printer has already surfaced so main does
// not print it a second time.
func markReported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err: err}
}

// IsReported reports whether err was already shown to the user.
func IsReported(err error) bool {
	var re reportedError
	return errors.As(err, &re)
}
