// Package errors classifies failures so the CLI can map them to stable
// exit codes without parsing message text.
package errors

import "errors"

type Category string

const (
	// CategorySafety covers symlink and unsafe-path violations; the archive
	// cannot be trusted enough to keep reading.
	CategorySafety Category = "safety_violation"
	// CategoryStructural covers missing or duplicate required files.
	CategoryStructural Category = "structural_violation"
	// CategoryGovernance covers missing or invalid manifest fields.
	CategoryGovernance Category = "governance_violation"
	// CategoryIntegrity covers missing digests and digest mismatches.
	CategoryIntegrity Category = "integrity_violation"
	// CategoryInvalidInput covers unusable caller input: absent files,
	// unreadable archives, unsupported extensions.
	CategoryInvalidInput Category = "invalid_input"
	// CategoryIOFailure covers filesystem errors while reading or writing.
	CategoryIOFailure Category = "io_failure"
)

type classifiedError struct {
	category Category
	code     string
	hint     string
	cause    error
}

func (e *classifiedError) Error() string {
	if e.cause == nil {
		return "unknown error"
	}
	return e.cause.Error()
}

func (e *classifiedError) Unwrap() error {
	return e.cause
}

// Wrap attaches a category, stable code, and operator hint to a cause.
func Wrap(cause error, category Category, code, hint string) error {
	if cause == nil {
		return nil
	}
	return &classifiedError{
		category: category,
		code:     code,
		hint:     hint,
		cause:    cause,
	}
}

func CategoryOf(err error) Category {
	var classified *classifiedError
	if errors.As(err, &classified) {
		return classified.category
	}
	return ""
}

func CodeOf(err error) string {
	var classified *classifiedError
	if errors.As(err, &classified) {
		return classified.code
	}
	return ""
}

func HintOf(err error) string {
	var classified *classifiedError
	if errors.As(err, &classified) {
		return classified.hint
	}
	return ""
}
