package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRouting Category = "routing"
	CategoryConfig  Category = "config"
	CategoryStore   Category = "store"
	CategoryLLM     Category = "llm"
	CategoryPublish Category = "publish"
	CategoryCLI     Category = "cli"
)

// GeoError is a structured error with a code, suggestions, and documentation.
type GeoError struct {
	// Code is a unique error identifier (e.g., "E100").
	Code string

	// Category is the error type (routing, config, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of this particular occurrence.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *GeoError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *GeoError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *GeoError) WithSuggestion(s string) *GeoError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *GeoError) WithDetail(d string) *GeoError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detail to the error.
func (e *GeoError) WithDetailf(format string, args ...any) *GeoError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *GeoError) Wrap(err error) *GeoError {
	e.Wrapped = err
	return e
}

// New creates a GeoError from a registered error code.
func New(code string) *GeoError {
	template, ok := registry[code]
	if !ok {
		return &GeoError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &GeoError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new GeoError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *GeoError {
	return &GeoError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a GeoError.
// Errors that already are (or wrap) a GeoError are returned unchanged.
func FromError(err error, code string) *GeoError {
	if err == nil {
		return nil
	}
	var ge *GeoError
	if stderrors.As(err, &ge) {
		return ge
	}
	return New(code).Wrap(err)
}

// Code returns the code of the first GeoError in err's chain, or "".
func Code(err error) string {
	var ge *GeoError
	if stderrors.As(err, &ge) {
		return ge.Code
	}
	return ""
}
