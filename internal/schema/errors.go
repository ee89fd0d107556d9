package schema

import (
	"errors"
	"slices"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("schema: validation failed")
	// ErrUnknownSchema is returned by Registry lookups for undeclared collections.
	ErrUnknownSchema = errors.New("schema: unknown collection")
)

// ValidationError lists every field of one entry that failed validation.
type ValidationError struct {
	Collection string
	Path       string
	Issues     []goerrors.FieldError
}

func newValidationError(collection string, err error) *ValidationError {
	issues := goerrors.FromOzzoValidation(err, "metadata validation failed").ValidationErrors
	slices.SortFunc(issues, func(a, b goerrors.FieldError) int {
		return strings.Compare(a.Field, b.Field)
	})
	return &ValidationError{Collection: collection, Issues: issues}
}

// WithPath returns a copy of e naming the offending source file.
func (e *ValidationError) WithPath(path string) *ValidationError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Path = path
	clone.Issues = slices.Clone(e.Issues)
	return &clone
}

// Fields returns the names of the failing fields in order.
func (e *ValidationError) Fields() []string {
	out := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		out = append(out, issue.Field)
	}
	return out
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("schema: ")
	if e.Collection != "" {
		b.WriteString(e.Collection)
		b.WriteString(": ")
	}
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(goerrors.ValidationErrors(e.Issues).Error())
	return b.String()
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
