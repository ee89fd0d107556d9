package collections

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownCollection = errors.New("collections: unknown collection")
	ErrMalformedDocument = errors.New("collections: malformed document")
	ErrDuplicateID       = errors.New("collections: duplicate entry id")
)

// MalformedDocumentError reports a file whose front matter cannot be
// parsed or whose id cannot be derived.
type MalformedDocumentError struct {
	Collection string
	Path       string
	Err        error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("collections: %s: %s: malformed document: %v", e.Collection, e.Path, e.Err)
}

func (e *MalformedDocumentError) Unwrap() []error {
	return []error{ErrMalformedDocument, e.Err}
}

// DuplicateIDError reports files of one collection resolving to the same
// entry id. Paths are sorted.
type DuplicateIDError struct {
	Collection string
	ID         string
	Paths      []string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("collections: %s: duplicate entry id %q from %s", e.Collection, e.ID, strings.Join(e.Paths, ", "))
}

func (e *DuplicateIDError) Unwrap() error {
	return ErrDuplicateID
}

// Failure is a file excluded from a load result.
type Failure struct {
	Path string
	Err  error
}

func (f Failure) Error() string {
	return f.Err.Error()
}

func (f Failure) Unwrap() error {
	return f.Err
}
