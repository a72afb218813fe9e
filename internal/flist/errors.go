package flist

import (
	"errors"
	"fmt"
)

// FatalInputError marks conditions that must abort the run before any
// output is written: an existing destination without --force, a missing
// or invalid merge source, or a tag collision among merge sources.
type FatalInputError struct {
	Path   string // offending path, may be empty
	Reason string
}

func (e *FatalInputError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Path)
}

// Fatalf creates a FatalInputError for the given path.
func Fatalf(path, format string, args ...any) error {
	return &FatalInputError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// IsFatalInput reports whether err is (or wraps) a FatalInputError.
func IsFatalInput(err error) bool {
	var fe *FatalInputError
	return errors.As(err, &fe)
}
