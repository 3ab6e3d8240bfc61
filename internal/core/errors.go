package core

import (
	"github.com/pkg/errors"
)

// recoverableError marks an extractor failure which only the owning node
// records: the message is appended to the node's error_message meta entry
// and the request continues with an empty child list.
type recoverableError struct {
	err error
}

func (e *recoverableError) Error() string { return e.err.Error() }
func (e *recoverableError) Unwrap() error { return e.err }

// fatalError marks an extractor failure which aborts the whole request,
// e.g. exhausting every candidate password on a mandatory archive.
type fatalError struct {
	err error
}

func (e *fatalError) Error() string { return e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

// Recoverable wraps err as a per-extractor recoverable failure.
func Recoverable(err error) error {
	if err == nil {
		return nil
	}
	return &recoverableError{err: err}
}

// Recoverablef creates a recoverable failure from a format string.
func Recoverablef(format string, args ...interface{}) error {
	return &recoverableError{err: errors.Errorf(format, args...)}
}

// Fatal wraps err as a request-aborting failure.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

// Fatalf creates a request-aborting failure from a format string.
func Fatalf(format string, args ...interface{}) error {
	return &fatalError{err: errors.Errorf(format, args...)}
}

// IsFatal reports whether err (or anything it wraps) aborts the request.
// Extractor errors which are not explicitly fatal are treated as
// recoverable.
func IsFatal(err error) bool {
	var fatal *fatalError
	return errors.As(err, &fatal)
}
