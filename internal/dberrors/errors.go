// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

// Package dberrors defines the typed error kinds the repository engine
// raises across its public surface. Every kind wraps an underlying cause
// (when one exists) with fmt.Errorf's %w so callers can still unwrap down
// to the store's own errors via errors.Is / errors.As.
package dberrors

import (
	"errors"
	"fmt"
)

// Kind identifies one of the error categories from the error-handling design.
type Kind string

const (
	// KindVersion covers a missing, newer-than-build, or merge-incompatible version.
	KindVersion Kind = "version"
	// KindMultipleConnections covers more live handles to the store file than allowed.
	KindMultipleConnections Kind = "multiple_connections"
	// KindUnknownSelector covers a selector operator outside the closed set.
	KindUnknownSelector Kind = "unknown_selector"
	// KindSchema covers a row that cannot be formatted, or a failed CHECK constraint.
	KindSchema Kind = "schema"
	// KindKey covers a lookup that required existence and found none.
	KindKey Kind = "key"
	// KindIO covers a failed disk operation (file write, tree copy, backup rename).
	KindIO Kind = "io"
	// KindDatabase is the generic surface for store errors and anything above.
	KindDatabase Kind = "database"
)

// Error is the concrete error type returned across the engine's public API.
type Error struct {
	Kind Kind
	Op   string // the operation that failed, e.g. "store.Open", "schema.Table.Get"
	Err  error  // underlying cause, nil if the kind is self-explanatory
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target carries the same Kind, which lets callers write
// errors.Is(err, dberrors.New(dberrors.KindKey, "", nil)) or compare against
// the Kind sentinels below.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// New constructs an *Error for op, wrapping err (which may be nil).
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Wrap is a convenience for New(kind, op, fmt.Errorf(format, args...)).
func Wrap(kind Kind, op string, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Sentinels usable with errors.Is for callers that only care about the kind.
var (
	ErrVersion             = &Error{Kind: KindVersion}
	ErrMultipleConnections = &Error{Kind: KindMultipleConnections}
	ErrUnknownSelector     = &Error{Kind: KindUnknownSelector}
	ErrSchema              = &Error{Kind: KindSchema}
	ErrKey                 = &Error{Kind: KindKey}
	ErrIO                  = &Error{Kind: KindIO}
	ErrDatabase            = &Error{Kind: KindDatabase}
)
