// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

// Package codec mediates between in-memory Go values and the single
// on-disk textual (or native integer) encoding each column uses, per the
// declared Kind. Every Kind dispatches on a closed tagged variant instead
// of runtime type introspection; since Kind is sealed, only types in this
// package can be declared as a column's kind. Building a column or table
// does not check kinds: ToEntry and FromEntry return a TypeError for a
// Kind they do not handle.
package codec

import "fmt"

// Kind is a closed tagged variant over the logical column types the
// repository engine supports. It is implemented by the unexported marker
// method so no type outside this package can satisfy it.
type Kind interface {
	kind()
}

// Text is an identity-encoded string column. Dynamic/Any-typed columns
// are treated as Text.
type Text struct{}

func (Text) kind() {}

// Int is a native integer column.
type Int struct{}

func (Int) kind() {}

// Float is a native floating point column.
type Float struct{}

func (Float) kind() {}

// Bool is stored as integer 0/1.
type Bool struct{}

func (Bool) kind() {}

// DateTimePrecision selects which ISO layout a DateTime column round-trips through.
type DateTimePrecision int

const (
	// PrecisionDate is YYYY-MM-DD.
	PrecisionDate DateTimePrecision = iota
	// PrecisionSecond is YYYY-MM-DDTHH:MM:SS.
	PrecisionSecond
	// PrecisionMicrosecond is YYYY-MM-DDTHH:MM:SS.ffffff.
	PrecisionMicrosecond
)

// Layout returns the Go reference-time layout for p.
func (p DateTimePrecision) Layout() string {
	switch p {
	case PrecisionDate:
		return "2006-01-02"
	case PrecisionSecond:
		return "2006-01-02T15:04:05"
	case PrecisionMicrosecond:
		return "2006-01-02T15:04:05.000000"
	default:
		return "2006-01-02T15:04:05"
	}
}

// DateTime is a datetime column round-tripping through an ISO text layout.
type DateTime struct {
	Precision DateTimePrecision
}

func (DateTime) kind() {}

// ListOf is an ordered list column of elements of kind Elem.
type ListOf struct {
	Elem Kind
}

func (ListOf) kind() {}

// SetOf is an ascending, case-insensitively sorted, de-duplicated set
// column of elements of kind Elem.
type SetOf struct {
	Elem Kind
}

func (SetOf) kind() {}

// JSON is a dict column encoded as canonical JSON text.
type JSON struct{}

func (JSON) kind() {}

// Custom lets a column override the default codec entirely (e.g.
// username normalisation, FOLDER case-folding).
type Custom struct {
	Name    string // for diagnostics / TypeError messages
	ToEntry func(value interface{}) (interface{}, error)
	FromEntry func(cell interface{}) (interface{}, error)
}

func (Custom) kind() {}

// TypeError is returned by ToEntry and FromEntry, when a value is encoded
// or decoded, for a Kind the codec does not recognise. Table construction
// does not check kinds, and the codec leaves Column empty.
type TypeError struct {
	Column string
	Kind   Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("column %q: unrecognised declared type %T", e.Column, e.Kind)
}
