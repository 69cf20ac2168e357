// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

// Package selector implements the structured selector algebra: a tagged
// tree of comparison and boolean operators that compiles to a
// parameterised SQL WHERE fragment. Every user value travels as a bound
// parameter — nothing is ever interpolated into the SQL text.
package selector

// Node is the closed set of selector tree shapes. Implemented only by the
// types in this file, so the Go type system enforces the closed operator
// set; FromMap enforces the same closure for callers building a selector
// from an untyped tagged map (e.g. decoded JSON).
type Node interface {
	node()
}

// And is satisfied when every child selector matches.
type And struct{ Of []Node }

func (And) node() {}

// Or is satisfied when any child selector matches.
type Or struct{ Of []Node }

func (Or) node() {}

// Not negates a single child selector.
type Not struct{ Of Node }

func (Not) node() {}

// Eq matches Field == Value.
type Eq struct {
	Field string
	Value interface{}
}

func (Eq) node() {}

// Ne matches Field != Value.
type Ne struct {
	Field string
	Value interface{}
}

func (Ne) node() {}

// Gt matches Field > Value.
type Gt struct {
	Field string
	Value interface{}
}

func (Gt) node() {}

// Lt matches Field < Value.
type Lt struct {
	Field string
	Value interface{}
}

func (Lt) node() {}

// Ge matches Field >= Value.
type Ge struct {
	Field string
	Value interface{}
}

func (Ge) node() {}

// Le matches Field <= Value.
type Le struct {
	Field string
	Value interface{}
}

func (Le) node() {}

// In matches Field against any of Values.
type In struct {
	Field  string
	Values []interface{}
}

func (In) node() {}

// Instr matches instr(Field, Value) != 0, i.e. substring containment.
type Instr struct {
	Field string
	Value string
}

func (Instr) node() {}

// Between matches Low <= Field <= High.
type Between struct {
	Field string
	Low   interface{}
	High  interface{}
}

func (Between) node() {}

// Like matches Field against a SQL LIKE pattern.
type Like struct {
	Field   string
	Pattern string
}

func (Like) node() {}

// Glob matches Field against a SQL GLOB pattern.
type Glob struct {
	Field   string
	Pattern string
}

func (Glob) node() {}
