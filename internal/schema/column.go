// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

// Package schema implements the declarative column/table layer: DDL
// generation, entry formatting against the codec, and the generic keyed
// CRUD contract every domain table builds on.
package schema

import (
	"fmt"
	"strings"

	"github.com/tomtom215/repovault/internal/codec"
)

// Column declares one column of a Table.
type Column struct {
	// Name is the canonical on-disk column name, e.g. "USERNAME", "PARENT_TABLE".
	Name string
	// Kind selects the codec used to move this column's values to/from a cell.
	Kind codec.Kind
	// SQLType overrides the type derived from Kind in the DDL, if non-empty.
	SQLType string
	// NotNull adds a NOT NULL constraint.
	NotNull bool
	// Unique adds a UNIQUE constraint.
	Unique bool
	// PrimaryKey marks this column as part of the table's primary key.
	PrimaryKey bool
	// Check, if non-empty, is a CHECK constraint template; "{name}" is
	// substituted with the column name before being embedded in the DDL.
	Check string
	// HasDefault and Default together represent "has a declared default
	// value" distinctly from "no default" (Default may legitimately be
	// the zero value, an empty string, or nil).
	HasDefault bool
	Default    interface{}
}

// sqlType returns the explicit SQLType if set, else one derived from Kind.
func (c Column) sqlType() string {
	if c.SQLType != "" {
		return c.SQLType
	}
	switch c.Kind.(type) {
	case codec.Int:
		return "integer"
	case codec.Float:
		return "real"
	case codec.Bool:
		return "integer"
	default:
		return "text"
	}
}

// CreateStatement renders this column's fragment of a CREATE TABLE
// statement: "name type [unique] [not null] [check (...)]".
func (c Column) CreateStatement() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte(' ')
	b.WriteString(c.sqlType())
	if c.Unique {
		b.WriteString(" unique")
	}
	if c.NotNull {
		b.WriteString(" not null")
	}
	if c.Check != "" {
		check := strings.ReplaceAll(c.Check, "{name}", c.Name)
		b.WriteString(fmt.Sprintf(" check (%s)", check))
	}
	return b.String()
}

// normalizeKey strips underscores and upper-cases, so lookups of raw
// entry keys are case- and underscore-insensitive against Column.Name.
func normalizeKey(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "_", ""))
}
