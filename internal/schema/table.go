// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package schema

import (
	"context"
	"database/sql"
	"strings"

	"github.com/tomtom215/repovault/internal/codec"
	"github.com/tomtom215/repovault/internal/dberrors"
	"github.com/tomtom215/repovault/internal/selector"
)

// Querier is the subset of *sql.DB / *sql.Tx / *sql.Conn the Table layer
// needs. Passing it as an interface keeps schema free of any dependency
// on internal/store, which constructs Tables against its own connection.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Entry is a decoded row: canonical column name -> typed Go value.
type Entry map[string]interface{}

// InsertMode selects the conflict behaviour of Insert.
type InsertMode int

const (
	InsertDefault InsertMode = iota
	InsertReplace
	InsertIgnore
)

// Table composes a declarative column set over a Querier, implementing
// the generic keyed CRUD contract every domain table builds on.
type Table struct {
	Name         string
	Columns      []Column
	PrimaryKey   []string
	ExistsIgnore bool

	byKey map[string]Column
	order []string // canonical Column.Name in declaration order
}

// NewTable builds a Table, indexing its columns for case/underscore
// insensitive lookup.
func NewTable(name string, columns []Column, primaryKey []string, existsIgnore bool) *Table {
	t := &Table{
		Name:         name,
		Columns:      columns,
		PrimaryKey:   primaryKey,
		ExistsIgnore: existsIgnore,
		byKey:        make(map[string]Column, len(columns)),
		order:        make([]string, 0, len(columns)),
	}
	for _, c := range columns {
		t.byKey[normalizeKey(c.Name)] = c
		t.order = append(t.order, c.Name)
	}
	return t
}

func (t *Table) column(name string) (Column, bool) {
	c, ok := t.byKey[normalizeKey(name)]
	return c, ok
}

func (t *Table) isPrimaryKey(name string) bool {
	for _, k := range t.PrimaryKey {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

// CreateStatement renders the full DDL for this table.
func (t *Table) CreateStatement() string {
	var b strings.Builder
	b.WriteString("create table ")
	if t.ExistsIgnore {
		b.WriteString("if not exists ")
	}
	b.WriteString(t.Name)
	b.WriteString(" (")
	parts := make([]string, 0, len(t.Columns)+1)
	for _, c := range t.Columns {
		parts = append(parts, c.CreateStatement())
	}
	if len(t.PrimaryKey) > 0 {
		parts = append(parts, "primary key ("+strings.Join(t.PrimaryKey, ", ")+")")
	}
	b.WriteString(strings.Join(parts, ", "))
	b.WriteString(")")
	return b.String()
}

// Create issues the table's DDL against conn.
func (t *Table) Create(ctx context.Context, conn Querier) error {
	_, err := conn.ExecContext(ctx, t.CreateStatement())
	if err != nil {
		return dberrors.Wrap(dberrors.KindDatabase, "schema.Table.Create", "%s: %v", t.Name, err)
	}
	return nil
}

// normalizeRawKeys re-keys raw by normalizeKey, so lookups against
// declared column names are case- and underscore-insensitive.
func normalizeRawKeys(raw map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		out[normalizeKey(k)] = v
	}
	return out
}

// FormatEntry builds the on-disk cell mapping for raw: it normalises
// keys, optionally fills declared defaults, applies each column's codec,
// and drops unknown keys. A required column (primary key or not_null)
// with no value and no usable default raises SchemaError.
func (t *Table) FormatEntry(raw map[string]interface{}, defaults bool) (map[string]interface{}, error) {
	normalized := normalizeRawKeys(raw)
	out := make(map[string]interface{}, len(t.Columns))
	for _, c := range t.Columns {
		key := normalizeKey(c.Name)
		value, present := normalized[key]
		if !present {
			if defaults && c.HasDefault {
				value = c.Default
				present = true
			} else if c.NotNull || t.isPrimaryKey(c.Name) {
				return nil, dberrors.Wrap(dberrors.KindSchema, "schema.Table.FormatEntry", "%s: column %s requires a value", t.Name, c.Name)
			} else {
				continue
			}
		}
		cell, err := codec.ToEntry(c.Kind, value)
		if err != nil {
			return nil, dberrors.New(dberrors.KindSchema, "schema.Table.FormatEntry", err)
		}
		out[c.Name] = cell
	}
	return out, nil
}

// decodeRow applies each column's codec to one scanned row.
func (t *Table) decodeRow(cols []string, cells []interface{}) (Entry, error) {
	entry := make(Entry, len(cols))
	for i, name := range cols {
		c, ok := t.column(name)
		if !ok {
			entry[name] = cells[i]
			continue
		}
		value, err := codec.FromEntry(c.Kind, cells[i])
		if err != nil {
			return nil, dberrors.New(dberrors.KindSchema, "schema.Table.decodeRow", err)
		}
		entry[c.Name] = value
	}
	return entry, nil
}

func (t *Table) selectColumns() string {
	return strings.Join(t.order, ", ")
}

func scanRows(rows *sql.Rows, t *Table) ([]Entry, error) {
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, dberrors.Wrap(dberrors.KindDatabase, "schema.Table", "%v", err)
	}
	var out []Entry
	for rows.Next() {
		cells := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, dberrors.Wrap(dberrors.KindDatabase, "schema.Table", "%v", err)
		}
		entry, err := t.decodeRow(cols, cells)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, dberrors.Wrap(dberrors.KindDatabase, "schema.Table", "%v", err)
	}
	return out, nil
}

// Len returns count(*) over the table.
func (t *Table) Len(ctx context.Context, conn Querier) (int64, error) {
	var n int64
	row := conn.QueryRowContext(ctx, "select count(*) from "+t.Name)
	if err := row.Scan(&n); err != nil {
		return 0, dberrors.Wrap(dberrors.KindDatabase, "schema.Table.Len", "%s: %v", t.Name, err)
	}
	return n, nil
}

// keySelector builds the primary-key equality selector for a scalar key
// (single-column PK) or a map/list key shape, matching Get/Delete's
// overloaded key argument.
func (t *Table) keySelector(key interface{}) (selector.Node, error) {
	switch k := key.(type) {
	case map[string]interface{}:
		var eqs []selector.Node
		for field, value := range k {
			eqs = append(eqs, selector.Eq{Field: field, Value: value})
		}
		return selector.And{Of: eqs}, nil
	case []interface{}:
		if len(t.PrimaryKey) != 1 {
			return nil, dberrors.Wrap(dberrors.KindKey, "schema.Table", "%s: list key requires a single-column primary key", t.Name)
		}
		var ors []selector.Node
		for _, v := range k {
			ors = append(ors, selector.Eq{Field: t.PrimaryKey[0], Value: v})
		}
		return selector.Or{Of: ors}, nil
	default:
		if len(t.PrimaryKey) != 1 {
			return nil, dberrors.Wrap(dberrors.KindKey, "schema.Table", "%s: scalar key requires a single-column primary key", t.Name)
		}
		return selector.Eq{Field: t.PrimaryKey[0], Value: key}, nil
	}
}

// Get resolves a scalar key to zero-or-one entry, or a dict/list key to
// every matching entry.
func (t *Table) Get(ctx context.Context, conn Querier, key interface{}) ([]Entry, error) {
	sel, err := t.keySelector(key)
	if err != nil {
		return nil, err
	}
	return t.Select(ctx, conn, sel, nil, "", 0, 0)
}

// Set performs insert-or-replace with the primary key forced to key (a
// scalar single-column key).
func (t *Table) Set(ctx context.Context, conn Querier, key interface{}, entry map[string]interface{}) error {
	if len(t.PrimaryKey) != 1 {
		return dberrors.Wrap(dberrors.KindKey, "schema.Table.Set", "%s: Set requires a single-column primary key", t.Name)
	}
	merged := make(map[string]interface{}, len(entry)+1)
	for k, v := range entry {
		merged[k] = v
	}
	merged[t.PrimaryKey[0]] = key
	return t.Insert(ctx, conn, merged, InsertReplace)
}

// Delete mirrors Get's key-shape overloads.
func (t *Table) Delete(ctx context.Context, conn Querier, key interface{}) error {
	sel, err := t.keySelector(key)
	if err != nil {
		return err
	}
	frag, args, err := selector.ToSQL(sel)
	if err != nil {
		return err
	}
	_, err = conn.ExecContext(ctx, "delete from "+t.Name+" where "+frag, args...)
	if err != nil {
		return dberrors.Wrap(dberrors.KindDatabase, "schema.Table.Delete", "%s: %v", t.Name, err)
	}
	return nil
}

// Iter streams every row in table order.
func (t *Table) Iter(ctx context.Context, conn Querier) ([]Entry, error) {
	rows, err := conn.QueryContext(ctx, "select "+t.selectColumns()+" from "+t.Name)
	if err != nil {
		return nil, dberrors.Wrap(dberrors.KindDatabase, "schema.Table.Iter", "%s: %v", t.Name, err)
	}
	return scanRows(rows, t)
}

// Insert formats entry and issues INSERT / INSERT OR REPLACE / INSERT OR
// IGNORE according to mode.
func (t *Table) Insert(ctx context.Context, conn Querier, entry map[string]interface{}, mode InsertMode) error {
	cells, err := t.FormatEntry(entry, true)
	if err != nil {
		return err
	}
	cols := make([]string, 0, len(cells))
	placeholders := make([]string, 0, len(cells))
	args := make([]interface{}, 0, len(cells))
	for _, name := range t.order {
		v, ok := cells[name]
		if !ok {
			continue
		}
		cols = append(cols, name)
		placeholders = append(placeholders, "?")
		args = append(args, v)
	}
	verb := "insert into"
	switch mode {
	case InsertReplace:
		verb = "insert or replace into"
	case InsertIgnore:
		verb = "insert or ignore into"
	}
	stmt := verb + " " + t.Name + " (" + strings.Join(cols, ", ") + ") values (" + strings.Join(placeholders, ", ") + ")"
	if _, err := conn.ExecContext(ctx, stmt, args...); err != nil {
		return dberrors.Wrap(dberrors.KindDatabase, "schema.Table.Insert", "%s: %v", t.Name, err)
	}
	return nil
}

// SelectOptions is the shared shape for Select's optional clauses.
type SelectOptions struct {
	Columns []string
	Order   string
	Limit   int64
	Offset  int64
}

// Select compiles sel to SQL and returns the matching entries.
func (t *Table) Select(ctx context.Context, conn Querier, sel selector.Node, columns []string, order string, limit, offset int64) ([]Entry, error) {
	cols := t.selectColumns()
	if len(columns) > 0 {
		cols = strings.Join(columns, ", ")
	}
	stmt := "select " + cols + " from " + t.Name
	var args []interface{}
	if sel != nil {
		frag, a, err := selector.ToSQL(sel)
		if err != nil {
			return nil, err
		}
		stmt += " where " + frag
		args = a
	}
	if order != "" {
		stmt += " order by " + order
	}
	if limit > 0 {
		stmt += " limit ?"
		args = append(args, limit)
	}
	if offset > 0 {
		stmt += " offset ?"
		args = append(args, offset)
	}
	rows, err := conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, dberrors.Wrap(dberrors.KindDatabase, "schema.Table.Select", "%s: %v", t.Name, err)
	}
	return scanRows(rows, t)
}

// Update applies the codec to newEntry's values and issues a bulk UPDATE
// over every row matched by sel.
func (t *Table) Update(ctx context.Context, conn Querier, sel selector.Node, newEntry map[string]interface{}) error {
	cells, err := t.FormatEntry(newEntry, false)
	if err != nil {
		return err
	}
	if len(cells) == 0 {
		return nil
	}
	setCols := make([]string, 0, len(cells))
	args := make([]interface{}, 0, len(cells))
	for _, name := range t.order {
		v, ok := cells[name]
		if !ok {
			continue
		}
		setCols = append(setCols, name+" = ?")
		args = append(args, v)
	}
	stmt := "update " + t.Name + " set " + strings.Join(setCols, ", ")
	if sel != nil {
		frag, a, err := selector.ToSQL(sel)
		if err != nil {
			return err
		}
		stmt += " where " + frag
		args = append(args, a...)
	}
	if _, err := conn.ExecContext(ctx, stmt, args...); err != nil {
		return dberrors.Wrap(dberrors.KindDatabase, "schema.Table.Update", "%s: %v", t.Name, err)
	}
	return nil
}

// AddToList reads column (a list/set kind) on the row identified by key,
// appends any values not already present (preserving order), writes back
// only if the set actually grew, and reports whether it changed.
func (t *Table) AddToList(ctx context.Context, conn Querier, key interface{}, column string, values []string) (bool, error) {
	return t.mutateList(ctx, conn, key, column, values, true)
}

// RemoveFromList mirrors AddToList for removal, preserving the relative
// order of retained items.
func (t *Table) RemoveFromList(ctx context.Context, conn Querier, key interface{}, column string, values []string) (bool, error) {
	return t.mutateList(ctx, conn, key, column, values, false)
}

func (t *Table) mutateList(ctx context.Context, conn Querier, key interface{}, column string, values []string, add bool) (bool, error) {
	rows, err := t.Get(ctx, conn, key)
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, dberrors.Wrap(dberrors.KindKey, "schema.Table", "%s: key not found", t.Name)
	}
	c, ok := t.column(column)
	if !ok {
		return false, dberrors.Wrap(dberrors.KindSchema, "schema.Table", "%s: no such column %s", t.Name, column)
	}
	current, _ := rows[0][c.Name].([]string)
	updated, changed := applyListDelta(current, values, add)
	if !changed {
		return false, nil
	}
	sel, err := t.keySelector(key)
	if err != nil {
		return false, err
	}
	if err := t.Update(ctx, conn, sel, map[string]interface{}{column: updated}); err != nil {
		return false, err
	}
	return true, nil
}

func applyListDelta(current, delta []string, add bool) ([]string, bool) {
	index := make(map[string]int, len(current))
	for i, v := range current {
		index[v] = i
	}
	changed := false
	if add {
		out := append([]string(nil), current...)
		for _, v := range delta {
			if _, present := index[v]; !present {
				index[v] = len(out)
				out = append(out, v)
				changed = true
			}
		}
		return out, changed
	}
	remove := make(map[string]bool, len(delta))
	for _, v := range delta {
		if _, present := index[v]; present {
			remove[v] = true
			changed = true
		}
	}
	if !changed {
		return current, false
	}
	out := make([]string, 0, len(current))
	for _, v := range current {
		if !remove[v] {
			out = append(out, v)
		}
	}
	return out, true
}
