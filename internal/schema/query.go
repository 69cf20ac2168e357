// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package schema

import (
	"context"
	"strings"

	"github.com/tomtom215/repovault/internal/dberrors"
	"github.com/tomtom215/repovault/internal/query"
)

// SelectQuery parses text with the free-form query language and
// delegates to the same row-scanning machinery as Select.
func (t *Table) SelectQuery(ctx context.Context, conn Querier, text string, opts query.Options, columns []string, order string, limit, offset int64) ([]Entry, error) {
	frag, args, err := query.Parse(text, opts)
	if err != nil {
		return nil, err
	}
	cols := t.selectColumns()
	if len(columns) > 0 {
		cols = strings.Join(columns, ", ")
	}
	stmt := "select " + cols + " from " + t.Name + " where " + frag
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
		return nil, dberrors.Wrap(dberrors.KindDatabase, "schema.Table.SelectQuery", "%s: %v", t.Name, err)
	}
	return scanRows(rows, t)
}
