// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package tables

import (
	"context"

	"github.com/tomtom215/repovault/internal/codec"
	"github.com/tomtom215/repovault/internal/schema"
)

// JournalsTable models JOURNALS: key ID, a subset of SUBMISSIONS'
// columns with CONTENT in place of a file-bearing body.
type JournalsTable struct {
	*schema.Table
}

// NewJournalsTable declares the JOURNALS schema.
func NewJournalsTable() *JournalsTable {
	t := schema.NewTable("JOURNALS", []schema.Column{
		{Name: "ID", Kind: codec.Int{}, NotNull: true},
		{Name: "AUTHOR", Kind: codec.Text{}, NotNull: true, Check: "length({name}) >= 1"},
		{Name: "TITLE", Kind: codec.Text{}, HasDefault: true, Default: ""},
		{Name: "DATE", Kind: codec.DateTime{Precision: codec.PrecisionDate}},
		{Name: "CONTENT", Kind: codec.Text{}, HasDefault: true, Default: ""},
		{Name: "HEADER", Kind: codec.Text{}, HasDefault: true, Default: ""},
		{Name: "FOOTER", Kind: codec.Text{}, HasDefault: true, Default: ""},
		{Name: "MENTIONS", Kind: codec.SetOf{Elem: codec.Text{}}, HasDefault: true, Default: []string{}},
		{Name: "USERUPDATE", Kind: codec.Bool{}, HasDefault: true, Default: false},
	}, []string{"ID"}, true)
	return &JournalsTable{Table: t}
}

// SaveJournal formats and inserts-or-replaces entry.
func (j *JournalsTable) SaveJournal(ctx context.Context, conn schema.Querier, entry map[string]interface{}, mode schema.InsertMode) error {
	return j.Table.Insert(ctx, conn, entry, mode)
}

func (j *JournalsTable) SetUserUpdate(ctx context.Context, conn schema.Querier, id int64, value bool) (bool, error) {
	return setScalarIfChanged(ctx, conn, j.Table, "ID", id, "USERUPDATE", value)
}

func (j *JournalsTable) AddMention(ctx context.Context, conn schema.Querier, id int64, user string) (bool, error) {
	return j.Table.AddToList(ctx, conn, id, "MENTIONS", []string{NormalizeUsername(user)})
}

func (j *JournalsTable) RemoveMention(ctx context.Context, conn schema.Querier, id int64, user string) (bool, error) {
	return j.Table.RemoveFromList(ctx, conn, id, "MENTIONS", []string{NormalizeUsername(user)})
}
