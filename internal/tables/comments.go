// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package tables

import (
	"context"

	"github.com/tomtom215/repovault/internal/codec"
	"github.com/tomtom215/repovault/internal/schema"
	"github.com/tomtom215/repovault/internal/selector"
)

// CommentsTable models COMMENTS: composite key (ID, PARENT_TABLE,
// PARENT_ID). REPLY_TO is stored as 0 for "no parent" — 0 is never a
// valid comment ID, so it doubles as the nullable sentinel without a
// separate NULL-tracking column.
type CommentsTable struct {
	*schema.Table
}

// NewCommentsTable declares the COMMENTS schema.
func NewCommentsTable() *CommentsTable {
	t := schema.NewTable("COMMENTS", []schema.Column{
		{Name: "ID", Kind: codec.Int{}, NotNull: true},
		{Name: "PARENT_TABLE", Kind: codec.Text{}, NotNull: true, Check: "{name} in ('SUBMISSIONS','JOURNALS')"},
		{Name: "PARENT_ID", Kind: codec.Int{}, NotNull: true},
		{Name: "REPLY_TO", Kind: codec.Int{}, HasDefault: true, Default: int64(0)},
		{Name: "AUTHOR", Kind: codec.Text{}, NotNull: true, Check: "length({name}) >= 1"},
		{Name: "DATE", Kind: codec.DateTime{Precision: codec.PrecisionSecond}},
		{Name: "TEXT", Kind: codec.Text{}, HasDefault: true, Default: ""},
	}, []string{"ID", "PARENT_TABLE", "PARENT_ID"}, true)
	return &CommentsTable{Table: t}
}

// SaveComment formats and inserts-or-replaces entry.
func (c *CommentsTable) SaveComment(ctx context.Context, conn schema.Querier, entry map[string]interface{}, mode schema.InsertMode) error {
	return c.Table.Insert(ctx, conn, entry, mode)
}

// GetComments returns every comment for (parentTable, parentID), ordered
// by ID ascending.
func (c *CommentsTable) GetComments(ctx context.Context, conn schema.Querier, parentTable string, parentID int64) ([]schema.Entry, error) {
	sel := selector.And{Of: []selector.Node{
		selector.Eq{Field: "PARENT_TABLE", Value: parentTable},
		selector.Eq{Field: "PARENT_ID", Value: parentID},
	}}
	return c.Table.Select(ctx, conn, sel, nil, "ID asc", 0, 0)
}

// GetCommentsTree returns the comment forest for (parentTable, parentID):
// roots are comments with REPLY_TO = 0; each entry gains a REPLIES
// attribute listing its direct replies, recursively.
func (c *CommentsTable) GetCommentsTree(ctx context.Context, conn schema.Querier, parentTable string, parentID int64) ([]schema.Entry, error) {
	flat, err := c.GetComments(ctx, conn, parentTable, parentID)
	if err != nil {
		return nil, err
	}
	childrenOf := make(map[int64][]schema.Entry)
	for _, entry := range flat {
		replyTo := toInt64(entry["REPLY_TO"])
		childrenOf[replyTo] = append(childrenOf[replyTo], entry)
	}
	var attach func(id int64) []schema.Entry
	attach = func(id int64) []schema.Entry {
		kids := childrenOf[id]
		for i := range kids {
			kidID := toInt64(kids[i]["ID"])
			kids[i]["REPLIES"] = attach(kidID)
		}
		return kids
	}
	return attach(0), nil
}
