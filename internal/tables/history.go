// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package tables

import (
	"context"
	"time"

	"github.com/tomtom215/repovault/internal/codec"
	"github.com/tomtom215/repovault/internal/schema"
)

// HistoryTable models HISTORY: key TIME (microsecond precision, unique),
// single attribute EVENT. Iteration always yields TIME-ascending order.
type HistoryTable struct {
	*schema.Table
}

// NewHistoryTable declares the HISTORY schema.
func NewHistoryTable() *HistoryTable {
	t := schema.NewTable("HISTORY", []schema.Column{
		{Name: "TIME", Kind: codec.DateTime{Precision: codec.PrecisionMicrosecond}, NotNull: true, Unique: true},
		{Name: "EVENT", Kind: codec.Text{}, NotNull: true, Check: "length({name}) >= 1"},
	}, []string{"TIME"}, true)
	return &HistoryTable{Table: t}
}

// AddEvent records event at t, or at time.Now() if t is the zero value.
func (h *HistoryTable) AddEvent(ctx context.Context, conn schema.Querier, event string, t time.Time) error {
	if t.IsZero() {
		t = time.Now()
	}
	return h.Table.Insert(ctx, conn, map[string]interface{}{
		"TIME":  t,
		"EVENT": event,
	}, schema.InsertDefault)
}

// Iter streams every event in TIME-ascending order.
func (h *HistoryTable) Iter(ctx context.Context, conn schema.Querier) ([]schema.Entry, error) {
	return h.Table.Select(ctx, conn, nil, nil, "TIME asc", 0, 0)
}
