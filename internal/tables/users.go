// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package tables

import (
	"context"

	"github.com/tomtom215/repovault/internal/codec"
	"github.com/tomtom215/repovault/internal/schema"
)

// UsersTable models USERS: key USERNAME, set FOLDERS, boolean ACTIVE,
// string USERPAGE.
type UsersTable struct {
	*schema.Table
}

// NewUsersTable declares the USERS schema.
func NewUsersTable() *UsersTable {
	t := schema.NewTable("USERS", []schema.Column{
		{Name: "USERNAME", Kind: codec.Text{}, NotNull: true, Check: "length({name}) >= 1"},
		{Name: "FOLDERS", Kind: codec.SetOf{Elem: codec.Text{}}, HasDefault: true, Default: []string{}},
		{Name: "ACTIVE", Kind: codec.Bool{}, HasDefault: true, Default: false},
		{Name: "USERPAGE", Kind: codec.Text{}, HasDefault: true, Default: ""},
	}, []string{"USERNAME"}, true)
	return &UsersTable{Table: t}
}

// SaveUser normalises USERNAME and inserts-or-replaces the row.
func (u *UsersTable) SaveUser(ctx context.Context, conn schema.Querier, entry map[string]interface{}) error {
	merged := make(map[string]interface{}, len(entry)+1)
	for k, v := range entry {
		merged[k] = v
	}
	name, _ := merged["USERNAME"].(string)
	merged["USERNAME"] = NormalizeUsername(name)
	return u.Table.Insert(ctx, conn, merged, schema.InsertReplace)
}

// SetActive flips ACTIVE, returning whether it changed.
func (u *UsersTable) SetActive(ctx context.Context, conn schema.Querier, user string, active bool) (bool, error) {
	return setScalarIfChanged(ctx, conn, u.Table, "USERNAME", NormalizeUsername(user), "ACTIVE", active)
}

// AddFolder appends folder to FOLDERS if not already present.
func (u *UsersTable) AddFolder(ctx context.Context, conn schema.Querier, user, folder string) (bool, error) {
	return u.Table.AddToList(ctx, conn, NormalizeUsername(user), "FOLDERS", []string{folder})
}

// RemoveFolder removes folder from FOLDERS if present.
func (u *UsersTable) RemoveFolder(ctx context.Context, conn schema.Querier, user, folder string) (bool, error) {
	return u.Table.RemoveFromList(ctx, conn, NormalizeUsername(user), "FOLDERS", []string{folder})
}

// SetUserpage writes USERPAGE only if it actually changed.
func (u *UsersTable) SetUserpage(ctx context.Context, conn schema.Querier, user, page string) (bool, error) {
	return setScalarIfChanged(ctx, conn, u.Table, "USERNAME", NormalizeUsername(user), "USERPAGE", page)
}
