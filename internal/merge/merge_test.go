// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package merge

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/repovault/internal/config"
	"github.com/tomtom215/repovault/internal/store"
)

var testDBSemaphore = make(chan struct{}, 1)

func withSemaphore(t *testing.T) {
	t.Helper()
	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })
}

func openStore(t *testing.T, dir, name string) *store.Database {
	t.Helper()
	db, err := store.Open(context.Background(), filepath.Join(dir, name), store.OpenOptions{Config: config.Default()})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMergeUsersTable(t *testing.T) {
	withSemaphore(t)
	ctx := context.Background()

	source := openStore(t, t.TempDir(), "source.duckdb")
	dest := openStore(t, t.TempDir(), "dest.duckdb")

	require.NoError(t, source.Users.SaveUser(ctx, source.Conn(), map[string]interface{}{
		"USERNAME": "artist_a",
		"ACTIVE":   true,
	}))
	require.NoError(t, dest.Users.SaveUser(ctx, dest.Conn(), map[string]interface{}{
		"USERNAME": "existing_user",
	}))

	report, err := Merge(ctx, dest, []Cursor{{Source: source, Table: "USERS"}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Inserted["USERS"])

	rows, err := dest.Users.Get(ctx, dest.Conn(), "artist_a")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, true, rows[0]["ACTIVE"])
}

func TestMergeSkipsExistingKeyWithoutReplace(t *testing.T) {
	withSemaphore(t)
	ctx := context.Background()

	source := openStore(t, t.TempDir(), "source.duckdb")
	dest := openStore(t, t.TempDir(), "dest.duckdb")

	require.NoError(t, source.Users.SaveUser(ctx, source.Conn(), map[string]interface{}{
		"USERNAME": "dup_user",
		"ACTIVE":   true,
	}))
	require.NoError(t, dest.Users.SaveUser(ctx, dest.Conn(), map[string]interface{}{
		"USERNAME": "dup_user",
		"ACTIVE":   false,
	}))

	report, err := Merge(ctx, dest, []Cursor{{Source: source, Table: "USERS"}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped["USERS"])

	rows, err := dest.Users.Get(ctx, dest.Conn(), "dup_user")
	require.NoError(t, err)
	assert.Equal(t, false, rows[0]["ACTIVE"])
}

func TestMergeRejectsVersionMismatch(t *testing.T) {
	withSemaphore(t)
	ctx := context.Background()

	source := openStore(t, t.TempDir(), "source.duckdb")
	dest := openStore(t, t.TempDir(), "dest.duckdb")
	require.NoError(t, source.Settings.SetVersion(ctx, source.Conn(), "1.0"))

	_, err := Merge(ctx, dest, []Cursor{{Source: source, Table: "USERS"}}, Options{})
	require.Error(t, err)
}

func TestMergeRejectsCursorOnDestinationItself(t *testing.T) {
	withSemaphore(t)
	ctx := context.Background()
	dest := openStore(t, t.TempDir(), "dest.duckdb")

	_, err := Merge(ctx, dest, []Cursor{{Source: dest, Table: "USERS"}}, Options{})
	require.Error(t, err)
}
