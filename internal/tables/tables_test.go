// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package tables

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/repovault/internal/schema"
)

var testDBSemaphore = make(chan struct{}, 1)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	db, err := sql.Open("duckdb", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUsersTableSaveAndSetActive(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	users := NewUsersTable()
	require.NoError(t, users.Create(ctx, db))

	require.NoError(t, users.SaveUser(ctx, db, map[string]interface{}{
		"USERNAME": "Artist_A",
		"ACTIVE":   true,
	}))

	changed, err := users.SetActive(ctx, db, "artist_a", false)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = users.SetActive(ctx, db, "artist_a", false)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestSubmissionsSaveAndFavorite(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	subs := NewSubmissionsTable()
	require.NoError(t, subs.Create(ctx, db))

	dir := t.TempDir()
	require.NoError(t, subs.SaveSubmission(ctx, db, dir, map[string]interface{}{
		"ID":      int64(1),
		"AUTHOR":  "Artist_A",
		"TITLE":   "t",
		"FILEURL": []string{"https://x/y.png"},
		"FOLDER":  "gallery",
		"TYPE":    "image",
	}, [][]byte{[]byte("PNG...")}, []byte("JPG..."), schema.InsertDefault))

	rows, err := subs.Get(ctx, db, int64(1))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(7), rows[0]["FILESAVED"])

	files, thumb, err := subs.GetSubmissionFiles(ctx, db, dir, 1)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.NotEmpty(t, thumb)

	changed, err := subs.AddFavorite(ctx, db, 1, "Bob")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = subs.AddFavorite(ctx, db, 1, "bob")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = subs.RemoveFavorite(ctx, db, 1, "BOB")
	require.NoError(t, err)
	assert.True(t, changed)

	rows, err = subs.Get(ctx, db, int64(1))
	require.NoError(t, err)
	assert.Empty(t, rows[0]["FAVORITE"])
}

func TestCommentsTree(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	comments := NewCommentsTable()
	require.NoError(t, comments.Create(ctx, db))

	for _, c := range []map[string]interface{}{
		{"ID": int64(1), "PARENT_TABLE": "SUBMISSIONS", "PARENT_ID": int64(1), "REPLY_TO": int64(0), "AUTHOR": "u", "TEXT": "root"},
		{"ID": int64(2), "PARENT_TABLE": "SUBMISSIONS", "PARENT_ID": int64(1), "REPLY_TO": int64(1), "AUTHOR": "u", "TEXT": "child"},
		{"ID": int64(3), "PARENT_TABLE": "SUBMISSIONS", "PARENT_ID": int64(1), "REPLY_TO": int64(2), "AUTHOR": "u", "TEXT": "grandchild"},
	} {
		require.NoError(t, comments.SaveComment(ctx, db, c, schema.InsertDefault))
	}

	tree, err := comments.GetCommentsTree(ctx, db, "SUBMISSIONS", 1)
	require.NoError(t, err)
	require.Len(t, tree, 1)

	replies, ok := tree[0]["REPLIES"].([]schema.Entry)
	require.True(t, ok)
	require.Len(t, replies, 1)

	grandReplies, ok := replies[0]["REPLIES"].([]schema.Entry)
	require.True(t, ok)
	require.Len(t, grandReplies, 1)
}

func TestSettingsEnsureInitialized(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	settings := NewSettingsTable()
	require.NoError(t, settings.Create(ctx, db))

	require.NoError(t, settings.EnsureInitialized(ctx, db, "files", "5.4"))

	v, found, err := settings.Version(ctx, db)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "5.4", v)

	require.NoError(t, settings.SetBBCode(ctx, db, true))
	b, found, err := settings.BBCode(ctx, db)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, b)
}

func TestHistoryIterationOrder(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	history := NewHistoryTable()
	require.NoError(t, history.Create(ctx, db))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, history.AddEvent(ctx, db, "second", base.Add(2*time.Second)))
	require.NoError(t, history.AddEvent(ctx, db, "first", base.Add(1*time.Second)))

	rows, err := history.Iter(ctx, db)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "first", rows[0]["EVENT"])
	assert.Equal(t, "second", rows[1]["EVENT"])
}
