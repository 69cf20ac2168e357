// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package migrate

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/repovault/internal/codec"
)

func TestUpgradeRejectsBelowMinSupportedVersion(t *testing.T) {
	ctx := context.Background()
	_, _, err := Upgrade(ctx, filepath.Join(t.TempDir(), "repo.duckdb"), "4.0", "5.4")
	require.Error(t, err)
}

func TestUpgradeRejectsUnknownTarget(t *testing.T) {
	ctx := context.Background()
	path := seedLegacyStore(t, ctx)
	_, _, err := Upgrade(ctx, path, "4.19", "9.9")
	require.Error(t, err)
}

func TestUpgradeFullChain(t *testing.T) {
	ctx := context.Background()
	path := seedLegacyStore(t, ctx)

	finalPath, messages, err := Upgrade(ctx, path, "4.19", "5.4")
	require.NoError(t, err)
	assert.Equal(t, path, finalPath)
	assert.NotEmpty(t, messages)

	conn, err := sql.Open("duckdb", finalPath)
	require.NoError(t, err)
	defer conn.Close()

	var version string
	require.NoError(t, conn.QueryRowContext(ctx,
		"select SVALUE from SETTINGS where SETTING = 'VERSION'").Scan(&version))
	assert.Equal(t, "5.4", version)

	// ACTIVE is derived from a "!"-prefixed FOLDERS entry, which is then
	// stripped; a user with no such entry is left inactive.
	var aliceFolders string
	var aliceActive bool
	require.NoError(t, conn.QueryRowContext(ctx,
		"select FOLDERS, ACTIVE from USERS where USERNAME = 'alice'").Scan(&aliceFolders, &aliceActive))
	assert.True(t, aliceActive)
	assert.ElementsMatch(t, []string{"gallery", "premium"}, codec.ParseSet(aliceFolders))

	var bobActive bool
	require.NoError(t, conn.QueryRowContext(ctx,
		"select ACTIVE from USERS where USERNAME = 'bob'").Scan(&bobActive))
	assert.False(t, bobActive)

	// FAVORITE is filtered down to users who actually list a "favorites"
	// folder — alice does not, bob does.
	var favorite, fileext, tags, category, footer, description string
	var filesaved int64
	require.NoError(t, conn.QueryRowContext(ctx, `
		select FAVORITE, FILEEXT, TAGS, CATEGORY, FOOTER, DESCRIPTION, FILESAVED
		from SUBMISSIONS where ID = 1
	`).Scan(&favorite, &fileext, &tags, &category, &footer, &description, &filesaved))

	assert.Equal(t, []string{"bob"}, codec.ParseSet(favorite))
	assert.Equal(t, []string{"png"}, codec.ParseList(fileext), "FILEEXT's pipe-wrap leak must be cleaned up")
	assert.ElementsMatch(t, []string{"wolf", "canine"}, codec.ParseList(tags), "untouched columns survive every hop")
	assert.Equal(t, "mammal / canine", category)
	assert.Equal(t, int64(7), filesaved, "legacy all-files-saved bit widens to both any+all bits")
	assert.Contains(t, footer, "submission-footer")
	assert.NotContains(t, description, "submission-footer")

	// JOURNALS gains empty HEADER/FOOTER and collapses CONTENT whitespace.
	var header, journalFooter, content string
	require.NoError(t, conn.QueryRowContext(ctx,
		"select HEADER, FOOTER, CONTENT from JOURNALS where ID = 1").Scan(&header, &journalFooter, &content))
	assert.Equal(t, "", header)
	assert.Equal(t, "", journalFooter)
	assert.NotContains(t, content, "  ")

	// The legacy HISTORY_JSON blob became real HISTORY rows.
	var historyCount int
	require.NoError(t, conn.QueryRowContext(ctx, "select count(*) from HISTORY").Scan(&historyCount))
	assert.Equal(t, 1, historyCount)

	// COMMENTS never changes shape and is copied verbatim at every hop.
	var commentText string
	require.NoError(t, conn.QueryRowContext(ctx, "select TEXT from COMMENTS where ID = 1").Scan(&commentText))
	assert.Equal(t, "nice!", commentText)
}

// seedLegacyStore builds a file at a pre-5.0 (v4.19) schema shape —
// no FOOTER, SAVED instead of FILESAVED, USERS without ACTIVE, and
// JOURNALS without HEADER/FOOTER — seeded with rows exercising every
// hop's transform, then returns its path.
func seedLegacyStore(t *testing.T, ctx context.Context) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "legacy.duckdb")
	conn, err := sql.Open("duckdb", path)
	require.NoError(t, err)
	defer conn.Close()

	ddl := []string{
		`create table USERS (USERNAME text not null, FOLDERS text, USERPAGE text)`,
		`create table SUBMISSIONS (
			ID integer not null, AUTHOR text not null, TITLE text, DATE date, DESCRIPTION text,
			TAGS text, CATEGORY text, SPECIES text, GENDER text, RATING text, TYPE text,
			FILEURL text, FILEEXT text, SAVED integer, FAVORITE text, MENTIONS text,
			FOLDER text, USERUPDATE integer)`,
		`create table JOURNALS (
			ID integer not null, AUTHOR text not null, TITLE text, DATE date, CONTENT text,
			MENTIONS text, USERUPDATE integer)`,
		`create table COMMENTS (
			ID integer not null, PARENT_TABLE text not null, PARENT_ID integer not null,
			REPLY_TO integer not null, AUTHOR text not null, DATE timestamp, TEXT text not null)`,
		`create table SETTINGS (SETTING text not null, SVALUE text)`,
	}
	for _, stmt := range ddl {
		_, err := conn.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}

	type insert struct {
		query string
		args  []interface{}
	}
	inserts := []insert{
		{"insert into USERS (USERNAME, FOLDERS, USERPAGE) values (?, ?, ?)",
			[]interface{}{"alice", "|gallery||!premium|", ""}},
		{"insert into USERS (USERNAME, FOLDERS, USERPAGE) values (?, ?, ?)",
			[]interface{}{"bob", "|favorites|", ""}},
		{`insert into SUBMISSIONS (
				ID, AUTHOR, TITLE, DATE, DESCRIPTION, TAGS, CATEGORY, SPECIES, GENDER,
				RATING, TYPE, FILEURL, FILEEXT, SAVED, FAVORITE, MENTIONS, FOLDER, USERUPDATE
			) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			[]interface{}{
				int64(1), "alice", "A wolf", "2024-01-01",
				`<p>hello</p><div class="submission-footer">thanks for viewing</div>`,
				"|wolf||canine|", "mammal/ canine", "canine", "male", "general", "image",
				"|http://example.com/pic.png|", "|png|", int64(11),
				"|alice||bob|", "", "gallery", int64(0),
			}},
		{`insert into JOURNALS (ID, AUTHOR, TITLE, DATE, CONTENT, MENTIONS, USERUPDATE) values
			(?, ?, ?, ?, ?, ?, ?)`,
			[]interface{}{int64(1), "alice", "Update", "2024-01-02", "hello   world", "", int64(0)}},
		{`insert into COMMENTS (ID, PARENT_TABLE, PARENT_ID, REPLY_TO, AUTHOR, DATE, TEXT) values
			(?, ?, ?, ?, ?, ?, ?)`,
			[]interface{}{int64(1), "SUBMISSIONS", int64(1), int64(0), "bob", "2024-01-03", "nice!"}},
		{"insert into SETTINGS (SETTING, SVALUE) values (?, ?)", []interface{}{"VERSION", "4.19"}},
		{"insert into SETTINGS (SETTING, SVALUE) values (?, ?)", []interface{}{"FILESFOLDER", "/data/files"}},
		{"insert into SETTINGS (SETTING, SVALUE) values (?, ?)",
			[]interface{}{"HISTORY_JSON", `[{"time":"2024-01-01 00:00:00","event":"created"}]`}},
	}
	for _, ins := range inserts {
		_, err := conn.ExecContext(ctx, ins.query, ins.args...)
		require.NoError(t, err)
	}

	return path
}
