// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/repovault/internal/codec"
	"github.com/tomtom215/repovault/internal/dberrors"
	"github.com/tomtom215/repovault/internal/tables"
)

// createSchemaCopy opens its own connection to newPath (creating the
// file) and issues every domain table's DDL against it, then closes
// the connection — the step that builds the destination schema at
// new_path before any rows are copied.
func createSchemaCopy(ctx context.Context, _ *sql.DB, newPath string) error {
	dst, err := sql.Open("duckdb", newPath)
	if err != nil {
		return dberrors.Wrap(dberrors.KindDatabase, "migrate.createSchemaCopy", "%v", err)
	}
	defer dst.Close()

	for _, create := range []func() error{
		func() error { return tables.NewUsersTable().Create(ctx, dst) },
		func() error { return tables.NewSubmissionsTable().Create(ctx, dst) },
		func() error { return tables.NewJournalsTable().Create(ctx, dst) },
		func() error { return tables.NewCommentsTable().Create(ctx, dst) },
		func() error { return tables.NewSettingsTable().Create(ctx, dst) },
		func() error { return tables.NewHistoryTable().Create(ctx, dst) },
	} {
		if err := create(); err != nil {
			return err
		}
	}
	return nil
}

// copyTablesVerbatim copies every table in names into db_new unchanged
// via `select *`, used by hops whose transform touches only a subset
// of the six tables — valid ONLY for tables whose column set at this
// hop already matches db_new's (always-current) schema. USERS before
// 5.1 and JOURNALS before 5.4 have fewer columns than db_new and must
// go through copyUsersLegacy/copyJournalsLegacy instead.
func copyTablesVerbatim(ctx context.Context, conn *sql.DB, names []string) error {
	for _, name := range names {
		if _, err := conn.ExecContext(ctx, fmt.Sprintf("insert into db_new.%s select * from %s", name, name)); err != nil {
			return dberrors.Wrap(dberrors.KindDatabase, "migrate.copyTablesVerbatim", "%s: %v", name, err)
		}
	}
	return nil
}

// copyUsersLegacy copies USERS rows from a pre-5.1 source (no ACTIVE
// column) into db_new's current four-column schema, defaulting ACTIVE
// to false.
func copyUsersLegacy(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, `
		insert into db_new.USERS (USERNAME, FOLDERS, ACTIVE, USERPAGE)
		select USERNAME, FOLDERS, false, USERPAGE from USERS
	`); err != nil {
		return dberrors.Wrap(dberrors.KindDatabase, "migrate.copyUsersLegacy", "%v", err)
	}
	return nil
}

// copyJournalsLegacy copies JOURNALS rows from a pre-5.4 source (no
// HEADER/FOOTER columns) into db_new's current nine-column schema,
// defaulting both to empty.
func copyJournalsLegacy(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, `
		insert into db_new.JOURNALS (ID, AUTHOR, TITLE, DATE, CONTENT, HEADER, FOOTER, MENTIONS, USERUPDATE)
		select ID, AUTHOR, TITLE, DATE, CONTENT, '', '', MENTIONS, USERUPDATE from JOURNALS
	`); err != nil {
		return dberrors.Wrap(dberrors.KindDatabase, "migrate.copyJournalsLegacy", "%v", err)
	}
	return nil
}

// List/set columns (TAGS, FILEURL, FILEEXT, FAVORITE, MENTIONS, FOLDERS)
// round-trip through the pipe-delimited text encoding internal/codec
// uses on disk (`|e1||e2||...||en|`), not a native DuckDB LIST — so every
// step below that touches one decodes/transforms/re-encodes it in Go via
// codec.ParseList/FormatList/FormatSet rather than DuckDB list functions,
// which would silently no-op against a text column.

// step419To50 derives FILESAVED from the old combined SAVED integer
// (bit1 set when SAVED >= 10, bit0 set when SAVED mod 10 == 1) and
// moves the old HISTORY_JSON blob into a proper HISTORY table.
func step419To50(ctx context.Context, conn *sql.DB, oldPath, newPath string) ([]string, error) {
	if err := createSchemaCopy(ctx, conn, newPath); err != nil {
		return nil, err
	}
	if err := attachNew(ctx, conn, newPath); err != nil {
		return nil, err
	}
	defer detachNew(ctx, conn)

	if err := copyTablesVerbatim(ctx, conn, []string{"COMMENTS", "SETTINGS"}); err != nil {
		return nil, err
	}
	if err := copyUsersLegacy(ctx, conn); err != nil {
		return nil, err
	}
	if err := copyJournalsLegacy(ctx, conn); err != nil {
		return nil, err
	}

	res, err := conn.ExecContext(ctx, `
		insert into db_new.SUBMISSIONS
		select ID, AUTHOR, TITLE, DATE, DESCRIPTION, '' as FOOTER, TAGS, CATEGORY, SPECIES,
		       GENDER, RATING, TYPE, FILEURL, FILEEXT,
		       (case when SAVED >= 10 then 2 else 0 end) | (case when SAVED % 10 = 1 then 1 else 0 end) as FILESAVED,
		       FAVORITE, MENTIONS, FOLDER, USERUPDATE
		from SUBMISSIONS
	`)
	if err != nil {
		return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step419To50", "SUBMISSIONS: %v", err)
	}
	n, _ := res.RowsAffected()

	histCount, err := migrateHistoryJSON(ctx, conn)
	if err != nil {
		return nil, err
	}

	return []string{
		fmt.Sprintf("%d submissions migrated with derived FILESAVED", n),
		fmt.Sprintf("%d history events moved into HISTORY table", histCount),
	}, nil
}

// migrateHistoryJSON reads the HISTORY_JSON array stored in
// SETTINGS.SVALUE (a genuine JSON array, unrelated to the pipe-delimited
// list encoding the domain columns use) and inserts one HISTORY row per
// element.
func migrateHistoryJSON(ctx context.Context, conn *sql.DB) (int64, error) {
	var blob sql.NullString
	row := conn.QueryRowContext(ctx, "select SVALUE from SETTINGS where SETTING = 'HISTORY_JSON'")
	if err := row.Scan(&blob); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, dberrors.Wrap(dberrors.KindDatabase, "migrate.migrateHistoryJSON", "%v", err)
	}
	if !blob.Valid || blob.String == "" {
		return 0, nil
	}

	rows, err := conn.QueryContext(ctx,
		"select unnest(json_extract_string(?, '$[*].time')), unnest(json_extract_string(?, '$[*].event'))",
		blob.String, blob.String)
	if err != nil {
		return 0, dberrors.Wrap(dberrors.KindDatabase, "migrate.migrateHistoryJSON", "%v", err)
	}
	defer rows.Close()

	var count int64
	for rows.Next() {
		var t, event string
		if err := rows.Scan(&t, &event); err != nil {
			return count, dberrors.Wrap(dberrors.KindDatabase, "migrate.migrateHistoryJSON", "%v", err)
		}
		if _, err := conn.ExecContext(ctx, "insert into db_new.HISTORY (TIME, EVENT) values (?, ?)", t, event); err != nil {
			return count, dberrors.Wrap(dberrors.KindDatabase, "migrate.migrateHistoryJSON", "insert: %v", err)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return count, dberrors.Wrap(dberrors.KindDatabase, "migrate.migrateHistoryJSON", "%v", err)
	}
	return count, nil
}

// step50To5010 filters FAVORITE entries on each submission to retain
// only users who currently list the "favorites" folder.
func step50To5010(ctx context.Context, conn *sql.DB, oldPath, newPath string) ([]string, error) {
	if err := createSchemaCopy(ctx, conn, newPath); err != nil {
		return nil, err
	}
	if err := attachNew(ctx, conn, newPath); err != nil {
		return nil, err
	}
	defer detachNew(ctx, conn)

	if err := copyTablesVerbatim(ctx, conn, []string{"COMMENTS", "SETTINGS", "HISTORY"}); err != nil {
		return nil, err
	}
	if err := copyUsersLegacy(ctx, conn); err != nil {
		return nil, err
	}
	if err := copyJournalsLegacy(ctx, conn); err != nil {
		return nil, err
	}

	favoritesFolder := make(map[string]bool)
	userRows, err := conn.QueryContext(ctx, "select USERNAME, FOLDERS from USERS")
	if err != nil {
		return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step50To5010", "USERS: %v", err)
	}
	for userRows.Next() {
		var username, folders string
		if err := userRows.Scan(&username, &folders); err != nil {
			userRows.Close()
			return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step50To5010", "%v", err)
		}
		for _, f := range codec.ParseSet(folders) {
			if strings.EqualFold(f, "favorites") {
				favoritesFolder[username] = true
				break
			}
		}
	}
	userRows.Close()
	if err := userRows.Err(); err != nil {
		return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step50To5010", "%v", err)
	}

	subRows, err := conn.QueryContext(ctx, "select ID, FAVORITE from SUBMISSIONS")
	if err != nil {
		return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step50To5010", "SUBMISSIONS: %v", err)
	}
	type pending struct {
		id       int64
		favorite string
	}
	var pendings []pending
	for subRows.Next() {
		var id int64
		var favorite string
		if err := subRows.Scan(&id, &favorite); err != nil {
			subRows.Close()
			return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step50To5010", "%v", err)
		}
		var kept []string
		for _, u := range codec.ParseSet(favorite) {
			if favoritesFolder[u] {
				kept = append(kept, u)
			}
		}
		pendings = append(pendings, pending{id: id, favorite: codec.FormatSet(kept)})
	}
	subRows.Close()
	if err := subRows.Err(); err != nil {
		return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step50To5010", "%v", err)
	}

	for _, p := range pendings {
		if _, err := conn.ExecContext(ctx, `
			insert into db_new.SUBMISSIONS
			select ID, AUTHOR, TITLE, DATE, DESCRIPTION, FOOTER, TAGS, CATEGORY, SPECIES, GENDER,
			       RATING, TYPE, FILEURL, FILEEXT, FILESAVED, ? as FAVORITE, MENTIONS, FOLDER, USERUPDATE
			from SUBMISSIONS where ID = ?
		`, p.favorite, p.id); err != nil {
			return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step50To5010", "insert %d: %v", p.id, err)
		}
	}

	return []string{fmt.Sprintf("%d submissions' favorites filtered", len(pendings))}, nil
}

// step5010To51 derives USERS.ACTIVE from a "!" prefix on one of a user's
// FOLDERS entries, then strips that prefix from the stored folder name.
func step5010To51(ctx context.Context, conn *sql.DB, oldPath, newPath string) ([]string, error) {
	if err := createSchemaCopy(ctx, conn, newPath); err != nil {
		return nil, err
	}
	if err := attachNew(ctx, conn, newPath); err != nil {
		return nil, err
	}
	defer detachNew(ctx, conn)

	if err := copyTablesVerbatim(ctx, conn, []string{"SUBMISSIONS", "COMMENTS", "SETTINGS", "HISTORY"}); err != nil {
		return nil, err
	}
	if err := copyJournalsLegacy(ctx, conn); err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, "select USERNAME, FOLDERS, USERPAGE from USERS")
	if err != nil {
		return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step5010To51", "%v", err)
	}
	type pending struct {
		username string
		folders  string
		active   bool
	}
	var pendings []pending
	for rows.Next() {
		var username, folders, userpage string
		if err := rows.Scan(&username, &folders, &userpage); err != nil {
			rows.Close()
			return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step5010To51", "%v", err)
		}
		old := codec.ParseSet(folders)
		active := false
		stripped := make([]string, len(old))
		for i, f := range old {
			if strings.HasPrefix(f, "!") {
				active = true
				stripped[i] = strings.TrimPrefix(f, "!")
			} else {
				stripped[i] = f
			}
		}
		pendings = append(pendings, pending{username: username, folders: codec.FormatSet(stripped), active: active})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step5010To51", "%v", err)
	}

	for _, p := range pendings {
		activeVal := int64(0)
		if p.active {
			activeVal = 1
		}
		if _, err := conn.ExecContext(ctx, `
			insert into db_new.USERS (USERNAME, FOLDERS, ACTIVE, USERPAGE)
			select USERNAME, ?, ?, USERPAGE from USERS where USERNAME = ?
		`, p.folders, activeVal, p.username); err != nil {
			return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step5010To51", "insert %s: %v", p.username, err)
		}
	}

	return []string{fmt.Sprintf("%d users' ACTIVE derived from FOLDERS", len(pendings))}, nil
}

// step51To512 normalises spacing around '/' in CATEGORY and SPECIES —
// plain text columns, so a single SQL regexp_replace suffices.
func step51To512(ctx context.Context, conn *sql.DB, oldPath, newPath string) ([]string, error) {
	if err := createSchemaCopy(ctx, conn, newPath); err != nil {
		return nil, err
	}
	if err := attachNew(ctx, conn, newPath); err != nil {
		return nil, err
	}
	defer detachNew(ctx, conn)

	if err := copyTablesVerbatim(ctx, conn, []string{"USERS", "COMMENTS", "SETTINGS", "HISTORY"}); err != nil {
		return nil, err
	}
	if err := copyJournalsLegacy(ctx, conn); err != nil {
		return nil, err
	}

	res, err := conn.ExecContext(ctx, `
		insert into db_new.SUBMISSIONS
		select ID, AUTHOR, TITLE, DATE, DESCRIPTION, FOOTER, TAGS,
		       trim(regexp_replace(CATEGORY, '\s*/\s*', ' / ', 'g')) as CATEGORY,
		       trim(regexp_replace(SPECIES, '\s*/\s*', ' / ', 'g')) as SPECIES,
		       GENDER, RATING, TYPE, FILEURL, FILEEXT, FILESAVED, FAVORITE, MENTIONS, FOLDER, USERUPDATE
		from SUBMISSIONS
	`)
	if err != nil {
		return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step51To512", "%v", err)
	}
	n, _ := res.RowsAffected()
	return []string{fmt.Sprintf("%d submissions' CATEGORY/SPECIES spacing normalised", n)}, nil
}

// step522To53 re-wraps each FILEURL/FILEEXT list entry with an extra
// pair of pipe delimiters (a storage-format change later steps correct)
// and widens FILESAVED from its legacy two-bit encoding (bit0 thumbnail,
// bit1 all-files-saved) to the current three-bit one used by
// internal/filestore.FilesaveBits (bit0 thumbnail, bit1 any file, bit2
// all files) — the legacy scheme never distinguished "any" from "all",
// so a set all-files bit implies both of the new scheme's file bits.
func step522To53(ctx context.Context, conn *sql.DB, oldPath, newPath string) ([]string, error) {
	if err := createSchemaCopy(ctx, conn, newPath); err != nil {
		return nil, err
	}
	if err := attachNew(ctx, conn, newPath); err != nil {
		return nil, err
	}
	defer detachNew(ctx, conn)

	if err := copyTablesVerbatim(ctx, conn, []string{"USERS", "COMMENTS", "SETTINGS", "HISTORY"}); err != nil {
		return nil, err
	}
	if err := copyJournalsLegacy(ctx, conn); err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, "select ID, FILEURL, FILEEXT, FILESAVED from SUBMISSIONS")
	if err != nil {
		return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step522To53", "%v", err)
	}
	type pending struct {
		id        int64
		fileurl   string
		fileext   string
		filesaved int64
	}
	var pendings []pending
	for rows.Next() {
		var id, filesaved int64
		var fileurl, fileext string
		if err := rows.Scan(&id, &fileurl, &fileext, &filesaved); err != nil {
			rows.Close()
			return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step522To53", "%v", err)
		}
		pendings = append(pendings, pending{
			id:        id,
			fileurl:   codec.FormatList(wrapPipes(codec.ParseList(fileurl))),
			fileext:   codec.FormatList(wrapPipes(codec.ParseList(fileext))),
			filesaved: widenFilesaved(filesaved),
		})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step522To53", "%v", err)
	}

	for _, p := range pendings {
		if _, err := conn.ExecContext(ctx, `
			insert into db_new.SUBMISSIONS
			select ID, AUTHOR, TITLE, DATE, DESCRIPTION, FOOTER, TAGS, CATEGORY, SPECIES, GENDER, RATING, TYPE,
			       ? as FILEURL, ? as FILEEXT, ? as FILESAVED, FAVORITE, MENTIONS, FOLDER, USERUPDATE
			from SUBMISSIONS where ID = ?
		`, p.fileurl, p.fileext, p.filesaved, p.id); err != nil {
			return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step522To53", "insert %d: %v", p.id, err)
		}
	}

	return []string{fmt.Sprintf("%d submissions re-encoded to the 3-bit FILESAVED scheme", len(pendings))}, nil
}

// widenFilesaved converts the legacy two-bit FILESAVED (bit0 thumbnail,
// bit1 all-files-saved) into the current three-bit scheme (bit0
// thumbnail, bit1 any file, bit2 all files).
func widenFilesaved(legacy int64) int64 {
	widened := legacy & 1
	if legacy&2 != 0 {
		widened |= 2 | 4
	}
	return widened
}

func wrapPipes(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = "|" + v + "|"
	}
	return out
}

var pipeLeakPattern = regexp.MustCompile(`\|+`)

// step53To534 fixes FILEEXT entries where step522To53's extra pipe-wrap
// leaked stray pipe characters into the extension text itself.
func step53To534(ctx context.Context, conn *sql.DB, oldPath, newPath string) ([]string, error) {
	if err := createSchemaCopy(ctx, conn, newPath); err != nil {
		return nil, err
	}
	if err := attachNew(ctx, conn, newPath); err != nil {
		return nil, err
	}
	defer detachNew(ctx, conn)

	if err := copyTablesVerbatim(ctx, conn, []string{"USERS", "COMMENTS", "SETTINGS", "HISTORY"}); err != nil {
		return nil, err
	}
	if err := copyJournalsLegacy(ctx, conn); err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, "select ID, FILEEXT from SUBMISSIONS")
	if err != nil {
		return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step53To534", "%v", err)
	}
	type pending struct {
		id      int64
		fileext string
	}
	var pendings []pending
	for rows.Next() {
		var id int64
		var fileext string
		if err := rows.Scan(&id, &fileext); err != nil {
			rows.Close()
			return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step53To534", "%v", err)
		}
		cleaned := make([]string, 0)
		for _, e := range codec.ParseList(fileext) {
			cleaned = append(cleaned, strings.TrimSpace(pipeLeakPattern.ReplaceAllString(e, "")))
		}
		pendings = append(pendings, pending{id: id, fileext: codec.FormatList(cleaned)})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step53To534", "%v", err)
	}

	for _, p := range pendings {
		if _, err := conn.ExecContext(ctx, `
			insert into db_new.SUBMISSIONS
			select ID, AUTHOR, TITLE, DATE, DESCRIPTION, FOOTER, TAGS, CATEGORY, SPECIES, GENDER, RATING, TYPE, FILEURL,
			       ? as FILEEXT, FILESAVED, FAVORITE, MENTIONS, FOLDER, USERUPDATE
			from SUBMISSIONS where ID = ?
		`, p.fileext, p.id); err != nil {
			return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step53To534", "insert %d: %v", p.id, err)
		}
	}

	return []string{fmt.Sprintf("%d submissions' FILEEXT pipe-leaks fixed", len(pendings))}, nil
}

var footerPattern = regexp.MustCompile(`(?is)<div class="[^"]*submission-footer[^"]*">.*?</div>\s*$`)

// step534To54 extracts FOOTER from submissions' DESCRIPTION, adds
// empty HEADER/FOOTER to journals, and normalises HTML whitespace in
// journal CONTENT.
func step534To54(ctx context.Context, conn *sql.DB, oldPath, newPath string) ([]string, error) {
	if err := createSchemaCopy(ctx, conn, newPath); err != nil {
		return nil, err
	}
	if err := attachNew(ctx, conn, newPath); err != nil {
		return nil, err
	}
	defer detachNew(ctx, conn)

	if err := copyTablesVerbatim(ctx, conn, []string{"USERS", "COMMENTS", "SETTINGS", "HISTORY"}); err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, "select ID, DESCRIPTION from SUBMISSIONS")
	if err != nil {
		return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step534To54", "%v", err)
	}
	type pending struct {
		id          int64
		description string
		footer      string
	}
	var fixes []pending
	for rows.Next() {
		var id int64
		var desc string
		if err := rows.Scan(&id, &desc); err != nil {
			rows.Close()
			return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step534To54", "%v", err)
		}
		footer := footerPattern.FindString(desc)
		fixes = append(fixes, pending{id: id, description: footerPattern.ReplaceAllString(desc, ""), footer: footer})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step534To54", "%v", err)
	}

	if _, err := conn.ExecContext(ctx, `
		insert into db_new.SUBMISSIONS
		select ID, AUTHOR, TITLE, DATE, DESCRIPTION, FOOTER, TAGS, CATEGORY, SPECIES, GENDER, RATING, TYPE,
		       FILEURL, FILEEXT, FILESAVED, FAVORITE, MENTIONS, FOLDER, USERUPDATE
		from SUBMISSIONS
	`); err != nil {
		return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step534To54", "%v", err)
	}

	extracted := 0
	for _, f := range fixes {
		if f.footer == "" {
			continue
		}
		if _, err := conn.ExecContext(ctx,
			"update db_new.SUBMISSIONS set DESCRIPTION = ?, FOOTER = ? where ID = ?",
			f.description, f.footer, f.id); err != nil {
			return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step534To54", "update %d: %v", f.id, err)
		}
		extracted++
	}

	res, err := conn.ExecContext(ctx, `
		insert into db_new.JOURNALS
		select ID, AUTHOR, TITLE, DATE, regexp_replace(CONTENT, '\s+', ' ', 'g') as CONTENT,
		       '' as HEADER, '' as FOOTER, MENTIONS, USERUPDATE
		from JOURNALS
	`)
	if err != nil {
		return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step534To54", "JOURNALS: %v", err)
	}
	journalCount, _ := res.RowsAffected()

	if _, err := conn.ExecContext(ctx, "update db_new.SETTINGS set SVALUE = '5.4' where SETTING = 'VERSION'"); err != nil {
		return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.step534To54", "%v", err)
	}

	return []string{
		fmt.Sprintf("%d footers extracted", extracted),
		fmt.Sprintf("%d journals normalised", journalCount),
	}, nil
}
