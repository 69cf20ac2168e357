// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

// Package merge implements cross-database transfer into an already
// formatted destination store: a sequence of source cursors each
// naming one of the six canonical tables, checked against six
// preconditions before a single row is written.
package merge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/tomtom215/repovault/internal/dberrors"
	"github.com/tomtom215/repovault/internal/filestore"
	"github.com/tomtom215/repovault/internal/logging"
	"github.com/tomtom215/repovault/internal/schema"
	"github.com/tomtom215/repovault/internal/store"
)

// Cursor names one source table to merge into the destination: Source
// is the open database it lives in, Table is one of the six canonical
// table names (USERS, SUBMISSIONS, JOURNALS, COMMENTS, SETTINGS,
// HISTORY).
type Cursor struct {
	Source *store.Database
	Table  string
}

// Options controls per-row conflict behaviour.
type Options struct {
	// Replace overwrites an existing destination row with the same key.
	Replace bool
	// ExistsOK suppresses the unique-constraint error a plain insert
	// would raise when a row's key collides and Replace is false — the
	// row is silently skipped rather than failing the whole merge.
	ExistsOK bool
}

// Report summarises one Merge call.
type Report struct {
	Inserted map[string]int
	Skipped  map[string]int
	Messages []string
}

// Merge validates every precondition up front, then transfers each
// cursor's rows into dest, table by table.
func Merge(ctx context.Context, dest *store.Database, cursors []Cursor, opts Options) (*Report, error) {
	if err := checkPreconditions(ctx, dest, cursors); err != nil {
		return nil, err
	}

	report := &Report{Inserted: map[string]int{}, Skipped: map[string]int{}}
	correlation := uuid.NewString()[:8]

	for _, cursor := range cursors {
		destTable, err := tableFor(dest, cursor.Table)
		if err != nil {
			return report, err
		}
		srcTable, err := tableFor(cursor.Source, cursor.Table)
		if err != nil {
			return report, err
		}

		if err := checkColumnsEqual(destTable, srcTable, cursor.Table); err != nil {
			return report, err
		}

		rows, err := srcTable.Iter(ctx, cursor.Source.Conn())
		if err != nil {
			return report, dberrors.Wrap(dberrors.KindDatabase, "merge.Merge", "%s: %v", cursor.Table, err)
		}

		for _, row := range rows {
			inserted, err := mergeRow(ctx, dest, cursor, destTable, row, opts)
			if err != nil {
				return report, err
			}
			if inserted {
				report.Inserted[cursor.Table]++
			} else {
				report.Skipped[cursor.Table]++
			}
		}

		logging.Info().Str("table", cursor.Table).Str("correlation", correlation).
			Int("inserted", report.Inserted[cursor.Table]).Int("skipped", report.Skipped[cursor.Table]).
			Msg("merge cursor complete")
		report.Messages = append(report.Messages,
			fmt.Sprintf("%s: %d inserted, %d skipped", cursor.Table, report.Inserted[cursor.Table], report.Skipped[cursor.Table]))
	}

	return report, nil
}

// mergeRow applies the skip/replace/submission-file-copy rules for one
// source row against the destination table.
func mergeRow(ctx context.Context, dest *store.Database, cursor Cursor, destTable *schema.Table, row schema.Entry, opts Options) (bool, error) {
	key, err := primaryKeyValue(destTable, row)
	if err != nil {
		return false, err
	}

	existing, err := destTable.Get(ctx, dest.Conn(), key)
	if err != nil {
		return false, dberrors.Wrap(dberrors.KindDatabase, "merge.mergeRow", "%s: %v", cursor.Table, err)
	}
	if len(existing) > 0 && !opts.Replace {
		return false, nil
	}

	mode := schema.InsertDefault
	if opts.Replace {
		mode = schema.InsertReplace
	} else if opts.ExistsOK {
		mode = schema.InsertIgnore
	}

	if cursor.Table == "SUBMISSIONS" {
		return true, mergeSubmission(ctx, dest, cursor.Source, row, mode)
	}

	if err := destTable.Insert(ctx, dest.Conn(), row, mode); err != nil {
		return false, dberrors.Wrap(dberrors.KindDatabase, "merge.mergeRow", "%s: %v", cursor.Table, err)
	}
	return true, nil
}

// mergeSubmission copies the source's on-disk file tree for this
// submission into the destination's files_folder (non-overwriting),
// then re-saves the row through SaveSubmission using the payloads read
// back from disk, so FILEEXT/FILESAVED are recomputed against whatever
// actually made it across.
func mergeSubmission(ctx context.Context, dest, source *store.Database, row schema.Entry, mode schema.InsertMode) error {
	id := toInt64(row["ID"])

	srcFolder, err := source.FilesFolder(ctx)
	if err != nil {
		return err
	}
	destFolder, err := dest.FilesFolder(ctx)
	if err != nil {
		return err
	}

	srcDir := filestore.SubmissionDir(srcFolder, id)
	destDir := filestore.SubmissionDir(destFolder, id)
	if err := copyTreeNonOverwriting(srcDir, destDir); err != nil {
		return err
	}

	fileext, _ := row["FILEEXT"].([]string)
	filesaved := toInt64(row["FILESAVED"])
	paths, thumbPath := filestore.SubmissionFiles(destFolder, id, filesaved, fileext)

	var files [][]byte
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return dberrors.Wrap(dberrors.KindIO, "merge.mergeSubmission", "%v", err)
		}
		files = append(files, data)
	}
	var thumbnail []byte
	if thumbPath != "" {
		data, err := os.ReadFile(thumbPath)
		if err != nil {
			return dberrors.Wrap(dberrors.KindIO, "merge.mergeSubmission", "%v", err)
		}
		thumbnail = data
	}

	return dest.Submissions.SaveSubmission(ctx, dest.Conn(), destFolder, row, files, thumbnail, mode)
}

// copyTreeNonOverwriting copies every file directly inside src into dst
// (subdirectories are skipped, not descended), creating dst as needed; a
// file that already exists at the destination is left untouched.
func copyTreeNonOverwriting(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return dberrors.Wrap(dberrors.KindIO, "merge.copyTreeNonOverwriting", "%v", err)
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return dberrors.Wrap(dberrors.KindIO, "merge.copyTreeNonOverwriting", "%v", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		destPath := filepath.Join(dst, entry.Name())
		if _, err := os.Stat(destPath); err == nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(src, entry.Name()))
		if err != nil {
			return dberrors.Wrap(dberrors.KindIO, "merge.copyTreeNonOverwriting", "%v", err)
		}
		if err := os.WriteFile(destPath, data, 0o644); err != nil {
			return dberrors.Wrap(dberrors.KindIO, "merge.copyTreeNonOverwriting", "%v", err)
		}
	}
	return nil
}

func primaryKeyValue(t *schema.Table, row schema.Entry) (interface{}, error) {
	if len(t.PrimaryKey) == 1 {
		v, ok := row[t.PrimaryKey[0]]
		if !ok {
			return nil, dberrors.Wrap(dberrors.KindKey, "merge.primaryKeyValue", "%s: row missing primary key %s", t.Name, t.PrimaryKey[0])
		}
		return v, nil
	}
	key := make(map[string]interface{}, len(t.PrimaryKey))
	for _, name := range t.PrimaryKey {
		v, ok := row[name]
		if !ok {
			return nil, dberrors.Wrap(dberrors.KindKey, "merge.primaryKeyValue", "%s: row missing primary key %s", t.Name, name)
		}
		key[name] = v
	}
	return key, nil
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

func checkColumnsEqual(dest, src *schema.Table, tableName string) error {
	destCols := columnNames(dest)
	srcCols := columnNames(src)
	if len(destCols) != len(srcCols) {
		return dberrors.Wrap(dberrors.KindSchema, "merge.checkColumnsEqual", "%s: column sets differ", tableName)
	}
	for i := range destCols {
		if destCols[i] != srcCols[i] {
			return dberrors.Wrap(dberrors.KindSchema, "merge.checkColumnsEqual", "%s: column sets differ", tableName)
		}
	}
	return nil
}

func columnNames(t *schema.Table) []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	sort.Strings(names)
	return names
}
