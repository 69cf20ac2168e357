// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package tables

import (
	"context"
	"path/filepath"

	"github.com/tomtom215/repovault/internal/codec"
	"github.com/tomtom215/repovault/internal/dberrors"
	"github.com/tomtom215/repovault/internal/filestore"
	"github.com/tomtom215/repovault/internal/schema"
)

// SubmissionsTable models SUBMISSIONS: key ID, plus the file-bearing
// save/read behaviours that bridge the row to the on-disk tiered path.
type SubmissionsTable struct {
	*schema.Table
}

// NewSubmissionsTable declares the SUBMISSIONS schema.
func NewSubmissionsTable() *SubmissionsTable {
	t := schema.NewTable("SUBMISSIONS", []schema.Column{
		{Name: "ID", Kind: codec.Int{}, NotNull: true},
		{Name: "AUTHOR", Kind: codec.Text{}, NotNull: true, Check: "length({name}) >= 1"},
		{Name: "TITLE", Kind: codec.Text{}, HasDefault: true, Default: ""},
		{Name: "DATE", Kind: codec.DateTime{Precision: codec.PrecisionDate}},
		{Name: "DESCRIPTION", Kind: codec.Text{}, HasDefault: true, Default: ""},
		{Name: "FOOTER", Kind: codec.Text{}, HasDefault: true, Default: ""},
		{Name: "TAGS", Kind: codec.ListOf{Elem: codec.Text{}}, HasDefault: true, Default: []string{}},
		{Name: "CATEGORY", Kind: codec.Text{}, HasDefault: true, Default: ""},
		{Name: "SPECIES", Kind: codec.Text{}, HasDefault: true, Default: ""},
		{Name: "GENDER", Kind: codec.Text{}, HasDefault: true, Default: ""},
		{Name: "RATING", Kind: codec.Text{}, HasDefault: true, Default: ""},
		{Name: "TYPE", Kind: codec.Text{}, Check: "{name} in ('image','music','text','flash')"},
		{Name: "FILEURL", Kind: codec.ListOf{Elem: codec.Text{}}, HasDefault: true, Default: []string{}},
		{Name: "FILEEXT", Kind: codec.ListOf{Elem: codec.Text{}}, HasDefault: true, Default: []string{}},
		{Name: "FILESAVED", Kind: codec.Int{}, HasDefault: true, Default: int64(0)},
		{Name: "FAVORITE", Kind: codec.SetOf{Elem: codec.Text{}}, HasDefault: true, Default: []string{}},
		{Name: "MENTIONS", Kind: codec.SetOf{Elem: codec.Text{}}, HasDefault: true, Default: []string{}},
		{Name: "FOLDER", Kind: codec.Text{}, Check: "{name} in ('gallery','scraps')"},
		{Name: "USERUPDATE", Kind: codec.Bool{}, HasDefault: true, Default: false},
	}, []string{"ID"}, true)
	return &SubmissionsTable{Table: t}
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

// SaveSubmission writes each non-empty file and the thumbnail under
// filesFolder/tiered_path(ID), derives FILEEXT and FILESAVED, and
// inserts the row per mode.
func (s *SubmissionsTable) SaveSubmission(ctx context.Context, conn schema.Querier, filesFolder string, entry map[string]interface{}, files [][]byte, thumbnail []byte, mode schema.InsertMode) error {
	id, ok := entry["ID"]
	if !ok {
		return dberrors.Wrap(dberrors.KindSchema, "tables.SubmissionsTable.SaveSubmission", "ID is required")
	}
	idVal := toInt64(id)

	urls, _ := entry["FILEURL"].([]string)
	exts := make([]string, len(files))
	for i, data := range files {
		var url string
		if i < len(urls) {
			url = urls[i]
		}
		exts[i] = filestore.GuessExtension(url, data)
	}

	dir := filestore.SubmissionDir(filepath.Clean(filesFolder), idVal)
	if _, err := filestore.WriteSubmissionFiles(dir, files, exts); err != nil {
		return err
	}
	if _, err := filestore.WriteThumbnail(dir, thumbnail); err != nil {
		return err
	}

	merged := make(map[string]interface{}, len(entry)+2)
	for k, v := range entry {
		merged[k] = v
	}
	merged["FILEEXT"] = exts
	merged["FILESAVED"] = filestore.FilesaveBits(files, thumbnail)
	return s.Table.Insert(ctx, conn, merged, mode)
}

// GetSubmissionFiles returns the on-disk paths of id's primary files
// (nil if FILESAVED's any-file bit is unset) and thumbnail (empty if
// FILESAVED's thumbnail bit is unset).
func (s *SubmissionsTable) GetSubmissionFiles(ctx context.Context, conn schema.Querier, filesFolder string, id int64) ([]string, string, error) {
	rows, err := s.Table.Get(ctx, conn, id)
	if err != nil {
		return nil, "", err
	}
	if len(rows) == 0 {
		return nil, "", notFoundErr("tables.SubmissionsTable.GetSubmissionFiles", id)
	}
	filesaved := toInt64(rows[0]["FILESAVED"])
	fileext, _ := rows[0]["FILEEXT"].([]string)
	files, thumb := filestore.SubmissionFiles(filesFolder, id, filesaved, fileext)
	return files, thumb, nil
}

// SetFilesaved, SetFolder and SetUserUpdate each read-modify-write a
// single column, reporting whether the stored value actually changed.
func (s *SubmissionsTable) SetFilesaved(ctx context.Context, conn schema.Querier, id int64, value int64) (bool, error) {
	return setScalarIfChanged(ctx, conn, s.Table, "ID", id, "FILESAVED", value)
}

func (s *SubmissionsTable) SetFolder(ctx context.Context, conn schema.Querier, id int64, folder string) (bool, error) {
	return setScalarIfChanged(ctx, conn, s.Table, "ID", id, "FOLDER", folder)
}

func (s *SubmissionsTable) SetUserUpdate(ctx context.Context, conn schema.Querier, id int64, value bool) (bool, error) {
	return setScalarIfChanged(ctx, conn, s.Table, "ID", id, "USERUPDATE", value)
}

// AddFavorite/RemoveFavorite and AddMention/RemoveMention delegate to the
// generic list ops, normalising the username first.
func (s *SubmissionsTable) AddFavorite(ctx context.Context, conn schema.Querier, id int64, user string) (bool, error) {
	return s.Table.AddToList(ctx, conn, id, "FAVORITE", []string{NormalizeUsername(user)})
}

func (s *SubmissionsTable) RemoveFavorite(ctx context.Context, conn schema.Querier, id int64, user string) (bool, error) {
	return s.Table.RemoveFromList(ctx, conn, id, "FAVORITE", []string{NormalizeUsername(user)})
}

func (s *SubmissionsTable) AddMention(ctx context.Context, conn schema.Querier, id int64, user string) (bool, error) {
	return s.Table.AddToList(ctx, conn, id, "MENTIONS", []string{NormalizeUsername(user)})
}

func (s *SubmissionsTable) RemoveMention(ctx context.Context, conn schema.Querier, id int64, user string) (bool, error) {
	return s.Table.RemoveFromList(ctx, conn, id, "MENTIONS", []string{NormalizeUsername(user)})
}
