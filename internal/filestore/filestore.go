// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package filestore

import (
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/h2non/filetype"

	"github.com/tomtom215/repovault/internal/dberrors"
)

// GuessExtension derives a file's extension from the basename suffix of
// its source URL, then defers to the probe utility (h2non/filetype) when
// the sniffed content type disagrees with that guess.
func GuessExtension(sourceURL string, data []byte) string {
	guess := extFromURL(sourceURL)
	if len(data) == 0 {
		return guess
	}
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return guess
	}
	if !strings.EqualFold(kind.Extension, guess) {
		return kind.Extension
	}
	return guess
}

func extFromURL(sourceURL string) string {
	u, err := url.Parse(sourceURL)
	base := sourceURL
	if err == nil && u.Path != "" {
		base = u.Path
	}
	ext := path.Ext(path.Base(base))
	return strings.TrimPrefix(ext, ".")
}

// WriteSubmissionFiles writes each non-empty file under dir, named
// submission[N][.ext] in parallel with files/exts, creating dir as
// needed. Empty entries are skipped (no file written, no path returned).
func WriteSubmissionFiles(dir string, files [][]byte, exts []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, dberrors.Wrap(dberrors.KindIO, "filestore.WriteSubmissionFiles", "%v", err)
	}
	written := make([]string, 0, len(files))
	for i, data := range files {
		if len(data) == 0 {
			continue
		}
		ext := ""
		if i < len(exts) {
			ext = exts[i]
		}
		name := SubmissionFileName(i, ext)
		full := dir + string(os.PathSeparator) + name
		if err := os.WriteFile(full, data, 0o644); err != nil {
			return nil, dberrors.Wrap(dberrors.KindIO, "filestore.WriteSubmissionFiles", "%v", err)
		}
		written = append(written, full)
	}
	return written, nil
}

// WriteThumbnail writes thumbnail.jpg under dir if data is non-empty.
func WriteThumbnail(dir string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", dberrors.Wrap(dberrors.KindIO, "filestore.WriteThumbnail", "%v", err)
	}
	full := dir + string(os.PathSeparator) + ThumbnailFileName
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", dberrors.Wrap(dberrors.KindIO, "filestore.WriteThumbnail", "%v", err)
	}
	return full, nil
}

// FilesaveBits computes the FILESAVED three-bit flag: bit0=thumbnail
// present, bit1=any file present, bit2=all files present.
func FilesaveBits(files [][]byte, thumbnail []byte) int64 {
	var flag int64
	any, all := false, len(files) > 0
	for _, f := range files {
		if len(f) > 0 {
			any = true
		} else {
			all = false
		}
	}
	if any {
		flag |= 2
	}
	if all {
		flag |= 4
	}
	if len(thumbnail) > 0 {
		flag |= 1
	}
	return flag
}

// SubmissionFiles returns the paths of every primary file under
// SubmissionDir(filesFolder, id) for the given FILEEXT list, present iff
// FILESAVED's bit1 is set, plus the thumbnail path iff bit0 is set.
func SubmissionFiles(filesFolder string, id int64, filesaved int64, fileext []string) ([]string, string) {
	dir := SubmissionDir(filesFolder, id)
	var files []string
	if filesaved&2 != 0 {
		for i, ext := range fileext {
			files = append(files, dir+string(os.PathSeparator)+SubmissionFileName(i, ext))
		}
	}
	var thumb string
	if filesaved&1 != 0 {
		thumb = dir + string(os.PathSeparator) + ThumbnailFileName
	}
	return files, thumb
}
