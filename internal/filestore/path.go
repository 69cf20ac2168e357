// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

// Package filestore implements the on-disk, content-addressed layout for
// submission files and thumbnails: tiered directory fan-out by numeric
// ID, extension guessing, and read/write of the primary/thumbnail files.
package filestore

import (
	"fmt"
	"path/filepath"
	"strings"
)

// TieredPath zero-pads id to 10 digits and splits it into five 2-digit
// segments, e.g. 14 -> "00/00/00/00/14". ids wider than 10 digits are
// truncated to their first 10 characters, matching the original
// implementation's fixed five-iteration fan-out.
func TieredPath(id int64) string {
	digits := fmt.Sprintf("%010d", id)
	segs := make([]string, 0, 5)
	for i := 0; i < 10; i += 2 {
		segs = append(segs, digits[i:i+2])
	}
	return filepath.Join(segs...)
}

// SubmissionDir joins filesFolder with id's tiered path.
func SubmissionDir(filesFolder string, id int64) string {
	return filepath.Join(filesFolder, TieredPath(id))
}

// SubmissionFileName returns "submission[.ext]" for index 0 and
// "submission<N>[.ext]" for index N>0, matching FILEURL/FILEEXT's
// parallel ordering.
func SubmissionFileName(index int, ext string) string {
	name := "submission"
	if index > 0 {
		name = fmt.Sprintf("submission%d", index)
	}
	if ext != "" {
		name += "." + strings.TrimPrefix(ext, ".")
	}
	return name
}

// ThumbnailFileName is always "thumbnail.jpg".
const ThumbnailFileName = "thumbnail.jpg"
