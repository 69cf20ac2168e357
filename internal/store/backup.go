// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package store

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tomtom215/repovault/internal/dberrors"
	"github.com/tomtom215/repovault/internal/logging"
)

// Backup copies the store file to
// "<folder>/<stem> <mtime YYYY-MM-DD HH.MM.SS>.<ext>", atomically: it
// writes a ".tmp" sibling first and renames it into place, removing the
// ".tmp" on any failure. folder defaults to SETTINGS.BACKUPFOLDER when
// empty; an empty default is itself an error. Adapted from the
// teacher's atomic tmp-then-rename backup step, trimmed to this single
// on-demand copy — no retention policy, no scheduler, no compression.
func (d *Database) Backup(ctx context.Context, folder string) (string, error) {
	if folder == "" {
		configured, found, err := d.Settings.BackupFolder(ctx, d.querier())
		if err != nil {
			return "", err
		}
		if !found || configured == "" {
			return "", dberrors.Wrap(dberrors.KindIO, "store.Database.Backup", "no backup folder configured")
		}
		folder = configured
		if !filepath.IsAbs(folder) {
			folder = filepath.Join(filepath.Dir(d.path), folder)
		}
	}

	info, err := os.Stat(d.path)
	if err != nil {
		return "", dberrors.Wrap(dberrors.KindIO, "store.Database.Backup", "%v", err)
	}

	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", dberrors.Wrap(dberrors.KindIO, "store.Database.Backup", "%v", err)
	}

	ext := filepath.Ext(d.path)
	stem := strings.TrimSuffix(filepath.Base(d.path), ext)
	name := stem + " " + backupStemTime(info.ModTime()) + ext
	dest := filepath.Join(folder, name)
	tmp := dest + ".tmp"

	if err := copyFile(d.path, tmp); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return "", dberrors.Wrap(dberrors.KindIO, "store.Database.Backup", "%v", err)
	}

	logging.Info().Str("source", d.path).Str("dest", dest).Msg("store backed up")
	return dest, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return dberrors.Wrap(dberrors.KindIO, "store.copyFile", "%v", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return dberrors.Wrap(dberrors.KindIO, "store.copyFile", "%v", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return dberrors.Wrap(dberrors.KindIO, "store.copyFile", "%v", err)
	}
	return out.Sync()
}

// backupStemTime is exposed for tests that need to predict a backup's
// rendered filename without racing os.Stat's mtime resolution.
func backupStemTime(t time.Time) string {
	return t.Format("2006-01-02 15.04.05")
}
