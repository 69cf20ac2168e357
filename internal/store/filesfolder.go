// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package store

import (
	"context"
	"path/filepath"

	"github.com/tomtom215/repovault/internal/dberrors"
)

// FilesFolder resolves SETTINGS.FILESFOLDER to an absolute path: used
// as-is if already absolute, else resolved relative to the store's
// parent directory.
func (d *Database) FilesFolder(ctx context.Context) (string, error) {
	name, found, err := d.Settings.FilesFolder(ctx, d.querier())
	if err != nil {
		return "", err
	}
	if !found || name == "" {
		return "", dberrors.Wrap(dberrors.KindSchema, "store.Database.FilesFolder", "SETTINGS.FILESFOLDER not set")
	}
	if filepath.IsAbs(name) {
		return name, nil
	}
	return filepath.Join(filepath.Dir(d.path), name), nil
}
