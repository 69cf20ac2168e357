// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package store

import (
	"context"
	"database/sql"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/repovault/internal/dberrors"
	"github.com/tomtom215/repovault/internal/migrate"
)

// Upgrade runs the migration engine from the store's current
// SETTINGS.VERSION to the configured build version, then re-opens the
// (now rewritten-in-place) file with version checks disabled. The
// receiver's connection is closed and replaced; callers must not use
// any Database method concurrently with Upgrade.
func (d *Database) Upgrade(ctx context.Context) ([]string, error) {
	current, found, err := d.Settings.Version(ctx, d.querier())
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, dberrors.Wrap(dberrors.KindVersion, "store.Database.Upgrade", "SETTINGS.VERSION missing")
	}

	if err := d.conn.Close(); err != nil {
		return nil, dberrors.Wrap(dberrors.KindDatabase, "store.Database.Upgrade", "%v", err)
	}

	finalPath, messages, err := migrate.Upgrade(ctx, d.path, current, d.cfg.Database.BuildVersion)
	if err != nil {
		if reopenErr := d.reopen(); reopenErr != nil {
			return messages, reopenErr
		}
		return messages, err
	}
	d.path = finalPath

	return messages, d.reopen()
}

// reopen re-establishes conn against d.path without re-running
// Open's formatted/version-verification checks — used after Upgrade
// has already brought the file to the target version.
func (d *Database) reopen() error {
	conn, err := sql.Open("duckdb", d.path)
	if err != nil {
		return dberrors.Wrap(dberrors.KindDatabase, "store.Database.reopen", "%v", err)
	}
	d.conn = conn
	return nil
}
