// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package merge

import (
	"context"

	"github.com/tomtom215/repovault/internal/dberrors"
	"github.com/tomtom215/repovault/internal/schema"
	"github.com/tomtom215/repovault/internal/store"
)

// checkPreconditions validates all six rules before a single row is
// transferred: destination formatted, no cursor
// belonging to the destination itself, destination version matches
// build, every source matches the destination's version, BBCODE
// agrees across every participant, and each cursor's column set equals
// the destination table's.
func checkPreconditions(ctx context.Context, dest *store.Database, cursors []Cursor) error {
	formatted, err := dest.IsFormatted(ctx)
	if err != nil {
		return err
	}
	if !formatted {
		return dberrors.Wrap(dberrors.KindSchema, "merge.checkPreconditions", "destination is not formatted")
	}

	destVersion, found, err := dest.Settings.Version(ctx, dest.Conn())
	if err != nil {
		return err
	}
	if !found {
		return dberrors.Wrap(dberrors.KindVersion, "merge.checkPreconditions", "destination VERSION missing")
	}
	buildVersion := dest.Config().Database.BuildVersion
	if destVersion != buildVersion {
		return dberrors.Wrap(dberrors.KindVersion, "merge.checkPreconditions",
			"destination version %s does not match build version %s", destVersion, buildVersion)
	}

	destBBCode, destFound, err := dest.Settings.BBCode(ctx, dest.Conn())
	if err != nil {
		return err
	}

	for _, cursor := range cursors {
		if cursor.Source.Path() == dest.Path() {
			return dberrors.Wrap(dberrors.KindSchema, "merge.checkPreconditions",
				"cursor on table %s belongs to the destination database", cursor.Table)
		}

		srcVersion, found, err := cursor.Source.Settings.Version(ctx, cursor.Source.Conn())
		if err != nil {
			return err
		}
		if !found || srcVersion != destVersion {
			return dberrors.Wrap(dberrors.KindVersion, "merge.checkPreconditions",
				"source for table %s has version %q, destination has %q", cursor.Table, srcVersion, destVersion)
		}

		srcBBCode, srcFound, err := cursor.Source.Settings.BBCode(ctx, cursor.Source.Conn())
		if err != nil {
			return err
		}
		if srcFound != destFound || (srcFound && srcBBCode != destBBCode) {
			return dberrors.Wrap(dberrors.KindSchema, "merge.checkPreconditions",
				"source for table %s has a BBCODE setting that does not match the destination", cursor.Table)
		}

		destTable, err := tableFor(dest, cursor.Table)
		if err != nil {
			return err
		}
		srcTable, err := tableFor(cursor.Source, cursor.Table)
		if err != nil {
			return err
		}
		if err := checkColumnsEqual(destTable, srcTable, cursor.Table); err != nil {
			return err
		}
	}

	return nil
}

// tableFor resolves one of the six canonical table names against db's
// typed table handles, returning the underlying generic schema.Table.
func tableFor(db *store.Database, name string) (*schema.Table, error) {
	switch name {
	case "USERS":
		return db.Users.Table, nil
	case "SUBMISSIONS":
		return db.Submissions.Table, nil
	case "JOURNALS":
		return db.Journals.Table, nil
	case "COMMENTS":
		return db.Comments.Table, nil
	case "SETTINGS":
		return db.Settings.Table, nil
	case "HISTORY":
		return db.History.Table, nil
	default:
		return nil, dberrors.Wrap(dberrors.KindUnknownSelector, "merge.tableFor", "unknown table %q", name)
	}
}
