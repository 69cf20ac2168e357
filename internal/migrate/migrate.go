// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

// Package migrate implements the version-dispatch migration engine: a
// linear chain of pure per-hop steps, each of which builds a fresh
// schema in a ".new_" sibling file, populates it from the source
// connection via ATTACH, and swaps the files in on success.
//
// migrate intentionally does not import internal/store — store.Upgrade
// calls into migrate, never the other way, so there is no import cycle.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"

	"github.com/tomtom215/repovault/internal/dberrors"
	"github.com/tomtom215/repovault/internal/logging"
	"github.com/tomtom215/repovault/internal/version"
)

// Step is one logical hop in the migration chain: a pure function of
// the source connection and the old/new file paths, returning
// human-readable progress counters.
type Step struct {
	From string
	To   string
	Run  func(ctx context.Context, conn *sql.DB, oldPath, newPath string) ([]string, error)
}

// Chain is the full dispatch table, lowest supported version first.
// Every hop, including the version-only hops built by
// stepPatchVersionOnly, rebuilds the store into a new file; no hop
// updates SETTINGS.VERSION in place.
var Chain = []Step{
	{From: "4.19", To: "5.0", Run: step419To50},
	{From: "5.0", To: "5.0.10", Run: step50To5010},
	{From: "5.0.10", To: "5.1", Run: step5010To51},
	{From: "5.1", To: "5.1.2", Run: step51To512},
	{From: "5.1.2", To: "5.2", Run: stepPatchVersionOnly("5.2")},
	{From: "5.2", To: "5.2.2", Run: stepPatchVersionOnly("5.2.2")},
	{From: "5.2.2", To: "5.3", Run: step522To53},
	{From: "5.3", To: "5.3.4", Run: step53To534},
	{From: "5.3.4", To: "5.4", Run: step534To54},
}

// MinSupportedVersion is the oldest on-disk version the chain accepts;
// anything older is rejected outright.
const MinSupportedVersion = "4.19"

// Upgrade runs every chain hop whose From is >= the store's current
// version and < target, in order, swapping the backing file at each
// hop. It returns the final path (equal to the original path — the
// last hop's rename always restores the original basename) and the
// accumulated human-readable messages.
func Upgrade(ctx context.Context, path, currentVersion, target string) (string, []string, error) {
	if version.Less(currentVersion, MinSupportedVersion) {
		return "", nil, dberrors.Wrap(dberrors.KindVersion, "migrate.Upgrade",
			"store version %s is older than the minimum supported version %s", currentVersion, MinSupportedVersion)
	}

	var messages []string
	cur := currentVersion
	curPath := path

	for _, step := range Chain {
		if !version.Equal(cur, step.From) {
			continue
		}
		if version.Less(target, step.To) {
			break
		}

		conn, err := sql.Open("duckdb", curPath)
		if err != nil {
			return "", messages, dberrors.Wrap(dberrors.KindDatabase, "migrate.Upgrade", "%v", err)
		}

		attempt := newAttemptSuffix()
		msgs, newPath, err := runStep(ctx, conn, curPath, step)
		conn.Close()
		if err != nil {
			return "", messages, err
		}
		messages = append(messages, msgs...)
		curPath = newPath
		cur = step.To

		logging.Info().Str("from", step.From).Str("to", step.To).Str("attempt", attempt).Msg("migration step complete")

		if version.Equal(cur, target) {
			break
		}
	}

	if !version.Equal(cur, target) {
		return "", messages, dberrors.Wrap(dberrors.KindVersion, "migrate.Upgrade",
			"no migration path from %s to %s", currentVersion, target)
	}
	return curPath, messages, nil
}

// runStep implements the five-point step wrapper: create a ".new_"
// sibling (unlinking any previous attempt), run the step against it,
// close the source connection, rename the original for rollback, rename
// the sibling into its place.
func runStep(ctx context.Context, conn *sql.DB, oldPath string, step Step) ([]string, string, error) {
	dir := filepath.Dir(oldPath)
	base := filepath.Base(oldPath)
	newPath := filepath.Join(dir, ".new_"+base)

	os.Remove(newPath)

	messages, err := step.Run(ctx, conn, oldPath, newPath)
	if err != nil {
		os.Remove(newPath)
		return nil, "", dberrors.Wrap(dberrors.KindDatabase, "migrate.runStep", "%s -> %s: %v", step.From, step.To, err)
	}
	conn.Close()

	rollbackName := filepath.Join(dir, fmt.Sprintf("v%s_%s", step.From, base))
	if err := os.Rename(oldPath, rollbackName); err != nil {
		os.Remove(newPath)
		return nil, "", dberrors.Wrap(dberrors.KindIO, "migrate.runStep", "%v", err)
	}
	if err := os.Rename(newPath, oldPath); err != nil {
		return nil, "", dberrors.Wrap(dberrors.KindIO, "migrate.runStep", "%v", err)
	}
	return messages, oldPath, nil
}

// attachNew ATTACHes newPath to conn as db_new, creating the file if
// absent, for steps to populate via cross-database INSERT ... SELECT.
func attachNew(ctx context.Context, conn *sql.DB, newPath string) error {
	_, err := conn.ExecContext(ctx, fmt.Sprintf("attach '%s' as db_new (type duckdb)", newPath))
	if err != nil {
		return dberrors.Wrap(dberrors.KindDatabase, "migrate.attachNew", "%v", err)
	}
	return nil
}

func detachNew(ctx context.Context, conn *sql.DB) error {
	_, err := conn.ExecContext(ctx, "detach db_new")
	if err != nil {
		return dberrors.Wrap(dberrors.KindDatabase, "migrate.detachNew", "%v", err)
	}
	return nil
}

// newAttemptSuffix tags one migration-step attempt with a short
// correlation id for the step-complete log line, so repeated attempts
// after a failed step are distinguishable in logs.
func newAttemptSuffix() string {
	return uuid.NewString()[:8]
}

// stepPatchVersionOnly builds a version-only hop, used for the two hops
// between USERS gaining ACTIVE (5.1) and JOURNALS gaining HEADER/FOOTER
// (5.4): it copies every table into the new file and sets
// SETTINGS.VERSION there. Every table but JOURNALS already matches db_new's current schema, so
// only JOURNALS needs the legacy (no HEADER/FOOTER) copy path.
func stepPatchVersionOnly(to string) func(ctx context.Context, conn *sql.DB, oldPath, newPath string) ([]string, error) {
	return func(ctx context.Context, conn *sql.DB, oldPath, newPath string) ([]string, error) {
		if err := createSchemaCopy(ctx, conn, newPath); err != nil {
			return nil, err
		}
		if err := attachNew(ctx, conn, newPath); err != nil {
			return nil, err
		}
		defer detachNew(ctx, conn)

		if err := copyTablesVerbatim(ctx, conn, []string{"USERS", "SUBMISSIONS", "COMMENTS", "SETTINGS", "HISTORY"}); err != nil {
			return nil, err
		}
		if err := copyJournalsLegacy(ctx, conn); err != nil {
			return nil, err
		}
		if _, err := conn.ExecContext(ctx, fmt.Sprintf("update db_new.SETTINGS set SVALUE = '%s' where SETTING = 'VERSION'", to)); err != nil {
			return nil, dberrors.Wrap(dberrors.KindDatabase, "migrate.stepPatchVersionOnly", "%v", err)
		}
		return []string{fmt.Sprintf("version updated to %s", to)}, nil
	}
}
