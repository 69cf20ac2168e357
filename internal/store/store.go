// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

// Package store is the database facade: connection lifecycle, the
// formatted/init() decision, version verification, the six table
// handles, and backup. It is the one package that actually owns a
// *sql.DB, so every other package (schema, tables) stays free of
// connection-lifecycle concerns.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/repovault/internal/config"
	"github.com/tomtom215/repovault/internal/dberrors"
	"github.com/tomtom215/repovault/internal/logging"
	"github.com/tomtom215/repovault/internal/tables"
	"github.com/tomtom215/repovault/internal/version"
)

// Precision selects how many leading version components CompareVersion
// inspects.
type Precision int

const (
	PrecisionMajor Precision = 1
	PrecisionMinor Precision = 2
	PrecisionPatch Precision = 3
)

// ProcessScanner enumerates live processes and reports which ones hold
// path open. This is the injectable seam for process enumeration, kept
// out of core scope — the core only owns the interface and a
// best-effort default.
type ProcessScanner interface {
	OpenHandles(path string) ([]int, error)
}

// noScanner is the default ProcessScanner: it never finds another
// handle, which keeps check_connection a no-op unless the embedder
// injects a real scanner.
type noScanner struct{}

func (noScanner) OpenHandles(string) ([]int, error) { return nil, nil }

// Database is the facade over one open store file.
type Database struct {
	path    string
	conn    *sql.DB
	tx      *sql.Tx
	cfg     *config.Config
	scanner ProcessScanner

	Users       *tables.UsersTable
	Submissions *tables.SubmissionsTable
	Journals    *tables.JournalsTable
	Comments    *tables.CommentsTable
	Settings    *tables.SettingsTable
	History     *tables.HistoryTable

	totalChanges     int64
	committedChanges int64
}

// OpenOptions configures Open.
type OpenOptions struct {
	Config        *config.Config
	Scanner       ProcessScanner
	VerifyVersion bool
}

// Open resolves path, optionally checks for other live handles to the
// same file, opens the connection, builds the six table handles, and
// either formats a fresh store or verifies an existing one's version.
func Open(ctx context.Context, path string, opts OpenOptions) (*Database, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	scanner := opts.Scanner
	if scanner == nil {
		scanner = noScanner{}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, dberrors.Wrap(dberrors.KindIO, "store.Open", "%v", err)
	}

	if _, err := CheckConnection(scanner, abs, true, cfg.Database.MaxConnections); err != nil {
		return nil, err
	}

	conn, err := sql.Open("duckdb", abs)
	if err != nil {
		return nil, dberrors.Wrap(dberrors.KindDatabase, "store.Open", "%v", err)
	}

	db := &Database{
		path:        abs,
		conn:        conn,
		cfg:         cfg,
		scanner:     scanner,
		Users:       tables.NewUsersTable(),
		Submissions: tables.NewSubmissionsTable(),
		Journals:    tables.NewJournalsTable(),
		Comments:    tables.NewCommentsTable(),
		Settings:    tables.NewSettingsTable(),
		History:     tables.NewHistoryTable(),
	}

	formatted, err := db.IsFormatted(ctx)
	if err != nil {
		conn.Close()
		return nil, err
	}

	if !formatted {
		if err := db.init(ctx); err != nil {
			conn.Close()
			return nil, err
		}
		logging.Info().Str("path", abs).Msg("store initialized")
	} else if opts.VerifyVersion {
		stored, found, err := db.Settings.Version(ctx, db.querier())
		if err != nil {
			conn.Close()
			return nil, err
		}
		if !found {
			conn.Close()
			return nil, dberrors.Wrap(dberrors.KindVersion, "store.Open", "%s: SETTINGS.VERSION missing", abs)
		}
		if err := CompareVersion(stored, cfg.Database.BuildVersion, PrecisionMajor); err != nil {
			conn.Close()
			return nil, err
		}
	}

	return db, nil
}

// querier returns the active transaction if one is open, else the
// connection itself — every table call routes through this.
func (d *Database) querier() interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
} {
	if d.tx != nil {
		return d.tx
	}
	return d.conn
}

// IsFormatted reports whether SETTINGS exists and carries a non-null
// VERSION.
func (d *Database) IsFormatted(ctx context.Context) (bool, error) {
	var n int
	row := d.conn.QueryRowContext(ctx,
		"select count(*) from information_schema.tables where table_name = 'SETTINGS'")
	if err := row.Scan(&n); err != nil {
		return false, dberrors.Wrap(dberrors.KindDatabase, "store.Database.IsFormatted", "%v", err)
	}
	if n == 0 {
		return false, nil
	}
	v, found, err := d.Settings.Version(ctx, d.conn)
	if err != nil {
		return false, err
	}
	return found && v != "", nil
}

// init creates every table and seeds SETTINGS.
func (d *Database) init(ctx context.Context) error {
	for _, create := range []func() error{
		func() error { return d.Users.Create(ctx, d.conn) },
		func() error { return d.Submissions.Create(ctx, d.conn) },
		func() error { return d.Journals.Create(ctx, d.conn) },
		func() error { return d.Comments.Create(ctx, d.conn) },
		func() error { return d.Settings.Create(ctx, d.conn) },
		func() error { return d.History.Create(ctx, d.conn) },
	} {
		if err := create(); err != nil {
			return err
		}
	}
	return d.Settings.EnsureInitialized(ctx, d.conn, d.cfg.Database.FilesFolderName, d.cfg.Database.BuildVersion)
}

// CompareVersion returns a VersionError iff a and b differ within the
// first precision components (1=major, 2=major.minor, 3=major.minor.patch).
// A blank a is always an error (missing version).
func CompareVersion(a, b string, precision Precision) error {
	if a == "" {
		return dberrors.Wrap(dberrors.KindVersion, "store.CompareVersion", "version missing")
	}
	pa, pb := version.Parts(a), version.Parts(b)
	n := int(precision)
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(pa) {
			x = pa[i]
		}
		if i < len(pb) {
			y = pb[i]
		}
		if x != y {
			return dberrors.Wrap(dberrors.KindVersion, "store.CompareVersion", "store version %s incompatible with build version %s", a, b)
		}
	}
	return nil
}

// CheckConnection asks scanner for every live handle to path. If
// raiseForError and the count exceeds limit, it returns a
// MultipleConnections error; the handle list is returned regardless so
// callers can report it even when not raising.
func CheckConnection(scanner ProcessScanner, path string, raiseForError bool, limit int) ([]int, error) {
	if scanner == nil {
		scanner = noScanner{}
	}
	pids, err := scanner.OpenHandles(path)
	if err != nil {
		return nil, dberrors.Wrap(dberrors.KindIO, "store.CheckConnection", "%v", err)
	}
	if raiseForError && len(pids) > limit {
		return pids, dberrors.Wrap(dberrors.KindMultipleConnections, "store.CheckConnection",
			"%d open handles to %s exceed limit %d", len(pids), path, limit)
	}
	return pids, nil
}

// Execute is a thin pass-through for internal callers that need to
// issue raw SQL (migration/merge steps). It tracks affected rows so
// IsClean can tell committed from uncommitted state.
func (d *Database) Execute(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	res, err := d.querier().ExecContext(ctx, query, args...)
	if err != nil {
		return nil, dberrors.Wrap(dberrors.KindDatabase, "store.Database.Execute", "%v", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		d.totalChanges += n
	}
	return res, nil
}

// Begin opens a transaction; subsequent table calls against this
// Database route through it until Commit/Rollback.
func (d *Database) Begin(ctx context.Context) error {
	if d.tx != nil {
		return dberrors.Wrap(dberrors.KindDatabase, "store.Database.Begin", "transaction already open")
	}
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return dberrors.Wrap(dberrors.KindDatabase, "store.Database.Begin", "%v", err)
	}
	d.tx = tx
	return nil
}

// Commit commits the open transaction and synchronises the
// committed-changes counter with the running total.
func (d *Database) Commit() error {
	if d.tx == nil {
		return nil
	}
	err := d.tx.Commit()
	d.tx = nil
	if err != nil {
		return dberrors.Wrap(dberrors.KindDatabase, "store.Database.Commit", "%v", err)
	}
	d.committedChanges = d.totalChanges
	return nil
}

// Rollback discards the open transaction, leaving the committed
// counter untouched and the running total rolled back to match it.
func (d *Database) Rollback() error {
	if d.tx == nil {
		return nil
	}
	err := d.tx.Rollback()
	d.tx = nil
	d.totalChanges = d.committedChanges
	if err != nil {
		return dberrors.Wrap(dberrors.KindDatabase, "store.Database.Rollback", "%v", err)
	}
	return nil
}

// IsClean reports whether every change since open/commit has been
// committed.
func (d *Database) IsClean() bool {
	return d.totalChanges == d.committedChanges
}

// Close closes the underlying connection, rolling back any open
// transaction first.
func (d *Database) Close() error {
	if d.tx != nil {
		_ = d.Rollback()
	}
	return d.conn.Close()
}

// Path returns the store file's resolved absolute path.
func (d *Database) Path() string { return d.path }

// Conn exposes the raw connection for callers (migrate, merge) that
// need to ATTACH a sibling database or open a second connection to the
// same file.
func (d *Database) Conn() *sql.DB { return d.conn }

// Config returns the configuration Open was given.
func (d *Database) Config() *config.Config { return d.cfg }

func (d *Database) String() string {
	return fmt.Sprintf("store.Database(%s)", d.path)
}
