// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/repovault/internal/config"
)

var testDBSemaphore = make(chan struct{}, 1)

func withSemaphore(t *testing.T) {
	t.Helper()
	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })
}

func TestOpenInitializesFreshStore(t *testing.T) {
	withSemaphore(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "repo.duckdb")

	db, err := Open(ctx, path, OpenOptions{Config: config.Default()})
	require.NoError(t, err)
	defer db.Close()

	formatted, err := db.IsFormatted(ctx)
	require.NoError(t, err)
	assert.True(t, formatted)

	v, found, err := db.Settings.Version(ctx, db.Conn())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, config.Default().Database.BuildVersion, v)
}

func TestOpenRejectsMismatchedVersionWhenVerifying(t *testing.T) {
	withSemaphore(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "repo.duckdb")

	cfg := config.Default()
	db, err := Open(ctx, path, OpenOptions{Config: cfg})
	require.NoError(t, err)
	require.NoError(t, db.Settings.SetVersion(ctx, db.Conn(), "1.0"))
	require.NoError(t, db.Close())

	_, err = Open(ctx, path, OpenOptions{Config: cfg, VerifyVersion: true})
	require.Error(t, err)
}

func TestCheckConnectionRaisesOverLimit(t *testing.T) {
	scanner := fakeScanner{pids: []int{1, 2, 3}}
	_, err := CheckConnection(scanner, "/tmp/x.duckdb", true, 1)
	require.Error(t, err)

	_, err = CheckConnection(scanner, "/tmp/x.duckdb", false, 1)
	require.NoError(t, err)
}

type fakeScanner struct{ pids []int }

func (f fakeScanner) OpenHandles(string) ([]int, error) { return f.pids, nil }

func TestBackupCopiesAtomically(t *testing.T) {
	withSemaphore(t)
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "repo.duckdb")

	db, err := Open(ctx, path, OpenOptions{Config: config.Default()})
	require.NoError(t, err)
	defer db.Close()

	backupDir := filepath.Join(dir, "backup")
	dest, err := db.Backup(ctx, backupDir)
	require.NoError(t, err)

	_, err = os.Stat(dest)
	require.NoError(t, err)
	_, err = os.Stat(dest + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestCompareVersionPrecision(t *testing.T) {
	require.NoError(t, CompareVersion("5.2.3", "5.2.9", PrecisionMinor))
	require.Error(t, CompareVersion("5.1.3", "5.2.9", PrecisionMinor))
	require.Error(t, CompareVersion("", "5.2.9", PrecisionMajor))
}
