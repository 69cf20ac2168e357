// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "files", cfg.Database.FilesFolderName)
	assert.Equal(t, "backup", cfg.Database.BackupFolderName)
	assert.Equal(t, 1, cfg.Database.MaxConnections)
	assert.Equal(t, "5.4", cfg.Database.BuildVersion)
}

func TestLoadNoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Database.FilesFolderName, cfg.Database.FilesFolderName)
}

func TestLoadMissingFileIgnored(t *testing.T) {
	cfg, err := Load("/does/not/exist.yaml")
	require.NoError(t, err)
	assert.Equal(t, Default().Database.BuildVersion, cfg.Database.BuildVersion)
}

func TestEnvTransform(t *testing.T) {
	assert.Equal(t, "database.max_connections", envTransform("REPOVAULT_DATABASE_MAX_CONNECTIONS"))
}
