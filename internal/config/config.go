// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

// Package config loads the handful of knobs the repository engine exposes
// to its embedder: default folder names, the connection-check limit, and
// the migration engine's floor version. It is deliberately small — the
// engine has no HTTP surface and no per-tenant settings; most
// configuration lives in the SETTINGS table (internal/tables) instead.
package config

import (
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix environment-variable overrides must carry, e.g.
// REPOVAULT_DATABASE_MAX_CONNECTIONS=2.
const EnvPrefix = "REPOVAULT_"

// Config is the engine's top-level configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig controls the store facade and migration engine.
type DatabaseConfig struct {
	// FilesFolderName is the default basename of the on-disk file tree,
	// seeded into SETTINGS.FILESFOLDER on init() if absent.
	FilesFolderName string `koanf:"files_folder_name"`
	// BackupFolderName is the default basename of the backup folder.
	// init() does not seed SETTINGS.BACKUPFOLDER from it; no store code
	// reads this field.
	BackupFolderName string `koanf:"backup_folder_name"`
	// MaxConnections is the limit check_connection enforces when asked to raise.
	MaxConnections int `koanf:"max_connections"`
	// Threads is loaded from configuration only; the store opens DuckDB
	// with the bare file path and does not pass it to the engine.
	Threads int `koanf:"threads"`
	// QueryTimeout is loaded from configuration only; no store call
	// applies it as a deadline.
	QueryTimeout time.Duration `koanf:"query_timeout"`
	// MinSupportedVersion is loaded from configuration only; the migration
	// floor is the migrate package's own MinSupportedVersion constant.
	MinSupportedVersion string `koanf:"min_supported_version"`
	// BuildVersion is the version a freshly formatted store is stamped with,
	// and the version migrations bring an old store up to.
	BuildVersion string `koanf:"build_version"`
}

// LoggingConfig controls internal/logging.Init.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Default returns the built-in defaults, applied before any file/env overrides.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			FilesFolderName:      "files",
			BackupFolderName:     "backup",
			MaxConnections:       1,
			Threads:              0,
			QueryTimeout:         30 * time.Second,
			MinSupportedVersion:  "4.19",
			BuildVersion:         "5.4",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds a Config from, in increasing priority: built-in defaults, an
// optional YAML file at path (skipped if empty or missing), then
// REPOVAULT_-prefixed environment variables (defaults -> file -> env).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !isNotExist(err) {
				return nil, err
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
