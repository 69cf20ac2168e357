// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package tables

import (
	"context"

	"github.com/tomtom215/repovault/internal/codec"
	"github.com/tomtom215/repovault/internal/schema"
)

// Well-known SETTINGS keys.
const (
	SettingVersion      = "VERSION"
	SettingFilesFolder  = "FILESFOLDER"
	SettingBackupFolder = "BACKUPFOLDER"
	SettingBBCode       = "BBCODE"
)

// SettingsTable models SETTINGS: key SETTING, single attribute SVALUE,
// with scalar get/set projected through SVALUE instead of returning a
// one-column entry.
type SettingsTable struct {
	*schema.Table
}

// NewSettingsTable declares the SETTINGS schema.
func NewSettingsTable() *SettingsTable {
	t := schema.NewTable("SETTINGS", []schema.Column{
		{Name: "SETTING", Kind: codec.Text{}, NotNull: true, Check: "length({name}) >= 1"},
		{Name: "SVALUE", Kind: codec.Text{}, Check: "{name} is null or length({name}) >= 1"},
	}, []string{"SETTING"}, true)
	return &SettingsTable{Table: t}
}

// Value returns the SVALUE for key and whether the row exists at all.
func (s *SettingsTable) Value(ctx context.Context, conn schema.Querier, key string) (string, bool, error) {
	rows, err := s.Table.Get(ctx, conn, key)
	if err != nil {
		return "", false, err
	}
	if len(rows) == 0 {
		return "", false, nil
	}
	v, _ := rows[0]["SVALUE"].(string)
	return v, true, nil
}

// SetValue inserts-or-replaces (key, value).
func (s *SettingsTable) SetValue(ctx context.Context, conn schema.Querier, key, value string) error {
	return s.Table.Set(ctx, conn, key, map[string]interface{}{"SVALUE": value})
}

func (s *SettingsTable) Version(ctx context.Context, conn schema.Querier) (string, bool, error) {
	return s.Value(ctx, conn, SettingVersion)
}

func (s *SettingsTable) SetVersion(ctx context.Context, conn schema.Querier, v string) error {
	return s.SetValue(ctx, conn, SettingVersion, v)
}

func (s *SettingsTable) FilesFolder(ctx context.Context, conn schema.Querier) (string, bool, error) {
	return s.Value(ctx, conn, SettingFilesFolder)
}

func (s *SettingsTable) SetFilesFolder(ctx context.Context, conn schema.Querier, v string) error {
	return s.SetValue(ctx, conn, SettingFilesFolder, v)
}

func (s *SettingsTable) BackupFolder(ctx context.Context, conn schema.Querier) (string, bool, error) {
	return s.Value(ctx, conn, SettingBackupFolder)
}

func (s *SettingsTable) SetBackupFolder(ctx context.Context, conn schema.Querier, v string) error {
	return s.SetValue(ctx, conn, SettingBackupFolder, v)
}

// BBCode returns the BBCODE setting as a bool ("true"/"false").
func (s *SettingsTable) BBCode(ctx context.Context, conn schema.Querier) (bool, bool, error) {
	v, found, err := s.Value(ctx, conn, SettingBBCode)
	if err != nil || !found {
		return false, found, err
	}
	return v == "true", true, nil
}

func (s *SettingsTable) SetBBCode(ctx context.Context, conn schema.Querier, v bool) error {
	value := "false"
	if v {
		value = "true"
	}
	return s.SetValue(ctx, conn, SettingBBCode, value)
}

// EnsureInitialized seeds FILESFOLDER and VERSION when absent, the
// one-time seeding a freshly created store needs.
func (s *SettingsTable) EnsureInitialized(ctx context.Context, conn schema.Querier, defaultFilesFolder, buildVersion string) error {
	if _, found, err := s.FilesFolder(ctx, conn); err != nil {
		return err
	} else if !found {
		if err := s.SetFilesFolder(ctx, conn, defaultFilesFolder); err != nil {
			return err
		}
	}
	if _, found, err := s.Version(ctx, conn); err != nil {
		return err
	} else if !found {
		if err := s.SetVersion(ctx, conn, buildVersion); err != nil {
			return err
		}
	}
	return nil
}
