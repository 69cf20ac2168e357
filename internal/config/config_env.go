// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

package config

import (
	"os"
	"strings"
)

// envTransform turns REPOVAULT_DATABASE_MAX_CONNECTIONS into database.max_connections:
// the first underscore after the prefix separates the section from the key,
// matching the dotted koanf key layout used by Config's struct tags.
func envTransform(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ToLower(strings.Replace(s, "_", ".", 1))
}

func isNotExist(err error) bool {
	return os.IsNotExist(err)
}
