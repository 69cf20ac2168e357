// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

// Package tables implements the six domain tables on top of the
// generic schema.Table CRUD contract: USERS, SUBMISSIONS, JOURNALS,
// COMMENTS, SETTINGS and HISTORY, plus their entity-specific behaviours.
package tables

import "strings"

// NormalizeUsername lowercases name and drops any character outside
// [a-z0-9.~-], the invariant every stored USERNAME and every
// FAVORITE/MENTIONS entry must satisfy.
func NormalizeUsername(name string) string {
	lower := strings.ToLower(name)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '~', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}
