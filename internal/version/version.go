// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

// Package version implements the store's dotted/hyphenated version
// comparison: split on '-' then '.', zero-fill to three components,
// lexical-numeric compare. Used by the store facade to reject a stored
// VERSION incompatible with the build, and by the migration engine to
// pick the next dispatch step.
package version

import (
	"strconv"
	"strings"
)

// parts splits v on '-' (pre-release suffix, compared as a fourth
// component after the dotted core) then on '.', returning exactly three
// numeric components for the dotted core plus an optional trailing one
// for whatever followed '-'.
func parts(v string) []int {
	core := v
	suffix := ""
	if i := strings.IndexByte(v, '-'); i >= 0 {
		core = v[:i]
		suffix = v[i+1:]
	}
	segs := strings.Split(core, ".")
	out := make([]int, 3)
	for i := 0; i < 3 && i < len(segs); i++ {
		n, _ := strconv.Atoi(segs[i])
		out[i] = n
	}
	if suffix != "" {
		n, _ := strconv.Atoi(suffix)
		out = append(out, n)
	}
	return out
}

// Compare returns -1, 0 or 1 as a is less than, equal to, or greater
// than b under the split/zero-fill order. Missing components compare as
// zero, so "5.2" == "5.2.0" and "5.2" < "5.2.1".
func Compare(a, b string) int {
	pa, pb := parts(a), parts(b)
	n := len(pa)
	if len(pb) > n {
		n = len(pb)
	}
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(pa) {
			x = pa[i]
		}
		if i < len(pb) {
			y = pb[i]
		}
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Parts exposes the same split/zero-fill decomposition Compare uses,
// for callers (store.CompareVersion) that need to compare only a
// leading prefix of components (e.g. major.minor, ignoring patch).
func Parts(v string) []int { return parts(v) }

// Less reports whether a sorts strictly before b.
func Less(a, b string) bool { return Compare(a, b) < 0 }

// Equal reports whether a and b compare equal.
func Equal(a, b string) bool { return Compare(a, b) == 0 }
