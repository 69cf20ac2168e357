// Repovault - Local Artist Repository Engine
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/repovault

// Package query parses the free-form infix query language into selector
// fragments: @field scoping, & / | / juxtaposition boolean operators,
// parenthesised grouping, ! negation, and quoted terms that disable
// wildcard insertion.
package query

import "strings"

// FormatValue applies the wildcard/escaping rules for a single query term.
//
//  1. If quoted, escape %, _, ^, $ with backslash (preserving existing escapes).
//  2. Strip a leading ^ (or leave a leading %), else prepend % if field
//     is in the likes set.
//  3. Strip a trailing unescaped $ (or leave a trailing unescaped %), else
//     append % if field is in the likes set.
func FormatValue(term string, quoted bool, likes bool) string {
	s := term
	if quoted {
		s = escapeWildcards(s)
	}

	if strings.HasPrefix(s, "^") {
		s = s[1:]
	} else if strings.HasPrefix(s, "%") {
		// leave as-is: explicit wildcard anchor
	} else if likes {
		s = "%" + s
	}

	if hasUnescapedSuffix(s, "$") {
		s = s[:len(s)-1]
	} else if hasUnescapedSuffix(s, "%") {
		// leave as-is: explicit wildcard anchor
	} else if likes {
		s = s + "%"
	}

	return s
}

// escapeWildcards backslash-escapes %, _, ^, $ that are not already escaped.
func escapeWildcards(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isWildcard(c) && !precededByBackslash(s, i) {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isWildcard(c byte) bool {
	return c == '%' || c == '_' || c == '^' || c == '$'
}

func precededByBackslash(s string, i int) bool {
	return i > 0 && s[i-1] == '\\'
}

// hasUnescapedSuffix reports whether s ends with suffix and that
// character is not itself backslash-escaped.
func hasUnescapedSuffix(s, suffix string) bool {
	if !strings.HasSuffix(s, suffix) {
		return false
	}
	if len(s) < 2 {
		return true
	}
	return s[len(s)-2] != '\\'
}
